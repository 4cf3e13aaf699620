package core

import (
	"context"
	"testing"
)

// stubRepo satisfies Repository and counts Tenants calls. Only the methods
// the sweep touches do anything.
type stubRepo struct {
	Repository
	tenantsCalls int
}

func (r *stubRepo) Tenants(context.Context) ([]*Tenant, error) {
	r.tenantsCalls++
	return nil, nil
}

func TestRunSweepJob_SingleFlight(t *testing.T) {
	repo := &stubRepo{}
	s := NewService(repo, nil, 0)

	// Simulate a sweep still in flight.
	s.sweepRunning.Lock()
	s.runSweepJob(context.Background())
	s.sweepRunning.Unlock()

	if repo.tenantsCalls != 0 {
		t.Errorf("expected overlapping sweep to be skipped, got %d list calls", repo.tenantsCalls)
	}

	s.runSweepJob(context.Background())
	if repo.tenantsCalls != 1 {
		t.Errorf("expected sweep to run once the lock is free, got %d list calls", repo.tenantsCalls)
	}
}
