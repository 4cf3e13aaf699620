package core

// scheduler.go provides the background reconciliation jobs.
//
// Two timers run from one goroutine:
//  1. The sweep: recompute every tenant's stock state and fire
//     transition-based alerts. Tenants that disabled auto-reconcile are
//     skipped without touching their stock numbers.
//  2. The auto-check: the coarser unconditional re-alert pass.
//
// The scheduler is long-running and context-aware for graceful shutdown. A
// job that is still running when its tick fires again is skipped, so at most
// one sweep is in flight at a time. Individual tenant failures are logged
// and never stop the run.

import (
	"context"
	"log/slog"
	"time"
)

// SchedulerConfig holds the sweep and auto-check intervals. A zero
// AutoCheckInterval disables the auto-check pass.
type SchedulerConfig struct {
	SweepInterval     time.Duration // default: 30m
	AutoCheckInterval time.Duration
}

// StartScheduler runs the periodic sweep and auto-check until the context is
// cancelled. It runs one sweep immediately on start.
func (s *Service) StartScheduler(ctx context.Context, cfg SchedulerConfig) {
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 30 * time.Minute
	}

	slog.Info("reconcile scheduler started",
		"sweep_interval", cfg.SweepInterval,
		"auto_check_interval", cfg.AutoCheckInterval,
	)

	s.runSweepJob(ctx)

	sweepTicker := time.NewTicker(cfg.SweepInterval)
	defer sweepTicker.Stop()

	var autoCheckC <-chan time.Time
	if cfg.AutoCheckInterval > 0 {
		autoCheckTicker := time.NewTicker(cfg.AutoCheckInterval)
		defer autoCheckTicker.Stop()
		autoCheckC = autoCheckTicker.C
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("reconcile scheduler stopped")
			return
		case <-sweepTicker.C:
			s.runSweepJob(ctx)
		case <-autoCheckC:
			s.runAutoCheckJob(ctx)
		}
	}
}

// runSweepJob sweeps every tenant once. Skips the run entirely if a previous
// sweep is still in flight.
func (s *Service) runSweepJob(ctx context.Context) {
	if !s.sweepRunning.TryLock() {
		slog.Warn("sweep skipped: previous sweep still running")
		return
	}
	defer s.sweepRunning.Unlock()

	start := time.Now()

	tenants, err := s.repo.Tenants(ctx)
	if err != nil {
		slog.Error("sweep failed: list tenants", "error", err)
		return
	}

	swept, skipped := 0, 0
	for _, tenant := range tenants {
		if ctx.Err() != nil {
			return
		}
		if !tenant.Settings.AutoReconcileEnabled {
			skipped++
			continue
		}

		changed, err := s.ReconcileTenant(ctx, tenant.ID)
		if err != nil {
			slog.Error("sweep tenant failed", "tenant_id", tenant.ID, "error", err)
			continue
		}
		swept++
		if changed > 0 {
			slog.Info("sweep updated products", "tenant_id", tenant.ID, "changed", changed)
		}
	}

	slog.Info("sweep completed",
		"tenants_swept", swept,
		"tenants_skipped", skipped,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

func (s *Service) runAutoCheckJob(ctx context.Context) {
	start := time.Now()
	if err := s.RunAutoCheck(ctx); err != nil {
		slog.Error("auto-check failed", "error", err)
		return
	}
	slog.Info("auto-check completed", "duration_ms", time.Since(start).Milliseconds())
}
