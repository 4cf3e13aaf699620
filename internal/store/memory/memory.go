// Package memory provides an in-memory implementation of core.Repository.
// It backs the engine's tests and local development without a database.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/stocksync/stocksync/internal/core"
)

// Store keeps all records in maps guarded by one RWMutex. Values are cloned
// on the way in and out so callers can never mutate stored state directly.
type Store struct {
	mu sync.RWMutex

	products      map[string]map[string]*core.Product // tenantID -> productID
	uploads       map[string]*core.UploadRecord
	notifications []*core.NotificationRecord
	tenants       map[string]*core.Tenant
	suppliers     map[string]map[string]*core.Supplier // tenantID -> supplierID
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		products:  make(map[string]map[string]*core.Product),
		uploads:   make(map[string]*core.UploadRecord),
		tenants:   make(map[string]*core.Tenant),
		suppliers: make(map[string]map[string]*core.Supplier),
	}
}

var _ core.Repository = (*Store)(nil)

func (s *Store) ProductBySKU(_ context.Context, tenantID, sku string) (*core.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products[tenantID] {
		if p.SKU == sku {
			return p.Clone(), nil
		}
	}
	return nil, core.ErrNotFound
}

func (s *Store) ProductByID(_ context.Context, tenantID, id string) (*core.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.products[tenantID][id]; ok {
		return p.Clone(), nil
	}
	return nil, core.ErrNotFound
}

func (s *Store) SaveProduct(_ context.Context, p *core.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tenant, ok := s.products[p.TenantID]
	if !ok {
		tenant = make(map[string]*core.Product)
		s.products[p.TenantID] = tenant
	}
	tenant[p.ID] = p.Clone()
	return nil
}

func (s *Store) ProductsByTenant(_ context.Context, tenantID string) ([]*core.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*core.Product, 0, len(s.products[tenantID]))
	for _, p := range s.products[tenantID] {
		result = append(result, p.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SKU < result[j].SKU })
	return result, nil
}

func (s *Store) CreateUpload(_ context.Context, rec *core.UploadRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *rec
	s.uploads[rec.ID] = &cp
	return nil
}

func (s *Store) UpdateUpload(_ context.Context, rec *core.UploadRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.uploads[rec.ID]; !ok {
		return core.ErrNotFound
	}
	cp := *rec
	s.uploads[rec.ID] = &cp
	return nil
}

func (s *Store) UploadsByTenant(_ context.Context, tenantID string) ([]*core.UploadRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*core.UploadRecord
	for _, rec := range s.uploads {
		if rec.TenantID == tenantID {
			cp := *rec
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (s *Store) CreateNotification(_ context.Context, rec *core.NotificationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *rec
	s.notifications = append(s.notifications, &cp)
	return nil
}

func (s *Store) NotificationsByTenant(_ context.Context, tenantID string) ([]*core.NotificationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*core.NotificationRecord
	for _, rec := range s.notifications {
		if rec.TenantID == tenantID {
			cp := *rec
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (s *Store) Tenant(_ context.Context, id string) (*core.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if t, ok := s.tenants[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, core.ErrNotFound
}

func (s *Store) Tenants(_ context.Context) ([]*core.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*core.Tenant, 0, len(s.tenants))
	for _, t := range s.tenants {
		cp := *t
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *Store) CreateTenant(_ context.Context, t *core.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *t
	s.tenants[t.ID] = &cp
	return nil
}

func (s *Store) UpdateTenantSettings(_ context.Context, id string, settings core.TenantSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tenants[id]
	if !ok {
		return core.ErrNotFound
	}
	t.Settings = settings
	return nil
}

func (s *Store) Supplier(_ context.Context, tenantID, id string) (*core.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sup, ok := s.suppliers[tenantID][id]; ok {
		cp := *sup
		return &cp, nil
	}
	return nil, core.ErrNotFound
}

func (s *Store) CreateSupplier(_ context.Context, sup *core.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tenant, ok := s.suppliers[sup.TenantID]
	if !ok {
		tenant = make(map[string]*core.Supplier)
		s.suppliers[sup.TenantID] = tenant
	}
	cp := *sup
	tenant[sup.ID] = &cp
	return nil
}
