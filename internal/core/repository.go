package core

// repository.go declares the persistence surface the engine consumes. The
// engine owns the interface; SQL vs in-memory is an implementation detail of
// the store packages.

import (
	"context"
	"errors"
)

// ErrNotFound is returned by lookups when no record matches.
var ErrNotFound = errors.New("not found")

// ProductRepository stores per-SKU stock records, scoped to a tenant.
type ProductRepository interface {
	// ProductBySKU looks up a product by its tenant-unique SKU.
	// Returns ErrNotFound when the SKU has never been seen.
	ProductBySKU(ctx context.Context, tenantID, sku string) (*Product, error)

	// ProductByID looks up a product by ID within a tenant.
	ProductByID(ctx context.Context, tenantID, id string) (*Product, error)

	// SaveProduct inserts or updates a product as one atomic unit.
	SaveProduct(ctx context.Context, p *Product) error

	// ProductsByTenant lists every product owned by a tenant, sorted by SKU.
	ProductsByTenant(ctx context.Context, tenantID string) ([]*Product, error)
}

// UploadRepository stores the append-only upload audit trail.
type UploadRepository interface {
	CreateUpload(ctx context.Context, rec *UploadRecord) error
	UpdateUpload(ctx context.Context, rec *UploadRecord) error
	UploadsByTenant(ctx context.Context, tenantID string) ([]*UploadRecord, error)
}

// NotificationRepository stores alert records. Records are immutable once
// created.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, rec *NotificationRecord) error
	NotificationsByTenant(ctx context.Context, tenantID string) ([]*NotificationRecord, error)
}

// TenantRepository stores tenants and their settings.
type TenantRepository interface {
	Tenant(ctx context.Context, id string) (*Tenant, error)
	Tenants(ctx context.Context) ([]*Tenant, error)
	CreateTenant(ctx context.Context, t *Tenant) error
	UpdateTenantSettings(ctx context.Context, id string, settings TenantSettings) error
}

// SupplierRepository stores supplier contacts, scoped to a tenant.
type SupplierRepository interface {
	Supplier(ctx context.Context, tenantID, id string) (*Supplier, error)
	CreateSupplier(ctx context.Context, s *Supplier) error
}

// Repository bundles all persistence the engine needs.
type Repository interface {
	ProductRepository
	UploadRepository
	NotificationRepository
	TenantRepository
	SupplierRepository
}
