package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxFileSize is the maximum allowed CSV file size (10MB) when no
// limit is configured.
var DefaultMaxFileSize int64 = 10 * 1024 * 1024

// Service orchestrates the upload pipeline: format detection, row
// transformation, reconciliation and notification decisions.
type Service struct {
	repo        Repository
	sender      Sender
	maxFileSize int64

	// tenantLocks serializes mutations per tenant. Two uploads for the same
	// tenant never interleave merges; uploads for different tenants proceed
	// in parallel.
	mu          sync.Mutex
	tenantLocks map[string]*sync.Mutex

	sweepRunning sync.Mutex
}

// NewService creates a Service. maxFileSize <= 0 selects DefaultMaxFileSize.
func NewService(repo Repository, sender Sender, maxFileSize int64) *Service {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &Service{
		repo:        repo,
		sender:      sender,
		maxFileSize: maxFileSize,
		tenantLocks: make(map[string]*sync.Mutex),
	}
}

// lockTenant acquires the tenant's mutation lock and returns the unlock
// function.
func (s *Service) lockTenant(tenantID string) func() {
	s.mu.Lock()
	lock, ok := s.tenantLocks[tenantID]
	if !ok {
		lock = &sync.Mutex{}
		s.tenantLocks[tenantID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// ProcessUpload ingests one CSV file for a tenant: detect the format, map
// columns, validate rows, merge them in file order, sweep the tenant, and
// evaluate notification decisions.
//
// A ParseError aborts the whole upload with no partial merge; a store
// failure on an individual row is counted and the batch continues.
func (s *Service) ProcessUpload(ctx context.Context, tenantID, fileName string, fileData []byte) (*UploadResult, error) {
	start := time.Now()

	tenant, err := s.repo.Tenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("tenant %q: %w", tenantID, err)
	}

	rec := &UploadRecord{
		ID:        uuid.New().String(),
		TenantID:  tenant.ID,
		FileName:  fileName,
		Status:    UploadPending,
		CreatedAt: start.UTC(),
	}
	if err := s.repo.CreateUpload(ctx, rec); err != nil {
		return nil, fmt.Errorf("create upload record: %w", err)
	}

	result, err := s.processFile(ctx, tenant, rec, fileName, fileData)
	if err != nil {
		rec.Status = UploadError
		rec.ErrorMessage = err.Error()
		rec.CompletedAt = time.Now().UTC()
		if uerr := s.repo.UpdateUpload(ctx, rec); uerr != nil {
			slog.Error("finalize upload record failed", "upload_id", rec.ID, "error", uerr)
		}
		return nil, err
	}

	result.UploadID = rec.ID
	result.Duration = time.Since(start)

	rec.Status = UploadCompleted
	rec.Channel = result.Format.Channel
	rec.RowsProcessed = result.Processed
	rec.RowsSkipped = result.Skipped
	rec.ErrorMessage = ""
	rec.CompletedAt = time.Now().UTC()
	if err := s.repo.UpdateUpload(ctx, rec); err != nil {
		slog.Error("finalize upload record failed", "upload_id", rec.ID, "error", err)
	}

	slog.Info("upload processed",
		"upload_id", rec.ID,
		"tenant_id", tenant.ID,
		"file", fileName,
		"platform", result.Format.Platform,
		"channel", result.Format.Channel,
		"confidence", result.Format.Confidence,
		"processed", result.Processed,
		"skipped", result.Skipped,
		"duration_ms", result.Duration.Milliseconds(),
	)

	return result, nil
}

// processFile runs the pipeline after the upload record exists. Errors
// returned from here mark the record as failed.
func (s *Service) processFile(ctx context.Context, tenant *Tenant, rec *UploadRecord, fileName string, fileData []byte) (*UploadResult, error) {
	if int64(len(fileData)) > s.maxFileSize {
		return nil, parseErrorf("file exceeds %d byte limit", s.maxFileSize)
	}
	if len(fileData) == 0 {
		return nil, parseErrorf("empty file")
	}

	records, err := ParseCSV(SanitizeUTF8(fileData))
	if err != nil {
		return nil, &ParseError{Reason: "malformed CSV", Err: err}
	}
	if len(records) == 0 {
		return nil, parseErrorf("empty file")
	}

	header := records[0]
	dataRows := records[1:]

	format := AnalyzeHeaders(header, fileName)
	if !format.Mapping.Complete() {
		return nil, parseErrorf("could not resolve SKU/name/quantity columns from headers %v", header)
	}

	rec.Status = UploadProcessing
	rec.Channel = format.Channel
	if err := s.repo.UpdateUpload(ctx, rec); err != nil {
		slog.Warn("update upload record failed", "upload_id", rec.ID, "error", err)
	}

	transformed := TransformRows(header, dataRows, format.Mapping)

	unlock := s.lockTenant(tenant.ID)
	defer unlock()

	var (
		changes       []StateChange
		processed     int
		storeFailures int
	)

	// Rows merge strictly in file order; later rows for the same channel and
	// SKU overwrite earlier ones.
	for _, row := range transformed.Rows {
		change, err := s.applyRow(ctx, tenant, format.Channel, row)
		if err != nil {
			storeFailures++
			slog.Warn("row merge failed",
				"upload_id", rec.ID,
				"sku", row.SKU,
				"error", err,
			)
			continue
		}
		processed++
		changes = append(changes, change)
	}

	sweepChanges, sweepErr := s.sweepTenant(ctx, tenant)
	if sweepErr != nil {
		slog.Warn("post-upload sweep incomplete", "upload_id", rec.ID, "error", sweepErr)
	}
	changes = append(changes, sweepChanges...)

	s.notifyChanges(ctx, tenant, changes)

	result := &UploadResult{
		Processed: processed,
		Skipped:   transformed.Skipped + storeFailures,
		Format:    format,
	}
	switch {
	case processed == 0 && storeFailures > 0:
		return nil, fmt.Errorf("no rows stored: %d store failures", storeFailures)
	case storeFailures > 0:
		result.Message = fmt.Sprintf("%d rows failed to store", storeFailures)
	case transformed.Skipped > 0:
		result.Message = fmt.Sprintf("%d rows skipped by validation", transformed.Skipped)
	}

	return result, nil
}

// ReconcileTenant runs the whole-tenant sweep on demand ("reconcile now")
// and evaluates notification decisions for any transitions it caused.
// It returns the number of products whose state changed.
func (s *Service) ReconcileTenant(ctx context.Context, tenantID string) (int, error) {
	tenant, err := s.repo.Tenant(ctx, tenantID)
	if err != nil {
		return 0, fmt.Errorf("tenant %q: %w", tenantID, err)
	}

	unlock := s.lockTenant(tenant.ID)
	defer unlock()

	changes, err := s.sweepTenant(ctx, tenant)
	if err != nil {
		return len(changes), err
	}

	s.notifyChanges(ctx, tenant, changes)
	return len(changes), nil
}

// SetChannelQuantity applies an explicit manual quantity edit to one product
// channel. Manual edits to an already-low product with a supplier re-alert.
func (s *Service) SetChannelQuantity(ctx context.Context, tenantID, productID string, ch Channel, qty int) (*Product, error) {
	if qty < 0 {
		return nil, parseErrorf("quantity must be non-negative")
	}
	if ch != ChannelAmazon && ch != ChannelShopify {
		return nil, parseErrorf("unknown channel %q", ch)
	}

	tenant, err := s.repo.Tenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("tenant %q: %w", tenantID, err)
	}

	unlock := s.lockTenant(tenant.ID)
	defer unlock()

	p, err := s.repo.ProductByID(ctx, tenant.ID, productID)
	if err != nil {
		return nil, fmt.Errorf("product %q: %w", productID, err)
	}

	before := p.Clone()
	p.SetQuantity(ch, qty)
	recompute(p, tenant.Settings)
	p.UpdatedAt = time.Now().UTC()

	if err := s.repo.SaveProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}

	s.notifyChanges(ctx, tenant, []StateChange{{Before: before, After: p, Mutation: MutationManualEdit}})
	return p, nil
}

// AssignSupplier attaches a supplier to a product. Assigning a supplier to a
// product that is already low-stock triggers an alert.
func (s *Service) AssignSupplier(ctx context.Context, tenantID, productID, supplierID string) (*Product, error) {
	tenant, err := s.repo.Tenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("tenant %q: %w", tenantID, err)
	}

	if _, err := s.repo.Supplier(ctx, tenant.ID, supplierID); err != nil {
		return nil, fmt.Errorf("supplier %q: %w", supplierID, err)
	}

	unlock := s.lockTenant(tenant.ID)
	defer unlock()

	p, err := s.repo.ProductByID(ctx, tenant.ID, productID)
	if err != nil {
		return nil, fmt.Errorf("product %q: %w", productID, err)
	}

	before := p.Clone()
	p.SupplierID = supplierID
	p.UpdatedAt = time.Now().UTC()

	if err := s.repo.SaveProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}

	s.notifyChanges(ctx, tenant, []StateChange{{Before: before, After: p, Mutation: MutationSupplierAssign}})
	return p, nil
}

// SetLowStockThreshold overrides one product's threshold and recomputes its
// low-stock state. Threshold edits follow the transition rule only; they do
// not re-alert a product that was already low.
func (s *Service) SetLowStockThreshold(ctx context.Context, tenantID, productID string, threshold int) (*Product, error) {
	if threshold < 0 {
		return nil, parseErrorf("threshold must be non-negative")
	}

	tenant, err := s.repo.Tenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("tenant %q: %w", tenantID, err)
	}

	unlock := s.lockTenant(tenant.ID)
	defer unlock()

	p, err := s.repo.ProductByID(ctx, tenant.ID, productID)
	if err != nil {
		return nil, fmt.Errorf("product %q: %w", productID, err)
	}

	before := p.Clone()
	p.LowStockThreshold = &threshold
	recompute(p, tenant.Settings)
	p.UpdatedAt = time.Now().UTC()

	if err := s.repo.SaveProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}

	s.notifyChanges(ctx, tenant, []StateChange{{Before: before, After: p, Mutation: MutationThresholdEdit}})
	return p, nil
}

// Products lists a tenant's products sorted by SKU.
func (s *Service) Products(ctx context.Context, tenantID string) ([]*Product, error) {
	return s.repo.ProductsByTenant(ctx, tenantID)
}

// Uploads lists a tenant's upload audit trail.
func (s *Service) Uploads(ctx context.Context, tenantID string) ([]*UploadRecord, error) {
	return s.repo.UploadsByTenant(ctx, tenantID)
}

// Notifications lists a tenant's alert records.
func (s *Service) Notifications(ctx context.Context, tenantID string) ([]*NotificationRecord, error) {
	return s.repo.NotificationsByTenant(ctx, tenantID)
}

// Settings returns a tenant's settings.
func (s *Service) Settings(ctx context.Context, tenantID string) (TenantSettings, error) {
	tenant, err := s.repo.Tenant(ctx, tenantID)
	if err != nil {
		return TenantSettings{}, fmt.Errorf("tenant %q: %w", tenantID, err)
	}
	return tenant.Settings, nil
}

// UpdateSettings validates and persists a tenant's settings.
func (s *Service) UpdateSettings(ctx context.Context, tenantID string, settings TenantSettings) error {
	if settings.GlobalLowStockThreshold < 0 || settings.GlobalLowStockThreshold > 1000 {
		return parseErrorf("globalLowStockThreshold must be between 0 and 1000")
	}
	if _, err := s.repo.Tenant(ctx, tenantID); err != nil {
		return fmt.Errorf("tenant %q: %w", tenantID, err)
	}
	return s.repo.UpdateTenantSettings(ctx, tenantID, settings)
}
