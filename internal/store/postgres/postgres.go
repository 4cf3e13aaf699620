// Package postgres implements core.Repository on PostgreSQL via pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stocksync/stocksync/internal/core"
)

// Store is a pgx-backed Repository. Product writes (row plus channel
// entries) run inside one transaction so a crash mid-sweep never leaves a
// product half-updated.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store on an existing connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

var _ core.Repository = (*Store)(nil)

// InitSchema creates the tables if they do not exist yet.
func (s *Store) InitSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	if err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS tenants (
	id          UUID PRIMARY KEY,
	name        TEXT NOT NULL,
	threshold   INT NOT NULL DEFAULT 10,
	email_notifications BOOLEAN NOT NULL DEFAULT TRUE,
	auto_reconcile      BOOLEAN NOT NULL DEFAULT TRUE,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS suppliers (
	id         UUID PRIMARY KEY,
	tenant_id  UUID NOT NULL REFERENCES tenants(id),
	name       TEXT NOT NULL,
	email      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS products (
	id          UUID PRIMARY KEY,
	tenant_id   UUID NOT NULL REFERENCES tenants(id),
	sku         TEXT NOT NULL,
	name        TEXT NOT NULL,
	total_quantity      INT NOT NULL DEFAULT 0,
	low_stock_threshold INT,
	is_low_stock        BOOLEAN NOT NULL DEFAULT FALSE,
	supplier_id UUID REFERENCES suppliers(id),
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (tenant_id, sku)
);

CREATE TABLE IF NOT EXISTS product_channels (
	product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	channel    TEXT NOT NULL,
	quantity   INT NOT NULL DEFAULT 0,
	PRIMARY KEY (product_id, channel)
);

CREATE TABLE IF NOT EXISTS uploads (
	id             UUID PRIMARY KEY,
	tenant_id      UUID NOT NULL REFERENCES tenants(id),
	file_name      TEXT NOT NULL,
	channel        TEXT,
	status         TEXT NOT NULL,
	rows_processed INT NOT NULL DEFAULT 0,
	rows_skipped   INT NOT NULL DEFAULT 0,
	error_message  TEXT,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	completed_at   TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS notifications (
	id          UUID PRIMARY KEY,
	tenant_id   UUID NOT NULL REFERENCES tenants(id),
	product_id  UUID NOT NULL,
	supplier_id UUID NOT NULL,
	type        TEXT NOT NULL,
	status      TEXT NOT NULL,
	subject     TEXT NOT NULL,
	body        TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

const productColumns = `id, tenant_id, sku, name, total_quantity, low_stock_threshold, is_low_stock, supplier_id, created_at, updated_at`

func (s *Store) ProductBySKU(ctx context.Context, tenantID, sku string) (*core.Product, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE tenant_id = $1 AND sku = $2`,
		tenantID, sku)
	return s.scanProduct(ctx, row)
}

func (s *Store) ProductByID(ctx context.Context, tenantID, id string) (*core.Product, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE tenant_id = $1 AND id = $2`,
		tenantID, id)
	return s.scanProduct(ctx, row)
}

func (s *Store) scanProduct(ctx context.Context, row pgx.Row) (*core.Product, error) {
	p, err := scanProductRow(row)
	if err != nil {
		return nil, err
	}
	if err := s.loadChannels(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func scanProductRow(row pgx.Row) (*core.Product, error) {
	var (
		p          core.Product
		threshold  pgtype.Int4
		supplierID pgtype.UUID
	)
	err := row.Scan(&p.ID, &p.TenantID, &p.SKU, &p.Name, &p.TotalQuantity,
		&threshold, &p.IsLowStock, &supplierID, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}

	if threshold.Valid {
		thr := int(threshold.Int32)
		p.LowStockThreshold = &thr
	}
	if supplierID.Valid {
		p.SupplierID = uuidString(supplierID)
	}
	return &p, nil
}

func (s *Store) loadChannels(ctx context.Context, p *core.Product) error {
	rows, err := s.pool.Query(ctx,
		`SELECT channel, quantity FROM product_channels WHERE product_id = $1 ORDER BY channel`,
		p.ID)
	if err != nil {
		return fmt.Errorf("load channels: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cq core.ChannelQuantity
		if err := rows.Scan(&cq.Channel, &cq.Quantity); err != nil {
			return fmt.Errorf("scan channel: %w", err)
		}
		p.Channels = append(p.Channels, cq)
	}
	return rows.Err()
}

func (s *Store) SaveProduct(ctx context.Context, p *core.Product) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var threshold pgtype.Int4
	if p.LowStockThreshold != nil {
		threshold = pgtype.Int4{Int32: int32(*p.LowStockThreshold), Valid: true}
	}
	var supplierID any
	if p.SupplierID != "" {
		supplierID = p.SupplierID
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			total_quantity = EXCLUDED.total_quantity,
			low_stock_threshold = EXCLUDED.low_stock_threshold,
			is_low_stock = EXCLUDED.is_low_stock,
			supplier_id = EXCLUDED.supplier_id,
			updated_at = EXCLUDED.updated_at`,
		p.ID, p.TenantID, p.SKU, p.Name, p.TotalQuantity,
		threshold, p.IsLowStock, supplierID, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM product_channels WHERE product_id = $1`, p.ID); err != nil {
		return fmt.Errorf("clear channels: %w", err)
	}
	for _, cq := range p.Channels {
		_, err := tx.Exec(ctx,
			`INSERT INTO product_channels (product_id, channel, quantity) VALUES ($1, $2, $3)`,
			p.ID, string(cq.Channel), cq.Quantity)
		if err != nil {
			return fmt.Errorf("insert channel %s: %w", cq.Channel, err)
		}
	}

	return tx.Commit(ctx)
}

func (s *Store) ProductsByTenant(ctx context.Context, tenantID string) ([]*core.Product, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE tenant_id = $1 ORDER BY sku`,
		tenantID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var result []*core.Product
	for rows.Next() {
		p, err := scanProductRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, p := range result {
		if err := s.loadChannels(ctx, p); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (s *Store) CreateUpload(ctx context.Context, rec *core.UploadRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO uploads (id, tenant_id, file_name, channel, status, rows_processed, rows_skipped, error_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.ID, rec.TenantID, rec.FileName, nullString(string(rec.Channel)), string(rec.Status),
		rec.RowsProcessed, rec.RowsSkipped, nullString(rec.ErrorMessage), rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("create upload: %w", err)
	}
	return nil
}

func (s *Store) UpdateUpload(ctx context.Context, rec *core.UploadRecord) error {
	var completed pgtype.Timestamptz
	if !rec.CompletedAt.IsZero() {
		completed = pgtype.Timestamptz{Time: rec.CompletedAt, Valid: true}
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE uploads SET channel = $2, status = $3, rows_processed = $4,
			rows_skipped = $5, error_message = $6, completed_at = $7
		WHERE id = $1`,
		rec.ID, nullString(string(rec.Channel)), string(rec.Status),
		rec.RowsProcessed, rec.RowsSkipped, nullString(rec.ErrorMessage), completed)
	if err != nil {
		return fmt.Errorf("update upload: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) UploadsByTenant(ctx context.Context, tenantID string) ([]*core.UploadRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, tenant_id, file_name, channel, status, rows_processed, rows_skipped, error_message, created_at, completed_at
		FROM uploads WHERE tenant_id = $1 ORDER BY created_at DESC`,
		tenantID)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	defer rows.Close()

	var result []*core.UploadRecord
	for rows.Next() {
		var (
			rec       core.UploadRecord
			channel   pgtype.Text
			errMsg    pgtype.Text
			completed pgtype.Timestamptz
		)
		err := rows.Scan(&rec.ID, &rec.TenantID, &rec.FileName, &channel, &rec.Status,
			&rec.RowsProcessed, &rec.RowsSkipped, &errMsg, &rec.CreatedAt, &completed)
		if err != nil {
			return nil, fmt.Errorf("scan upload: %w", err)
		}
		rec.Channel = core.Channel(channel.String)
		rec.ErrorMessage = errMsg.String
		if completed.Valid {
			rec.CompletedAt = completed.Time
		}
		result = append(result, &rec)
	}
	return result, rows.Err()
}

func (s *Store) CreateNotification(ctx context.Context, rec *core.NotificationRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO notifications (id, tenant_id, product_id, supplier_id, type, status, subject, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.ID, rec.TenantID, rec.ProductID, rec.SupplierID, rec.Type, string(rec.Status),
		rec.Subject, rec.Body, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (s *Store) NotificationsByTenant(ctx context.Context, tenantID string) ([]*core.NotificationRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, tenant_id, product_id, supplier_id, type, status, subject, body, created_at
		FROM notifications WHERE tenant_id = $1 ORDER BY created_at DESC`,
		tenantID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var result []*core.NotificationRecord
	for rows.Next() {
		var rec core.NotificationRecord
		err := rows.Scan(&rec.ID, &rec.TenantID, &rec.ProductID, &rec.SupplierID,
			&rec.Type, &rec.Status, &rec.Subject, &rec.Body, &rec.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		result = append(result, &rec)
	}
	return result, rows.Err()
}

func (s *Store) Tenant(ctx context.Context, id string) (*core.Tenant, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, threshold, email_notifications, auto_reconcile, created_at
		FROM tenants WHERE id = $1`, id)
	return scanTenant(row)
}

func (s *Store) Tenants(ctx context.Context) ([]*core.Tenant, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, threshold, email_notifications, auto_reconcile, created_at
		FROM tenants ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var result []*core.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func scanTenant(row pgx.Row) (*core.Tenant, error) {
	var t core.Tenant
	err := row.Scan(&t.ID, &t.Name, &t.Settings.GlobalLowStockThreshold,
		&t.Settings.EmailNotificationsEnabled, &t.Settings.AutoReconcileEnabled, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan tenant: %w", err)
	}
	return &t, nil
}

func (s *Store) CreateTenant(ctx context.Context, t *core.Tenant) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tenants (id, name, threshold, email_notifications, auto_reconcile, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.Name, t.Settings.GlobalLowStockThreshold,
		t.Settings.EmailNotificationsEnabled, t.Settings.AutoReconcileEnabled, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("create tenant: %w", err)
	}
	return nil
}

func (s *Store) UpdateTenantSettings(ctx context.Context, id string, settings core.TenantSettings) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE tenants SET threshold = $2, email_notifications = $3, auto_reconcile = $4
		WHERE id = $1`,
		id, settings.GlobalLowStockThreshold, settings.EmailNotificationsEnabled, settings.AutoReconcileEnabled)
	if err != nil {
		return fmt.Errorf("update tenant settings: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) Supplier(ctx context.Context, tenantID, id string) (*core.Supplier, error) {
	var sup core.Supplier
	err := s.pool.QueryRow(ctx,
		`SELECT id, tenant_id, name, email FROM suppliers WHERE tenant_id = $1 AND id = $2`,
		tenantID, id).Scan(&sup.ID, &sup.TenantID, &sup.Name, &sup.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan supplier: %w", err)
	}
	return &sup, nil
}

func (s *Store) CreateSupplier(ctx context.Context, sup *core.Supplier) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO suppliers (id, tenant_id, name, email) VALUES ($1, $2, $3, $4)`,
		sup.ID, sup.TenantID, sup.Name, sup.Email)
	if err != nil {
		return fmt.Errorf("create supplier: %w", err)
	}
	return nil
}

func nullString(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

func uuidString(u pgtype.UUID) string {
	if !u.Valid {
		return ""
	}
	v, err := u.Value()
	if err != nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
