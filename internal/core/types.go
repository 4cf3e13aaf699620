// Package core provides the business logic for multi-channel stock
// reconciliation. This package has no HTTP or storage dependencies and can be
// driven by any frontend.
package core

import (
	"strings"
	"time"
)

// Channel is a sales platform contributing one quantity figure to a product.
type Channel string

const (
	ChannelAmazon  Channel = "amazon"
	ChannelShopify Channel = "shopify"
)

// Channels lists all known channels in export column order.
var Channels = []Channel{ChannelAmazon, ChannelShopify}

// Platform identifies which commerce platform produced a CSV export.
type Platform string

const (
	PlatformAmazon  Platform = "amazon"
	PlatformShopify Platform = "shopify"
	PlatformGeneric Platform = "generic"
)

// ChannelQuantity is one channel's contribution to a product's stock.
// A product holds at most one entry per channel.
type ChannelQuantity struct {
	Channel  Channel `json:"channel"`
	Quantity int     `json:"quantity"`
}

// Product is the canonical per-SKU stock record spanning sales channels.
//
// Invariants maintained by the reconciliation engine:
//   - TotalQuantity equals the sum of all channel quantities.
//   - IsLowStock equals TotalQuantity <= the effective threshold.
type Product struct {
	ID            string            `json:"id"`
	TenantID      string            `json:"tenantId"`
	SKU           string            `json:"sku"`
	Name          string            `json:"name"`
	Channels      []ChannelQuantity `json:"channels"`
	TotalQuantity int               `json:"totalQuantity"`

	// LowStockThreshold is the per-product threshold. Nil means the tenant's
	// global threshold applies; the sweep pins the value actually used.
	LowStockThreshold *int `json:"lowStockThreshold"`

	IsLowStock bool   `json:"isLowStock"`
	SupplierID string `json:"supplierId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Quantity returns the product's quantity for a channel, or 0 if the channel
// has no entry.
func (p *Product) Quantity(ch Channel) int {
	for _, cq := range p.Channels {
		if cq.Channel == ch {
			return cq.Quantity
		}
	}
	return 0
}

// SetQuantity replaces the entry for a channel, appending one if absent.
// Other channels' entries are untouched.
func (p *Product) SetQuantity(ch Channel, qty int) {
	for i, cq := range p.Channels {
		if cq.Channel == ch {
			p.Channels[i].Quantity = qty
			return
		}
	}
	p.Channels = append(p.Channels, ChannelQuantity{Channel: ch, Quantity: qty})
}

// Clone returns a deep copy, used for before/after snapshots.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Channels = make([]ChannelQuantity, len(p.Channels))
	copy(cp.Channels, p.Channels)
	if p.LowStockThreshold != nil {
		thr := *p.LowStockThreshold
		cp.LowStockThreshold = &thr
	}
	return &cp
}

// ColumnMapping resolves which CSV header supplies each logical field.
// Any column may be empty if unresolved.
type ColumnMapping struct {
	SKUColumn      string `json:"skuColumn"`
	NameColumn     string `json:"nameColumn"`
	QuantityColumn string `json:"quantityColumn"`
}

// Complete reports whether all three fields resolved to a header.
func (m ColumnMapping) Complete() bool {
	return m.SKUColumn != "" && m.NameColumn != "" && m.QuantityColumn != ""
}

// DetectedFormat is the outcome of header analysis for one upload.
// It is ephemeral: produced per upload, persisted only as part of the
// upload's audit message.
type DetectedFormat struct {
	Platform   Platform      `json:"platform"`
	Channel    Channel       `json:"channel"`
	Confidence float64       `json:"confidence"`
	Mapping    ColumnMapping `json:"mapping"`
}

// StockRow is one validated row from an uploaded file.
type StockRow struct {
	SKU      string
	Name     string
	Quantity int
}

// UploadStatus tracks an upload through its lifecycle.
type UploadStatus string

const (
	UploadPending    UploadStatus = "pending"
	UploadProcessing UploadStatus = "processing"
	UploadCompleted  UploadStatus = "completed"
	UploadError      UploadStatus = "error"
)

// UploadRecord is the append-only audit trail for one uploaded file.
type UploadRecord struct {
	ID            string       `json:"id"`
	TenantID      string       `json:"tenantId"`
	FileName      string       `json:"fileName"`
	Channel       Channel      `json:"channel"`
	Status        UploadStatus `json:"status"`
	RowsProcessed int          `json:"rowsProcessed"`
	RowsSkipped   int          `json:"rowsSkipped"`
	ErrorMessage  string       `json:"errorMessage,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	CompletedAt   time.Time    `json:"completedAt"`
}

// NotificationStatus records whether delivery succeeded.
type NotificationStatus string

const (
	NotificationSent   NotificationStatus = "sent"
	NotificationFailed NotificationStatus = "failed"
)

// Alert types distinguish the transition-based policy from the coarser
// periodic re-alert.
const (
	AlertLowStock  = "low_stock"
	AlertAutoCheck = "auto_check"
)

// NotificationRecord is created whenever the policy decides to send,
// regardless of delivery outcome. Immutable once created.
type NotificationRecord struct {
	ID         string             `json:"id"`
	TenantID   string             `json:"tenantId"`
	ProductID  string             `json:"productId"`
	SupplierID string             `json:"supplierId"`
	Type       string             `json:"type"`
	Status     NotificationStatus `json:"status"`
	Subject    string             `json:"subject"`
	Body       string             `json:"body"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// TenantSettings is the per-tenant configuration surface the engine consumes.
type TenantSettings struct {
	GlobalLowStockThreshold   int  `json:"globalLowStockThreshold"`
	EmailNotificationsEnabled bool `json:"emailNotificationsEnabled"`
	AutoReconcileEnabled      bool `json:"autoReconcileEnabled"`
}

// Tenant is an isolated inventory-owning account.
type Tenant struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Settings  TenantSettings `json:"settings"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Supplier is the contact a low-stock alert is addressed to.
type Supplier struct {
	ID       string `json:"id"`
	TenantID string `json:"tenantId"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

// UploadResult is the caller-facing outcome of processing one file.
type UploadResult struct {
	UploadID  string         `json:"uploadId"`
	Processed int            `json:"processedCount"`
	Skipped   int            `json:"skippedCount"`
	Format    DetectedFormat `json:"detectedFormat"`
	Message   string         `json:"message,omitempty"`
	Duration  time.Duration  `json:"-"`
}

// MutationKind classifies what caused a product state change. The
// notification policy treats manual interventions differently from routine
// reconciliation.
type MutationKind int

const (
	MutationUpload MutationKind = iota
	MutationSweep
	MutationManualEdit
	MutationSupplierAssign
	MutationThresholdEdit
)

func (k MutationKind) String() string {
	switch k {
	case MutationUpload:
		return "upload"
	case MutationSweep:
		return "sweep"
	case MutationManualEdit:
		return "manual_edit"
	case MutationSupplierAssign:
		return "supplier_assign"
	case MutationThresholdEdit:
		return "threshold_edit"
	default:
		return "unknown"
	}
}

// StateChange is a product's before/after snapshot for one mutation.
// Before is nil when the mutation created the product.
type StateChange struct {
	Before   *Product
	After    *Product
	Mutation MutationKind
}

// HeaderIndex maps column names (lowercase) to their position in the CSV row.
type HeaderIndex map[string]int

// MakeHeaderIndex creates a HeaderIndex from a CSV header row.
// Keys are lowercased for case-insensitive matching.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		idx[strings.ToLower(CleanCell(h))] = i
	}
	return idx
}
