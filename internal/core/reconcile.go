package core

// reconcile.go merges per-channel quantities into the canonical product
// record and recomputes aggregate stock state.
//
// Two operations, always performed together per upload:
//   - per-row merge: replace one channel's quantity on one product
//   - whole-tenant sweep: recompute every product's total and low-stock flag
//
// The low-stock comparison is inclusive (total <= threshold). Earlier
// iterations of this system used a strict comparison on the product-creation
// path; the inclusive form is the canonical behavior everywhere.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// effectiveThreshold is the product's own threshold if set, else the tenant's
// global threshold.
func effectiveThreshold(p *Product, settings TenantSettings) int {
	if p.LowStockThreshold != nil {
		return *p.LowStockThreshold
	}
	return settings.GlobalLowStockThreshold
}

// recompute derives TotalQuantity and IsLowStock from the channel list and
// pins the threshold actually used.
func recompute(p *Product, settings TenantSettings) {
	total := 0
	for _, cq := range p.Channels {
		total += cq.Quantity
	}
	p.TotalQuantity = total

	thr := effectiveThreshold(p, settings)
	p.LowStockThreshold = &thr
	p.IsLowStock = total <= thr
}

// applyRow merges one validated row into the product store for the given
// channel. Re-uploading the same channel overwrites its prior quantity; other
// channels' entries are untouched.
func (s *Service) applyRow(ctx context.Context, tenant *Tenant, ch Channel, row StockRow) (StateChange, error) {
	existing, err := s.repo.ProductBySKU(ctx, tenant.ID, row.SKU)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return StateChange{}, fmt.Errorf("lookup product %q: %w", row.SKU, err)
	}

	now := time.Now().UTC()

	if existing == nil {
		thr := tenant.Settings.GlobalLowStockThreshold
		p := &Product{
			ID:                uuid.New().String(),
			TenantID:          tenant.ID,
			SKU:               row.SKU,
			Name:              row.Name,
			Channels:          []ChannelQuantity{{Channel: ch, Quantity: row.Quantity}},
			TotalQuantity:     row.Quantity,
			LowStockThreshold: &thr,
			IsLowStock:        row.Quantity <= thr,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := s.repo.SaveProduct(ctx, p); err != nil {
			return StateChange{}, fmt.Errorf("create product %q: %w", row.SKU, err)
		}
		return StateChange{After: p, Mutation: MutationUpload}, nil
	}

	before := existing.Clone()
	if row.Name != "" {
		existing.Name = row.Name
	}
	existing.SetQuantity(ch, row.Quantity)
	recompute(existing, tenant.Settings)
	existing.UpdatedAt = now

	if err := s.repo.SaveProduct(ctx, existing); err != nil {
		return StateChange{}, fmt.Errorf("update product %q: %w", row.SKU, err)
	}
	return StateChange{Before: before, After: existing, Mutation: MutationUpload}, nil
}

// sweepTenant recomputes totals and low-stock status for every product a
// tenant owns. Products whose derived state is already consistent are left
// untouched, so running the sweep twice with no intervening mutation produces
// no further state change. Each product update is an independent atomic
// write; a failure on one product does not stop the sweep.
func (s *Service) sweepTenant(ctx context.Context, tenant *Tenant) ([]StateChange, error) {
	products, err := s.repo.ProductsByTenant(ctx, tenant.ID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	var changes []StateChange
	var firstErr error

	for _, p := range products {
		before := p.Clone()
		recompute(p, tenant.Settings)

		if sweepEqual(before, p) {
			continue
		}

		p.UpdatedAt = time.Now().UTC()
		if err := s.repo.SaveProduct(ctx, p); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("sweep product %q: %w", p.SKU, err)
			}
			continue
		}
		changes = append(changes, StateChange{Before: before, After: p, Mutation: MutationSweep})
	}

	return changes, firstErr
}

// sweepEqual reports whether the sweep left the derived fields unchanged.
func sweepEqual(before, after *Product) bool {
	if before.TotalQuantity != after.TotalQuantity || before.IsLowStock != after.IsLowStock {
		return false
	}
	if (before.LowStockThreshold == nil) != (after.LowStockThreshold == nil) {
		return false
	}
	if before.LowStockThreshold != nil && *before.LowStockThreshold != *after.LowStockThreshold {
		return false
	}
	return true
}
