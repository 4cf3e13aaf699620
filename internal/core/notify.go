package core

// notify.go decides when a low-stock alert must be emitted and hands the
// payload to the delivery collaborator.
//
// Two policies exist and are kept deliberately separate:
//
//   - ShouldAlert, the transition-based rule evaluated on every product
//     mutation. It is narrow on purpose: routine reconciliation sweeps of a
//     product that was already low do not re-alert, which keeps repeated
//     uploads from producing alert storms.
//   - The auto-check pass (RunAutoCheck), a coarser timer-driven rule that
//     re-alerts every low-stock product with a supplier, with no suppression
//     window.

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Message is an alert handed to the delivery collaborator.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers alert messages. Delivery failure never blocks or rolls
// back the stock mutation that triggered the alert.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ShouldAlert is the transition-based notification rule.
//
// An alert fires when the product is now low-stock, has a supplier assigned,
// the tenant has email notifications enabled, and at least one of:
//   - it was not low-stock before and is now,
//   - a supplier was just assigned to an already-low product,
//   - an explicit manual quantity edit touched a product that was already
//     low and already had a supplier.
func ShouldAlert(change StateChange, settings TenantSettings) bool {
	after := change.After
	if after == nil || !after.IsLowStock || after.SupplierID == "" {
		return false
	}
	if !settings.EmailNotificationsEnabled {
		return false
	}

	wasLow := change.Before != nil && change.Before.IsLowStock

	switch {
	case !wasLow:
		return true
	case change.Mutation == MutationSupplierAssign:
		return true
	case change.Mutation == MutationManualEdit && change.Before.SupplierID != "":
		return true
	}
	return false
}

// notifyChanges runs the transition policy over a batch of state changes.
func (s *Service) notifyChanges(ctx context.Context, tenant *Tenant, changes []StateChange) {
	for _, change := range changes {
		if ShouldAlert(change, tenant.Settings) {
			s.sendLowStockAlert(ctx, tenant, change.After, AlertLowStock)
		}
	}
}

// sendLowStockAlert builds the alert payload, hands it to the sender, and
// records the outcome. A NotificationRecord is written whether or not
// delivery succeeds.
func (s *Service) sendLowStockAlert(ctx context.Context, tenant *Tenant, p *Product, alertType string) {
	supplier, err := s.repo.Supplier(ctx, tenant.ID, p.SupplierID)
	if err != nil {
		slog.Warn("low stock alert skipped: supplier lookup failed",
			"tenant_id", tenant.ID,
			"product_id", p.ID,
			"supplier_id", p.SupplierID,
			"error", err,
		)
		return
	}

	threshold := 0
	if p.LowStockThreshold != nil {
		threshold = *p.LowStockThreshold
	}

	subject := fmt.Sprintf("Low stock alert: %s (%s)", p.Name, p.SKU)
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"%s is running low on stock for the following product:\n\n"+
			"  Product:   %s\n"+
			"  SKU:       %s\n"+
			"  In stock:  %d\n"+
			"  Threshold: %d\n\n"+
			"Please arrange a restock.\n",
		supplier.Name, tenant.Name, p.Name, p.SKU, p.TotalQuantity, threshold,
	)

	status := NotificationSent
	if err := s.sender.Send(ctx, Message{To: supplier.Email, Subject: subject, Body: body}); err != nil {
		status = NotificationFailed
		slog.Warn("low stock alert delivery failed",
			"tenant_id", tenant.ID,
			"product_id", p.ID,
			"supplier", supplier.Email,
			"error", err,
		)
	}

	rec := &NotificationRecord{
		ID:         uuid.New().String(),
		TenantID:   tenant.ID,
		ProductID:  p.ID,
		SupplierID: supplier.ID,
		Type:       alertType,
		Status:     status,
		Subject:    subject,
		Body:       body,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.CreateNotification(ctx, rec); err != nil {
		slog.Error("record notification failed",
			"tenant_id", tenant.ID,
			"product_id", p.ID,
			"error", err,
		)
	}
}

// RunAutoCheck is the coarser periodic policy: it re-alerts every low-stock
// product that has a supplier, for every tenant with notifications enabled.
// There is no de-duplication window.
func (s *Service) RunAutoCheck(ctx context.Context) error {
	tenants, err := s.repo.Tenants(ctx)
	if err != nil {
		return fmt.Errorf("list tenants: %w", err)
	}

	for _, tenant := range tenants {
		if !tenant.Settings.EmailNotificationsEnabled {
			continue
		}

		products, err := s.repo.ProductsByTenant(ctx, tenant.ID)
		if err != nil {
			slog.Error("auto-check: list products failed", "tenant_id", tenant.ID, "error", err)
			continue
		}

		for _, p := range products {
			if p.IsLowStock && p.SupplierID != "" {
				s.sendLowStockAlert(ctx, tenant, p, AlertAutoCheck)
			}
		}
	}

	return nil
}
