package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stocksync/stocksync/internal/core"
)

func TestStore_ProductRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	p := &core.Product{
		ID:       "p-1",
		TenantID: "t-1",
		SKU:      "A-1",
		Name:     "Widget",
		Channels: []core.ChannelQuantity{{Channel: core.ChannelAmazon, Quantity: 10}},
	}
	if err := s.SaveProduct(ctx, p); err != nil {
		t.Fatalf("SaveProduct: %v", err)
	}

	got, err := s.ProductBySKU(ctx, "t-1", "A-1")
	if err != nil {
		t.Fatalf("ProductBySKU: %v", err)
	}
	if got.ID != "p-1" || got.Name != "Widget" {
		t.Errorf("unexpected product %+v", got)
	}

	if _, err := s.ProductBySKU(ctx, "t-2", "A-1"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound across tenants, got %v", err)
	}
	if _, err := s.ProductByID(ctx, "t-1", "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestStore_ReturnsClones(t *testing.T) {
	s := New()
	ctx := context.Background()

	p := &core.Product{
		ID:       "p-1",
		TenantID: "t-1",
		SKU:      "A-1",
		Channels: []core.ChannelQuantity{{Channel: core.ChannelAmazon, Quantity: 10}},
	}
	if err := s.SaveProduct(ctx, p); err != nil {
		t.Fatal(err)
	}

	// Mutating the caller's copy or a fetched copy must not leak into the
	// stored state.
	p.Channels[0].Quantity = 99

	got, _ := s.ProductBySKU(ctx, "t-1", "A-1")
	if got.Channels[0].Quantity != 10 {
		t.Errorf("store shares state with caller: quantity %d", got.Channels[0].Quantity)
	}

	got.Channels[0].Quantity = 77
	again, _ := s.ProductBySKU(ctx, "t-1", "A-1")
	if again.Channels[0].Quantity != 10 {
		t.Errorf("store shares state with reader: quantity %d", again.Channels[0].Quantity)
	}
}

func TestStore_ProductsByTenantSortedBySKU(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i, sku := range []string{"C-3", "A-1", "B-2"} {
		p := &core.Product{ID: string(rune('a' + i)), TenantID: "t-1", SKU: sku}
		if err := s.SaveProduct(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	products, err := s.ProductsByTenant(ctx, "t-1")
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"A-1", "B-2", "C-3"}
	for i, p := range products {
		if p.SKU != want[i] {
			t.Fatalf("expected SKU order %v, got %s at %d", want, p.SKU, i)
		}
	}
}

func TestStore_UpdateUploadUnknownID(t *testing.T) {
	s := New()

	err := s.UpdateUpload(context.Background(), &core.UploadRecord{ID: "nope"})
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_UpdateTenantSettings(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.CreateTenant(ctx, &core.Tenant{ID: "t-1", Name: "Acme"}); err != nil {
		t.Fatal(err)
	}

	settings := core.TenantSettings{GlobalLowStockThreshold: 7, EmailNotificationsEnabled: true}
	if err := s.UpdateTenantSettings(ctx, "t-1", settings); err != nil {
		t.Fatal(err)
	}

	tenant, err := s.Tenant(ctx, "t-1")
	if err != nil {
		t.Fatal(err)
	}
	if tenant.Settings != settings {
		t.Errorf("expected settings %+v, got %+v", settings, tenant.Settings)
	}

	if err := s.UpdateTenantSettings(ctx, "missing", settings); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
