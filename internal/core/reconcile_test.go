package core

import (
	"testing"
)

// ============================================================================
// recompute Tests
// ============================================================================

func intPtr(v int) *int { return &v }

func TestRecompute(t *testing.T) {
	settings := TenantSettings{GlobalLowStockThreshold: 10}

	tests := []struct {
		name      string
		product   Product
		wantTotal int
		wantLow   bool
		wantThr   int
	}{
		{
			name: "sums all channels",
			product: Product{Channels: []ChannelQuantity{
				{Channel: ChannelAmazon, Quantity: 30},
				{Channel: ChannelShopify, Quantity: 12},
			}},
			wantTotal: 42,
			wantLow:   false,
			wantThr:   10,
		},
		{
			name: "total equal to threshold is low",
			product: Product{Channels: []ChannelQuantity{
				{Channel: ChannelAmazon, Quantity: 10},
			}},
			wantTotal: 10,
			wantLow:   true,
			wantThr:   10,
		},
		{
			name: "just above threshold is not low",
			product: Product{Channels: []ChannelQuantity{
				{Channel: ChannelAmazon, Quantity: 11},
			}},
			wantTotal: 11,
			wantLow:   false,
			wantThr:   10,
		},
		{
			name: "product threshold overrides global",
			product: Product{
				LowStockThreshold: intPtr(50),
				Channels: []ChannelQuantity{
					{Channel: ChannelAmazon, Quantity: 30},
				},
			},
			wantTotal: 30,
			wantLow:   true,
			wantThr:   50,
		},
		{
			name:      "no channels means zero total",
			product:   Product{},
			wantTotal: 0,
			wantLow:   true,
			wantThr:   10,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.product
			recompute(&p, settings)

			if p.TotalQuantity != tc.wantTotal {
				t.Errorf("expected total %d, got %d", tc.wantTotal, p.TotalQuantity)
			}
			if p.IsLowStock != tc.wantLow {
				t.Errorf("expected low=%v, got %v", tc.wantLow, p.IsLowStock)
			}
			if p.LowStockThreshold == nil {
				t.Fatal("expected threshold pinned, got nil")
			}
			if *p.LowStockThreshold != tc.wantThr {
				t.Errorf("expected threshold %d, got %d", tc.wantThr, *p.LowStockThreshold)
			}
		})
	}
}

func TestRecompute_PinnedThresholdSurvivesGlobalChange(t *testing.T) {
	p := Product{Channels: []ChannelQuantity{{Channel: ChannelAmazon, Quantity: 5}}}

	recompute(&p, TenantSettings{GlobalLowStockThreshold: 10})
	if *p.LowStockThreshold != 10 {
		t.Fatalf("expected threshold pinned at 10, got %d", *p.LowStockThreshold)
	}

	// Once pinned the product no longer follows the global setting.
	recompute(&p, TenantSettings{GlobalLowStockThreshold: 99})
	if *p.LowStockThreshold != 10 {
		t.Errorf("expected pinned threshold 10 retained, got %d", *p.LowStockThreshold)
	}
}

// ============================================================================
// sweepEqual Tests
// ============================================================================

func TestSweepEqual(t *testing.T) {
	base := func() *Product {
		return &Product{TotalQuantity: 10, IsLowStock: false, LowStockThreshold: intPtr(5)}
	}

	tests := []struct {
		name   string
		mutate func(*Product)
		want   bool
	}{
		{"identical", func(*Product) {}, true},
		{"total differs", func(p *Product) { p.TotalQuantity = 11 }, false},
		{"low flag differs", func(p *Product) { p.IsLowStock = true }, false},
		{"threshold differs", func(p *Product) { p.LowStockThreshold = intPtr(6) }, false},
		{"threshold becomes nil", func(p *Product) { p.LowStockThreshold = nil }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before, after := base(), base()
			tc.mutate(after)

			if got := sweepEqual(before, after); got != tc.want {
				t.Errorf("sweepEqual = %v, want %v", got, tc.want)
			}
		})
	}
}

// ============================================================================
// Product helpers
// ============================================================================

func TestProductSetQuantity_ReplacesChannelEntry(t *testing.T) {
	p := Product{}

	p.SetQuantity(ChannelAmazon, 10)
	p.SetQuantity(ChannelShopify, 3)
	p.SetQuantity(ChannelAmazon, 4)

	if len(p.Channels) != 2 {
		t.Fatalf("expected 2 channel entries, got %d", len(p.Channels))
	}
	if got := p.Quantity(ChannelAmazon); got != 4 {
		t.Errorf("expected amazon quantity replaced to 4, got %d", got)
	}
	if got := p.Quantity(ChannelShopify); got != 3 {
		t.Errorf("expected shopify quantity untouched at 3, got %d", got)
	}
}

func TestProductClone_Independent(t *testing.T) {
	p := &Product{
		Channels:          []ChannelQuantity{{Channel: ChannelAmazon, Quantity: 10}},
		LowStockThreshold: intPtr(5),
	}

	cp := p.Clone()
	cp.Channels[0].Quantity = 99
	*cp.LowStockThreshold = 99

	if p.Channels[0].Quantity != 10 {
		t.Errorf("clone shares channel slice with original")
	}
	if *p.LowStockThreshold != 5 {
		t.Errorf("clone shares threshold pointer with original")
	}
}
