package core

import (
	"testing"
)

// ============================================================================
// ShouldAlert Tests
// ============================================================================

func alertProduct(low bool, supplierID string) *Product {
	return &Product{
		ID:         "p-1",
		SKU:        "A-1",
		Name:       "Widget",
		IsLowStock: low,
		SupplierID: supplierID,
	}
}

func TestShouldAlert(t *testing.T) {
	enabled := TenantSettings{GlobalLowStockThreshold: 10, EmailNotificationsEnabled: true}

	tests := []struct {
		name     string
		change   StateChange
		settings TenantSettings
		want     bool
	}{
		{
			name: "became low with supplier",
			change: StateChange{
				Before:   alertProduct(false, "s-1"),
				After:    alertProduct(true, "s-1"),
				Mutation: MutationUpload,
			},
			settings: enabled,
			want:     true,
		},
		{
			name: "new product created low",
			change: StateChange{
				After:    alertProduct(true, "s-1"),
				Mutation: MutationUpload,
			},
			settings: enabled,
			want:     true,
		},
		{
			name: "still low on sweep does not re-alert",
			change: StateChange{
				Before:   alertProduct(true, "s-1"),
				After:    alertProduct(true, "s-1"),
				Mutation: MutationSweep,
			},
			settings: enabled,
			want:     false,
		},
		{
			name: "not low",
			change: StateChange{
				Before:   alertProduct(false, "s-1"),
				After:    alertProduct(false, "s-1"),
				Mutation: MutationUpload,
			},
			settings: enabled,
			want:     false,
		},
		{
			name: "low but no supplier",
			change: StateChange{
				Before:   alertProduct(false, ""),
				After:    alertProduct(true, ""),
				Mutation: MutationUpload,
			},
			settings: enabled,
			want:     false,
		},
		{
			name: "notifications disabled suppresses everything",
			change: StateChange{
				Before:   alertProduct(false, "s-1"),
				After:    alertProduct(true, "s-1"),
				Mutation: MutationUpload,
			},
			settings: TenantSettings{GlobalLowStockThreshold: 10},
			want:     false,
		},
		{
			name: "supplier assigned to already-low product",
			change: StateChange{
				Before:   alertProduct(true, ""),
				After:    alertProduct(true, "s-1"),
				Mutation: MutationSupplierAssign,
			},
			settings: enabled,
			want:     true,
		},
		{
			name: "manual edit of already-low product with supplier",
			change: StateChange{
				Before:   alertProduct(true, "s-1"),
				After:    alertProduct(true, "s-1"),
				Mutation: MutationManualEdit,
			},
			settings: enabled,
			want:     true,
		},
		{
			name: "manual edit where supplier arrived with the edit",
			change: StateChange{
				Before:   alertProduct(true, ""),
				After:    alertProduct(true, "s-1"),
				Mutation: MutationManualEdit,
			},
			settings: enabled,
			want:     false,
		},
		{
			name: "threshold edit of already-low product does not re-alert",
			change: StateChange{
				Before:   alertProduct(true, "s-1"),
				After:    alertProduct(true, "s-1"),
				Mutation: MutationThresholdEdit,
			},
			settings: enabled,
			want:     false,
		},
		{
			name: "threshold edit that makes the product low alerts",
			change: StateChange{
				Before:   alertProduct(false, "s-1"),
				After:    alertProduct(true, "s-1"),
				Mutation: MutationThresholdEdit,
			},
			settings: enabled,
			want:     true,
		},
		{
			name:     "nil after",
			change:   StateChange{Before: alertProduct(true, "s-1")},
			settings: enabled,
			want:     false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ShouldAlert(tc.change, tc.settings); got != tc.want {
				t.Errorf("ShouldAlert = %v, want %v", got, tc.want)
			}
		})
	}
}
