package core

import (
	"testing"
)

// ============================================================================
// ResolveColumns Tests
// ============================================================================

func TestResolveColumns(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    ColumnMapping
	}{
		{
			name:    "plain keyword headers",
			headers: []string{"SKU", "Name", "Quantity"},
			want:    ColumnMapping{SKUColumn: "SKU", NameColumn: "Name", QuantityColumn: "Quantity"},
		},
		{
			name:    "substring matches",
			headers: []string{"Internal Code", "Product Title", "Units On Hand"},
			want:    ColumnMapping{SKUColumn: "Internal Code", NameColumn: "Product Title", QuantityColumn: "Units On Hand"},
		},
		{
			name:    "first match wins per field",
			headers: []string{"SKU", "Secondary SKU", "Name", "Qty"},
			want:    ColumnMapping{SKUColumn: "SKU", NameColumn: "Name", QuantityColumn: "Qty"},
		},
		{
			name:    "one header can fill several fields",
			headers: []string{"Product ID", "Qty"},
			want:    ColumnMapping{SKUColumn: "Product ID", NameColumn: "Product ID", QuantityColumn: "Qty"},
		},
		{
			name:    "item matches exactly",
			headers: []string{"Item", "Description", "Stock"},
			want:    ColumnMapping{SKUColumn: "Item", NameColumn: "Description", QuantityColumn: "Stock"},
		},
		{
			name:    "item as substring does not match sku",
			headers: []string{"Items", "Qty"},
			want:    ColumnMapping{QuantityColumn: "Qty"},
		},
		{
			name:    "nothing resolves",
			headers: []string{"foo", "bar", "baz"},
			want:    ColumnMapping{},
		},
		{
			name:    "empty header row",
			headers: nil,
			want:    ColumnMapping{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveColumns(tc.headers)
			if got != tc.want {
				t.Errorf("ResolveColumns(%v) = %+v, want %+v", tc.headers, got, tc.want)
			}
		})
	}
}

func TestResolveColumns_CleansHeaders(t *testing.T) {
	got := ResolveColumns([]string{` "SKU" `, "=\"Quantity\"", "Name"})

	want := ColumnMapping{SKUColumn: "SKU", NameColumn: "Name", QuantityColumn: "Quantity"}
	if got != want {
		t.Errorf("expected mapping %+v, got %+v", want, got)
	}
}
