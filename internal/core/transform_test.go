package core

import (
	"bytes"
	"testing"
)

// ============================================================================
// TransformRows Tests
// ============================================================================

var testMapping = ColumnMapping{SKUColumn: "SKU", NameColumn: "Name", QuantityColumn: "Qty"}

func TestTransformRows(t *testing.T) {
	header := []string{"SKU", "Name", "Qty"}
	rows := [][]string{
		{"A-1", "Widget", "10"},
		{"A-2", "Gadget", "0"},
	}

	result := TransformRows(header, rows, testMapping)

	if result.Total != 2 || result.Skipped != 0 {
		t.Fatalf("expected 2 total, 0 skipped, got %d/%d", result.Total, result.Skipped)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(result.Rows))
	}
	if result.Rows[0] != (StockRow{SKU: "A-1", Name: "Widget", Quantity: 10}) {
		t.Errorf("unexpected first row %+v", result.Rows[0])
	}
	if result.Rows[1].Quantity != 0 {
		t.Errorf("expected explicit zero quantity accepted, got %+v", result.Rows[1])
	}
}

func TestTransformRows_Rejections(t *testing.T) {
	header := []string{"SKU", "Name", "Qty"}

	tests := []struct {
		name string
		row  []string
	}{
		{"empty sku", []string{"", "Widget", "10"}},
		{"empty name", []string{"A-1", "", "10"}},
		{"empty quantity is not zero", []string{"A-1", "Widget", ""}},
		{"whitespace quantity", []string{"A-1", "Widget", "   "}},
		{"non-numeric quantity", []string{"A-1", "Widget", "lots"}},
		{"decimal quantity", []string{"A-1", "Widget", "3.5"}},
		{"negative quantity", []string{"A-1", "Widget", "-2"}},
		{"short row missing quantity cell", []string{"A-1", "Widget"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := TransformRows(header, [][]string{tc.row}, testMapping)

			if result.Total != 1 {
				t.Fatalf("expected row counted, got total %d", result.Total)
			}
			if result.Skipped != 1 {
				t.Errorf("expected row skipped, got %d", result.Skipped)
			}
			if len(result.Rows) != 0 {
				t.Errorf("expected no valid rows, got %+v", result.Rows)
			}
		})
	}
}

func TestTransformRows_EmptyRowsNotCounted(t *testing.T) {
	header := []string{"SKU", "Name", "Qty"}
	rows := [][]string{
		{"A-1", "Widget", "10"},
		{"", "", ""},
		{"   ", "", "  "},
		{"A-2", "Gadget", "5"},
	}

	result := TransformRows(header, rows, testMapping)

	if result.Total != 2 {
		t.Errorf("expected empty rows excluded from total, got %d", result.Total)
	}
	if result.Skipped != 0 {
		t.Errorf("expected empty rows not counted as skipped, got %d", result.Skipped)
	}
	if len(result.Rows) != 2 {
		t.Errorf("expected 2 rows, got %d", len(result.Rows))
	}
}

func TestTransformRows_CellsCleaned(t *testing.T) {
	header := []string{"SKU", "Name", "Qty"}
	rows := [][]string{
		{`="A-1"`, ` "Widget" `, ` 10 `},
	}

	result := TransformRows(header, rows, testMapping)

	if len(result.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d (skipped %d)", len(result.Rows), result.Skipped)
	}
	want := StockRow{SKU: "A-1", Name: "Widget", Quantity: 10}
	if result.Rows[0] != want {
		t.Errorf("expected %+v, got %+v", want, result.Rows[0])
	}
}

// ============================================================================
// ParseCSV Tests
// ============================================================================

func TestParseCSV_RaggedRows(t *testing.T) {
	data := []byte("SKU,Name,Qty\nA-1,Widget,10\nA-2,Gadget\n")

	records, err := ParseCSV(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if len(records[2]) != 2 {
		t.Errorf("expected short row preserved, got %v", records[2])
	}
}

func TestParseCSV_LazyQuotes(t *testing.T) {
	data := []byte("SKU,Name\nA-1,5\" Widget\n")

	records, err := ParseCSV(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
}

// ============================================================================
// CleanCell Tests
// ============================================================================

func TestCleanCell(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain value", "ABC-123", "ABC-123"},
		{"surrounding whitespace", "  ABC-123  ", "ABC-123"},
		{"BOM prefix", "\uFEFFSKU", "SKU"},
		{"excel formula wrapper", `="ABC-123"`, "ABC-123"},
		{"bare equals prefix", "=SUM", "SUM"},
		{"double quotes", `"ABC-123"`, "ABC-123"},
		{"single quotes", "'ABC-123'", "ABC-123"},
		{"quotes then whitespace", ` "ABC-123" `, "ABC-123"},
		{"empty", "", ""},
		{"only whitespace", "   ", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CleanCell(tc.input); got != tc.want {
				t.Errorf("CleanCell(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

// ============================================================================
// SanitizeUTF8 Tests
// ============================================================================

func TestSanitizeUTF8(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  []byte
	}{
		{
			name:  "valid UTF-8 unchanged",
			input: []byte("sku,name,qty"),
			want:  []byte("sku,name,qty"),
		},
		{
			name:  "valid unicode preserved",
			input: []byte("widget \xe4\xb8\x96\xe7\x95\x8c"),
			want:  []byte("widget \xe4\xb8\x96\xe7\x95\x8c"),
		},
		{
			name:  "invalid byte replaced",
			input: []byte{0x80},
			want:  []byte("�"),
		},
		{
			name:  "latin-1 byte in otherwise valid data",
			input: []byte("caf\xe9,10"),
			want:  []byte("caf�,10"),
		},
		{
			name:  "truncated multibyte sequence",
			input: []byte{0xc3},
			want:  []byte("�"),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SanitizeUTF8(tc.input)
			if !bytes.Equal(got, tc.want) {
				t.Errorf("SanitizeUTF8(%v) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
