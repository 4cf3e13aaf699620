package core

// transform.go turns raw CSV bytes into validated stock rows.
//
// Parsing is deliberately forgiving about structure (ragged rows, lazy
// quotes, broken encodings) and strict about content: a row only reaches the
// reconciliation engine when SKU, name and quantity are all present and the
// quantity parses as a non-negative integer. Everything else is counted and
// dropped.

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
	"unicode/utf8"
)

// TransformResult reports how many raw rows survived validation.
type TransformResult struct {
	Rows    []StockRow // valid rows, in file order
	Total   int        // data rows seen (empty rows excluded)
	Skipped int        // rows rejected by validation
}

// TransformRows applies a resolved column mapping to raw data rows.
//
// A row is valid iff all three mapped fields are present and non-empty after
// trimming and the quantity parses as a base-10 non-negative integer. Invalid
// rows are counted and discarded; they are never coerced (an empty quantity
// is a rejection, not a zero).
func TransformRows(header []string, rows [][]string, mapping ColumnMapping) TransformResult {
	idx := MakeHeaderIndex(header)

	skuPos, skuOK := idx[strings.ToLower(mapping.SKUColumn)]
	namePos, nameOK := idx[strings.ToLower(mapping.NameColumn)]
	qtyPos, qtyOK := idx[strings.ToLower(mapping.QuantityColumn)]

	result := TransformResult{Rows: make([]StockRow, 0, len(rows))}

	for _, row := range rows {
		if isEmptyRow(row) {
			continue
		}
		result.Total++

		sku := cellAt(row, skuPos, skuOK)
		name := cellAt(row, namePos, nameOK)
		rawQty := cellAt(row, qtyPos, qtyOK)

		if sku == "" || name == "" || rawQty == "" {
			result.Skipped++
			continue
		}

		qty, err := strconv.Atoi(rawQty)
		if err != nil || qty < 0 {
			result.Skipped++
			continue
		}

		result.Rows = append(result.Rows, StockRow{SKU: sku, Name: name, Quantity: qty})
	}

	return result
}

func cellAt(row []string, pos int, ok bool) string {
	if !ok || pos < 0 || pos >= len(row) {
		return ""
	}
	return CleanCell(row[pos])
}

// ParseCSV parses raw CSV bytes into records. Ragged rows and lazy quoting
// are tolerated; structural failures are wrapped as ParseError by callers.
func ParseCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

// SanitizeUTF8 replaces invalid byte sequences with the Unicode replacement
// character so the CSV reader never chokes on exports saved in legacy
// encodings.
func SanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}

// CleanCell removes common CSV artifacts from a cell value:
// - Trims whitespace (including the UTF-8 BOM)
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimPrefix(s, "\uFEFF")
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)

	return strings.TrimSpace(s)
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
