package core

// mapping.go resolves column positions for files whose platform could not be
// identified. Headers are matched against fixed keyword priority lists per
// logical field.
//
// Assignment rules, preserved deliberately:
//   - Headers are scanned in file order; within one header the fields are
//     tried SKU first, then Name, then Quantity.
//   - A slot is never overwritten once filled.
//   - A header consumed by one field stays eligible for the others, so a
//     single header such as "Product ID" can fill both the SKU and Name
//     slots.

import "strings"

// fieldKeyword is one entry in a field's priority list. Exact entries match
// the whole header; others match as substrings.
type fieldKeyword struct {
	term  string
	exact bool
}

var (
	skuKeywords = []fieldKeyword{
		{term: "sku"},
		{term: "id"},
		{term: "code"},
		{term: "item", exact: true},
		{term: "product id"},
	}

	nameKeywords = []fieldKeyword{
		{term: "name"},
		{term: "title"},
		{term: "product"},
		{term: "item name"},
		{term: "description"},
	}

	quantityKeywords = []fieldKeyword{
		{term: "quantity"},
		{term: "qty"},
		{term: "stock"},
		{term: "inventory"},
		{term: "units"},
		{term: "count"},
		{term: "available"},
	}
)

// ResolveColumns maps headers to logical fields by keyword matching.
// Any of the returned columns may be empty if no header matched.
func ResolveColumns(headers []string) ColumnMapping {
	var mapping ColumnMapping

	for _, h := range headers {
		clean := CleanCell(h)
		lower := strings.ToLower(clean)

		if mapping.SKUColumn == "" && matchesKeyword(lower, skuKeywords) {
			mapping.SKUColumn = clean
		}
		if mapping.NameColumn == "" && matchesKeyword(lower, nameKeywords) {
			mapping.NameColumn = clean
		}
		if mapping.QuantityColumn == "" && matchesKeyword(lower, quantityKeywords) {
			mapping.QuantityColumn = clean
		}
	}

	return mapping
}

func matchesKeyword(header string, keywords []fieldKeyword) bool {
	for _, kw := range keywords {
		if kw.exact {
			if header == kw.term {
				return true
			}
			continue
		}
		if strings.Contains(header, kw.term) {
			return true
		}
	}
	return false
}
