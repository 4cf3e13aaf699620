package core

// export.go writes the canonical stock CSV. The header row and the literal
// "Low Stock"/"In Stock" status strings are a compatibility contract with
// downstream consumers; do not reword them.

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

var exportHeader = []string{
	"SKU",
	"Product Name",
	"Amazon Quantity",
	"Shopify Quantity",
	"Total Quantity",
	"Low Stock Threshold",
	"Stock Status",
}

// ExportCSV writes one row per product a tenant owns, sorted by SKU.
func (s *Service) ExportCSV(ctx context.Context, tenantID string, w io.Writer) error {
	tenant, err := s.repo.Tenant(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("tenant %q: %w", tenantID, err)
	}

	products, err := s.repo.ProductsByTenant(ctx, tenant.ID)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, p := range products {
		status := "In Stock"
		if p.IsLowStock {
			status = "Low Stock"
		}

		row := []string{
			p.SKU,
			p.Name,
			strconv.Itoa(p.Quantity(ChannelAmazon)),
			strconv.Itoa(p.Quantity(ChannelShopify)),
			strconv.Itoa(p.TotalQuantity),
			strconv.Itoa(effectiveThreshold(p, tenant.Settings)),
			status,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %q: %w", p.SKU, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
