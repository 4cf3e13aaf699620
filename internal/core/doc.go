// Package core implements the CSV format-detection and stock reconciliation
// engine.
//
// # Pipeline
//
// Raw CSV bytes flow through four stages:
//
//  1. Detection (detect.go, formats.go): the header row is scored against
//     registered platform signatures; low-confidence matches fall back to
//     generic keyword mapping.
//  2. Column mapping (mapping.go): keyword priority lists resolve which
//     header supplies SKU, product name and quantity.
//  3. Transformation (transform.go): rows are validated and coerced into
//     StockRow values; invalid rows are counted and dropped.
//  4. Reconciliation (reconcile.go): rows merge into per-SKU products, one
//     quantity per channel, then a whole-tenant sweep recomputes totals and
//     low-stock flags.
//
// Notification decisions (notify.go) inspect each state transition produced
// by stage 4 and hand alert payloads to the delivery collaborator.
//
// # Boundaries
//
// Persistence is consumed through the Repository interface (repository.go);
// HTTP transport and email delivery live outside this package. Mutations for
// one tenant are serialized by a per-tenant lock owned by Service.
package core
