package core

import (
	"fmt"
	"sort"
	"sync"
)

// PlatformSignature describes how a commerce platform labels the three
// logical fields in its inventory exports, plus loose indicator substrings
// that raise detection confidence when they appear anywhere in the header row.
type PlatformSignature struct {
	Platform Platform
	Channel  Channel

	// Canonical header names, matched exactly (case-insensitive, trimmed).
	SKUHeader      string
	NameHeader     string
	QuantityHeader string

	// Indicator substrings, each worth a flat confidence bonus.
	Indicators []string
}

var (
	signatures   = make(map[Platform]PlatformSignature)
	signaturesMu sync.RWMutex
)

// RegisterSignature adds a platform signature to the registry.
// Panics if the platform is already registered.
func RegisterSignature(sig PlatformSignature) {
	signaturesMu.Lock()
	defer signaturesMu.Unlock()

	if _, exists := signatures[sig.Platform]; exists {
		panic(fmt.Sprintf("signature already registered: %s", sig.Platform))
	}
	signatures[sig.Platform] = sig
}

// Signatures returns all registered signatures, sorted by platform for
// deterministic scoring order.
func Signatures() []PlatformSignature {
	signaturesMu.RLock()
	defer signaturesMu.RUnlock()

	result := make([]PlatformSignature, 0, len(signatures))
	for _, sig := range signatures {
		result = append(result, sig)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Platform < result[j].Platform
	})
	return result
}

func init() {
	RegisterSignature(PlatformSignature{
		Platform:       PlatformAmazon,
		Channel:        ChannelAmazon,
		SKUHeader:      "sku",
		NameHeader:     "product name",
		QuantityHeader: "quantity",
		Indicators:     []string{"asin", "fulfillment", "amazon", "fnsku"},
	})

	RegisterSignature(PlatformSignature{
		Platform:       PlatformShopify,
		Channel:        ChannelShopify,
		SKUHeader:      "variant sku",
		NameHeader:     "title",
		QuantityHeader: "variant inventory qty",
		Indicators:     []string{"handle", "variant", "shopify", "vendor"},
	})
}
