// Package translate provides the static English label catalog used inside
// assembled payloads. The labels are behavioral placeholders; customer
// facing localization happens on the platform side.
package translate

import "github.com/xenking/checkout-gateway/internal/payload"

var catalog = map[payload.TranslationKey]string{
	payload.KeyTaxes:          "Taxes",
	payload.KeyShippingName:   "Shipping",
	payload.KeyShippingSuffix: "-Shipping-Line-Item",
	payload.KeyAdjustmentName: "Adjustment",
}

// Catalog is a payload.Translator backed by the static label map.
type Catalog struct{}

// NewCatalog returns the static English catalog.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// Translate returns the label for key, or the key itself when unknown so a
// missing entry stays visible instead of producing an empty payload field.
func (c *Catalog) Translate(key payload.TranslationKey) string {
	if v, ok := catalog[key]; ok {
		return v
	}
	return string(key)
}
