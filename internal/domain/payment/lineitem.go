package payment

import (
	"github.com/shopspring/decimal"
)

// LineItemType enumerates the gateway's line item kinds.
type LineItemType string

const (
	// LineItemProduct is a regular billable position.
	LineItemProduct LineItemType = "PRODUCT"
	// LineItemDiscount is a negative position reducing the total.
	LineItemDiscount LineItemType = "DISCOUNT"
	// LineItemShipping is the shipping cost position.
	LineItemShipping LineItemType = "SHIPPING"
	// LineItemFee is a positive correction position.
	LineItemFee LineItemType = "FEE"
)

// Gateway schema length bounds. Values exceeding a bound are truncated at
// assembly time, never rejected.
const (
	MaxUniqueIDLen       = 200
	MaxSKULen            = 200
	MaxLineItemNameLen   = 150
	MaxTaxTitleLen       = 40
	MaxAttributeLabelLen = 512
	MaxAttributeValueLen = 512
)

// Tax is one tax bracket of a line item as submitted to the gateway.
type Tax struct {
	Rate  decimal.Decimal
	Title string
}

// Validate checks the gateway schema constraints for a Tax.
func (t Tax) Validate() error {
	var invalid []string
	if t.Title == "" || len(t.Title) > MaxTaxTitleLen {
		invalid = append(invalid, "title")
	}
	if t.Rate.IsNegative() {
		invalid = append(invalid, "rate")
	}
	if len(invalid) > 0 {
		return &ValidationError{Kind: "Tax", Fields: invalid}
	}
	return nil
}

// LineItemAttribute is one displayed key/value pair of a line item, e.g. a
// configured product option.
type LineItemAttribute struct {
	Label string
	Value string
}

// Validate checks the gateway schema constraints for a LineItemAttribute.
func (a LineItemAttribute) Validate() error {
	var invalid []string
	if a.Label == "" || len(a.Label) > MaxAttributeLabelLen {
		invalid = append(invalid, "label")
	}
	if a.Value == "" || len(a.Value) > MaxAttributeValueLen {
		invalid = append(invalid, "value")
	}
	if len(invalid) > 0 {
		return &ValidationError{Kind: "LineItemAttribute", Fields: invalid}
	}
	return nil
}

// LineItem is one billable unit of a transaction. AmountIncludingTax is the
// line's gross total rounded to two decimal places; the gateway verifies
// that all line amounts of a transaction sum to the transaction total.
type LineItem struct {
	UniqueID           string
	SKU                string
	Name               string
	Quantity           int
	AmountIncludingTax decimal.Decimal
	Type               LineItemType
	Taxes              []Tax
	Attributes         map[string]LineItemAttribute
}

// Validate checks the gateway schema constraints for a LineItem and all of
// its nested values.
func (li LineItem) Validate() error {
	var invalid []string
	if li.UniqueID == "" || len(li.UniqueID) > MaxUniqueIDLen {
		invalid = append(invalid, "uniqueId")
	}
	if len(li.SKU) > MaxSKULen {
		invalid = append(invalid, "sku")
	}
	if li.Name == "" || len(li.Name) > MaxLineItemNameLen {
		invalid = append(invalid, "name")
	}
	if li.Quantity < 1 {
		invalid = append(invalid, "quantity")
	}
	if li.AmountIncludingTax.Exponent() < -2 {
		invalid = append(invalid, "amountIncludingTax")
	}
	switch li.Type {
	case LineItemProduct, LineItemDiscount, LineItemShipping, LineItemFee:
	default:
		invalid = append(invalid, "type")
	}
	if len(invalid) > 0 {
		return &ValidationError{Kind: "LineItem", Fields: invalid}
	}
	for _, t := range li.Taxes {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	for _, a := range li.Attributes {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// SumAmounts returns the sum of AmountIncludingTax over the given items.
func SumAmounts(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, li := range items {
		sum = sum.Add(li.AmountIncludingTax)
	}
	return sum
}
