package payload

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/checkout-gateway/internal/domain/order"
	"github.com/xenking/checkout-gateway/internal/domain/payment"
)

// attributeKeyPrefix + hex digest, truncated to the tax title bound, keys a
// line item attribute. The digest makes the key deterministic for a given
// option group label across builds.
const attributeKeyPrefix = "option_"

// buildLineItems converts every order line into a validated gateway line
// item, in source order. Attribute validation is fail-fast: the first
// invalid option aborts the whole build.
func (a *Assembler) buildLineItems(ctx context.Context, lines []order.Line) ([]payment.LineItem, error) {
	items := make([]payment.LineItem, 0, len(lines))
	for _, line := range lines {
		li, err := a.buildLineItem(ctx, line)
		if err != nil {
			return nil, err
		}
		items = append(items, li)
	}
	return items, nil
}

func (a *Assembler) buildLineItem(ctx context.Context, line order.Line) (payment.LineItem, error) {
	lg := zctx.From(ctx)

	amount := roundAmount(line.TotalPrice)

	taxes, err := a.buildTaxes(ctx, line.Taxes, a.translator.Translate(KeyTaxes))
	if err != nil {
		return payment.LineItem{}, err
	}

	attributes, err := a.buildAttributes(ctx, line)
	if err != nil {
		return payment.LineItem{}, err
	}

	itemType := payment.LineItemProduct
	if amount.IsNegative() {
		itemType = payment.LineItemDiscount
	}

	li := payment.LineItem{
		UniqueID:           truncate(line.ID, payment.MaxUniqueIDLen),
		SKU:                resolveSKU(line),
		Name:               truncate(line.Label, payment.MaxLineItemNameLen),
		Quantity:           line.Quantity,
		AmountIncludingTax: amount,
		Type:               itemType,
		Taxes:              taxes,
		Attributes:         attributes,
	}
	if err := li.Validate(); err != nil {
		lg.Error("line item failed validation",
			zap.String("line_id", line.ID),
			zap.Error(err),
		)
		return payment.LineItem{}, err
	}
	return li, nil
}

// resolveSKU picks the line's sku: the payload product number when present,
// else the product id, else the line's own id.
func resolveSKU(line order.Line) string {
	sku := line.ID
	if line.ProductID != "" {
		sku = line.ProductID
	}
	if line.Payload != nil && line.Payload.ProductNumber != "" {
		sku = line.Payload.ProductNumber
	}
	return truncate(sku, payment.MaxSKULen)
}

// buildAttributes extracts configured product options into line item
// attributes. An option that fails validation aborts the build; the
// attribute is never silently dropped.
func (a *Assembler) buildAttributes(ctx context.Context, line order.Line) (map[string]payment.LineItemAttribute, error) {
	if line.Payload == nil || len(line.Payload.Options) == 0 {
		return nil, nil
	}
	attributes := make(map[string]payment.LineItemAttribute, len(line.Payload.Options))
	for _, opt := range line.Payload.Options {
		attr := payment.LineItemAttribute{
			Label: truncate(opt.Group, payment.MaxAttributeLabelLen),
			Value: truncate(opt.Option, payment.MaxAttributeValueLen),
		}
		if err := attr.Validate(); err != nil {
			zctx.From(ctx).Error("line item attribute failed validation",
				zap.String("line_id", line.ID),
				zap.String("group", opt.Group),
				zap.Error(err),
			)
			return nil, err
		}
		attributes[attributeKey(attr.Label)] = attr
	}
	return attributes, nil
}

// attributeKey derives the deterministic map key for an option label.
func attributeKey(label string) string {
	digest := sha256.Sum256([]byte(label))
	return truncate(attributeKeyPrefix+hex.EncodeToString(digest[:]), payment.MaxTaxTitleLen)
}
