package payload

import (
	"context"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/checkout-gateway/internal/domain/order"
	"github.com/xenking/checkout-gateway/internal/domain/payment"
)

// shippingLineItem synthesizes the shipping cost line. A shipping total of
// zero or less produces no line. Unlike the rest of the assembly this path
// is fail-soft: a shipping line that cannot be built is logged and skipped
// rather than aborting the transaction.
func (a *Assembler) shippingLineItem(ctx context.Context, snap *order.Snapshot) *payment.LineItem {
	amount := roundAmount(snap.ShippingTotal)
	if !amount.IsPositive() {
		return nil
	}

	name := snap.ShippingMethod
	if name == "" {
		name = a.translator.Translate(KeyShippingName)
	}
	name = truncate(name, payment.MaxLineItemNameLen)

	taxes, err := a.buildTaxes(ctx, snap.ShippingTaxes, name)
	if err != nil {
		zctx.From(ctx).Warn("skipping shipping line item",
			zap.String("order_id", snap.ID),
			zap.Error(err),
		)
		return nil
	}

	quantity := snap.ShippingQuantity
	if quantity < 1 {
		quantity = 1
	}

	id := truncate(name+a.translator.Translate(KeyShippingSuffix), payment.MaxUniqueIDLen)
	li := payment.LineItem{
		UniqueID:           id,
		SKU:                id,
		Name:               name,
		Quantity:           quantity,
		AmountIncludingTax: amount,
		Type:               payment.LineItemShipping,
		Taxes:              taxes,
	}
	if err := li.Validate(); err != nil {
		zctx.From(ctx).Warn("skipping shipping line item",
			zap.String("order_id", snap.ID),
			zap.Error(err),
		)
		return nil
	}
	return &li
}
