package payload

import (
	"context"

	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/checkout-gateway/internal/domain/payment"
)

// adjustmentUniqueID is the fixed unique id and sku of the synthetic
// reconciliation line.
const adjustmentUniqueID = "Adjustment-Line-Item"

// adjustmentLineItem compares the assembled line item sum against the
// order's authoritative total. A zero delta yields no line. A non-zero
// delta yields a synthetic line absorbing it, or a TotalMismatchError when
// consistency enforcement is on. The gateway independently verifies the
// sum, so a payload leaving this step always foots to the order total.
func (a *Assembler) adjustmentLineItem(ctx context.Context, orderID string, items []payment.LineItem, orderTotal decimal.Decimal) (*payment.LineItem, error) {
	lg := zctx.From(ctx)

	sum := payment.SumAmounts(items)
	delta := roundAmount(orderTotal).Sub(roundAmount(sum))
	if delta.IsZero() {
		return nil, nil
	}

	if a.settings.EnforceConsistency {
		err := &payment.TotalMismatchError{
			OrderID:  orderID,
			Expected: roundAmount(orderTotal),
			Actual:   roundAmount(sum),
		}
		lg.Error("line item totals do not match order total",
			zap.String("order_id", orderID),
			zap.String("expected", err.Expected.StringFixed(2)),
			zap.String("actual", err.Actual.StringFixed(2)),
		)
		return nil, err
	}

	itemType := payment.LineItemFee
	if delta.IsNegative() {
		itemType = payment.LineItemDiscount
	}

	li := payment.LineItem{
		UniqueID:           adjustmentUniqueID,
		SKU:                adjustmentUniqueID,
		Name:               a.translator.Translate(KeyAdjustmentName),
		Quantity:           1,
		AmountIncludingTax: delta,
		Type:               itemType,
	}
	if err := li.Validate(); err != nil {
		lg.Error("adjustment line item failed validation",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		return nil, err
	}

	lg.Info("inserted adjustment line item",
		zap.String("order_id", orderID),
		zap.String("amount", delta.StringFixed(2)),
	)
	return &li, nil
}
