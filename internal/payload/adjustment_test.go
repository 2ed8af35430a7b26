package payload

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/checkout-gateway/internal/domain/payment"
)

func testItems(amounts ...string) []payment.LineItem {
	items := make([]payment.LineItem, len(amounts))
	for i, amt := range amounts {
		items[i] = payment.LineItem{
			UniqueID:           "item",
			Name:               "Item",
			Quantity:           1,
			AmountIncludingTax: decimal.RequireFromString(amt),
			Type:               payment.LineItemProduct,
		}
	}
	return items
}

func TestAdjustment_NoDeltaNoLine(t *testing.T) {
	a := newAssembler(Settings{})

	li, err := a.adjustmentLineItem(context.Background(), "order-1",
		testItems("60.00", "40.00"), decimal.RequireFromString("100.00"))

	require.NoError(t, err)
	assert.Nil(t, li)
}

func TestAdjustment_PositiveDeltaIsFee(t *testing.T) {
	a := newAssembler(Settings{})

	li, err := a.adjustmentLineItem(context.Background(), "order-1",
		testItems("99.00"), decimal.RequireFromString("100.00"))

	require.NoError(t, err)
	require.NotNil(t, li)
	assert.Equal(t, payment.LineItemFee, li.Type)
	assert.Equal(t, "1.00", li.AmountIncludingTax.StringFixed(2))
	assert.Equal(t, "Adjustment-Line-Item", li.UniqueID)
	assert.Equal(t, "Adjustment-Line-Item", li.SKU)
	assert.Equal(t, "Adjustment", li.Name)
	assert.Equal(t, 1, li.Quantity)
}

func TestAdjustment_NegativeDeltaIsDiscount(t *testing.T) {
	a := newAssembler(Settings{})

	li, err := a.adjustmentLineItem(context.Background(), "order-1",
		testItems("101.00"), decimal.RequireFromString("100.00"))

	require.NoError(t, err)
	require.NotNil(t, li)
	assert.Equal(t, payment.LineItemDiscount, li.Type)
	assert.Equal(t, "-1.00", li.AmountIncludingTax.StringFixed(2))
}

func TestAdjustment_StrictModeAborts(t *testing.T) {
	a := newAssembler(Settings{EnforceConsistency: true})

	_, err := a.adjustmentLineItem(context.Background(), "order-1",
		testItems("99.00"), decimal.RequireFromString("100.00"))

	var mismatch *payment.TotalMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "order-1", mismatch.OrderID)
	assert.Equal(t, "100.00", mismatch.Expected.StringFixed(2))
	assert.Equal(t, "99.00", mismatch.Actual.StringFixed(2))
}

func TestAdjustment_StrictModeAllowsExactMatch(t *testing.T) {
	a := newAssembler(Settings{EnforceConsistency: true})

	li, err := a.adjustmentLineItem(context.Background(), "order-1",
		testItems("100.00"), decimal.RequireFromString("100.00"))

	require.NoError(t, err)
	assert.Nil(t, li)
}

func TestAdjustment_RoundsBeforeComparing(t *testing.T) {
	a := newAssembler(Settings{})

	// 100.004 rounds to 100.00, matching the item sum exactly.
	li, err := a.adjustmentLineItem(context.Background(), "order-1",
		testItems("100.00"), decimal.RequireFromString("100.004"))

	require.NoError(t, err)
	assert.Nil(t, li)
}
