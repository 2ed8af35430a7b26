package payload

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/checkout-gateway/internal/domain/order"
	"github.com/xenking/checkout-gateway/internal/domain/payment"
)

func TestBuildTaxes_OnePerBracketInOrder(t *testing.T) {
	a := newAssembler(Settings{})
	brackets := []order.CalculatedTax{
		{Rate: decimal.RequireFromString("19"), Amount: decimal.RequireFromString("1.90")},
		{Rate: decimal.RequireFromString("7"), Amount: decimal.RequireFromString("0.35")},
		{Rate: decimal.RequireFromString("19"), Amount: decimal.RequireFromString("0.95")},
	}

	taxes, err := a.buildTaxes(context.Background(), brackets, "Taxes")

	require.NoError(t, err)
	// Equal rates are not merged; input order is preserved.
	require.Len(t, taxes, 3)
	assert.Equal(t, "Taxes : 19", taxes[0].Title)
	assert.Equal(t, "Taxes : 7", taxes[1].Title)
	assert.Equal(t, "Taxes : 19", taxes[2].Title)
	assert.True(t, taxes[0].Rate.Equal(decimal.RequireFromString("19")))
}

func TestBuildTaxes_TitleTruncated(t *testing.T) {
	a := newAssembler(Settings{})
	brackets := []order.CalculatedTax{
		{Rate: decimal.RequireFromString("7.7"), Amount: decimal.RequireFromString("0.77")},
	}

	taxes, err := a.buildTaxes(context.Background(), brackets, strings.Repeat("t", 60))

	require.NoError(t, err)
	assert.Len(t, taxes[0].Title, payment.MaxTaxTitleLen)
}

func TestBuildTaxes_Empty(t *testing.T) {
	a := newAssembler(Settings{})

	taxes, err := a.buildTaxes(context.Background(), nil, "Taxes")

	require.NoError(t, err)
	assert.Nil(t, taxes)
}

func TestBuildTaxes_NegativeRateInvalid(t *testing.T) {
	a := newAssembler(Settings{})
	brackets := []order.CalculatedTax{
		{Rate: decimal.RequireFromString("-1"), Amount: decimal.Zero},
	}

	_, err := a.buildTaxes(context.Background(), brackets, "Taxes")

	var vErr *payment.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Tax", vErr.Kind)
	assert.Contains(t, vErr.Fields, "rate")
}
