package payload

import (
	"context"
	"fmt"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/checkout-gateway/internal/domain/order"
	"github.com/xenking/checkout-gateway/internal/domain/payment"
)

// buildTaxes converts calculated tax brackets into gateway Tax values. One
// output entry per input bracket, source order preserved, no merging of
// equal rates. Titles are composed as "<title> : <rate>" and truncated to
// the gateway bound.
func (a *Assembler) buildTaxes(ctx context.Context, taxes []order.CalculatedTax, title string) ([]payment.Tax, error) {
	if len(taxes) == 0 {
		return nil, nil
	}
	out := make([]payment.Tax, 0, len(taxes))
	for _, ct := range taxes {
		t := payment.Tax{
			Rate:  ct.Rate,
			Title: truncate(fmt.Sprintf("%s : %s", title, ct.Rate.String()), payment.MaxTaxTitleLen),
		}
		if err := t.Validate(); err != nil {
			zctx.From(ctx).Error("tax entry failed validation",
				zap.String("title", t.Title),
				zap.Error(err),
			)
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
