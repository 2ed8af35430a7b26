// Package payload assembles gateway transaction create requests from order
// and customer snapshots.
//
// The assembly is pure with respect to shared state: every build reads one
// immutable snapshot pair and produces a fresh, validated payload graph.
// Builds for different orders may run concurrently without coordination.
//
// The one genuinely algorithmic part is reconciliation: the gateway rejects
// transactions whose line item amounts do not sum to the transaction total,
// so after products, discounts, and shipping are assembled the builder
// compares their sum against the order's authoritative total and either
// inserts a synthetic adjustment line or, in strict mode, aborts.
package payload

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/checkout-gateway/internal/domain/order"
	"github.com/xenking/checkout-gateway/internal/domain/payment"
)

// TranslationKey identifies a behavioral label used inside assembled
// payloads. The English defaults live in the translate package.
type TranslationKey string

const (
	// KeyTaxes is the base title of per-line tax entries.
	KeyTaxes TranslationKey = "lineitem.taxes"
	// KeyShippingName names the shipping line when the order has no
	// shipping method name.
	KeyShippingName TranslationKey = "lineitem.shipping"
	// KeyShippingSuffix is appended to the shipping name to form the
	// shipping line's unique id and sku.
	KeyShippingSuffix TranslationKey = "lineitem.shipping.suffix"
	// KeyAdjustmentName names the synthetic reconciliation line.
	KeyAdjustmentName TranslationKey = "lineitem.adjustment"
)

// Translator resolves behavioral labels for payload fields.
type Translator interface {
	Translate(key TranslationKey) string
}

// URLBuilder produces the absolute redirect URLs the gateway sends the
// customer back to after checkout.
type URLBuilder interface {
	SuccessURL(orderID string) string
	FailureURL(orderID string) string
}

// Settings holds the merchant-level knobs that influence assembly.
type Settings struct {
	// SpaceViewID optionally pins the gateway payment page view.
	SpaceViewID *int64
	// EnforceConsistency turns a line item total mismatch into a hard
	// TotalMismatchError instead of an adjustment line.
	EnforceConsistency bool
	// DefaultLocale is used when the customer carries no locale.
	DefaultLocale string
}

// Assembler builds validated transaction payloads. All collaborators are
// synchronous; retry and timeout policy belongs to them, not to the build.
type Assembler struct {
	translator Translator
	methods    payment.MethodConfigurationRepository
	urls       URLBuilder
	settings   Settings
}

// NewAssembler creates an Assembler with the required collaborators.
func NewAssembler(
	translator Translator,
	methods payment.MethodConfigurationRepository,
	urls URLBuilder,
	settings Settings,
) *Assembler {
	return &Assembler{
		translator: translator,
		methods:    methods,
		urls:       urls,
		settings:   settings,
	}
}

// Build assembles and validates the transaction payload for one order. It is
// the sole entry point of the package.
//
// Assembly order is fixed: product and discount lines, then the shipping
// line, then reconciliation against the order total, then addresses, then
// the surrounding transaction structure. Validation failures are logged and
// returned as *payment.ValidationError; a strict-mode total mismatch is
// returned as *payment.TotalMismatchError.
func (a *Assembler) Build(ctx context.Context, snap *order.Snapshot, cust *order.Customer) (*payment.TransactionPayload, error) {
	lg := zctx.From(ctx)

	items, err := a.buildLineItems(ctx, snap.Lines)
	if err != nil {
		return nil, err
	}

	if shipping := a.shippingLineItem(ctx, snap); shipping != nil {
		items = append(items, *shipping)
	}

	adjustment, err := a.adjustmentLineItem(ctx, snap.ID, items, snap.AmountTotal)
	if err != nil {
		return nil, err
	}
	if adjustment != nil {
		items = append(items, *adjustment)
	}

	billing, err := a.resolveAddress(ctx, cust.Billing, cust.Fallback)
	if err != nil {
		return nil, err
	}
	shippingAddr, err := a.resolveAddress(ctx, cust.Shipping, cust.Fallback)
	if err != nil {
		return nil, err
	}

	method, err := a.methods.FindByID(ctx, snap.PaymentMethodID)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve method configuration %s", snap.PaymentMethodID)
	}

	locale := cust.Locale
	if locale == "" {
		locale = a.settings.DefaultLocale
	}

	p := &payment.TransactionPayload{
		Currency:          snap.CurrencyCode,
		CustomerEmail:     billing.Email,
		CustomerNumber:    cust.Number,
		Language:          locale,
		MerchantReference: truncate(snap.Number, payment.MaxMerchantReferenceLen),
		Metadata: map[string]string{
			payment.MetadataOrderID:            snap.ID,
			payment.MetadataOrderTransactionID: snap.TransactionID,
			payment.MetadataSalesChannelID:     snap.SalesChannelID,
		},
		ShippingMethodName:                 truncate(snap.ShippingMethod, payment.MaxShippingMethodNameLen),
		BillingAddress:                     billing,
		ShippingAddress:                    shippingAddr,
		LineItems:                          items,
		AllowedPaymentMethodConfigurations: []int64{method.ConfigurationID},
		SuccessURL:                         a.urls.SuccessURL(snap.ID),
		FailedURL:                          a.urls.FailureURL(snap.ID),
		SpaceViewID:                        a.settings.SpaceViewID,
	}

	if err := p.Validate(); err != nil {
		lg.Error("transaction payload failed validation",
			zap.String("order_id", snap.ID),
			zap.Error(err),
		)
		return nil, err
	}

	return p, nil
}
