package payment

import (
	"context"
	"time"
)

// Transaction schema length bounds.
const (
	MaxMerchantReferenceLen  = 100
	MaxShippingMethodNameLen = 200
)

// Metadata keys attached to every transaction so gateway-side records can be
// traced back to the originating order.
const (
	MetadataOrderID            = "orderId"
	MetadataOrderTransactionID = "orderTransactionId"
	MetadataSalesChannelID     = "salesChannelId"
)

// TransactionPayload is the complete transaction create request handed to
// the gateway SDK for submission. It is immutable once validated.
type TransactionPayload struct {
	Currency                           string
	CustomerEmail                      string
	CustomerNumber                     string
	Language                           string
	MerchantReference                  string
	Metadata                           map[string]string
	ShippingMethodName                 string
	BillingAddress                     Address
	ShippingAddress                    Address
	LineItems                          []LineItem
	AllowedPaymentMethodConfigurations []int64
	SuccessURL                         string
	FailedURL                          string
	SpaceViewID                        *int64
}

// Validate checks the gateway schema constraints for the full payload and
// its nested structures.
func (p TransactionPayload) Validate() error {
	var invalid []string
	if len(p.Currency) != 3 {
		invalid = append(invalid, "currency")
	}
	if len(p.MerchantReference) > MaxMerchantReferenceLen {
		invalid = append(invalid, "merchantReference")
	}
	if len(p.ShippingMethodName) > MaxShippingMethodNameLen {
		invalid = append(invalid, "shippingMethod")
	}
	if len(p.LineItems) == 0 {
		invalid = append(invalid, "lineItems")
	}
	if p.SuccessURL == "" {
		invalid = append(invalid, "successUrl")
	}
	if p.FailedURL == "" {
		invalid = append(invalid, "failedUrl")
	}
	if len(invalid) > 0 {
		return &ValidationError{Kind: "TransactionPayload", Fields: invalid}
	}
	if err := p.BillingAddress.Validate(); err != nil {
		return err
	}
	if err := p.ShippingAddress.Validate(); err != nil {
		return err
	}
	for _, li := range p.LineItems {
		if err := li.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// MethodConfiguration maps a platform payment method to the gateway-side
// payment method configuration it is allowed to use.
type MethodConfiguration struct {
	ID              string
	SpaceID         int64
	ConfigurationID int64
	Name            string
	Active          bool
}

// MethodConfigurationRepository provides lookup of gateway method
// configurations. Implementations return ErrMethodConfigurationNotFound when
// no active configuration exists for the id.
type MethodConfigurationRepository interface {
	FindByID(ctx context.Context, id string) (*MethodConfiguration, error)
}

// Record is the locally persisted trace of one submitted transaction.
type Record struct {
	ID                   string
	OrderID              string
	GatewayTransactionID int64
	SpaceID              int64
	State                string
	CreatedAt            time.Time
}

// RecordRepository persists submitted transaction records.
type RecordRepository interface {
	Create(ctx context.Context, rec *Record) error
}
