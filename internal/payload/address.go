package payload

import (
	"context"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/checkout-gateway/internal/domain/order"
	"github.com/xenking/checkout-gateway/internal/domain/payment"
)

// resolveAddress maps a platform address to a gateway address. Given name,
// family name, organization, and salutation fall back to the customer-level
// record when the address leaves them empty; every other field comes from
// the address alone. Populated fields are truncated to their schema bound.
func (a *Assembler) resolveAddress(ctx context.Context, primary, fallback order.AddressSnapshot) (payment.Address, error) {
	addr := payment.Address{
		City:         truncate(primary.City, payment.MaxCityLen),
		CountryCode:  truncate(primary.CountryISO, payment.MaxCountryCodeLen),
		Email:        truncate(primary.Email, payment.MaxEmailLen),
		FamilyName:   truncate(coalesce(primary.LastName, fallback.LastName), payment.MaxFamilyNameLen),
		GivenName:    truncate(coalesce(primary.FirstName, fallback.FirstName), payment.MaxGivenNameLen),
		Organization: truncate(coalesce(primary.Company, fallback.Company), payment.MaxOrganizationLen),
		Phone:        truncate(primary.Phone, payment.MaxPhoneLen),
		Postcode:     truncate(primary.Zip, payment.MaxPostcodeLen),
		RegionCode:   truncate(primary.RegionCode, payment.MaxRegionCodeLen),
		Salutation:   truncate(coalesce(primary.Salutation, fallback.Salutation), payment.MaxSalutationLen),
		Street:       truncate(primary.Street, payment.MaxStreetLen),
	}
	if err := addr.Validate(); err != nil {
		zctx.From(ctx).Error("address failed validation", zap.Error(err))
		return payment.Address{}, err
	}
	return addr, nil
}

// coalesce returns the first non-empty value.
func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
