package payment

import "strings"

// Address schema length bounds.
const (
	MaxCityLen         = 100
	MaxCountryCodeLen  = 20
	MaxEmailLen        = 254
	MaxFamilyNameLen   = 100
	MaxGivenNameLen    = 100
	MaxOrganizationLen = 100
	MaxPhoneLen        = 100
	MaxPostcodeLen     = 40
	MaxRegionCodeLen   = 20
	MaxSalutationLen   = 20
	MaxStreetLen       = 300
)

// Address is a billing or shipping address as submitted to the gateway.
// Every field is optional; populated fields are truncated to their bound at
// assembly time.
type Address struct {
	City         string
	CountryCode  string
	Email        string
	FamilyName   string
	GivenName    string
	Organization string
	Phone        string
	Postcode     string
	RegionCode   string
	Salutation   string
	Street       string
}

// Validate checks the gateway schema constraints for an Address.
func (a Address) Validate() error {
	var invalid []string
	check := func(field, value string, max int) {
		if len(value) > max {
			invalid = append(invalid, field)
		}
	}
	check("city", a.City, MaxCityLen)
	check("countryCode", a.CountryCode, MaxCountryCodeLen)
	check("emailAddress", a.Email, MaxEmailLen)
	check("familyName", a.FamilyName, MaxFamilyNameLen)
	check("givenName", a.GivenName, MaxGivenNameLen)
	check("organizationName", a.Organization, MaxOrganizationLen)
	check("phoneNumber", a.Phone, MaxPhoneLen)
	check("postCode", a.Postcode, MaxPostcodeLen)
	check("postalState", a.RegionCode, MaxRegionCodeLen)
	check("salutation", a.Salutation, MaxSalutationLen)
	check("street", a.Street, MaxStreetLen)
	if a.Email != "" && !strings.Contains(a.Email, "@") {
		invalid = append(invalid, "emailAddress")
	}
	if len(invalid) > 0 {
		return &ValidationError{Kind: "Address", Fields: invalid}
	}
	return nil
}
