package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrSnapshotNotFound is returned when no order exists for the requested ID.
var ErrSnapshotNotFound = errors.New("order snapshot not found")

// Snapshot is a fully resolved, immutable view of one order at the moment a
// payment is initiated. It is loaded once per transaction build and never
// mutated afterwards.
type Snapshot struct {
	ID               string
	Number           string
	TransactionID    string
	SalesChannelID   string
	PaymentMethodID  string
	CurrencyCode     string
	AmountTotal      decimal.Decimal
	Lines            []Line
	ShippingTotal    decimal.Decimal
	ShippingTaxes    []CalculatedTax
	ShippingQuantity int
	ShippingMethod   string
}

// Line is a single position of an order: a product, or a negative-priced
// discount position.
type Line struct {
	ID        string
	ProductID string
	Label     string
	Quantity  int
	// TotalPrice is signed; a negative value marks the line as a discount.
	TotalPrice decimal.Decimal
	Taxes      []CalculatedTax
	Payload    *LinePayload
}

// LinePayload carries the loosely structured extra data a commerce platform
// attaches to a line. Only the fields the payment payload cares about are
// modeled; both are optional.
type LinePayload struct {
	ProductNumber string
	Options       []Option
}

// Option is one configured product option of a line, e.g. group "Color",
// option "Red".
type Option struct {
	Group  string
	Option string
}

// CalculatedTax is one tax bracket applied to a line or to shipping costs.
// The order of brackets is the platform's insertion order and is preserved
// end to end.
type CalculatedTax struct {
	Rate   decimal.Decimal
	Amount decimal.Decimal
}

// Customer is the customer view belonging to a Snapshot, including the
// customer-level address record used as a fallback when an order address
// leaves name fields empty.
type Customer struct {
	Number     string
	Email      string
	LanguageID string
	Locale     string
	Fallback   AddressSnapshot
	Billing    AddressSnapshot
	Shipping   AddressSnapshot
}

// AddressSnapshot mirrors one platform address entity. All fields are
// optional free-form strings; country and region are ISO-style codes.
type AddressSnapshot struct {
	FirstName  string
	LastName   string
	Company    string
	Salutation string
	Street     string
	Zip        string
	City       string
	Phone      string
	Email      string
	CountryISO string
	RegionCode string
}

// Repository loads order and customer snapshots for payment processing.
type Repository interface {
	Snapshot(ctx context.Context, orderID string) (*Snapshot, error)
	CustomerFor(ctx context.Context, orderID string) (*Customer, error)
}
