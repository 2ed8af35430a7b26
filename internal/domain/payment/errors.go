package payment

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrMethodConfigurationNotFound is returned when no gateway configuration
// exists for the requested payment method.
var ErrMethodConfigurationNotFound = errors.New("payment method configuration not found")

// ValidationError reports that an assembled payload object does not satisfy
// the gateway schema. Kind names the object ("Tax", "LineItem", "Address",
// "TransactionPayload", "LineItemAttribute"); Fields lists the offending
// field names. The build that produced it must be aborted.
type ValidationError struct {
	Kind   string
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s failed validation: invalid fields [%s]", e.Kind, strings.Join(e.Fields, ", "))
}

// TotalMismatchError reports that the assembled line items do not foot to the
// order's authoritative total while strict consistency checking is enabled.
// It signals broken cart data upstream, not a malformed payload, and is not
// retryable without correcting the order.
type TotalMismatchError struct {
	OrderID  string
	Expected decimal.Decimal
	Actual   decimal.Decimal
}

func (e *TotalMismatchError) Error() string {
	return fmt.Sprintf("order %s: line item total %s does not match order total %s",
		e.OrderID, e.Actual.StringFixed(2), e.Expected.StringFixed(2))
}
