package gateway

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/checkout-gateway/internal/domain/payment"
)

// encodeTransaction serializes a TransactionPayload into the gateway's
// transaction create JSON. Amounts are written as JSON numbers with two
// decimal places, matching what the gateway's own sum check expects.
func encodeTransaction(p *payment.TransactionPayload) []byte {
	var w jx.Writer
	w.ObjStart()

	w.FieldStart("currency")
	w.Str(p.Currency)

	if p.CustomerEmail != "" {
		w.Comma()
		w.FieldStart("customerEmailAddress")
		w.Str(p.CustomerEmail)
	}
	if p.CustomerNumber != "" {
		w.Comma()
		w.FieldStart("customerId")
		w.Str(p.CustomerNumber)
	}
	if p.Language != "" {
		w.Comma()
		w.FieldStart("language")
		w.Str(p.Language)
	}

	w.Comma()
	w.FieldStart("merchantReference")
	w.Str(p.MerchantReference)

	w.Comma()
	w.FieldStart("metaData")
	w.ObjStart()
	first := true
	for _, key := range []string{
		payment.MetadataOrderID,
		payment.MetadataOrderTransactionID,
		payment.MetadataSalesChannelID,
	} {
		if v, ok := p.Metadata[key]; ok {
			if !first {
				w.Comma()
			}
			first = false
			w.FieldStart(key)
			w.Str(v)
		}
	}
	w.ObjEnd()

	if p.ShippingMethodName != "" {
		w.Comma()
		w.FieldStart("shippingMethod")
		w.Str(p.ShippingMethodName)
	}

	w.Comma()
	w.FieldStart("billingAddress")
	encodeAddress(&w, p.BillingAddress)

	w.Comma()
	w.FieldStart("shippingAddress")
	encodeAddress(&w, p.ShippingAddress)

	w.Comma()
	w.FieldStart("lineItems")
	w.ArrStart()
	for i, li := range p.LineItems {
		if i > 0 {
			w.Comma()
		}
		encodeLineItem(&w, li)
	}
	w.ArrEnd()

	w.Comma()
	w.FieldStart("allowedPaymentMethodConfigurations")
	w.ArrStart()
	for i, id := range p.AllowedPaymentMethodConfigurations {
		if i > 0 {
			w.Comma()
		}
		w.Int64(id)
	}
	w.ArrEnd()

	w.Comma()
	w.FieldStart("successUrl")
	w.Str(p.SuccessURL)

	w.Comma()
	w.FieldStart("failedUrl")
	w.Str(p.FailedURL)

	if p.SpaceViewID != nil {
		w.Comma()
		w.FieldStart("spaceViewId")
		w.Int64(*p.SpaceViewID)
	}

	w.ObjEnd()
	return w.Buf
}

func encodeAddress(w *jx.Writer, a payment.Address) {
	w.ObjStart()
	first := true
	field := func(name, value string) {
		if value == "" {
			return
		}
		if !first {
			w.Comma()
		}
		first = false
		w.FieldStart(name)
		w.Str(value)
	}
	field("city", a.City)
	field("country", a.CountryCode)
	field("emailAddress", a.Email)
	field("familyName", a.FamilyName)
	field("givenName", a.GivenName)
	field("organizationName", a.Organization)
	field("phoneNumber", a.Phone)
	field("postCode", a.Postcode)
	field("postalState", a.RegionCode)
	field("salutation", a.Salutation)
	field("street", a.Street)
	w.ObjEnd()
}

func encodeLineItem(w *jx.Writer, li payment.LineItem) {
	w.ObjStart()

	w.FieldStart("uniqueId")
	w.Str(li.UniqueID)

	w.Comma()
	w.FieldStart("sku")
	w.Str(li.SKU)

	w.Comma()
	w.FieldStart("name")
	w.Str(li.Name)

	w.Comma()
	w.FieldStart("quantity")
	w.Int(li.Quantity)

	w.Comma()
	w.FieldStart("amountIncludingTax")
	w.RawStr(li.AmountIncludingTax.StringFixed(2))

	w.Comma()
	w.FieldStart("type")
	w.Str(string(li.Type))

	if len(li.Taxes) > 0 {
		w.Comma()
		w.FieldStart("taxes")
		w.ArrStart()
		for i, t := range li.Taxes {
			if i > 0 {
				w.Comma()
			}
			w.ObjStart()
			w.FieldStart("rate")
			w.RawStr(t.Rate.String())
			w.Comma()
			w.FieldStart("title")
			w.Str(t.Title)
			w.ObjEnd()
		}
		w.ArrEnd()
	}

	if len(li.Attributes) > 0 {
		w.Comma()
		w.FieldStart("attributes")
		w.ObjStart()
		first := true
		for key, attr := range li.Attributes {
			if !first {
				w.Comma()
			}
			first = false
			w.FieldStart(key)
			w.ObjStart()
			w.FieldStart("label")
			w.Str(attr.Label)
			w.Comma()
			w.FieldStart("value")
			w.Str(attr.Value)
			w.ObjEnd()
		}
		w.ObjEnd()
	}

	w.ObjEnd()
}

// decodeTransaction extracts the fields the service cares about from a
// transaction create response.
func decodeTransaction(raw []byte) (*Transaction, error) {
	var txn Transaction
	d := jx.DecodeBytes(raw)
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "id":
			id, err := d.Int64()
			if err != nil {
				return errors.Wrap(err, "id")
			}
			txn.ID = id
		case "state":
			s, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "state")
			}
			txn.State = s
		case "paymentPageUrl":
			s, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "paymentPageUrl")
			}
			txn.PaymentPageURL = s
		default:
			return d.Skip()
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if txn.ID == 0 {
		return nil, errors.New("response has no transaction id")
	}
	return &txn, nil
}
