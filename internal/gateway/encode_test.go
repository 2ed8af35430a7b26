package gateway

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/checkout-gateway/internal/domain/payment"
)

func testPayload() *payment.TransactionPayload {
	viewID := int64(7)
	return &payment.TransactionPayload{
		Currency:          "EUR",
		CustomerEmail:     "ada@example.com",
		CustomerNumber:    "C-77",
		Language:          "de-CH",
		MerchantReference: "10042",
		Metadata: map[string]string{
			payment.MetadataOrderID:            "order-1",
			payment.MetadataOrderTransactionID: "txn-1",
			payment.MetadataSalesChannelID:     "channel-1",
		},
		ShippingMethodName: "Express",
		BillingAddress:     payment.Address{City: "Winterthur", CountryCode: "CH"},
		ShippingAddress:    payment.Address{City: "Winterthur", CountryCode: "CH"},
		LineItems: []payment.LineItem{
			{
				UniqueID:           "l1",
				SKU:                "SW-100",
				Name:               "Widget",
				Quantity:           2,
				AmountIncludingTax: decimal.RequireFromString("25.00"),
				Type:               payment.LineItemProduct,
				Taxes: []payment.Tax{
					{Rate: decimal.RequireFromString("7.7"), Title: "Taxes : 7.7"},
				},
				Attributes: map[string]payment.LineItemAttribute{
					"option_abc": {Label: "Color", Value: "Red"},
				},
			},
		},
		AllowedPaymentMethodConfigurations: []int64{8102},
		SuccessURL:                         "https://shop.example.com/success",
		FailedURL:                          "https://shop.example.com/fail",
		SpaceViewID:                        &viewID,
	}
}

func TestEncodeTransaction_RoundTripsThroughJSON(t *testing.T) {
	raw := encodeTransaction(testPayload())

	var decoded struct {
		Currency          string            `json:"currency"`
		CustomerEmail     string            `json:"customerEmailAddress"`
		CustomerID        string            `json:"customerId"`
		Language          string            `json:"language"`
		MerchantReference string            `json:"merchantReference"`
		MetaData          map[string]string `json:"metaData"`
		ShippingMethod    string            `json:"shippingMethod"`
		BillingAddress    map[string]string `json:"billingAddress"`
		LineItems         []struct {
			UniqueID           string  `json:"uniqueId"`
			SKU                string  `json:"sku"`
			Name               string  `json:"name"`
			Quantity           int     `json:"quantity"`
			AmountIncludingTax float64 `json:"amountIncludingTax"`
			Type               string  `json:"type"`
			Taxes              []struct {
				Rate  float64 `json:"rate"`
				Title string  `json:"title"`
			} `json:"taxes"`
			Attributes map[string]struct {
				Label string `json:"label"`
				Value string `json:"value"`
			} `json:"attributes"`
		} `json:"lineItems"`
		Allowed     []int64 `json:"allowedPaymentMethodConfigurations"`
		SuccessURL  string  `json:"successUrl"`
		FailedURL   string  `json:"failedUrl"`
		SpaceViewID int64   `json:"spaceViewId"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded), "encoded payload must be valid JSON: %s", raw)

	assert.Equal(t, "EUR", decoded.Currency)
	assert.Equal(t, "ada@example.com", decoded.CustomerEmail)
	assert.Equal(t, "C-77", decoded.CustomerID)
	assert.Equal(t, "10042", decoded.MerchantReference)
	assert.Equal(t, "order-1", decoded.MetaData["orderId"])
	assert.Equal(t, "Express", decoded.ShippingMethod)
	assert.Equal(t, "Winterthur", decoded.BillingAddress["city"])
	require.Len(t, decoded.LineItems, 1)
	assert.Equal(t, "SW-100", decoded.LineItems[0].SKU)
	assert.InDelta(t, 25.00, decoded.LineItems[0].AmountIncludingTax, 1e-9)
	assert.Equal(t, "PRODUCT", decoded.LineItems[0].Type)
	require.Len(t, decoded.LineItems[0].Taxes, 1)
	assert.Equal(t, "Taxes : 7.7", decoded.LineItems[0].Taxes[0].Title)
	assert.Equal(t, "Red", decoded.LineItems[0].Attributes["option_abc"].Value)
	assert.Equal(t, []int64{8102}, decoded.Allowed)
	assert.Equal(t, int64(7), decoded.SpaceViewID)
}

func TestEncodeTransaction_OmitsEmptyOptionals(t *testing.T) {
	p := testPayload()
	p.CustomerEmail = ""
	p.ShippingMethodName = ""
	p.SpaceViewID = nil

	raw := encodeTransaction(p)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.NotContains(t, decoded, "customerEmailAddress")
	assert.NotContains(t, decoded, "shippingMethod")
	assert.NotContains(t, decoded, "spaceViewId")
}

func TestDecodeTransaction(t *testing.T) {
	txn, err := decodeTransaction([]byte(`{"id": 123, "state": "PENDING", "paymentPageUrl": "https://pay.example.com/t/123", "ignored": {"deep": true}}`))

	require.NoError(t, err)
	assert.Equal(t, int64(123), txn.ID)
	assert.Equal(t, "PENDING", txn.State)
	assert.Equal(t, "https://pay.example.com/t/123", txn.PaymentPageURL)
}

func TestDecodeTransaction_MissingID(t *testing.T) {
	_, err := decodeTransaction([]byte(`{"state": "PENDING"}`))
	require.Error(t, err)
}
