package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/checkout-gateway/internal/domain/order"
	"github.com/xenking/checkout-gateway/internal/domain/payment"
	"github.com/xenking/checkout-gateway/internal/gateway"
	"github.com/xenking/checkout-gateway/internal/payload"
	"github.com/xenking/checkout-gateway/internal/translate"
)

// --- Mock implementations ---

type mockOrderRepo struct {
	snap *order.Snapshot
	cust *order.Customer
	err  error
}

func (m *mockOrderRepo) Snapshot(_ context.Context, _ string) (*order.Snapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.snap, nil
}

func (m *mockOrderRepo) CustomerFor(_ context.Context, _ string) (*order.Customer, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.cust, nil
}

type mockMethodRepo struct{}

func (mockMethodRepo) FindByID(_ context.Context, _ string) (*payment.MethodConfiguration, error) {
	return &payment.MethodConfiguration{ID: "pm-1", SpaceID: 405, ConfigurationID: 8102, Active: true}, nil
}

type mockGateway struct {
	txn *gateway.Transaction
	err error
}

func (m *mockGateway) CreateTransaction(_ context.Context, _ *payment.TransactionPayload) (*gateway.Transaction, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.txn, nil
}

type mockRecordRepo struct {
	last *payment.Record
	err  error
}

func (m *mockRecordRepo) Create(_ context.Context, rec *payment.Record) error {
	m.last = rec
	return m.err
}

type stubURLs struct{}

func (stubURLs) SuccessURL(orderID string) string { return "https://shop.example.com/s/" + orderID }
func (stubURLs) FailureURL(orderID string) string { return "https://shop.example.com/f/" + orderID }

// --- Helpers ---

func testSnapshot() *order.Snapshot {
	return &order.Snapshot{
		ID:              "order-1",
		Number:          "10042",
		TransactionID:   "txn-1",
		SalesChannelID:  "channel-1",
		PaymentMethodID: "pm-1",
		CurrencyCode:    "EUR",
		AmountTotal:     decimal.RequireFromString("10.00"),
		Lines: []order.Line{{
			ID:         "l1",
			Label:      "Widget",
			Quantity:   1,
			TotalPrice: decimal.RequireFromString("10.00"),
		}},
	}
}

func testCustomer() *order.Customer {
	return &order.Customer{
		Number: "C-77",
		Locale: "de-CH",
		Billing: order.AddressSnapshot{
			LastName: "Lovelace",
			Email:    "ada@example.com",
		},
	}
}

func serve(t *testing.T, h *Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	h.Register(mux)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, target, nil))
	return rec
}

func newTestHandler(orders order.Repository, gw gateway.Client, records payment.RecordRepository, settings payload.Settings) *Handler {
	assembler := payload.NewAssembler(translate.NewCatalog(), mockMethodRepo{}, stubURLs{}, settings)
	return NewHandler(orders, assembler, gw, records, 405)
}

// --- Tests ---

func TestCreateTransaction_Success(t *testing.T) {
	records := &mockRecordRepo{}
	h := newTestHandler(
		&mockOrderRepo{snap: testSnapshot(), cust: testCustomer()},
		&mockGateway{txn: &gateway.Transaction{ID: 123, State: "PENDING", PaymentPageURL: "https://pay.example.com/t/123"}},
		records,
		payload.Settings{DefaultLocale: "en-GB"},
	)

	rec := serve(t, h, "/api/orders/order-1/transaction")

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		TransactionID int64  `json:"transactionId"`
		State         string `json:"state"`
		RedirectURL   string `json:"redirectUrl"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(123), resp.TransactionID)
	assert.Equal(t, "PENDING", resp.State)
	assert.Equal(t, "https://pay.example.com/t/123", resp.RedirectURL)

	require.NotNil(t, records.last)
	assert.Equal(t, "order-1", records.last.OrderID)
	assert.Equal(t, int64(123), records.last.GatewayTransactionID)
	assert.Equal(t, int64(405), records.last.SpaceID)
}

func TestCreateTransaction_OrderNotFound(t *testing.T) {
	h := newTestHandler(
		&mockOrderRepo{err: order.ErrSnapshotNotFound},
		&mockGateway{},
		&mockRecordRepo{},
		payload.Settings{},
	)

	rec := serve(t, h, "/api/orders/missing/transaction")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateTransaction_ValidationError(t *testing.T) {
	snap := testSnapshot()
	snap.Lines[0].Quantity = 0
	h := newTestHandler(
		&mockOrderRepo{snap: snap, cust: testCustomer()},
		&mockGateway{},
		&mockRecordRepo{},
		payload.Settings{},
	)

	rec := serve(t, h, "/api/orders/order-1/transaction")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp struct {
		Kind   string   `json:"kind"`
		Fields []string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "LineItem", resp.Kind)
	assert.Contains(t, resp.Fields, "quantity")
}

func TestCreateTransaction_TotalMismatchConflict(t *testing.T) {
	snap := testSnapshot()
	snap.AmountTotal = decimal.RequireFromString("99.99")
	h := newTestHandler(
		&mockOrderRepo{snap: snap, cust: testCustomer()},
		&mockGateway{},
		&mockRecordRepo{},
		payload.Settings{EnforceConsistency: true},
	)

	rec := serve(t, h, "/api/orders/order-1/transaction")

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateTransaction_GatewayFailure(t *testing.T) {
	h := newTestHandler(
		&mockOrderRepo{snap: testSnapshot(), cust: testCustomer()},
		&mockGateway{err: errors.New("connection refused")},
		&mockRecordRepo{},
		payload.Settings{},
	)

	rec := serve(t, h, "/api/orders/order-1/transaction")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
