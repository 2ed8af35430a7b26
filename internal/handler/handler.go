// Package handler exposes the transaction build endpoint over HTTP.
package handler

import (
	"net/http"

	"github.com/xenking/checkout-gateway/internal/domain/order"
	"github.com/xenking/checkout-gateway/internal/domain/payment"
	"github.com/xenking/checkout-gateway/internal/gateway"
	"github.com/xenking/checkout-gateway/internal/payload"
)

// Handler wires the order snapshot store, the payload assembler, and the
// gateway client into the HTTP surface.
type Handler struct {
	orders    order.Repository
	assembler *payload.Assembler
	gateway   gateway.Client
	records   payment.RecordRepository
	spaceID   int64
}

// NewHandler constructs a Handler with the required dependencies.
func NewHandler(
	orders order.Repository,
	assembler *payload.Assembler,
	gw gateway.Client,
	records payment.RecordRepository,
	spaceID int64,
) *Handler {
	return &Handler{
		orders:    orders,
		assembler: assembler,
		gateway:   gw,
		records:   records,
		spaceID:   spaceID,
	}
}

// Register attaches the API routes to the given mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/orders/{id}/transaction", h.createTransaction)
}
