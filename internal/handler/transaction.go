package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xenking/checkout-gateway/internal/domain/order"
	"github.com/xenking/checkout-gateway/internal/domain/payment"
)

// createTransaction builds the transaction payload for an order, submits it
// to the gateway, persists the local record, and returns the payment page
// redirect.
func (h *Handler) createTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := r.PathValue("id")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "order id required")
		return
	}

	snap, err := h.orders.Snapshot(ctx, orderID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	cust, err := h.orders.CustomerFor(ctx, orderID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	p, err := h.assembler.Build(ctx, snap, cust)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	txn, err := h.gateway.CreateTransaction(ctx, p)
	if err != nil {
		zctx.From(ctx).Error("gateway submission failed",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		writeError(w, http.StatusBadGateway, "gateway submission failed")
		return
	}

	rec := &payment.Record{
		ID:                   uuid.New().String(),
		OrderID:              orderID,
		GatewayTransactionID: txn.ID,
		SpaceID:              h.spaceID,
		State:                txn.State,
	}
	if err := h.records.Create(ctx, rec); err != nil {
		zctx.From(ctx).Error("persisting transaction record failed",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	var jw jx.Writer
	jw.ObjStart()
	jw.FieldStart("transactionId")
	jw.Int64(txn.ID)
	jw.Comma()
	jw.FieldStart("state")
	jw.Str(txn.State)
	jw.Comma()
	jw.FieldStart("redirectUrl")
	jw.Str(txn.PaymentPageURL)
	jw.ObjEnd()
	writeJSON(w, http.StatusCreated, jw.Buf)
}

// writeDomainError maps assembly and lookup errors to HTTP responses.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, order.ErrSnapshotNotFound):
		writeError(w, http.StatusNotFound, "order not found")
		return
	case errors.Is(err, payment.ErrMethodConfigurationNotFound):
		writeError(w, http.StatusUnprocessableEntity, "payment method not configured")
		return
	}

	var vErr *payment.ValidationError
	if errors.As(err, &vErr) {
		var jw jx.Writer
		jw.ObjStart()
		jw.FieldStart("code")
		jw.Int(http.StatusUnprocessableEntity)
		jw.Comma()
		jw.FieldStart("message")
		jw.Str(vErr.Error())
		jw.Comma()
		jw.FieldStart("kind")
		jw.Str(vErr.Kind)
		jw.Comma()
		jw.FieldStart("fields")
		jw.ArrStart()
		for i, f := range vErr.Fields {
			if i > 0 {
				jw.Comma()
			}
			jw.Str(f)
		}
		jw.ArrEnd()
		jw.ObjEnd()
		writeJSON(w, http.StatusUnprocessableEntity, jw.Buf)
		return
	}

	var mismatch *payment.TotalMismatchError
	if errors.As(err, &mismatch) {
		writeError(w, http.StatusConflict, mismatch.Error())
		return
	}

	zctx.From(r.Context()).Error("transaction build failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeError(w http.ResponseWriter, code int, message string) {
	var jw jx.Writer
	jw.ObjStart()
	jw.FieldStart("code")
	jw.Int(code)
	jw.Comma()
	jw.FieldStart("message")
	jw.Str(message)
	jw.ObjEnd()
	writeJSON(w, code, jw.Buf)
}

func writeJSON(w http.ResponseWriter, code int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}
