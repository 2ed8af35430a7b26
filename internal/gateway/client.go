// Package gateway talks to the payment processor's REST API. Only the
// transaction create call is implemented; retry and timeout policy is left
// to the caller per the processor's integration guidelines.
package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/xenking/checkout-gateway/internal/domain/payment"
)

// Transaction is the gateway-side record created for a submitted payload.
type Transaction struct {
	ID             int64
	State          string
	PaymentPageURL string
}

// Client submits transaction payloads to the gateway.
type Client interface {
	CreateTransaction(ctx context.Context, p *payment.TransactionPayload) (*Transaction, error)
}

// HTTPClient is the REST implementation of Client.
type HTTPClient struct {
	base    string
	spaceID int64
	userID  string
	secret  string
	http    *http.Client
}

// Config holds the gateway connection parameters.
type Config struct {
	BaseURL string
	SpaceID int64
	UserID  string
	Secret  string
	Timeout time.Duration
}

// NewHTTPClient creates a Client for the given gateway space. Requests are
// traced through the otel HTTP transport.
func NewHTTPClient(cfg Config) *HTTPClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		base:    cfg.BaseURL,
		spaceID: cfg.SpaceID,
		userID:  cfg.UserID,
		secret:  cfg.Secret,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// CreateTransaction posts the payload to the transaction create endpoint and
// returns the created gateway transaction. No retries are attempted; both
// error kinds the assembler produces are non-retryable and transport errors
// are surfaced to the caller's policy.
func (c *HTTPClient) CreateTransaction(ctx context.Context, p *payment.TransactionPayload) (*Transaction, error) {
	body := encodeTransaction(p)

	url := fmt.Sprintf("%s/api/transaction/create?spaceId=%d", c.base, c.spaceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Application-User-ID", c.userID)
	req.Header.Set("X-Application-Key", c.secret)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "post transaction")
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, errors.Errorf("gateway returned %s: %s", resp.Status, string(raw))
	}

	txn, err := decodeTransaction(raw)
	if err != nil {
		return nil, errors.Wrap(err, "decode response")
	}
	return txn, nil
}
