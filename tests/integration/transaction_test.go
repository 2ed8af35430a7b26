//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestCreateTransaction_OrderNotFound(t *testing.T) {
	resp := doPost(t, "/api/orders/00000000-0000-0000-0000-000000000000/transaction", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	body := decodeJSON[errorResponse](t, resp)
	if body.Code != http.StatusNotFound {
		t.Errorf("body code: got %d, want %d", body.Code, http.StatusNotFound)
	}
	if body.Message != "order not found" {
		t.Errorf("message: got %q", body.Message)
	}
}

func TestCreateTransaction_MethodNotAllowed(t *testing.T) {
	resp := doGet(t, "/api/orders/"+seededOrderID+"/transaction")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}

// The compose stack points the gateway client at an unroutable host, so a
// valid seeded order makes it through snapshot loading, payload assembly,
// and validation, then fails on the upstream call with 502. Anything wrong
// earlier in the pipeline would surface as 404, 409, 422, or 500 instead.
func TestCreateTransaction_GatewayUnreachable(t *testing.T) {
	resp := doPost(t, "/api/orders/"+seededOrderID+"/transaction", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}

	body := decodeJSON[errorResponse](t, resp)
	if body.Message != "gateway submission failed" {
		t.Errorf("message: got %q", body.Message)
	}
}
