package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func probe(t *testing.T, endpoint http.HandlerFunc) (int, statusResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	endpoint(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var resp statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func TestReady_GatedOnSetReady(t *testing.T) {
	h := New()

	code, resp := probe(t, h.ReadyEndpoint)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", resp.Status)

	h.SetReady(true)
	code, resp = probe(t, h.ReadyEndpoint)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp.Status)
}

func TestLive_HealthyByDefault(t *testing.T) {
	h := New()
	h.AddLivenessCheck("noop", time.Second, func(context.Context) error { return nil })

	code, resp := probe(t, h.LiveEndpoint)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp.Status)
}

func TestCheck_FailureThreshold(t *testing.T) {
	c := newCheck("failing", time.Second, func(context.Context) error {
		return errors.New("down")
	})

	ctx := context.Background()
	c.run(ctx)
	c.run(ctx)
	assert.True(t, c.healthy.Load(), "two failures must not trip the check")

	c.run(ctx)
	assert.False(t, c.healthy.Load(), "third consecutive failure trips the check")
}

func TestCheck_RecoversAfterOneSuccess(t *testing.T) {
	fail := true
	c := newCheck("flaky", time.Second, func(context.Context) error {
		if fail {
			return errors.New("down")
		}
		return nil
	})

	ctx := context.Background()
	for range 3 {
		c.run(ctx)
	}
	require.False(t, c.healthy.Load())

	fail = false
	c.run(ctx)
	assert.True(t, c.healthy.Load())
}

func TestReady_ReportsFailingCheck(t *testing.T) {
	h := New()
	h.SetReady(true)
	h.AddReadinessCheck("db", time.Second, func(context.Context) error {
		return errors.New("connection refused")
	})

	// Trip the check directly instead of waiting on the ticker.
	ctx := context.Background()
	for range failureThreshold {
		h.readiness[0].run(ctx)
	}

	code, resp := probe(t, h.ReadyEndpoint)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "connection refused", resp.Checks["db"])
}

func TestGoroutineCountCheck(t *testing.T) {
	assert.NoError(t, GoroutineCountCheck(1_000_000)(context.Background()))
	assert.Error(t, GoroutineCountCheck(0)(context.Background()))
}
