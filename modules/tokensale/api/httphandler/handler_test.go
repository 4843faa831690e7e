package httphandler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gaze-network/tokensale/modules/tokensale"
	"github.com/gaze-network/tokensale/modules/tokensale/api/httphandler"
	"github.com/gaze-network/tokensale/modules/tokensale/config"
	memoryrepository "github.com/gaze-network/tokensale/modules/tokensale/repository/memory"
	"github.com/gaze-network/tokensale/modules/tokensale/tokenledger"
	"github.com/gaze-network/tokensale/pkg/errorhandler"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{
		ErrorHandler: errorhandler.NewHTTPErrorHandler(),
	})

	eventStore := memoryrepository.NewRepository()
	ledger, err := tokensale.NewLedger(config.Sale{
		Owner:       "owner",
		TokenName:   "Gaze Token",
		TokenSymbol: "GAZE",
	}, eventStore, tokensale.WithTokenLedger(tokenledger.NewMemoryLedger("Gaze Token", "GAZE")))
	require.NoError(t, err)

	handler := httphandler.New(ledger, eventStore)
	require.NoError(t, handler.Mount(app))
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target string, body any) (int, map[string]any) {
	t.Helper()
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

func TestInfoEndpoint(t *testing.T) {
	app := newTestApp(t)

	status, body := doRequest(t, app, http.MethodGet, "/tokensale/v1/info", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Gaze Token", body["tokenName"])
	assert.Equal(t, "5000", body["hardCap"])
	assert.Equal(t, false, body["ended"])
	assert.Len(t, body["tiers"], 4)
}

func TestPurchaseEndpoint(t *testing.T) {
	app := newTestApp(t)

	status, body := doRequest(t, app, http.MethodPost, "/tokensale/v1/purchase", map[string]any{
		"address": "alice",
		"tier":    1,
		"payment": "7.5",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "50", body["amount"])
	assert.Equal(t, "locked", body["status"])

	status, body = doRequest(t, app, http.MethodPost, "/tokensale/v1/purchase", map[string]any{
		"address": "alice",
		"tier":    1,
		"payment": "7.5",
	})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "buyer already exists", body["code"])

	status, body = doRequest(t, app, http.MethodPost, "/tokensale/v1/purchase", map[string]any{
		"address": "bob",
		"tier":    1,
		"payment": "not-a-number",
	})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "validation error")
}

func TestAllocationEndpoint(t *testing.T) {
	app := newTestApp(t)

	status, _ := doRequest(t, app, http.MethodGet, "/tokensale/v1/allocations/alice", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doRequest(t, app, http.MethodPost, "/tokensale/v1/purchase", map[string]any{
		"address": "alice",
		"tier":    2,
		"payment": "10",
	})
	require.Equal(t, http.StatusOK, status)

	status, body := doRequest(t, app, http.MethodGet, "/tokensale/v1/allocations/alice", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice", body["address"])
	assert.Equal(t, "50", body["amount"])
	assert.Equal(t, "0", body["claimed"])
}

func TestClaimEndpointBeforeVesting(t *testing.T) {
	app := newTestApp(t)

	status, _ := doRequest(t, app, http.MethodPost, "/tokensale/v1/purchase", map[string]any{
		"address": "alice",
		"tier":    1,
		"payment": "7.5",
	})
	require.Equal(t, http.StatusOK, status)

	status, body := doRequest(t, app, http.MethodPost, "/tokensale/v1/claim", map[string]any{
		"address": "alice",
	})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "vesting not started", body["code"])
}

func TestAdminEndpoints(t *testing.T) {
	app := newTestApp(t)

	t.Run("owner gate", func(t *testing.T) {
		status, body := doRequest(t, app, http.MethodPost, "/tokensale/v1/admin/end-sale", map[string]any{
			"caller": "mallory",
		})
		require.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "unauthorized", body["code"])
	})

	t.Run("grant and end sale", func(t *testing.T) {
		status, body := doRequest(t, app, http.MethodPost, "/tokensale/v1/admin/grants", map[string]any{
			"caller": "owner",
			"holder": "advisor",
			"tier":   10,
			"amount": "1000",
		})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "1000", body["amount"])
		assert.Equal(t, true, body["isPrivate"])

		status, body = doRequest(t, app, http.MethodPost, "/tokensale/v1/admin/end-sale", map[string]any{
			"caller": "owner",
		})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, body["ended"])
	})
}

func TestGrantAfterVestingEpoch(t *testing.T) {
	app := newTestApp(t)

	// With the vesting epoch far enough in the past, a freshly issued grant
	// is already fully vested and the response must reflect that.
	status, _ := doRequest(t, app, http.MethodPost, "/tokensale/v1/admin/vesting-epoch", map[string]any{
		"caller": "owner",
		"epoch":  time.Now().Add(-211 * 24 * time.Hour).Unix(),
	})
	require.Equal(t, http.StatusOK, status)

	status, body := doRequest(t, app, http.MethodPost, "/tokensale/v1/admin/grants", map[string]any{
		"caller": "owner",
		"holder": "advisor",
		"tier":   10,
		"amount": "1000",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "fully_vested", body["status"])
	assert.Equal(t, "1000", body["claimable"])
}

func TestEventsEndpoint(t *testing.T) {
	app := newTestApp(t)

	status, _ := doRequest(t, app, http.MethodPost, "/tokensale/v1/purchase", map[string]any{
		"address": "alice",
		"tier":    1,
		"payment": "7.5",
	})
	require.Equal(t, http.StatusOK, status)

	status, body := doRequest(t, app, http.MethodGet, "/tokensale/v1/events?type=allocation_issued", nil)
	require.Equal(t, http.StatusOK, status)
	events, ok := body["events"].([]any)
	require.True(t, ok)
	require.Len(t, events, 1)
	event, ok := events[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice", event["address"])

	status, body = doRequest(t, app, http.MethodGet, "/tokensale/v1/events?type=x&address=y", nil)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "cannot be combined")
}
