package device

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"prompt-console/core/docstore"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T) (*fiber.App, *docstore.MemoryClient) {
	t.Helper()
	app := fiber.New()
	client := docstore.NewMemoryClient()
	logger := zap.NewNop()

	registry := NewRegistry(client, logger)
	gate := NewGate(registry, NewSettings(client, logger), logger)
	handler := NewHandler(registry, gate, logger)
	handler.RegisterRoutes(app.Group("/api"))

	return app, client
}

func TestHandleAdmissionCheck(t *testing.T) {
	app, _ := setupTestApp(t)

	body, _ := json.Marshal(map[string]string{"deviceId": "d1", "accountId": "u1"})
	req := httptest.NewRequest("POST", "/api/devices/admission", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result AdmissionResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.True(t, result.Allowed)
	assert.Equal(t, ReasonNewDevice, result.Reason)
}

func TestHandleAdmissionCheck_BadRequest(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest("POST", "/api/devices/admission", bytes.NewReader([]byte(`{"deviceId":"d1"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleLogin(t *testing.T) {
	app, client := setupTestApp(t)
	ctx := context.Background()

	login := func(deviceID, accountID string) (int, AdmissionResult) {
		payload := map[string]any{
			"account": map[string]string{"accountId": accountID, "email": accountID + "@example.com"},
		}
		body, _ := json.Marshal(payload)
		req := httptest.NewRequest("POST", "/api/devices/"+deviceID+"/logins", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)

		var result AdmissionResult
		_ = json.NewDecoder(resp.Body).Decode(&result)
		return resp.StatusCode, result
	}

	// Fill the device up to the default cap of 3.
	for _, account := range []string{"u1", "u2", "u3"} {
		status, result := login("d1", account)
		assert.Equal(t, 200, status)
		assert.True(t, result.Allowed)
	}

	// A fourth account is turned away with the existing roster.
	status, result := login("d1", "u4")
	assert.Equal(t, 403, status)
	assert.False(t, result.Allowed)
	assert.Len(t, result.ExistingAccounts, 3)

	// Re-login of a registered account still works at the cap.
	status, result = login("d1", "u2")
	assert.Equal(t, 200, status)
	assert.Equal(t, ReasonExistingAccount, result.Reason)

	// The denied login never touched the ledger.
	registry := NewRegistry(client, zap.NewNop())
	d, err := registry.GetDevice(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, 3, d.AccountCount)
	assert.False(t, d.HasAccount("u4"))
}

func TestHandleGetDevice(t *testing.T) {
	app, client := setupTestApp(t)
	ctx := context.Background()

	registry := NewRegistry(client, zap.NewNop())
	require.NoError(t, registry.CreateDevice(ctx, "d1", Account{ID: "u1"}, nil))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/devices/d1", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var d Device
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&d))
	assert.Equal(t, "d1", d.ID)
	assert.Equal(t, 1, d.AccountCount)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/devices/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestHandleDeleteDevice(t *testing.T) {
	app, client := setupTestApp(t)
	ctx := context.Background()

	registry := NewRegistry(client, zap.NewNop())
	require.NoError(t, registry.CreateDevice(ctx, "d1", Account{ID: "u1"}, nil))

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/devices/d1", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	d, err := registry.GetDevice(ctx, "d1")
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestHandleListDevicesForAccount(t *testing.T) {
	app, client := setupTestApp(t)
	ctx := context.Background()

	registry := NewRegistry(client, zap.NewNop())
	require.NoError(t, registry.CreateDevice(ctx, "d1", Account{ID: "u1"}, nil))
	require.NoError(t, registry.CreateDevice(ctx, "d2", Account{ID: "u1"}, nil))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/accounts/u1/devices", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body struct {
		Devices []Device `json:"devices"`
		Count   int      `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 2, body.Count)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/accounts/nobody/devices", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 0, body.Count)
}
