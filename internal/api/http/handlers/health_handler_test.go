package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/sla-service/internal/persistence"
)

func TestReadyStaysReadyWithUnconfiguredStores(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	handler := NewHealthHandler("sla-tracking-service", "test", &persistence.Postgres{}, &persistence.Redis{})
	app.Get("/health/ready", handler.Ready)

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status       string            `json:"status"`
		Dependencies map[string]string `json:"dependencies"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ready", body.Status)
	assert.NotEqual(t, "ok", body.Dependencies["postgres"])
	assert.NotEqual(t, "ok", body.Dependencies["redis"])
}

func TestLiveReportsServiceIdentity(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	handler := NewHealthHandler("sla-tracking-service", "1.2.3", &persistence.Postgres{}, &persistence.Redis{})
	app.Get("/health/live", handler.Live)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status  string `json:"status"`
		Service string `json:"service"`
		Version string `json:"version"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "alive", body.Status)
	assert.Equal(t, "sla-tracking-service", body.Service)
	assert.Equal(t, "1.2.3", body.Version)
}
