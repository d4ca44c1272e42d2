package routes

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"cashierku_backend/internals/helpers/testdb"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth_ReportsDatabase(t *testing.T) {
	db := testdb.Open(t)
	app := fiber.New()
	startTime = time.Now()
	BaseRoutes(app, db)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "Connected", body["database"])
}
