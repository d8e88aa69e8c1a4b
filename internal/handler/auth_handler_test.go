package handler

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"go-catalog-import/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("ADMIN_EMAIL", "ops@example.com")
	t.Setenv("ADMIN_PASSWORD", "s3cret")
	t.Setenv("ADMIN_PASSWORD_HASH", "")

	app := fiber.New()
	app.Post("/auth/login", NewAuthHandler().Login)
	return app
}

func login(t *testing.T, app *fiber.App, body string) (int, map[string]string) {
	t.Helper()
	req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	var payload map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return resp.StatusCode, payload
}

func TestLoginIssuesValidToken(t *testing.T) {
	app := newAuthApp(t)

	status, payload := login(t, app, `{"email":"ops@example.com","password":"s3cret"}`)

	require.Equal(t, 200, status)
	require.NotEmpty(t, payload["token"])

	claims, err := jwt.ValidateToken(payload["token"])
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", claims.Email)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	app := newAuthApp(t)

	status, payload := login(t, app, `{"email":"ops@example.com","password":"wrong"}`)

	assert.Equal(t, 401, status)
	assert.Empty(t, payload["token"])
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	app := newAuthApp(t)

	status, _ := login(t, app, `{"email":"intruder@example.com","password":"s3cret"}`)

	assert.Equal(t, 401, status)
}

func TestLoginRejectsBadJSON(t *testing.T) {
	app := newAuthApp(t)

	status, _ := login(t, app, `{"email":`)

	assert.Equal(t, 400, status)
}
