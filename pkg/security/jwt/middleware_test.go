package jwt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/library/pkg/blacklist"
)

func newProtectedApp(revoked blacklist.Store) *fiber.App {
	app := fiber.New()
	app.Get("/protected", NewAuthMiddleware(testSecret, testIssuer, revoked), func(c *fiber.Ctx) error {
		identity, _ := CurrentIdentity(c)
		return c.JSON(fiber.Map{"username": identity.Username})
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	app := newProtectedApp(blacklist.NewMemoryStore())
	resp := doRequest(t, app, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	app := newProtectedApp(blacklist.NewMemoryStore())
	resp := doRequest(t, app, "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	app := newProtectedApp(blacklist.NewMemoryStore())
	gen := NewGenerator(testSecret, testIssuer, time.Hour)
	token, err := gen.Generate(context.Background(), testUser())
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthMiddleware_BareTokenAccepted(t *testing.T) {
	app := newProtectedApp(blacklist.NewMemoryStore())
	gen := NewGenerator(testSecret, testIssuer, time.Hour)
	token, err := gen.Generate(context.Background(), testUser())
	require.NoError(t, err)

	resp := doRequest(t, app, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthMiddleware_RevokedTokenRejected(t *testing.T) {
	revoked := blacklist.NewMemoryStore()
	app := newProtectedApp(revoked)
	gen := NewGenerator(testSecret, testIssuer, time.Hour)
	token, err := gen.Generate(context.Background(), testUser())
	require.NoError(t, err)

	// Accepted before revocation.
	resp := doRequest(t, app, "Bearer "+token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	claims, err := Verify(token, testSecret, testIssuer)
	require.NoError(t, err)
	require.NoError(t, revoked.Revoke(context.Background(), claims.ID, time.Hour))

	resp = doRequest(t, app, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
