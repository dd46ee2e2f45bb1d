package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-discovery-bff/internal/auth"
	"movie-discovery-bff/internal/models"
	"movie-discovery-bff/internal/repository"
)

type userMap map[string]*models.User

func (m userMap) FindByID(_ context.Context, id string) (*models.User, error) {
	u, ok := m[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func newAuthApp(tokens *auth.TokenManager, users userMap) *fiber.App {
	app := fiber.New()
	api := app.Group("/api", Auth(tokens, users))
	api.Get("/me", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"id": CurrentUser(c).ID})
	})
	api.Get("/admin", RequireRole(models.RoleAdmin), func(c fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func errorBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	return out.Error
}

func TestAuthRejectsMissingAndMalformedTokens(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	app := newAuthApp(tokens, userMap{})

	for header, want := range map[string]string{
		"":               "missing Authorization header",
		"Basic abc":      "invalid Authorization header format, expected 'Bearer <token>'",
		"Bearer ":        "empty bearer token",
		"Bearer garbage": "invalid or expired token",
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, header)
		assert.Equal(t, want, errorBody(t, resp), header)
	}
}

func TestAuthLoadsUser(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	users := userMap{"u-1": {ID: "u-1", Role: models.RoleUser}}
	app := newAuthApp(tokens, users)

	token, err := tokens.Generate("u-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	gone, err := tokens.Generate("u-deleted")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+gone)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	users := userMap{
		"u-1": {ID: "u-1", Role: models.RoleUser},
		"a-1": {ID: "a-1", Role: models.RoleAdmin},
	}
	app := newAuthApp(tokens, users)

	for id, want := range map[string]int{"u-1": http.StatusForbidden, "a-1": http.StatusNoContent} {
		token, err := tokens.Generate(id)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/api/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, id)
	}
}

func TestRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	app := fiber.New()
	app.Use(NewRateLimiter(rdb, 2, 60).Handler())
	app.Get("/", func(c fiber.Ctx) error { return c.SendString("ok") })

	for i, want := range []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, "request %d", i+1)
		assert.Equal(t, "2", resp.Header.Get("X-RateLimit-Limit"))
	}
}

func TestRateLimiterRestoresMissingWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	app := fiber.New()
	app.Use(NewRateLimiter(rdb, 1, 60).Handler())
	app.Get("/", func(c fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get("X-RateLimit-Reset"))

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Equal(t, 60*time.Second, mr.TTL(keys[0]))

	// counter stuck over the limit with no expiry
	require.NoError(t, mr.Set(keys[0], "5"))
	require.Zero(t, mr.TTL(keys[0]))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, 60*time.Second, mr.TTL(keys[0]))

	mr.FastForward(61 * time.Second)
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRateLimiterFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { rdb.Close() })
	mr.Close()

	app := fiber.New()
	app.Use(NewRateLimiter(rdb, 1, 60).Handler())
	app.Get("/", func(c fiber.Ctx) error { return c.SendString("ok") })

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	app = fiber.New()
	app.Use(NewRateLimiter(nil, 1, 60).Handler())
	app.Get("/", func(c fiber.Ctx) error { return c.SendString("ok") })
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
