package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestIssueAndValidateJWT(t *testing.T) {
	token, err := IssueJWT(secret, "analyst", "editor", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateJWT(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "analyst", claims.Username)
	assert.Equal(t, "editor", claims.Role)
	assert.Equal(t, "analyst", claims.Subject)
}

func TestValidateJWT_Rejects(t *testing.T) {
	valid, err := IssueJWT(secret, "analyst", "", time.Hour)
	require.NoError(t, err)
	expired, err := IssueJWT(secret, "analyst", "", -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{name: "empty token", secret: secret, token: ""},
		{name: "garbage", secret: secret, token: "not.a.jwt"},
		{name: "wrong secret", secret: "other", token: valid},
		{name: "expired", secret: secret, token: expired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateJWT(tt.secret, tt.token)
			assert.Error(t, err)
		})
	}
}

func TestIssueJWT_NoSecret(t *testing.T) {
	_, err := IssueJWT("", "analyst", "", time.Hour)
	assert.Error(t, err)
}

func TestRequireAuth(t *testing.T) {
	token, err := IssueJWT(secret, "analyst", "", time.Hour)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/private", RequireAuth(secret), func(c *fiber.Ctx) error {
		claims := c.Locals(ClaimsKey).(*Claims)
		return c.SendString(claims.Username)
	})
	app.Get("/open", RequireAuth(""), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	tests := []struct {
		name   string
		path   string
		header string
		cookie string
		want   int
	}{
		{name: "no token", path: "/private", want: fiber.StatusUnauthorized},
		{name: "bearer header", path: "/private", header: "Bearer " + token, want: fiber.StatusOK},
		{name: "lowercase scheme", path: "/private", header: "bearer " + token, want: fiber.StatusOK},
		{name: "cookie", path: "/private", cookie: token, want: fiber.StatusOK},
		{name: "bad token", path: "/private", header: "Bearer nope", want: fiber.StatusUnauthorized},
		{name: "no secret configured", path: "/open", want: fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			if tt.cookie != "" {
				req.Header.Set(fiber.HeaderCookie, CookieName+"="+tt.cookie)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
