// Package auth verifies the bearer tokens that guard write operations.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the cookie read when no Authorization header is sent.
const CookieName = "auth_token"

// ClaimsKey is the fiber locals key holding the verified *Claims.
const ClaimsKey = "claims"

var ErrMissingToken = errors.New("missing token")

// Claims are the JWT claims accepted by the API.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// ValidateJWT parses tokenString, checks its HMAC signature against secret and returns its claims.
func ValidateJWT(secret, tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// IssueJWT signs an HS256 token for username that expires after ttl.
func IssueJWT(secret, username, role string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is not configured")
	}
	now := time.Now()
	claims := Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// BearerToken extracts the token from the Authorization header, falling back to the auth cookie.
func BearerToken(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return c.Cookies(CookieName)
}

// Authenticate verifies the request token and stores its claims in the request locals.
func Authenticate(c *fiber.Ctx, secret string) (*Claims, error) {
	claims, err := ValidateJWT(secret, BearerToken(c))
	if err != nil {
		return nil, err
	}
	c.Locals(ClaimsKey, claims)
	return claims, nil
}

// RequireAuth rejects requests without a valid token. An empty secret disables the check.
func RequireAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return c.Next()
		}
		if _, err := Authenticate(c, secret); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
		}
		return c.Next()
	}
}
