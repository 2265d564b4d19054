package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rotas-project/rotas/internal/config"
	"github.com/rotas-project/rotas/internal/dbtest"
	"github.com/rotas-project/rotas/restapi/modules/auth"
)

const secret = "test-secret"

const mutation = `mutation { repositorySoftwareType(id: "r3", software_type_id: 3) { repository { software_type } } }`

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := config.Default()
	cfg.JWTSecret = secret
	app, err := NewFiberApp(dbtest.New(t), cfg, zap.NewNop())
	require.NoError(t, err)
	return app
}

func post(t *testing.T, app *fiber.App, body, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/graphql", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return send(t, app, req)
}

func send(t *testing.T, app *fiber.App, req *http.Request) (int, string) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func request(query string) string {
	b, _ := json.Marshal(map[string]string{"query": query})
	return string(b)
}

func TestIndex(t *testing.T) {
	status, body := send(t, newApp(t), httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.Equal(t, fiber.StatusOK, status)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, "rotas", got["name"])
	assert.Equal(t, "/graphql", got["graphql"])
	assert.NotEmpty(t, got["apiVersion"])
}

func TestGraphQL_Query(t *testing.T) {
	app := newApp(t)

	status, body := post(t, app, request(`{ stats { total } }`), "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"data":{"stats":{"total":7}}}`, body)

	q := url.QueryEscape(`query Count($id: ID!) { vulnerability(id: $id) { id } }`)
	vars := url.QueryEscape(`{"id":"CVE-2021-0003"}`)
	status, body = send(t, app, httptest.NewRequest(fiber.MethodGet, "/graphql?query="+q+"&variables="+vars, nil))
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"data":{"vulnerability":{"id":"CVE-2021-0003"}}}`, body)
}

func TestGraphQL_BadRequests(t *testing.T) {
	app := newApp(t)

	status, _ := post(t, app, `{}`, "")
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = post(t, app, `{"query":`, "")
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body := post(t, app, request(`{ nope }`), "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `"errors"`)
}

func TestGraphQL_Mutations(t *testing.T) {
	app := newApp(t)

	status, _ := post(t, app, request(mutation), "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = send(t, app, httptest.NewRequest(fiber.MethodGet, "/graphql?query="+url.QueryEscape(mutation), nil))
	assert.Equal(t, fiber.StatusMethodNotAllowed, status)

	token, err := auth.IssueJWT(secret, "analyst", "", time.Hour)
	require.NoError(t, err)
	status, body := post(t, app, request(mutation), token)
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"data":{"repositorySoftwareType":{"repository":{"software_type":"operating system"}}}}`, body)
}

func TestAuthMe(t *testing.T) {
	app := newApp(t)
	token, err := auth.IssueJWT(secret, "analyst", "editor", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodGet, "/auth/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	status, body := send(t, app, req)
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"authenticated":true,"username":"analyst","role":"editor"}`, body)

	status, _ = send(t, app, httptest.NewRequest(fiber.MethodGet, "/auth/me", nil))
	assert.Equal(t, fiber.StatusUnauthorized, status)
}
