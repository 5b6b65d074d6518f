package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adverra/backoffice/internal/api/handler"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

var (
	pingOK   = pingerFunc(func(context.Context) error { return nil })
	pingFail = pingerFunc(func(context.Context) error { return errors.New("unreachable") })
)

func TestHealth_Healthy(t *testing.T) {
	t.Parallel()

	h := handler.NewHealthHandler(pingOK, nil, "1.2.3")

	req, w := makeChiRequest(http.MethodGet, "/health", nil, nil)
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	env := parseEnvelope(t, w)
	data := env["data"].(map[string]interface{})
	assert.Equal(t, "healthy", data["status"])
	assert.Equal(t, "1.2.3", data["version"])
	assert.Equal(t, true, data["database"])
	_, hasCache := data["cache"]
	assert.False(t, hasCache, "cache field should be omitted when no redis is configured")
}

func TestHealth_DatabaseDown(t *testing.T) {
	t.Parallel()

	h := handler.NewHealthHandler(pingFail, nil, "1.2.3")

	req, w := makeChiRequest(http.MethodGet, "/health", nil, nil)
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	env := parseEnvelope(t, w)
	data := env["data"].(map[string]interface{})
	assert.Equal(t, "degraded", data["status"])
	assert.Equal(t, false, data["database"])
}

func TestHealth_CacheDown(t *testing.T) {
	t.Parallel()

	h := handler.NewHealthHandler(pingOK, pingFail, "1.2.3")

	req, w := makeChiRequest(http.MethodGet, "/health", nil, nil)
	h.ServeHTTP(w, req)

	env := parseEnvelope(t, w)
	data := env["data"].(map[string]interface{})
	assert.Equal(t, "degraded", data["status"])
	assert.Equal(t, true, data["database"])
	assert.Equal(t, false, data["cache"])
}

func TestHealth_AllUp(t *testing.T) {
	t.Parallel()

	h := handler.NewHealthHandler(pingOK, pingOK, "1.2.3")

	req, w := makeChiRequest(http.MethodGet, "/health", nil, nil)
	h.ServeHTTP(w, req)

	env := parseEnvelope(t, w)
	data := env["data"].(map[string]interface{})
	assert.Equal(t, "healthy", data["status"])
	assert.Equal(t, true, data["cache"])
}
