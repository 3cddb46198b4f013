package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type pingRegistrar struct{}

func (pingRegistrar) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
}

func newTestRouter(t *testing.T, cfg Config) *Router {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return NewRouter(gin.New(), cfg, zap.NewNop())
}

func TestRouter_Health(t *testing.T) {
	r := newTestRouter(t, DefaultConfig())
	r.Setup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestRouter_VersionedRegistration(t *testing.T) {
	cfg := DefaultConfig()
	cfg.APIVersion = "v2"
	r := newTestRouter(t, cfg)
	r.Register(pingRegistrar{})
	r.Setup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v2/ping", nil)
	r.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRouter_RequestIDHeader(t *testing.T) {
	r := newTestRouter(t, DefaultConfig())
	r.Setup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.engine.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_RequestIDPassthrough(t *testing.T) {
	r := newTestRouter(t, DefaultConfig())
	r.Setup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	r.engine.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
}
