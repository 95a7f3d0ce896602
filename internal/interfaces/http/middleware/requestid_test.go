package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomworks/backend/internal/infrastructure/logger"
)

func TestRequestID_MintsAndEchoesID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())

	var seen string
	router.GET("/api/v1/catalog/products", func(c *gin.Context) {
		seen = c.GetString("request_id")
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.NotEmpty(t, seen)
	assert.Len(t, seen, 32) // 16 random bytes, hex encoded
	assert.Equal(t, seen, w.Header().Get("X-Request-ID"))
}

func TestRequestID_PropagatesInboundID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/api/v1/catalog/products", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products", nil)
	req.Header.Set("X-Request-ID", "client-supplied-41")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "client-supplied-41", w.Header().Get("X-Request-ID"))
}

func TestRequestID_StampsRequestContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())

	var fromCtx string
	router.GET("/api/v1/catalog/products", func(c *gin.Context) {
		// Repositories receive c.Request.Context(), so the id must be there
		// for the query log to pick up.
		fromCtx = logger.GetRequestID(c.Request.Context())
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products", nil)
	req.Header.Set("X-Request-ID", "req-77")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-77", fromCtx)
}

func TestRequestID_UniquePerRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/api/v1/catalog/products", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	ids := make(map[string]struct{})
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		ids[w.Header().Get("X-Request-ID")] = struct{}{}
	}

	assert.Len(t, ids, 20)
}
