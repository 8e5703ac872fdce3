package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(r *gin.Engine, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestCORS(t *testing.T) {
	dev := newEngine(CORS(nil, false))
	assert.Equal(t, "*", serve(dev, "http://localhost:3000").Header().Get("Access-Control-Allow-Origin"))

	prod := newEngine(CORS([]string{"https://books.example.com"}, true))
	assert.Equal(t, "https://books.example.com", serve(prod, "https://books.example.com").Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusForbidden, serve(prod, "https://evil.example.com").Code)

	closed := newEngine(CORS(nil, true))
	w := serve(closed, "https://books.example.com")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit_MemoryStore(t *testing.T) {
	l, err := NewRateLimiter("2-M", nil)
	require.NoError(t, err)
	r := newEngine(RateLimit(l))

	assert.Equal(t, http.StatusOK, serve(r, "").Code)
	assert.Equal(t, http.StatusOK, serve(r, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, "").Code)

	_, err = NewRateLimiter("lots", nil)
	assert.Error(t, err)
}
