package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Futarimiti/riichi-hairi/common/utils"
)

func newTestServer(middlewares ...MiddlewareFunc) *HttpServer {
	server := NewHttpServer(WithMode("test"))
	server.Use(middlewares...)
	server.GET("/x", func(c *Context) error {
		c.Success("ok")
		return nil
	})
	return server
}

func serve(server *HttpServer, method string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/x", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func TestRateLimitMiddleware(t *testing.T) {
	server := newTestServer(RateLimitMiddleware(utils.NewRateLimiter(1, 1)))

	assert.Equal(t, http.StatusOK, serve(server, http.MethodGet, nil).Code)
	w := serve(server, http.MethodGet, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), MsgTooManyRequests)
}

func TestRequestIDMiddleware(t *testing.T) {
	server := newTestServer(RequestIDMiddleware())

	w := serve(server, http.MethodGet, nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = serve(server, http.MethodGet, map[string]string{"X-Request-ID": "abc"})
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
}

func TestCorsMiddleware_Preflight(t *testing.T) {
	server := newTestServer(CorsMiddleware())
	server.engine.OPTIONS("/x", func(*gin.Context) {})

	w := serve(server, http.MethodOptions, map[string]string{"Origin": "http://localhost"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
