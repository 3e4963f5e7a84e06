package demo

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(enabled bool) *gin.Engine {
	router := gin.New()
	router.Use(NewMiddleware(enabled).Handler())
	ok := func(c *gin.Context) { c.String(http.StatusOK, "OK") }
	router.GET("/lists", ok)
	router.HEAD("/lists", ok)
	router.OPTIONS("/lists", ok)
	router.POST("/lists", ok)
	router.PUT("/lists/1", ok)
	router.PATCH("/users/u1", ok)
	router.DELETE("/lists/1", ok)
	router.POST("/users/login", ok)
	router.POST("/users/register", ok)
	return router
}

func serve(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewMiddleware(t *testing.T) {
	assert.True(t, NewMiddleware(true).IsEnabled())
	assert.False(t, NewMiddleware(false).IsEnabled())
}

func TestMiddleware_AllowsReadRequests(t *testing.T) {
	router := newRouter(true)

	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		w := serve(router, method, "/lists")
		assert.Equal(t, http.StatusOK, w.Code, method)
	}
}

func TestMiddleware_BlocksWriteRequests(t *testing.T) {
	router := newRouter(true)

	cases := []struct{ method, path string }{
		{http.MethodPost, "/lists"},
		{http.MethodPut, "/lists/1"},
		{http.MethodPatch, "/users/u1"},
		{http.MethodDelete, "/lists/1"},
		{http.MethodPost, "/users/register"},
	}

	for _, tc := range cases {
		w := serve(router, tc.method, tc.path)

		assert.Equal(t, http.StatusForbidden, w.Code, tc.method+" "+tc.path)
		assert.Equal(t, "true", w.Header().Get("X-Demo-Mode"))
		assert.JSONEq(t, `{"error":{"message":"This action is disabled in demo mode","status":403}}`, w.Body.String())
	}
}

func TestMiddleware_AllowsLogin(t *testing.T) {
	w := serve(newRouter(true), http.MethodPost, "/users/login")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMiddleware_DisabledAllowsAllRequests(t *testing.T) {
	router := newRouter(false)

	for _, method := range []string{http.MethodPost, http.MethodDelete} {
		path := "/lists"
		if method == http.MethodDelete {
			path = "/lists/1"
		}
		w := serve(router, method, path)
		assert.Equal(t, http.StatusOK, w.Code, method)
	}
}
