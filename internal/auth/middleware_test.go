package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestResolveIdentity(t *testing.T) {
	tm := newTestTokens(t, time.Hour)
	m := NewMiddleware(tm)

	token, err := tm.Issue("alice")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tests := []struct {
		name     string
		header   string
		wantOK   bool
		wantUser string
	}{
		{name: "bare token", header: token, wantOK: true, wantUser: "alice"},
		{name: "bearer prefix", header: "Bearer " + token, wantOK: true, wantUser: "alice"},
		{name: "lowercase bearer", header: "bearer " + token, wantOK: true, wantUser: "alice"},
		{name: "empty header", header: ""},
		{name: "bearer without token", header: "Bearer "},
		{name: "invalid token", header: "Bearer garbage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := m.ResolveIdentity(tt.header)
			if ok != tt.wantOK {
				t.Fatalf("ResolveIdentity() ok = %v, want %v", ok, tt.wantOK)
			}
			if id.Username != tt.wantUser {
				t.Errorf("Username = %q, want %q", id.Username, tt.wantUser)
			}
		})
	}
}

func newGuardedRouter(m *Middleware) *gin.Engine {
	router := gin.New()
	router.Use(m.Handler())

	router.GET("/open", func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		c.JSON(http.StatusOK, gin.H{"user": id.Username, "ok": ok})
	})
	router.GET("/private", RequireIdentity(func(c *gin.Context, id Identity) {
		c.JSON(http.StatusOK, gin.H{"user": id.Username})
	}))
	router.GET("/users/:username", RequireUser("username", func(c *gin.Context, id Identity) {
		c.JSON(http.StatusOK, gin.H{"user": id.Username})
	}))
	return router
}

func TestMiddlewareRoutes(t *testing.T) {
	tm := newTestTokens(t, time.Hour)
	router := newGuardedRouter(NewMiddleware(tm))

	token, err := tm.Issue("alice")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
	}{
		{name: "open without token", path: "/open", wantStatus: http.StatusOK},
		{name: "open with invalid token", path: "/open", header: "junk", wantStatus: http.StatusOK},
		{name: "private without token", path: "/private", wantStatus: http.StatusUnauthorized},
		{name: "private with invalid token", path: "/private", header: "junk", wantStatus: http.StatusUnauthorized},
		{name: "private with token", path: "/private", header: token, wantStatus: http.StatusOK},
		{name: "own user", path: "/users/alice", header: token, wantStatus: http.StatusOK},
		{name: "other user", path: "/users/bob", header: token, wantStatus: http.StatusUnauthorized},
		{name: "user without token", path: "/users/alice", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestUnauthorizedResponseShape(t *testing.T) {
	router := newGuardedRouter(NewMiddleware(newTestTokens(t, time.Hour)))

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body struct {
		Error struct {
			Message string `json:"message"`
			Status  int    `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Error.Status != http.StatusUnauthorized || body.Error.Message != "Unauthorized" {
		t.Errorf("body = %+v", body)
	}
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeadersMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := w.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("HSTS set on plain HTTP: %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("Strict-Transport-Security"); got == "" {
		t.Error("HSTS missing behind HTTPS proxy")
	}
}
