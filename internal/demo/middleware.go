// Package demo implements the read-only mode used for public demo
// deployments seeded by cmd/generate_demo.
package demo

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const blockedMessage = "This action is disabled in demo mode"

// Middleware blocks write operations in demo mode.
// Read-only operations (GET) are always allowed.
// Logging in is allowlisted so visitors can still obtain a token.
type Middleware struct {
	enabled      bool
	allowedPaths map[string]bool
}

// NewMiddleware creates a demo mode middleware.
func NewMiddleware(enabled bool) *Middleware {
	return &Middleware{
		enabled: enabled,
		allowedPaths: map[string]bool{
			"/users/login": true,
		},
	}
}

// IsEnabled returns whether demo mode is active.
func (m *Middleware) IsEnabled() bool {
	return m.enabled
}

// Handler returns a Gin middleware that blocks write operations.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.enabled {
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		if m.allowedPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Header("X-Demo-Mode", "true")
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": gin.H{
				"message": blockedMessage,
				"status":  http.StatusForbidden,
			},
		})
	}
}
