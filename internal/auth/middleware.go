package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ContextKeyIdentity is the gin context key holding the resolved Identity.
const ContextKeyIdentity = "auth_identity"

const bearerPrefix = "Bearer "

// Identity is the authenticated caller, derived from a verified token.
type Identity struct {
	Username string
}

// IdentityHandler is a handler that requires an authenticated caller.
type IdentityHandler func(c *gin.Context, id Identity)

// Middleware resolves the caller's identity from the authorization header.
type Middleware struct {
	tokens *TokenManager
}

func NewMiddleware(tokens *TokenManager) *Middleware {
	return &Middleware{tokens: tokens}
}

// ResolveIdentity verifies the token in an authorization header value. The
// header may hold the bare token or "Bearer <token>". Any failure means no
// identity; it is never reported as an error.
func (m *Middleware) ResolveIdentity(header string) (Identity, bool) {
	token := strings.TrimSpace(header)
	if len(token) > len(bearerPrefix) && strings.EqualFold(token[:len(bearerPrefix)], bearerPrefix) {
		token = strings.TrimSpace(token[len(bearerPrefix):])
	}
	if token == "" {
		return Identity{}, false
	}

	claims, err := m.tokens.Parse(token)
	if err != nil {
		log.Debug().Err(err).Msg("ignoring unverifiable token")
		return Identity{}, false
	}
	return Identity{Username: claims.Username}, true
}

// Handler stores the resolved identity, if any, on every request. Requests
// without a valid token continue anonymously.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := m.ResolveIdentity(c.GetHeader("Authorization")); ok {
			c.Set(ContextKeyIdentity, id)
		}
		c.Next()
	}
}

// IdentityFrom returns the identity stored by Handler.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, exists := c.Get(ContextKeyIdentity)
	if !exists {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// RequireIdentity answers 401 unless the request carries an identity, and
// passes it to h otherwise.
func RequireIdentity(h IdentityHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			abortUnauthorized(c)
			return
		}
		h(c, id)
	}
}

// RequireUser answers 401 unless the identity's username equals the route
// parameter named param.
func RequireUser(param string, h IdentityHandler) gin.HandlerFunc {
	return RequireIdentity(func(c *gin.Context, id Identity) {
		if c.Param(param) != id.Username {
			abortUnauthorized(c)
			return
		}
		h(c, id)
	})
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"message": "Unauthorized",
			"status":  http.StatusUnauthorized,
		},
	})
}
