package http

import (
	"github.com/mrlokans/bookly/internal/auth"
	"github.com/mrlokans/bookly/internal/database"
)

// RouterConfig contains all dependencies and configuration needed to
// create the HTTP router.
type RouterConfig struct {
	// Stores
	Users   UserStore
	Lists   ListStore
	Reviews ReviewStore
	Books   BookStore

	// Local cover copies (optional, nil redirects to the cover URL)
	Covers CoverCache

	// External catalog search, cache-backed when Redis is configured
	Search SearchService

	// Authentication
	Tokens       *auth.TokenManager
	LoginLimiter *auth.LoginLimiter // optional, nil disables lockout

	// Audit trail (optional)
	Auditor Auditor

	// Health checks
	Database *database.Database
	Cache    HealthChecker // optional

	// Demo mode blocks all writes except login
	DemoMode bool

	// CORS origins; "*" or empty allows any origin
	AllowedOrigins []string

	// Application info
	Version string
}
