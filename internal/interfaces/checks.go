package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bookly/internal/audit"
	"github.com/mrlokans/bookly/internal/cache"
	"github.com/mrlokans/bookly/internal/catalog"
	"github.com/mrlokans/bookly/internal/covers"
	auditRepo "github.com/mrlokans/bookly/internal/database/audit"
	"github.com/mrlokans/bookly/internal/database/books"
	"github.com/mrlokans/bookly/internal/database/lists"
	"github.com/mrlokans/bookly/internal/database/reviews"
	"github.com/mrlokans/bookly/internal/database/users"
	"github.com/mrlokans/bookly/internal/http"
	"github.com/mrlokans/bookly/internal/scheduler"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ http.UserStore = (*users.Repository)(nil)
var _ http.ListStore = (*lists.Repository)(nil)
var _ http.ReviewStore = (*reviews.Repository)(nil)
var _ http.BookStore = (*books.Repository)(nil)

// BookStore implementations used by the importer
var _ catalog.BookStore = (*books.Repository)(nil)

// Catalog lookups made by the lists repository
var _ lists.BookChecker = (*books.Repository)(nil)

// Audit persistence
var _ audit.Store = (*auditRepo.Repository)(nil)

// =============================================================================
// External Services
// =============================================================================

var _ catalog.VolumeFetcher = (*catalog.GoogleBooksClient)(nil)
var _ catalog.Searcher = (*catalog.GoogleBooksClient)(nil)
var _ catalog.Searcher = (*catalog.Service)(nil)
var _ http.SearchService = (*catalog.Service)(nil)

// BookImporter implementations
var _ lists.BookImporter = (*catalog.Importer)(nil)

// =============================================================================
// Cache
// =============================================================================

var _ catalog.SearchCache = (*cache.SearchCache)(nil)
var _ http.HealthChecker = (*cache.SearchCache)(nil)

// Cover images
var _ http.CoverCache = (*covers.Cache)(nil)

// =============================================================================
// Audit
// =============================================================================

var _ http.Auditor = (*audit.Service)(nil)
var _ scheduler.EventPurger = (*audit.Service)(nil)
