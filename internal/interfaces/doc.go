// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - UserStore, ListStore, ReviewStore, BookStore: the narrow views the HTTP
//     controllers take of the repositories (internal/http/stores.go)
//   - catalog.BookStore: where imported volumes are written (internal/catalog/importer.go)
//   - audit.Store: audit event persistence (internal/audit/service.go)
//
// ## External Service Interfaces
//
//   - catalog.VolumeFetcher: single volume lookup by provider id (internal/catalog/importer.go)
//   - catalog.Searcher: provider search (internal/catalog/service.go)
//   - lists.BookChecker: catalog existence check before importing
//   - lists.BookImporter: imports an unknown book when it is added to a list
//     (internal/database/lists/repository.go)
//
// ## Cache and Health
//
//   - catalog.SearchCache: search result cache keyed by query (internal/catalog/service.go)
//   - HealthChecker: optional dependency probed by /health (internal/http/stores.go)
//
// ## Audit
//
//   - Auditor: security event recording used by the controllers (internal/http/stores.go)
//   - scheduler.EventPurger: retention cleanup target (internal/scheduler/audit_cleanup.go)
//
// # Adding a New Book Provider
//
// To search or import from another catalog (e.g., OpenLibrary):
//
//  1. Implement VolumeFetcher and Searcher in internal/catalog/
//
//     type OpenLibraryClient struct {
//         httpClient *http.Client
//     }
//
//     func (c *OpenLibraryClient) Volume(ctx context.Context, id string) (*entities.Book, error)
//     func (c *OpenLibraryClient) Search(ctx context.Context, q SearchQuery) ([]entities.Book, error)
//
//  2. Wire it into the importer and search service in entrypoint.go
//
// # Adding a New Database Domain
//
//  1. Create sub-package: internal/database/<domain>/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Declare the store interface the controller needs in internal/http/stores.go
//
//  4. Add compile-time check:
//
//     var _ http.DomainStore = (*domain.Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for examples.
package interfaces
