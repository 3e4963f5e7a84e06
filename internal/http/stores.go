package http

import (
	"context"

	"github.com/mrlokans/bookly/internal/catalog"
	"github.com/mrlokans/bookly/internal/database/books"
	"github.com/mrlokans/bookly/internal/database/lists"
	"github.com/mrlokans/bookly/internal/database/reviews"
	"github.com/mrlokans/bookly/internal/database/users"
	"github.com/mrlokans/bookly/internal/entities"
)

// Each controller depends on the narrowest store it needs. The concrete
// repositories under internal/database satisfy these.

type UserStore interface {
	Authenticate(ctx context.Context, username, password string) (*entities.User, error)
	Register(ctx context.Context, in users.RegisterInput) (*entities.User, error)
	Get(ctx context.Context, username string) (*users.UserProfile, error)
	ListAll(ctx context.Context) ([]entities.User, error)
	Update(ctx context.Context, username string, in users.UpdateInput) (*entities.User, error)
	Remove(ctx context.Context, username string) error
}

type ListStore interface {
	AddList(ctx context.Context, in lists.NewList) (*entities.ReadingList, error)
	GetAll(ctx context.Context) ([]entities.ReadingList, error)
	GetByUser(ctx context.Context, username string) ([]lists.ListSummary, error)
	Get(ctx context.Context, id uint) (*lists.ListDetail, error)
	AddBook(ctx context.Context, listID uint, bookID string) (*entities.ListBook, error)
	RemoveBook(ctx context.Context, listID uint, bookID string) error
	UpdateList(ctx context.Context, listID uint, in lists.UpdateList) (*entities.ReadingList, error)
	Remove(ctx context.Context, listID uint) error
	GetOwner(ctx context.Context, listID uint) (string, error)
}

type ReviewStore interface {
	GetAll(ctx context.Context, listID uint) ([]entities.Review, error)
	AddReview(ctx context.Context, listID uint, username string, in reviews.NewReview) (*entities.Review, error)
	Remove(ctx context.Context, listID uint, username string) error
	Edit(ctx context.Context, listID uint, username string, patch reviews.ReviewPatch) (*entities.Review, error)
}

type BookStore interface {
	AddBook(ctx context.Context, book *entities.Book) (*entities.Book, error)
	Get(ctx context.Context, id string) (*entities.Book, error)
	GetAll(ctx context.Context) ([]books.BookSummary, error)
}

type SearchService interface {
	Search(ctx context.Context, q catalog.SearchQuery) ([]entities.Book, error)
}

// Auditor records security events. Implementations must not fail the
// request, so the logging methods return nothing.
type Auditor interface {
	LogAuth(ctx context.Context, username, action, ipAddr, userAgent string, success bool)
	LogDelete(ctx context.Context, username, entityType, entityID, entityName string)
	GetEvents(ctx context.Context, username string, limit, offset int) ([]entities.AuditEvent, int64, error)
}

// CoverCache returns a local file holding the cover at coverURL.
type CoverCache interface {
	GetCover(ctx context.Context, bookID, coverURL string) (string, error)
}

// HealthChecker is an optional dependency probed by the health endpoint.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type noopAuditor struct{}

func (noopAuditor) LogAuth(context.Context, string, string, string, string, bool) {}
func (noopAuditor) LogDelete(context.Context, string, string, string, string)     {}
func (noopAuditor) GetEvents(context.Context, string, int, int) ([]entities.AuditEvent, int64, error) {
	return []entities.AuditEvent{}, 0, nil
}
