// Package books provides database operations for the local book catalog.
//
// Books are keyed by a string id: either assigned locally or taken verbatim
// from the external provider when a book is imported.
package books

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/bookly/internal/apperr"
	"github.com/mrlokans/bookly/internal/entities"
)

// BookSummary is the catalog listing shape.
type BookSummary struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Authors []string `json:"authors"`
	Cover   string   `json:"cover"`
}

// Repository handles all catalog database operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AddBook inserts book, refusing ids already in the catalog.
func (r *Repository) AddBook(ctx context.Context, book *entities.Book) (*entities.Book, error) {
	if book.Authors == nil {
		book.Authors = []string{}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entities.Book{}).Where("id = ?", book.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperr.BadRequest("book %s already in catalog", book.ID)
		}
		return tx.Create(book).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apperr.BadRequest("book %s already in catalog", book.ID)
	}
	if err != nil {
		return nil, err
	}
	return book, nil
}

// Get returns the full record for id.
func (r *Repository) Get(ctx context.Context, id string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&book).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("no such book with id %s", id)
		}
		return nil, err
	}
	return &book, nil
}

// GetAll returns every book in title order.
func (r *Repository) GetAll(ctx context.Context) ([]BookSummary, error) {
	var rows []entities.Book
	err := r.db.WithContext(ctx).
		Select("id", "title", "authors", "cover").
		Order("title ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	books := make([]BookSummary, 0, len(rows))
	for _, b := range rows {
		books = append(books, BookSummary{ID: b.ID, Title: b.Title, Authors: b.Authors, Cover: b.Cover})
	}
	return books, nil
}

// Exists reports whether id is already in the catalog.
func (r *Repository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Book{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
