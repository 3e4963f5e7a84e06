// Package lists provides database operations for reading lists and the
// books placed on them.
//
// Adding a book that is not in the catalog yet imports it first through a
// BookImporter, so lists can reference any id the external provider knows.
package lists

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/bookly/internal/apperr"
	"github.com/mrlokans/bookly/internal/entities"
)

// BookChecker reports whether a book is already in the catalog.
type BookChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// BookImporter fetches a missing book from outside and stores it in the
// catalog.
type BookImporter interface {
	ImportBook(ctx context.Context, id string) (*entities.Book, error)
}

type NewList struct {
	Username    string
	Title       string
	Description *string
}

type UpdateList struct {
	Title       string
	Description *string
}

// ListSummary is the short form used when listing a user's lists.
type ListSummary struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

// ListDetail is a list with its books and reviews embedded.
type ListDetail struct {
	entities.ReadingList
	Books   []entities.Book   `json:"books"`
	Reviews []entities.Review `json:"reviews"`
}

// Repository handles all reading list database operations.
type Repository struct {
	db       *gorm.DB
	books    BookChecker
	importer BookImporter
}

// NewRepository creates a lists repository. importer may be nil, in which
// case adding an unknown book fails with NotFound.
func NewRepository(db *gorm.DB, books BookChecker, importer BookImporter) *Repository {
	return &Repository{db: db, books: books, importer: importer}
}

// AddList creates a list owned by in.Username, who must exist.
func (r *Repository) AddList(ctx context.Context, in NewList) (*entities.ReadingList, error) {
	list := entities.ReadingList{
		Username:    in.Username,
		Title:       in.Title,
		Description: in.Description,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entities.User{}).Where("username = ?", in.Username).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperr.NotFound("no such user")
		}
		if err := tx.Create(&list).Error; err != nil {
			return fmt.Errorf("failed to create list: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// GetAll returns every list, newest first.
func (r *Repository) GetAll(ctx context.Context) ([]entities.ReadingList, error) {
	lists := make([]entities.ReadingList, 0)
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}

// GetByUser returns summaries of the lists owned by username. The result
// is empty, not nil, when there are none.
func (r *Repository) GetByUser(ctx context.Context, username string) ([]ListSummary, error) {
	lists := make([]ListSummary, 0)
	err := r.db.WithContext(ctx).
		Model(&entities.ReadingList{}).
		Select("id", "title").
		Where("username = ?", username).
		Order("id ASC").
		Scan(&lists).Error
	if err != nil {
		return nil, err
	}
	return lists, nil
}

// Get returns the list with its books, in the order they were added, and
// its reviews.
func (r *Repository) Get(ctx context.Context, id uint) (*ListDetail, error) {
	db := r.db.WithContext(ctx)

	list, err := findList(db, id)
	if err != nil {
		return nil, err
	}

	books := make([]entities.Book, 0)
	err = db.Model(&entities.Book{}).
		Joins("JOIN books_lists ON books_lists.book_id = books.id").
		Where("books_lists.list_id = ?", id).
		Order("books_lists.created_at ASC, books_lists.book_id ASC").
		Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load books for list %d: %w", id, err)
	}

	reviews := make([]entities.Review, 0)
	err = db.Where("list_id = ?", id).Order("created_at ASC, username ASC").Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews for list %d: %w", id, err)
	}

	return &ListDetail{ReadingList: *list, Books: books, Reviews: reviews}, nil
}

// AddBook puts bookID on the list, importing the book first when the
// catalog does not have it. Import errors are returned unchanged.
func (r *Repository) AddBook(ctx context.Context, listID uint, bookID string) (*entities.ListBook, error) {
	db := r.db.WithContext(ctx)

	if _, err := findList(db, listID); err != nil {
		return nil, err
	}

	if err := r.ensureBook(ctx, bookID); err != nil {
		return nil, err
	}

	link := entities.ListBook{ListID: listID, BookID: bookID}
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := findList(tx, listID); err != nil {
			return err
		}

		var count int64
		err := tx.Model(&entities.ListBook{}).
			Where("list_id = ? AND book_id = ?", listID, bookID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return apperr.BadRequest("book %s is already on list %d", bookID, listID)
		}
		return tx.Create(&link).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apperr.BadRequest("book %s is already on list %d", bookID, listID)
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *Repository) ensureBook(ctx context.Context, bookID string) error {
	exists, err := r.books.Exists(ctx, bookID)
	if err != nil || exists {
		return err
	}
	if r.importer == nil {
		return apperr.NotFound("no such book with id %s", bookID)
	}

	if _, err := r.importer.ImportBook(ctx, bookID); err != nil {
		// A concurrent request may have imported the same book.
		if apperr.Is(err, apperr.KindBadRequest) {
			if exists, checkErr := r.books.Exists(ctx, bookID); checkErr == nil && exists {
				return nil
			}
		}
		return err
	}
	return nil
}

// RemoveBook takes bookID off the list.
func (r *Repository) RemoveBook(ctx context.Context, listID uint, bookID string) error {
	res := r.db.WithContext(ctx).
		Where("list_id = ? AND book_id = ?", listID, bookID).
		Delete(&entities.ListBook{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.BadRequest("book %s is not on list %d", bookID, listID)
	}
	return nil
}

// UpdateList replaces the title and description. Title is required.
func (r *Repository) UpdateList(ctx context.Context, listID uint, in UpdateList) (*entities.ReadingList, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperr.BadRequest("title is required")
	}

	var list *entities.ReadingList
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if list, err = findList(tx, listID); err != nil {
			return err
		}

		err = tx.Model(&entities.ReadingList{}).
			Where("id = ?", listID).
			Updates(map[string]any{"title": in.Title, "description": in.Description}).Error
		if err != nil {
			return err
		}

		list.Title = in.Title
		list.Description = in.Description
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// Remove deletes the list along with its book associations and reviews.
func (r *Repository) Remove(ctx context.Context, listID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findList(tx, listID); err != nil {
			return err
		}
		if err := tx.Where("list_id = ?", listID).Delete(&entities.ListBook{}).Error; err != nil {
			return fmt.Errorf("failed to delete list books: %w", err)
		}
		if err := tx.Where("list_id = ?", listID).Delete(&entities.Review{}).Error; err != nil {
			return fmt.Errorf("failed to delete list reviews: %w", err)
		}
		return tx.Where("id = ?", listID).Delete(&entities.ReadingList{}).Error
	})
}

// GetOwner returns the username that owns the list.
func (r *Repository) GetOwner(ctx context.Context, listID uint) (string, error) {
	list, err := findList(r.db.WithContext(ctx), listID)
	if err != nil {
		return "", err
	}
	return list.Username, nil
}

func findList(db *gorm.DB, id uint) (*entities.ReadingList, error) {
	var list entities.ReadingList
	if err := db.Where("id = ?", id).First(&list).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("no such list: %d", id)
		}
		return nil, err
	}
	return &list, nil
}
