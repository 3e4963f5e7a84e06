// Package reviews provides database operations for list reviews. Each user
// may review a given list once.
package reviews

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/bookly/internal/apperr"
	"github.com/mrlokans/bookly/internal/entities"
)

type NewReview struct {
	Rating int
	Title  *string
	Body   *string
}

// ReviewPatch holds the fields to change. Nil fields are left untouched;
// ClearTitle and ClearBody reset their field to null.
type ReviewPatch struct {
	Rating     *int
	Title      *string
	Body       *string
	ClearTitle bool
	ClearBody  bool
}

func (p ReviewPatch) empty() bool {
	return p.Rating == nil && p.Title == nil && p.Body == nil && !p.ClearTitle && !p.ClearBody
}

// Repository handles all review database operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetAll returns the reviews of a list in the order they were written.
func (r *Repository) GetAll(ctx context.Context, listID uint) ([]entities.Review, error) {
	reviews := make([]entities.Review, 0)
	err := r.db.WithContext(ctx).
		Where("list_id = ?", listID).
		Order("created_at ASC, username ASC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// AddReview records username's review of a list. The list and the user
// must exist and the user must not have reviewed the list already. List
// owners may review their own lists.
func (r *Repository) AddReview(ctx context.Context, listID uint, username string, in NewReview) (*entities.Review, error) {
	review := entities.Review{
		ListID:   listID,
		Username: username,
		Rating:   in.Rating,
		Title:    in.Title,
		Body:     in.Body,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entities.ReadingList{}).Where("id = ?", listID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperr.NotFound("no such list")
		}

		if err := tx.Model(&entities.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperr.NotFound("no such user")
		}

		err := tx.Model(&entities.Review{}).
			Where("list_id = ? AND username = ?", listID, username).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return apperr.BadRequest("%s has already reviewed this list", username)
		}

		return tx.Create(&review).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apperr.BadRequest("%s has already reviewed this list", username)
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *Repository) Remove(ctx context.Context, listID uint, username string) error {
	res := r.db.WithContext(ctx).
		Where("list_id = ? AND username = ?", listID, username).
		Delete(&entities.Review{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("no such review")
	}
	return nil
}

// Edit applies the supplied fields of patch and returns the updated review.
func (r *Repository) Edit(ctx context.Context, listID uint, username string, patch ReviewPatch) (*entities.Review, error) {
	if patch.empty() {
		return nil, apperr.BadRequest("no data to update")
	}

	updates := map[string]any{}
	if patch.Rating != nil {
		updates["rating"] = *patch.Rating
	}
	switch {
	case patch.Title != nil:
		updates["title"] = *patch.Title
	case patch.ClearTitle:
		updates["title"] = nil
	}
	switch {
	case patch.Body != nil:
		updates["body"] = *patch.Body
	case patch.ClearBody:
		updates["body"] = nil
	}

	var review entities.Review
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entities.Review{}).
			Where("list_id = ? AND username = ?", listID, username).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("%s has not reviewed list %d", username, listID)
		}
		return tx.Where("list_id = ? AND username = ?", listID, username).First(&review).Error
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}
