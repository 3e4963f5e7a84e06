// Package users provides database operations for user accounts.
//
// # Usage
//
//	repo := users.NewRepository(db, cfg.Auth.BcryptCost)
//	user, err := repo.Authenticate(ctx, username, password)
package users

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/bookly/internal/apperr"
	"github.com/mrlokans/bookly/internal/auth"
	"github.com/mrlokans/bookly/internal/entities"
)

// RegisterInput is the data needed to create an account.
type RegisterInput struct {
	Username string
	Password string
	Email    string
	Bio      *string
}

// UpdateInput holds the fields to change. Nil fields are left untouched;
// ClearBio resets the bio to null.
type UpdateInput struct {
	Password *string
	Email    *string
	Bio      *string
	ClearBio bool
}

func (in UpdateInput) empty() bool {
	return in.Password == nil && in.Email == nil && in.Bio == nil && !in.ClearBio
}

// ListSummary is the short form of a list embedded in a user profile.
type ListSummary struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

// UserProfile is the public view of a user with the lists they own.
type UserProfile struct {
	entities.User
	Lists []ListSummary `json:"lists"`
}

// Repository handles all user database operations.
type Repository struct {
	db         *gorm.DB
	bcryptCost int
}

func NewRepository(db *gorm.DB, bcryptCost int) *Repository {
	return &Repository{db: db, bcryptCost: bcryptCost}
}

// Authenticate checks a username/password pair. Unknown users and wrong
// passwords fail the same way.
func (r *Repository) Authenticate(ctx context.Context, username, password string) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized("Invalid username/password")
		}
		return nil, err
	}

	if err := auth.CheckPassword(password, user.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidPassword) {
			return nil, apperr.Unauthorized("Invalid username/password")
		}
		return nil, err
	}

	user.Password = ""
	return &user, nil
}

// Register creates a user. The duplicate check and insert share a
// transaction; the primary key catches anything that slips past.
func (r *Repository) Register(ctx context.Context, in RegisterInput) (*entities.User, error) {
	hash, err := auth.HashPassword(in.Password, r.bcryptCost)
	if err != nil {
		return nil, apperr.BadRequest("%s", err.Error())
	}

	user := entities.User{
		Username: in.Username,
		Password: hash,
		Email:    in.Email,
		Bio:      in.Bio,
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entities.User{}).Where("username = ?", in.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperr.BadRequest("Duplicate username: %s", in.Username)
		}
		return tx.Create(&user).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apperr.BadRequest("Duplicate username: %s", in.Username)
	}
	if err != nil {
		return nil, err
	}

	user.Password = ""
	return &user, nil
}

// Get returns the public profile of username along with its lists.
func (r *Repository) Get(ctx context.Context, username string) (*UserProfile, error) {
	db := r.db.WithContext(ctx)

	var user entities.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("no such user: %s", username)
		}
		return nil, err
	}

	lists := make([]ListSummary, 0)
	err := db.Model(&entities.ReadingList{}).
		Select("id", "title").
		Where("username = ?", username).
		Order("id ASC").
		Scan(&lists).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load lists for %s: %w", username, err)
	}

	return &UserProfile{User: user, Lists: lists}, nil
}

// ListAll returns every user ordered by username.
func (r *Repository) ListAll(ctx context.Context) ([]entities.User, error) {
	users := make([]entities.User, 0)
	err := r.db.WithContext(ctx).
		Select("username", "email", "bio").
		Order("username ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Update applies the supplied fields. A new password is hashed first.
func (r *Repository) Update(ctx context.Context, username string, in UpdateInput) (*entities.User, error) {
	if in.empty() {
		return nil, apperr.BadRequest("no data to update")
	}

	updates := map[string]any{}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password, r.bcryptCost)
		if err != nil {
			return nil, apperr.BadRequest("%s", err.Error())
		}
		updates["password"] = hash
	}
	if in.Email != nil {
		updates["email"] = *in.Email
	}
	switch {
	case in.Bio != nil:
		updates["bio"] = *in.Bio
	case in.ClearBio:
		updates["bio"] = nil
	}

	var user entities.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entities.User{}).Where("username = ?", username).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("no such user: %s", username)
		}
		return tx.Where("username = ?", username).First(&user).Error
	})
	if err != nil {
		return nil, err
	}

	user.Password = ""
	return &user, nil
}

// Remove deletes a user together with everything hanging off it: reviews
// they wrote, their lists, and the books and reviews on those lists.
func (r *Repository) Remove(ctx context.Context, username string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entities.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperr.NotFound("no such user: %s", username)
		}

		owned := func() *gorm.DB {
			return tx.Model(&entities.ReadingList{}).Select("id").Where("username = ?", username)
		}

		if err := tx.Where("username = ? OR list_id IN (?)", username, owned()).Delete(&entities.Review{}).Error; err != nil {
			return fmt.Errorf("failed to delete reviews: %w", err)
		}
		if err := tx.Where("list_id IN (?)", owned()).Delete(&entities.ListBook{}).Error; err != nil {
			return fmt.Errorf("failed to delete list books: %w", err)
		}
		if err := tx.Where("username = ?", username).Delete(&entities.ReadingList{}).Error; err != nil {
			return fmt.Errorf("failed to delete lists: %w", err)
		}
		return tx.Where("username = ?", username).Delete(&entities.User{}).Error
	})
}
