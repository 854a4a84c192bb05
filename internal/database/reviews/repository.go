// Package reviews provides database operations for book reviews.
//
// This package implements the ReviewStore interface defined in
// internal/http/reviews.go and the OrphanReviewCounter used by the
// orphan report task.
//
// # Usage
//
//	repo := reviews.NewRepository(tx)
//	list, err := repo.ListByBook(bookID)
//
// By default reviews are inserted without checking that their book exists.
// WithBookCheck turns the check on.
package reviews

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/catalog/internal/database/books"
	"github.com/mrlokans/catalog/internal/entities"
)

// Option configures a Repository.
type Option func(*Repository)

// WithBookCheck makes Create reject reviews whose book does not exist.
func WithBookCheck() Option {
	return func(r *Repository) {
		r.requireBook = true
	}
}

// Repository handles all review database operations on one session.
type Repository struct {
	db          *gorm.DB
	requireBook bool
}

// NewRepository creates a new reviews repository.
func NewRepository(db *gorm.DB, opts ...Option) *Repository {
	r := &Repository{db: db}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ListByBook returns the reviews attached to a book.
func (r *Repository) ListByBook(bookID uint) ([]entities.Review, error) {
	var book entities.Book
	err := r.db.First(&book, bookID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("book %d: %w", bookID, entities.ErrBookNotFound)
	}
	if err != nil {
		return nil, err
	}

	var reviews []entities.Review
	if err := r.db.Model(&book).Association("Reviews").Find(&reviews); err != nil {
		return nil, fmt.Errorf("list reviews for book %d: %w", bookID, err)
	}
	return reviews, nil
}

// GetByID retrieves a single review.
func (r *Repository) GetByID(id uint) (*entities.Review, error) {
	var review entities.Review
	err := r.db.First(&review, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("review %d: %w", id, entities.ErrReviewNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Create inserts a new review and assigns its ID.
func (r *Repository) Create(review *entities.Review) error {
	if r.requireBook {
		exists, err := books.NewRepository(r.db).Exists(review.BookID)
		if err != nil {
			return fmt.Errorf("check book %d: %w", review.BookID, err)
		}
		if !exists {
			return fmt.Errorf("book %d: %w", review.BookID, entities.ErrBookNotFound)
		}
	}

	review.ID = 0
	return r.db.Create(review).Error
}

// Update writes the fields present in the patch and returns the stored row.
// BookID is never changed.
func (r *Repository) Update(id uint, patch entities.ReviewPatch) (*entities.Review, error) {
	review, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	if cols := patch.Columns(); len(cols) > 0 {
		if err := r.db.Model(review).Updates(cols).Error; err != nil {
			return nil, fmt.Errorf("update review %d: %w", id, err)
		}
	}

	return r.GetByID(id)
}

// Delete removes the review row.
func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&entities.Review{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("review %d: %w", id, entities.ErrReviewNotFound)
	}
	return nil
}

// CountOrphans counts reviews whose book_id references no stored book.
func (r *Repository) CountOrphans(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Review{}).
		Where("book_id NOT IN (?)", r.db.Model(&entities.Book{}).Select("id")).
		Count(&count).Error
	return count, err
}
