// Package books provides database operations for book management.
//
// This package implements the BookStore interface defined in
// internal/http/books.go.
//
// # Interface Implementation
//
//	var _ http.BookStore = (*Repository)(nil)
//
// # Usage
//
//	repo := books.NewRepository(tx)
//	list, err := repo.List(entities.BookFilter{Author: &author})
package books

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/catalog/internal/entities"
)

// Repository handles all book database operations on one session.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns every book matching the filter. Both filters are exact matches.
func (r *Repository) List(filter entities.BookFilter) ([]entities.Book, error) {
	query := r.db.Model(&entities.Book{})
	if filter.Author != nil {
		query = query.Where("author = ?", *filter.Author)
	}
	if filter.PublicationYear != nil {
		query = query.Where("publication_year = ?", *filter.PublicationYear)
	}

	var books []entities.Book
	err := query.Order("id ASC").Find(&books).Error
	return books, err
}

// GetByID retrieves a single book.
func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.First(&book, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("book %d: %w", id, entities.ErrBookNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Exists reports whether a book with the given id is stored.
func (r *Repository) Exists(id uint) (bool, error) {
	var count int64
	if err := r.db.Model(&entities.Book{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new book and assigns its ID.
func (r *Repository) Create(book *entities.Book) error {
	book.ID = 0
	return r.db.Omit("Reviews").Create(book).Error
}

// Update writes the fields present in the patch and returns the stored row.
func (r *Repository) Update(id uint, patch entities.BookPatch) (*entities.Book, error) {
	book, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	if cols := patch.Columns(); len(cols) > 0 {
		if err := r.db.Model(book).Updates(cols).Error; err != nil {
			return nil, fmt.Errorf("update book %d: %w", id, err)
		}
	}

	return r.GetByID(id)
}

// Delete removes the book row. Reviews referencing it are left in place.
func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&entities.Book{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("book %d: %w", id, entities.ErrBookNotFound)
	}
	return nil
}
