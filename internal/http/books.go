package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/catalog/internal/database/books"
	"github.com/mrlokans/catalog/internal/entities"
)

// SessionRunner scopes a storage session to one unit of work.
type SessionRunner interface {
	WithSession(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// BookStore defines database operations for book management.
type BookStore interface {
	List(filter entities.BookFilter) ([]entities.Book, error)
	Create(book *entities.Book) error
	Update(id uint, patch entities.BookPatch) (*entities.Book, error)
	Delete(id uint) error
}

type BooksController struct {
	sessions SessionRunner
	newStore func(tx *gorm.DB) BookStore
}

func NewBooksController(sessions SessionRunner) *BooksController {
	return &BooksController{
		sessions: sessions,
		newStore: func(tx *gorm.DB) BookStore { return books.NewRepository(tx) },
	}
}

// List returns books, optionally filtered by exact author and publication year
// GET /books/
func (bc *BooksController) List(c *gin.Context) {
	year, ok := parseOptionalIntQuery(c, "publication_year")
	if !ok {
		return
	}
	filter := entities.BookFilter{
		Author:          optionalQuery(c, "author"),
		PublicationYear: year,
	}

	var list []entities.Book
	err := bc.sessions.WithSession(c.Request.Context(), func(tx *gorm.DB) error {
		var err error
		list, err = bc.newStore(tx).List(filter)
		return err
	})
	if err != nil {
		respondStoreError(c, err, "list books")
		return
	}

	c.JSON(http.StatusOK, newBookResponses(list))
}

// Create adds a new book
// POST /books/
func (bc *BooksController) Create(c *gin.Context) {
	var req BookCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, bindErrorMessage(err))
		return
	}

	book := req.toEntity()
	err := bc.sessions.WithSession(c.Request.Context(), func(tx *gorm.DB) error {
		return bc.newStore(tx).Create(&book)
	})
	if err != nil {
		respondStoreError(c, err, "create book")
		return
	}

	c.JSON(http.StatusOK, newBookResponse(book))
}

// Update changes the supplied fields of a book
// PUT /books/:id
func (bc *BooksController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Book")
	if !ok {
		return
	}

	var req BookUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, bindErrorMessage(err))
		return
	}

	var updated *entities.Book
	err := bc.sessions.WithSession(c.Request.Context(), func(tx *gorm.DB) error {
		var err error
		updated, err = bc.newStore(tx).Update(id, req.toPatch())
		return err
	})
	if err != nil {
		respondStoreError(c, err, "update book")
		return
	}

	c.JSON(http.StatusOK, newBookResponse(*updated))
}

// Delete removes a book. Its reviews are left in place.
// DELETE /books/:id
func (bc *BooksController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Book")
	if !ok {
		return
	}

	err := bc.sessions.WithSession(c.Request.Context(), func(tx *gorm.DB) error {
		return bc.newStore(tx).Delete(id)
	})
	if err != nil {
		respondStoreError(c, err, "delete book")
		return
	}

	respondSuccess(c, "Book deleted")
}
