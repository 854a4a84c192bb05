package http

import "github.com/mrlokans/catalog/internal/entities"

// Request fields are pointers so that binding can tell an absent field from
// an explicit zero value.

// BookCreateRequest is the body of POST /books/.
type BookCreateRequest struct {
	Title           *string `json:"title" binding:"required"`
	Author          *string `json:"author" binding:"required"`
	PublicationYear *int    `json:"publication_year" binding:"required"`
}

func (r BookCreateRequest) toEntity() entities.Book {
	return entities.Book{
		Title:           *r.Title,
		Author:          *r.Author,
		PublicationYear: *r.PublicationYear,
	}
}

// BookUpdateRequest is the body of PUT /books/:id. Omitted fields keep their
// stored value.
type BookUpdateRequest struct {
	Title           *string `json:"title"`
	Author          *string `json:"author"`
	PublicationYear *int    `json:"publication_year"`
}

func (r BookUpdateRequest) toPatch() entities.BookPatch {
	return entities.BookPatch{
		Title:           r.Title,
		Author:          r.Author,
		PublicationYear: r.PublicationYear,
	}
}

type BookResponse struct {
	ID              uint   `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	PublicationYear int    `json:"publication_year"`
}

func newBookResponse(book entities.Book) BookResponse {
	return BookResponse{
		ID:              book.ID,
		Title:           book.Title,
		Author:          book.Author,
		PublicationYear: book.PublicationYear,
	}
}

func newBookResponses(books []entities.Book) []BookResponse {
	out := make([]BookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, newBookResponse(b))
	}
	return out
}

// ReviewCreateRequest is the body of POST /reviews/.
type ReviewCreateRequest struct {
	BookID *uint   `json:"book_id" binding:"required"`
	Text   *string `json:"text" binding:"required"`
	Rating *int    `json:"rating" binding:"required"`
}

func (r ReviewCreateRequest) toEntity() entities.Review {
	return entities.Review{
		BookID: *r.BookID,
		Text:   *r.Text,
		Rating: *r.Rating,
	}
}

// ReviewUpdateRequest is the body of PUT /reviews/:id. The book a review
// belongs to cannot be changed.
type ReviewUpdateRequest struct {
	Text   *string `json:"text"`
	Rating *int    `json:"rating"`
}

func (r ReviewUpdateRequest) toPatch() entities.ReviewPatch {
	return entities.ReviewPatch{
		Text:   r.Text,
		Rating: r.Rating,
	}
}

type ReviewResponse struct {
	ID     uint   `json:"id"`
	BookID uint   `json:"book_id"`
	Text   string `json:"text"`
	Rating int    `json:"rating"`
}

func newReviewResponse(review entities.Review) ReviewResponse {
	return ReviewResponse{
		ID:     review.ID,
		BookID: review.BookID,
		Text:   review.Text,
		Rating: review.Rating,
	}
}

func newReviewResponses(reviews []entities.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, newReviewResponse(r))
	}
	return out
}
