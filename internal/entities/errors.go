package entities

import "errors"

var (
	// ErrBookNotFound is returned when an operation addresses a book id that does not exist.
	ErrBookNotFound = errors.New("book not found")

	// ErrReviewNotFound is returned when an operation addresses a review id that does not exist.
	ErrReviewNotFound = errors.New("review not found")
)
