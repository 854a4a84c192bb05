package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/catalog/internal/database/reviews"
	"github.com/mrlokans/catalog/internal/entities"
	"github.com/mrlokans/catalog/internal/notify"
)

// ReviewStore defines database operations for review management.
type ReviewStore interface {
	ListByBook(bookID uint) ([]entities.Review, error)
	Create(review *entities.Review) error
	Update(id uint, patch entities.ReviewPatch) (*entities.Review, error)
	Delete(id uint) error
}

type ReviewsController struct {
	sessions   SessionRunner
	newStore   func(tx *gorm.DB) ReviewStore
	dispatcher notify.Dispatcher
	recipient  string
}

// NewReviewsController creates the reviews controller. A confirmation for
// every created review is handed to dispatcher, addressed to recipient.
// When requireBook is set, reviews for a missing book are rejected.
func NewReviewsController(sessions SessionRunner, dispatcher notify.Dispatcher, recipient string, requireBook bool) *ReviewsController {
	var opts []reviews.Option
	if requireBook {
		opts = append(opts, reviews.WithBookCheck())
	}
	return &ReviewsController{
		sessions:   sessions,
		newStore:   func(tx *gorm.DB) ReviewStore { return reviews.NewRepository(tx, opts...) },
		dispatcher: dispatcher,
		recipient:  recipient,
	}
}

// ListByBook returns all reviews of a book
// GET /reviews/:id
func (rc *ReviewsController) ListByBook(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id", "Book")
	if !ok {
		return
	}

	var list []entities.Review
	err := rc.sessions.WithSession(c.Request.Context(), func(tx *gorm.DB) error {
		var err error
		list, err = rc.newStore(tx).ListByBook(bookID)
		return err
	})
	if err != nil {
		respondStoreError(c, err, "list reviews")
		return
	}

	c.JSON(http.StatusOK, newReviewResponses(list))
}

// Create stores a review and queues its confirmation once the response is written
// POST /reviews/
func (rc *ReviewsController) Create(c *gin.Context) {
	var req ReviewCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, bindErrorMessage(err))
		return
	}

	review := req.toEntity()
	err := rc.sessions.WithSession(c.Request.Context(), func(tx *gorm.DB) error {
		return rc.newStore(tx).Create(&review)
	})
	if err != nil {
		respondStoreError(c, err, "create review")
		return
	}

	c.JSON(http.StatusOK, newReviewResponse(review))

	if rc.dispatcher != nil {
		rc.dispatcher.Dispatch(rc.recipient, review.Text)
	}
}

// Update changes the supplied fields of a review
// PUT /reviews/:id
func (rc *ReviewsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Review")
	if !ok {
		return
	}

	var req ReviewUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, bindErrorMessage(err))
		return
	}

	var updated *entities.Review
	err := rc.sessions.WithSession(c.Request.Context(), func(tx *gorm.DB) error {
		var err error
		updated, err = rc.newStore(tx).Update(id, req.toPatch())
		return err
	})
	if err != nil {
		respondStoreError(c, err, "update review")
		return
	}

	c.JSON(http.StatusOK, newReviewResponse(*updated))
}

// Delete removes a review
// DELETE /reviews/:id
func (rc *ReviewsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Review")
	if !ok {
		return
	}

	err := rc.sessions.WithSession(c.Request.Context(), func(tx *gorm.DB) error {
		return rc.newStore(tx).Delete(id)
	})
	if err != nil {
		respondStoreError(c, err, "delete review")
		return
	}

	respondSuccess(c, "Review deleted")
}
