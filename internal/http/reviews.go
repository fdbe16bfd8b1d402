package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shelfwise/bookshelf/internal/auth"
	"github.com/shelfwise/bookshelf/internal/entities"
)

// ReviewStore is the review persistence surface the controller needs.
type ReviewStore interface {
	Find(id uint) (*entities.BookReview, error)
	FindAll(bookID uint, orderBy, sort string, limit, offset int) ([]entities.BookReview, error)
	Add(review *entities.Review) (uint, error)
	Update(review *entities.Review) (int64, error)
	Remove(id uint) (int64, error)
	IncrementUseful(id uint) (int64, error)
	IncrementUseless(id uint) (int64, error)
}

// ReviewsController handles book reviews and their usefulness counters.
type ReviewsController struct {
	store ReviewStore
}

func NewReviewsController(store ReviewStore) *ReviewsController {
	return &ReviewsController{store: store}
}

// List returns a book's reviews joined with book metadata and reviewer
// identity. The book_id query parameter selects the book.
func (ctrl *ReviewsController) List(c *gin.Context) {
	bookID, err := strconv.ParseUint(c.Query("book_id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "book_id is required")
		return
	}
	limit, offset := parseLimitOffset(c)
	rows, listErr := ctrl.store.FindAll(uint(bookID), c.Query("order_by"), c.Query("sort"), limit, offset)
	if listErr != nil {
		respondStoreError(c, listErr, "list reviews")
		return
	}
	respond(c, http.StatusOK, "review list", rows)
}

// Get returns one review; a missing id reads as empty data.
func (ctrl *ReviewsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		respondBadRequest(c, "invalid review id")
		return
	}
	row, err := ctrl.store.Find(id)
	if err != nil {
		respondStoreError(c, err, "get review")
		return
	}
	message := fmt.Sprintf("review info for id {%d}", id)
	if row == nil {
		respond(c, http.StatusOK, message, nil)
		return
	}
	respond(c, http.StatusOK, message, row)
}

type reviewPayload struct {
	BookID  uint   `json:"book_id"`
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

// Create adds a review authored by the session user.
func (ctrl *ReviewsController) Create(c *gin.Context) {
	var payload reviewPayload
	if err := c.ShouldBindJSON(&payload); err != nil || payload.BookID == 0 {
		respondBadRequest(c, "book_id and title are required")
		return
	}
	review := &entities.Review{
		UserID:  auth.GetUserID(c),
		BookID:  payload.BookID,
		Title:   payload.Title,
		Content: payload.Content,
	}
	id, err := ctrl.store.Add(review)
	if err != nil {
		respondStoreError(c, err, "create review")
		return
	}
	respond(c, http.StatusCreated, "review added", gin.H{"id": id})
}

// Update overwrites a review's title and content.
func (ctrl *ReviewsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		respondBadRequest(c, "invalid review id")
		return
	}
	var payload reviewPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "title is required")
		return
	}
	changes, err := ctrl.store.Update(&entities.Review{
		ID:      id,
		Title:   payload.Title,
		Content: payload.Content,
	})
	if err != nil {
		respondStoreError(c, err, "update review")
		return
	}
	respond(c, http.StatusOK, "review updated", gin.H{"changes": changes})
}

// Delete removes a review.
func (ctrl *ReviewsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		respondBadRequest(c, "invalid review id")
		return
	}
	changes, err := ctrl.store.Remove(id)
	if err != nil {
		respondStoreError(c, err, "delete review")
		return
	}
	respond(c, http.StatusNoContent, "review deleted", gin.H{"changes": changes})
}

// PatchUseful increments the useful counter by one.
func (ctrl *ReviewsController) PatchUseful(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		respondBadRequest(c, "invalid review id")
		return
	}
	changes, err := ctrl.store.IncrementUseful(id)
	if err != nil {
		respondStoreError(c, err, "increment useful")
		return
	}
	respond(c, http.StatusOK, "useful counter updated", gin.H{"changes": changes})
}

// PatchUseless increments the useless counter by one.
func (ctrl *ReviewsController) PatchUseless(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		respondBadRequest(c, "invalid review id")
		return
	}
	changes, err := ctrl.store.IncrementUseless(id)
	if err != nil {
		respondStoreError(c, err, "increment useless")
		return
	}
	respond(c, http.StatusOK, "useless counter updated", gin.H{"changes": changes})
}
