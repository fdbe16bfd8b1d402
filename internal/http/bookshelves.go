package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shelfwise/bookshelf/internal/auth"
	"github.com/shelfwise/bookshelf/internal/entities"
)

// ShelfStore is the bookshelf persistence surface the controller needs.
type ShelfStore interface {
	Find(id, userID uint) (*entities.ShelfBook, error)
	FindAll(userID uint, orderBy, sort string, limit, offset int) ([]entities.ShelfBook, error)
	Add(shelf *entities.Bookshelf) (uint, error)
	Update(shelf *entities.Bookshelf) (int64, error)
	Remove(id uint) (int64, error)
	UpdateReadStatus(id uint, readStatus int) (int64, error)
	UpdateRanking(id uint, ranking int) (int64, error)
}

// BookshelvesController handles the session user's personal shelf. Every
// read is scoped to the session user; an id owned by someone else reads as
// empty data.
type BookshelvesController struct {
	store ShelfStore
}

func NewBookshelvesController(store ShelfStore) *BookshelvesController {
	return &BookshelvesController{store: store}
}

// List returns the current user's shelf joined with book metadata.
func (ctrl *BookshelvesController) List(c *gin.Context) {
	limit, offset := parseLimitOffset(c)
	rows, err := ctrl.store.FindAll(auth.GetUserID(c), c.Query("order_by"), c.Query("sort"), limit, offset)
	if err != nil {
		respondStoreError(c, err, "list bookshelf")
		return
	}
	respond(c, http.StatusOK, "bookshelf list", rows)
}

// Get returns one shelf entry joined with its book, scoped to the current
// user.
func (ctrl *BookshelvesController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		respondBadRequest(c, "invalid bookshelf id")
		return
	}
	row, err := ctrl.store.Find(id, auth.GetUserID(c))
	if err != nil {
		respondStoreError(c, err, "get bookshelf entry")
		return
	}
	message := fmt.Sprintf("bookshelf entry for id {%d}", id)
	if row == nil {
		respond(c, http.StatusOK, message, nil)
		return
	}
	respond(c, http.StatusOK, message, row)
}

type shelfCreatePayload struct {
	BookID uint `json:"book_id" binding:"required"`
}

// Create puts a book on the current user's shelf, unread and unranked.
func (ctrl *BookshelvesController) Create(c *gin.Context) {
	var payload shelfCreatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "book_id is required")
		return
	}
	shelf := &entities.Bookshelf{
		UserID: auth.GetUserID(c),
		BookID: payload.BookID,
	}
	id, err := ctrl.store.Add(shelf)
	if err != nil {
		respondStoreError(c, err, "add bookshelf entry")
		return
	}
	respond(c, http.StatusCreated, "book added to shelf", gin.H{"id": id})
}

type shelfUpdatePayload struct {
	ReadStatus int `json:"read_status"`
	Ranking    int `json:"ranking"`
}

func validShelfState(readStatus, ranking int) bool {
	return readStatus >= entities.ReadStatusUnread && readStatus <= entities.ReadStatusFinished &&
		ranking >= entities.RankingMin && ranking <= entities.RankingMax
}

// Update overwrites the read status and ranking of a shelf entry.
func (ctrl *BookshelvesController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		respondBadRequest(c, "invalid bookshelf id")
		return
	}
	var payload shelfUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if !validShelfState(payload.ReadStatus, payload.Ranking) {
		respondBadRequest(c, "read_status must be 0-3 and ranking 0-10")
		return
	}
	changes, err := ctrl.store.Update(&entities.Bookshelf{
		ID:         id,
		ReadStatus: payload.ReadStatus,
		Ranking:    payload.Ranking,
	})
	if err != nil {
		respondStoreError(c, err, "update bookshelf entry")
		return
	}
	respond(c, http.StatusOK, "bookshelf entry updated", gin.H{"changes": changes})
}

// Delete removes a shelf entry.
func (ctrl *BookshelvesController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		respondBadRequest(c, "invalid bookshelf id")
		return
	}
	changes, err := ctrl.store.Remove(id)
	if err != nil {
		respondStoreError(c, err, "delete bookshelf entry")
		return
	}
	respond(c, http.StatusNoContent, "bookshelf entry deleted", gin.H{"changes": changes})
}

type readStatusPayload struct {
	ReadStatus int `json:"read_status"`
}

// PatchReadStatus sets only the read status.
func (ctrl *BookshelvesController) PatchReadStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		respondBadRequest(c, "invalid bookshelf id")
		return
	}
	var payload readStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if payload.ReadStatus < entities.ReadStatusUnread || payload.ReadStatus > entities.ReadStatusFinished {
		respondBadRequest(c, "read_status must be 0-3")
		return
	}
	changes, err := ctrl.store.UpdateReadStatus(id, payload.ReadStatus)
	if err != nil {
		respondStoreError(c, err, "update read status")
		return
	}
	respond(c, http.StatusOK, "read status updated", gin.H{"changes": changes})
}

type rankingPayload struct {
	Ranking int `json:"ranking"`
}

// PatchRanking sets only the ranking.
func (ctrl *BookshelvesController) PatchRanking(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		respondBadRequest(c, "invalid bookshelf id")
		return
	}
	var payload rankingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if payload.Ranking < entities.RankingMin || payload.Ranking > entities.RankingMax {
		respondBadRequest(c, "ranking must be 0-10")
		return
	}
	changes, err := ctrl.store.UpdateRanking(id, payload.Ranking)
	if err != nil {
		respondStoreError(c, err, "update ranking")
		return
	}
	respond(c, http.StatusOK, "ranking updated", gin.H{"changes": changes})
}
