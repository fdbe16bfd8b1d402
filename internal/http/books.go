package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shelfwise/bookshelf/internal/entities"
	"github.com/shelfwise/bookshelf/internal/metadata"
)

// BookStore is the book persistence surface the controller needs.
type BookStore interface {
	Find(id uint) (*entities.Book, error)
	FindByISBN(isbn string) (*entities.Book, error)
	FindAll(limit, offset int) ([]entities.Book, error)
	Search(q string, limit int) ([]entities.Book, error)
	Add(book *entities.Book) (uint, error)
	Update(book *entities.Book) (int64, error)
	Remove(id uint) (int64, error)
}

// MetadataFetcher retrieves book info from the external source by ISBN.
type MetadataFetcher interface {
	FetchByISBN(ctx context.Context, isbn string) (*metadata.BookInfo, error)
}

// BackfillEnqueuer schedules background metadata backfill work.
type BackfillEnqueuer interface {
	EnqueueBook(ctx context.Context, bookID uint) error
	EnqueueAll(ctx context.Context) error
}

// BooksController handles the book catalogue and the external fetch flow.
type BooksController struct {
	store    BookStore
	fetcher  MetadataFetcher
	backfill BackfillEnqueuer // nil when the task queue is disabled
}

func NewBooksController(store BookStore, fetcher MetadataFetcher, backfill BackfillEnqueuer) *BooksController {
	return &BooksController{store: store, fetcher: fetcher, backfill: backfill}
}

type bookPayload struct {
	Title      string `json:"title" binding:"required"`
	Pic        string `json:"pic"`
	Author     string `json:"author"`
	Publisher  string `json:"publisher"`
	Translator string `json:"translator"`
	Pubdate    string `json:"pubdate"`
	Pages      string `json:"pages"`
	Price      string `json:"price"`
	Binding    string `json:"binding"`
	Series     string `json:"series"`
	ISBN       string `json:"isbn"`
}

func (p *bookPayload) toEntity() *entities.Book {
	return &entities.Book{
		Title:      p.Title,
		Pic:        p.Pic,
		Author:     p.Author,
		Publisher:  p.Publisher,
		Translator: p.Translator,
		Pubdate:    p.Pubdate,
		Pages:      p.Pages,
		Price:      p.Price,
		Binding:    p.Binding,
		Series:     p.Series,
		ISBN:       p.ISBN,
	}
}

// List returns books ordered by id with optional pagination.
func (ctrl *BooksController) List(c *gin.Context) {
	limit, offset := parseLimitOffset(c)
	books, err := ctrl.store.FindAll(limit, offset)
	if err != nil {
		respondStoreError(c, err, "list books")
		return
	}
	respond(c, http.StatusOK, "book list", books)
}

// Search matches the q parameter against title and author.
func (ctrl *BooksController) Search(c *gin.Context) {
	limit, _ := parseLimitOffset(c)
	books, err := ctrl.store.Search(c.Query("q"), limit)
	if err != nil {
		respondStoreError(c, err, "search books")
		return
	}
	respond(c, http.StatusOK, "book search results", books)
}

// Get returns a single book; a missing id reads as empty data.
func (ctrl *BooksController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		respondBadRequest(c, "invalid book id")
		return
	}
	book, err := ctrl.store.Find(id)
	if err != nil {
		respondStoreError(c, err, "get book")
		return
	}
	message := fmt.Sprintf("book info for id {%d}", id)
	if book == nil {
		respond(c, http.StatusOK, message, nil)
		return
	}
	respond(c, http.StatusOK, message, book)
}

// GetByISBN returns the stored book matching an ISBN, empty when absent.
func (ctrl *BooksController) GetByISBN(c *gin.Context) {
	isbn := c.Param("isbn")
	book, err := ctrl.store.FindByISBN(isbn)
	if err != nil {
		respondStoreError(c, err, "get book by isbn")
		return
	}
	message := fmt.Sprintf("book info for isbn {%s}", isbn)
	if book == nil {
		respond(c, http.StatusOK, message, nil)
		return
	}
	respond(c, http.StatusOK, message, book)
}

// Fetch retrieves book info from the external source. The result is returned
// to the caller, never persisted; committing it is an explicit Create.
func (ctrl *BooksController) Fetch(c *gin.Context) {
	info, err := ctrl.fetcher.FetchByISBN(c.Request.Context(), c.Param("isbn"))
	if err != nil {
		respond(c, http.StatusBadRequest, "unable to fetch book info", nil)
		return
	}
	respond(c, http.StatusOK, "fetched book info", info)
}

// Create adds a book to the catalogue.
func (ctrl *BooksController) Create(c *gin.Context) {
	var payload bookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "title is required")
		return
	}
	id, err := ctrl.store.Add(payload.toEntity())
	if err != nil {
		respondStoreError(c, err, "create book")
		return
	}
	respond(c, http.StatusCreated, "book added", gin.H{"id": id})
}

// Update overwrites a book's descriptive fields.
func (ctrl *BooksController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		respondBadRequest(c, "invalid book id")
		return
	}
	var payload bookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "title is required")
		return
	}
	book := payload.toEntity()
	book.ID = id

	changes, err := ctrl.store.Update(book)
	if err != nil {
		respondStoreError(c, err, "update book")
		return
	}
	respond(c, http.StatusOK, "book updated", gin.H{"changes": changes})
}

// Delete removes a book from the catalogue.
func (ctrl *BooksController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		respondBadRequest(c, "invalid book id")
		return
	}
	changes, err := ctrl.store.Remove(id)
	if err != nil {
		respondStoreError(c, err, "delete book")
		return
	}
	respond(c, http.StatusNoContent, "book deleted", gin.H{"changes": changes})
}

// Backfill enqueues a metadata backfill for one book. Admin only.
func (ctrl *BooksController) Backfill(c *gin.Context) {
	if ctrl.backfill == nil {
		respondBadRequest(c, "background tasks are disabled")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		respondBadRequest(c, "invalid book id")
		return
	}
	if err := ctrl.backfill.EnqueueBook(c.Request.Context(), id); err != nil {
		respondStoreError(c, err, "enqueue backfill")
		return
	}
	respond(c, http.StatusOK, "backfill queued", gin.H{"book_id": id})
}

// BackfillAll enqueues a metadata backfill sweep over every book with
// missing fields. Admin only.
func (ctrl *BooksController) BackfillAll(c *gin.Context) {
	if ctrl.backfill == nil {
		respondBadRequest(c, "background tasks are disabled")
		return
	}
	if err := ctrl.backfill.EnqueueAll(c.Request.Context()); err != nil {
		respondStoreError(c, err, "enqueue backfill sweep")
		return
	}
	respond(c, http.StatusOK, "backfill sweep queued", nil)
}
