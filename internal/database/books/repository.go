// Package books provides database operations for book metadata records.
package books

import (
	"errors"

	"gorm.io/gorm"

	"github.com/shelfwise/bookshelf/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Find retrieves a book by ID, returning (nil, nil) when no row matches.
func (r *Repository) Find(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.First(&book, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// FindByISBN retrieves a book by its ISBN. The column is not unique; the
// lowest id wins when duplicates exist.
func (r *Repository) FindByISBN(isbn string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("isbn = ?", isbn).Order("id").First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// FindAll lists books ordered by id. limit -1 means unbounded; offset -1
// means no skip and is only honoured when a limit is set.
func (r *Repository) FindAll(limit, offset int) ([]entities.Book, error) {
	var books []entities.Book
	query := r.db.Order("id")
	if limit != -1 {
		query = query.Limit(limit)
		if offset != -1 {
			query = query.Offset(offset)
		}
	}
	err := query.Find(&books).Error
	return books, err
}

// Search matches the query as a case-insensitive substring against title and
// author.
func (r *Repository) Search(q string, limit int) ([]entities.Book, error) {
	var books []entities.Book
	pattern := "%" + q + "%"
	query := r.db.Where(
		"LOWER(title) LIKE LOWER(?) OR LOWER(author) LIKE LOWER(?)",
		pattern, pattern,
	)
	if limit != -1 {
		query = query.Limit(limit)
	}
	err := query.Find(&books).Error
	return books, err
}

// Add inserts a book and returns the assigned id, stamping timestamps when
// the caller left them zero.
func (r *Repository) Add(book *entities.Book) (uint, error) {
	if book.CreatedTime == 0 {
		now := entities.NowMillis()
		book.CreatedTime = now
		book.UpdatedTime = now
	}
	if err := r.db.Create(book).Error; err != nil {
		return 0, err
	}
	return book.ID, nil
}

// Update overwrites the descriptive fields of the book row identified by
// book.ID and refreshes updated_time. Returns the number of affected rows.
func (r *Repository) Update(book *entities.Book) (int64, error) {
	book.UpdatedTime = entities.NowMillis()
	result := r.db.Model(&entities.Book{}).
		Where("id = ?", book.ID).
		Select("title", "pic", "author", "publisher", "translator", "pubdate",
			"pages", "price", "binding", "series", "isbn", "updated_time").
		Updates(book)
	return result.RowsAffected, result.Error
}

// Remove hard-deletes a book by id and returns the number of affected rows.
func (r *Repository) Remove(id uint) (int64, error) {
	result := r.db.Delete(&entities.Book{}, id)
	return result.RowsAffected, result.Error
}
