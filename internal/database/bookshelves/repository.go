// Package bookshelves provides database operations for per-user bookshelf
// entries. Reads left-join book metadata into flat ShelfBook rows and are
// always scoped by the owning user.
package bookshelves

import (
	"errors"

	"gorm.io/gorm"

	"github.com/shelfwise/bookshelf/internal/entities"
)

// selectColumns flattens shelf state and book metadata under stable aliases.
// LEFT JOIN keeps shelf rows whose book was deleted; their book columns come
// back zero-valued.
const selectColumns = `
	a.id AS id,
	a.book_id AS book_id,
	a.user_id AS user_id,
	a.read_status AS read_status,
	a.ranking AS ranking,
	a.created_time AS created_time,
	a.updated_time AS updated_time,
	b.title AS title,
	b.pic AS pic,
	b.author AS author,
	b.publisher AS publisher,
	b.translator AS translator,
	b.pubdate AS pubdate,
	b.pages AS pages,
	b.price AS price,
	b.binding AS binding,
	b.series AS series,
	b.isbn AS isbn`

// orderColumns is the fixed allow-list for caller-chosen ordering. Anything
// outside it falls back to the default; column names are never taken from
// the request verbatim.
var orderColumns = map[string]string{
	"id":           "a.id",
	"read_status":  "a.read_status",
	"ranking":      "a.ranking",
	"created_time": "a.created_time",
	"updated_time": "a.updated_time",
	"title":        "b.title",
	"author":       "b.author",
	"pubdate":      "b.pubdate",
}

// OrderClause maps a requested order_by/sort pair through the allow-list,
// falling back to "a.id desc" for unknown columns and to desc for unknown
// directions.
func OrderClause(orderBy, sort string) string {
	column, ok := orderColumns[orderBy]
	if !ok {
		column = "a.id"
	}
	if sort != "asc" && sort != "desc" {
		sort = "desc"
	}
	return column + " " + sort
}

// Repository handles all bookshelf database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new bookshelves repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Find retrieves one shelf entry joined with its book. The lookup is scoped
// by userID; an id belonging to another user reads as absent, never as a
// permission error.
func (r *Repository) Find(id, userID uint) (*entities.ShelfBook, error) {
	var row entities.ShelfBook
	err := r.db.Table("bookshelves AS a").
		Select(selectColumns).
		Joins("LEFT JOIN books AS b ON a.book_id = b.id").
		Where("a.id = ? AND a.user_id = ?", id, userID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindAll lists a user's shelf joined with book metadata. limit -1 means
// unbounded; offset -1 means no skip and is only honoured with a limit.
func (r *Repository) FindAll(userID uint, orderBy, sort string, limit, offset int) ([]entities.ShelfBook, error) {
	var rows []entities.ShelfBook
	query := r.db.Table("bookshelves AS a").
		Select(selectColumns).
		Joins("LEFT JOIN books AS b ON a.book_id = b.id").
		Where("a.user_id = ?", userID).
		Order(OrderClause(orderBy, sort))
	if limit != -1 {
		query = query.Limit(limit)
		if offset != -1 {
			query = query.Offset(offset)
		}
	}
	err := query.Scan(&rows).Error
	return rows, err
}

// Add inserts a shelf entry and returns the assigned id. New entries start
// unread and unranked; timestamps are stamped when left zero.
func (r *Repository) Add(shelf *entities.Bookshelf) (uint, error) {
	if shelf.CreatedTime == 0 {
		now := entities.NowMillis()
		shelf.CreatedTime = now
		shelf.UpdatedTime = now
	}
	if err := r.db.Create(shelf).Error; err != nil {
		return 0, err
	}
	return shelf.ID, nil
}

// Update overwrites read_status and ranking of the entry identified by
// shelf.ID and refreshes updated_time. Returns the number of affected rows.
func (r *Repository) Update(shelf *entities.Bookshelf) (int64, error) {
	shelf.UpdatedTime = entities.NowMillis()
	result := r.db.Model(&entities.Bookshelf{}).
		Where("id = ?", shelf.ID).
		Select("read_status", "ranking", "updated_time").
		Updates(shelf)
	return result.RowsAffected, result.Error
}

// Remove deletes a shelf entry by id and returns the number of affected rows.
func (r *Repository) Remove(id uint) (int64, error) {
	result := r.db.Delete(&entities.Bookshelf{}, id)
	return result.RowsAffected, result.Error
}

// UpdateReadStatus sets only the read_status column.
func (r *Repository) UpdateReadStatus(id uint, readStatus int) (int64, error) {
	result := r.db.Model(&entities.Bookshelf{}).
		Where("id = ?", id).
		UpdateColumn("read_status", readStatus)
	return result.RowsAffected, result.Error
}

// UpdateRanking sets only the ranking column.
func (r *Repository) UpdateRanking(id uint, ranking int) (int64, error) {
	result := r.db.Model(&entities.Bookshelf{}).
		Where("id = ?", id).
		UpdateColumn("ranking", ranking)
	return result.RowsAffected, result.Error
}
