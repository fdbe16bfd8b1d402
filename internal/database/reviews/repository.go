// Package reviews provides database operations for book reviews. Reads
// left-join book metadata and the reviewer's public identity into flat
// BookReview rows.
package reviews

import (
	"errors"

	"gorm.io/gorm"

	"github.com/shelfwise/bookshelf/internal/entities"
)

// The review's own title keeps the "title" alias; the book's title is
// exposed as book_title. Deleted books or users degrade to zero-valued
// joined columns, the review row itself always survives.
const selectColumns = `
	a.id AS id,
	a.book_id AS book_id,
	a.user_id AS user_id,
	a.title AS title,
	a.content AS content,
	a.useful AS useful,
	a.useless AS useless,
	a.created_time AS created_time,
	a.updated_time AS updated_time,
	b.title AS book_title,
	b.pic AS pic,
	b.author AS author,
	b.publisher AS publisher,
	b.translator AS translator,
	b.pubdate AS pubdate,
	b.pages AS pages,
	b.price AS price,
	b.binding AS binding,
	b.series AS series,
	b.isbn AS isbn,
	c.username AS username,
	c.nickname AS nickname`

var orderColumns = map[string]string{
	"id":           "a.id",
	"useful":       "a.useful",
	"useless":      "a.useless",
	"created_time": "a.created_time",
	"updated_time": "a.updated_time",
}

// OrderClause maps a requested order_by/sort pair through the allow-list,
// falling back to "a.id desc".
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

// Repository handles all review database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new reviews repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) joined() *gorm.DB {
	return r.db.Table("reviews AS a").
		Select(selectColumns).
		Joins("LEFT JOIN books AS b ON a.book_id = b.id").
		Joins("LEFT JOIN users AS c ON a.user_id = c.id")
}

// Find retrieves one review joined with its book and reviewer, returning
// (nil, nil) when no row matches.
func (r *Repository) Find(id uint) (*entities.BookReview, error) {
	var row entities.BookReview
	err := r.joined().Where("a.id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindAll lists a book's reviews joined with book and reviewer fields.
// limit -1 means unbounded; offset -1 means no skip and is only honoured
// with a limit.
func (r *Repository) FindAll(bookID uint, orderBy, sort string, limit, offset int) ([]entities.BookReview, error) {
	var rows []entities.BookReview
	query := r.joined().
		Where("a.book_id = ?", bookID).
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

// Add inserts a review and returns the assigned id. Counters start at zero;
// timestamps are stamped when left zero.
func (r *Repository) Add(review *entities.Review) (uint, error) {
	if review.CreatedTime == 0 {
		now := entities.NowMillis()
		review.CreatedTime = now
		review.UpdatedTime = now
	}
	if err := r.db.Create(review).Error; err != nil {
		return 0, err
	}
	return review.ID, nil
}

// Update overwrites title and content of the review identified by review.ID
// and refreshes updated_time. Returns the number of affected rows.
func (r *Repository) Update(review *entities.Review) (int64, error) {
	review.UpdatedTime = entities.NowMillis()
	result := r.db.Model(&entities.Review{}).
		Where("id = ?", review.ID).
		Select("title", "content", "updated_time").
		Updates(review)
	return result.RowsAffected, result.Error
}

// Remove deletes a review by id and returns the number of affected rows.
func (r *Repository) Remove(id uint) (int64, error) {
	result := r.db.Delete(&entities.Review{}, id)
	return result.RowsAffected, result.Error
}

// IncrementUseful bumps the useful counter by one. The increment happens in
// a single UPDATE statement, so concurrent callers each land exactly once.
func (r *Repository) IncrementUseful(id uint) (int64, error) {
	result := r.db.Model(&entities.Review{}).
		Where("id = ?", id).
		UpdateColumn("useful", gorm.Expr("useful + 1"))
	return result.RowsAffected, result.Error
}

// IncrementUseless bumps the useless counter by one.
func (r *Repository) IncrementUseless(id uint) (int64, error) {
	result := r.db.Model(&entities.Review{}).
		Where("id = ?", id).
		UpdateColumn("useless", gorm.Expr("useless + 1"))
	return result.RowsAffected, result.Error
}
