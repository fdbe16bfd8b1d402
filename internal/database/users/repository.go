// Package users provides database operations for user accounts.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.Login(username, digest)
package users

import (
	"errors"

	"gorm.io/gorm"

	"github.com/shelfwise/bookshelf/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Find retrieves a user by ID. A missing row is not an error: it returns
// (nil, nil) so callers can answer with an empty result.
func (r *Repository) Find(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername retrieves a user by their unique username.
func (r *Repository) FindByUsername(username string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindAll lists users ordered by id. limit -1 means unbounded; offset -1
// means no skip and is only honoured when a limit is set.
func (r *Repository) FindAll(limit, offset int) ([]entities.User, error) {
	var users []entities.User
	query := r.db.Order("id")
	if limit != -1 {
		query = query.Limit(limit)
		if offset != -1 {
			query = query.Offset(offset)
		}
	}
	err := query.Find(&users).Error
	return users, err
}

// Search matches the query as a case-insensitive substring against username,
// nickname and truename.
func (r *Repository) Search(q string, limit int) ([]entities.User, error) {
	var users []entities.User
	pattern := "%" + q + "%"
	query := r.db.Where(
		"LOWER(username) LIKE LOWER(?) OR LOWER(nickname) LIKE LOWER(?) OR LOWER(truename) LIKE LOWER(?)",
		pattern, pattern, pattern,
	)
	if limit != -1 {
		query = query.Limit(limit)
	}
	err := query.Find(&users).Error
	return users, err
}

// Add inserts a user and returns the assigned id. Timestamps are stamped
// here when the caller left them zero; created_time is never touched again.
func (r *Repository) Add(user *entities.User) (uint, error) {
	if user.CreatedTime == 0 {
		now := entities.NowMillis()
		user.CreatedTime = now
		user.UpdatedTime = now
	}
	if err := r.db.Create(user).Error; err != nil {
		return 0, err
	}
	return user.ID, nil
}

// Update overwrites the profile fields of the user row identified by user.ID
// and refreshes updated_time. Returns the number of affected rows; 0 means
// the id did not exist.
func (r *Repository) Update(user *entities.User) (int64, error) {
	user.UpdatedTime = entities.NowMillis()
	result := r.db.Model(&entities.User{}).
		Where("id = ?", user.ID).
		Select("username", "password", "nickname", "truename", "avatar", "role", "updated_time").
		Updates(user)
	return result.RowsAffected, result.Error
}

// Remove hard-deletes a user by id and returns the number of affected rows.
func (r *Repository) Remove(id uint) (int64, error) {
	result := r.db.Delete(&entities.User{}, id)
	return result.RowsAffected, result.Error
}

// Login returns the user whose username and password digest both match, or
// nil when the credentials match no row.
func (r *Repository) Login(username, digest string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("username = ? AND password = ?", username, digest).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Touch stamps the last-login bookkeeping fields and increments login_count
// in a single statement.
func (r *Repository) Touch(username string, loginTime int64, ip string) (int64, error) {
	result := r.db.Model(&entities.User{}).
		Where("username = ?", username).
		UpdateColumns(map[string]interface{}{
			"last_login_time": loginTime,
			"last_login_ip":   ip,
			"login_count":     gorm.Expr("login_count + 1"),
		})
	return result.RowsAffected, result.Error
}
