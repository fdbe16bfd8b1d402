// Package database opens the sqlite store, runs migrations and seeds the
// built-in administrator account.
package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shelfwise/bookshelf/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate all entities
	err = db.AutoMigrate(
		&entities.User{},
		&entities.Book{},
		&entities.Bookshelf{},
		&entities.Review{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SeedAdmin creates the administrator account if no user with the given
// username exists yet. The digest is pre-hashed by the caller.
func (d *Database) SeedAdmin(username, digest string) error {
	var existing entities.User
	result := d.DB.Where("username = ?", username).First(&existing)
	if result.Error == nil {
		return nil
	}
	if result.Error != gorm.ErrRecordNotFound {
		return result.Error
	}

	now := entities.NowMillis()
	admin := entities.User{
		Username:    username,
		Password:    digest,
		Nickname:    "系统管理员",
		Truename:    "管理员1",
		Avatar:      "./images/default.png",
		Role:        entities.RoleAdmin,
		LastLoginIP: "never login",
		CreatedTime: now,
		CreatedIP:   "system init",
		UpdatedTime: now,
	}
	if err := d.DB.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	log.Printf("Created admin user: %s", username)
	return nil
}
