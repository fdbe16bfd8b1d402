package reviews

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shelfwise/bookshelf/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := "./test_reviews_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{}, &entities.Book{}, &entities.Review{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, repo, cleanup
}

func createFixtures(t *testing.T, db *gorm.DB) (*entities.User, *entities.Book) {
	user := &entities.User{Username: "reviewer", Nickname: "书虫", Role: entities.RoleRegular}
	require.NoError(t, db.Create(user).Error)
	book := &entities.Book{Title: "活着", Author: "余华", ISBN: "9787506365437"}
	require.NoError(t, db.Create(book).Error)
	return user, book
}

func addReview(t *testing.T, repo *Repository, userID, bookID uint, title string) *entities.Review {
	review := &entities.Review{
		UserID:  userID,
		BookID:  bookID,
		Title:   title,
		Content: "content of " + title,
	}
	_, err := repo.Add(review)
	require.NoError(t, err)
	return review
}

func TestRepository_FindJoinsBookAndReviewer(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user, book := createFixtures(t, db)
	review := addReview(t, repo, user.ID, book.ID, "震撼")

	row, err := repo.Find(review.ID)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "震撼", row.Title)
	assert.Equal(t, "活着", row.BookTitle)
	assert.Equal(t, "余华", row.Author)
	assert.Equal(t, "reviewer", row.Username)
	assert.Equal(t, "书虫", row.Nickname)
	assert.Zero(t, row.Useful)
}

func TestRepository_FindSurvivesDeletedJoins(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user, book := createFixtures(t, db)
	review := addReview(t, repo, user.ID, book.ID, "orphaned")

	require.NoError(t, db.Delete(&entities.Book{}, book.ID).Error)
	require.NoError(t, db.Delete(&entities.User{}, user.ID).Error)

	row, err := repo.Find(review.ID)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "orphaned", row.Title)
	assert.Empty(t, row.BookTitle)
	assert.Empty(t, row.Username)
}

func TestRepository_FindAll(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user, book := createFixtures(t, db)
	other := &entities.Book{Title: "other", ISBN: "0"}
	require.NoError(t, db.Create(other).Error)

	first := addReview(t, repo, user.ID, book.ID, "first")
	addReview(t, repo, user.ID, book.ID, "second")
	addReview(t, repo, user.ID, other.ID, "elsewhere")

	_, err := repo.IncrementUseful(first.ID)
	require.NoError(t, err)

	rows, err := repo.FindAll(book.ID, "", "", -1, -1)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "second", rows[0].Title) // id desc default

	rows, err = repo.FindAll(book.ID, "useful", "desc", -1, -1)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "first", rows[0].Title)

	rows, err = repo.FindAll(book.ID, "id", "asc", 1, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "second", rows[0].Title)
}

func TestOrderClauseAllowList(t *testing.T) {
	assert.Equal(t, "a.id desc", OrderClause("", ""))
	assert.Equal(t, "a.useful asc", OrderClause("useful", "asc"))
	assert.Equal(t, "a.useful desc", OrderClause("useful", "DROP"))
	assert.Equal(t, "a.id asc", OrderClause("book_title", "asc"))
}

func TestRepository_UpdateAndRemove(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user, book := createFixtures(t, db)
	review := addReview(t, repo, user.ID, book.ID, "draft")

	review.Title = "final"
	review.Content = "rewritten"
	affected, err := repo.Update(review)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	row, err := repo.Find(review.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", row.Title)
	assert.Equal(t, "rewritten", row.Content)

	affected, err = repo.Update(&entities.Review{ID: 9999, Title: "ghost"})
	require.NoError(t, err)
	assert.Zero(t, affected)

	affected, err = repo.Remove(review.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	row, err = repo.Find(review.ID)
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestRepository_CountersIncrementExactly(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user, book := createFixtures(t, db)
	review := addReview(t, repo, user.ID, book.ID, "counted")

	for i := 0; i < 5; i++ {
		affected, err := repo.IncrementUseful(review.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)
	}
	for i := 0; i < 2; i++ {
		_, err := repo.IncrementUseless(review.ID)
		require.NoError(t, err)
	}

	row, err := repo.Find(review.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, row.Useful)
	assert.Equal(t, 2, row.Useless)

	affected, err := repo.IncrementUseful(9999)
	require.NoError(t, err)
	assert.Zero(t, affected)
}
