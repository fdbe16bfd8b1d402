package http

import (
	"fmt"
	"net/http"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (ts *testServer) review(t *testing.T, cookie string, bookID uint, title string) uint {
	t.Helper()
	_, env := ts.do(t, http.MethodPost, "/reviews", cookie, gin.H{
		"book_id": bookID,
		"title":   title,
		"content": "值得一读",
	})
	require.Equal(t, http.StatusCreated, env.Code)
	return uint(env.Data.(map[string]any)["id"].(float64))
}

func TestReviewsCreateAndGetJoinsBookAndReviewer(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t, "liping", "secret")
	cookie := ts.login(t, "liping", "secret")

	bookID := ts.createBook(t, cookie, gin.H{"title": "活着", "author": "余华"})
	reviewID := ts.review(t, cookie, bookID, "平凡中的力量")

	_, env := ts.do(t, http.MethodGet, "/reviews/"+strconv.Itoa(int(reviewID)), cookie, nil)
	require.Equal(t, http.StatusOK, env.Code)
	data := env.Data.(map[string]any)
	assert.Equal(t, "平凡中的力量", data["title"])
	assert.Equal(t, "活着", data["book_title"])
	assert.Equal(t, "liping", data["username"])
	assert.Equal(t, float64(0), data["useful"])
}

func TestReviewsCreateValidation(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t, "liping", "secret")
	cookie := ts.login(t, "liping", "secret")

	_, env := ts.do(t, http.MethodPost, "/reviews", cookie, gin.H{"title": "缺书"})
	assert.Equal(t, http.StatusBadRequest, env.Code)

	bookID := ts.createBook(t, cookie, gin.H{"title": "活着"})
	_, env = ts.do(t, http.MethodPost, "/reviews", cookie, gin.H{"book_id": bookID})
	assert.Equal(t, http.StatusBadRequest, env.Code)
	assert.Equal(t, "book_id and title are required", env.Message)
}

func TestReviewsListRequiresBookID(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t, "liping", "secret")
	cookie := ts.login(t, "liping", "secret")

	_, env := ts.do(t, http.MethodGet, "/reviews", cookie, nil)
	assert.Equal(t, http.StatusBadRequest, env.Code)
	assert.Equal(t, "book_id is required", env.Message)
}

func TestReviewsListFiltersByBook(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t, "liping", "secret")
	cookie := ts.login(t, "liping", "secret")

	first := ts.createBook(t, cookie, gin.H{"title": "活着"})
	second := ts.createBook(t, cookie, gin.H{"title": "三体"})
	ts.review(t, cookie, first, "第一篇")
	ts.review(t, cookie, first, "第二篇")
	ts.review(t, cookie, second, "别的书")

	_, env := ts.do(t, http.MethodGet, fmt.Sprintf("/reviews?book_id=%d", first), cookie, nil)
	require.Equal(t, http.StatusOK, env.Code)
	rows := env.Data.([]any)
	require.Len(t, rows, 2)
	// newest first by default
	assert.Equal(t, "第二篇", rows[0].(map[string]any)["title"])
}

func TestReviewsUpdateAndDelete(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t, "liping", "secret")
	cookie := ts.login(t, "liping", "secret")

	bookID := ts.createBook(t, cookie, gin.H{"title": "活着"})
	reviewID := ts.review(t, cookie, bookID, "初稿")
	target := "/reviews/" + strconv.Itoa(int(reviewID))

	_, env := ts.do(t, http.MethodPut, target, cookie, gin.H{"title": "定稿", "content": "改过了"})
	require.Equal(t, http.StatusOK, env.Code)
	assert.Equal(t, float64(1), env.Data.(map[string]any)["changes"])

	_, env = ts.do(t, http.MethodGet, target, cookie, nil)
	assert.Equal(t, "定稿", env.Data.(map[string]any)["title"])

	_, env = ts.do(t, http.MethodDelete, target, cookie, nil)
	assert.Equal(t, http.StatusNoContent, env.Code)

	_, env = ts.do(t, http.MethodGet, target, cookie, nil)
	assert.Equal(t, []any{}, env.Data)
}

func TestReviewsUsefulCounters(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t, "liping", "secret")
	cookie := ts.login(t, "liping", "secret")

	bookID := ts.createBook(t, cookie, gin.H{"title": "活着"})
	reviewID := ts.review(t, cookie, bookID, "好书")
	id := strconv.Itoa(int(reviewID))

	for i := 0; i < 3; i++ {
		_, env := ts.do(t, http.MethodPatch, "/reviews/useful/"+id, cookie, nil)
		require.Equal(t, http.StatusOK, env.Code)
		assert.Equal(t, float64(1), env.Data.(map[string]any)["changes"])
	}
	_, env := ts.do(t, http.MethodPatch, "/reviews/useless/"+id, cookie, nil)
	require.Equal(t, http.StatusOK, env.Code)

	_, env = ts.do(t, http.MethodGet, "/reviews/"+id, cookie, nil)
	data := env.Data.(map[string]any)
	assert.Equal(t, float64(3), data["useful"])
	assert.Equal(t, float64(1), data["useless"])

	// missing id is zero changes, not an error
	_, env = ts.do(t, http.MethodPatch, "/reviews/useful/9999", cookie, nil)
	assert.Equal(t, http.StatusOK, env.Code)
	assert.Equal(t, float64(0), env.Data.(map[string]any)["changes"])
}
