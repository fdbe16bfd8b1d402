package http

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (ts *testServer) shelve(t *testing.T, cookie string, bookID uint) uint {
	t.Helper()
	_, env := ts.do(t, http.MethodPost, "/bookshelves", cookie, gin.H{"book_id": bookID})
	require.Equal(t, http.StatusCreated, env.Code)
	return uint(env.Data.(map[string]any)["id"].(float64))
}

func TestBookshelvesCreateAndGetJoinsBook(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t, "reader", "secret")
	cookie := ts.login(t, "reader", "secret")

	bookID := ts.createBook(t, cookie, gin.H{"title": "三体", "author": "刘慈欣"})
	shelfID := ts.shelve(t, cookie, bookID)

	_, env := ts.do(t, http.MethodGet, "/bookshelves/"+strconv.Itoa(int(shelfID)), cookie, nil)
	require.Equal(t, http.StatusOK, env.Code)
	data := env.Data.(map[string]any)
	assert.Equal(t, "三体", data["title"])
	assert.Equal(t, "刘慈欣", data["author"])
	assert.Equal(t, float64(0), data["read_status"])
	assert.Equal(t, float64(0), data["ranking"])
}

func TestBookshelvesCreateRequiresBookID(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t, "reader", "secret")
	cookie := ts.login(t, "reader", "secret")

	_, env := ts.do(t, http.MethodPost, "/bookshelves", cookie, gin.H{})
	assert.Equal(t, http.StatusBadRequest, env.Code)
	assert.Equal(t, "book_id is required", env.Message)
}

func TestBookshelvesOwnerScoping(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t, "owner", "secret")
	ts.register(t, "intruder", "secret")
	ownerCookie := ts.login(t, "owner", "secret")
	intruderCookie := ts.login(t, "intruder", "secret")

	bookID := ts.createBook(t, ownerCookie, gin.H{"title": "活着"})
	shelfID := ts.shelve(t, ownerCookie, bookID)
	target := "/bookshelves/" + strconv.Itoa(int(shelfID))

	// someone else's entry reads as empty, not as an error
	_, env := ts.do(t, http.MethodGet, target, intruderCookie, nil)
	assert.Equal(t, http.StatusOK, env.Code)
	assert.Equal(t, []any{}, env.Data)

	_, env = ts.do(t, http.MethodGet, "/bookshelves", intruderCookie, nil)
	assert.Len(t, env.Data.([]any), 0)

	_, env = ts.do(t, http.MethodGet, "/bookshelves", ownerCookie, nil)
	assert.Len(t, env.Data.([]any), 1)
}

func TestBookshelvesListOrdering(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t, "reader", "secret")
	cookie := ts.login(t, "reader", "secret")

	for _, title := range []string{"甲", "乙", "丙"} {
		bookID := ts.createBook(t, cookie, gin.H{"title": title})
		ts.shelve(t, cookie, bookID)
	}

	// default order is newest first
	_, env := ts.do(t, http.MethodGet, "/bookshelves", cookie, nil)
	require.Equal(t, http.StatusOK, env.Code)
	rows := env.Data.([]any)
	require.Len(t, rows, 3)
	assert.Equal(t, "丙", rows[0].(map[string]any)["title"])

	_, env = ts.do(t, http.MethodGet, "/bookshelves?order_by=title&sort=asc", cookie, nil)
	rows = env.Data.([]any)
	assert.Equal(t, "丙", rows[0].(map[string]any)["title"]) // sorts by unicode code point
}

func TestBookshelvesUpdateValidatesState(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t, "reader", "secret")
	cookie := ts.login(t, "reader", "secret")

	bookID := ts.createBook(t, cookie, gin.H{"title": "三体"})
	shelfID := ts.shelve(t, cookie, bookID)
	target := "/bookshelves/" + strconv.Itoa(int(shelfID))

	_, env := ts.do(t, http.MethodPut, target, cookie, gin.H{"read_status": 3, "ranking": 9})
	require.Equal(t, http.StatusOK, env.Code)
	assert.Equal(t, float64(1), env.Data.(map[string]any)["changes"])

	_, env = ts.do(t, http.MethodPut, target, cookie, gin.H{"read_status": 4, "ranking": 9})
	assert.Equal(t, http.StatusBadRequest, env.Code)

	_, env = ts.do(t, http.MethodPut, target, cookie, gin.H{"read_status": 3, "ranking": 11})
	assert.Equal(t, http.StatusBadRequest, env.Code)

	_, env = ts.do(t, http.MethodGet, target, cookie, nil)
	data := env.Data.(map[string]any)
	assert.Equal(t, float64(3), data["read_status"])
	assert.Equal(t, float64(9), data["ranking"])
}

func TestBookshelvesPatchReadStatus(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t, "reader", "secret")
	cookie := ts.login(t, "reader", "secret")

	bookID := ts.createBook(t, cookie, gin.H{"title": "三体"})
	shelfID := ts.shelve(t, cookie, bookID)
	id := strconv.Itoa(int(shelfID))

	_, env := ts.do(t, http.MethodPatch, "/bookshelves/read_status/"+id, cookie, gin.H{"read_status": 2})
	require.Equal(t, http.StatusOK, env.Code)
	assert.Equal(t, float64(1), env.Data.(map[string]any)["changes"])

	_, env = ts.do(t, http.MethodPatch, "/bookshelves/read_status/"+id, cookie, gin.H{"read_status": 5})
	assert.Equal(t, http.StatusBadRequest, env.Code)
	assert.Equal(t, "read_status must be 0-3", env.Message)

	_, env = ts.do(t, http.MethodGet, "/bookshelves/"+id, cookie, nil)
	assert.Equal(t, float64(2), env.Data.(map[string]any)["read_status"])
}

func TestBookshelvesPatchRanking(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t, "reader", "secret")
	cookie := ts.login(t, "reader", "secret")

	bookID := ts.createBook(t, cookie, gin.H{"title": "三体"})
	shelfID := ts.shelve(t, cookie, bookID)
	id := strconv.Itoa(int(shelfID))

	_, env := ts.do(t, http.MethodPatch, "/bookshelves/ranking/"+id, cookie, gin.H{"ranking": 10})
	require.Equal(t, http.StatusOK, env.Code)

	_, env = ts.do(t, http.MethodPatch, "/bookshelves/ranking/"+id, cookie, gin.H{"ranking": 11})
	assert.Equal(t, http.StatusBadRequest, env.Code)
	assert.Equal(t, "ranking must be 0-10", env.Message)
}

func TestBookshelvesDelete(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t, "reader", "secret")
	cookie := ts.login(t, "reader", "secret")

	bookID := ts.createBook(t, cookie, gin.H{"title": "三体"})
	shelfID := ts.shelve(t, cookie, bookID)
	target := "/bookshelves/" + strconv.Itoa(int(shelfID))

	_, env := ts.do(t, http.MethodDelete, target, cookie, nil)
	assert.Equal(t, http.StatusNoContent, env.Code)
	assert.Equal(t, float64(1), env.Data.(map[string]any)["changes"])

	_, env = ts.do(t, http.MethodGet, target, cookie, nil)
	assert.Equal(t, []any{}, env.Data)
}
