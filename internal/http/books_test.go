package http

import (
	"errors"
	"net/http"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/bookshelf/internal/metadata"
)

func (ts *testServer) createBook(t *testing.T, cookie string, fields gin.H) uint {
	t.Helper()
	_, env := ts.do(t, http.MethodPost, "/books", cookie, fields)
	require.Equal(t, http.StatusCreated, env.Code)
	return uint(env.Data.(map[string]any)["id"].(float64))
}

func TestBooksCreateAndGet(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t, "reader", "secret")
	cookie := ts.login(t, "reader", "secret")

	id := ts.createBook(t, cookie, gin.H{
		"title":  "三体",
		"author": "刘慈欣",
		"isbn":   "9787536692930",
	})

	_, env := ts.do(t, http.MethodGet, "/books/"+strconv.Itoa(int(id)), cookie, nil)
	require.Equal(t, http.StatusOK, env.Code)
	data := env.Data.(map[string]any)
	assert.Equal(t, "三体", data["title"])
	assert.Equal(t, "刘慈欣", data["author"])
	assert.NotZero(t, data["created_time"])
}

func TestBooksCreateRequiresTitle(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t, "reader", "secret")
	cookie := ts.login(t, "reader", "secret")

	_, env := ts.do(t, http.MethodPost, "/books", cookie, gin.H{"author": "佚名"})
	assert.Equal(t, http.StatusBadRequest, env.Code)
	assert.Equal(t, "title is required", env.Message)
}

func TestBooksGetByISBN(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t, "reader", "secret")
	cookie := ts.login(t, "reader", "secret")

	ts.createBook(t, cookie, gin.H{"title": "活着", "isbn": "9787506365437"})

	_, env := ts.do(t, http.MethodGet, "/books/isbn/9787506365437", cookie, nil)
	require.Equal(t, http.StatusOK, env.Code)
	assert.Equal(t, "活着", env.Data.(map[string]any)["title"])

	_, env = ts.do(t, http.MethodGet, "/books/isbn/0000000000000", cookie, nil)
	assert.Equal(t, http.StatusOK, env.Code)
	assert.Equal(t, []any{}, env.Data)
}

func TestBooksListAndSearch(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t, "reader", "secret")
	cookie := ts.login(t, "reader", "secret")

	for _, title := range []string{"三体", "三体II", "活着"} {
		ts.createBook(t, cookie, gin.H{"title": title})
	}

	_, env := ts.do(t, http.MethodGet, "/books", cookie, nil)
	require.Equal(t, http.StatusOK, env.Code)
	assert.Len(t, env.Data.([]any), 3)

	_, env = ts.do(t, http.MethodGet, "/books?limit=2&offset=1", cookie, nil)
	require.Equal(t, http.StatusOK, env.Code)
	assert.Len(t, env.Data.([]any), 2)

	_, env = ts.do(t, http.MethodGet, "/books/search?q=三体", cookie, nil)
	require.Equal(t, http.StatusOK, env.Code)
	assert.Len(t, env.Data.([]any), 2)
}

func TestBooksUpdateAndDelete(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t, "reader", "secret")
	cookie := ts.login(t, "reader", "secret")

	id := ts.createBook(t, cookie, gin.H{"title": "初稿"})
	target := "/books/" + strconv.Itoa(int(id))

	_, env := ts.do(t, http.MethodPut, target, cookie, gin.H{"title": "定稿", "publisher": "人民文学出版社"})
	require.Equal(t, http.StatusOK, env.Code)
	assert.Equal(t, float64(1), env.Data.(map[string]any)["changes"])

	_, env = ts.do(t, http.MethodGet, target, cookie, nil)
	assert.Equal(t, "定稿", env.Data.(map[string]any)["title"])

	_, env = ts.do(t, http.MethodDelete, target, cookie, nil)
	assert.Equal(t, http.StatusNoContent, env.Code)
	assert.Equal(t, float64(1), env.Data.(map[string]any)["changes"])
}

func TestBooksFetchReturnsInfoWithoutPersisting(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t, "reader", "secret")
	cookie := ts.login(t, "reader", "secret")

	ts.fetcher.info = &metadata.BookInfo{
		Title:     "三体",
		Author:    "刘慈欣",
		Publisher: "重庆出版社",
		ISBN:      "9787536692930",
	}

	_, env := ts.do(t, http.MethodGet, "/books/fetch/9787536692930", cookie, nil)
	require.Equal(t, http.StatusOK, env.Code)
	data := env.Data.(map[string]any)
	assert.Equal(t, "三体", data["title"])
	assert.Equal(t, "重庆出版社", data["publisher"])

	// fetching never writes to the catalogue
	_, env = ts.do(t, http.MethodGet, "/books", cookie, nil)
	assert.Len(t, env.Data.([]any), 0)
}

func TestBooksFetchFailure(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t, "reader", "secret")
	cookie := ts.login(t, "reader", "secret")

	ts.fetcher.err = errors.New("douban: unexpected status 404")

	w, env := ts.do(t, http.MethodGet, "/books/fetch/404", cookie, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusBadRequest, env.Code)
	assert.Equal(t, "unable to fetch book info", env.Message)
}

func TestBooksBackfillDisabled(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.loginAdmin(t)

	_, env := ts.do(t, http.MethodPost, "/books/backfill", admin, nil)
	assert.Equal(t, http.StatusBadRequest, env.Code)
	assert.Equal(t, "background tasks are disabled", env.Message)
}

func TestBooksBackfillRequiresAdmin(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t, "reader", "secret")
	cookie := ts.login(t, "reader", "secret")

	_, env := ts.do(t, http.MethodPost, "/books/backfill", cookie, nil)
	assert.Equal(t, http.StatusForbidden, env.Code)
}
