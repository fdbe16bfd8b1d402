package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<body>
<div id="wrapper">
  <h1><span property="v:itemreviewed">三体</span></h1>
  <div id="mainpic"><a><img src="https://img1.example.com/s2768378.jpg" title="三体"/></a></div>
  <div id="info">
    <span><span class="pl">作者</span>: <a href="/author/liucixin">刘慈欣</a></span><br/>
    <span class="pl">出版社:</span> 重庆出版社<br/>
    <span class="pl">出版年:</span> 2008<br/>
    <span class="pl">页数:</span> 302<br/>
    <span class="pl">定价:</span> 23.00元<br/>
    <span class="pl">装帧:</span> 平装<br/>
    <span class="pl">ISBN:</span> 9787536692930<br/>
  </div>
</body>
</html>`

func TestFetchByISBN(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/isbn/9787536692930", r.URL.Path)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(samplePage))
	}))
	defer server.Close()

	client := NewDoubanClient(server.URL, 5*time.Second)
	info, err := client.FetchByISBN(context.Background(), "9787536692930")
	require.NoError(t, err)

	assert.Equal(t, "三体", info.Title)
	assert.Equal(t, "https://img1.example.com/s2768378.jpg", info.Pic)
	assert.Equal(t, "刘慈欣", info.Author)
	assert.Equal(t, "重庆出版社", info.Publisher)
	assert.Equal(t, "2008", info.Pubdate)
	assert.Equal(t, "302", info.Pages)
	assert.Equal(t, "23.00元", info.Price)
	assert.Equal(t, "平装", info.Binding)
	assert.Equal(t, "9787536692930", info.ISBN)
	assert.Empty(t, info.Translator)
}

func TestFetchByISBNRejectsEmptyISBN(t *testing.T) {
	client := NewDoubanClient("", 0)
	_, err := client.FetchByISBN(context.Background(), "  ")
	assert.Error(t, err)
}

func TestFetchByISBNUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewDoubanClient(server.URL, 5*time.Second)
	_, err := client.FetchByISBN(context.Background(), "0000000000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}

func TestRateLimiterSpacesCalls(t *testing.T) {
	rl := newRateLimiter(50 * time.Millisecond)

	start := time.Now()
	rl.wait()
	rl.wait()
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
}
