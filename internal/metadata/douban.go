// Package metadata fetches book information from douban's book pages by ISBN
// and extracts the structured fields the library stores.
package metadata

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// douban page selectors
const (
	titleSelector = "#wrapper h1 span"
	picSelector   = "#mainpic img"
	infoSelector  = "#info"
)

// BookInfo is the scraped record. All fields stay freeform strings exactly as
// the page prints them; it is never persisted here, the caller decides.
type BookInfo struct {
	Title      string `json:"title"`
	Pic        string `json:"pic"`
	Author     string `json:"author"`
	Publisher  string `json:"publisher"`
	Translator string `json:"translator"`
	Pubdate    string `json:"pubdate"`
	Pages      string `json:"pages"`
	Price      string `json:"price"`
	Binding    string `json:"binding"`
	Series     string `json:"series"`
	ISBN       string `json:"isbn"`
}

// DoubanClient fetches book pages from douban with rate limiting.
type DoubanClient struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rateLimiter
}

type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval}
}

func (r *rateLimiter) wait() {
	r.mu.Lock()
	defer r.mu.Unlock()

	since := time.Since(r.lastCall)
	if since < r.interval {
		time.Sleep(r.interval - since)
	}
	r.lastCall = time.Now()
}

// NewDoubanClient creates a douban client. An empty baseURL or zero timeout
// fall back to the public site and 10 seconds.
func NewDoubanClient(baseURL string, timeout time.Duration) *DoubanClient {
	if baseURL == "" {
		baseURL = "https://book.douban.com"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &DoubanClient{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     strings.TrimRight(baseURL, "/"),
		rateLimiter: newRateLimiter(time.Second), // 1 request per second
	}
}

// FetchByISBN retrieves and parses the book page for an ISBN.
func (c *DoubanClient) FetchByISBN(ctx context.Context, isbn string) (*BookInfo, error) {
	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return nil, fmt.Errorf("isbn is required")
	}

	c.rateLimiter.wait()

	url := fmt.Sprintf("%s/isbn/%s", c.baseURL, isbn)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; bookshelf/1.0)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch book page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse book page: %w", err)
	}

	return ParseDocument(doc), nil
}

// ParseDocument pulls the book fields out of a douban book page.
func ParseDocument(doc *goquery.Document) *BookInfo {
	info := &BookInfo{}
	info.Title = strings.TrimSpace(doc.Find(titleSelector).First().Text())
	info.Pic, _ = doc.Find(picSelector).First().Attr("src")
	ExtractInfo(info, doc.Find(infoSelector).Text())
	return info
}
