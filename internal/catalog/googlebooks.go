// Package catalog looks books up in the Google Books API and imports them
// into the local catalog.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/mrlokans/bookly/internal/apperr"
	"github.com/mrlokans/bookly/internal/config"
	"github.com/mrlokans/bookly/internal/entities"
)

const userAgent = "Bookly/1.0 (https://github.com/mrlokans/bookly)"

// ProviderError is a non-200 answer from the provider.
type ProviderError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("google books: %s returned %d", e.URL, e.StatusCode)
}

// SearchQuery is a free-text search narrowed by optional field filters.
type SearchQuery struct {
	Q        string
	InTitle  string
	InAuthor string
	ISBN     string
	Offset   int
}

// Terms builds the provider's q parameter. Filters are appended as
// "field:value" clauses after the free text, which defaults to "*". Clauses
// are space separated, so they travel as "+" once the URL is encoded.
func (q SearchQuery) Terms() string {
	terms := strings.TrimSpace(q.Q)
	if terms == "" {
		terms = "*"
	}
	if v := strings.TrimSpace(q.InTitle); v != "" {
		terms += " intitle:" + v
	}
	if v := strings.TrimSpace(q.InAuthor); v != "" {
		terms += " inauthor:" + v
	}
	if v := normalizeISBN(q.ISBN); v != "" {
		terms += " isbn:" + v
	}
	return terms
}

// Key identifies the query for caching. Equivalent queries share a key.
func (q SearchQuery) Key() string {
	return strings.ToLower(q.Terms()) + "|" + strconv.Itoa(q.Offset)
}

// GoogleBooksClient fetches volumes from the Google Books API.
type GoogleBooksClient struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	rateLimiter *rate.Limiter
}

func NewGoogleBooksClient(cfg config.GoogleBooks) *GoogleBooksClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultGoogleBooksBaseURL
	}

	return &GoogleBooksClient{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      cfg.APIKey,
		rateLimiter: newLimiter(cfg.RatePerSecond),
	}
}

// newLimiter allows rps requests per second with a matching burst. A
// non-positive rate disables limiting.
func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := int(math.Ceil(rps))
	return rate.NewLimiter(rate.Limit(rps), burst)
}

type volumeList struct {
	TotalItems int      `json:"totalItems"`
	Items      []volume `json:"items"`
}

type volume struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title               string      `json:"title"`
	Authors             []string    `json:"authors"`
	Description         string      `json:"description"`
	ImageLinks          *imageLinks `json:"imageLinks"`
	CanonicalVolumeLink string      `json:"canonicalVolumeLink"`
}

type imageLinks struct {
	Thumbnail string `json:"thumbnail"`
}

func (v volume) toBook() entities.Book {
	info := v.VolumeInfo
	book := entities.Book{
		ID:          v.ID,
		Title:       info.Title,
		Authors:     info.Authors,
		Description: info.Description,
		Link:        info.CanonicalVolumeLink,
	}
	if book.Authors == nil {
		book.Authors = []string{}
	}
	if info.ImageLinks != nil {
		book.Cover = info.ImageLinks.Thumbnail
	}
	return book
}

// Volume fetches a single volume by its provider id.
func (c *GoogleBooksClient) Volume(ctx context.Context, id string) (*entities.Book, error) {
	endpoint := fmt.Sprintf("%s/volumes/%s", c.baseURL, url.PathEscape(id))
	if c.apiKey != "" {
		endpoint += "?" + url.Values{"key": {c.apiKey}}.Encode()
	}

	var v volume
	if err := c.get(ctx, endpoint, &v); err != nil {
		return nil, err
	}
	if v.ID == "" {
		v.ID = id
	}

	book := v.toBook()
	return &book, nil
}

// Search runs q against the provider. An empty page is reported as a
// BadRequest, not a transport failure.
func (c *GoogleBooksClient) Search(ctx context.Context, q SearchQuery) ([]entities.Book, error) {
	params := url.Values{}
	params.Set("q", q.Terms())
	params.Set("startIndex", strconv.Itoa(max(q.Offset, 0)))
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	endpoint := c.baseURL + "/volumes?" + params.Encode()

	var list volumeList
	if err := c.get(ctx, endpoint, &list); err != nil {
		return nil, err
	}
	if len(list.Items) == 0 {
		return nil, apperr.BadRequest("no results found")
	}

	books := make([]entities.Book, 0, len(list.Items))
	for _, item := range list.Items {
		books = append(books, item.toBook())
	}
	return books, nil
}

func (c *GoogleBooksClient) get(ctx context.Context, endpoint string, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("google books request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &ProviderError{
			StatusCode: resp.StatusCode,
			URL:        redactKey(endpoint),
			Body:       string(body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// redactKey keeps the API key out of error messages and logs.
func redactKey(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return endpoint
	}
	q := u.Query()
	if q.Has("key") {
		q.Set("key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// normalizeISBN strips separators from an ISBN-10 or ISBN-13. Anything
// else is returned trimmed as given.
func normalizeISBN(isbn string) string {
	isbn = strings.TrimSpace(isbn)
	compact := strings.NewReplacer("-", "", " ", "").Replace(isbn)
	if len(compact) == 10 || len(compact) == 13 {
		return compact
	}
	return isbn
}
