package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookly/internal/covers"
	"github.com/mrlokans/bookly/internal/database/books"
	"github.com/mrlokans/bookly/internal/entities"
)

func TestBooksController(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "u1")

	t.Run("adding requires an identity", func(t *testing.T) {
		w := s.do(http.MethodPost, "/books", "", gin.H{"id": "x", "title": "X"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("adds a local book", func(t *testing.T) {
		w := s.do(http.MethodPost, "/books", token, gin.H{
			"id":      "local-1",
			"title":   "Zen and the Art",
			"authors": []string{"Pirsig, Robert M."},
			"link":    "https://example.com/zen",
		})

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var resp struct {
			Book entities.Book `json:"book"`
		}
		decodeBody(t, w, &resp)
		assert.Equal(t, []string{"Pirsig, Robert M."}, resp.Book.Authors)
	})

	t.Run("duplicate id is 400", func(t *testing.T) {
		w := s.do(http.MethodPost, "/books", token, gin.H{"id": "local-1", "title": "Again"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "book local-1 already in catalog", errorBodyOf(t, w).Message)
	})

	t.Run("invalid link is 400", func(t *testing.T) {
		w := s.do(http.MethodPost, "/books", token, gin.H{"id": "local-2", "title": "T", "link": "not a url"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("lists books by title", func(t *testing.T) {
		w := s.do(http.MethodPost, "/books", token, gin.H{"id": "local-3", "title": "Animal Farm"})
		require.Equal(t, http.StatusCreated, w.Code)

		w = s.do(http.MethodGet, "/books", "", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Books []books.BookSummary `json:"books"`
		}
		decodeBody(t, w, &resp)
		require.Len(t, resp.Books, 2)
		assert.Equal(t, "Animal Farm", resp.Books[0].Title)
		assert.Equal(t, "Zen and the Art", resp.Books[1].Title)
	})

	t.Run("get", func(t *testing.T) {
		w := s.do(http.MethodGet, "/books/local-1", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = s.do(http.MethodGet, "/books/nope", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBooksController_Cover(t *testing.T) {
	image := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpeg bytes"))
	}))
	defer image.Close()

	s := newTestServer(t)
	bookRepo := books.NewRepository(s.db.DB)
	ctx := context.Background()
	_, err := bookRepo.AddBook(ctx, &entities.Book{ID: "with-cover", Title: "A", Cover: image.URL + "/a.jpg"})
	require.NoError(t, err)
	_, err = bookRepo.AddBook(ctx, &entities.Book{ID: "no-cover", Title: "B"})
	require.NoError(t, err)
	_, err = bookRepo.AddBook(ctx, &entities.Book{ID: "dead-cover", Title: "C", Cover: image.URL + "/missing"})
	require.NoError(t, err)

	t.Run("redirects without a cache", func(t *testing.T) {
		w := s.do(http.MethodGet, "/books/with-cover/cover", "", nil)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, image.URL+"/a.jpg", w.Header().Get("Location"))
	})

	coverCache, err := covers.NewCache(t.TempDir())
	require.NoError(t, err)
	s.router = NewRouter(RouterConfig{Books: bookRepo, Covers: coverCache, Tokens: s.tokens})

	t.Run("serves the cached file", func(t *testing.T) {
		w := s.do(http.MethodGet, "/books/with-cover/cover", "", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "jpeg bytes", w.Body.String())
		assert.Equal(t, "public, max-age=86400", w.Header().Get("Cache-Control"))
	})

	t.Run("book without cover is 404", func(t *testing.T) {
		w := s.do(http.MethodGet, "/books/no-cover/cover", "", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "book has no cover", errorBodyOf(t, w).Message)
	})

	t.Run("unknown book is 404", func(t *testing.T) {
		w := s.do(http.MethodGet, "/books/nope/cover", "", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unreachable cover is 502", func(t *testing.T) {
		w := s.do(http.MethodGet, "/books/dead-cover/cover", "", nil)

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}
