package http

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookly/internal/apperr"
	"github.com/mrlokans/bookly/internal/catalog"
	"github.com/mrlokans/bookly/internal/entities"
)

func TestSearchController(t *testing.T) {
	t.Run("passes filters through", func(t *testing.T) {
		s := newTestServer(t)
		s.search.books = []entities.Book{{ID: "v1", Title: "Dune", Authors: []string{"Frank Herbert"}}}

		w := s.do(http.MethodGet, "/search?q=spice&intitle=dune&inauthor=herbert&isbn=978-0-441-17271-9&offset=20", "", nil)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, catalog.SearchQuery{
			Q:        "spice",
			InTitle:  "dune",
			InAuthor: "herbert",
			ISBN:     "978-0-441-17271-9",
			Offset:   20,
		}, s.search.last)

		var resp struct {
			Books []entities.Book `json:"books"`
		}
		decodeBody(t, w, &resp)
		require.Len(t, resp.Books, 1)
		assert.Equal(t, "Dune", resp.Books[0].Title)
	})

	t.Run("no results is 400", func(t *testing.T) {
		s := newTestServer(t)
		s.search.err = apperr.BadRequest("no results found")

		w := s.do(http.MethodGet, "/search?q=zzzz", "", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "no results found", errorBodyOf(t, w).Message)
	})

	t.Run("invalid parameters are 400", func(t *testing.T) {
		s := newTestServer(t)

		for _, query := range []string{"isbn=123", "offset=-1", "offset=abc"} {
			w := s.do(http.MethodGet, "/search?"+query, "", nil)
			assert.Equal(t, http.StatusBadRequest, w.Code, query)
		}
	})

	t.Run("provider failure is a generic 500", func(t *testing.T) {
		s := newTestServer(t)
		s.search.err = &catalog.ProviderError{StatusCode: http.StatusServiceUnavailable, URL: "/volumes"}

		w := s.do(http.MethodGet, "/search?q=x", "", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "internal server error", errorBodyOf(t, w).Message)
	})

	t.Run("transport failure is a generic 500", func(t *testing.T) {
		s := newTestServer(t)
		s.search.err = errors.New("dial tcp: connection refused")

		w := s.do(http.MethodGet, "/search?q=x", "", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
