package http

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookly/internal/database/lists"
	"github.com/mrlokans/bookly/internal/entities"
)

func TestListsController_Create(t *testing.T) {
	t.Run("owner is always the caller", func(t *testing.T) {
		s := newTestServer(t)
		token := s.register(t, "u1")

		w := s.do(http.MethodPost, "/lists", token, gin.H{
			"username":    "someone-else",
			"title":       "T",
			"description": "D",
		})

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var resp struct {
			List entities.ReadingList `json:"list"`
		}
		decodeBody(t, w, &resp)
		assert.Equal(t, "u1", resp.List.Username)
		assert.Equal(t, "T", resp.List.Title)
		require.NotNil(t, resp.List.Description)
		assert.Equal(t, "D", *resp.List.Description)
	})

	t.Run("requires an identity", func(t *testing.T) {
		s := newTestServer(t)

		w := s.do(http.MethodPost, "/lists", "", gin.H{"title": "T"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token of a deleted account cannot create lists", func(t *testing.T) {
		s := newTestServer(t)
		token := s.register(t, "u1")
		w := s.do(http.MethodDelete, "/users/u1", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = s.do(http.MethodPost, "/lists", token, gin.H{"title": "T"})

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "no such user", errorBodyOf(t, w).Message)

		var count int64
		require.NoError(t, s.db.DB.Model(&entities.ReadingList{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("invalid token counts as no identity", func(t *testing.T) {
		s := newTestServer(t)

		w := s.do(http.MethodPost, "/lists", "not-a-token", gin.H{"title": "T"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("title is required", func(t *testing.T) {
		s := newTestServer(t)
		token := s.register(t, "u1")

		w := s.do(http.MethodPost, "/lists", token, gin.H{"description": "no title"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, []any{"title: cannot be blank"}, errorBodyOf(t, w).Message)
	})
}

func TestListsController_GetAll(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "u1")
	first := s.createList(t, token, "first")
	second := s.createList(t, token, "second")

	w := s.do(http.MethodGet, "/lists", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Lists []entities.ReadingList `json:"lists"`
	}
	decodeBody(t, w, &resp)
	require.Len(t, resp.Lists, 2)
	assert.Equal(t, second, resp.Lists[0].ID)
	assert.Equal(t, first, resp.Lists[1].ID)
}

func TestListsController_GetByUser(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "u1")
	s.createList(t, token, "mine")

	w := s.do(http.MethodGet, "/lists/user/u1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Lists []lists.ListSummary `json:"lists"`
	}
	decodeBody(t, w, &resp)
	require.Len(t, resp.Lists, 1)
	assert.Equal(t, "mine", resp.Lists[0].Title)

	w = s.do(http.MethodGet, "/lists/user/nobody", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"lists":[]}`, w.Body.String())
}

func TestListsController_Get(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "u1")
	listID := s.createList(t, token, "T")

	t.Run("new list has empty books and reviews", func(t *testing.T) {
		w := s.do(http.MethodGet, fmt.Sprintf("/lists/%d", listID), token, nil)

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			List map[string]any `json:"list"`
		}
		decodeBody(t, w, &resp)
		assert.Equal(t, []any{}, resp.List["books"])
		assert.Equal(t, []any{}, resp.List["reviews"])
	})

	t.Run("non-numeric id is 400", func(t *testing.T) {
		w := s.do(http.MethodGet, "/lists/abc", token, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing list is 404", func(t *testing.T) {
		w := s.do(http.MethodGet, "/lists/999", token, nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestListsController_Update(t *testing.T) {
	s := newTestServer(t)
	owner := s.register(t, "u1")
	other := s.register(t, "u2")
	listID := s.createList(t, owner, "old")
	path := fmt.Sprintf("/lists/%d", listID)

	w := s.do(http.MethodPut, path, other, gin.H{"title": "stolen"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPut, path, owner, gin.H{"description": "no title"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPut, "/lists/999", owner, gin.H{"title": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPut, path, owner, gin.H{"title": "new", "description": "desc"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		List entities.ReadingList `json:"list"`
	}
	decodeBody(t, w, &resp)
	assert.Equal(t, listID, resp.List.ID)
	assert.Equal(t, "new", resp.List.Title)
	assert.Equal(t, "desc", *resp.List.Description)
}

func TestListsController_Books(t *testing.T) {
	s := newTestServer(t)
	owner := s.register(t, "u1")
	other := s.register(t, "u2")
	listID := s.createList(t, owner, "T")
	booksPath := fmt.Sprintf("/lists/%d/books/", listID)

	t.Run("only the owner may add", func(t *testing.T) {
		w := s.do(http.MethodPost, booksPath+"b1", other, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("adding an unknown book imports it", func(t *testing.T) {
		w := s.do(http.MethodPost, booksPath+"b1", owner, nil)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.JSONEq(t, fmt.Sprintf(`{"added":{"list_id":%d,"book_id":"b1"}}`, listID), w.Body.String())
		assert.Equal(t, []string{"b1"}, s.volumes.calls)

		w = s.do(http.MethodGet, "/books/b1", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("adding twice is 400", func(t *testing.T) {
		w := s.do(http.MethodPost, booksPath+"b1", owner, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Len(t, s.volumes.calls, 1, "no second import")
	})

	t.Run("provider 404 surfaces as 404", func(t *testing.T) {
		w := s.do(http.MethodPost, booksPath+"missing", owner, nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("removing a book", func(t *testing.T) {
		w := s.do(http.MethodDelete, booksPath+"b1", other, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = s.do(http.MethodDelete, booksPath+"b1", owner, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"deleted":"b1"}`, w.Body.String())

		w = s.do(http.MethodDelete, booksPath+"b1", owner, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListsController_Delete(t *testing.T) {
	s := newTestServer(t)
	owner := s.register(t, "u1")
	other := s.register(t, "u2")
	listID := s.createList(t, owner, "T")
	path := fmt.Sprintf("/lists/%d", listID)

	w := s.do(http.MethodDelete, path, other, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodDelete, path, owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"deleted":%d}`, listID), w.Body.String())

	w = s.do(http.MethodDelete, path, owner, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
