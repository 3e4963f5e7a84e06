package http

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookly/internal/entities"
)

func TestAuditController_Events(t *testing.T) {
	s := newTestServer(t)
	token := s.register(t, "u1")
	other := s.register(t, "u2")

	w := s.do(http.MethodPost, "/users/login", "", gin.H{"username": "u1", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	w = s.do(http.MethodPost, "/users/login", "", gin.H{"username": "u1", "password": "password"})
	require.Equal(t, http.StatusOK, w.Code)

	listID := s.createList(t, token, "gone soon")
	w = s.do(http.MethodDelete, fmt.Sprintf("/lists/%d", listID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	t.Run("returns the caller's events newest first", func(t *testing.T) {
		w := s.do(http.MethodGet, "/users/u1/audit", token, nil)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var page AuditPage
		decodeBody(t, w, &page)

		assert.Equal(t, int64(4), page.Total)
		assert.Equal(t, 25, page.Limit)
		assert.False(t, page.HasMore)
		require.Len(t, page.Events, 4)

		assert.Equal(t, entities.AuditEventDelete, page.Events[0].EventType)
		assert.Equal(t, "list_delete", page.Events[0].Action)
		assert.Equal(t, fmt.Sprint(listID), page.Events[0].EntityID)
		assert.Equal(t, fmt.Sprintf("Deleted list: list %d", listID), page.Events[0].Description)

		assert.Equal(t, "login", page.Events[1].Action)
		assert.Equal(t, entities.AuditStatusSuccess, page.Events[1].Status)
		assert.Equal(t, "login", page.Events[2].Action)
		assert.Equal(t, entities.AuditStatusFailed, page.Events[2].Status)
		assert.Equal(t, "register", page.Events[3].Action)

		for _, event := range page.Events {
			assert.Equal(t, "u1", event.Username)
		}
	})

	t.Run("paginates", func(t *testing.T) {
		w := s.do(http.MethodGet, "/users/u1/audit?limit=2&offset=1", token, nil)

		require.Equal(t, http.StatusOK, w.Code)
		var page AuditPage
		decodeBody(t, w, &page)
		assert.Equal(t, 2, page.Limit)
		assert.Equal(t, 1, page.Offset)
		assert.True(t, page.HasMore)
		require.Len(t, page.Events, 2)
		assert.Equal(t, "login", page.Events[0].Action)
	})

	t.Run("out of range limit falls back to the default", func(t *testing.T) {
		w := s.do(http.MethodGet, "/users/u1/audit?limit=1000", token, nil)

		var page AuditPage
		decodeBody(t, w, &page)
		assert.Equal(t, 25, page.Limit)
	})

	t.Run("other users cannot read it", func(t *testing.T) {
		w := s.do(http.MethodGet, "/users/u1/audit", other, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = s.do(http.MethodGet, "/users/u1/audit", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("a user with only a registration sees one event", func(t *testing.T) {
		w := s.do(http.MethodGet, "/users/u2/audit", other, nil)

		var page AuditPage
		decodeBody(t, w, &page)
		assert.Equal(t, int64(1), page.Total)
	})
}

func TestRouter_WithoutAuditor(t *testing.T) {
	s := newTestServer(t)
	router := NewRouter(RouterConfig{Tokens: s.tokens})

	token, err := s.tokens.Issue("u1")
	require.NoError(t, err)
	s.router = router

	w := s.do(http.MethodGet, "/users/u1/audit", token, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var page AuditPage
	decodeBody(t, w, &page)
	assert.Empty(t, page.Events)
	assert.NotNil(t, page.Events)
}
