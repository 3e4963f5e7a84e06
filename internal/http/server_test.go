package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/bookly/internal/audit"
	"github.com/mrlokans/bookly/internal/auth"
	"github.com/mrlokans/bookly/internal/catalog"
	"github.com/mrlokans/bookly/internal/config"
	"github.com/mrlokans/bookly/internal/database"
	auditRepo "github.com/mrlokans/bookly/internal/database/audit"
	"github.com/mrlokans/bookly/internal/database/books"
	"github.com/mrlokans/bookly/internal/database/lists"
	"github.com/mrlokans/bookly/internal/database/reviews"
	"github.com/mrlokans/bookly/internal/database/users"
	"github.com/mrlokans/bookly/internal/entities"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeVolumes serves provider volumes from memory. Unknown ids answer
// like the provider does, with a 404.
type fakeVolumes struct {
	mu      sync.Mutex
	volumes map[string]entities.Book
	calls   []string
}

func (f *fakeVolumes) Volume(_ context.Context, id string) (*entities.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, id)

	book, ok := f.volumes[id]
	if !ok {
		return nil, &catalog.ProviderError{StatusCode: http.StatusNotFound, URL: "/volumes/" + id}
	}
	return &book, nil
}

type fakeSearch struct {
	books []entities.Book
	err   error
	last  catalog.SearchQuery
}

func (f *fakeSearch) Search(_ context.Context, q catalog.SearchQuery) ([]entities.Book, error) {
	f.last = q
	if f.err != nil {
		return nil, f.err
	}
	return f.books, nil
}

type testServer struct {
	router  *gin.Engine
	db      *database.Database
	tokens  *auth.TokenManager
	volumes *fakeVolumes
	search  *fakeSearch
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := database.NewDatabase(config.Database{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "http.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenManager(config.Auth{SecretKey: "test-secret", TokenExpiry: time.Hour})
	require.NoError(t, err)

	limiter := auth.NewLoginLimiter(auth.LoginLimitConfig{
		MaxAttempts:     3,
		WindowDuration:  time.Minute,
		LockoutDuration: time.Minute,
		CleanupInterval: time.Minute,
	})
	t.Cleanup(limiter.Stop)

	volumes := &fakeVolumes{volumes: map[string]entities.Book{
		"b1": {ID: "b1", Title: "Imported Book", Authors: []string{"Jane Doe"}, Cover: "http://img/b1.jpg"},
	}}
	search := &fakeSearch{}

	bookRepo := books.NewRepository(db.DB)
	importer := catalog.NewImporter(volumes, bookRepo)

	router := NewRouter(RouterConfig{
		Users:        users.NewRepository(db.DB, bcrypt.MinCost),
		Lists:        lists.NewRepository(db.DB, bookRepo, importer),
		Reviews:      reviews.NewRepository(db.DB),
		Books:        bookRepo,
		Search:       search,
		Tokens:       tokens,
		LoginLimiter: limiter,
		Auditor:      audit.NewService(auditRepo.NewRepository(db.DB)),
		Database:     db,
		Version:      "test",
	})

	return &testServer{router: router, db: db, tokens: tokens, volumes: volumes, search: search}
}

// do sends a request. body may be nil, a raw string, or a value to encode
// as JSON.
func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// register creates username and returns its token.
func (s *testServer) register(t *testing.T, username string) string {
	t.Helper()

	w := s.do(http.MethodPost, "/users/register", "", gin.H{
		"username": username,
		"password": "password",
		"email":    username + "@x.com",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// createList creates a list as the token's user and returns its id.
func (s *testServer) createList(t *testing.T, token, title string) uint {
	t.Helper()

	w := s.do(http.MethodPost, "/lists", token, gin.H{"title": title})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		List entities.ReadingList `json:"list"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.List.ID
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func errorBodyOf(t *testing.T, w *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var resp ErrorResponse
	decodeBody(t, w, &resp)
	return resp.Error
}
