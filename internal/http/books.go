package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/bookly/internal/auth"
	"github.com/mrlokans/bookly/internal/entities"
)

type BooksController struct {
	books  BookStore
	covers CoverCache
}

// NewBooksController creates the catalog endpoints. covers may be nil.
func NewBooksController(store BookStore, covers CoverCache) *BooksController {
	return &BooksController{books: store, covers: covers}
}

// GET /books
func (bc *BooksController) GetAll(c *gin.Context) {
	all, err := bc.books.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": all})
}

// GET /books/:id
func (bc *BooksController) Get(c *gin.Context) {
	book, err := bc.books.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"book": book})
}

// Create adds a book to the local catalog under a caller-chosen id.
// POST /books
func (bc *BooksController) Create(c *gin.Context, _ auth.Identity) {
	var req newBookRequest
	if !bindJSON(c, &req) {
		return
	}

	book, err := bc.books.AddBook(c.Request.Context(), &entities.Book{
		ID:          req.ID,
		Title:       req.Title,
		Authors:     req.Authors,
		Cover:       req.Cover,
		Description: req.Description,
		Link:        req.Link,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"book": book})
}

// Cover serves the book's cover image from the local cache, downloading it
// on first use. Without a cache the client is redirected to the cover URL.
// GET /books/:id/cover
func (bc *BooksController) Cover(c *gin.Context) {
	ctx := c.Request.Context()
	book, err := bc.books.Get(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if book.Cover == "" {
		respondStatus(c, http.StatusNotFound, "book has no cover")
		return
	}

	if bc.covers == nil {
		c.Redirect(http.StatusFound, book.Cover)
		return
	}

	path, err := bc.covers.GetCover(ctx, book.ID, book.Cover)
	if err != nil {
		log.Warn().Err(err).Str("book_id", book.ID).Msg("cover fetch failed")
		respondStatus(c, http.StatusBadGateway, "cover unavailable")
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.File(path)
}
