package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookly/internal/apperr"
	"github.com/mrlokans/bookly/internal/auth"
	"github.com/mrlokans/bookly/internal/database/lists"
)

type ListsController struct {
	lists   ListStore
	auditor Auditor
}

func NewListsController(store ListStore, auditor Auditor) *ListsController {
	return &ListsController{lists: store, auditor: auditor}
}

// GetAll returns every list, newest first.
// GET /lists
func (lc *ListsController) GetAll(c *gin.Context) {
	all, err := lc.lists.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lists": all})
}

// Get returns a list with its books and reviews.
// GET /lists/:id
func (lc *ListsController) Get(c *gin.Context, _ auth.Identity) {
	listID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	list, err := lc.lists.Get(c.Request.Context(), listID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

// GetByUser returns summaries of a user's lists.
// GET /lists/user/:username
func (lc *ListsController) GetByUser(c *gin.Context, _ auth.Identity) {
	summaries, err := lc.lists.GetByUser(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lists": summaries})
}

// Create adds a list owned by the caller. Any owner in the body is ignored.
// POST /lists
func (lc *ListsController) Create(c *gin.Context, id auth.Identity) {
	var req listRequest
	if !bindJSON(c, &req) {
		return
	}

	list, err := lc.lists.AddList(c.Request.Context(), lists.NewList{
		Username:    id.Username,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"list": list})
}

// Update replaces the title and description of the caller's list.
// PUT /lists/:id
func (lc *ListsController) Update(c *gin.Context, id auth.Identity) {
	listID, ok := lc.authorizeOwner(c, id)
	if !ok {
		return
	}

	var req listRequest
	if !bindJSON(c, &req) {
		return
	}

	list, err := lc.lists.UpdateList(c.Request.Context(), listID, lists.UpdateList{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

// Delete removes the caller's list with its books and reviews.
// DELETE /lists/:id
func (lc *ListsController) Delete(c *gin.Context, id auth.Identity) {
	listID, ok := lc.authorizeOwner(c, id)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := lc.lists.Remove(ctx, listID); err != nil {
		respondError(c, err)
		return
	}

	entityID := strconv.FormatUint(uint64(listID), 10)
	lc.auditor.LogDelete(ctx, id.Username, "list", entityID, "list "+entityID)
	c.JSON(http.StatusOK, gin.H{"deleted": listID})
}

// AddBook puts a book on the caller's list, importing it from the
// provider when the catalog does not know it yet.
// POST /lists/:id/books/:book_id
func (lc *ListsController) AddBook(c *gin.Context, id auth.Identity) {
	listID, ok := lc.authorizeOwner(c, id)
	if !ok {
		return
	}

	added, err := lc.lists.AddBook(c.Request.Context(), listID, c.Param("book_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"added": added})
}

// RemoveBook takes a book off the caller's list.
// DELETE /lists/:id/books/:book_id
func (lc *ListsController) RemoveBook(c *gin.Context, id auth.Identity) {
	listID, ok := lc.authorizeOwner(c, id)
	if !ok {
		return
	}

	bookID := c.Param("book_id")
	if err := lc.lists.RemoveBook(c.Request.Context(), listID, bookID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": bookID})
}

// authorizeOwner parses the list id and checks that the caller owns the
// list. A missing list is a 404, someone else's list a 401.
func (lc *ListsController) authorizeOwner(c *gin.Context, id auth.Identity) (uint, bool) {
	listID, ok := parseIDParam(c, "id")
	if !ok {
		return 0, false
	}

	owner, err := lc.lists.GetOwner(c.Request.Context(), listID)
	if err != nil {
		respondError(c, err)
		return 0, false
	}
	if owner != id.Username {
		respondError(c, apperr.Unauthorized("Unauthorized"))
		return 0, false
	}
	return listID, true
}
