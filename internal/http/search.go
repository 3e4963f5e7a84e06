package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookly/internal/catalog"
)

type SearchController struct {
	search SearchService
}

func NewSearchController(search SearchService) *SearchController {
	return &SearchController{search: search}
}

// Search proxies a query to the external catalog.
// GET /search?q=&intitle=&inauthor=&isbn=&offset=
func (sc *SearchController) Search(c *gin.Context) {
	var req searchRequest
	if !bindQuery(c, &req) {
		return
	}

	results, err := sc.search.Search(c.Request.Context(), catalog.SearchQuery{
		Q:        req.Q,
		InTitle:  req.InTitle,
		InAuthor: req.InAuthor,
		ISBN:     req.ISBN,
		Offset:   req.Offset,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": results})
}
