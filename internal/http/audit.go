package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookly/internal/auth"
	"github.com/mrlokans/bookly/internal/entities"
)

type AuditController struct {
	auditor Auditor
}

func NewAuditController(auditor Auditor) *AuditController {
	return &AuditController{auditor: auditor}
}

// AuditPage is one page of a user's audit events, most recent first.
type AuditPage struct {
	Events  []entities.AuditEvent `json:"events"`
	Total   int64                 `json:"total"`
	Limit   int                   `json:"limit"`
	Offset  int                   `json:"offset"`
	HasMore bool                  `json:"has_more"`
}

// Events returns the caller's own audit trail.
// GET /users/:username/audit?limit=&offset=
func (ac *AuditController) Events(c *gin.Context, id auth.Identity) {
	limit, offset := parsePagination(c, 25, 100)

	events, total, err := ac.auditor.GetEvents(c.Request.Context(), id.Username, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuditPage{
		Events:  events,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(events)) < total,
	})
}
