package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookly/internal/auth"
	"github.com/mrlokans/bookly/internal/database/reviews"
)

type ReviewsController struct {
	reviews ReviewStore
	auditor Auditor
}

func NewReviewsController(store ReviewStore, auditor Auditor) *ReviewsController {
	return &ReviewsController{reviews: store, auditor: auditor}
}

// GetAll returns the reviews of a list.
// GET /reviews/:list_id
func (rc *ReviewsController) GetAll(c *gin.Context, _ auth.Identity) {
	listID, ok := parseIDParam(c, "list_id")
	if !ok {
		return
	}

	all, err := rc.reviews.GetAll(c.Request.Context(), listID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": all})
}

// Create posts the caller's review of a list.
// POST /reviews/:list_id
func (rc *ReviewsController) Create(c *gin.Context, id auth.Identity) {
	listID, ok := parseIDParam(c, "list_id")
	if !ok {
		return
	}

	var req newReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := rc.reviews.AddReview(c.Request.Context(), listID, id.Username, reviews.NewReview{
		Rating: *req.Rating,
		Title:  req.Title,
		Body:   req.Body,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"review": review})
}

// Edit changes the supplied fields of the caller's review.
// PATCH /reviews/:list_id/:username
func (rc *ReviewsController) Edit(c *gin.Context, id auth.Identity) {
	listID, ok := parseIDParam(c, "list_id")
	if !ok {
		return
	}

	var req reviewPatchRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := rc.reviews.Edit(c.Request.Context(), listID, id.Username, reviews.ReviewPatch{
		Rating:     req.Rating,
		Title:      req.Title.Text,
		Body:       req.Body.Text,
		ClearTitle: req.Title.cleared(),
		ClearBody:  req.Body.cleared(),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"review": review})
}

// Delete removes the caller's review.
// DELETE /reviews/:list_id/:username
func (rc *ReviewsController) Delete(c *gin.Context, id auth.Identity) {
	listID, ok := parseIDParam(c, "list_id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := rc.reviews.Remove(ctx, listID, id.Username); err != nil {
		respondError(c, err)
		return
	}

	description := fmt.Sprintf("%s's review of list %d", id.Username, listID)
	rc.auditor.LogDelete(ctx, id.Username, "review", strconv.FormatUint(uint64(listID), 10), description)
	c.JSON(http.StatusOK, gin.H{"deleted": description})
}
