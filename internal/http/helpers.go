package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/bookly/internal/apperr"
	"github.com/mrlokans/bookly/internal/catalog"
)

// --- Response Types ---

// ErrorResponse is the error format for all API errors. Message is a
// string, or a list of strings for validation failures.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Message any `json:"message"`
	Status  int `json:"status"`
}

// --- Error Response Helpers ---

// respondStatus aborts with the given status and message.
func respondStatus(c *gin.Context, status int, message any) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: ErrorBody{Message: message, Status: status}})
}

// respondError maps err to a status code and aborts. Typed application
// errors keep their message. A provider 404 becomes a NotFound. Anything
// else is logged and reported as a generic 500.
func respondError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Kind != apperr.KindInternal {
		var message any = appErr.Message
		if len(appErr.Details) > 0 {
			message = appErr.Details
		}
		respondStatus(c, appErr.Kind.Status(), message)
		return
	}

	var providerErr *catalog.ProviderError
	if errors.As(err, &providerErr) && providerErr.StatusCode == http.StatusNotFound {
		respondStatus(c, http.StatusNotFound, "no such volume")
		return
	}

	log.Error().Err(err).
		Str("request_id", c.GetString(ContextKeyRequestID)).
		Str("method", c.Request.Method).
		Str("route", c.FullPath()).
		Msg("internal error")
	respondStatus(c, http.StatusInternalServerError, "internal server error")
}

// --- Request Parsing ---

type validatable interface {
	Validate() error
}

// bindJSON decodes the body into req and validates it. On failure it
// responds with 400 and returns false.
func bindJSON(c *gin.Context, req validatable) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, decodeError(err))
		return false
	}
	if err := req.Validate(); err != nil {
		respondError(c, validationError(err))
		return false
	}
	return true
}

// bindQuery is bindJSON for query string parameters.
func bindQuery(c *gin.Context, req validatable) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		respondError(c, apperr.BadRequest("invalid query parameters"))
		return false
	}
	if err := req.Validate(); err != nil {
		respondError(c, validationError(err))
		return false
	}
	return true
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apperr.Validation([]string{fmt.Sprintf("%s: must be of type %s", typeErr.Field, typeErr.Type)})
	}
	return apperr.BadRequest("request body must be a JSON object")
}

// validationError flattens ozzo field errors into "field: reason" messages
// sorted by field.
func validationError(err error) error {
	var internal validation.InternalError
	if errors.As(err, &internal) {
		return err
	}

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return apperr.BadRequest("%s", err.Error())
	}

	messages := make([]string, 0, len(fieldErrs))
	for field, fieldErr := range fieldErrs {
		messages = append(messages, field+": "+fieldErr.Error())
	}
	sort.Strings(messages)
	return apperr.Validation(messages)
}

// parseIDParam extracts an unsigned integer ID from URL parameters.
// Responds with a 400 error and returns 0, false when it is not one.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(paramName), 10, 32)
	if err != nil || id == 0 {
		respondError(c, apperr.BadRequest("invalid %s", paramName))
		return 0, false
	}
	return uint(id), true
}

// parsePagination reads limit and offset query parameters, falling back to
// defaultLimit when limit is missing or outside 1..maxLimit.
func parsePagination(c *gin.Context, defaultLimit, maxLimit int) (limit, offset int) {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	offset, err = strconv.Atoi(c.Query("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
