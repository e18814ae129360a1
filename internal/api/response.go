package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/carelog/internal/constants"
	"github.com/julianstephens/carelog/internal/logger"
	"github.com/julianstephens/carelog/internal/service"
	"github.com/julianstephens/carelog/internal/validation"
)

// Envelope wraps every successful response
type Envelope struct {
	Data any            `json:"data"`
	Meta map[string]any `json:"meta,omitempty"`
}

// ErrorBody is returned for every failed request
type ErrorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// statusFor maps service and validation errors onto HTTP status codes
func statusFor(err error) int {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrDuplicateDailyLog),
		errors.Is(err, service.ErrDuplicateSleepLog),
		errors.Is(err, service.ErrDuplicateUser):
		return http.StatusConflict
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// HandleError writes the error body for err and logs server-side failures
func HandleError(c *gin.Context, err error) {
	status := statusFor(err)
	body := ErrorBody{Error: err.Error()}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		body.Error = "validation failed"
		body.Fields = verrs.Fields()
	}

	requestID := c.GetString(constants.ContextRequestKey)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "request_id", requestID, "path", c.FullPath(), "err", err)
		body.Error = "internal server error"
	} else {
		logger.Debug("request rejected", "request_id", requestID, "status", status, "err", err)
	}
	c.AbortWithStatusJSON(status, body)
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{Error: msg})
}

// HandleSuccess writes data inside the success envelope
func HandleSuccess(c *gin.Context, status int, data any, meta map[string]any) {
	c.JSON(status, Envelope{Data: data, Meta: meta})
}

func pageMeta[T any](p service.Page[T]) map[string]any {
	return map[string]any{"total": p.Total, "page": p.Page, "per_page": p.PerPage}
}
