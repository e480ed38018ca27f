package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jensholdgaard/eventdesk/internal/event"
	"github.com/jensholdgaard/eventdesk/internal/telemetry"
)

// Error codes returned in the "code" field.
const (
	codeInvalidEvent  = "invalid_event"
	codeInvalidID     = "invalid_id"
	codeNotFound      = "event_not_found"
	codeUnauthorized  = "unauthorized"
	codeInternalError = "internal_error"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: msg, Code: code})
}

// fail maps a catalog error to a response. Internal errors are logged and
// their text is not sent to the client.
func (h *handlers) fail(c *gin.Context, err error) {
	var ve *event.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(c, http.StatusBadRequest, codeInvalidEvent, ve.Error())
	case errors.Is(err, event.ErrNotFound):
		writeError(c, http.StatusNotFound, codeNotFound, event.ErrNotFound.Error())
	default:
		ctx := c.Request.Context()
		telemetry.LogWithTrace(ctx, h.logger).ErrorContext(ctx, "request failed",
			slog.String("path", c.FullPath()),
			slog.Any("error", err),
		)
		writeError(c, http.StatusInternalServerError, codeInternalError, "internal server error")
	}
}
