package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gsarma/mailrender/internal/email"
	"github.com/gsarma/mailrender/internal/logger"
)

// Error codes returned in the error envelope.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeTemplateNotFound    = "TEMPLATE_NOT_FOUND"
	CodeRendering           = "RENDERING_ERROR"
	CodeInternal            = "INTERNAL_ERROR"
	CodeInvalidJSON         = "INVALID_JSON"
	CodePayloadTooLarge     = "PAYLOAD_TOO_LARGE"
	CodeDeliveryUnavailable = "DELIVERY_UNAVAILABLE"
	CodeDeliveryFailed      = "DELIVERY_FAILED"
	CodeQueueFull           = "QUEUE_FULL"
	CodeNotFound            = "NOT_FOUND"
)

const redactedMessage = "An internal error occurred"

type errorBody struct {
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Details []email.FieldError `json:"details,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: errorBody{Code: code, Message: message}})
}

// writeError maps service errors onto HTTP responses.
func (h *Handler) writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	var (
		ve *email.ValidationError
		nf *email.TemplateNotFoundError
		re *email.RenderingError
	)
	switch {
	case errors.As(err, &ve):
		details := ve.Details
		if details == nil {
			details = []email.FieldError{}
		}
		// details is always present for validation failures, even when empty.
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": gin.H{
			"code":    CodeValidation,
			"message": ve.Message,
			"details": details,
		}})
	case errors.As(err, &nf):
		abort(c, http.StatusNotFound, CodeTemplateNotFound, nf.Error())
	case errors.As(err, &re):
		h.logInternal(c, err)
		abort(c, http.StatusInternalServerError, CodeRendering, h.redact(re.Error()))
	default:
		h.logInternal(c, err)
		abort(c, http.StatusInternalServerError, CodeInternal, h.redact(err.Error()))
	}
}

func (h *Handler) logInternal(c *gin.Context, err error) {
	logger.WithContext(c.Request.Context(), h.log).Error("Request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err),
		zap.String("error_verbose", fmt.Sprintf("%+v", err)),
	)
}

func (h *Handler) redact(msg string) string {
	if h.production {
		return redactedMessage
	}
	return msg
}

// readJSON decodes the request body into v, writing the error response itself
// when the body is too large or not valid JSON.
func readJSON(c *gin.Context, v any) bool {
	body, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			abort(c, http.StatusRequestEntityTooLarge, CodePayloadTooLarge,
				fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit))
			return false
		}
		abort(c, http.StatusBadRequest, CodeInvalidJSON, "Request body could not be read")
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		abort(c, http.StatusBadRequest, CodeInvalidJSON, "Request body must be valid JSON")
		return false
	}
	return true
}
