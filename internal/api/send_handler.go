package api

import (
	"errors"
	"net/http"
	"net/mail"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gsarma/mailrender/internal/delivery"
	"github.com/gsarma/mailrender/internal/email"
	"github.com/gsarma/mailrender/internal/logger"
	"github.com/gsarma/mailrender/internal/worker"
)

type sendRequest struct {
	To      []string `json:"to"`
	From    string   `json:"from"`
	ReplyTo string   `json:"replyTo"`
	Async   bool     `json:"async"`
	Email   any      `json:"email"`
}

// Send renders an email and hands it to the configured provider. With
// "async": true the message is queued and 202 is returned with a job id.
func (h *Handler) Send(c *gin.Context) {
	if h.sender == nil {
		abort(c, http.StatusServiceUnavailable, CodeDeliveryUnavailable, "Email delivery is not configured")
		return
	}

	var req sendRequest
	if !readJSON(c, &req) {
		return
	}
	if err := checkAddresses(req); err != nil {
		h.writeError(c, err)
		return
	}

	resp, err := h.renderer.RenderEmail(c.Request.Context(), req.Email)
	if err != nil {
		h.writeError(c, err)
		return
	}

	msg := delivery.Message{
		To:      req.To,
		From:    req.From,
		ReplyTo: req.ReplyTo,
		Subject: resp.Subject,
		HTML:    resp.HTML,
	}

	if req.Async && h.queue != nil {
		job, err := h.queue.Enqueue(msg)
		if err != nil {
			abort(c, http.StatusServiceUnavailable, CodeQueueFull, "Delivery queue is full, please try again later")
			return
		}
		c.JSON(http.StatusAccepted, gin.H{
			"jobId":    job.ID,
			"status":   job.Status,
			"template": resp.Template,
			"provider": job.Provider,
		})
		return
	}

	id, err := h.sender.Send(c.Request.Context(), msg)
	h.metrics.ObserveDelivery(h.sender.Name(), err)
	if err != nil {
		_ = c.Error(err)
		logger.WithContext(c.Request.Context(), h.log).Error("Email delivery failed",
			zap.String("provider", h.sender.Name()),
			zap.String("template", resp.Template),
			zap.Error(err),
		)
		status, text := http.StatusBadGateway, "Failed to deliver email"
		if errors.Is(err, delivery.ErrNoRecipients) {
			status = http.StatusBadRequest
		}
		if !h.production {
			text += ": " + err.Error()
		}
		abort(c, status, CodeDeliveryFailed, text)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       id,
		"template": resp.Template,
		"subject":  resp.Subject,
		"provider": h.sender.Name(),
	})
}

// GetDelivery reports the state of an asynchronous send.
func (h *Handler) GetDelivery(c *gin.Context) {
	id := c.Param("id")
	if h.queue == nil {
		abort(c, http.StatusServiceUnavailable, CodeDeliveryUnavailable, "Email delivery is not configured")
		return
	}
	job, ok := h.queue.Status(id)
	if !ok {
		abort(c, http.StatusNotFound, CodeNotFound, "Delivery job '"+id+"' not found")
		return
	}
	c.JSON(http.StatusOK, job)
}

func checkAddresses(req sendRequest) error {
	var details []email.FieldError
	if len(req.To) == 0 {
		details = append(details, email.FieldError{Field: "to", Message: "At least one recipient is required"})
	}
	for i, addr := range req.To {
		if _, err := mail.ParseAddress(addr); err != nil {
			details = append(details, email.FieldError{
				Field:   "to." + strconv.Itoa(i),
				Message: "Recipient must be a valid email address",
				Value:   addr,
			})
		}
	}
	optional := []struct{ field, addr string }{{"from", req.From}, {"replyTo", req.ReplyTo}}
	for _, o := range optional {
		if o.addr == "" {
			continue
		}
		if _, err := mail.ParseAddress(o.addr); err != nil {
			details = append(details, email.FieldError{Field: o.field, Message: "Must be a valid email address", Value: o.addr})
		}
	}
	if req.Email == nil {
		details = append(details, email.FieldError{Field: "email", Message: "Email request is required"})
	}
	if len(details) > 0 {
		return &email.ValidationError{Message: "Validation failed", Details: details}
	}
	return nil
}

var _ Queue = (*worker.Pool)(nil)
