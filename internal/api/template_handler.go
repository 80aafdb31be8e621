package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gsarma/mailrender/internal/email"
)

type templateSummary struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Config      map[string]any `json:"config"`
}

// ListTemplates returns every registered template in registration order.
func (h *Handler) ListTemplates(c *gin.Context) {
	names := h.renderer.Templates()
	out := make([]templateSummary, 0, len(names))
	for _, name := range names {
		info, ok := h.renderer.DescribeTemplate(name)
		if !ok {
			continue
		}
		out = append(out, templateSummary{Name: info.Name, Description: info.Description, Config: info.Config})
	}
	c.JSON(http.StatusOK, gin.H{"templates": out})
}

// GetTemplate returns one template with an example request.
func (h *Handler) GetTemplate(c *gin.Context) {
	name := c.Param("name")
	info, ok := h.renderer.DescribeTemplate(name)
	if !ok {
		h.writeError(c, &email.TemplateNotFoundError{Name: name})
		return
	}
	c.JSON(http.StatusOK, info)
}
