package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Render godoc
// @Summary      Render an email
// @Description  Validates the request and renders it with the named template.
// @Tags         render
// @Accept       json
// @Produce      json
// @Param        request  body      object  true  "Email request"
// @Success      200      {object}  email.Response
// @Failure      400      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Failure      429      {object}  errorResponse
// @Failure      500      {object}  errorResponse
// @Router       /render [post]
func (h *Handler) Render(c *gin.Context) {
	var raw any
	if !readJSON(c, &raw) {
		return
	}
	h.render(c, raw)
}

// RenderTemplate is Render with the template taken from the path. The path
// segment wins over any template field in the body.
func (h *Handler) RenderTemplate(c *gin.Context) {
	var raw any
	if !readJSON(c, &raw) {
		return
	}
	if m, ok := raw.(map[string]any); ok {
		m["template"] = c.Param("template")
	}
	h.render(c, raw)
}

func (h *Handler) render(c *gin.Context, raw any) {
	resp, err := h.renderer.RenderEmail(c.Request.Context(), raw)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
