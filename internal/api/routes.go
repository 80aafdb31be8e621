package api

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the email API under basePath. limit, when non-nil,
// guards the render and send routes only.
func RegisterRoutes(r gin.IRouter, h *Handler, basePath string, limit gin.HandlerFunc) {
	g := r.Group(basePath)

	guarded := g.Group("/")
	if limit != nil {
		guarded.Use(limit)
	}
	{
		guarded.POST("/render", h.Render)
		guarded.POST("/render/:template", h.RenderTemplate)
		guarded.POST("/send", h.Send)
	}

	g.GET("/send/:id", h.GetDelivery)
	g.GET("/templates", h.ListTemplates)
	g.GET("/templates/:name", h.GetTemplate)

	g.GET("/health", h.Health)
	g.GET("/health/ready", h.Ready)
	g.GET("/health/live", h.Live)
}
