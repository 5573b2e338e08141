package server

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the endpoints on r.
func RegisterRoutes(r gin.IRoutes, h *Handler) {
	r.POST("/api/bootstrap", h.Bootstrap)
	r.POST("/api/ingest", h.Ingest)
	r.GET("/healthz", h.Healthz)
}

// NewRouter builds a gin engine with recovery, request IDs and slog request
// logging, and mounts the endpoints.
func NewRouter(h *Handler, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), Logger(logger))
	RegisterRoutes(r, h)
	return r
}
