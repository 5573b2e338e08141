package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/vecseed/core"
	"github.com/poiesic/vecseed/ingestion"
)

// Runner performs a bootstrap run. *ingestion.Bootstrapper implements it.
type Runner interface {
	Run(ctx context.Context, targetIndex string) (*core.RunSummary, error)
}

var _ Runner = (*ingestion.Bootstrapper)(nil)

// Handler serves the bootstrap endpoints.
type Handler struct {
	runner Runner
	logger *slog.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithHandlerLogger sets a custom logger.
// Default is slog.Default().
func WithHandlerLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHandler creates a Handler around runner.
func NewHandler(runner Runner, opts ...HandlerOption) (*Handler, error) {
	if runner == nil {
		return nil, ErrRunnerRequired
	}
	h := &Handler{runner: runner, logger: slog.Default()}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With("component", "http")
	return h, nil
}

type ingestRequest struct {
	TargetIndex string `json:"targetIndex"`
}

type runResponse struct {
	Success bool             `json:"success"`
	Summary *core.RunSummary `json:"summary"`
}

// Bootstrap runs against the configured index.
func (h *Handler) Bootstrap(c *gin.Context) {
	h.run(c, "")
}

// Ingest runs against the index named in the request body.
func (h *Handler) Ingest(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.TargetIndex == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "targetIndex is required"})
		return
	}
	h.run(c, req.TargetIndex)
}

// Healthz reports that the process is serving.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) run(c *gin.Context, target string) {
	ctx := context.WithoutCancel(c.Request.Context())

	summary, err := h.runner.Run(ctx, target)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, runResponse{Success: true, Summary: summary})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	requestID, _ := c.Get(requestIDKey)
	logger := h.logger.With("request_id", requestID, "path", c.Request.URL.Path)

	switch ingestion.Classify(err) {
	case ingestion.ClassNoDocuments:
		logger.Warn("bootstrap found no documents")
		c.JSON(http.StatusBadRequest, gin.H{"error": ingestion.ErrNoDocumentsFound.Error()})
	case ingestion.ClassTimeout:
		logger.Error("bootstrap timed out", "err", err)
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Connection timeout"})
	default:
		if errors.Is(err, ingestion.ErrTargetIndexRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "targetIndex is required"})
			return
		}
		logger.Error("bootstrap failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
