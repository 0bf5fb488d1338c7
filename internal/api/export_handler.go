package api

import (
	"errors"
	"net/http"

	"github.com/area-comments-api/internal/repository"
	"github.com/area-comments-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ExportHandler handles export endpoints
type ExportHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(services *service.Services, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		services: services,
		log:      log.With().Str("handler", "export").Logger(),
	}
}

// StreamComments handles GET /v1/exports/comments?area=...&order=...&format=...
// Streams the export directly to the response
func (h *ExportHandler) StreamComments(c *gin.Context) {
	ctx := c.Request.Context()

	format := c.Query("format")
	if format == "" {
		format = "ndjson" // Default to NDJSON for streaming
	}
	if format != "ndjson" && format != "json" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be one of: ndjson, json"})
		return
	}

	order, err := repository.ParseOrder(c.DefaultQuery("order", string(repository.OrderOldest)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	q := repository.Query{Area: c.Query("area"), Order: order}

	h.log.Info().
		Str("area", q.Area).
		Str("format", format).
		Msg("Starting streaming export")

	if err := h.services.Export.StreamComments(ctx, c.Writer, q, format); err != nil {
		h.log.Error().Err(err).Str("area", q.Area).Msg("Export failed")
		// Can't return error JSON after streaming has started
		if errors.Is(err, service.ErrExportInterrupted) || c.Writer.Written() {
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
	}
}
