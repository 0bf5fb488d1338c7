package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/area-comments-api/internal/models"
	"github.com/area-comments-api/internal/repository"
	"github.com/rs/zerolog"
)

// exportService is the concrete implementation of ExportService
type exportService struct {
	repos    *repository.Repositories
	comments CommentService
	log      zerolog.Logger
}

// newExportService creates a new ExportService
func newExportService(repos *repository.Repositories, comments CommentService, log zerolog.Logger) *exportService {
	return &exportService{
		repos:    repos,
		comments: comments,
		log:      log.With().Str("service", "export").Logger(),
	}
}

// StreamComments streams the comments selected by q in the specified format
func (s *exportService) StreamComments(ctx context.Context, w http.ResponseWriter, q repository.Query, format string) error {
	s.log.Info().Str("format", format).Str("area", q.Area).Msg("Starting comments export")

	switch format {
	case "ndjson":
		return s.streamCommentsNDJSON(ctx, w, q)
	case "json":
		return s.streamCommentsJSON(ctx, w, q)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func (s *exportService) view(c *models.Comment) ([]byte, error) {
	return json.Marshal(s.comments.Present(&models.CommentWithAuthor{Comment: *c}))
}

// exportWriter defers the response headers and the document opening until
// the first row, so a failure before any row leaves the response untouched
// for the caller to report.
type exportWriter struct {
	w           http.ResponseWriter
	contentType string
	filename    string
	open        string
	started     bool
}

func (e *exportWriter) start() {
	if e.started {
		return
	}
	e.started = true
	e.w.Header().Set("Content-Type", e.contentType)
	e.w.Header().Set("Content-Disposition", "attachment; filename="+e.filename)
	e.w.WriteHeader(http.StatusOK)
	e.w.Write([]byte(e.open))
}

func (s *exportService) streamCommentsNDJSON(ctx context.Context, w http.ResponseWriter, q repository.Query) error {
	out := &exportWriter{w: w, contentType: "application/x-ndjson", filename: "comments.ndjson"}
	flusher, _ := w.(http.Flusher)
	count := 0

	err := s.repos.Comment.StreamAll(ctx, q, func(comment *models.Comment) error {
		data, err := s.view(comment)
		if err != nil {
			return err
		}
		out.start()
		w.Write(data)
		w.Write([]byte("\n"))
		count++

		// Flush every 100 records for streaming
		if count%100 == 0 && flusher != nil {
			flusher.Flush()
		}
		return nil
	})
	if err != nil {
		return s.exportFailed(out, count, err)
	}

	out.start()
	s.log.Info().Int("count", count).Msg("Comments export completed")
	return nil
}

// streamCommentsJSON writes a single array. A failure after the first row
// leaves the array unterminated so clients cannot mistake it for a full export.
func (s *exportService) streamCommentsJSON(ctx context.Context, w http.ResponseWriter, q repository.Query) error {
	out := &exportWriter{w: w, contentType: "application/json", filename: "comments.json", open: "["}
	count := 0

	err := s.repos.Comment.StreamAll(ctx, q, func(comment *models.Comment) error {
		data, err := s.view(comment)
		if err != nil {
			return err
		}
		out.start()
		if count > 0 {
			w.Write([]byte(","))
		}
		w.Write(data)
		count++
		return nil
	})
	if err != nil {
		return s.exportFailed(out, count, err)
	}

	out.start()
	w.Write([]byte("]"))
	s.log.Info().Int("count", count).Msg("Comments export completed")
	return nil
}

func (s *exportService) exportFailed(out *exportWriter, count int, err error) error {
	s.log.Error().
		Err(err).
		Int("count", count).
		Bool("started", out.started).
		Msg("Comments export failed")
	if out.started {
		return fmt.Errorf("%w after %d comments: %v", ErrExportInterrupted, count, err)
	}
	return fmt.Errorf("exporting comments: %w", err)
}

// GetCount returns count for a resource
func (s *exportService) GetCount(ctx context.Context, resource string) (int, error) {
	switch resource {
	case "users":
		return s.repos.User.Count(ctx)
	case "comments":
		return s.repos.Comment.Count(ctx, repository.Query{})
	default:
		return 0, fmt.Errorf("unknown resource: %s", resource)
	}
}
