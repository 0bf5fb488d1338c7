package service

import (
	"context"
	"net/http"
	"time"

	"github.com/area-comments-api/internal/config"
	"github.com/area-comments-api/internal/linkgen"
	"github.com/area-comments-api/internal/models"
	"github.com/area-comments-api/internal/repository"
	"github.com/area-comments-api/internal/validation"
	"github.com/rs/zerolog"
)

// CreateCommentInput is the payload for a new comment
type CreateCommentInput struct {
	Area     string `json:"area"`
	AuthorID int64  `json:"author_id"`
	Content  string `json:"content"`
}

// UpdateCommentInput assigns the non-nil fields to an existing comment
type UpdateCommentInput struct {
	Area     *string `json:"area"`
	AuthorID *int64  `json:"author_id"`
	Content  *string `json:"content"`
}

// CommentService defines the interface for comment operations
type CommentService interface {
	Create(ctx context.Context, in CreateCommentInput) (*models.Comment, error)
	Update(ctx context.Context, id int64, in UpdateCommentInput) (*models.Comment, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64, withAuthor bool) (*models.CommentWithAuthor, error)
	List(ctx context.Context, q repository.Query, withAuthor bool) (*models.CommentPage, error)
	FindAuthor(ctx context.Context, comment *models.Comment) (*models.User, error)
	Present(comment *models.CommentWithAuthor) *models.CommentView
}

// ExportService defines the interface for export operations
type ExportService interface {
	StreamComments(ctx context.Context, w http.ResponseWriter, q repository.Query, format string) error
	GetCount(ctx context.Context, resource string) (int, error)
}

// Services holds all service interfaces
type Services struct {
	Comment CommentService
	Export  ExportService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, links linkgen.Generator, cfg *config.Config, log zerolog.Logger) *Services {
	commentSvc := newCommentService(repos, validation.NewValidator(), links, cfg.App.ListLimit, log)
	exportSvc := newExportService(repos, commentSvc, log)

	return &Services{
		Comment: commentSvc,
		Export:  exportSvc,
	}
}

// NewCommentService exposes the comment service with an injectable clock
func NewCommentService(repos *repository.Repositories, links linkgen.Generator, listLimit int, now func() time.Time, log zerolog.Logger) CommentService {
	svc := newCommentService(repos, validation.NewValidator(), links, listLimit, log)
	if now != nil {
		svc.now = now
	}
	return svc
}

// NewExportService builds an export service over an existing comment service
func NewExportService(repos *repository.Repositories, comments CommentService, log zerolog.Logger) ExportService {
	return newExportService(repos, comments, log)
}
