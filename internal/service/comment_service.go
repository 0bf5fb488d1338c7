package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/area-comments-api/internal/linkgen"
	"github.com/area-comments-api/internal/models"
	"github.com/area-comments-api/internal/repository"
	"github.com/area-comments-api/internal/validation"
	"github.com/rs/zerolog"
)

// commentService is the concrete implementation of CommentService
type commentService struct {
	repos     *repository.Repositories
	validator *validation.Validator
	links     linkgen.Generator
	listLimit int
	now       func() time.Time
	log       zerolog.Logger
}

// newCommentService creates a new CommentService
func newCommentService(repos *repository.Repositories, validator *validation.Validator, links linkgen.Generator, listLimit int, log zerolog.Logger) *commentService {
	return &commentService{
		repos:     repos,
		validator: validator,
		links:     links,
		listLimit: listLimit,
		now:       time.Now,
		log:       log.With().Str("service", "comment").Logger(),
	}
}

// Create validates and persists a new comment
func (s *commentService) Create(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	comment := &models.Comment{
		Area:     in.Area,
		AuthorID: in.AuthorID,
		Content:  in.Content,
	}

	if errs := s.validator.Struct(comment); len(errs) > 0 {
		return nil, &ValidationFailedError{Errors: errs}
	}

	if err := s.repos.Comment.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("comment_id", comment.ID).
		Str("area", comment.Area).
		Int64("author_id", comment.AuthorID).
		Msg("Comment created")

	return comment, nil
}

// Update assigns the given fields, re-validates and saves
func (s *commentService) Update(ctx context.Context, id int64, in UpdateCommentInput) (*models.Comment, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}

	comment, err := s.repos.Comment.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}

	if in.Area != nil {
		comment.Area = *in.Area
	}
	if in.AuthorID != nil {
		comment.AuthorID = *in.AuthorID
	}
	if in.Content != nil {
		comment.Content = *in.Content
	}

	if errs := s.validator.Struct(comment); len(errs) > 0 {
		return nil, &ValidationFailedError{Errors: errs}
	}

	if err := s.repos.Comment.Update(ctx, comment); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	s.log.Info().Int64("comment_id", comment.ID).Msg("Comment updated")
	return comment, nil
}

// Delete removes a comment
func (s *commentService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}

	if err := s.repos.Comment.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	s.log.Info().Int64("comment_id", id).Msg("Comment deleted")
	return nil
}

// Get loads a comment, optionally with its author
func (s *commentService) Get(ctx context.Context, id int64, withAuthor bool) (*models.CommentWithAuthor, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}

	comment, err := s.repos.Comment.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}

	result := &models.CommentWithAuthor{Comment: *comment}
	if withAuthor {
		result.Author, err = s.FindAuthor(ctx, comment)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// List returns one page of comments. Authors are loaded in a single
// lookup when withAuthor is set.
func (s *commentService) List(ctx context.Context, q repository.Query, withAuthor bool) (*models.CommentPage, error) {
	if q.Limit <= 0 {
		q.Limit = s.listLimit
	}
	if q.Limit > repository.MaxLimit {
		q.Limit = repository.MaxLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	comments, err := s.repos.Comment.List(ctx, q)
	if err != nil {
		return nil, err
	}

	total, err := s.repos.Comment.Count(ctx, q)
	if err != nil {
		return nil, err
	}

	page := &models.CommentPage{
		Comments: make([]*models.CommentWithAuthor, 0, len(comments)),
		Total:    total,
		Limit:    q.Limit,
		Offset:   q.Offset,
	}

	var authors map[int64]*models.User
	if withAuthor && len(comments) > 0 {
		authors, err = s.repos.User.GetByIDs(ctx, authorIDs(comments))
		if err != nil {
			return nil, fmt.Errorf("loading authors: %w", err)
		}
	}

	for _, c := range comments {
		page.Comments = append(page.Comments, &models.CommentWithAuthor{
			Comment: *c,
			Author:  authors[c.AuthorID],
		})
	}
	return page, nil
}

// FindAuthor resolves the comment's author. A missing user is not an
// error: it yields nil.
func (s *commentService) FindAuthor(ctx context.Context, comment *models.Comment) (*models.User, error) {
	user, err := s.repos.User.GetByID(ctx, comment.AuthorID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.log.Debug().
			Int64("comment_id", comment.ID).
			Int64("author_id", comment.AuthorID).
			Msg("Comment author not found")
	}
	return user, nil
}

// Present computes the display attributes of a comment
func (s *commentService) Present(c *models.CommentWithAuthor) *models.CommentView {
	return &models.CommentView{
		ID:          c.ID,
		Area:        c.Area,
		AuthorID:    c.AuthorID,
		Content:     c.Content,
		ContentHTML: c.SafeContent(),
		AreaName:    c.AreaName(),
		AreaLink:    c.AreaLink(s.links),
		Date:        c.Date(),
		TimeAgo:     c.TimeAgoFrom(s.now()),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		Author:      c.Author,
	}
}

// authorIDs returns the distinct author IDs of comments
func authorIDs(comments []*models.Comment) []int64 {
	seen := make(map[int64]bool, len(comments))
	ids := make([]int64, 0, len(comments))
	for _, c := range comments {
		if !seen[c.AuthorID] {
			seen[c.AuthorID] = true
			ids = append(ids, c.AuthorID)
		}
	}
	return ids
}
