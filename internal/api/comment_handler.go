package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/area-comments-api/internal/models"
	"github.com/area-comments-api/internal/repository"
	"github.com/area-comments-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CommentHandler handles comment endpoints
type CommentHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(services *service.Services, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		services: services,
		log:      log.With().Str("handler", "comment").Logger(),
	}
}

// ListComments handles GET /v1/comments?area=&author_id=&order=&limit=&offset=&include=author
func (h *CommentHandler) ListComments(c *gin.Context) {
	q, err := parseListQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.services.Comment.List(c.Request.Context(), q, includeAuthor(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	views := make([]*models.CommentView, 0, len(page.Comments))
	for _, comment := range page.Comments {
		views = append(views, h.services.Comment.Present(comment))
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": views,
		"total":    page.Total,
		"limit":    page.Limit,
		"offset":   page.Offset,
	})
}

// CreateComment handles POST /v1/comments
func (h *CommentHandler) CreateComment(c *gin.Context) {
	var req service.CreateCommentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	comment, err := h.services.Comment.Create(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.respondComment(c, http.StatusCreated, &models.CommentWithAuthor{Comment: *comment})
}

// GetComment handles GET /v1/comments/:id
func (h *CommentHandler) GetComment(c *gin.Context) {
	id, ok := h.commentID(c)
	if !ok {
		return
	}

	comment, err := h.services.Comment.Get(c.Request.Context(), id, includeAuthor(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.respondComment(c, http.StatusOK, comment)
}

// UpdateComment handles PUT /v1/comments/:id
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	id, ok := h.commentID(c)
	if !ok {
		return
	}

	var req service.UpdateCommentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	comment, err := h.services.Comment.Update(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.respondComment(c, http.StatusOK, &models.CommentWithAuthor{Comment: *comment})
}

// DeleteComment handles DELETE /v1/comments/:id
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id, ok := h.commentID(c)
	if !ok {
		return
	}

	if err := h.services.Comment.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetCommentAuthor handles GET /v1/comments/:id/author.
// A comment whose author no longer exists yields {"author": null}.
func (h *CommentHandler) GetCommentAuthor(c *gin.Context) {
	id, ok := h.commentID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	comment, err := h.services.Comment.Get(ctx, id, false)
	if err != nil {
		h.writeError(c, err)
		return
	}

	author, err := h.services.Comment.FindAuthor(ctx, &comment.Comment)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"author": author})
}

func (h *CommentHandler) respondComment(c *gin.Context, status int, comment *models.CommentWithAuthor) {
	c.JSON(status, h.services.Comment.Present(comment))
}

// commentID parses the :id path parameter, writing a 400 on failure
func (h *CommentHandler) commentID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a positive integer"})
		return 0, false
	}
	return id, true
}

// writeError maps service errors to HTTP responses
func (h *CommentHandler) writeError(c *gin.Context, err error) {
	var vErr *service.ValidationFailedError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "validation failed",
			"details": vErr.Errors,
		})
	case errors.Is(err, service.ErrCommentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
	case errors.Is(err, service.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error().
			Err(err).
			Str("request_id", c.GetString("request_id")).
			Msg("Comment request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// includeAuthor reports whether the caller asked for eager author loading
func includeAuthor(c *gin.Context) bool {
	return c.Query("include") == "author"
}

// parseListQuery builds a repository query from request parameters
func parseListQuery(c *gin.Context) (repository.Query, error) {
	var q repository.Query
	q.Area = c.Query("area")

	order, err := repository.ParseOrder(c.DefaultQuery("order", string(repository.OrderNewest)))
	if err != nil {
		return q, err
	}
	q.Order = order

	if v := c.Query("author_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return q, errors.New("author_id must be a positive integer")
		}
		q.AuthorID = id
	}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			return q, errors.New("limit must be a non-negative integer")
		}
		q.Limit = limit
	}
	if v := c.Query("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return q, errors.New("offset must be a non-negative integer")
		}
		q.Offset = offset
	}

	return q, nil
}
