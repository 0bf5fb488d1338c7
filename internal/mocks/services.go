package mocks

import (
	"context"
	"net/http"

	"github.com/area-comments-api/internal/models"
	"github.com/area-comments-api/internal/repository"
	"github.com/area-comments-api/internal/service"
)

// MockCommentService is a mock implementation of CommentService.
// Unset funcs fall back to Err, or to empty results when Err is nil.
type MockCommentService struct {
	CreateFunc     func(ctx context.Context, in service.CreateCommentInput) (*models.Comment, error)
	GetFunc        func(ctx context.Context, id int64, withAuthor bool) (*models.CommentWithAuthor, error)
	ListFunc       func(ctx context.Context, q repository.Query, withAuthor bool) (*models.CommentPage, error)
	FindAuthorFunc func(ctx context.Context, comment *models.Comment) (*models.User, error)
	Err            error
	ListQueries    []repository.Query
}

// Verify interface compliance
var _ service.CommentService = (*MockCommentService)(nil)

func NewMockCommentService() *MockCommentService {
	return &MockCommentService{}
}

func (m *MockCommentService) Create(ctx context.Context, in service.CreateCommentInput) (*models.Comment, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, in)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.Comment{ID: 1, Area: in.Area, AuthorID: in.AuthorID, Content: in.Content}, nil
}

func (m *MockCommentService) Update(ctx context.Context, id int64, in service.UpdateCommentInput) (*models.Comment, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.Comment{ID: id}, nil
}

func (m *MockCommentService) Delete(ctx context.Context, id int64) error {
	return m.Err
}

func (m *MockCommentService) Get(ctx context.Context, id int64, withAuthor bool) (*models.CommentWithAuthor, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id, withAuthor)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.CommentWithAuthor{Comment: models.Comment{ID: id}}, nil
}

func (m *MockCommentService) List(ctx context.Context, q repository.Query, withAuthor bool) (*models.CommentPage, error) {
	m.ListQueries = append(m.ListQueries, q)
	if m.ListFunc != nil {
		return m.ListFunc(ctx, q, withAuthor)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.CommentPage{Limit: q.Limit, Offset: q.Offset}, nil
}

func (m *MockCommentService) FindAuthor(ctx context.Context, comment *models.Comment) (*models.User, error) {
	if m.FindAuthorFunc != nil {
		return m.FindAuthorFunc(ctx, comment)
	}
	return nil, m.Err
}

func (m *MockCommentService) Present(comment *models.CommentWithAuthor) *models.CommentView {
	return &models.CommentView{
		ID:       comment.ID,
		Area:     comment.Area,
		AuthorID: comment.AuthorID,
		Content:  comment.Content,
		AreaName: comment.AreaName(),
		Author:   comment.Author,
	}
}

// MockExportService is a mock implementation of ExportService
type MockExportService struct {
	StreamCommentsFunc func(ctx context.Context, w http.ResponseWriter, q repository.Query, format string) error
	Counts             map[string]int
	CountErr           error
}

// Verify interface compliance
var _ service.ExportService = (*MockExportService)(nil)

func NewMockExportService() *MockExportService {
	return &MockExportService{
		Counts: map[string]int{
			"users":    0,
			"comments": 0,
		},
	}
}

func (m *MockExportService) StreamComments(ctx context.Context, w http.ResponseWriter, q repository.Query, format string) error {
	if m.StreamCommentsFunc != nil {
		return m.StreamCommentsFunc(ctx, w, q, format)
	}
	return nil
}

func (m *MockExportService) GetCount(ctx context.Context, resource string) (int, error) {
	if m.CountErr != nil {
		return 0, m.CountErr
	}
	return m.Counts[resource], nil
}
