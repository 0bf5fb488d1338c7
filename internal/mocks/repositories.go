package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/area-comments-api/internal/models"
	"github.com/area-comments-api/internal/repository"
)

// Verify interface compliance
var (
	_ repository.CommentRepository = (*MockCommentRepository)(nil)
	_ repository.UserRepository    = (*MockUserRepository)(nil)
)

// MockCommentRepository is an in-memory implementation of CommentRepository.
// Now stamps created_at/updated_at the way the database defaults would.
type MockCommentRepository struct {
	mu          sync.Mutex
	Comments    map[int64]*models.Comment
	NextID      int64
	Now         func() time.Time
	InsertError error
	QueryError  error
	CreateCalls int

	// StreamError is returned by StreamAll after StreamErrorAfter rows
	StreamError      error
	StreamErrorAfter int
}

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{
		Comments: make(map[int64]*models.Comment),
		NextID:   1,
		Now:      time.Now,
	}
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls++
	if m.InsertError != nil {
		return m.InsertError
	}
	now := m.Now()
	comment.ID = m.NextID
	comment.CreatedAt = now
	comment.UpdatedAt = now
	m.NextID++

	stored := *comment
	m.Comments[comment.ID] = &stored
	return nil
}

func (m *MockCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.InsertError != nil {
		return m.InsertError
	}
	existing, ok := m.Comments[comment.ID]
	if !ok {
		return repository.ErrNotFound
	}
	comment.CreatedAt = existing.CreatedAt
	comment.UpdatedAt = m.Now()

	stored := *comment
	m.Comments[comment.ID] = &stored
	return nil
}

func (m *MockCommentRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Comments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.Comments, id)
	return nil
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.QueryError != nil {
		return nil, m.QueryError
	}
	c, ok := m.Comments[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (m *MockCommentRepository) List(ctx context.Context, q repository.Query) ([]*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.QueryError != nil {
		return nil, m.QueryError
	}
	return m.selectLocked(q, true), nil
}

func (m *MockCommentRepository) Count(ctx context.Context, q repository.Query) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.QueryError != nil {
		return 0, m.QueryError
	}
	return len(m.selectLocked(q, false)), nil
}

func (m *MockCommentRepository) StreamAll(ctx context.Context, q repository.Query, callback func(*models.Comment) error) error {
	comments, err := m.List(ctx, q)
	if err != nil {
		return err
	}
	for i, c := range comments {
		if m.StreamError != nil && i == m.StreamErrorAfter {
			return m.StreamError
		}
		if err := callback(c); err != nil {
			return err
		}
	}
	if m.StreamError != nil && m.StreamErrorAfter >= len(comments) {
		return m.StreamError
	}
	return nil
}

// selectLocked mirrors Query.Build: filter, order by created_at with id
// as tie-breaker, then page.
func (m *MockCommentRepository) selectLocked(q repository.Query, paged bool) []*models.Comment {
	out := make([]*models.Comment, 0, len(m.Comments))
	for _, c := range m.Comments {
		if q.Area != "" && c.Area != q.Area {
			continue
		}
		if q.AuthorID != 0 && c.AuthorID != q.AuthorID {
			continue
		}
		copied := *c
		out = append(out, &copied)
	}

	less := func(a, b *models.Comment) bool {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID < b.ID
		}
		return a.CreatedAt.Before(b.CreatedAt)
	}
	switch q.Order {
	case repository.OrderNewest:
		sort.Slice(out, func(i, j int) bool { return less(out[j], out[i]) })
	default:
		// unordered queries come back oldest first, ties broken by id
		sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	}

	if !paged {
		return out
	}
	if q.Offset > 0 {
		if q.Offset >= len(out) {
			return out[:0]
		}
		out = out[q.Offset:]
	}
	limit := q.Limit
	if limit > repository.MaxLimit {
		limit = repository.MaxLimit
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

// MockUserRepository is an in-memory implementation of UserRepository
type MockUserRepository struct {
	mu         sync.Mutex
	Users      map[int64]*models.User
	NextID     int64
	QueryError error
	// LookupCalls counts GetByID and GetByIDs calls
	LookupCalls int
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:  make(map[int64]*models.User),
		NextID: 1,
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.Users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	if user.ID == 0 {
		user.ID = m.NextID
		m.NextID++
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	m.Users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LookupCalls++
	if m.QueryError != nil {
		return nil, m.QueryError
	}
	return m.Users[id], nil
}

func (m *MockUserRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LookupCalls++
	if m.QueryError != nil {
		return nil, m.QueryError
	}
	users := make(map[int64]*models.User, len(ids))
	for _, id := range ids {
		if u, ok := m.Users[id]; ok {
			users[id] = u
		}
	}
	return users, nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.Users), nil
}
