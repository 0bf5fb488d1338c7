package repository

import (
	"context"
	"errors"

	"github.com/area-comments-api/internal/database"
	"github.com/area-comments-api/internal/models"
)

// ErrNotFound is returned by writes that matched no row
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a unique constraint rejects a write
var ErrDuplicate = errors.New("duplicate record")

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error)
	Count(ctx context.Context) (int, error)
}

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	List(ctx context.Context, q Query) ([]*models.Comment, error)
	Count(ctx context.Context, q Query) (int, error)
	StreamAll(ctx context.Context, q Query, callback func(*models.Comment) error) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	User    UserRepository
	Comment CommentRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		User:    NewUserRepo(db),
		Comment: NewCommentRepo(db),
	}
}
