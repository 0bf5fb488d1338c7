package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/area-comments-api/internal/database"
	"github.com/area-comments-api/internal/models"
)

const commentColumns = "id, area, author_id, content, created_at, updated_at"

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanComment(row rowScanner) (*models.Comment, error) {
	var comment models.Comment
	err := row.Scan(
		&comment.ID, &comment.Area, &comment.AuthorID, &comment.Content,
		&comment.CreatedAt, &comment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// commentRepo is the concrete implementation of CommentRepository
type commentRepo struct {
	db *database.DB
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db *database.DB) CommentRepository {
	return &commentRepo{db: db}
}

// Create inserts a new comment. Timestamps come from the database.
func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (area, author_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		comment.Area, comment.AuthorID, comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting comment: %w", err)
	}
	return nil
}

// Update writes the comment's fields and bumps updated_at
func (r *commentRepo) Update(ctx context.Context, comment *models.Comment) error {
	query := `
		UPDATE comments
		SET area = $1, author_id = $2, content = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		comment.Area, comment.AuthorID, comment.Content, comment.ID,
	).Scan(&comment.CreatedAt, &comment.UpdatedAt)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("updating comment %d: %w", comment.ID, err)
	}
	return nil
}

// Delete removes a comment by ID
func (r *commentRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM comments WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting comment %d: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID retrieves a comment by ID
func (r *commentRepo) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`

	comment, err := scanComment(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading comment %d: %w", id, err)
	}
	return comment, nil
}

// List returns the comments selected by q
func (r *commentRepo) List(ctx context.Context, q Query) ([]*models.Comment, error) {
	comments := make([]*models.Comment, 0)
	err := r.StreamAll(ctx, q, func(c *models.Comment) error {
		comments = append(comments, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// Count returns the number of comments matching q's filters
func (r *commentRepo) Count(ctx context.Context, q Query) (int, error) {
	query, args := q.BuildCount()

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting comments: %w", err)
	}
	return count, nil
}

// StreamAll streams the comments selected by q row by row
func (r *commentRepo) StreamAll(ctx context.Context, q Query, callback func(*models.Comment) error) error {
	query, args := q.Build()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("listing comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return fmt.Errorf("scanning comment: %w", err)
		}

		if err := callback(comment); err != nil {
			return err
		}
	}

	return rows.Err()
}
