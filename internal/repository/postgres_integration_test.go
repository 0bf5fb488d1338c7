package repository_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/area-comments-api/internal/database"
	"github.com/area-comments-api/internal/models"
	"github.com/area-comments-api/internal/repository"
	"github.com/rs/zerolog"
)

// openTestDB connects to the database named by TEST_DATABASE_DSN, runs the
// migrations and empties both tables. Tests are skipped without the DSN.
func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine test file path")
	}
	migrationsPath := filepath.Join(filepath.Dir(filepath.Dir(filepath.Dir(currentFile))), "migrations")

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db := database.Wrap(sqlDB, zerolog.Nop())
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})

	if err := db.RunMigrations(migrationsPath); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	if _, err := db.Exec("TRUNCATE comments, users RESTART IDENTITY"); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return db
}

func TestPostgres_CommentRoundTrip(t *testing.T) {
	db := openTestDB(t)
	repos := repository.New(db)
	ctx := context.Background()

	c := &models.Comment{Area: "blog-posts", AuthorID: 5, Content: "line1\nline2"}
	if err := repos.Comment.Create(ctx, c); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if c.ID == 0 || c.CreatedAt.IsZero() || c.UpdatedAt.IsZero() {
		t.Fatalf("Expected id and timestamps, got %+v", c)
	}

	stored, err := repos.Comment.GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stored == nil {
		t.Fatal("Comment not found")
	}
	if stored.Area != c.Area || stored.AuthorID != c.AuthorID || stored.Content != c.Content {
		t.Errorf("Reloaded %+v, want %+v", stored, c)
	}

	missing, err := repos.Comment.GetByID(ctx, c.ID+1000)
	if err != nil || missing != nil {
		t.Errorf("Expected nil, nil for missing comment, got %v, %v", missing, err)
	}
}

func TestPostgres_UpdateBumpsUpdatedAt(t *testing.T) {
	db := openTestDB(t)
	repos := repository.New(db)
	ctx := context.Background()

	c := &models.Comment{Area: "news", AuthorID: 1, Content: "before"}
	if err := repos.Comment.Create(ctx, c); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	created := c.CreatedAt

	time.Sleep(10 * time.Millisecond)
	c.Content = "after"
	if err := repos.Comment.Update(ctx, c); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !c.CreatedAt.Equal(created) {
		t.Errorf("created_at changed from %s to %s", created, c.CreatedAt)
	}
	if !c.UpdatedAt.After(created) {
		t.Errorf("updated_at %s not after created_at %s", c.UpdatedAt, created)
	}

	if err := repos.Comment.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := repos.Comment.Delete(ctx, c.ID); err != repository.ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestPostgres_NewestOldest(t *testing.T) {
	db := openTestDB(t)
	repos := repository.New(db)
	ctx := context.Background()

	for _, content := range []string{"a", "b", "c"} {
		if err := repos.Comment.Create(ctx, &models.Comment{Area: "news", AuthorID: 1, Content: content}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	newest, err := repos.Comment.List(ctx, repository.Query{Area: "news"}.Newest())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	oldest, err := repos.Comment.List(ctx, repository.Query{Area: "news"}.Oldest())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(newest) != 3 || len(oldest) != 3 {
		t.Fatalf("Expected 3 each, got %d and %d", len(newest), len(oldest))
	}
	for i := range newest {
		if newest[i].ID != oldest[2-i].ID {
			t.Errorf("Position %d not reversed", i)
		}
	}

	count, err := repos.Comment.Count(ctx, repository.Query{Area: "news"})
	if err != nil || count != 3 {
		t.Errorf("Expected count 3, got %d (%v)", count, err)
	}
}

func TestPostgres_Users(t *testing.T) {
	db := openTestDB(t)
	repos := repository.New(db)
	ctx := context.Background()

	u := &models.User{Name: "Ada", Email: "ada@example.com"}
	if err := repos.User.Create(ctx, u); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repos.User.Create(ctx, &models.User{Name: "Ada 2", Email: "ada@example.com"}); err == nil {
		t.Error("Expected duplicate email error")
	}

	users, err := repos.User.GetByIDs(ctx, []int64{u.ID, u.ID + 100})
	if err != nil {
		t.Fatalf("GetByIDs failed: %v", err)
	}
	if len(users) != 1 || users[u.ID].Email != "ada@example.com" {
		t.Errorf("Unexpected users: %v", users)
	}

	missing, err := repos.User.GetByID(ctx, u.ID+100)
	if err != nil || missing != nil {
		t.Errorf("Expected nil, nil for missing user, got %v, %v", missing, err)
	}
}
