package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/area-comments-api/internal/validation"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrInvalidID       = errors.New("invalid comment id")

	// ErrExportInterrupted means an export failed after rows were already sent
	ErrExportInterrupted = errors.New("export interrupted")
)

// ValidationFailedError carries the field errors of a rejected comment
type ValidationFailedError struct {
	Errors []validation.ValidationError
}

func (e *ValidationFailedError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		fields = append(fields, fe.Field)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}
