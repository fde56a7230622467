package sentiment

import (
	"errors"
	"fmt"
)

// ErrColumnNotFound is matched by every ColumnNotFoundError.
var ErrColumnNotFound = errors.New("column not found")

// ColumnNotFoundError names the column that could not be resolved.
type ColumnNotFoundError struct {
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column '%s' not found", e.Column)
}

func (e *ColumnNotFoundError) Unwrap() error {
	return ErrColumnNotFound
}
