package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned when a report is requested for a nil table.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrColumnNotFound is returned when Summarize is asked for a column the table lacks.
	ErrColumnNotFound = errors.New("column not found")
)

// ColumnNotFoundError names the missing column and unwraps to ErrColumnNotFound.
type ColumnNotFoundError struct {
	Name      string
	Available []string
}

func (e *ColumnNotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("column not found: %q", e.Name)
	}
	return fmt.Sprintf("column not found: %q (available: %v)", e.Name, e.Available)
}

func (e *ColumnNotFoundError) Unwrap() error { return ErrColumnNotFound }
