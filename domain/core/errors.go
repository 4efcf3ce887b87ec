package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound       = errors.New("resource not found")
	ErrColumnNotFound = fmt.Errorf("%w: column", ErrNotFound)
	ErrLabelNotFound  = fmt.Errorf("%w: index label", ErrNotFound)
	ErrLevelNotFound  = fmt.Errorf("%w: index level", ErrNotFound)
	ErrFrameNotFound  = fmt.Errorf("%w: frame", ErrNotFound)
	ErrSheetNotFound  = fmt.Errorf("%w: worksheet", ErrNotFound)

	// Shape and schema errors
	ErrLengthMismatch  = errors.New("series lengths do not match")
	ErrDuplicateColumn = errors.New("duplicate column name")
	ErrEmptyFrame      = errors.New("frame has no columns")
	ErrOutOfBounds     = errors.New("position out of bounds")
	ErrSchemaMismatch  = errors.New("frame schemas do not match")

	// Type errors
	ErrTypeMismatch     = errors.New("series kind mismatch")
	ErrNotNumeric       = errors.New("operation requires a numeric series")
	ErrNotString        = errors.New("operation requires a string series")
	ErrNotTime          = errors.New("operation requires a time series")
	ErrNotCategorical   = errors.New("operation requires a categorical series")
	ErrMixedTypes       = errors.New("values cannot be coerced to a single kind")
	ErrInsufficientData = errors.New("insufficient data for computation")

	// Aggregation and join errors
	ErrUnknownAggregation = errors.New("unknown aggregation function")
	ErrDuplicatePivotCell = errors.New("duplicate entries for pivot cell")
	ErrMissingJoinKey     = errors.New("join key column missing")
	ErrUnknownJoinHow     = errors.New("unknown join strategy")

	// Time series errors
	ErrBadFrequency = errors.New("invalid time frequency")
	ErrExcessiveGap = errors.New("too many empty periods in time grid")
)

// Error constructors with context
func NewColumnNotFoundError(name string) error {
	return fmt.Errorf("%w: %q", ErrColumnNotFound, name)
}

func NewLabelNotFoundError(label string) error {
	return fmt.Errorf("%w: %q", ErrLabelNotFound, label)
}

func NewLengthMismatchError(want, got int) error {
	return fmt.Errorf("%w: want %d, got %d", ErrLengthMismatch, want, got)
}

func NewTypeMismatchError(op string, want, got string) error {
	return fmt.Errorf("%w: %s wants %s, got %s", ErrTypeMismatch, op, want, got)
}

func NewOutOfBoundsError(pos, length int) error {
	return fmt.Errorf("%w: position %d with length %d", ErrOutOfBounds, pos, length)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsShapeError(err error) bool {
	return errors.Is(err, ErrLengthMismatch) ||
		errors.Is(err, ErrOutOfBounds) ||
		errors.Is(err, ErrSchemaMismatch) ||
		errors.Is(err, ErrDuplicateColumn)
}

func IsTypeError(err error) bool {
	return errors.Is(err, ErrTypeMismatch) ||
		errors.Is(err, ErrNotNumeric) ||
		errors.Is(err, ErrNotString) ||
		errors.Is(err, ErrNotTime) ||
		errors.Is(err, ErrMixedTypes)
}
