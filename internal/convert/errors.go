package convert

import "errors"

// Conversion failures are terminal for the run and matched with errors.Is.
// The wrapping message carries the offending key, column, shape, or count.
var (
	ErrEmbeddingNotFound        = errors.New("embedding not found")
	ErrNoEmbeddingAvailable     = errors.New("no embedding available")
	ErrInvalidEmbeddingShape    = errors.New("invalid embedding shape")
	ErrColumnNotFound           = errors.New("column not found")
	ErrMissingCategoricalValues = errors.New("column has missing values")
	ErrTooManyCategories        = errors.New("too many categories")
	ErrWriteFailed              = errors.New("write failed")
)
