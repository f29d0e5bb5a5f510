package ingest

import "errors"

var (
	// ErrRepositoryRequired is returned when a pair repository is not provided.
	ErrRepositoryRequired = errors.New("pair repository required")

	// ErrEncoderRequired is returned when an encoder is not provided.
	ErrEncoderRequired = errors.New("encoder required")

	// ErrInvalidMaxAttempts is returned when maxAttempts is not positive.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than zero")

	// ErrMissingColumns is returned when the CSV header lacks the
	// question/answer columns.
	ErrMissingColumns = errors.New("csv header must contain question and answer columns")

	// ErrEmptyCorpus is returned when an export finds no embedded pairs.
	ErrEmptyCorpus = errors.New("corpus has no embedded pairs to export")

	// ErrDimensionMismatch is returned when stored vectors disagree on
	// dimensionality.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)
