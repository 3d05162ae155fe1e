package ingestion

import "errors"

var (
	// ErrVectorizerRequired is returned when a vectorizer is not provided.
	ErrVectorizerRequired = errors.New("vectorizer required")

	// ErrInvalidBatchSize is returned for a batch size below 1.
	ErrInvalidBatchSize = errors.New("batch size must be positive")

	// ErrInvalidConcurrency is returned for a worker count below 1.
	ErrInvalidConcurrency = errors.New("concurrency must be positive")

	// ErrEmptyCorpus is returned when there is nothing to embed.
	ErrEmptyCorpus = errors.New("corpus is empty")

	// ErrInvalidCost is returned for a negative cost per thousand tokens.
	ErrInvalidCost = errors.New("cost per 1K tokens cannot be negative")
)
