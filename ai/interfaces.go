package ai

import (
	"context"

	"github.com/poiesic/stylematch/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Captioner describes an uploaded garment image.
// Implementations must be thread-safe for concurrent use.
type Captioner interface {
	// Caption analyzes the image and suggests complementary items.
	// categories is the closed set the returned Category must come from;
	// it is passed to the model verbatim.
	Caption(ctx context.Context, image Image, categories []string) (core.Caption, error)
}

// MatchValidator decides whether two garments work in an outfit together.
// Implementations must be thread-safe for concurrent use.
type MatchValidator interface {
	// Validate compares the suggested item against the reference item.
	Validate(ctx context.Context, reference, suggested Image) (core.Verdict, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
type AIProvider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Captioner returns the image captioning service.
	Captioner() Captioner

	// MatchValidator returns the outfit validation service.
	MatchValidator() MatchValidator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
