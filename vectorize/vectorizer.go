package vectorize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/stylematch/ai"
	"github.com/poiesic/stylematch/core"
)

// Vectorizer embeds texts through an ai.Embedder, truncating each text to a
// token budget and retrying transient failures.
type Vectorizer struct {
	embedder  ai.Embedder
	tokenizer Tokenizer
	maxTokens int
	retry     RetryPolicy
	logger    *slog.Logger
}

// Option configures a Vectorizer.
type Option func(*Vectorizer) error

// WithTokenizer sets the tokenizer used for truncation and token counts.
func WithTokenizer(t Tokenizer) Option {
	return func(v *Vectorizer) error {
		v.tokenizer = t
		return nil
	}
}

// WithMaxTokens sets the per-text token budget.
func WithMaxTokens(n int) Option {
	return func(v *Vectorizer) error {
		if n <= 0 {
			return ErrInvalidMaxTokens
		}
		v.maxTokens = n
		return nil
	}
}

// WithRetryPolicy sets the retry policy for remote calls.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(v *Vectorizer) error {
		if err := p.Validate(); err != nil {
			return err
		}
		v.retry = p
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Vectorizer) error {
		v.logger = logger
		return nil
	}
}

// New creates a Vectorizer. Without WithTokenizer the cl100k_base
// vocabulary is loaded, which fails with core.ErrConfiguration when it
// cannot be fetched.
func New(embedder ai.Embedder, opts ...Option) (*Vectorizer, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: %w", core.ErrConfiguration, ErrEmbedderRequired)
	}

	v := &Vectorizer{
		embedder:  embedder,
		maxTokens: DefaultMaxTokens,
		retry:     DefaultRetryPolicy(),
		logger:    slog.Default().With("component", "vectorizer"),
	}
	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, fmt.Errorf("%w: %w", core.ErrConfiguration, err)
		}
	}

	if v.tokenizer == nil {
		tok, err := NewTiktokenTokenizer(DefaultEncoding)
		if err != nil {
			return nil, err
		}
		v.tokenizer = tok
	}
	return v, nil
}

// MaxTokens returns the per-text token budget.
func (v *Vectorizer) MaxTokens() int {
	return v.maxTokens
}

// Tokenizer returns the tokenizer in use.
func (v *Vectorizer) Tokenizer() Tokenizer {
	return v.tokenizer
}

// Embed returns one vector per text, in input order. An empty input
// returns an empty result without a remote call. Blank texts fail with
// core.ErrInvalidInput. When the retry budget runs out the error wraps
// core.ErrTransientService.
func (v *Vectorizer) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	truncated := make([]string, len(texts))
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("%w: text %d is empty", core.ErrInvalidInput, i)
		}
		truncated[i] = Truncate(v.tokenizer, text, v.maxTokens)
		if len(truncated[i]) != len(text) {
			v.logger.Debug("truncated text", "index", i, "from", len(text), "to", len(truncated[i]))
		}
	}

	var vectors [][]float32
	err := RetryWithBackoff(ctx, func() error {
		out, err := v.embedder.EmbedTexts(ctx, truncated)
		if err != nil {
			return err
		}
		if len(out) != len(truncated) {
			return Permanent(fmt.Errorf("%w: embedding result mismatch. expected %d, received %d",
				core.ErrInvalidInput, len(truncated), len(out)))
		}
		vectors = out
		return nil
	}, v.retry)

	switch {
	case err == nil:
		return vectors, nil
	case errors.Is(err, core.ErrInvalidInput), ctx.Err() != nil:
		return nil, err
	default:
		v.logger.Error("embedding failed after retries", "texts", len(texts), "attempts", v.retry.MaxAttempts, "err", err)
		return nil, fmt.Errorf("%w: embedding %d texts failed after %d attempts: %w",
			core.ErrTransientService, len(texts), v.retry.MaxAttempts, err)
	}
}

// EmbedOne embeds a single text as a one-item batch.
func (v *Vectorizer) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vectors, err := v.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}
