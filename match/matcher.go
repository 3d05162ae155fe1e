package match

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/poiesic/stylematch/catalog"
	"github.com/poiesic/stylematch/core"
	"github.com/poiesic/stylematch/rank"
)

// Vectorizer embeds query texts. *vectorize.Vectorizer satisfies it.
type Vectorizer interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Matcher recommends catalog items for caption queries.
type Matcher struct {
	vectorizer  Vectorizer
	options     rank.Options
	concurrency int
	monitor     MatchMonitor
	logger      *slog.Logger
}

// Option configures a Matcher.
type Option func(*Matcher) error

// WithThreshold sets the minimum cosine similarity a match must reach.
func WithThreshold(threshold float32) Option {
	return func(m *Matcher) error {
		m.options.Threshold = threshold
		return nil
	}
}

// WithTopK sets how many items are kept per query.
func WithTopK(k int) Option {
	return func(m *Matcher) error {
		m.options.TopK = k
		return nil
	}
}

// WithConcurrency embeds up to n queries at once.
// Default is 1.
func WithConcurrency(n int) Option {
	return func(m *Matcher) error {
		if n < 1 {
			return ErrInvalidConcurrency
		}
		m.concurrency = n
		return nil
	}
}

// WithMonitor sets the monitor that observes every Match call.
func WithMonitor(monitor MatchMonitor) Option {
	return func(m *Matcher) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		m.monitor = monitor
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// NewMatcher creates a Matcher. Threshold and top-K default to
// rank.DefaultThreshold and rank.DefaultTopK.
func NewMatcher(vectorizer Vectorizer, opts ...Option) (*Matcher, error) {
	if vectorizer == nil {
		return nil, fmt.Errorf("%w: %w", core.ErrConfiguration, ErrVectorizerRequired)
	}

	m := &Matcher{
		vectorizer:  vectorizer,
		options:     rank.DefaultOptions(),
		concurrency: 1,
		monitor:     &noopMonitor{},
		logger:      slog.Default().With("component", "matcher"),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, fmt.Errorf("%w: %w", core.ErrConfiguration, err)
		}
	}
	if err := m.options.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Options returns the ranking options in use.
func (m *Matcher) Options() rank.Options {
	return m.options
}

// Match recommends items from cat for each query. Results are grouped by
// query in input order. The catalog filter is applied once for all queries.
func (m *Matcher) Match(ctx context.Context, cat *catalog.Catalog, queries []string, targetGender core.Gender, excludedCategory string) ([]core.MatchResult, error) {
	if cat == nil {
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidInput, ErrCatalogRequired)
	}
	if err := core.ValidateGender(targetGender); err != nil {
		return nil, err
	}
	for i, q := range queries {
		if strings.TrimSpace(q) == "" {
			return nil, fmt.Errorf("%w: %w: query %d", core.ErrInvalidInput, ErrEmptyQuery, i)
		}
	}

	m.monitor.Start(queries, targetGender, excludedCategory)
	if len(queries) == 0 {
		m.monitor.Finish(nil)
		return []core.MatchResult{}, nil
	}

	view := catalog.Filter(cat, targetGender, excludedCategory)
	m.monitor.AfterFilter(view.Len(), len(view.Candidates()))
	m.logger.Debug("catalog filtered",
		"gender", targetGender,
		"excluded", excludedCategory,
		"items", view.Len(),
		"candidates", len(view.Candidates()))

	perQuery := make([][]core.MatchResult, len(queries))
	if m.concurrency == 1 || len(queries) == 1 {
		for i, q := range queries {
			results, err := m.matchQuery(ctx, view, q)
			if err != nil {
				return nil, err
			}
			perQuery[i] = results
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(m.concurrency)
		for i, q := range queries {
			g.Go(func() error {
				results, err := m.matchQuery(gctx, view, q)
				if err != nil {
					return err
				}
				perQuery[i] = results
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	var out []core.MatchResult
	for _, results := range perQuery {
		out = append(out, results...)
	}
	if out == nil {
		out = []core.MatchResult{}
	}

	m.monitor.Finish(out)
	m.logger.Info("match complete", "queries", len(queries), "results", len(out))
	return out, nil
}

// MatchCaption runs Match with the items, gender and category of a caption.
func (m *Matcher) MatchCaption(ctx context.Context, cat *catalog.Catalog, caption core.Caption) ([]core.MatchResult, error) {
	if err := core.ValidateCaption(&caption); err != nil {
		return nil, err
	}
	return m.Match(ctx, cat, caption.Items, caption.Gender, caption.Category)
}

func (m *Matcher) matchQuery(ctx context.Context, view *catalog.View, query string) ([]core.MatchResult, error) {
	vectors, err := m.vectorizer.Embed(ctx, []string{query})
	if err != nil {
		m.logger.Error("error embedding query", "query", query, "err", err)
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("%w: expected 1 vector for query, received %d", core.ErrInvalidInput, len(vectors))
	}

	scored, err := rank.RankWith(vectors[0], view.Candidates(), m.options)
	if err != nil {
		return nil, fmt.Errorf("ranking %q: %w", query, err)
	}

	results := make([]core.MatchResult, 0, len(scored))
	for _, sc := range scored {
		item, ok := view.Get(sc.ItemId)
		if !ok {
			continue
		}
		results = append(results, core.MatchResult{Query: query, Item: item, Score: sc.Score})
	}
	m.monitor.QueryMatched(query, results)
	return results, nil
}
