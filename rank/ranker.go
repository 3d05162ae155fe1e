package rank

import (
	"fmt"
	"slices"

	"github.com/poiesic/stylematch/core"
)

// Defaults for request-time matching.
const (
	DefaultThreshold float32 = 0.6
	DefaultTopK              = 2
)

// Candidate is a catalog vector eligible for ranking.
type Candidate struct {
	ID     string
	Vector []float32
}

// Options controls which scored candidates are kept.
type Options struct {
	Threshold float32 // Minimum score, inclusive
	TopK      int     // Maximum number of results
}

// DefaultOptions returns the request-time defaults: threshold 0.6, top 2.
func DefaultOptions() Options {
	return Options{Threshold: DefaultThreshold, TopK: DefaultTopK}
}

// Validate checks the options are usable.
func (o Options) Validate() error {
	if o.Threshold < -1 || o.Threshold > 1 {
		return fmt.Errorf("%w: threshold %v outside [-1, 1]", core.ErrConfiguration, o.Threshold)
	}
	if o.TopK < 0 {
		return fmt.Errorf("%w: topK cannot be negative", core.ErrConfiguration)
	}
	return nil
}

// Rank scores every candidate against query and returns at most topK
// entries whose score is >= threshold, ordered by descending score.
// Candidates with equal scores keep their input order.
//
// An empty query vector, or a candidate whose length differs from the
// query, fails with core.ErrDimensionMismatch.
func Rank(query []float32, candidates []Candidate, threshold float32, topK int) ([]core.ScoredCandidate, error) {
	if len(query) == 0 {
		return nil, fmt.Errorf("%w: query vector is empty", core.ErrInvalidInput)
	}
	if topK <= 0 {
		return []core.ScoredCandidate{}, nil
	}

	scored := make([]core.ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		score, err := CosineSimilarity(query, c.Vector)
		if err != nil {
			return nil, fmt.Errorf("candidate %s: %w", c.ID, err)
		}
		if score >= threshold {
			scored = append(scored, core.ScoredCandidate{ItemId: c.ID, Score: score})
		}
	}

	slices.SortStableFunc(scored, func(a, b core.ScoredCandidate) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

// RankWith is Rank using opts.
func RankWith(query []float32, candidates []Candidate, opts Options) ([]core.ScoredCandidate, error) {
	return Rank(query, candidates, opts.Threshold, opts.TopK)
}
