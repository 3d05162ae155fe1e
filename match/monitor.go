package match

import (
	"github.com/poiesic/stylematch/core"
)

// MatchMonitor provides hooks to observe a match run.
// With WithConcurrency, QueryMatched may be called from several goroutines.
type MatchMonitor interface {
	Start(queries []string, targetGender core.Gender, excludedCategory string)
	AfterFilter(items, candidates int)
	QueryMatched(query string, results []core.MatchResult)
	Finish(results []core.MatchResult)
}

// noopMonitor is a no-op implementation of MatchMonitor
type noopMonitor struct{}

var _ MatchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ []string, _ core.Gender, _ string)   {}
func (n *noopMonitor) AfterFilter(_, _ int)                        {}
func (n *noopMonitor) QueryMatched(_ string, _ []core.MatchResult) {}
func (n *noopMonitor) Finish(_ []core.MatchResult)                 {}
