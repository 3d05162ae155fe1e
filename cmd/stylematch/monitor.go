package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/poiesic/stylematch/core"
	"github.com/poiesic/stylematch/match"
)

// printMonitor writes a line for each stage of a match run.
type printMonitor struct {
	mu sync.Mutex
	w  io.Writer
}

var _ match.MatchMonitor = (*printMonitor)(nil)

func newPrintMonitor(w io.Writer) *printMonitor {
	return &printMonitor{w: w}
}

func (p *printMonitor) Start(queries []string, targetGender core.Gender, excludedCategory string) {
	p.printf("Matching %d descriptions for %s", len(queries), targetGender)
	if excludedCategory != "" {
		p.printf(", excluding %s", excludedCategory)
	}
	p.printf("\n")
}

func (p *printMonitor) AfterFilter(items, candidates int) {
	p.printf("Filtered catalog: %d items, %d with embeddings\n", items, candidates)
}

func (p *printMonitor) QueryMatched(query string, results []core.MatchResult) {
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.Item.Id
	}
	p.printf("  %q -> %d matches [%s]\n", query, len(results), strings.Join(ids, ", "))
}

func (p *printMonitor) Finish(results []core.MatchResult) {
	p.printf("Done: %d matches\n", len(results))
}

func (p *printMonitor) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, format, args...)
}
