// Package memory holds in-process repositories used as test doubles. A Store
// is built per test and thrown away with it.
package memory

import (
	"sync"

	"scamwatch/internal/domain/entity"
)

type Store struct {
	mu sync.Mutex

	reports   map[string]*entity.ScamReport
	groups    map[string]*entity.ConsolidatedScam
	groupKeys map[string]string // matchKey -> group id
	links     map[string]*entity.ReportConsolidationLink
	comments  []*entity.ScamComment
	stats     map[entity.StatsScope]*entity.ScamStats
	users     map[string]*entity.User
}

func NewStore() *Store {
	return &Store{
		reports:   make(map[string]*entity.ScamReport),
		groups:    make(map[string]*entity.ConsolidatedScam),
		groupKeys: make(map[string]string),
		links:     make(map[string]*entity.ReportConsolidationLink),
		stats:     make(map[entity.StatsScope]*entity.ScamStats),
		users:     make(map[string]*entity.User),
	}
}

// LinkCount returns how many links point at a group, for invariant checks in tests.
func (s *Store) LinkCount(groupID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, l := range s.links {
		if l.ConsolidatedScamID == groupID {
			n++
		}
	}
	return n
}

func copyReport(r *entity.ScamReport) *entity.ScamReport {
	cp := *r
	if r.Proof != nil {
		proof := *r.Proof
		cp.Proof = &proof
	}
	return &cp
}

func copyGroup(g *entity.ConsolidatedScam) *entity.ConsolidatedScam {
	cp := *g
	return &cp
}
