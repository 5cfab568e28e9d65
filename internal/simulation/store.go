package simulation

import (
	"sort"
	"sync"
)

// ReportStore keeps the latest report per game for the ops endpoints
type ReportStore struct {
	mu      sync.RWMutex
	reports map[string]*Report
	exact   map[string]*ExactReport
}

// NewReportStore creates an empty store
func NewReportStore() *ReportStore {
	return &ReportStore{
		reports: make(map[string]*Report),
		exact:   make(map[string]*ExactReport),
	}
}

// Put replaces the simulated report of r.GameID
func (s *ReportStore) Put(r *Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[r.GameID] = r
}

// PutExact replaces the enumerated report of r.GameID
func (s *ReportStore) PutExact(r *ExactReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exact[r.GameID] = r
}

// Get returns the simulated report of a game
func (s *ReportStore) Get(gameID string) (*Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[gameID]
	return r, ok
}

// GetExact returns the enumerated report of a game
func (s *ReportStore) GetExact(gameID string) (*ExactReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.exact[gameID]
	return r, ok
}

// Games lists every game with at least one report, sorted
func (s *ReportStore) Games() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{}, len(s.reports)+len(s.exact))
	for id := range s.reports {
		seen[id] = struct{}{}
	}
	for id := range s.exact {
		seen[id] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
