package fixtures

import "sync"

// ScriptedRand replays a fixed sequence of draws, cycling when exhausted.
// Each value is reduced modulo n so scripts stay valid for any strip.
type ScriptedRand struct {
	mu     sync.Mutex
	values []int
	next   int
	Calls  []int // n of every IntN call, in order
}

// NewScriptedRand returns a source replaying values
func NewScriptedRand(values ...int) *ScriptedRand {
	return &ScriptedRand{values: values}
}

// IntN returns the next scripted value modulo n
func (s *ScriptedRand) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, n)
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v % n
}
