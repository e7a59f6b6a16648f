package overlay

import "sync"

// Sequencer orders the results of concurrent renders: only the most recently
// issued token may apply its result.
type Sequencer struct {
	mu     sync.Mutex
	latest uint64
}

// Next issues a new token, invalidating every earlier one.
func (s *Sequencer) Next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest++
	return s.latest
}

func (s *Sequencer) IsLatest(token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return token == s.latest
}

// Apply runs fn if token is still the latest and reports whether it ran.
// No token can be issued while fn runs.
func (s *Sequencer) Apply(token uint64, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.latest {
		return false
	}
	fn()
	return true
}
