package memory

import (
	"context"
	"sync"

	"financas/internal/sheets"
)

// Store is an in-memory ExportWriter used by tests and local runs
// without Google credentials.
type Store struct {
	mu      sync.Mutex
	exports []sheets.Export
}

var _ sheets.ExportWriter = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) Write(_ context.Context, export sheets.Export) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exports = append(s.exports, export)
	return nil
}

// Last returns the most recent export and whether one exists.
func (s *Store) Last() (sheets.Export, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.exports) == 0 {
		return sheets.Export{}, false
	}
	return s.exports[len(s.exports)-1], true
}
