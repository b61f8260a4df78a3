package designer

import (
	"sync"

	"github.com/Khushitha-V/altarmaker/core"
)

// WallStore holds the current design of every wall. It is the single
// source of truth for "what does this wall look like now"; the four wall
// keys always exist and a write to one wall never touches the others.
type WallStore struct {
	mu       sync.RWMutex
	designs  map[core.Wall]core.WallDesign
	onChange func()
}

// NewWallStore returns a store with all four walls empty.
func NewWallStore() *WallStore {
	return &WallStore{designs: core.EmptyWallDesigns()}
}

// OnChange registers fn to run after every mutation of the mapping. Used
// to arm the autosave debounce.
func (s *WallStore) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Get returns the design stored for w. An unselected or unknown wall
// yields an empty design rather than an error.
func (s *WallStore) Get(w core.Wall) core.WallDesign {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if d, ok := s.designs[w]; ok {
		return d.Clone()
	}
	return core.EmptyWallDesign()
}

// Set stores the design for w. Writes for invalid walls are dropped.
func (s *WallStore) Set(w core.Wall, d core.WallDesign) {
	if !w.Valid() {
		return
	}
	s.mu.Lock()
	s.designs[w] = d.Clone()
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// ReplaceAll swaps in a full mapping, used on session load. Walls missing
// from the argument come back empty.
func (s *WallStore) ReplaceAll(designs map[core.Wall]core.WallDesign) {
	s.mu.Lock()
	s.designs = core.CloneWallDesigns(designs)
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Reset restores all four walls to empty, used on new-session.
func (s *WallStore) Reset() {
	s.ReplaceAll(nil)
}

// Snapshot returns a deep copy of the full mapping for persistence.
func (s *WallStore) Snapshot() map[core.Wall]core.WallDesign {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.CloneWallDesigns(s.designs)
}
