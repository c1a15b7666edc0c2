// Package selection tracks the single active movie selection and gates
// asynchronous recommendation results by generation.
package selection

// Ticket identifies one selection request. Every fetch outcome carries the
// ticket it was issued under.
type Ticket struct {
	Generation uint64
	MovieID    string
}

// State is the one mutable selection slot for a session.
// It is mutated only from the event loop; fetch goroutines never touch it.
type State struct {
	selectedID string
	selected   bool
	generation uint64
	pending    bool
}

// Begin records a new selection and returns its ticket.
// The generation strictly increases on every call.
func (s *State) Begin(movieID string) Ticket {
	s.generation++
	s.selectedID = movieID
	s.selected = true
	s.pending = true
	return Ticket{Generation: s.generation, MovieID: movieID}
}

// Settle reports whether t is still current. When it is, pending is cleared.
// A stale ticket leaves the state untouched.
func (s *State) Settle(t Ticket) bool {
	if !s.IsCurrent(t) {
		return false
	}
	s.pending = false
	return true
}

// IsCurrent reports whether t was issued by the latest Begin
func (s *State) IsCurrent(t Ticket) bool {
	return t.Generation == s.generation
}

// SelectedID returns the selected movie id, if any
func (s *State) SelectedID() (string, bool) {
	return s.selectedID, s.selected
}

// Generation returns the latest issued generation (0 before any selection)
func (s *State) Generation() uint64 {
	return s.generation
}

// Pending reports whether the latest request has not settled yet
func (s *State) Pending() bool {
	return s.pending
}

// Snapshot is a read-only copy of State for rendering
type Snapshot struct {
	SelectedID string
	Selected   bool
	Generation uint64
	Pending    bool
}

// Snapshot copies the current state
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		SelectedID: s.selectedID,
		Selected:   s.selected,
		Generation: s.generation,
		Pending:    s.pending,
	}
}
