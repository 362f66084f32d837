// Package state holds the per-dashboard view state the presentation layer
// renders from: the loading flag, the sticky error message, and the in-memory
// driver and team lists. One State is owned by the active view and passed
// into every repository operation; it is not a process-wide singleton.
package state

import (
	"sync"

	"github.com/paddocklab/racing-admin/shared/models"
)

type State struct {
	mu      sync.Mutex
	loading bool
	errMsg  string
	drivers []models.Driver
	teams   []models.TeamView
}

func New() *State {
	return &State{}
}

// BeginOp marks the state as loading. Every fetching or mutating operation
// calls this on entry and defers EndOp.
func (s *State) BeginOp() {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
}

func (s *State) EndOp() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

func (s *State) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// SetError records a user-facing failure message. The message is sticky: it
// stays until the next ClearError, it is never reset by unrelated successful
// operations.
func (s *State) SetError(msg string) {
	s.mu.Lock()
	s.errMsg = msg
	s.mu.Unlock()
}

// ClearError resets the error message. Only login/register and explicit
// form-submit paths call this.
func (s *State) ClearError() {
	s.mu.Lock()
	s.errMsg = ""
	s.mu.Unlock()
}

func (s *State) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// SetDrivers replaces the in-memory driver list with a fetch result.
func (s *State) SetDrivers(drivers []models.Driver) {
	s.mu.Lock()
	s.drivers = drivers
	s.mu.Unlock()
}

// Drivers returns a copy of the in-memory driver list.
func (s *State) Drivers() []models.Driver {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Driver, len(s.drivers))
	copy(out, s.drivers)
	return out
}

// RemoveDriver drops the driver with the given document key from the
// in-memory list. Used for the optimistic removal before the remote delete.
func (s *State) RemoveDriver(docID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.drivers[:0]
	for _, d := range s.drivers {
		if d.DocID != docID {
			kept = append(kept, d)
		}
	}
	s.drivers = kept
}

// SetTeams replaces the in-memory team list with a fetch result.
func (s *State) SetTeams(teams []models.TeamView) {
	s.mu.Lock()
	s.teams = teams
	s.mu.Unlock()
}

// Teams returns a copy of the in-memory team list.
func (s *State) Teams() []models.TeamView {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.TeamView, len(s.teams))
	copy(out, s.teams)
	return out
}

// RemoveTeam drops the team with the given document key from the in-memory
// list.
func (s *State) RemoveTeam(docID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.teams[:0]
	for _, t := range s.teams {
		if t.DocID != docID {
			kept = append(kept, t)
		}
	}
	s.teams = kept
}
