package browse

import (
	"fmt"

	"github.com/bookconnect/bookconnect-server/internal/domain"
)

// State is where the controller is in its lifecycle.
type State int

const (
	// Uninitialized is the state before a catalog has been loaded.
	Uninitialized State = iota
	// Browsing shows the unfiltered catalog.
	Browsing
	// Filtered shows a non-empty search result.
	Filtered
	// Empty shows the no-results message.
	Empty
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Browsing:
		return "browsing"
	case Filtered:
		return "filtered"
	case Empty:
		return "empty"
	default:
		return "unknown"
	}
}

// MarshalText lets State serialize as its name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name written by MarshalText.
func (s *State) UnmarshalText(text []byte) error {
	for _, st := range []State{Uninitialized, Browsing, Filtered, Empty} {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown browse state %q", text)
}

// Snapshot is a read-only view of the controller for the outside world.
type Snapshot struct {
	State     State                 `json:"state"`
	Criteria  domain.FilterCriteria `json:"criteria"`
	Window    domain.PageWindow     `json:"window"`
	Total     int                   `json:"total"`
	Remaining int                   `json:"remaining"`
	HasMore   bool                  `json:"has_more"`
}

// Batch is the outcome of an event that revealed books.
type Batch struct {
	Items     []Preview `json:"items"`
	Remaining int       `json:"remaining"`
	HasMore   bool      `json:"has_more"`
}
