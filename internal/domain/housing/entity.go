// Package housing holds the part of the housing-unit aggregate the tenancy
// engine cares about: identity and the availability flag. Listing details
// (address, media, owner) live in other modules.
package housing

import (
	"fmt"
	"time"
)

// Housing is a rentable unit. Available=false means the unit is presumed to
// carry exactly one ACTIVE lease.
type Housing struct {
	// ID - unique identifier (UUID in string form).
	ID string

	// Name - display name, informational only.
	Name string

	// Available - whether a new lease may be opened on the unit.
	Available bool

	// UpdatedAt - time of the last availability change.
	UpdatedAt time.Time
}

// SetAvailable flips the availability flag and stamps the change time.
func (h *Housing) SetAvailable(available bool, at time.Time) {
	h.Available = available
	h.UpdatedAt = at
}

// String returns a compact representation for logging.
func (h *Housing) String() string {
	return fmt.Sprintf("Housing{ID: %s, Available: %t}", h.ID, h.Available)
}

// Clone returns a copy safe to hand out of a store.
func (h *Housing) Clone() *Housing {
	if h == nil {
		return nil
	}
	clone := *h
	return &clone
}
