package housing

import "context"

// Repository is the persistence gateway for housing units as seen by the
// tenancy engine. Creation and editorial changes belong to the listing module.
type Repository interface {
	// GetByID returns the unit or an error matching shared.ErrNotFound.
	GetByID(ctx context.Context, id string) (*Housing, error)

	// GetForUpdate is GetByID that also locks the row until the surrounding
	// unit of work ends. Stores without row locks may behave like GetByID.
	GetForUpdate(ctx context.Context, id string) (*Housing, error)

	// Exists reports whether a unit with the given id exists.
	Exists(ctx context.Context, id string) (bool, error)

	// SetAvailable persists the availability flag of an existing unit.
	// Returns an error matching shared.ErrNotFound if the unit is gone.
	SetAvailable(ctx context.Context, id string, available bool) error
}
