package lease

import "context"

// Repository is the persistence gateway for leases.
type Repository interface {
	// Create stores a new lease.
	Create(ctx context.Context, l *Lease) error

	// GetByID returns the lease or an error matching shared.ErrNotFound.
	// ContractID is not populated by the repository.
	GetByID(ctx context.Context, id string) (*Lease, error)

	// GetForUpdate is GetByID that also holds the lease row until the unit of
	// work ends, so two transitions on one lease queue instead of racing.
	GetForUpdate(ctx context.Context, id string) (*Lease, error)

	// Update persists state, duration, housing and end time.
	Update(ctx context.Context, l *Lease) error

	// Delete removes the lease record.
	Delete(ctx context.Context, id string) error

	// ExistsByStudentHousingState answers "is there a lease for (student,
	// housing) in the given state".
	ExistsByStudentHousingState(ctx context.Context, studentID, housingID string, state State) (bool, error)

	// ListByStudent returns the student's leases, newest first.
	ListByStudent(ctx context.Context, studentID string) ([]*Lease, error)

	// ListByHousing returns the unit's leases, newest first.
	ListByHousing(ctx context.Context, housingID string) ([]*Lease, error)
}
