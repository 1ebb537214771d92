package contract

import "context"

// Repository is the persistence gateway for contracts.
type Repository interface {
	// Create stores a new contract.
	Create(ctx context.Context, c *Contract) error

	// GetByID returns the contract or an error matching shared.ErrNotFound.
	GetByID(ctx context.Context, id string) (*Contract, error)

	// GetByLeaseID returns the contract bound to a lease, or an error
	// matching shared.ErrNotFound when the lease is unbound.
	GetByLeaseID(ctx context.Context, leaseID string) (*Contract, error)

	// Update persists code, dates and amount.
	Update(ctx context.Context, c *Contract) error

	// Delete removes the contract record.
	Delete(ctx context.Context, id string) error

	// ExistsByCode answers "is the code taken", ignoring case. A non-empty
	// excludeID leaves that contract out of the check.
	ExistsByCode(ctx context.Context, code, excludeID string) (bool, error)

	// ExistsByLeaseID answers "is a contract bound to this lease".
	ExistsByLeaseID(ctx context.Context, leaseID string) (bool, error)
}
