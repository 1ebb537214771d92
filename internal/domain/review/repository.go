package review

import "context"

// Repository is the persistence gateway for reviews.
type Repository interface {
	// Create stores a new review.
	Create(ctx context.Context, r *Review) error

	// GetByID returns the review or an error matching shared.ErrNotFound.
	GetByID(ctx context.Context, id string) (*Review, error)

	// Update persists content, rating and modification time.
	Update(ctx context.Context, r *Review) error

	// Delete removes the review record.
	Delete(ctx context.Context, id string) error

	// ListByHousing returns the unit's reviews, newest first.
	ListByHousing(ctx context.Context, housingID string) ([]*Review, error)
}
