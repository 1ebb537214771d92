package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/review"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REVIEW REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ReviewRepository implements review.Repository for PostgreSQL.
type ReviewRepository struct {
	q Querier
}

// NewReviewRepository creates a ReviewRepository over q.
func NewReviewRepository(q Querier) *ReviewRepository {
	return &ReviewRepository{q: q}
}

const reviewColumns = `id, content, rating, housing_id, author_id, created_at, modified_at`

// Create inserts a new review.
func (r *ReviewRepository) Create(ctx context.Context, rv *review.Review) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO reviews (`+reviewColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, rv.ID, rv.Content, int(rv.Rating), rv.HousingID, rv.AuthorID, rv.CreatedAt, rv.ModifiedAt)
	if err != nil {
		switch {
		case IsUniqueViolation(err, ""):
			return shared.Conflict("review", "Create", "review %s already exists", rv.ID)
		case IsForeignKeyViolation(err):
			return shared.NotFound("review", "Create", "housing %s or author %s not found", rv.HousingID, rv.AuthorID)
		}
		return queryError("review", "create review", err)
	}
	return nil
}

// GetByID returns a review by ID.
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*review.Review, error) {
	rv, err := scanReview(r.q.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.NotFound("review", "GetByID", "review %s not found", id)
		}
		return nil, queryError("review", "get review", err)
	}
	return rv, nil
}

// Update persists content, rating and modification time.
func (r *ReviewRepository) Update(ctx context.Context, rv *review.Review) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE reviews SET content = $1, rating = $2, modified_at = $3 WHERE id = $4
	`, rv.Content, int(rv.Rating), rv.ModifiedAt, rv.ID)
	if err != nil {
		return queryError("review", "update review", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.NotFound("review", "Update", "review %s not found", rv.ID)
	}
	return nil
}

// Delete removes a review.
func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return queryError("review", "delete review", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.NotFound("review", "Delete", "review %s not found", id)
	}
	return nil
}

// ListByHousing returns the unit's reviews, newest first.
func (r *ReviewRepository) ListByHousing(ctx context.Context, housingID string) ([]*review.Review, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+reviewColumns+` FROM reviews WHERE housing_id = $1 ORDER BY created_at DESC, id
	`, housingID)
	if err != nil {
		return nil, queryError("review", "list reviews", err)
	}
	defer rows.Close()

	reviews := make([]*review.Review, 0)
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, queryError("review", "scan review", err)
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

func scanReview(row pgx.Row) (*review.Review, error) {
	var (
		rv     review.Review
		rating int
	)
	if err := row.Scan(&rv.ID, &rv.Content, &rating, &rv.HousingID, &rv.AuthorID, &rv.CreatedAt, &rv.ModifiedAt); err != nil {
		return nil, err
	}
	rv.Rating = review.Rating(rating)
	return &rv, nil
}
