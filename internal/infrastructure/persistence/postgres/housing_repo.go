package postgres

import (
	"context"

	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/housing"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// HOUSING REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// HousingRepository implements housing.Repository for PostgreSQL.
type HousingRepository struct {
	q Querier
}

// NewHousingRepository creates a HousingRepository over q (a pool or a tx).
func NewHousingRepository(q Querier) *HousingRepository {
	return &HousingRepository{q: q}
}

const housingColumns = `id, name, available, updated_at`

// GetByID returns a housing unit by ID.
func (r *HousingRepository) GetByID(ctx context.Context, id string) (*housing.Housing, error) {
	return r.get(ctx, "GetByID", `SELECT `+housingColumns+` FROM housings WHERE id = $1`, id)
}

// GetForUpdate returns a housing unit and locks its row until the transaction ends.
func (r *HousingRepository) GetForUpdate(ctx context.Context, id string) (*housing.Housing, error) {
	return r.get(ctx, "GetForUpdate", `SELECT `+housingColumns+` FROM housings WHERE id = $1 FOR UPDATE`, id)
}

func (r *HousingRepository) get(ctx context.Context, op, query, id string) (*housing.Housing, error) {
	var h housing.Housing
	err := r.q.QueryRow(ctx, query, id).Scan(&h.ID, &h.Name, &h.Available, &h.UpdatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.NotFound("housing", op, "housing %s not found", id)
		}
		return nil, queryError("housing", "get housing", err)
	}
	return &h, nil
}

// Exists reports whether a housing unit exists.
func (r *HousingRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM housings WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, queryError("housing", "check housing", err)
	}
	return exists, nil
}

// SetAvailable persists the availability flag.
func (r *HousingRepository) SetAvailable(ctx context.Context, id string, available bool) error {
	tag, err := r.q.Exec(ctx, `UPDATE housings SET available = $1, updated_at = NOW() WHERE id = $2`, available, id)
	if err != nil {
		return queryError("housing", "set housing availability", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.NotFound("housing", "SetAvailable", "housing %s not found", id)
	}
	return nil
}

// Upsert inserts or renames a housing unit. Used by the seed command; the
// listing module owns these rows in production.
func (r *HousingRepository) Upsert(ctx context.Context, h *housing.Housing) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO housings (id, name, available, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
	`, h.ID, h.Name, h.Available)
	if err != nil {
		return queryError("housing", "upsert housing", err)
	}
	return nil
}
