package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/lease"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEASE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// LeaseRepository implements lease.Repository for PostgreSQL.
// The contract reference is not a column; it is derived from contracts.lease_id.
type LeaseRepository struct {
	q Querier
}

// NewLeaseRepository creates a LeaseRepository over q.
func NewLeaseRepository(q Querier) *LeaseRepository {
	return &LeaseRepository{q: q}
}

const leaseColumns = `id, student_id, housing_id, state, duration_months, started_at, ended_at`

// Create inserts a new lease.
func (r *LeaseRepository) Create(ctx context.Context, l *lease.Lease) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO leases (`+leaseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, l.ID, l.StudentID, l.HousingID, string(l.State), l.DurationMonths, l.StartedAt, l.EndedAt)
	if err != nil {
		return r.translate("Create", l, err)
	}
	return nil
}

// GetByID returns a lease by ID.
func (r *LeaseRepository) GetByID(ctx context.Context, id string) (*lease.Lease, error) {
	return r.get(ctx, "GetByID", `SELECT `+leaseColumns+` FROM leases WHERE id = $1`, id)
}

// GetForUpdate returns a lease and locks its row until the transaction ends.
func (r *LeaseRepository) GetForUpdate(ctx context.Context, id string) (*lease.Lease, error) {
	return r.get(ctx, "GetForUpdate", `SELECT `+leaseColumns+` FROM leases WHERE id = $1 FOR UPDATE`, id)
}

func (r *LeaseRepository) get(ctx context.Context, op, query, id string) (*lease.Lease, error) {
	l, err := scanLease(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.NotFound("lease", op, "lease %s not found", id)
		}
		return nil, queryError("lease", "get lease", err)
	}
	return l, nil
}

// Update persists state, duration, housing and end time.
func (r *LeaseRepository) Update(ctx context.Context, l *lease.Lease) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE leases SET
			housing_id = $1,
			state = $2,
			duration_months = $3,
			ended_at = $4
		WHERE id = $5
	`, l.HousingID, string(l.State), l.DurationMonths, l.EndedAt, l.ID)
	if err != nil {
		return r.translate("Update", l, err)
	}
	if tag.RowsAffected() == 0 {
		return shared.NotFound("lease", "Update", "lease %s not found", l.ID)
	}
	return nil
}

// Delete removes a lease.
func (r *LeaseRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM leases WHERE id = $1`, id)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return shared.Conflict("lease", "Delete", "lease %s is still referenced", id)
		}
		return queryError("lease", "delete lease", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.NotFound("lease", "Delete", "lease %s not found", id)
	}
	return nil
}

// ExistsByStudentHousingState answers "is there a lease for (student, housing) in state".
func (r *LeaseRepository) ExistsByStudentHousingState(ctx context.Context, studentID, housingID string, state lease.State) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM leases WHERE student_id = $1 AND housing_id = $2 AND state = $3
		)
	`, studentID, housingID, string(state)).Scan(&exists)
	if err != nil {
		return false, queryError("lease", "check lease", err)
	}
	return exists, nil
}

// ListByStudent returns the student's leases, newest first.
func (r *LeaseRepository) ListByStudent(ctx context.Context, studentID string) ([]*lease.Lease, error) {
	return r.list(ctx, `SELECT `+leaseColumns+` FROM leases WHERE student_id = $1 ORDER BY started_at DESC, id`, studentID)
}

// ListByHousing returns the unit's leases, newest first.
func (r *LeaseRepository) ListByHousing(ctx context.Context, housingID string) ([]*lease.Lease, error) {
	return r.list(ctx, `SELECT `+leaseColumns+` FROM leases WHERE housing_id = $1 ORDER BY started_at DESC, id`, housingID)
}

func (r *LeaseRepository) list(ctx context.Context, query string, arg string) ([]*lease.Lease, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, queryError("lease", "list leases", err)
	}
	defer rows.Close()

	leases := make([]*lease.Lease, 0)
	for rows.Next() {
		l, err := scanLease(rows)
		if err != nil {
			return nil, queryError("lease", "scan lease", err)
		}
		leases = append(leases, l)
	}
	return leases, rows.Err()
}

func (r *LeaseRepository) translate(op string, l *lease.Lease, err error) error {
	switch {
	case IsUniqueViolation(err, constraintOneActiveLease):
		return shared.Conflict("lease", op, "housing %s already has an active lease", l.HousingID)
	case IsUniqueViolation(err, ""):
		return shared.Conflict("lease", op, "lease %s already exists", l.ID)
	case IsForeignKeyViolation(err):
		return shared.NotFound("lease", op, "student %s or housing %s not found", l.StudentID, l.HousingID)
	default:
		return queryError("lease", op+" lease", err)
	}
}

func scanLease(row pgx.Row) (*lease.Lease, error) {
	var (
		l     lease.Lease
		state string
	)
	if err := row.Scan(&l.ID, &l.StudentID, &l.HousingID, &state, &l.DurationMonths, &l.StartedAt, &l.EndedAt); err != nil {
		return nil, err
	}
	l.State = lease.State(state)
	return &l, nil
}
