package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/contract"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONTRACT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ContractRepository implements contract.Repository for PostgreSQL.
type ContractRepository struct {
	q Querier
}

// NewContractRepository creates a ContractRepository over q.
func NewContractRepository(q Querier) *ContractRepository {
	return &ContractRepository{q: q}
}

const contractColumns = `id, code, start_date, end_date, total_amount, lease_id, created_at, updated_at`

// Create inserts a new contract.
func (r *ContractRepository) Create(ctx context.Context, c *contract.Contract) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO contracts (`+contractColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, c.ID, c.Code, c.StartDate, c.EndDate, c.TotalAmount, c.LeaseID, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return r.translate("Create", c, err)
	}
	return nil
}

// GetByID returns a contract by ID.
func (r *ContractRepository) GetByID(ctx context.Context, id string) (*contract.Contract, error) {
	c, err := scanContract(r.q.QueryRow(ctx, `SELECT `+contractColumns+` FROM contracts WHERE id = $1`, id))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.NotFound("contract", "GetByID", "contract %s not found", id)
		}
		return nil, queryError("contract", "get contract", err)
	}
	return c, nil
}

// GetByLeaseID returns the contract bound to a lease.
func (r *ContractRepository) GetByLeaseID(ctx context.Context, leaseID string) (*contract.Contract, error) {
	c, err := scanContract(r.q.QueryRow(ctx, `SELECT `+contractColumns+` FROM contracts WHERE lease_id = $1`, leaseID))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.NotFound("contract", "GetByLeaseID", "no contract for lease %s", leaseID)
		}
		return nil, queryError("contract", "get contract by lease", err)
	}
	return c, nil
}

// Update persists code, dates and amount. lease_id is never rewritten.
func (r *ContractRepository) Update(ctx context.Context, c *contract.Contract) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE contracts SET
			code = $1,
			start_date = $2,
			end_date = $3,
			total_amount = $4,
			updated_at = $5
		WHERE id = $6
	`, c.Code, c.StartDate, c.EndDate, c.TotalAmount, c.UpdatedAt, c.ID)
	if err != nil {
		return r.translate("Update", c, err)
	}
	if tag.RowsAffected() == 0 {
		return shared.NotFound("contract", "Update", "contract %s not found", c.ID)
	}
	return nil
}

// Delete removes a contract.
func (r *ContractRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM contracts WHERE id = $1`, id)
	if err != nil {
		return queryError("contract", "delete contract", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.NotFound("contract", "Delete", "contract %s not found", id)
	}
	return nil
}

// ExistsByCode answers "is the code taken", ignoring case.
func (r *ContractRepository) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM contracts WHERE lower(code) = lower($1) AND id <> $2
		)
	`, code, excludeID).Scan(&exists)
	if err != nil {
		return false, queryError("contract", "check contract code", err)
	}
	return exists, nil
}

// ExistsByLeaseID answers "is a contract bound to this lease".
func (r *ContractRepository) ExistsByLeaseID(ctx context.Context, leaseID string) (bool, error) {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM contracts WHERE lease_id = $1)`, leaseID).Scan(&exists); err != nil {
		return false, queryError("contract", "check contract lease", err)
	}
	return exists, nil
}

func (r *ContractRepository) translate(op string, c *contract.Contract, err error) error {
	switch {
	case IsUniqueViolation(err, constraintContractCode):
		return shared.Validation("contract", op, "code %q is already in use", c.Code)
	case IsUniqueViolation(err, constraintContractLease):
		return shared.Conflict("contract", op, "lease %s already has a contract", c.LeaseID)
	case IsUniqueViolation(err, ""):
		return shared.Conflict("contract", op, "contract %s already exists", c.ID)
	case IsForeignKeyViolation(err):
		return shared.NotFound("contract", op, "lease %s not found", c.LeaseID)
	default:
		return queryError("contract", op+" contract", err)
	}
}

func scanContract(row pgx.Row) (*contract.Contract, error) {
	var c contract.Contract
	if err := row.Scan(&c.ID, &c.Code, &c.StartDate, &c.EndDate, &c.TotalAmount, &c.LeaseID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
