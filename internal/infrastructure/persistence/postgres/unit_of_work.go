package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/contract"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/housing"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/lease"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/review"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/student"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/uow"
)

// ══════════════════════════════════════════════════════════════════════════════
// UNIT OF WORK
// ══════════════════════════════════════════════════════════════════════════════

// UnitOfWorkFactory opens SERIALIZABLE transactions over the tenancy tables.
type UnitOfWorkFactory struct {
	conn *Connection
}

// NewUnitOfWorkFactory creates a UnitOfWorkFactory.
func NewUnitOfWorkFactory(conn *Connection) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{conn: conn}
}

var _ uow.Factory = (*UnitOfWorkFactory)(nil)

// Begin implements uow.Factory.
func (f *UnitOfWorkFactory) Begin(ctx context.Context) (uow.UnitOfWork, error) {
	tx, err := f.conn.BeginTx(ctx, SerializableTxOptions())
	if err != nil {
		return nil, err
	}
	return &unitOfWork{tx: tx}, nil
}

type unitOfWork struct {
	tx pgx.Tx
}

func (u *unitOfWork) Housings() housing.Repository   { return NewHousingRepository(u.tx) }
func (u *unitOfWork) Students() student.Directory    { return NewStudentDirectory(u.tx) }
func (u *unitOfWork) Leases() lease.Repository       { return NewLeaseRepository(u.tx) }
func (u *unitOfWork) Contracts() contract.Repository { return NewContractRepository(u.tx) }
func (u *unitOfWork) Reviews() review.Repository     { return NewReviewRepository(u.tx) }

// Commit commits the transaction. A lost serialization race surfaces as a
// Conflict: the caller resubmits against the new state.
func (u *unitOfWork) Commit(ctx context.Context) error {
	if err := u.tx.Commit(ctx); err != nil {
		if IsSerializationFailure(err) {
			return queryError("tenancy", "Commit", err)
		}
		return fmt.Errorf("%w: %v", ErrTransactionFailed, err)
	}
	return nil
}

// Rollback rolls the transaction back; after Commit it does nothing.
func (u *unitOfWork) Rollback(ctx context.Context) error {
	if err := u.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}
