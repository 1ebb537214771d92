package tenancy

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/contract"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/shared"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/uow"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/pkg/logger"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/pkg/timeutil"
)

const contractDomain = "contract"

// ══════════════════════════════════════════════════════════════════════════════
// CONTRACT BINDER
// Binds at most one contract to a lease. The contract's LeaseID is the only
// stored reference; leases resolve their contract by lookup.
// ══════════════════════════════════════════════════════════════════════════════

// ContractInput is the data for a new contract.
type ContractInput struct {
	Code        string
	StartDate   *time.Time
	EndDate     *time.Time
	TotalAmount float64
	LeaseID     string
}

// ContractPatch lists the mutable contract fields. Nil leaves a field
// unchanged. LeaseID is accepted only to reject a rebind.
type ContractPatch struct {
	Code        *string
	StartDate   *time.Time
	EndDate     *time.Time
	TotalAmount *float64
	LeaseID     *string
}

// ContractBinder owns contract creation, edits and removal.
type ContractBinder struct {
	rt  *runtime
	log *logger.Logger
}

// Create binds a new contract to a lease.
// Checks, in order: code shape, code unused (ignoring case), lease exists,
// lease unbound, period, amount.
func (b *ContractBinder) Create(ctx context.Context, in ContractInput) (_ *contract.Contract, err error) {
	ctx, span := b.rt.start(ctx, "ContractBinder.Create", attribute.String("lease.id", in.LeaseID))
	defer func() { finish(span, err) }()

	code := contract.NormalizeCode(in.Code)
	var created *contract.Contract
	err = b.rt.inTx(ctx, func(u uow.UnitOfWork) error {
		if err := checkCode(ctx, u, "Create", code, ""); err != nil {
			return err
		}

		if _, err := lockLease(ctx, u, "Create", in.LeaseID); err != nil {
			if shared.IsNotFound(err) {
				return shared.NotFound(contractDomain, "Create", "lease %s not found", in.LeaseID)
			}
			return err
		}
		bound, err := u.Contracts().ExistsByLeaseID(ctx, in.LeaseID)
		if err != nil {
			return err
		}
		if bound {
			return shared.Conflict(contractDomain, "Create", "lease %s already has a contract", in.LeaseID)
		}

		if err := contract.ValidatePeriod("Create", in.StartDate, in.EndDate); err != nil {
			return err
		}
		if err := contract.ValidateAmount("Create", in.TotalAmount); err != nil {
			return err
		}

		now := b.rt.clock.Now().UTC()
		c := &contract.Contract{
			ID:          b.rt.newID(),
			Code:        code,
			StartDate:   *in.StartDate,
			EndDate:     *in.EndDate,
			TotalAmount: in.TotalAmount,
			LeaseID:     in.LeaseID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := u.Contracts().Create(ctx, c); err != nil {
			return err
		}
		created = c
		return nil
	})
	if err != nil {
		rejected(b.log, "Create", err, logger.LeaseID(in.LeaseID), logger.String("code", code))
		return nil, err
	}

	span.SetAttributes(attribute.String("contract.id", created.ID))
	b.log.Info("contract bound",
		logger.ContractID(created.ID),
		logger.LeaseID(created.LeaseID),
		logger.String("code", created.Code),
	)
	return created, nil
}

// Update edits code, period and amount. The bound lease never changes.
func (b *ContractBinder) Update(ctx context.Context, contractID string, patch ContractPatch) (_ *contract.Contract, err error) {
	ctx, span := b.rt.start(ctx, "ContractBinder.Update", attribute.String("contract.id", contractID))
	defer func() { finish(span, err) }()

	var result *contract.Contract
	err = b.rt.inTx(ctx, func(u uow.UnitOfWork) error {
		c, err := getContract(ctx, u, "Update", contractID)
		if err != nil {
			return err
		}
		if patch.LeaseID != nil && *patch.LeaseID != c.LeaseID {
			return shared.Conflict(contractDomain, "Update", "contract %s is bound to lease %s", c.ID, c.LeaseID)
		}

		code := c.Code
		if patch.Code != nil {
			code = contract.NormalizeCode(*patch.Code)
		}
		start, end := c.StartDate, c.EndDate
		if patch.StartDate != nil {
			start = *patch.StartDate
		}
		if patch.EndDate != nil {
			end = *patch.EndDate
		}
		amount := c.TotalAmount
		if patch.TotalAmount != nil {
			amount = *patch.TotalAmount
		}

		if err := checkCode(ctx, u, "Update", code, c.ID); err != nil {
			return err
		}
		if err := contract.ValidatePeriod("Update", &start, &end); err != nil {
			return err
		}
		if err := contract.ValidateAmount("Update", amount); err != nil {
			return err
		}

		c.Code = code
		c.StartDate = start
		c.EndDate = end
		c.TotalAmount = amount
		c.UpdatedAt = b.rt.clock.Now().UTC()
		if err := u.Contracts().Update(ctx, c); err != nil {
			return err
		}
		result = c
		return nil
	})
	if err != nil {
		rejected(b.log, "Update", err, logger.ContractID(contractID))
		return nil, err
	}

	b.log.Info("contract updated", logger.ContractID(result.ID), logger.String("code", result.Code))
	return result, nil
}

// Location is the zone contract dates are read and compared in.
func (b *ContractBinder) Location() *time.Location {
	return timeutil.Location(b.rt.clock)
}

// Delete removes a contract that is no longer current. The lease's contract
// reference clears with it.
func (b *ContractBinder) Delete(ctx context.Context, contractID string) (err error) {
	ctx, span := b.rt.start(ctx, "ContractBinder.Delete", attribute.String("contract.id", contractID))
	defer func() { finish(span, err) }()

	var leaseID string
	err = b.rt.inTx(ctx, func(u uow.UnitOfWork) error {
		c, err := getContract(ctx, u, "Delete", contractID)
		if err != nil {
			return err
		}
		today := timeutil.Today(b.rt.clock)
		if c.IsCurrent(today) {
			return shared.Conflict(contractDomain, "Delete", "contract %s is current until %s",
				c.ID, timeutil.FormatDateStr(c.EndDate, today.Location()))
		}
		leaseID = c.LeaseID
		return u.Contracts().Delete(ctx, c.ID)
	})
	if err != nil {
		rejected(b.log, "Delete", err, logger.ContractID(contractID))
		return err
	}

	b.log.Info("contract deleted", logger.ContractID(contractID), logger.LeaseID(leaseID))
	return nil
}

// Get returns a contract by id.
func (b *ContractBinder) Get(ctx context.Context, contractID string) (_ *contract.Contract, err error) {
	ctx, span := b.rt.start(ctx, "ContractBinder.Get", attribute.String("contract.id", contractID))
	defer func() { finish(span, err) }()

	var result *contract.Contract
	err = b.rt.inTx(ctx, func(u uow.UnitOfWork) error {
		var txErr error
		result, txErr = getContract(ctx, u, "Get", contractID)
		return txErr
	})
	return result, err
}

// GetByLease returns the contract bound to a lease.
func (b *ContractBinder) GetByLease(ctx context.Context, leaseID string) (_ *contract.Contract, err error) {
	ctx, span := b.rt.start(ctx, "ContractBinder.GetByLease", attribute.String("lease.id", leaseID))
	defer func() { finish(span, err) }()

	var result *contract.Contract
	err = b.rt.inTx(ctx, func(u uow.UnitOfWork) error {
		c, err := u.Contracts().GetByLeaseID(ctx, leaseID)
		if err != nil {
			if shared.IsNotFound(err) {
				return shared.NotFound(contractDomain, "GetByLease", "lease %s has no contract", leaseID)
			}
			return err
		}
		result = c
		return nil
	})
	return result, err
}

func getContract(ctx context.Context, u uow.UnitOfWork, op, contractID string) (*contract.Contract, error) {
	c, err := u.Contracts().GetByID(ctx, contractID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NotFound(contractDomain, op, "contract %s not found", contractID)
		}
		return nil, err
	}
	return c, nil
}

// checkCode validates the code shape and its case-insensitive uniqueness.
func checkCode(ctx context.Context, u uow.UnitOfWork, op, code, excludeID string) error {
	if err := contract.ValidateCode(op, code); err != nil {
		return err
	}
	taken, err := u.Contracts().ExistsByCode(ctx, code, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return shared.Validation(contractDomain, op, "code %q is already in use", code)
	}
	return nil
}
