package tenancy

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/housing"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/lease"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/shared"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/uow"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/pkg/logger"
)

const leaseDomain = "lease"

// ══════════════════════════════════════════════════════════════════════════════
// LEASE MANAGER
// Drives the lease state machine and keeps the availability flag in step:
//
//	Open      (none)   → ACTIVE     unit becomes unavailable
//	Complete  ACTIVE   → COMPLETED  unit becomes available
//	Cancel    ACTIVE   → CANCELLED  unit becomes available
//	          PENDING  → CANCELLED
// ══════════════════════════════════════════════════════════════════════════════

// LeasePatch lists the mutable lease fields. Nil leaves a field unchanged.
type LeasePatch struct {
	DurationMonths *int
	HousingID      *string
}

// LeaseManager owns the lease lifecycle.
type LeaseManager struct {
	rt  *runtime
	log *logger.Logger
}

// Open creates an ACTIVE lease and marks the unit unavailable.
// Checks, in order: student exists, housing exists, housing available,
// duration within 1..36 months.
func (m *LeaseManager) Open(ctx context.Context, studentID, housingID string, durationMonths int) (_ *lease.Lease, err error) {
	ctx, span := m.rt.start(ctx, "LeaseManager.Open",
		attribute.String("student.id", studentID),
		attribute.String("housing.id", housingID),
		attribute.Int("lease.duration_months", durationMonths),
	)
	defer func() { finish(span, err) }()

	var opened *lease.Lease
	err = m.rt.withHousingLock(ctx, housingID, func() error {
		return m.rt.inTx(ctx, func(u uow.UnitOfWork) error {
			if err := requireStudent(ctx, u, leaseDomain, "Open", studentID); err != nil {
				return err
			}

			avail := availabilityOf(u.Housings())
			unit, err := avail.lockForLease(ctx, housingID)
			if err != nil {
				return housingLookupError(err, leaseDomain, "Open", housingID)
			}
			if !unit.Available {
				return shared.Conflict(leaseDomain, "Open", "housing %s is not available", housingID)
			}

			l, err := lease.New(lease.NewParams{
				ID:             m.rt.newID(),
				StudentID:      studentID,
				HousingID:      housingID,
				DurationMonths: durationMonths,
				Now:            m.rt.clock.Now(),
			})
			if err != nil {
				return err
			}
			if err := u.Leases().Create(ctx, l); err != nil {
				return err
			}
			if err := avail.mark(ctx, housingID, false); err != nil {
				return err
			}
			opened = l
			return nil
		})
	})
	if err != nil {
		rejected(m.log, "Open", err, logger.StudentID(studentID), logger.HousingID(housingID))
		return nil, err
	}

	span.SetAttributes(attribute.String("lease.id", opened.ID))
	m.log.Info("lease opened",
		logger.LeaseID(opened.ID),
		logger.StudentID(studentID),
		logger.HousingID(housingID),
		logger.Int("duration_months", durationMonths),
	)
	return opened, nil
}

// Complete ends an ACTIVE lease normally and frees the unit.
func (m *LeaseManager) Complete(ctx context.Context, leaseID string) (*lease.Lease, error) {
	return m.finishLease(ctx, "Complete", leaseID, (*lease.Lease).Complete)
}

// Cancel calls off a PENDING or ACTIVE lease. The unit is freed when the
// lease was holding it.
func (m *LeaseManager) Cancel(ctx context.Context, leaseID string) (*lease.Lease, error) {
	return m.finishLease(ctx, "Cancel", leaseID, (*lease.Lease).Cancel)
}

func (m *LeaseManager) finishLease(
	ctx context.Context,
	op, leaseID string,
	apply func(*lease.Lease, time.Time) error,
) (_ *lease.Lease, err error) {
	ctx, span := m.rt.start(ctx, "LeaseManager."+op, attribute.String("lease.id", leaseID))
	defer func() { finish(span, err) }()

	var result *lease.Lease
	err = m.rt.inTx(ctx, func(u uow.UnitOfWork) error {
		l, err := lockLease(ctx, u, op, leaseID)
		if err != nil {
			return err
		}

		heldUnit := l.State.HoldsUnit()
		if err := apply(l, m.rt.clock.Now()); err != nil {
			return err
		}
		if err := u.Leases().Update(ctx, l); err != nil {
			return err
		}
		if heldUnit {
			if err := availabilityOf(u.Housings()).mark(ctx, l.HousingID, true); err != nil {
				return err
			}
		}
		if err := attachContract(ctx, u, l); err != nil {
			return err
		}
		result = l
		return nil
	})
	if err != nil {
		rejected(m.log, op, err, logger.LeaseID(leaseID))
		return nil, err
	}

	m.log.Info("lease "+strings.ToLower(string(result.State)),
		logger.LeaseID(result.ID),
		logger.HousingID(result.HousingID),
		logger.StudentID(result.StudentID),
	)
	return result, nil
}

// Update changes the duration and/or moves the lease to another unit.
// Moving requires an ACTIVE lease without a bound contract; the old unit is
// freed and the new one must exist and be available. Everything happens in
// one unit of work, so a rejected move leaves the old unit held.
func (m *LeaseManager) Update(ctx context.Context, leaseID string, patch LeasePatch) (_ *lease.Lease, err error) {
	ctx, span := m.rt.start(ctx, "LeaseManager.Update", attribute.String("lease.id", leaseID))
	defer func() { finish(span, err) }()

	var result *lease.Lease
	run := func() error {
		return m.rt.inTx(ctx, func(u uow.UnitOfWork) error {
			l, err := lockLease(ctx, u, "Update", leaseID)
			if err != nil {
				return err
			}

			if patch.DurationMonths != nil {
				if err := l.ChangeDuration(*patch.DurationMonths); err != nil {
					return err
				}
			}
			if patch.HousingID != nil && *patch.HousingID != l.HousingID {
				if err := m.reassign(ctx, u, l, *patch.HousingID); err != nil {
					return err
				}
			}

			if err := u.Leases().Update(ctx, l); err != nil {
				return err
			}
			if err := attachContract(ctx, u, l); err != nil {
				return err
			}
			result = l
			return nil
		})
	}

	if patch.HousingID != nil {
		err = m.rt.withHousingLock(ctx, *patch.HousingID, run)
	} else {
		err = run()
	}
	if err != nil {
		rejected(m.log, "Update", err, logger.LeaseID(leaseID))
		return nil, err
	}

	m.log.Info("lease updated",
		logger.LeaseID(result.ID),
		logger.HousingID(result.HousingID),
		logger.Int("duration_months", result.DurationMonths),
	)
	return result, nil
}

func (m *LeaseManager) reassign(ctx context.Context, u uow.UnitOfWork, l *lease.Lease, newHousingID string) error {
	bound, err := u.Contracts().ExistsByLeaseID(ctx, l.ID)
	if err != nil {
		return err
	}
	if bound {
		return shared.Conflict(leaseDomain, "Update", "lease %s has a contract; its housing cannot change", l.ID)
	}
	if !l.State.HoldsUnit() {
		return shared.Conflict(leaseDomain, "Update", "lease %s is %s; only active leases can move", l.ID, l.State)
	}

	avail := availabilityOf(u.Housings())
	if err := avail.mark(ctx, l.HousingID, true); err != nil {
		return err
	}

	unit, err := avail.lockForLease(ctx, newHousingID)
	if err != nil {
		return housingLookupError(err, leaseDomain, "Update", newHousingID)
	}
	if !unit.Available {
		return shared.Conflict(leaseDomain, "Update", "housing %s is not available", newHousingID)
	}
	if err := avail.mark(ctx, newHousingID, false); err != nil {
		return err
	}

	m.log.Debug("lease moved",
		logger.LeaseID(l.ID),
		logger.String("from_housing_id", l.HousingID),
		logger.String("to_housing_id", newHousingID),
	)
	l.HousingID = newHousingID
	return nil
}

// Delete removes a lease without a bound contract, freeing its unit when the
// lease was holding it.
func (m *LeaseManager) Delete(ctx context.Context, leaseID string) (err error) {
	ctx, span := m.rt.start(ctx, "LeaseManager.Delete", attribute.String("lease.id", leaseID))
	defer func() { finish(span, err) }()

	var housingID string
	err = m.rt.inTx(ctx, func(u uow.UnitOfWork) error {
		l, err := lockLease(ctx, u, "Delete", leaseID)
		if err != nil {
			return err
		}
		bound, err := u.Contracts().ExistsByLeaseID(ctx, l.ID)
		if err != nil {
			return err
		}
		if bound {
			return shared.Conflict(leaseDomain, "Delete", "lease %s has a contract", l.ID)
		}
		if l.State.HoldsUnit() {
			if err := availabilityOf(u.Housings()).mark(ctx, l.HousingID, true); err != nil {
				return err
			}
		}
		housingID = l.HousingID
		return u.Leases().Delete(ctx, l.ID)
	})
	if err != nil {
		rejected(m.log, "Delete", err, logger.LeaseID(leaseID))
		return err
	}

	m.log.Info("lease deleted", logger.LeaseID(leaseID), logger.HousingID(housingID))
	return nil
}

// HasCompletedLease reports whether the student completed a lease on the unit.
func (m *LeaseManager) HasCompletedLease(ctx context.Context, studentID, housingID string) (ok bool, err error) {
	ctx, span := m.rt.start(ctx, "LeaseManager.HasCompletedLease",
		attribute.String("student.id", studentID),
		attribute.String("housing.id", housingID),
	)
	defer func() { finish(span, err) }()

	err = m.rt.inTx(ctx, func(u uow.UnitOfWork) error {
		var txErr error
		ok, txErr = hasCompletedLease(ctx, u, studentID, housingID)
		return txErr
	})
	return ok, err
}

// Get returns a lease with its contract reference resolved.
func (m *LeaseManager) Get(ctx context.Context, leaseID string) (_ *lease.Lease, err error) {
	ctx, span := m.rt.start(ctx, "LeaseManager.Get", attribute.String("lease.id", leaseID))
	defer func() { finish(span, err) }()

	var result *lease.Lease
	err = m.rt.inTx(ctx, func(u uow.UnitOfWork) error {
		l, err := getLease(ctx, u, "Get", leaseID)
		if err != nil {
			return err
		}
		if err := attachContract(ctx, u, l); err != nil {
			return err
		}
		result = l
		return nil
	})
	return result, err
}

// ListByStudent returns the student's leases, newest first.
func (m *LeaseManager) ListByStudent(ctx context.Context, studentID string) (_ []*lease.Lease, err error) {
	ctx, span := m.rt.start(ctx, "LeaseManager.ListByStudent", attribute.String("student.id", studentID))
	defer func() { finish(span, err) }()

	return m.list(ctx, func(u uow.UnitOfWork) ([]*lease.Lease, error) {
		return u.Leases().ListByStudent(ctx, studentID)
	})
}

// ListByHousing returns the unit's leases, newest first.
func (m *LeaseManager) ListByHousing(ctx context.Context, housingID string) (_ []*lease.Lease, err error) {
	ctx, span := m.rt.start(ctx, "LeaseManager.ListByHousing", attribute.String("housing.id", housingID))
	defer func() { finish(span, err) }()

	return m.list(ctx, func(u uow.UnitOfWork) ([]*lease.Lease, error) {
		return u.Leases().ListByHousing(ctx, housingID)
	})
}

func (m *LeaseManager) list(ctx context.Context, load func(uow.UnitOfWork) ([]*lease.Lease, error)) ([]*lease.Lease, error) {
	var result []*lease.Lease
	err := m.rt.inTx(ctx, func(u uow.UnitOfWork) error {
		leases, err := load(u)
		if err != nil {
			return err
		}
		for _, l := range leases {
			if err := attachContract(ctx, u, l); err != nil {
				return err
			}
		}
		result = leases
		return nil
	})
	return result, err
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func getLease(ctx context.Context, u uow.UnitOfWork, op, leaseID string) (*lease.Lease, error) {
	l, err := u.Leases().GetByID(ctx, leaseID)
	return leaseResult(l, err, op, leaseID)
}

// lockLease reads a lease that the unit of work is about to change.
func lockLease(ctx context.Context, u uow.UnitOfWork, op, leaseID string) (*lease.Lease, error) {
	l, err := u.Leases().GetForUpdate(ctx, leaseID)
	return leaseResult(l, err, op, leaseID)
}

func leaseResult(l *lease.Lease, err error, op, leaseID string) (*lease.Lease, error) {
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NotFound(leaseDomain, op, "lease %s not found", leaseID)
		}
		return nil, err
	}
	return l, nil
}

// attachContract derives the lease's contract reference from the contract side.
func attachContract(ctx context.Context, u uow.UnitOfWork, l *lease.Lease) error {
	c, err := u.Contracts().GetByLeaseID(ctx, l.ID)
	switch {
	case err == nil:
		contractID := c.ID
		l.ContractID = &contractID
		return nil
	case shared.IsNotFound(err):
		l.ContractID = nil
		return nil
	default:
		return err
	}
}

func hasCompletedLease(ctx context.Context, u uow.UnitOfWork, studentID, housingID string) (bool, error) {
	return u.Leases().ExistsByStudentHousingState(ctx, studentID, housingID, lease.StateCompleted)
}

func requireStudent(ctx context.Context, u uow.UnitOfWork, domain, op, studentID string) error {
	ok, err := u.Students().Exists(ctx, studentID)
	if err != nil {
		return err
	}
	if !ok {
		return shared.NotFound(domain, op, "student %s not found", studentID)
	}
	return nil
}

func requireHousing(ctx context.Context, repo housing.Repository, domain, op, housingID string) error {
	ok, err := repo.Exists(ctx, housingID)
	if err != nil {
		return err
	}
	if !ok {
		return shared.NotFound(domain, op, "housing %s not found", housingID)
	}
	return nil
}

func housingLookupError(err error, domain, op, housingID string) error {
	if shared.IsNotFound(err) {
		return shared.NotFound(domain, op, "housing %s not found", housingID)
	}
	return err
}
