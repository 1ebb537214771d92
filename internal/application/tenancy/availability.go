package tenancy

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/housing"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/uow"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// AVAILABILITY STORE
// Owns the "available" flag of housing units. The lease manager is its only
// writer; everything else reads.
// ══════════════════════════════════════════════════════════════════════════════

// AvailabilityStore reads and flips the availability flag of housing units.
type AvailabilityStore struct {
	rt  *runtime
	log *logger.Logger
}

// IsAvailable reports whether a new lease may be opened on the unit.
func (s *AvailabilityStore) IsAvailable(ctx context.Context, housingID string) (available bool, err error) {
	ctx, span := s.rt.start(ctx, "AvailabilityStore.IsAvailable", attribute.String("housing.id", housingID))
	defer func() { finish(span, err) }()

	err = s.rt.inTx(ctx, func(u uow.UnitOfWork) error {
		var txErr error
		available, txErr = availabilityOf(u.Housings()).isAvailable(ctx, housingID)
		return txErr
	})
	return available, err
}

// MarkAvailable sets the unit's flag to true.
func (s *AvailabilityStore) MarkAvailable(ctx context.Context, housingID string) (err error) {
	ctx, span := s.rt.start(ctx, "AvailabilityStore.MarkAvailable", attribute.String("housing.id", housingID))
	defer func() { finish(span, err) }()

	err = s.rt.inTx(ctx, func(u uow.UnitOfWork) error {
		return availabilityOf(u.Housings()).mark(ctx, housingID, true)
	})
	if err != nil {
		rejected(s.log, "MarkAvailable", err, logger.HousingID(housingID))
		return err
	}
	s.log.Info("housing marked available", logger.HousingID(housingID))
	return nil
}

// MarkUnavailable sets the unit's flag to false.
func (s *AvailabilityStore) MarkUnavailable(ctx context.Context, housingID string) (err error) {
	ctx, span := s.rt.start(ctx, "AvailabilityStore.MarkUnavailable", attribute.String("housing.id", housingID))
	defer func() { finish(span, err) }()

	err = s.rt.inTx(ctx, func(u uow.UnitOfWork) error {
		return availabilityOf(u.Housings()).mark(ctx, housingID, false)
	})
	if err != nil {
		rejected(s.log, "MarkUnavailable", err, logger.HousingID(housingID))
		return err
	}
	s.log.Info("housing marked unavailable", logger.HousingID(housingID))
	return nil
}

// availability is the store bound to the repository of one unit of work,
// so lease operations flip the flag inside their own transaction.
type availability struct {
	repo housing.Repository
}

func availabilityOf(repo housing.Repository) availability {
	return availability{repo: repo}
}

func (a availability) isAvailable(ctx context.Context, housingID string) (bool, error) {
	h, err := a.repo.GetByID(ctx, housingID)
	if err != nil {
		return false, err
	}
	return h.Available, nil
}

// lockForLease reads the unit with a row lock held until the unit of work ends.
func (a availability) lockForLease(ctx context.Context, housingID string) (*housing.Housing, error) {
	return a.repo.GetForUpdate(ctx, housingID)
}

// mark is a single read-then-write: NotFound if the unit is missing.
func (a availability) mark(ctx context.Context, housingID string, available bool) error {
	if _, err := a.repo.GetForUpdate(ctx, housingID); err != nil {
		return err
	}
	return a.repo.SetAvailable(ctx, housingID, available)
}
