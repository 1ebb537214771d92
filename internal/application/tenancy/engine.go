// Package tenancy is the Tenancy Lifecycle & Availability Consistency Engine.
//
// It coordinates four aggregates (a housing unit's availability flag, the
// lease state machine, the 1:1 binding contract and the review gate) so that
// a unit is never double-leased, a lease has at most one contract, and a
// review always rests on a completed lease.
//
// Every operation that touches more than one record runs inside a single
// uow.UnitOfWork. Operations that take a housing unit (Open, reassignment)
// additionally hold a per-housing lock for the duration of the unit of work.
package tenancy

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/shared"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/uow"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/pkg/logger"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/pkg/timeutil"
)

// TracerName is the instrumentation scope of engine spans.
const TracerName = "vivienda/tenancy"

// ══════════════════════════════════════════════════════════════════════════════
// ENGINE
// ══════════════════════════════════════════════════════════════════════════════

// Options wires the engine to its collaborators. Only Units is mandatory.
type Options struct {
	// Units opens transactional boundaries over all repositories.
	Units uow.Factory

	// Locker serializes work on a single housing unit.
	// Defaults to an in-process LocalLocker.
	Locker HousingLocker

	// Clock is the source of "now". Its location decides where a calendar
	// day starts. Defaults to the wall clock in Bogotá.
	Clock timeutil.Clock

	// Logger receives state transitions (Info) and rejections (Debug).
	Logger *logger.Logger

	// Tracer opens one span per engine operation.
	Tracer trace.Tracer

	// NewID generates identifiers for new records. Defaults to UUIDv4.
	NewID func() string
}

// Engine groups the four tenancy components. They share one runtime and
// are safe for concurrent use.
type Engine struct {
	Availability *AvailabilityStore
	Leases       *LeaseManager
	Contracts    *ContractBinder
	Reviews      *ReviewGate
}

// New builds an Engine from opts, filling defaults for optional collaborators.
func New(opts Options) *Engine {
	if opts.Units == nil {
		panic("tenancy: Options.Units is required")
	}
	if opts.Locker == nil {
		opts.Locker = NewLocalLocker()
	}
	if opts.Clock == nil {
		opts.Clock = timeutil.NewSystemClock(timeutil.BogotaTZ)
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer(TracerName)
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	rt := &runtime{
		units:  opts.Units,
		locker: opts.Locker,
		clock:  opts.Clock,
		log:    opts.Logger,
		tracer: opts.Tracer,
		newID:  opts.NewID,
	}

	return &Engine{
		Availability: &AvailabilityStore{rt: rt, log: rt.log.With(logger.Component("availability_store"))},
		Leases:       &LeaseManager{rt: rt, log: rt.log.With(logger.Component("lease_manager"))},
		Contracts:    &ContractBinder{rt: rt, log: rt.log.With(logger.Component("contract_binder"))},
		Reviews:      &ReviewGate{rt: rt, log: rt.log.With(logger.Component("review_gate"))},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// RUNTIME
// ══════════════════════════════════════════════════════════════════════════════

type runtime struct {
	units  uow.Factory
	locker HousingLocker
	clock  timeutil.Clock
	log    *logger.Logger
	tracer trace.Tracer
	newID  func() string
}

// inTx runs fn inside one unit of work. Any error from fn rolls everything back.
func (rt *runtime) inTx(ctx context.Context, fn func(u uow.UnitOfWork) error) error {
	u, err := rt.units.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin unit of work: %w", err)
	}
	defer func() { _ = u.Rollback(ctx) }()

	if err := fn(u); err != nil {
		return err
	}
	if err := u.Commit(ctx); err != nil {
		return fmt.Errorf("commit unit of work: %w", err)
	}
	return nil
}

// withHousingLock holds the per-housing lock while fn runs.
func (rt *runtime) withHousingLock(ctx context.Context, housingID string, fn func() error) error {
	unlock, err := rt.locker.Lock(ctx, housingID)
	if err != nil {
		return err
	}
	defer unlock()
	return fn()
}

func (rt *runtime) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return rt.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// finish records err on span and ends it.
func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if kind := shared.KindOf(err); kind != nil {
			span.SetAttributes(attribute.String("tenancy.error_kind", kind.Error()))
		}
	}
	span.End()
}

// rejected logs a failed operation: domain rejections at Debug, the rest at Error.
func rejected(log *logger.Logger, op string, err error, fields ...logger.Field) {
	fields = append(fields, logger.Operation(op), logger.Err(err))
	if shared.KindOf(err) != nil {
		log.Debug("operation rejected", fields...)
		return
	}
	log.Error("operation failed", fields...)
}
