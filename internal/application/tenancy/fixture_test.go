package tenancy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/housing"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/lease"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/student"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/infrastructure/persistence/memory"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/pkg/timeutil"
)

type fixture struct {
	ctx    context.Context
	store  *memory.Store
	clock  *timeutil.FrozenClock
	engine *Engine
}

// newFixture seeds students S1..S3 and available units H1..H3, with the
// clock on 2025-03-15 10:00 Bogotá time.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.New()
	for _, id := range []string{"S1", "S2", "S3"} {
		store.AddStudent(student.Student{ID: id, DisplayName: "student " + id})
	}
	for _, id := range []string{"H1", "H2", "H3"} {
		store.AddHousing(housing.Housing{ID: id, Name: "unit " + id, Available: true})
	}

	clock := timeutil.NewFrozenClock(time.Date(2025, 3, 15, 10, 0, 0, 0, timeutil.BogotaTZ))
	return &fixture{
		ctx:    context.Background(),
		store:  store,
		clock:  clock,
		engine: New(Options{Units: store, Clock: clock}),
	}
}

func (f *fixture) available(t *testing.T, housingID string) bool {
	t.Helper()
	h, ok := f.store.Housing(housingID)
	require.True(t, ok, "housing %s must exist", housingID)
	return h.Available
}

func (f *fixture) openLease(t *testing.T, studentID, housingID string, months int) *lease.Lease {
	t.Helper()
	l, err := f.engine.Leases.Open(f.ctx, studentID, housingID, months)
	require.NoError(t, err)
	return l
}

func (f *fixture) completedLease(t *testing.T, studentID, housingID string) *lease.Lease {
	t.Helper()
	l := f.openLease(t, studentID, housingID, 6)
	l, err := f.engine.Leases.Complete(f.ctx, l.ID)
	require.NoError(t, err)
	return l
}

func ptr[T any](v T) *T { return &v }
