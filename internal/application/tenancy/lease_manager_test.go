package tenancy

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/lease"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/shared"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/student"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/pkg/timeutil"
)

func TestLeaseManager_Open_ScenarioA(t *testing.T) {
	f := newFixture(t)

	l := f.openLease(t, "S1", "H1", 6)

	assert.Equal(t, lease.StateActive, l.State)
	assert.Equal(t, 6, l.DurationMonths)
	assert.Equal(t, f.clock.Now().UTC(), l.StartedAt)
	assert.Nil(t, l.EndedAt)
	assert.Nil(t, l.ContractID)
	assert.False(t, f.available(t, "H1"))

	for _, studentID := range []string{"S1", "S2"} {
		_, err := f.engine.Leases.Open(f.ctx, studentID, "H1", 3)
		assert.True(t, shared.IsConflict(err), "student %s: %v", studentID, err)
	}

	leases, _, _ := f.store.Counts()
	assert.Equal(t, 1, leases)
}

func TestLeaseManager_Open_Preconditions(t *testing.T) {
	f := newFixture(t)
	f.openLease(t, "S3", "H2", 12)

	tests := []struct {
		name      string
		studentID string
		housingID string
		months    int
		check     func(error) bool
	}{
		{"unknown student wins over everything", "S9", "H2", 0, shared.IsNotFound},
		{"unknown housing", "S1", "H9", 0, shared.IsNotFound},
		{"unavailable housing before duration", "S1", "H2", 0, shared.IsConflict},
		{"duration too short", "S1", "H1", 0, shared.IsValidation},
		{"duration too long", "S1", "H1", 37, shared.IsValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.Leases.Open(f.ctx, tt.studentID, tt.housingID, tt.months)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error kind: %v", err)
		})
	}

	assert.True(t, f.available(t, "H1"), "failed opens must not touch availability")
	leases, _, _ := f.store.Counts()
	assert.Equal(t, 1, leases)
}

func TestLeaseManager_Open_DurationBounds(t *testing.T) {
	f := newFixture(t)

	short := f.openLease(t, "S1", "H1", lease.MinDurationMonths)
	long := f.openLease(t, "S2", "H2", lease.MaxDurationMonths)

	assert.Equal(t, 1, short.DurationMonths)
	assert.Equal(t, 36, long.DurationMonths)
}

func TestLeaseManager_Open_ConcurrentOnSameHousing(t *testing.T) {
	f := newFixture(t)
	const attempts = 16
	for i := 0; i < attempts; i++ {
		f.store.AddStudent(student.Student{ID: fmt.Sprintf("C%d", i)})
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.engine.Leases.Open(f.ctx, fmt.Sprintf("C%d", i), "H1", 6)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case shared.IsConflict(err):
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicts)

	active, err := f.engine.Leases.ListByHousing(f.ctx, "H1")
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestLeaseManager_Complete(t *testing.T) {
	f := newFixture(t)
	l := f.openLease(t, "S1", "H1", 6)

	f.clock.Advance(24 * time.Hour)
	done, err := f.engine.Leases.Complete(f.ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, lease.StateCompleted, done.State)
	require.NotNil(t, done.EndedAt)
	assert.Equal(t, f.clock.Now().UTC(), *done.EndedAt)
	assert.True(t, f.available(t, "H1"))

	// A second completion is rejected and flips nothing.
	f.openLease(t, "S2", "H1", 3)
	require.False(t, f.available(t, "H1"))

	_, err = f.engine.Leases.Complete(f.ctx, l.ID)
	assert.True(t, shared.IsConflict(err))
	assert.False(t, f.available(t, "H1"))

	got, err := f.engine.Leases.Get(f.ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, lease.StateCompleted, got.State)
}

func TestLeaseManager_Cancel(t *testing.T) {
	f := newFixture(t)

	t.Run("active lease", func(t *testing.T) {
		l := f.openLease(t, "S1", "H1", 6)
		cancelled, err := f.engine.Leases.Cancel(f.ctx, l.ID)
		require.NoError(t, err)
		assert.Equal(t, lease.StateCancelled, cancelled.State)
		assert.NotNil(t, cancelled.EndedAt)
		assert.True(t, f.available(t, "H1"))

		_, err = f.engine.Leases.Cancel(f.ctx, l.ID)
		assert.True(t, shared.IsConflict(err), "cancelling twice: %v", err)
	})

	t.Run("completed lease", func(t *testing.T) {
		l := f.completedLease(t, "S2", "H2")
		_, err := f.engine.Leases.Cancel(f.ctx, l.ID)
		assert.True(t, shared.IsConflict(err))

		got, err := f.engine.Leases.Get(f.ctx, l.ID)
		require.NoError(t, err)
		assert.Equal(t, lease.StateCompleted, got.State)
	})

	t.Run("unknown lease", func(t *testing.T) {
		_, err := f.engine.Leases.Cancel(f.ctx, "missing")
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestLeaseManager_Update_Duration(t *testing.T) {
	f := newFixture(t)
	l := f.openLease(t, "S1", "H1", 6)

	updated, err := f.engine.Leases.Update(f.ctx, l.ID, LeasePatch{DurationMonths: ptr(12)})
	require.NoError(t, err)
	assert.Equal(t, 12, updated.DurationMonths)

	_, err = f.engine.Leases.Update(f.ctx, l.ID, LeasePatch{DurationMonths: ptr(40)})
	assert.True(t, shared.IsValidation(err))

	got, err := f.engine.Leases.Get(f.ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, got.DurationMonths)

	_, err = f.engine.Leases.Update(f.ctx, "missing", LeasePatch{DurationMonths: ptr(3)})
	assert.True(t, shared.IsNotFound(err))
}

func TestLeaseManager_Update_Reassign(t *testing.T) {
	f := newFixture(t)
	l := f.openLease(t, "S1", "H1", 6)

	moved, err := f.engine.Leases.Update(f.ctx, l.ID, LeasePatch{HousingID: ptr("H2")})
	require.NoError(t, err)
	assert.Equal(t, "H2", moved.HousingID)
	assert.True(t, f.available(t, "H1"))
	assert.False(t, f.available(t, "H2"))

	t.Run("target unavailable keeps the old unit held", func(t *testing.T) {
		f.openLease(t, "S2", "H3", 6)
		_, err := f.engine.Leases.Update(f.ctx, l.ID, LeasePatch{HousingID: ptr("H3")})
		assert.True(t, shared.IsConflict(err))
		assert.False(t, f.available(t, "H2"))

		got, err := f.engine.Leases.Get(f.ctx, l.ID)
		require.NoError(t, err)
		assert.Equal(t, "H2", got.HousingID)
	})

	t.Run("target missing", func(t *testing.T) {
		_, err := f.engine.Leases.Update(f.ctx, l.ID, LeasePatch{HousingID: ptr("H9")})
		assert.True(t, shared.IsNotFound(err))
		assert.False(t, f.available(t, "H2"))
	})

	t.Run("same housing is a no-op", func(t *testing.T) {
		got, err := f.engine.Leases.Update(f.ctx, l.ID, LeasePatch{HousingID: ptr("H2")})
		require.NoError(t, err)
		assert.Equal(t, "H2", got.HousingID)
		assert.False(t, f.available(t, "H2"))
	})

	t.Run("bound contract blocks the move", func(t *testing.T) {
		_, err := f.engine.Contracts.Create(f.ctx, ContractInput{
			Code:        "CT-MOVE",
			StartDate:   ptr(timeutil.Date(2025, 1, 1)),
			EndDate:     ptr(timeutil.Date(2025, 12, 1)),
			TotalAmount: 500,
			LeaseID:     l.ID,
		})
		require.NoError(t, err)

		_, err = f.engine.Leases.Update(f.ctx, l.ID, LeasePatch{HousingID: ptr("H1")})
		assert.True(t, shared.IsConflict(err))
		assert.True(t, f.available(t, "H1"))
	})
}

func TestLeaseManager_Update_ReassignTerminalLease(t *testing.T) {
	f := newFixture(t)
	l := f.completedLease(t, "S1", "H1")

	_, err := f.engine.Leases.Update(f.ctx, l.ID, LeasePatch{HousingID: ptr("H2")})
	assert.True(t, shared.IsConflict(err))
	assert.True(t, f.available(t, "H2"))
}

func TestLeaseManager_Delete(t *testing.T) {
	f := newFixture(t)

	t.Run("active lease frees the unit", func(t *testing.T) {
		l := f.openLease(t, "S1", "H1", 6)
		require.NoError(t, f.engine.Leases.Delete(f.ctx, l.ID))
		assert.True(t, f.available(t, "H1"))

		_, err := f.engine.Leases.Get(f.ctx, l.ID)
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("completed lease leaves a re-leased unit alone", func(t *testing.T) {
		l := f.completedLease(t, "S1", "H2")
		f.openLease(t, "S2", "H2", 6)

		require.NoError(t, f.engine.Leases.Delete(f.ctx, l.ID))
		assert.False(t, f.available(t, "H2"))
	})

	t.Run("bound contract blocks deletion", func(t *testing.T) {
		l := f.openLease(t, "S3", "H3", 6)
		_, err := f.engine.Contracts.Create(f.ctx, ContractInput{
			Code:      "CT-DEL",
			StartDate: ptr(timeutil.Date(2025, 1, 1)),
			EndDate:   ptr(timeutil.Date(2025, 2, 1)),
			LeaseID:   l.ID,
		})
		require.NoError(t, err)

		err = f.engine.Leases.Delete(f.ctx, l.ID)
		assert.True(t, shared.IsConflict(err))
		assert.False(t, f.available(t, "H3"))
	})

	t.Run("unknown lease", func(t *testing.T) {
		assert.True(t, shared.IsNotFound(f.engine.Leases.Delete(f.ctx, "missing")))
	})
}

func TestLeaseManager_HasCompletedLease(t *testing.T) {
	f := newFixture(t)
	active := f.openLease(t, "S1", "H1", 6)

	ok, err := f.engine.Leases.HasCompletedLease(f.ctx, "S1", "H1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.engine.Leases.Complete(f.ctx, active.ID)
	require.NoError(t, err)

	ok, err = f.engine.Leases.HasCompletedLease(f.ctx, "S1", "H1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.engine.Leases.HasCompletedLease(f.ctx, "S2", "H1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLeaseManager_ListByStudent_NewestFirst(t *testing.T) {
	f := newFixture(t)
	first := f.completedLease(t, "S1", "H1")
	f.clock.Advance(time.Hour)
	second := f.openLease(t, "S1", "H2", 6)

	leases, err := f.engine.Leases.ListByStudent(f.ctx, "S1")
	require.NoError(t, err)
	require.Len(t, leases, 2)
	assert.Equal(t, second.ID, leases[0].ID)
	assert.Equal(t, first.ID, leases[1].ID)

	none, err := f.engine.Leases.ListByStudent(f.ctx, "S3")
	require.NoError(t, err)
	assert.Empty(t, none)
}
