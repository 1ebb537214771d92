package tenancy

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/review"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/shared"
)

const goodContent = "Quiet building, close to campus."

func TestReviewGate_ScenarioB(t *testing.T) {
	f := newFixture(t)
	l := f.openLease(t, "S1", "H1", 6)
	require.False(t, f.available(t, "H1"))

	done, err := f.engine.Leases.Complete(f.ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", done.State.String())
	assert.True(t, f.available(t, "H1"))

	r, err := f.engine.Reviews.Create(f.ctx, ReviewInput{
		Content:   "  " + goodContent + "  ",
		Rating:    5,
		HousingID: "H1",
		AuthorID:  "S1",
	})
	require.NoError(t, err)
	assert.Equal(t, goodContent, r.Content)
	assert.Equal(t, review.Rating(5), r.Rating)
	assert.Equal(t, f.clock.Now().UTC(), r.CreatedAt)
	assert.Nil(t, r.ModifiedAt)
}

func TestReviewGate_ScenarioC(t *testing.T) {
	f := newFixture(t)
	f.completedLease(t, "S1", "H1")

	_, err := f.engine.Reviews.Create(f.ctx, ReviewInput{Content: goodContent, Rating: 4, HousingID: "H1", AuthorID: "S2"})
	assert.True(t, shared.IsConflict(err))

	_, _, reviews := f.store.Counts()
	assert.Zero(t, reviews)
}

func TestReviewGate_Create_RequiresCompletedLease(t *testing.T) {
	f := newFixture(t)
	active := f.openLease(t, "S1", "H1", 6)

	in := ReviewInput{Content: goodContent, Rating: 3, HousingID: "H1", AuthorID: "S1"}
	_, err := f.engine.Reviews.Create(f.ctx, in)
	assert.True(t, shared.IsConflict(err), "active lease is not proof: %v", err)

	_, err = f.engine.Leases.Cancel(f.ctx, active.ID)
	require.NoError(t, err)
	_, err = f.engine.Reviews.Create(f.ctx, in)
	assert.True(t, shared.IsConflict(err), "cancelled lease is not proof: %v", err)

	f.completedLease(t, "S1", "H1")
	_, err = f.engine.Reviews.Create(f.ctx, in)
	assert.NoError(t, err)
}

func TestReviewGate_Create_Preconditions(t *testing.T) {
	f := newFixture(t)
	f.completedLease(t, "S1", "H1")

	tests := []struct {
		name  string
		in    ReviewInput
		check func(error) bool
	}{
		{"content too short", ReviewInput{Content: "   too short   ", Rating: 9, HousingID: "H9", AuthorID: "S9"}, shared.IsValidation},
		{"content too long", ReviewInput{Content: strings.Repeat("a", 2001), Rating: 5, HousingID: "H1", AuthorID: "S1"}, shared.IsValidation},
		{"rating too low", ReviewInput{Content: goodContent, Rating: 0, HousingID: "H9", AuthorID: "S9"}, shared.IsValidation},
		{"rating too high", ReviewInput{Content: goodContent, Rating: 6, HousingID: "H1", AuthorID: "S1"}, shared.IsValidation},
		{"unknown housing before author", ReviewInput{Content: goodContent, Rating: 5, HousingID: "H9", AuthorID: "S9"}, shared.IsNotFound},
		{"unknown author", ReviewInput{Content: goodContent, Rating: 5, HousingID: "H1", AuthorID: "S9"}, shared.IsNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.Reviews.Create(f.ctx, tt.in)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error kind: %v", err)
		})
	}

	_, err := f.engine.Reviews.Create(f.ctx, ReviewInput{
		Content: strings.Repeat("é", 2000), Rating: 1, HousingID: "H1", AuthorID: "S1",
	})
	assert.NoError(t, err, "2000 characters are accepted regardless of byte length")
}

func TestReviewGate_Update(t *testing.T) {
	f := newFixture(t)
	f.completedLease(t, "S1", "H1")
	r, err := f.engine.Reviews.Create(f.ctx, ReviewInput{Content: goodContent, Rating: 4, HousingID: "H1", AuthorID: "S1"})
	require.NoError(t, err)

	_, err = f.engine.Reviews.Update(f.ctx, r.ID, "S2", ReviewPatch{Rating: ptr(1)})
	assert.True(t, shared.IsConflict(err))

	_, err = f.engine.Reviews.Update(f.ctx, r.ID, "S1", ReviewPatch{Content: ptr("short")})
	assert.True(t, shared.IsValidation(err))

	f.clock.Advance(2 * time.Hour)
	edited, err := f.engine.Reviews.Update(f.ctx, r.ID, "S1", ReviewPatch{Rating: ptr(2)})
	require.NoError(t, err)
	assert.Equal(t, review.Rating(2), edited.Rating)
	assert.Equal(t, goodContent, edited.Content)
	require.NotNil(t, edited.ModifiedAt)
	assert.Equal(t, f.clock.Now().UTC(), *edited.ModifiedAt)

	_, err = f.engine.Reviews.Update(f.ctx, "missing", "S1", ReviewPatch{Rating: ptr(2)})
	assert.True(t, shared.IsNotFound(err))
}

func TestReviewGate_Delete(t *testing.T) {
	f := newFixture(t)
	f.completedLease(t, "S1", "H1")
	f.completedLease(t, "S1", "H2")

	post := func(housingID string) *review.Review {
		r, err := f.engine.Reviews.Create(f.ctx, ReviewInput{Content: goodContent, Rating: 5, HousingID: housingID, AuthorID: "S1"})
		require.NoError(t, err)
		return r
	}

	t.Run("stranger is rejected", func(t *testing.T) {
		r := post("H1")
		assert.True(t, shared.IsConflict(f.engine.Reviews.Delete(f.ctx, r.ID, "S2", false)))
	})

	t.Run("author deletes", func(t *testing.T) {
		r := post("H1")
		require.NoError(t, f.engine.Reviews.Delete(f.ctx, r.ID, "S1", false))
		_, err := f.engine.Reviews.Get(f.ctx, r.ID)
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("admin deletes", func(t *testing.T) {
		r := post("H1")
		assert.NoError(t, f.engine.Reviews.Delete(f.ctx, r.ID, "moderator", true))
	})

	t.Run("housing gone", func(t *testing.T) {
		r := post("H2")
		f.store.RemoveHousing("H2")
		assert.True(t, shared.IsConflict(f.engine.Reviews.Delete(f.ctx, r.ID, "S1", true)))
	})

	t.Run("unknown review", func(t *testing.T) {
		assert.True(t, shared.IsNotFound(f.engine.Reviews.Delete(f.ctx, "missing", "S1", true)))
	})
}

func TestReviewGate_CanReview(t *testing.T) {
	f := newFixture(t)
	f.completedLease(t, "S1", "H1")

	ok, err := f.engine.Reviews.CanReview(f.ctx, "S1", "H1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.engine.Reviews.CanReview(f.ctx, "S2", "H1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.engine.Reviews.CanReview(f.ctx, "S1", "H9")
	assert.True(t, shared.IsNotFound(err))
}

func TestReviewGate_ListByHousing(t *testing.T) {
	f := newFixture(t)
	f.completedLease(t, "S1", "H1")
	f.completedLease(t, "S2", "H1")

	first, err := f.engine.Reviews.Create(f.ctx, ReviewInput{Content: goodContent, Rating: 5, HousingID: "H1", AuthorID: "S1"})
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	second, err := f.engine.Reviews.Create(f.ctx, ReviewInput{Content: goodContent, Rating: 3, HousingID: "H1", AuthorID: "S2"})
	require.NoError(t, err)

	reviews, err := f.engine.Reviews.ListByHousing(f.ctx, "H1")
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, second.ID, reviews[0].ID)
	assert.Equal(t, first.ID, reviews[1].ID)

	_, err = f.engine.Reviews.ListByHousing(f.ctx, "H9")
	assert.True(t, shared.IsNotFound(err))
}
