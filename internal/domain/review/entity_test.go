package review

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/shared"
)

func TestNew(t *testing.T) {
	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

	r, err := New(NewParams{ID: "r-1", Content: "  Great place to live  ", Rating: 5, HousingID: "h-1", AuthorID: "s-1", Now: now})
	require.NoError(t, err)
	assert.Equal(t, "Great place to live", r.Content)
	assert.Equal(t, Rating(5), r.Rating)
	assert.Nil(t, r.ModifiedAt)

	_, err = New(NewParams{ID: "r-2", Content: "   123456789   ", Rating: 5, HousingID: "h-1", AuthorID: "s-1", Now: now})
	assert.True(t, shared.IsValidation(err), "nine characters after trimming")

	_, err = New(NewParams{ID: "r-3", Content: "1234567890", Rating: 0, HousingID: "h-1", AuthorID: "s-1", Now: now})
	assert.True(t, shared.IsValidation(err))
}

func TestValidateContent_Bounds(t *testing.T) {
	assert.NoError(t, ValidateContent("Create", strings.Repeat("a", MinContentLength)))
	assert.NoError(t, ValidateContent("Create", strings.Repeat("a", MaxContentLength)))
	assert.True(t, shared.IsValidation(ValidateContent("Create", strings.Repeat("a", MaxContentLength+1))))
}

func TestReview_Edit(t *testing.T) {
	r := &Review{ID: "r-1", Content: "Great place to live", Rating: 5, AuthorID: "s-1"}
	at := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

	bad := 9
	err := r.Edit(nil, &bad, at)
	assert.True(t, shared.IsValidation(err))
	assert.Equal(t, Rating(5), r.Rating)
	assert.Nil(t, r.ModifiedAt)

	content := "  Still a great place  "
	rating := 4
	require.NoError(t, r.Edit(&content, &rating, at))
	assert.Equal(t, "Still a great place", r.Content)
	assert.Equal(t, Rating(4), r.Rating)
	require.NotNil(t, r.ModifiedAt)
	assert.Equal(t, at, *r.ModifiedAt)
}

func TestReview_IsAuthor(t *testing.T) {
	r := &Review{AuthorID: "s-1"}
	assert.True(t, r.IsAuthor("s-1"))
	assert.False(t, r.IsAuthor("s-2"))
	assert.False(t, (&Review{}).IsAuthor(""))
}
