package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrozenClock_Advance(t *testing.T) {
	start := Date(2025, 1, 1)
	clock := NewFrozenClock(start)

	assert.Equal(t, start, clock.Now())

	clock.Advance(48 * time.Hour)
	assert.Equal(t, Date(2025, 1, 3), clock.Now())

	clock.Set(Date(2026, 6, 2))
	assert.Equal(t, Date(2026, 6, 2), Today(clock))
}

func TestStartOfDay(t *testing.T) {
	// 03:00 UTC on the 2nd is still the 1st in Bogotá.
	utc := time.Date(2025, 6, 2, 3, 0, 0, 0, time.UTC)
	assert.Equal(t, Date(2025, 6, 1), StartOfDay(utc, nil))
	assert.Equal(t, Date(2025, 6, 1), StartOfDay(utc, BogotaTZ))
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), StartOfDay(utc, time.UTC))
}

func TestToday_FollowsClockLocation(t *testing.T) {
	tokyo := time.FixedZone("Asia/Tokyo", 9*60*60)

	// 09:00 on the 2nd in Tokyo is 19:00 on the 1st in Bogotá.
	clock := NewFrozenClock(time.Date(2025, 6, 2, 9, 0, 0, 0, tokyo))

	today := Today(clock)
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, tokyo), today)
	assert.Equal(t, "2025-06-02", FormatDateStr(today, tokyo))
	assert.Equal(t, tokyo, Location(clock))
}

func TestSystemClock_Location(t *testing.T) {
	assert.Equal(t, BogotaTZ, Location(NewSystemClock(nil)))
	assert.Equal(t, time.UTC, Location(NewSystemClock(time.UTC)))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-06-01", nil)
	require.NoError(t, err)
	assert.Equal(t, Date(2025, 6, 1), d)
	assert.Equal(t, "2025-06-01", FormatDateStr(d, nil))

	utc, err := ParseDate("2025-06-01", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), utc)
	assert.Equal(t, "2025-05-31", FormatDateStr(utc, BogotaTZ))

	_, err = ParseDate("01/06/2025", nil)
	assert.Error(t, err)
}
