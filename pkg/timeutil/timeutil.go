// Package timeutil provides the Clock abstraction used by the tenancy engine
// and calendar-day helpers. "Today" for contract validity is a calendar day in
// the clock's location; Bogotá (UTC-5) is the default.
package timeutil

import (
	"sync"
	"time"
)

// BogotaTZ is the Bogotá timezone (UTC-5, no DST).
// Colombia has not observed DST since 1993, so this is constant year-round.
var BogotaTZ = time.FixedZone("America/Bogota", -5*60*60)

// FormatDate is the wire layout of contract dates.
const FormatDate = time.DateOnly

// ══════════════════════════════════════════════════════════════════════════════
// CLOCK
// ══════════════════════════════════════════════════════════════════════════════

// Clock tells the current time. Production code uses SystemClock, tests use
// FrozenClock to step over contract end dates.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in a fixed location.
type SystemClock struct {
	Location *time.Location
}

// NewSystemClock returns a wall clock in loc (Bogotá when loc is nil).
func NewSystemClock(loc *time.Location) SystemClock {
	if loc == nil {
		loc = BogotaTZ
	}
	return SystemClock{Location: loc}
}

// Now returns the current time in the clock's location.
func (c SystemClock) Now() time.Time {
	loc := c.Location
	if loc == nil {
		loc = BogotaTZ
	}
	return time.Now().In(loc)
}

// FrozenClock is a manually driven clock.
type FrozenClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFrozenClock returns a clock stopped at t.
func NewFrozenClock(t time.Time) *FrozenClock {
	return &FrozenClock{now: t}
}

// Now returns the frozen time.
func (c *FrozenClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *FrozenClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by d.
func (c *FrozenClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// ══════════════════════════════════════════════════════════════════════════════
// CALENDAR HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// Date creates a time in Bogotá timezone with the given date.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, BogotaTZ)
}

// StartOfDay returns 00:00 of t's calendar day in loc (Bogotá when nil).
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = BogotaTZ
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Today returns the start of the current day in the clock's own location.
func Today(clock Clock) time.Time {
	now := clock.Now()
	return StartOfDay(now, now.Location())
}

// Location returns the location the clock reports time in.
func Location(clock Clock) *time.Location {
	return clock.Now().Location()
}

// ParseDate parses a YYYY-MM-DD string as a calendar day in loc (Bogotá when nil).
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = BogotaTZ
	}
	return time.ParseInLocation(FormatDate, value, loc)
}

// FormatDateStr formats t as YYYY-MM-DD in loc (Bogotá when nil).
func FormatDateStr(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = BogotaTZ
	}
	return t.In(loc).Format(FormatDate)
}
