// Package contract holds the binding document attached to exactly one lease.
// The contract owns the only reference between the two aggregates: LeaseID is
// unique across contracts, and a lease learns about its contract by lookup.
package contract

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/shared"
)

const domainName = "contract"

// MaxCodeLength is the maximum number of characters in a contract code.
const MaxCodeLength = 50

// Contract is a 1:1 legal/financial binding for a lease.
type Contract struct {
	// ID - unique identifier (UUID).
	ID string

	// Code - human-facing reference, unique ignoring case.
	Code string

	// StartDate - first day covered.
	StartDate time.Time

	// EndDate - last day covered, strictly after StartDate.
	EndDate time.Time

	// TotalAmount - agreed amount, never negative.
	TotalAmount float64

	// LeaseID - the bound lease. Immutable once set.
	LeaseID string

	// CreatedAt / UpdatedAt - bookkeeping.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeCode trims surrounding whitespace from a code.
func NormalizeCode(code string) string {
	return strings.TrimSpace(code)
}

// ValidateCode checks the code shape: non-blank and at most 50 characters.
func ValidateCode(op, code string) error {
	n := shared.RuneLen(code)
	if n == 0 {
		return shared.Validation(domainName, op, "code is required")
	}
	if n > MaxCodeLength {
		return shared.Validation(domainName, op, "code must be at most %d characters, got %d", MaxCodeLength, n)
	}
	return nil
}

// ValidatePeriod checks that both dates are present and end is after start.
func ValidatePeriod(op string, start, end *time.Time) error {
	if start == nil || start.IsZero() {
		return shared.Validation(domainName, op, "start date is required")
	}
	if end == nil || end.IsZero() {
		return shared.Validation(domainName, op, "end date is required")
	}
	if !end.After(*start) {
		return shared.Validation(domainName, op, "end date %s must be after start date %s",
			end.Format(time.DateOnly), start.Format(time.DateOnly))
	}
	return nil
}

// ValidateAmount rejects negative and non-finite amounts.
func ValidateAmount(op string, amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return shared.Validation(domainName, op, "total amount must be a finite number")
	}
	if amount < 0 {
		return shared.Validation(domainName, op, "total amount must not be negative, got %.2f", amount)
	}
	return nil
}

// IsCurrent reports whether the contract still covers today: EndDate ≥ today,
// compared by calendar day in the location of today.
func (c *Contract) IsCurrent(today time.Time) bool {
	endDay := dayOf(c.EndDate, today.Location())
	return !endDay.Before(dayOf(today, today.Location()))
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// String returns a compact representation for logging.
func (c *Contract) String() string {
	return fmt.Sprintf("Contract{ID: %s, Code: %s, Lease: %s, %s..%s}",
		c.ID, c.Code, c.LeaseID, c.StartDate.Format(time.DateOnly), c.EndDate.Format(time.DateOnly))
}

// Clone returns a copy safe to hand out of a store.
func (c *Contract) Clone() *Contract {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}
