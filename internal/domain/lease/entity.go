package lease

import (
	"fmt"
	"time"

	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/shared"
)

const domainName = "lease"

// Duration bounds, in months.
const (
	MinDurationMonths = 1
	MaxDurationMonths = 36
)

// ══════════════════════════════════════════════════════════════════════════════
// STATE
// ══════════════════════════════════════════════════════════════════════════════

// State is the lifecycle state of a lease.
type State string

const (
	// StatePending - reserved, never assigned by any operation.
	StatePending State = "PENDING"
	// StateActive - the student occupies the unit.
	StateActive State = "ACTIVE"
	// StateCompleted - the tenancy ended normally. Terminal.
	StateCompleted State = "COMPLETED"
	// StateCancelled - the tenancy was called off. Terminal.
	StateCancelled State = "CANCELLED"
)

// IsValid reports whether s is one of the declared states.
func (s State) IsValid() bool {
	switch s {
	case StatePending, StateActive, StateCompleted, StateCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no transition leaves s.
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateCancelled
}

// HoldsUnit reports whether a lease in state s occupies its housing unit.
func (s State) HoldsUnit() bool {
	return s == StateActive
}

// String returns the state name.
func (s State) String() string {
	return string(s)
}

// transitions is the complete list of allowed state changes.
var transitions = map[State][]State{
	StatePending:   {StateCancelled},
	StateActive:    {StateCompleted, StateCancelled},
	StateCompleted: nil,
	StateCancelled: nil,
}

// CanTransition reports whether the table allows from → to.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITY: LEASE
// ══════════════════════════════════════════════════════════════════════════════

// Lease is a tenancy of one student in one housing unit.
type Lease struct {
	// ID - unique identifier (UUID).
	ID string

	// StudentID - the tenant.
	StudentID string

	// HousingID - the leased unit.
	HousingID string

	// State - lifecycle state.
	State State

	// DurationMonths - agreed length, 1..36.
	DurationMonths int

	// StartedAt - when the lease was opened.
	StartedAt time.Time

	// EndedAt - when the lease was completed or cancelled.
	EndedAt *time.Time

	// ContractID - bound contract, derived on read. Never persisted here.
	ContractID *string
}

// NewParams holds the input for New.
type NewParams struct {
	ID             string
	StudentID      string
	HousingID      string
	DurationMonths int
	Now            time.Time
}

// New creates an ACTIVE lease. Existence and availability checks are the
// caller's job; New only enforces field rules.
func New(p NewParams) (*Lease, error) {
	if err := shared.RequireID(domainName, "Open", "lease id", p.ID); err != nil {
		return nil, err
	}
	if err := shared.RequireID(domainName, "Open", "student id", p.StudentID); err != nil {
		return nil, err
	}
	if err := shared.RequireID(domainName, "Open", "housing id", p.HousingID); err != nil {
		return nil, err
	}
	if err := ValidateDuration("Open", p.DurationMonths); err != nil {
		return nil, err
	}

	return &Lease{
		ID:             p.ID,
		StudentID:      p.StudentID,
		HousingID:      p.HousingID,
		State:          StateActive,
		DurationMonths: p.DurationMonths,
		StartedAt:      p.Now.UTC(),
	}, nil
}

// ValidateDuration checks the 1..36 month range.
func ValidateDuration(op string, months int) error {
	if months < MinDurationMonths || months > MaxDurationMonths {
		return shared.Validation(domainName, op,
			"duration must be between %d and %d months, got %d",
			MinDurationMonths, MaxDurationMonths, months)
	}
	return nil
}

// Complete moves an ACTIVE lease to COMPLETED.
func (l *Lease) Complete(at time.Time) error {
	return l.transition("Complete", StateCompleted, at)
}

// Cancel moves a PENDING or ACTIVE lease to CANCELLED.
func (l *Lease) Cancel(at time.Time) error {
	return l.transition("Cancel", StateCancelled, at)
}

func (l *Lease) transition(op string, to State, at time.Time) error {
	if !CanTransition(l.State, to) {
		return shared.Conflict(domainName, op, "cannot move lease %s from %s to %s", l.ID, l.State, to)
	}
	ended := at.UTC()
	l.State = to
	l.EndedAt = &ended
	return nil
}

// ChangeDuration replaces the agreed duration after validating it.
func (l *Lease) ChangeDuration(months int) error {
	if err := ValidateDuration("Update", months); err != nil {
		return err
	}
	l.DurationMonths = months
	return nil
}

// String returns a compact representation for logging.
func (l *Lease) String() string {
	return fmt.Sprintf("Lease{ID: %s, Student: %s, Housing: %s, State: %s}",
		l.ID, l.StudentID, l.HousingID, l.State)
}

// Clone creates a deep copy of the lease.
func (l *Lease) Clone() *Lease {
	if l == nil {
		return nil
	}
	clone := *l
	if l.EndedAt != nil {
		endedAt := *l.EndedAt
		clone.EndedAt = &endedAt
	}
	if l.ContractID != nil {
		contractID := *l.ContractID
		clone.ContractID = &contractID
	}
	return &clone
}
