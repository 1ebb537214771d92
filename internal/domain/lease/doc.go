// Package lease contains the tenancy ("lease") aggregate and its state machine.
//
// A lease binds one student to one housing unit for 1 to 36 months. The state
// set is a closed enumeration and every change goes through an explicit
// transition table:
//
//	(none)  ──Open──────▶ ACTIVE
//	ACTIVE  ──Complete──▶ COMPLETED
//	PENDING ──Cancel────▶ CANCELLED
//	ACTIVE  ──Cancel────▶ CANCELLED
//
// COMPLETED and CANCELLED are terminal. PENDING is declared but reserved for a
// future intake flow: no operation in this package produces it.
//
// # Usage
//
//	l, err := lease.New(lease.NewParams{
//	    ID:             uuid.NewString(),
//	    StudentID:      studentID,
//	    HousingID:      housingID,
//	    DurationMonths: 6,
//	    Now:            clock.Now(),
//	})
//	...
//	if err := l.Complete(clock.Now()); err != nil {
//	    // shared.IsConflict(err) == true when the lease is not ACTIVE
//	}
//
// The lease does not store a reference to its contract. Whether a contract is
// bound is derived from the contract side (contract.lease_id is unique), so
// ContractID is filled in on read only.
package lease
