// Package student exposes the slice of the student aggregate the tenancy
// engine depends on. Profiles and accounts are owned by another module.
package student

import "context"

// Student is the identity of a registered student.
type Student struct {
	ID          string
	DisplayName string
}

// Directory answers existence questions about students.
type Directory interface {
	// Exists reports whether a student with the given id is registered.
	Exists(ctx context.Context, id string) (bool, error)
}
