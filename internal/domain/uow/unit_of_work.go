// Package uow declares the transactional boundary shared by every tenancy
// aggregate. One UnitOfWork spans all repositories so that writes touching
// two aggregates (lease + housing, contract + lease) commit or roll back together.
package uow

import (
	"context"

	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/contract"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/housing"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/lease"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/review"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/student"
)

// UnitOfWork is a unit of work with transactional semantics.
type UnitOfWork interface {
	// Housings returns the housing repository bound to this unit of work.
	Housings() housing.Repository

	// Students returns the student directory bound to this unit of work.
	Students() student.Directory

	// Leases returns the lease repository bound to this unit of work.
	Leases() lease.Repository

	// Contracts returns the contract repository bound to this unit of work.
	Contracts() contract.Repository

	// Reviews returns the review repository bound to this unit of work.
	Reviews() review.Repository

	// Commit makes all changes visible.
	Commit(ctx context.Context) error

	// Rollback discards all changes. Calling it after Commit is a no-op.
	Rollback(ctx context.Context) error
}

// Factory creates units of work.
type Factory interface {
	// Begin starts a new unit of work.
	Begin(ctx context.Context) (UnitOfWork, error)
}
