// Package memory is an in-process implementation of the tenancy repositories.
// Units of work are serialized: Begin waits for the previous unit to finish,
// works on a private copy of the data and publishes it on Commit. It backs
// the test suite and the STORE_DRIVER=memory mode.
package memory

import (
	"context"
	"sort"

	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/contract"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/housing"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/lease"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/review"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/student"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/uow"
)

// Store holds all tenancy data in memory.
type Store struct {
	sem  chan struct{}
	data *dataset
}

type dataset struct {
	housings  map[string]*housing.Housing
	students  map[string]student.Student
	leases    map[string]*lease.Lease
	contracts map[string]*contract.Contract
	reviews   map[string]*review.Review
}

// New creates an empty Store.
func New() *Store {
	s := &Store{
		sem: make(chan struct{}, 1),
		data: &dataset{
			housings:  make(map[string]*housing.Housing),
			students:  make(map[string]student.Student),
			leases:    make(map[string]*lease.Lease),
			contracts: make(map[string]*contract.Contract),
			reviews:   make(map[string]*review.Review),
		},
	}
	return s
}

var _ uow.Factory = (*Store)(nil)

// Begin implements uow.Factory.
func (s *Store) Begin(ctx context.Context) (uow.UnitOfWork, error) {
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &unitOfWork{store: s, data: s.data.clone()}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SEEDING & INSPECTION
// Housing units and students are owned by other modules; these helpers stand
// in for them.
// ══════════════════════════════════════════════════════════════════════════════

// AddHousing inserts or replaces a housing unit.
func (s *Store) AddHousing(h housing.Housing) {
	s.write(func(d *dataset) { d.housings[h.ID] = h.Clone() })
}

// RemoveHousing deletes a housing unit.
func (s *Store) RemoveHousing(id string) {
	s.write(func(d *dataset) { delete(d.housings, id) })
}

// AddStudent inserts or replaces a student.
func (s *Store) AddStudent(st student.Student) {
	s.write(func(d *dataset) { d.students[st.ID] = st })
}

// Housing returns a copy of a stored housing unit.
func (s *Store) Housing(id string) (*housing.Housing, bool) {
	var h *housing.Housing
	s.write(func(d *dataset) { h = d.housings[id].Clone() })
	return h, h != nil
}

// Housings returns copies of all stored units ordered by id.
func (s *Store) Housings() []*housing.Housing {
	var out []*housing.Housing
	s.write(func(d *dataset) {
		for _, h := range d.housings {
			out = append(out, h.Clone())
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Counts reports how many leases, contracts and reviews are stored.
func (s *Store) Counts() (leases, contracts, reviews int) {
	s.write(func(d *dataset) {
		leases, contracts, reviews = len(d.leases), len(d.contracts), len(d.reviews)
	})
	return leases, contracts, reviews
}

func (s *Store) write(fn func(d *dataset)) {
	s.sem <- struct{}{}
	defer func() { <-s.sem }()
	fn(s.data)
}

func (d *dataset) clone() *dataset {
	c := &dataset{
		housings:  make(map[string]*housing.Housing, len(d.housings)),
		students:  make(map[string]student.Student, len(d.students)),
		leases:    make(map[string]*lease.Lease, len(d.leases)),
		contracts: make(map[string]*contract.Contract, len(d.contracts)),
		reviews:   make(map[string]*review.Review, len(d.reviews)),
	}
	for k, v := range d.housings {
		c.housings[k] = v.Clone()
	}
	for k, v := range d.students {
		c.students[k] = v
	}
	for k, v := range d.leases {
		c.leases[k] = v.Clone()
	}
	for k, v := range d.contracts {
		c.contracts[k] = v.Clone()
	}
	for k, v := range d.reviews {
		c.reviews[k] = v.Clone()
	}
	return c
}

// ══════════════════════════════════════════════════════════════════════════════
// UNIT OF WORK
// ══════════════════════════════════════════════════════════════════════════════

type unitOfWork struct {
	store *Store
	data  *dataset
	done  bool
}

func (u *unitOfWork) Housings() housing.Repository   { return housingRepo{d: u.data} }
func (u *unitOfWork) Students() student.Directory    { return studentDirectory{d: u.data} }
func (u *unitOfWork) Leases() lease.Repository       { return leaseRepo{d: u.data} }
func (u *unitOfWork) Contracts() contract.Repository { return contractRepo{d: u.data} }
func (u *unitOfWork) Reviews() review.Repository     { return reviewRepo{d: u.data} }

func (u *unitOfWork) Commit(_ context.Context) error {
	if u.done {
		return nil
	}
	u.store.data = u.data
	u.finish()
	return nil
}

func (u *unitOfWork) Rollback(_ context.Context) error {
	if u.done {
		return nil
	}
	u.finish()
	return nil
}

func (u *unitOfWork) finish() {
	u.done = true
	<-u.store.sem
}
