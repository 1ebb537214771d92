package memory

import (
	"context"
	"sort"
	"time"

	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/contract"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/housing"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/lease"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/review"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/shared"
)

// ──────────────────────────────────────────────────────────────────────────────
// Housing
// ──────────────────────────────────────────────────────────────────────────────

type housingRepo struct{ d *dataset }

func (r housingRepo) GetByID(_ context.Context, id string) (*housing.Housing, error) {
	h, ok := r.d.housings[id]
	if !ok {
		return nil, shared.NotFound("housing", "GetByID", "housing %s not found", id)
	}
	return h.Clone(), nil
}

// GetForUpdate needs no row lock: the unit of work already excludes others.
func (r housingRepo) GetForUpdate(ctx context.Context, id string) (*housing.Housing, error) {
	return r.GetByID(ctx, id)
}

func (r housingRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := r.d.housings[id]
	return ok, nil
}

func (r housingRepo) SetAvailable(_ context.Context, id string, available bool) error {
	h, ok := r.d.housings[id]
	if !ok {
		return shared.NotFound("housing", "SetAvailable", "housing %s not found", id)
	}
	h.SetAvailable(available, time.Now().UTC())
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Students
// ──────────────────────────────────────────────────────────────────────────────

type studentDirectory struct{ d *dataset }

func (r studentDirectory) Exists(_ context.Context, id string) (bool, error) {
	_, ok := r.d.students[id]
	return ok, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Leases
// ──────────────────────────────────────────────────────────────────────────────

type leaseRepo struct{ d *dataset }

func (r leaseRepo) Create(_ context.Context, l *lease.Lease) error {
	if _, ok := r.d.leases[l.ID]; ok {
		return shared.Conflict("lease", "Create", "lease %s already exists", l.ID)
	}
	if err := r.checkSingleActive(l); err != nil {
		return err
	}
	r.d.leases[l.ID] = stored(l)
	return nil
}

func (r leaseRepo) GetByID(_ context.Context, id string) (*lease.Lease, error) {
	l, ok := r.d.leases[id]
	if !ok {
		return nil, shared.NotFound("lease", "GetByID", "lease %s not found", id)
	}
	return l.Clone(), nil
}

func (r leaseRepo) GetForUpdate(ctx context.Context, id string) (*lease.Lease, error) {
	return r.GetByID(ctx, id)
}

func (r leaseRepo) Update(_ context.Context, l *lease.Lease) error {
	if _, ok := r.d.leases[l.ID]; !ok {
		return shared.NotFound("lease", "Update", "lease %s not found", l.ID)
	}
	if err := r.checkSingleActive(l); err != nil {
		return err
	}
	r.d.leases[l.ID] = stored(l)
	return nil
}

func (r leaseRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.d.leases[id]; !ok {
		return shared.NotFound("lease", "Delete", "lease %s not found", id)
	}
	delete(r.d.leases, id)
	return nil
}

func (r leaseRepo) ExistsByStudentHousingState(_ context.Context, studentID, housingID string, state lease.State) (bool, error) {
	for _, l := range r.d.leases {
		if l.StudentID == studentID && l.HousingID == housingID && l.State == state {
			return true, nil
		}
	}
	return false, nil
}

func (r leaseRepo) ListByStudent(_ context.Context, studentID string) ([]*lease.Lease, error) {
	return r.filter(func(l *lease.Lease) bool { return l.StudentID == studentID }), nil
}

func (r leaseRepo) ListByHousing(_ context.Context, housingID string) ([]*lease.Lease, error) {
	return r.filter(func(l *lease.Lease) bool { return l.HousingID == housingID }), nil
}

func (r leaseRepo) filter(keep func(*lease.Lease) bool) []*lease.Lease {
	out := make([]*lease.Lease, 0)
	for _, l := range r.d.leases {
		if keep(l) {
			out = append(out, l.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// checkSingleActive mirrors the unique partial index on ACTIVE leases.
func (r leaseRepo) checkSingleActive(l *lease.Lease) error {
	if !l.State.HoldsUnit() {
		return nil
	}
	for _, other := range r.d.leases {
		if other.ID != l.ID && other.HousingID == l.HousingID && other.State.HoldsUnit() {
			return shared.Conflict("lease", "Save", "housing %s already has an active lease", l.HousingID)
		}
	}
	return nil
}

// stored drops the derived contract reference before persisting.
func stored(l *lease.Lease) *lease.Lease {
	c := l.Clone()
	c.ContractID = nil
	return c
}

// ──────────────────────────────────────────────────────────────────────────────
// Contracts
// ──────────────────────────────────────────────────────────────────────────────

type contractRepo struct{ d *dataset }

func (r contractRepo) Create(_ context.Context, c *contract.Contract) error {
	if _, ok := r.d.contracts[c.ID]; ok {
		return shared.Conflict("contract", "Create", "contract %s already exists", c.ID)
	}
	if err := r.checkUnique(c); err != nil {
		return err
	}
	r.d.contracts[c.ID] = c.Clone()
	return nil
}

func (r contractRepo) GetByID(_ context.Context, id string) (*contract.Contract, error) {
	c, ok := r.d.contracts[id]
	if !ok {
		return nil, shared.NotFound("contract", "GetByID", "contract %s not found", id)
	}
	return c.Clone(), nil
}

func (r contractRepo) GetByLeaseID(_ context.Context, leaseID string) (*contract.Contract, error) {
	for _, c := range r.d.contracts {
		if c.LeaseID == leaseID {
			return c.Clone(), nil
		}
	}
	return nil, shared.NotFound("contract", "GetByLeaseID", "no contract for lease %s", leaseID)
}

func (r contractRepo) Update(_ context.Context, c *contract.Contract) error {
	if _, ok := r.d.contracts[c.ID]; !ok {
		return shared.NotFound("contract", "Update", "contract %s not found", c.ID)
	}
	if err := r.checkUnique(c); err != nil {
		return err
	}
	r.d.contracts[c.ID] = c.Clone()
	return nil
}

func (r contractRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.d.contracts[id]; !ok {
		return shared.NotFound("contract", "Delete", "contract %s not found", id)
	}
	delete(r.d.contracts, id)
	return nil
}

func (r contractRepo) ExistsByCode(_ context.Context, code, excludeID string) (bool, error) {
	key := shared.FoldKey(code)
	for _, c := range r.d.contracts {
		if c.ID != excludeID && shared.FoldKey(c.Code) == key {
			return true, nil
		}
	}
	return false, nil
}

func (r contractRepo) ExistsByLeaseID(_ context.Context, leaseID string) (bool, error) {
	for _, c := range r.d.contracts {
		if c.LeaseID == leaseID {
			return true, nil
		}
	}
	return false, nil
}

// checkUnique mirrors the unique indexes on lower(code) and lease_id.
func (r contractRepo) checkUnique(c *contract.Contract) error {
	key := shared.FoldKey(c.Code)
	for _, other := range r.d.contracts {
		if other.ID == c.ID {
			continue
		}
		if shared.FoldKey(other.Code) == key {
			return shared.Validation("contract", "Save", "code %q is already in use", c.Code)
		}
		if other.LeaseID == c.LeaseID {
			return shared.Conflict("contract", "Save", "lease %s already has a contract", c.LeaseID)
		}
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Reviews
// ──────────────────────────────────────────────────────────────────────────────

type reviewRepo struct{ d *dataset }

func (r reviewRepo) Create(_ context.Context, rv *review.Review) error {
	if _, ok := r.d.reviews[rv.ID]; ok {
		return shared.Conflict("review", "Create", "review %s already exists", rv.ID)
	}
	r.d.reviews[rv.ID] = rv.Clone()
	return nil
}

func (r reviewRepo) GetByID(_ context.Context, id string) (*review.Review, error) {
	rv, ok := r.d.reviews[id]
	if !ok {
		return nil, shared.NotFound("review", "GetByID", "review %s not found", id)
	}
	return rv.Clone(), nil
}

func (r reviewRepo) Update(_ context.Context, rv *review.Review) error {
	if _, ok := r.d.reviews[rv.ID]; !ok {
		return shared.NotFound("review", "Update", "review %s not found", rv.ID)
	}
	r.d.reviews[rv.ID] = rv.Clone()
	return nil
}

func (r reviewRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.d.reviews[id]; !ok {
		return shared.NotFound("review", "Delete", "review %s not found", id)
	}
	delete(r.d.reviews, id)
	return nil
}

func (r reviewRepo) ListByHousing(_ context.Context, housingID string) ([]*review.Review, error) {
	out := make([]*review.Review, 0)
	for _, rv := range r.d.reviews {
		if rv.HousingID == housingID {
			out = append(out, rv.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
