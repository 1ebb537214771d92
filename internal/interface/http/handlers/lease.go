package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/application/tenancy"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/lease"
)

// LeaseResponse is the wire form of a lease.
type LeaseResponse struct {
	ID             string     `json:"id"`
	StudentID      string     `json:"student_id"`
	HousingID      string     `json:"housing_id"`
	State          string     `json:"state"`
	DurationMonths int        `json:"duration_months"`
	StartedAt      time.Time  `json:"started_at"`
	EndedAt        *time.Time `json:"ended_at,omitempty"`
	ContractID     *string    `json:"contract_id"`
}

func toLeaseResponse(l *lease.Lease) LeaseResponse {
	return LeaseResponse{
		ID:             l.ID,
		StudentID:      l.StudentID,
		HousingID:      l.HousingID,
		State:          l.State.String(),
		DurationMonths: l.DurationMonths,
		StartedAt:      l.StartedAt,
		EndedAt:        l.EndedAt,
		ContractID:     l.ContractID,
	}
}

func toLeaseList(leases []*lease.Lease) []LeaseResponse {
	out := make([]LeaseResponse, 0, len(leases))
	for _, l := range leases {
		out = append(out, toLeaseResponse(l))
	}
	return out
}

// OpenLeaseRequest is the body of POST /leases.
type OpenLeaseRequest struct {
	StudentID      string `json:"student_id"`
	HousingID      string `json:"housing_id"`
	DurationMonths int    `json:"duration_months"`
}

// UpdateLeaseRequest is the body of PATCH /leases/:id.
type UpdateLeaseRequest struct {
	DurationMonths *int    `json:"duration_months"`
	HousingID      *string `json:"housing_id"`
}

// LeaseHandler serves the lease lifecycle endpoints.
type LeaseHandler struct {
	leases *tenancy.LeaseManager
}

// NewLeaseHandler creates a LeaseHandler.
func NewLeaseHandler(leases *tenancy.LeaseManager) *LeaseHandler {
	return &LeaseHandler{leases: leases}
}

// Open handles POST /leases.
func (h *LeaseHandler) Open(c *gin.Context) {
	var req OpenLeaseRequest
	if !bindJSON(c, &req) {
		return
	}
	l, err := h.leases.Open(c.Request.Context(), req.StudentID, req.HousingID, req.DurationMonths)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toLeaseResponse(l))
}

// Get handles GET /leases/:id.
func (h *LeaseHandler) Get(c *gin.Context) {
	l, err := h.leases.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLeaseResponse(l))
}

// Update handles PATCH /leases/:id.
func (h *LeaseHandler) Update(c *gin.Context) {
	var req UpdateLeaseRequest
	if !bindJSON(c, &req) {
		return
	}
	l, err := h.leases.Update(c.Request.Context(), c.Param("id"), tenancy.LeasePatch{
		DurationMonths: req.DurationMonths,
		HousingID:      req.HousingID,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLeaseResponse(l))
}

// Complete handles POST /leases/:id/complete.
func (h *LeaseHandler) Complete(c *gin.Context) {
	l, err := h.leases.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLeaseResponse(l))
}

// Cancel handles POST /leases/:id/cancel.
func (h *LeaseHandler) Cancel(c *gin.Context) {
	l, err := h.leases.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLeaseResponse(l))
}

// Delete handles DELETE /leases/:id.
func (h *LeaseHandler) Delete(c *gin.Context) {
	if err := h.leases.Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListByStudent handles GET /students/:id/leases.
func (h *LeaseHandler) ListByStudent(c *gin.Context) {
	leases, err := h.leases.ListByStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leases": toLeaseList(leases)})
}

// ListByHousing handles GET /housings/:id/leases.
func (h *LeaseHandler) ListByHousing(c *gin.Context) {
	leases, err := h.leases.ListByHousing(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leases": toLeaseList(leases)})
}
