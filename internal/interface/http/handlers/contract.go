package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/application/tenancy"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/contract"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/pkg/timeutil"
)

// ContractResponse is the wire form of a contract. Dates are calendar days
// in the engine clock's zone.
type ContractResponse struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	TotalAmount float64   `json:"total_amount"`
	LeaseID     string    `json:"lease_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toContractResponse(ct *contract.Contract, loc *time.Location) ContractResponse {
	return ContractResponse{
		ID:          ct.ID,
		Code:        ct.Code,
		StartDate:   timeutil.FormatDateStr(ct.StartDate, loc),
		EndDate:     timeutil.FormatDateStr(ct.EndDate, loc),
		TotalAmount: ct.TotalAmount,
		LeaseID:     ct.LeaseID,
		CreatedAt:   ct.CreatedAt,
		UpdatedAt:   ct.UpdatedAt,
	}
}

// CreateContractRequest is the body of POST /contracts.
type CreateContractRequest struct {
	Code        string  `json:"code"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	TotalAmount float64 `json:"total_amount"`
	LeaseID     string  `json:"lease_id"`
}

// UpdateContractRequest is the body of PATCH /contracts/:id.
type UpdateContractRequest struct {
	Code        *string  `json:"code"`
	StartDate   *string  `json:"start_date"`
	EndDate     *string  `json:"end_date"`
	TotalAmount *float64 `json:"total_amount"`
	LeaseID     *string  `json:"lease_id"`
}

// ContractHandler serves the contract endpoints.
type ContractHandler struct {
	contracts *tenancy.ContractBinder
}

// NewContractHandler creates a ContractHandler.
func NewContractHandler(contracts *tenancy.ContractBinder) *ContractHandler {
	return &ContractHandler{contracts: contracts}
}

// Create handles POST /contracts.
func (h *ContractHandler) Create(c *gin.Context) {
	var req CreateContractRequest
	if !bindJSON(c, &req) {
		return
	}
	start, ok := parseDate(c, h.contracts.Location(), "start_date", req.StartDate)
	if !ok {
		return
	}
	end, ok := parseDate(c, h.contracts.Location(), "end_date", req.EndDate)
	if !ok {
		return
	}

	ct, err := h.contracts.Create(c.Request.Context(), tenancy.ContractInput{
		Code:        req.Code,
		StartDate:   start,
		EndDate:     end,
		TotalAmount: req.TotalAmount,
		LeaseID:     req.LeaseID,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toContractResponse(ct, h.contracts.Location()))
}

// Get handles GET /contracts/:id.
func (h *ContractHandler) Get(c *gin.Context) {
	ct, err := h.contracts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toContractResponse(ct, h.contracts.Location()))
}

// GetByLease handles GET /leases/:id/contract.
func (h *ContractHandler) GetByLease(c *gin.Context) {
	ct, err := h.contracts.GetByLease(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toContractResponse(ct, h.contracts.Location()))
}

// Update handles PATCH /contracts/:id.
func (h *ContractHandler) Update(c *gin.Context) {
	var req UpdateContractRequest
	if !bindJSON(c, &req) {
		return
	}
	start, ok := parseDate(c, h.contracts.Location(), "start_date", req.StartDate)
	if !ok {
		return
	}
	end, ok := parseDate(c, h.contracts.Location(), "end_date", req.EndDate)
	if !ok {
		return
	}

	ct, err := h.contracts.Update(c.Request.Context(), c.Param("id"), tenancy.ContractPatch{
		Code:        req.Code,
		StartDate:   start,
		EndDate:     end,
		TotalAmount: req.TotalAmount,
		LeaseID:     req.LeaseID,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toContractResponse(ct, h.contracts.Location()))
}

// Delete handles DELETE /contracts/:id.
func (h *ContractHandler) Delete(c *gin.Context) {
	if err := h.contracts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
