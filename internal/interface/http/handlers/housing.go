package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/application/tenancy"
)

// AvailabilityHandler exposes the availability flag read-only. The flag is
// only changed through lease transitions.
type AvailabilityHandler struct {
	availability *tenancy.AvailabilityStore
}

// NewAvailabilityHandler creates an AvailabilityHandler.
func NewAvailabilityHandler(availability *tenancy.AvailabilityStore) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

// Get handles GET /housings/:id/availability.
func (h *AvailabilityHandler) Get(c *gin.Context) {
	housingID := c.Param("id")
	available, err := h.availability.IsAvailable(c.Request.Context(), housingID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"housing_id": housingID,
		"available":  available,
	})
}
