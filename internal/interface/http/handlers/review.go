package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/application/tenancy"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/review"
)

// ReviewResponse is the wire form of a review.
type ReviewResponse struct {
	ID         string     `json:"id"`
	Content    string     `json:"content"`
	Rating     int        `json:"rating"`
	HousingID  string     `json:"housing_id"`
	AuthorID   string     `json:"author_id"`
	CreatedAt  time.Time  `json:"created_at"`
	ModifiedAt *time.Time `json:"modified_at,omitempty"`
}

func toReviewResponse(r *review.Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		Content:    r.Content,
		Rating:     int(r.Rating),
		HousingID:  r.HousingID,
		AuthorID:   r.AuthorID,
		CreatedAt:  r.CreatedAt,
		ModifiedAt: r.ModifiedAt,
	}
}

// CreateReviewRequest is the body of POST /reviews. The author is the actor.
type CreateReviewRequest struct {
	Content   string `json:"content"`
	Rating    int    `json:"rating"`
	HousingID string `json:"housing_id"`
}

// UpdateReviewRequest is the body of PATCH /reviews/:id.
type UpdateReviewRequest struct {
	Content *string `json:"content"`
	Rating  *int    `json:"rating"`
}

// ReviewHandler serves the review endpoints.
type ReviewHandler struct {
	reviews *tenancy.ReviewGate
}

// NewReviewHandler creates a ReviewHandler.
func NewReviewHandler(reviews *tenancy.ReviewGate) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// Create handles POST /reviews.
func (h *ReviewHandler) Create(c *gin.Context) {
	actorID, _, ok := actor(c)
	if !ok {
		return
	}
	var req CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := h.reviews.Create(c.Request.Context(), tenancy.ReviewInput{
		Content:   req.Content,
		Rating:    req.Rating,
		HousingID: req.HousingID,
		AuthorID:  actorID,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toReviewResponse(r))
}

// Get handles GET /reviews/:id.
func (h *ReviewHandler) Get(c *gin.Context) {
	r, err := h.reviews.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReviewResponse(r))
}

// Update handles PATCH /reviews/:id.
func (h *ReviewHandler) Update(c *gin.Context) {
	actorID, _, ok := actor(c)
	if !ok {
		return
	}
	var req UpdateReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := h.reviews.Update(c.Request.Context(), c.Param("id"), actorID, tenancy.ReviewPatch{
		Content: req.Content,
		Rating:  req.Rating,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReviewResponse(r))
}

// Delete handles DELETE /reviews/:id.
func (h *ReviewHandler) Delete(c *gin.Context) {
	actorID, admin, ok := actor(c)
	if !ok {
		return
	}
	if err := h.reviews.Delete(c.Request.Context(), c.Param("id"), actorID, admin); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListByHousing handles GET /housings/:id/reviews.
func (h *ReviewHandler) ListByHousing(c *gin.Context) {
	reviews, err := h.reviews.ListByHousing(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	out := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, toReviewResponse(r))
	}
	c.JSON(http.StatusOK, gin.H{"reviews": out})
}

// Eligibility handles GET /housings/:id/reviews/eligibility?student_id=.
// Without the query parameter the actor is checked.
func (h *ReviewHandler) Eligibility(c *gin.Context) {
	studentID := strings.TrimSpace(c.Query("student_id"))
	if studentID == "" {
		var ok bool
		if studentID, _, ok = actor(c); !ok {
			return
		}
	}
	housingID := c.Param("id")
	allowed, err := h.reviews.CanReview(c.Request.Context(), studentID, housingID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"student_id": studentID,
		"housing_id": housingID,
		"can_review": allowed,
	})
}
