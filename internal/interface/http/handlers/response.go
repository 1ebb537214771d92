package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/shared"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/pkg/logger"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ERROR ENVELOPE
// ══════════════════════════════════════════════════════════════════════════════

// Error codes returned in the envelope.
const (
	CodeValidation = "validation"
	CodeNotFound   = "not_found"
	CodeConflict   = "conflict"
	CodeBadRequest = "bad_request"
	CodeInternal   = "internal"
)

// Actor headers set by the gateway.
const (
	HeaderActorID    = "X-Actor-ID"
	HeaderActorAdmin = "X-Actor-Admin"
)

// APIError is the body of an error response.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorEnvelope wraps APIError.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// StatusFor maps an engine error to its HTTP status and envelope code.
func StatusFor(err error) (int, string) {
	switch {
	case shared.IsValidation(err):
		return http.StatusBadRequest, CodeValidation
	case shared.IsNotFound(err):
		return http.StatusNotFound, CodeNotFound
	case shared.IsConflict(err):
		return http.StatusConflict, CodeConflict
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// RespondError writes err as an error envelope. Unexpected errors are logged
// and their text is not exposed.
func RespondError(c *gin.Context, err error) {
	status, code := StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).Error("request failed",
			logger.String("path", c.FullPath()),
			logger.Err(err),
		)
		msg = "internal error"
	}
	abort(c, status, code, msg)
}

// RespondBadRequest rejects a malformed request before it reaches the engine.
func RespondBadRequest(c *gin.Context, msg string) {
	abort(c, http.StatusBadRequest, CodeBadRequest, msg)
}

func abort(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Code:      code,
			Message:   msg,
			RequestID: c.GetString(logger.RequestIDKey),
		},
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// bindJSON decodes the body into dst, writing a 400 on malformed input.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondBadRequest(c, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// actor returns the caller id and admin flag, writing a 400 when the id
// header is missing.
func actor(c *gin.Context) (string, bool, bool) {
	id := strings.TrimSpace(c.GetHeader(HeaderActorID))
	if id == "" {
		RespondBadRequest(c, HeaderActorID+" header is required")
		return "", false, false
	}
	admin, _ := strconv.ParseBool(c.GetHeader(HeaderActorAdmin))
	return id, admin, true
}

// parseDate reads an optional YYYY-MM-DD field as a calendar day in loc.
func parseDate(c *gin.Context, loc *time.Location, field string, value *string) (*time.Time, bool) {
	if value == nil {
		return nil, true
	}
	t, err := timeutil.ParseDate(strings.TrimSpace(*value), loc)
	if err != nil {
		RespondError(c, shared.Validation("http", "parseDate", "%s must be YYYY-MM-DD", field))
		return nil, false
	}
	return &t, true
}
