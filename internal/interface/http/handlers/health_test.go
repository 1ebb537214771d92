package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/shared"
)

func TestHealthChecker_NoChecks(t *testing.T) {
	status := NewHealthChecker("v1").Check(context.Background())

	assert.True(t, status.Healthy)
	assert.Equal(t, "v1", status.Version)
	assert.Equal(t, "no checks registered", status.Message)
}

func TestHealthChecker_TimeoutFailsCheck(t *testing.T) {
	h := NewHealthChecker("v1")
	h.SetTimeout(20 * time.Millisecond)
	h.AddCheck("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	h.AddCheck("fast", func(context.Context) error { return nil })

	status := h.Check(context.Background())

	assert.False(t, status.Healthy)
	assert.True(t, status.Checks["fast"].Healthy)
	assert.False(t, status.Checks["slow"].Healthy)
	assert.Equal(t, context.DeadlineExceeded.Error(), status.Checks["slow"].Message)
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func TestPingCheck(t *testing.T) {
	down := errors.New("down")
	assert.NoError(t, PingCheck(fakePinger{})(context.Background()))
	assert.ErrorIs(t, PingCheck(fakePinger{err: down})(context.Background()), down)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{shared.Validation("lease", "Open", "duration out of range"), http.StatusBadRequest, CodeValidation},
		{shared.NotFound("lease", "Open", "student not found"), http.StatusNotFound, CodeNotFound},
		{shared.Conflict("lease", "Open", "housing unavailable"), http.StatusConflict, CodeConflict},
		{fmt.Errorf("commit: %w", shared.Conflict("uow", "Commit", "serialization failure")), http.StatusConflict, CodeConflict},
		{errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}
	for _, tt := range tests {
		status, code := StatusFor(tt.err)
		assert.Equal(t, tt.status, status)
		assert.Equal(t, tt.code, code)
	}
}
