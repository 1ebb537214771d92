package postgres

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/contract"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/lease"
	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/shared"
)

func uniqueViolation(constraint string) error {
	return fmt.Errorf("exec: %w", &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: constraint})
}

func TestIsUniqueViolation(t *testing.T) {
	err := uniqueViolation(constraintContractCode)

	assert.True(t, IsUniqueViolation(err, ""))
	assert.True(t, IsUniqueViolation(err, constraintContractCode))
	assert.False(t, IsUniqueViolation(err, constraintContractLease))
	assert.False(t, IsUniqueViolation(fmt.Errorf("plain"), ""))
}

func TestIsSerializationFailure(t *testing.T) {
	assert.True(t, IsSerializationFailure(&pgconn.PgError{Code: codeSerializationFailure}))
	assert.True(t, IsSerializationFailure(&pgconn.PgError{Code: codeDeadlockDetected}))
	assert.False(t, IsSerializationFailure(&pgconn.PgError{Code: codeUniqueViolation}))
}

func TestLeaseRepository_Translate(t *testing.T) {
	r := &LeaseRepository{}
	l := &lease.Lease{ID: "l-1", StudentID: "s-1", HousingID: "h-1"}

	assert.True(t, shared.IsConflict(r.translate("Create", l, uniqueViolation(constraintOneActiveLease))))
	assert.True(t, shared.IsNotFound(r.translate("Create", l, &pgconn.PgError{Code: codeForeignKeyViolation})))
	assert.Nil(t, shared.KindOf(r.translate("Create", l, fmt.Errorf("connection reset"))))
	assert.True(t, shared.IsConflict(r.translate("Update", l, &pgconn.PgError{Code: codeSerializationFailure})))
}

func TestQueryError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		conflict bool
	}{
		{"serialization failure", fmt.Errorf("exec: %w", &pgconn.PgError{Code: codeSerializationFailure}), true},
		{"deadlock", &pgconn.PgError{Code: codeDeadlockDetected}, true},
		{"unique violation", uniqueViolation(constraintContractCode), false},
		{"network", fmt.Errorf("connection reset"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := queryError("lease", "update lease", tt.err)
			assert.Equal(t, tt.conflict, shared.IsConflict(err))
			assert.ErrorIs(t, err, tt.err)
			if !tt.conflict {
				assert.Nil(t, shared.KindOf(err))
				assert.Contains(t, err.Error(), "failed to update lease")
			}
		})
	}
}

func TestContractRepository_Translate(t *testing.T) {
	r := &ContractRepository{}
	c := &contract.Contract{ID: "c-1", Code: "CT-1", LeaseID: "l-1"}

	assert.True(t, shared.IsValidation(r.translate("Create", c, uniqueViolation(constraintContractCode))))
	assert.True(t, shared.IsConflict(r.translate("Create", c, uniqueViolation(constraintContractLease))))
}

func TestMigrations(t *testing.T) {
	migrations := GetMigrations()
	last := 0
	for _, m := range migrations {
		assert.Greater(t, m.Version, last, "versions must increase")
		assert.NotEmpty(t, m.Name)
		assert.NotEmpty(t, m.UpSQL)
		assert.NotEmpty(t, m.DownSQL)
		last = m.Version
	}

	var all strings.Builder
	for _, m := range migrations {
		all.WriteString(m.UpSQL)
	}
	for _, constraint := range []string{constraintOneActiveLease, constraintContractCode, constraintContractLease} {
		assert.Contains(t, all.String(), constraint)
	}
	assert.Contains(t, all.String(), "WHERE state = 'ACTIVE'")
}
