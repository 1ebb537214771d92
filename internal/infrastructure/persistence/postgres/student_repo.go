package postgres

import (
	"context"

	"github.com/UDFJDC-ModelosProgramacion/MP-202530-G81-E5-ViviendaUniversitaria-Back-sub000/internal/domain/student"
)

// StudentDirectory implements student.Directory for PostgreSQL.
type StudentDirectory struct {
	q Querier
}

// NewStudentDirectory creates a StudentDirectory over q.
func NewStudentDirectory(q Querier) *StudentDirectory {
	return &StudentDirectory{q: q}
}

// Exists reports whether a student is registered.
func (r *StudentDirectory) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM students WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, queryError("student", "check student", err)
	}
	return exists, nil
}

// Upsert inserts or renames a student. Used by the seed command.
func (r *StudentDirectory) Upsert(ctx context.Context, s student.Student) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO students (id, display_name) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET display_name = EXCLUDED.display_name
	`, s.ID, s.DisplayName)
	if err != nil {
		return queryError("student", "upsert student", err)
	}
	return nil
}
