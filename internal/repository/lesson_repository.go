package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dsicola/academico-api/internal/models"
)

// LessonRepository reads lessons and presence marks, which are written by the
// classroom workflows and only aggregated here.
type LessonRepository struct {
	db *sqlx.DB
}

// NewLessonRepository constructs the repository.
func NewLessonRepository(db *sqlx.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

// CountByPlan returns how many lessons were given under a plan.
func (r *LessonRepository) CountByPlan(ctx context.Context, planoEnsinoID string) (int, error) {
	const query = `SELECT COUNT(*) FROM aulas WHERE plano_ensino_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, planoEnsinoID); err != nil {
		return 0, fmt.Errorf("count lessons: %w", err)
	}
	return count, nil
}

// CountAttended returns how many of the plan's lessons the student attended,
// counting PRESENTE and JUSTIFICADA marks.
func (r *LessonRepository) CountAttended(ctx context.Context, planoEnsinoID, alunoID string) (int, error) {
	const query = `SELECT COUNT(*) FROM presencas p
        JOIN aulas a ON a.id = p.aula_id
        WHERE a.plano_ensino_id = $1 AND p.aluno_id = $2 AND p.status IN ($3, $4)`
	var count int
	if err := r.db.GetContext(ctx, &count, query, planoEnsinoID, alunoID, models.PresencaPresente, models.PresencaJustificada); err != nil {
		return 0, fmt.Errorf("count attended lessons: %w", err)
	}
	return count, nil
}

// HasAttendanceRecords reports whether any presence mark exists for the plan.
func (r *LessonRepository) HasAttendanceRecords(ctx context.Context, planoEnsinoID string) (bool, error) {
	const query = `SELECT COUNT(*) FROM presencas p
        JOIN aulas a ON a.id = p.aula_id
        WHERE a.plano_ensino_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, planoEnsinoID); err != nil {
		return false, fmt.Errorf("check attendance records: %w", err)
	}
	return count > 0, nil
}
