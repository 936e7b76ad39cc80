package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dsicola/academico-api/internal/models"
)

// AnnualEnrollmentRepository reads yearly administrative enrollments, which
// are created by external secretariat workflows.
type AnnualEnrollmentRepository struct {
	db *sqlx.DB
}

// NewAnnualEnrollmentRepository constructs the repository.
func NewAnnualEnrollmentRepository(db *sqlx.DB) *AnnualEnrollmentRepository {
	return &AnnualEnrollmentRepository{db: db}
}

// ListActive returns the ATIVA annual enrollments for a student and year,
// scoped to the institution. The eligibility chain requires exactly one.
func (r *AnnualEnrollmentRepository) ListActive(ctx context.Context, alunoID, anoLetivoID, instituicaoID string) ([]models.AnnualEnrollment, error) {
	const query = `SELECT id, instituicao_id, aluno_id, ano_letivo_id, curso_id, classe_id, status, created_at
        FROM matriculas_anuais
        WHERE aluno_id = $1 AND ano_letivo_id = $2 AND instituicao_id = $3 AND status = $4`
	var enrollments []models.AnnualEnrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, alunoID, anoLetivoID, instituicaoID, models.AnnualAtiva); err != nil {
		return nil, fmt.Errorf("list active annual enrollments: %w", err)
	}
	return enrollments, nil
}

// FindForYear returns the single annual enrollment of a student for a year
// regardless of status, for report-card scoping.
func (r *AnnualEnrollmentRepository) FindForYear(ctx context.Context, alunoID, anoLetivoID, instituicaoID string) (*models.AnnualEnrollment, error) {
	const query = `SELECT id, instituicao_id, aluno_id, ano_letivo_id, curso_id, classe_id, status, created_at
        FROM matriculas_anuais
        WHERE aluno_id = $1 AND ano_letivo_id = $2 AND instituicao_id = $3
        ORDER BY created_at DESC LIMIT 1`
	var enrollment models.AnnualEnrollment
	if err := r.db.GetContext(ctx, &enrollment, query, alunoID, anoLetivoID, instituicaoID); err != nil {
		return nil, err
	}
	return &enrollment, nil
}
