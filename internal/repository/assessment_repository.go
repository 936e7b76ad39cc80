package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dsicola/academico-api/internal/models"
)

// AssessmentRepository reads weighted assessments and recorded scores.
type AssessmentRepository struct {
	db *sqlx.DB
}

// NewAssessmentRepository constructs the repository.
func NewAssessmentRepository(db *sqlx.DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

// ListScored joins the plan's assessments with the student's grades. Nota is
// NULL for assessments without a recorded score.
func (r *AssessmentRepository) ListScored(ctx context.Context, planoEnsinoID, alunoID string) ([]models.ScoredAssessment, error) {
	const query = `SELECT av.id, av.plano_ensino_id, av.nome, av.peso, av.fechada, av.data, n.nota
        FROM avaliacoes av
        LEFT JOIN notas n ON n.avaliacao_id = av.id AND n.aluno_id = $2
        WHERE av.plano_ensino_id = $1
        ORDER BY av.data`
	var scored []models.ScoredAssessment
	if err := r.db.SelectContext(ctx, &scored, query, planoEnsinoID, alunoID); err != nil {
		return nil, fmt.Errorf("list scored assessments: %w", err)
	}
	return scored, nil
}

// CountOpen returns how many assessments under the plan are not yet closed.
func (r *AssessmentRepository) CountOpen(ctx context.Context, planoEnsinoID string) (int, error) {
	const query = `SELECT COUNT(*) FROM avaliacoes WHERE plano_ensino_id = $1 AND fechada = FALSE`
	var count int
	if err := r.db.GetContext(ctx, &count, query, planoEnsinoID); err != nil {
		return 0, fmt.Errorf("count open assessments: %w", err)
	}
	return count, nil
}

// CountByPlan returns the total number of assessments under the plan.
func (r *AssessmentRepository) CountByPlan(ctx context.Context, planoEnsinoID string) (int, error) {
	const query = `SELECT COUNT(*) FROM avaliacoes WHERE plano_ensino_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, planoEnsinoID); err != nil {
		return 0, fmt.Errorf("count assessments: %w", err)
	}
	return count, nil
}
