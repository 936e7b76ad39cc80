package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dsicola/academico-api/internal/models"
)

// ClassEnrollmentRepository reads matrículas (student-to-section bindings).
type ClassEnrollmentRepository struct {
	db *sqlx.DB
}

// NewClassEnrollmentRepository constructs the repository.
func NewClassEnrollmentRepository(db *sqlx.DB) *ClassEnrollmentRepository {
	return &ClassEnrollmentRepository{db: db}
}

// FindActiveInSection returns the student's Ativa matrícula in a specific
// section, if any.
func (r *ClassEnrollmentRepository) FindActiveInSection(ctx context.Context, alunoID, turmaID string) (*models.ClassEnrollment, error) {
	const query = `SELECT id, instituicao_id, aluno_id, turma_id, status, data_matricula
        FROM matriculas
        WHERE aluno_id = $1 AND turma_id = $2 AND status = $3
        ORDER BY data_matricula DESC LIMIT 1`
	var enrollment models.ClassEnrollment
	if err := r.db.GetContext(ctx, &enrollment, query, alunoID, turmaID, models.MatriculaAtiva); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// FindCurrent returns the student's most recent Ativa matrícula.
func (r *ClassEnrollmentRepository) FindCurrent(ctx context.Context, alunoID, instituicaoID string) (*models.ClassEnrollment, error) {
	const query = `SELECT id, instituicao_id, aluno_id, turma_id, status, data_matricula
        FROM matriculas
        WHERE aluno_id = $1 AND instituicao_id = $2 AND status = $3
        ORDER BY data_matricula DESC LIMIT 1`
	var enrollment models.ClassEnrollment
	if err := r.db.GetContext(ctx, &enrollment, query, alunoID, instituicaoID, models.MatriculaAtiva); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// ListRosterBySection returns the gradesheet roster: every Ativa or Trancada
// matrícula in the section, with the student's name.
func (r *ClassEnrollmentRepository) ListRosterBySection(ctx context.Context, turmaID string) ([]models.RosterEntry, error) {
	const query = `SELECT m.id, m.aluno_id, m.status, u.nome AS aluno_nome
        FROM matriculas m
        JOIN usuarios u ON u.id = m.aluno_id
        WHERE m.turma_id = $1 AND m.status IN ($2, $3)
        ORDER BY u.nome`
	var roster []models.RosterEntry
	if err := r.db.SelectContext(ctx, &roster, query, turmaID, models.MatriculaAtiva, models.MatriculaTrancada); err != nil {
		return nil, fmt.Errorf("list section roster: %w", err)
	}
	return roster, nil
}
