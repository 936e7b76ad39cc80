package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dsicola/academico-api/internal/models"
)

// SubjectRepository reads subjects, curriculum links and equivalences.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository constructs the repository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// FindByID returns a subject by id.
func (r *SubjectRepository) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	const query = `SELECT id, instituicao_id, nome, carga_horaria, created_at FROM disciplinas WHERE id = $1`
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, id); err != nil {
		return nil, err
	}
	return &subject, nil
}

// HasCourseLink reports whether the subject is bound to the course through
// the curriculum link (curso_disciplina).
func (r *SubjectRepository) HasCourseLink(ctx context.Context, cursoID, disciplinaID string) (bool, error) {
	const query = `SELECT 1 FROM curso_disciplinas WHERE curso_id = $1 AND disciplina_id = $2 LIMIT 1`
	var one int
	if err := r.db.GetContext(ctx, &one, query, cursoID, disciplinaID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check curriculum link: %w", err)
	}
	return true, nil
}

// ListEquivalences returns the student's recorded subject equivalences.
func (r *SubjectRepository) ListEquivalences(ctx context.Context, alunoID, instituicaoID string) ([]models.SubjectEquivalence, error) {
	const query = `SELECT id, instituicao_id, aluno_id, disciplina_id, disciplina_origem_id, instituicao_origem_nome
        FROM equivalencias
        WHERE aluno_id = $1 AND instituicao_id = $2`
	var equivalences []models.SubjectEquivalence
	if err := r.db.SelectContext(ctx, &equivalences, query, alunoID, instituicaoID); err != nil {
		return nil, fmt.Errorf("list subject equivalences: %w", err)
	}
	return equivalences, nil
}
