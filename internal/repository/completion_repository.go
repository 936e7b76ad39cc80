package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dsicola/academico-api/internal/models"
)

// CompletionRepository reads course-completion decisions and persists minted
// verification codes. Completion decisions themselves are made elsewhere.
type CompletionRepository struct {
	db *sqlx.DB
}

// NewCompletionRepository constructs the repository.
func NewCompletionRepository(db *sqlx.DB) *CompletionRepository {
	return &CompletionRepository{db: db}
}

const completionColumns = `id, instituicao_id, aluno_id, curso_id, classe_id, status, media_final, data_conclusao, codigo_validacao`

// FindConcluded returns the CONCLUIDO completion for (student, course-or-class).
func (r *CompletionRepository) FindConcluded(ctx context.Context, alunoID, cursoOuClasseID, instituicaoID string) (*models.CourseCompletion, error) {
	query := fmt.Sprintf(`SELECT %s FROM conclusoes
        WHERE aluno_id = $1 AND instituicao_id = $2 AND status = $3
          AND (curso_id = $4 OR classe_id = $4)
        ORDER BY data_conclusao DESC LIMIT 1`, completionColumns)
	var completion models.CourseCompletion
	if err := r.db.GetContext(ctx, &completion, query, alunoID, instituicaoID, models.ConclusaoConcluido, cursoOuClasseID); err != nil {
		return nil, err
	}
	return &completion, nil
}

// SetVerificationCode persists the minted code on the completion row.
func (r *CompletionRepository) SetVerificationCode(ctx context.Context, id, codigo string) error {
	const query = `UPDATE conclusoes SET codigo_validacao = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, codigo); err != nil {
		return fmt.Errorf("persist verification code: %w", err)
	}
	return nil
}

// FindByCode resolves a verification code into the public verification
// payload.
func (r *CompletionRepository) FindByCode(ctx context.Context, codigo string) (*models.CertificateVerification, error) {
	const query = `SELECT c.codigo_validacao, u.nome AS aluno_nome, i.nome AS instituicao_nome, c.data_conclusao
        FROM conclusoes c
        JOIN usuarios u ON u.id = c.aluno_id
        JOIN instituicoes i ON i.id = c.instituicao_id
        WHERE c.codigo_validacao = $1 AND c.status = $2`
	var verification models.CertificateVerification
	if err := r.db.GetContext(ctx, &verification, query, codigo, models.ConclusaoConcluido); err != nil {
		return nil, err
	}
	verification.Valido = true
	return &verification, nil
}
