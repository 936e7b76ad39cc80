package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dsicola/academico-api/internal/models"
)

// AcademicBlockRepository reads financial/disciplinary holds. Blocks are
// written by the finance module; this engine only consults them.
type AcademicBlockRepository struct {
	db *sqlx.DB
}

// NewAcademicBlockRepository constructs the repository.
func NewAcademicBlockRepository(db *sqlx.DB) *AcademicBlockRepository {
	return &AcademicBlockRepository{db: db}
}

// Check returns the active block for the operation, institution-wide or
// targeted at the student, whichever exists.
func (r *AcademicBlockRepository) Check(ctx context.Context, instituicaoID, alunoID string, operacao models.BlockOperation) (*models.BlockCheck, error) {
	const query = `SELECT motivo FROM bloqueios_academicos
        WHERE instituicao_id = $1 AND operacao = $2 AND ativo = TRUE
          AND (aluno_id IS NULL OR aluno_id = $3)
        ORDER BY aluno_id NULLS LAST LIMIT 1`
	var motivo string
	if err := r.db.GetContext(ctx, &motivo, query, instituicaoID, operacao, alunoID); err != nil {
		if err == sql.ErrNoRows {
			return &models.BlockCheck{Blocked: false}, nil
		}
		return nil, fmt.Errorf("check academic block: %w", err)
	}
	return &models.BlockCheck{Blocked: true, Motivo: motivo}, nil
}

// CheckHold returns the active academic hold for the student under the
// institution's regime, if any. Holds mark course/class completeness
// pendencies and are written by the secretariat module.
func (r *AcademicBlockRepository) CheckHold(ctx context.Context, instituicaoID, alunoID string, tipo models.TipoAcademico) (*models.BlockCheck, error) {
	const query = `SELECT motivo FROM pendencias_academicas
        WHERE instituicao_id = $1 AND aluno_id = $2 AND ativo = TRUE
          AND (tipo_academico IS NULL OR tipo_academico = $3)
        ORDER BY created_at DESC LIMIT 1`
	var motivo string
	if err := r.db.GetContext(ctx, &motivo, query, instituicaoID, alunoID, tipo); err != nil {
		if err == sql.ErrNoRows {
			return &models.BlockCheck{Blocked: false}, nil
		}
		return nil, fmt.Errorf("check academic hold: %w", err)
	}
	return &models.BlockCheck{Blocked: true, Motivo: motivo}, nil
}
