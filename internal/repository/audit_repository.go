package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dsicola/academico-api/internal/models"
)

// AuditRepository appends audit entries. The table is append-only: no update
// or delete statements exist here.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository constructs the repository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Append persists one audit entry.
func (r *AuditRepository) Append(ctx context.Context, entry *models.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CriadoEm.IsZero() {
		entry.CriadoEm = time.Now().UTC()
	}
	const query = `INSERT INTO auditoria (id, modulo, entidade, acao, entidade_id, instituicao_id, usuario_id, payload, observacao, criado_em)
        VALUES (:id, :modulo, :entidade, :acao, :entidade_id, :instituicao_id, :usuario_id, :payload, :observacao, :criado_em)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}
