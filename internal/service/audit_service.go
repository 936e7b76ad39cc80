package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/dsicola/academico-api/internal/models"
)

type auditAppender interface {
	Append(ctx context.Context, entry *models.AuditEntry) error
}

// AuditService writes the append-only trail of document generations and
// blocked attempts. A failed audit write is logged but never fails the
// underlying operation, except blocked-attempt records which are written
// before the operation is rejected.
type AuditService struct {
	repo   auditAppender
	logger *zap.Logger
}

// NewAuditService constructs AuditService.
func NewAuditService(repo auditAppender, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, logger: logger}
}

// Record appends an entry with a JSON payload snapshot.
func (s *AuditService) Record(ctx context.Context, modulo, entidade, acao, entidadeID, instituicaoID string, usuarioID *string, payload interface{}, observacao string) {
	var body []byte
	if payload != nil {
		var err error
		if body, err = json.Marshal(payload); err != nil {
			s.logger.Warn("audit payload marshal failed", zap.String("acao", acao), zap.Error(err))
		}
	}
	entry := &models.AuditEntry{
		Modulo:        modulo,
		Entidade:      entidade,
		Acao:          acao,
		EntidadeID:    entidadeID,
		InstituicaoID: instituicaoID,
		UsuarioID:     usuarioID,
		Payload:       body,
		Observacao:    observacao,
	}
	if err := s.repo.Append(ctx, entry); err != nil {
		s.logger.Error("audit append failed",
			zap.String("modulo", modulo),
			zap.String("acao", acao),
			zap.String("entidade_id", entidadeID),
			zap.Error(err))
	}
}

// RecordBlockedAttempt appends the audit trail of a forbidden operation so
// repeated blocked attempts stay discoverable.
func (s *AuditService) RecordBlockedAttempt(ctx context.Context, entidade, entidadeID, instituicaoID string, usuarioID *string, motivo string) {
	s.Record(ctx, models.AuditModuloDocumentos, entidade, models.AuditActionTentativaBloqueada,
		entidadeID, instituicaoID, usuarioID,
		map[string]string{"motivo": motivo}, motivo)
}
