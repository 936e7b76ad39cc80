package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dsicola/academico-api/internal/models"
	appErrors "github.com/dsicola/academico-api/pkg/errors"
)

type completionStore interface {
	FindConcluded(ctx context.Context, alunoID, cursoOuClasseID, instituicaoID string) (*models.CourseCompletion, error)
	SetVerificationCode(ctx context.Context, id, codigo string) error
	FindByCode(ctx context.Context, codigo string) (*models.CertificateVerification, error)
}

type referenceReader interface {
	CourseName(ctx context.Context, id string) (string, error)
	ClassName(ctx context.Context, id string) (string, error)
}

const verificationKeyPrefix = "certificado:verificacao:"

// CertificateService derives completion certificates from persisted
// CourseCompletion decisions. It never recomputes grades; a certificate is a
// faithful rendering of the decision plus a minted verification code.
type CertificateService struct {
	documents   *DocumentService
	completions completionStore
	references  referenceReader
	redis       *redis.Client
	baseURL     string
	cacheTTL    time.Duration
	audit       *AuditService
	logger      *zap.Logger
}

// NewCertificateService constructs CertificateService. redis may be nil; the
// verification cache is then skipped.
func NewCertificateService(documents *DocumentService, completions completionStore, references referenceReader, redisClient *redis.Client, baseURL string, cacheTTL time.Duration, audit *AuditService, logger *zap.Logger) *CertificateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CertificateService{
		documents:   documents,
		completions: completions,
		references:  references,
		redis:       redisClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		cacheTTL:    cacheTTL,
		audit:       audit,
		logger:      logger,
	}
}

// Issue derives the certificate for (student, course-or-class). contextoID is
// the curso for SUPERIOR institutions and the classe for SECUNDARIO ones.
func (s *CertificateService) Issue(ctx context.Context, scope TenantScope, alunoID, contextoID string) (*models.Certificate, error) {
	subject, err := s.documents.gateDocument(ctx, scope, alunoID, models.BloqueioCertificados)
	if err != nil {
		return nil, err
	}

	completion, err := s.completions.FindConcluded(ctx, alunoID, contextoID, subject.institution.ID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed,
				"aluno não possui conclusão CONCLUIDO registrada para o curso ou classe")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load completion")
	}

	codigo, err := s.ensureVerificationCode(ctx, subject, completion)
	if err != nil {
		return nil, err
	}

	cert := &models.Certificate{
		AlunoID:           subject.student.ID,
		AlunoNome:         subject.student.Nome,
		InstituicaoID:     subject.institution.ID,
		InstituicaoNome:   subject.institution.Nome,
		MediaFinal:        completion.MediaFinal,
		DataConclusao:     completion.DataConclusao,
		CodigoValidacao:   codigo,
		URLValidacao:      fmt.Sprintf("%s/%s", s.baseURL, codigo),
		AssinaturaDigital: subject.institution.AssinaturaDigital,
		EmitidoEm:         time.Now().UTC(),
	}
	if completion.CursoID != nil {
		nome, err := s.references.CourseName(ctx, *completion.CursoID)
		if err != nil && err != sql.ErrNoRows {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
		}
		if err == nil {
			cert.CursoNome = &nome
		}
	}
	if completion.ClasseID != nil {
		nome, err := s.references.ClassName(ctx, *completion.ClasseID)
		if err != nil && err != sql.ErrNoRows {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
		}
		if err == nil {
			cert.ClasseNome = &nome
		}
	}

	if s.audit != nil {
		s.audit.Record(ctx, models.AuditModuloDocumentos, "certificado", models.AuditActionGerarCertificado,
			completion.ID, subject.institution.ID, &scope.UsuarioID,
			map[string]interface{}{"codigo_validacao": codigo}, "")
	}
	return cert, nil
}

// ensureVerificationCode reuses the code already minted for the completion or
// mints, persists and caches a new one. Re-issuing a certificate must keep
// previously published verification URLs working.
func (s *CertificateService) ensureVerificationCode(ctx context.Context, subject *documentSubject, completion *models.CourseCompletion) (string, error) {
	if completion.CodigoValidacao != nil && *completion.CodigoValidacao != "" {
		return *completion.CodigoValidacao, nil
	}
	codigo := mintVerificationCode(subject.institution.ID, subject.student.ID)
	if err := s.completions.SetVerificationCode(ctx, completion.ID, codigo); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist verification code")
	}
	s.cacheVerification(ctx, &models.CertificateVerification{
		CodigoValidacao: codigo,
		AlunoNome:       subject.student.Nome,
		InstituicaoNome: subject.institution.Nome,
		DataConclusao:   completion.DataConclusao,
		Valido:          true,
	})
	return codigo, nil
}

// Verify resolves a verification code for the public endpoint, redis first.
func (s *CertificateService) Verify(ctx context.Context, codigo string) (*models.CertificateVerification, error) {
	if codigo == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "código de validação obrigatório")
	}
	if cached := s.cachedVerification(ctx, codigo); cached != nil {
		return cached, nil
	}
	verification, err := s.completions.FindByCode(ctx, codigo)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "certificado não encontrado para o código informado")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve verification code")
	}
	s.cacheVerification(ctx, verification)
	return verification, nil
}

func (s *CertificateService) cachedVerification(ctx context.Context, codigo string) *models.CertificateVerification {
	if s.redis == nil {
		return nil
	}
	raw, err := s.redis.Get(ctx, verificationKeyPrefix+codigo).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("verification cache read failed", zap.Error(err))
		}
		return nil
	}
	var verification models.CertificateVerification
	if err := json.Unmarshal(raw, &verification); err != nil {
		s.logger.Warn("verification cache payload invalid", zap.Error(err))
		return nil
	}
	return &verification
}

func (s *CertificateService) cacheVerification(ctx context.Context, verification *models.CertificateVerification) {
	if s.redis == nil {
		return
	}
	raw, err := json.Marshal(verification)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, verificationKeyPrefix+verification.CodigoValidacao, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("verification cache write failed", zap.Error(err))
	}
}

// mintVerificationCode builds a human-checkable code from id prefixes and a
// base36 timestamp.
func mintVerificationCode(instituicaoID, alunoID string) string {
	return fmt.Sprintf("%s-%s-%s",
		idPrefix(instituicaoID), idPrefix(alunoID),
		strings.ToUpper(strconv.FormatInt(time.Now().UnixNano(), 36)))
}

func idPrefix(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
