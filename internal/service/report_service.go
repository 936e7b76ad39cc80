package service

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/dsicola/academico-api/internal/models"
	appErrors "github.com/dsicola/academico-api/pkg/errors"
)

type yearEnrollmentFinder interface {
	FindForYear(ctx context.Context, alunoID, anoLetivoID, instituicaoID string) (*models.AnnualEnrollment, error)
}

type yearPlanLister interface {
	ListReachableForYear(ctx context.Context, alunoID, instituicaoID, anoLetivoID string) ([]models.TeachingPlan, error)
}

type readinessReader interface {
	CountByPlan(ctx context.Context, planoEnsinoID string) (int, error)
	HasAttendanceRecords(ctx context.Context, planoEnsinoID string) (bool, error)
}

type assessmentCounter interface {
	CountByPlan(ctx context.Context, planoEnsinoID string) (int, error)
}

// ReportCardService derives the boletim: the per-year report card. Incomplete
// subjects carry explicit readiness flags instead of being omitted, so a
// secretaria can see WHICH precondition is missing per subject.
type ReportCardService struct {
	documents   *DocumentService
	annuals     yearEnrollmentFinder
	plans       yearPlanLister
	subjects    equivalenceReader
	lessons     readinessReader
	assessments assessmentCounter
	grades      gradeFinalizer
	audit       *AuditService
	logger      *zap.Logger
}

// NewReportCardService constructs ReportCardService.
func NewReportCardService(documents *DocumentService, annuals yearEnrollmentFinder, plans yearPlanLister, subjects equivalenceReader, lessons readinessReader, assessments assessmentCounter, grades gradeFinalizer, audit *AuditService, logger *zap.Logger) *ReportCardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportCardService{
		documents:   documents,
		annuals:     annuals,
		plans:       plans,
		subjects:    subjects,
		lessons:     lessons,
		assessments: assessments,
		grades:      grades,
		audit:       audit,
		logger:      logger,
	}
}

// Generate derives the boletim for one (student, academic year) pair.
func (s *ReportCardService) Generate(ctx context.Context, scope TenantScope, alunoID, anoLetivoID string) (*models.ReportCard, error) {
	subject, err := s.documents.gateDocument(ctx, scope, alunoID, models.BloqueioDocumentos)
	if err != nil {
		return nil, err
	}

	// Any status scopes the boletim: a CONCLUIDA or TRANCADA year still has
	// its report card.
	annual, err := s.annuals.FindForYear(ctx, alunoID, anoLetivoID, subject.institution.ID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed,
				"boletim exige matrícula anual do aluno no ano letivo")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load annual enrollment")
	}
	if err := subject.strategy.RequireAnnualContext(annual); err != nil {
		return nil, err
	}

	plans, err := s.plans.ListReachableForYear(ctx, alunoID, subject.institution.ID, anoLetivoID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teaching plans")
	}

	entries := make([]models.ReportCardSubject, 0, len(plans))
	for _, plan := range plans {
		entry, err := s.subjectEntry(ctx, subject, plan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}

	card := &models.ReportCard{
		AlunoID:     subject.student.ID,
		AlunoNome:   subject.student.Nome,
		AnoLetivoID: anoLetivoID,
		Disciplinas: entries,
		GeradoEm:    time.Now().UTC(),
	}

	if s.audit != nil {
		s.audit.Record(ctx, models.AuditModuloDocumentos, "boletim", models.AuditActionGerarBoletim,
			alunoID, subject.institution.ID, &scope.UsuarioID,
			map[string]interface{}{"ano_letivo_id": anoLetivoID, "disciplinas": len(entries)}, "")
	}
	return card, nil
}

// subjectEntry evaluates one plan's readiness and, readiness permitting, its
// numbers. The four flags are reported verbatim even when all hold.
func (s *ReportCardService) subjectEntry(ctx context.Context, subject *documentSubject, plan models.TeachingPlan) (*models.ReportCardSubject, error) {
	disc, err := s.subjects.FindByID(ctx, plan.DisciplinaID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}

	totalAulas, err := s.lessons.CountByPlan(ctx, plan.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count lessons")
	}
	hasPresencas, err := s.lessons.HasAttendanceRecords(ctx, plan.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check attendance records")
	}
	totalAvaliacoes, err := s.assessments.CountByPlan(ctx, plan.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count assessments")
	}

	entry := &models.ReportCardSubject{
		DisciplinaID:   disc.ID,
		DisciplinaNome: disc.Nome,
		PlanoEnsinoID:  plan.ID,
		Periodo:        plan.Periodo,
		Situacao:       models.NotaEmAndamento,
		Prontidao: models.SubjectReadiness{
			PlanoAprovado: plan.Status == models.PlanoAprovado || plan.Status == models.PlanoEncerrado,
			TemAulas:      totalAulas > 0,
			TemPresencas:  hasPresencas,
			TemAvaliacoes: totalAvaliacoes > 0,
		},
	}

	summary, err := s.grades.Final(ctx, plan.ID, subject.student.ID, subject.strategy)
	if err != nil {
		return nil, err
	}
	entry.MediaFinal = summary.MediaFinal
	entry.Frequencia = summary.Frequencia
	entry.Situacao = summary.Situacao
	return entry, nil
}
