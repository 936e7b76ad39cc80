package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dsicola/academico-api/internal/models"
	appErrors "github.com/dsicola/academico-api/pkg/errors"
)

type planFinder interface {
	FindByID(ctx context.Context, id string) (*models.TeachingPlan, error)
}

type rosterReader interface {
	ListRosterBySection(ctx context.Context, turmaID string) ([]models.RosterEntry, error)
}

type openAssessmentCounter interface {
	CountByPlan(ctx context.Context, planoEnsinoID string) (int, error)
	CountOpen(ctx context.Context, planoEnsinoID string) (int, error)
}

// GradesheetService derives the pauta: the official class-wide grade record of
// one teaching plan. Unlike the boletim, which tolerates incomplete data, the
// pauta hard-fails unless every closure precondition holds, and the failure
// lists every unmet condition at once so the professor fixes them in one pass.
type GradesheetService struct {
	institutions institutionReader
	plans        planFinder
	subjects     equivalenceReader
	roster       rosterReader
	lessons      readinessReader
	assessments  openAssessmentCounter
	grades       gradeFinalizer
	blocks       blockChecker
	audit        *AuditService
	logger       *zap.Logger
}

// NewGradesheetService constructs GradesheetService.
func NewGradesheetService(institutions institutionReader, plans planFinder, subjects equivalenceReader, roster rosterReader, lessons readinessReader, assessments openAssessmentCounter, grades gradeFinalizer, blocks blockChecker, audit *AuditService, logger *zap.Logger) *GradesheetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradesheetService{
		institutions: institutions,
		plans:        plans,
		subjects:     subjects,
		roster:       roster,
		lessons:      lessons,
		assessments:  assessments,
		grades:       grades,
		blocks:       blocks,
		audit:        audit,
		logger:       logger,
	}
}

// Generate derives the pauta for one teaching plan.
func (s *GradesheetService) Generate(ctx context.Context, scope TenantScope, planoEnsinoID string) (*models.Gradesheet, error) {
	plan, err := s.plans.FindByID(ctx, planoEnsinoID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "plano de ensino não encontrado")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teaching plan")
	}
	if err := scope.RequireSameInstitution(plan.InstituicaoID); err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "plano de ensino não encontrado")
	}
	institution, err := s.institutions.FindByID(ctx, plan.InstituicaoID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load institution")
	}
	strategy, err := StrategyFor(institution.TipoAcademico)
	if err != nil {
		return nil, err
	}
	disc, err := s.subjects.FindByID(ctx, plan.DisciplinaID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}

	if err := s.checkClosure(ctx, plan); err != nil {
		return nil, err
	}

	roster, err := s.roster.ListRosterBySection(ctx, plan.TurmaID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list roster")
	}

	sheet := &models.Gradesheet{
		PlanoEnsinoID:  plan.ID,
		DisciplinaNome: disc.Nome,
		TurmaID:        plan.TurmaID,
		AnoLetivoID:    plan.AnoLetivoID,
		Periodo:        plan.Periodo,
		Status:         plan.Status,
		Linhas:         make([]models.GradesheetRow, 0, len(roster)),
		GeradoEm:       time.Now().UTC(),
	}
	for _, entry := range roster {
		row, err := s.studentRow(ctx, plan, strategy, entry)
		if err != nil {
			return nil, err
		}
		sheet.Linhas = append(sheet.Linhas, *row)
		sheet.Estatisticas.TotalAlunos++
		if row.Bloqueado {
			sheet.Estatisticas.TotalExcluidos++
			continue
		}
		switch row.Situacao {
		case models.NotaAprovado:
			sheet.Estatisticas.TotalAprovados++
		case models.NotaReprovado, models.NotaReprovadoFalta:
			sheet.Estatisticas.TotalReprovados++
		}
	}

	if s.audit != nil {
		s.audit.Record(ctx, models.AuditModuloDocumentos, "pauta", models.AuditActionGerarPauta,
			plan.ID, plan.InstituicaoID, &scope.UsuarioID,
			map[string]interface{}{"imutavel": true, "alunos": sheet.Estatisticas.TotalAlunos}, "")
	}
	return sheet, nil
}

// checkClosure verifies every pauta precondition and reports all misses in a
// single error.
func (s *GradesheetService) checkClosure(ctx context.Context, plan *models.TeachingPlan) error {
	var unmet []string
	if !plan.Status.Terminal() {
		unmet = append(unmet, "plano de ensino não está APROVADO nem ENCERRADO")
	}
	open, err := s.assessments.CountOpen(ctx, plan.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count open assessments")
	}
	if open > 0 {
		unmet = append(unmet, "existem avaliações não fechadas")
	}
	total, err := s.assessments.CountByPlan(ctx, plan.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count assessments")
	}
	if total == 0 {
		unmet = append(unmet, "nenhuma avaliação cadastrada")
	}
	lessons, err := s.lessons.CountByPlan(ctx, plan.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count lessons")
	}
	if lessons == 0 {
		unmet = append(unmet, "nenhuma aula registrada")
	}
	hasPresencas, err := s.lessons.HasAttendanceRecords(ctx, plan.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check attendance records")
	}
	if !hasPresencas {
		unmet = append(unmet, "nenhuma presença lançada")
	}
	if len(unmet) > 0 {
		return appErrors.Clone(appErrors.ErrPreconditionFailed,
			"pauta não pode ser gerada: "+strings.Join(unmet, "; "))
	}
	return nil
}

// studentRow computes one roster line. A student under an academic block is
// listed with the flag set; the block never fails the whole document.
func (s *GradesheetService) studentRow(ctx context.Context, plan *models.TeachingPlan, strategy AcademicTypeStrategy, entry models.RosterEntry) (*models.GradesheetRow, error) {
	row := &models.GradesheetRow{
		AlunoID:   entry.AlunoID,
		AlunoNome: entry.AlunoNome,
		Matricula: entry.Status,
	}
	check, err := s.blocks.Check(ctx, plan.InstituicaoID, entry.AlunoID, models.BloqueioDocumentos)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check academic block")
	}
	row.Bloqueado = check.Blocked

	summary, err := s.grades.Final(ctx, plan.ID, entry.AlunoID, strategy)
	if err != nil {
		return nil, err
	}
	row.MediaFinal = summary.MediaFinal
	row.Frequencia = summary.Frequencia
	row.Situacao = summary.Situacao
	return row, nil
}
