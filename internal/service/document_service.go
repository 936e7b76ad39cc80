package service

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/dsicola/academico-api/internal/models"
	appErrors "github.com/dsicola/academico-api/pkg/errors"
)

type blockChecker interface {
	Check(ctx context.Context, instituicaoID, alunoID string, operacao models.BlockOperation) (*models.BlockCheck, error)
	CheckHold(ctx context.Context, instituicaoID, alunoID string, tipo models.TipoAcademico) (*models.BlockCheck, error)
}

type reachablePlanLister interface {
	ListReachableByStudent(ctx context.Context, alunoID, instituicaoID string) ([]models.TeachingPlan, error)
}

type equivalenceReader interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
	ListEquivalences(ctx context.Context, alunoID, instituicaoID string) ([]models.SubjectEquivalence, error)
}

type gradeFinalizer interface {
	Final(ctx context.Context, planoEnsinoID, alunoID string, strategy AcademicTypeStrategy) (*models.GradeSummary, error)
}

// documentSubject is the outcome of the gates every official document shares.
type documentSubject struct {
	student     *models.User
	institution *models.Institution
	strategy    AcademicTypeStrategy
}

// DocumentService derives the histórico (transcript) and hosts the gate chain
// shared by every official document. Documents are derived per request from
// the live tables and never stored; only their issuance is audited.
type DocumentService struct {
	students     studentReader
	institutions institutionReader
	blocks       blockChecker
	plans        reachablePlanLister
	subjects     equivalenceReader
	grades       gradeFinalizer
	audit        *AuditService
	logger       *zap.Logger
}

// NewDocumentService constructs DocumentService.
func NewDocumentService(students studentReader, institutions institutionReader, blocks blockChecker, plans reachablePlanLister, subjects equivalenceReader, grades gradeFinalizer, audit *AuditService, logger *zap.Logger) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentService{
		students:     students,
		institutions: institutions,
		blocks:       blocks,
		plans:        plans,
		subjects:     subjects,
		grades:       grades,
		audit:        audit,
		logger:       logger,
	}
}

// gateDocument applies the shared document gates: the student must belong to
// the caller's institution, must not be blocked for the operation class and
// must have no academic hold for the institution's regime. A blocked attempt
// is audited before the Forbidden is returned; a hold is a plain
// precondition failure.
func (s *DocumentService) gateDocument(ctx context.Context, scope TenantScope, alunoID string, operacao models.BlockOperation) (*documentSubject, error) {
	student, err := s.students.FindByID(ctx, alunoID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "aluno não encontrado")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if err := scope.RequireSameInstitution(student.InstituicaoID); err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "aluno não encontrado")
	}
	institution, err := s.institutions.FindByID(ctx, student.InstituicaoID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "instituição não encontrada")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load institution")
	}
	strategy, err := StrategyFor(institution.TipoAcademico)
	if err != nil {
		return nil, err
	}

	check, err := s.blocks.Check(ctx, institution.ID, alunoID, operacao)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check academic block")
	}
	if check.Blocked {
		if s.audit != nil {
			s.audit.RecordBlockedAttempt(ctx, "aluno", alunoID, institution.ID, &scope.UsuarioID, check.Motivo)
		}
		return nil, appErrors.Clone(appErrors.ErrForbidden, blockedMessage(check.Motivo))
	}
	hold, err := s.blocks.CheckHold(ctx, institution.ID, alunoID, institution.TipoAcademico)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check academic hold")
	}
	if hold.Blocked {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, holdMessage(hold.Motivo))
	}
	return &documentSubject{student: student, institution: institution, strategy: strategy}, nil
}

func blockedMessage(motivo string) string {
	if motivo == "" {
		return "emissão de documentos bloqueada para o aluno"
	}
	return "emissão de documentos bloqueada para o aluno: " + motivo
}

func holdMessage(motivo string) string {
	if motivo == "" {
		return "pendência acadêmica impede a emissão do documento"
	}
	return "pendência acadêmica impede a emissão do documento: " + motivo
}

// Transcript derives the cross-year histórico escolar for one student.
func (s *DocumentService) Transcript(ctx context.Context, scope TenantScope, alunoID string) (*models.Transcript, error) {
	subject, err := s.gateDocument(ctx, scope, alunoID, models.BloqueioDocumentos)
	if err != nil {
		return nil, err
	}

	plans, err := s.plans.ListReachableByStudent(ctx, alunoID, subject.institution.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teaching plans")
	}
	equivalences, err := s.subjects.ListEquivalences(ctx, alunoID, subject.institution.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list equivalences")
	}
	equivalent := make(map[string]models.SubjectEquivalence, len(equivalences))
	for _, eq := range equivalences {
		equivalent[eq.DisciplinaID] = eq
	}

	rows := make([]models.TranscriptRow, 0, len(plans)+len(equivalences))
	covered := make(map[string]struct{}, len(plans))
	for _, plan := range plans {
		row, err := s.transcriptRow(ctx, subject, plan, equivalent)
		if err != nil {
			return nil, err
		}
		rows = append(rows, *row)
		covered[plan.DisciplinaID] = struct{}{}
	}
	// Equivalences granted for subjects the student never sat here still
	// count on the transcript.
	for _, eq := range equivalences {
		if _, ok := covered[eq.DisciplinaID]; ok {
			continue
		}
		disc, err := s.subjects.FindByID(ctx, eq.DisciplinaID)
		if err != nil {
			if err == sql.ErrNoRows {
				continue
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
		}
		rows = append(rows, models.TranscriptRow{
			DisciplinaID:   disc.ID,
			DisciplinaNome: disc.Nome,
			CargaHoraria:   disc.CargaHoraria,
			Situacao:       models.NotaEquivalente,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].AnoLetivoID != rows[j].AnoLetivoID {
			return rows[i].AnoLetivoID < rows[j].AnoLetivoID
		}
		return rows[i].DisciplinaNome < rows[j].DisciplinaNome
	})

	transcript := &models.Transcript{
		AlunoID:         subject.student.ID,
		AlunoNome:       subject.student.Nome,
		InstituicaoID:   subject.institution.ID,
		InstituicaoNome: subject.institution.Nome,
		Linhas:          rows,
		Resumo:          summarizeTranscript(rows),
		GeradoEm:        time.Now().UTC(),
	}

	if s.audit != nil {
		s.audit.Record(ctx, models.AuditModuloDocumentos, "historico", models.AuditActionGerarHistorico,
			alunoID, subject.institution.ID, &scope.UsuarioID,
			map[string]interface{}{"linhas": len(rows)}, "")
	}
	return transcript, nil
}

func (s *DocumentService) transcriptRow(ctx context.Context, subject *documentSubject, plan models.TeachingPlan, equivalent map[string]models.SubjectEquivalence) (*models.TranscriptRow, error) {
	disc, err := s.subjects.FindByID(ctx, plan.DisciplinaID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrInternal, "disciplina do plano de ensino inexistente")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	row := models.TranscriptRow{
		DisciplinaID:   disc.ID,
		DisciplinaNome: disc.Nome,
		AnoLetivoID:    plan.AnoLetivoID,
		Periodo:        plan.Periodo,
		CargaHoraria:   planHours(plan, disc),
	}
	if _, ok := equivalent[plan.DisciplinaID]; ok {
		row.Situacao = models.NotaEquivalente
		return &row, nil
	}
	summary, err := s.grades.Final(ctx, plan.ID, subject.student.ID, subject.strategy)
	if err != nil {
		return nil, err
	}
	row.MediaFinal = summary.MediaFinal
	row.Frequencia = summary.Frequencia
	row.Situacao = summary.Situacao
	return &row, nil
}

// planHours prefers the plan's own workload and falls back to the subject's.
func planHours(plan models.TeachingPlan, disc *models.Subject) int {
	if plan.CargaHoraria > 0 {
		return plan.CargaHoraria
	}
	return disc.CargaHoraria
}

func summarizeTranscript(rows []models.TranscriptRow) models.TranscriptSummary {
	var summary models.TranscriptSummary
	var gradeSum float64
	var graded int
	for _, row := range rows {
		summary.CargaHorariaCursada += row.CargaHoraria
		switch row.Situacao {
		case models.NotaAprovado, models.NotaEquivalente:
			summary.CargaHorariaObtida += row.CargaHoraria
			if row.Situacao == models.NotaAprovado {
				summary.TotalAprovadas++
			}
		case models.NotaReprovado, models.NotaReprovadoFalta:
			summary.TotalReprovadas++
		}
		if row.MediaFinal != nil {
			gradeSum += *row.MediaFinal
			graded++
		}
	}
	if graded > 0 {
		media := gradeSum / float64(graded)
		summary.MediaGeral = &media
	}
	return summary
}
