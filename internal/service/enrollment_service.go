package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dsicola/academico-api/internal/models"
	"github.com/dsicola/academico-api/internal/repository"
	appErrors "github.com/dsicola/academico-api/pkg/errors"
)

type studentReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type institutionReader interface {
	FindByID(ctx context.Context, id string) (*models.Institution, error)
}

type annualEnrollmentReader interface {
	ListActive(ctx context.Context, alunoID, anoLetivoID, instituicaoID string) ([]models.AnnualEnrollment, error)
}

type subjectReader interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
	HasCourseLink(ctx context.Context, cursoID, disciplinaID string) (bool, error)
}

type sectionReader interface {
	FindByID(ctx context.Context, id string) (*models.ClassSection, error)
}

type classEnrollmentReader interface {
	FindActiveInSection(ctx context.Context, alunoID, turmaID string) (*models.ClassEnrollment, error)
	FindCurrent(ctx context.Context, alunoID, instituicaoID string) (*models.ClassEnrollment, error)
}

type planReader interface {
	FindApproved(ctx context.Context, pc repository.PlanContext) (*models.TeachingPlan, error)
	ListApprovedForContext(ctx context.Context, pc repository.PlanContext) ([]models.TeachingPlan, error)
}

type subjectEnrollmentStore interface {
	FindByID(ctx context.Context, id string) (*models.SubjectEnrollment, error)
	Exists(ctx context.Context, alunoID, disciplinaID, anoLetivoID string, periodo *string) (bool, error)
	Create(ctx context.Context, enrollment *models.SubjectEnrollment) error
	CreateBulk(ctx context.Context, enrollments []models.SubjectEnrollment) ([]models.SubjectEnrollment, int, error)
	UpdateStatus(ctx context.Context, id string, status models.SubjectEnrollmentStatus) error
}

// EnrollSubjectRequest describes a single subject enrollment.
type EnrollSubjectRequest struct {
	AlunoID      string  `json:"aluno_id" validate:"required"`
	DisciplinaID string  `json:"disciplina_id" validate:"required"`
	AnoLetivoID  string  `json:"ano_letivo_id" validate:"required"`
	TurmaID      *string `json:"turma_id"`
	Periodo      *string `json:"periodo"`
}

// EnrollBulkRequest describes a bulk enrollment. Empty DisciplinaIDs means
// every subject with an approved plan in the student's context for the year.
type EnrollBulkRequest struct {
	AlunoID       string   `json:"aluno_id" validate:"required"`
	AnoLetivoID   string   `json:"ano_letivo_id" validate:"required"`
	DisciplinaIDs []string `json:"disciplina_ids"`
	Periodo       *string  `json:"periodo"`
}

// EnrollmentService gates every subject-enrollment mutation through the
// ordered eligibility chain. The chain short-circuits at the first failing
// gate with a specific, user-facing error; gate order is significant.
type EnrollmentService struct {
	students     studentReader
	institutions institutionReader
	annuals      annualEnrollmentReader
	subjects     subjectReader
	sections     sectionReader
	matriculas   classEnrollmentReader
	plans        planReader
	enrollments  subjectEnrollmentStore
	audit        *AuditService
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(students studentReader, institutions institutionReader, annuals annualEnrollmentReader, subjects subjectReader, sections sectionReader, matriculas classEnrollmentReader, plans planReader, enrollments subjectEnrollmentStore, audit *AuditService, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		students:     students,
		institutions: institutions,
		annuals:      annuals,
		subjects:     subjects,
		sections:     sections,
		matriculas:   matriculas,
		plans:        plans,
		enrollments:  enrollments,
		audit:        audit,
		validator:    validate,
		logger:       logger,
	}
}

// enrollmentContext carries the structural facts established by the shared
// gates, so the bulk variant checks them exactly once.
type enrollmentContext struct {
	institution *models.Institution
	student     *models.User
	annual      *models.AnnualEnrollment
	strategy    AcademicTypeStrategy
}

// Enroll validates and creates a single subject enrollment.
func (s *EnrollmentService) Enroll(ctx context.Context, scope TenantScope, req EnrollSubjectRequest) (*models.SubjectEnrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	ec, err := s.structuralGates(ctx, scope, req.AlunoID, req.AnoLetivoID)
	if err != nil {
		return nil, err
	}
	row, err := s.validateSubject(ctx, ec, req.DisciplinaID, req.AnoLetivoID, req.TurmaID, req.Periodo)
	if err != nil {
		return nil, err
	}
	exists, err := s.enrollments.Exists(ctx, row.AlunoID, row.DisciplinaID, row.AnoLetivoID, row.Periodo)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing enrollment")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "aluno já inscrito nesta disciplina para o ano letivo e período")
	}
	if err := s.enrollments.Create(ctx, row); err != nil {
		if errors.Is(err, repository.ErrDuplicateEnrollment) {
			// Lost the race between pre-check and insert; the uniqueness
			// constraint is the final arbiter.
			return nil, appErrors.Clone(appErrors.ErrConflict, "aluno já inscrito nesta disciplina para o ano letivo e período")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}
	if s.audit != nil {
		s.audit.Record(ctx, models.AuditModuloInscricoes, "aluno_disciplina", models.AuditActionInscricao,
			row.ID, ec.institution.ID, &scope.UsuarioID, row, "")
	}
	return row, nil
}

// EnrollBulk validates the structural gates once and then each subject
// independently. Duplicates are counted, never failing the batch; all inserts
// of one call commit atomically.
func (s *EnrollmentService) EnrollBulk(ctx context.Context, scope TenantScope, req EnrollBulkRequest) (*models.BulkEnrollmentResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk enrollment payload")
	}
	ec, err := s.structuralGates(ctx, scope, req.AlunoID, req.AnoLetivoID)
	if err != nil {
		return nil, err
	}
	// The course (SUPERIOR) or class (SECUNDARIO) binding on the annual
	// enrollment is a structural precondition of the batch.
	if err := ec.strategy.RequireAnnualContext(ec.annual); err != nil {
		return nil, err
	}

	subjectIDs := req.DisciplinaIDs
	if len(subjectIDs) == 0 {
		subjectIDs, err = s.expandAllSubjects(ctx, ec, req.AnoLetivoID)
		if err != nil {
			return nil, err
		}
	}

	result := &models.BulkEnrollmentResult{Created: []models.SubjectEnrollment{}}
	rows := make([]models.SubjectEnrollment, 0, len(subjectIDs))
	for _, disciplinaID := range subjectIDs {
		row, err := s.validateSubject(ctx, ec, disciplinaID, req.AnoLetivoID, nil, req.Periodo)
		if err != nil {
			return nil, err
		}
		exists, err := s.enrollments.Exists(ctx, row.AlunoID, row.DisciplinaID, row.AnoLetivoID, row.Periodo)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing enrollment")
		}
		if exists {
			result.Duplicates++
			continue
		}
		rows = append(rows, *row)
	}

	created, racedDuplicates, err := s.enrollments.CreateBulk(ctx, rows)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollments")
	}
	// Keep Created non-nil when every request was a duplicate, so the
	// envelope carries [] rather than null.
	result.Created = append(result.Created, created...)
	result.Duplicates += racedDuplicates

	if s.audit != nil && len(created) > 0 {
		s.audit.Record(ctx, models.AuditModuloInscricoes, "aluno_disciplina", models.AuditActionInscricao,
			req.AlunoID, ec.institution.ID, &scope.UsuarioID,
			map[string]interface{}{"criadas": len(created), "duplicadas": result.Duplicates, "ano_letivo_id": req.AnoLetivoID}, "inscrição em lote")
	}
	return result, nil
}

// Unenroll cancels a Cursando enrollment within the caller's scope.
func (s *EnrollmentService) Unenroll(ctx context.Context, scope TenantScope, id string) error {
	enrollment, err := s.enrollments.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "inscrição não encontrada")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if err := scope.RequireSameInstitution(enrollment.InstituicaoID); err != nil {
		return appErrors.Clone(appErrors.ErrNotFound, "inscrição não encontrada")
	}
	if enrollment.Status != models.SubjectCursando {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "apenas inscrições em curso podem ser canceladas")
	}
	if err := s.enrollments.UpdateStatus(ctx, id, models.SubjectCancelado); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel enrollment")
	}
	return nil
}

// structuralGates applies gates 1-3 of the chain: tenant ownership, ALUNO
// role, and exactly one active annual enrollment for the year.
func (s *EnrollmentService) structuralGates(ctx context.Context, scope TenantScope, alunoID, anoLetivoID string) (*enrollmentContext, error) {
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
	if student.Role != models.RoleAluno {
		return nil, appErrors.Clone(appErrors.ErrValidation, "usuário não possui perfil de aluno")
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

	annuals, err := s.annuals.ListActive(ctx, alunoID, anoLetivoID, institution.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load annual enrollment")
	}
	switch len(annuals) {
	case 1:
	case 0:
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed,
			"aluno sem matrícula anual ativa: realize a matrícula anual antes de inscrever em disciplinas")
	default:
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed,
			"aluno possui mais de uma matrícula anual ativa para o ano letivo")
	}

	return &enrollmentContext{
		institution: institution,
		student:     student,
		annual:      &annuals[0],
		strategy:    strategy,
	}, nil
}

// validateSubject applies gates 4-6 for one subject: subject existence and
// tenant ownership, section resolution with the curriculum-link check, and
// the approved, non-blocked teaching-plan requirement. It returns the row
// ready for insertion; gate 7 (uniqueness) is the caller's.
func (s *EnrollmentService) validateSubject(ctx context.Context, ec *enrollmentContext, disciplinaID, anoLetivoID string, turmaID, periodo *string) (*models.SubjectEnrollment, error) {
	subject, err := s.subjects.FindByID(ctx, disciplinaID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "disciplina não encontrada")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	if subject.InstituicaoID != ec.institution.ID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "disciplina não encontrada")
	}

	section, err := s.resolveSection(ctx, ec, turmaID)
	if err != nil {
		return nil, err
	}
	if section.CursoID != nil {
		linked, err := s.subjects.HasCourseLink(ctx, *section.CursoID, disciplinaID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check curriculum link")
		}
		if !linked {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed,
				fmt.Sprintf("disciplina %s não vinculada ao curso da turma", subject.Nome))
		}
	}

	planCtx, err := ec.strategy.PlanContext(section, disciplinaID, anoLetivoID, ec.institution.ID)
	if err != nil {
		return nil, err
	}
	plan, err := s.plans.FindApproved(ctx, planCtx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, missingPlanMessage(subject.Nome, anoLetivoID, planCtx))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teaching plan")
	}
	if plan.Bloqueado {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed,
			fmt.Sprintf("plano de ensino da disciplina %s está bloqueado para novas inscrições", subject.Nome))
	}

	rowPeriodo := periodo
	if rowPeriodo == nil {
		rowPeriodo = &plan.Periodo
	}
	sectionID := section.ID
	return &models.SubjectEnrollment{
		InstituicaoID:    ec.institution.ID,
		AlunoID:          ec.student.ID,
		DisciplinaID:     disciplinaID,
		TurmaID:          &sectionID,
		AnoLetivoID:      anoLetivoID,
		Periodo:          rowPeriodo,
		MatriculaAnualID: ec.annual.ID,
		Status:           models.SubjectCursando,
	}, nil
}

// resolveSection applies gate 5: an explicitly supplied section must belong
// to the tenant and hold an Ativa matrícula of the student; otherwise the
// student's current Ativa matrícula decides the section.
func (s *EnrollmentService) resolveSection(ctx context.Context, ec *enrollmentContext, turmaID *string) (*models.ClassSection, error) {
	if turmaID != nil && *turmaID != "" {
		section, err := s.sections.FindByID(ctx, *turmaID)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "turma não encontrada")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section")
		}
		if section.InstituicaoID != ec.institution.ID {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "turma não encontrada")
		}
		if _, err := s.matriculas.FindActiveInSection(ctx, ec.student.ID, section.ID); err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "aluno não possui matrícula ativa na turma informada")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load matrícula")
		}
		return section, nil
	}

	matricula, err := s.matriculas.FindCurrent(ctx, ec.student.ID, ec.institution.ID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "aluno não possui matrícula ativa em nenhuma turma")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load matrícula")
	}
	section, err := s.sections.FindByID(ctx, matricula.TurmaID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "turma não encontrada")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section")
	}
	return section, nil
}

// expandAllSubjects lists every subject with an approved, non-blocked plan in
// the student's annual context for the year.
func (s *EnrollmentService) expandAllSubjects(ctx context.Context, ec *enrollmentContext, anoLetivoID string) ([]string, error) {
	pc := repository.PlanContext{
		AnoLetivoID:   anoLetivoID,
		InstituicaoID: ec.institution.ID,
		CursoID:       ec.annual.CursoID,
		ClasseID:      ec.annual.ClasseID,
	}
	if ec.strategy.Tipo() == models.TipoSuperior {
		pc.ClasseID = nil
	} else {
		pc.CursoID = nil
	}
	plans, err := s.plans.ListApprovedForContext(ctx, pc)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teaching plans")
	}
	if len(plans) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed,
			"nenhum plano de ensino aprovado para o contexto do aluno no ano letivo")
	}
	seen := make(map[string]struct{}, len(plans))
	ids := make([]string, 0, len(plans))
	for _, plan := range plans {
		if _, ok := seen[plan.DisciplinaID]; ok {
			continue
		}
		seen[plan.DisciplinaID] = struct{}{}
		ids = append(ids, plan.DisciplinaID)
	}
	return ids, nil
}

func missingPlanMessage(subjectName, anoLetivoID string, pc repository.PlanContext) string {
	context := "contexto acadêmico"
	if pc.CursoID != nil {
		context = fmt.Sprintf("curso %s", *pc.CursoID)
	} else if pc.ClasseID != nil {
		context = fmt.Sprintf("classe %s", *pc.ClasseID)
	}
	return fmt.Sprintf("nenhum plano de ensino APROVADO para a disciplina %s no ano letivo %s (%s)", subjectName, anoLetivoID, context)
}
