package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dsicola/academico-api/internal/models"
	"github.com/dsicola/academico-api/internal/repository"
	appErrors "github.com/dsicola/academico-api/pkg/errors"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

type mockStudents struct {
	users map[string]*models.User
}

func (m *mockStudents) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

type mockInstitutions struct {
	institutions map[string]*models.Institution
}

func (m *mockInstitutions) FindByID(ctx context.Context, id string) (*models.Institution, error) {
	if i, ok := m.institutions[id]; ok {
		return i, nil
	}
	return nil, sql.ErrNoRows
}

type mockAnnuals struct {
	active  []models.AnnualEnrollment
	forYear []models.AnnualEnrollment
}

func (m *mockAnnuals) ListActive(ctx context.Context, alunoID, anoLetivoID, instituicaoID string) ([]models.AnnualEnrollment, error) {
	return m.active, nil
}

func (m *mockAnnuals) FindForYear(ctx context.Context, alunoID, anoLetivoID, instituicaoID string) (*models.AnnualEnrollment, error) {
	rows := m.forYear
	if rows == nil {
		rows = m.active
	}
	if len(rows) == 0 {
		return nil, sql.ErrNoRows
	}
	return &rows[0], nil
}

type mockSubjectCatalog struct {
	subjects     map[string]*models.Subject
	links        map[string]bool
	equivalences []models.SubjectEquivalence
}

func (m *mockSubjectCatalog) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	if s, ok := m.subjects[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSubjectCatalog) HasCourseLink(ctx context.Context, cursoID, disciplinaID string) (bool, error) {
	return m.links[cursoID+"/"+disciplinaID], nil
}

func (m *mockSubjectCatalog) ListEquivalences(ctx context.Context, alunoID, instituicaoID string) ([]models.SubjectEquivalence, error) {
	return m.equivalences, nil
}

type mockSections struct {
	sections map[string]*models.ClassSection
}

func (m *mockSections) FindByID(ctx context.Context, id string) (*models.ClassSection, error) {
	if s, ok := m.sections[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

type mockMatriculas struct {
	bySection map[string]*models.ClassEnrollment
	current   *models.ClassEnrollment
	roster    []models.RosterEntry
}

func (m *mockMatriculas) FindActiveInSection(ctx context.Context, alunoID, turmaID string) (*models.ClassEnrollment, error) {
	if e, ok := m.bySection[turmaID]; ok && e.AlunoID == alunoID {
		return e, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockMatriculas) FindCurrent(ctx context.Context, alunoID, instituicaoID string) (*models.ClassEnrollment, error) {
	if m.current != nil && m.current.AlunoID == alunoID {
		return m.current, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockMatriculas) ListRosterBySection(ctx context.Context, turmaID string) ([]models.RosterEntry, error) {
	return m.roster, nil
}

type mockPlans struct {
	approved      map[string]*models.TeachingPlan
	forContext    []models.TeachingPlan
	reachable     []models.TeachingPlan
	reachableYear []models.TeachingPlan
	byID          map[string]*models.TeachingPlan
}

func (m *mockPlans) FindApproved(ctx context.Context, pc repository.PlanContext) (*models.TeachingPlan, error) {
	if p, ok := m.approved[pc.DisciplinaID]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockPlans) ListApprovedForContext(ctx context.Context, pc repository.PlanContext) ([]models.TeachingPlan, error) {
	return m.forContext, nil
}

func (m *mockPlans) ListReachableByStudent(ctx context.Context, alunoID, instituicaoID string) ([]models.TeachingPlan, error) {
	return m.reachable, nil
}

func (m *mockPlans) ListReachableForYear(ctx context.Context, alunoID, instituicaoID, anoLetivoID string) ([]models.TeachingPlan, error) {
	return m.reachableYear, nil
}

func (m *mockPlans) FindByID(ctx context.Context, id string) (*models.TeachingPlan, error) {
	if p, ok := m.byID[id]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

type mockEnrollmentStore struct {
	existing    map[string]bool
	enrollments map[string]*models.SubjectEnrollment
	created     []models.SubjectEnrollment
	createErr   error
	raced       int
	status      map[string]models.SubjectEnrollmentStatus
}

func (m *mockEnrollmentStore) FindByID(ctx context.Context, id string) (*models.SubjectEnrollment, error) {
	if e, ok := m.enrollments[id]; ok {
		return e, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEnrollmentStore) Exists(ctx context.Context, alunoID, disciplinaID, anoLetivoID string, periodo *string) (bool, error) {
	return m.existing[disciplinaID], nil
}

func (m *mockEnrollmentStore) Create(ctx context.Context, enrollment *models.SubjectEnrollment) error {
	if m.createErr != nil {
		return m.createErr
	}
	enrollment.ID = "enr-new"
	m.created = append(m.created, *enrollment)
	return nil
}

func (m *mockEnrollmentStore) CreateBulk(ctx context.Context, enrollments []models.SubjectEnrollment) ([]models.SubjectEnrollment, int, error) {
	if len(enrollments) == 0 {
		return nil, m.raced, nil
	}
	m.created = append(m.created, enrollments...)
	return enrollments, m.raced, nil
}

func (m *mockEnrollmentStore) UpdateStatus(ctx context.Context, id string, status models.SubjectEnrollmentStatus) error {
	if m.status == nil {
		m.status = make(map[string]models.SubjectEnrollmentStatus)
	}
	m.status[id] = status
	return nil
}

type mockAuditRepo struct {
	entries []models.AuditEntry
}

func (m *mockAuditRepo) Append(ctx context.Context, entry *models.AuditEntry) error {
	m.entries = append(m.entries, *entry)
	return nil
}

type enrollmentFixture struct {
	students   *mockStudents
	insts      *mockInstitutions
	annuals    *mockAnnuals
	subjects   *mockSubjectCatalog
	sections   *mockSections
	matriculas *mockMatriculas
	plans      *mockPlans
	store      *mockEnrollmentStore
	audit      *mockAuditRepo
	svc        *EnrollmentService
	scope      TenantScope
}

func newEnrollmentFixture() *enrollmentFixture {
	f := &enrollmentFixture{
		students: &mockStudents{users: map[string]*models.User{
			"aluno-1": {ID: "aluno-1", InstituicaoID: "inst-1", Nome: "Ana Silva", Role: models.RoleAluno},
		}},
		insts: &mockInstitutions{institutions: map[string]*models.Institution{
			"inst-1": {ID: "inst-1", Nome: "Universidade Alfa", TipoAcademico: models.TipoSuperior},
		}},
		annuals: &mockAnnuals{active: []models.AnnualEnrollment{
			{ID: "anual-1", InstituicaoID: "inst-1", AlunoID: "aluno-1", AnoLetivoID: "ano-2026", CursoID: strPtr("curso-1"), Status: models.AnnualAtiva},
		}},
		subjects: &mockSubjectCatalog{
			subjects: map[string]*models.Subject{
				"disc-1": {ID: "disc-1", InstituicaoID: "inst-1", Nome: "Cálculo I", CargaHoraria: 60},
				"disc-2": {ID: "disc-2", InstituicaoID: "inst-1", Nome: "Álgebra Linear", CargaHoraria: 60},
			},
			links: map[string]bool{"curso-1/disc-1": true, "curso-1/disc-2": true},
		},
		sections: &mockSections{sections: map[string]*models.ClassSection{
			"turma-1": {ID: "turma-1", InstituicaoID: "inst-1", Nome: "T1", CursoID: strPtr("curso-1"), AnoLetivoID: "ano-2026"},
		}},
		matriculas: &mockMatriculas{
			current: &models.ClassEnrollment{ID: "mat-1", InstituicaoID: "inst-1", AlunoID: "aluno-1", TurmaID: "turma-1", Status: models.MatriculaAtiva},
		},
		plans: &mockPlans{approved: map[string]*models.TeachingPlan{
			"disc-1": {ID: "plano-1", InstituicaoID: "inst-1", DisciplinaID: "disc-1", TurmaID: "turma-1", CursoID: strPtr("curso-1"), AnoLetivoID: "ano-2026", Periodo: "1", Status: models.PlanoAprovado},
			"disc-2": {ID: "plano-2", InstituicaoID: "inst-1", DisciplinaID: "disc-2", TurmaID: "turma-1", CursoID: strPtr("curso-1"), AnoLetivoID: "ano-2026", Periodo: "1", Status: models.PlanoAprovado},
		}},
		store: &mockEnrollmentStore{existing: map[string]bool{}},
		audit: &mockAuditRepo{},
	}
	f.scope = TenantScope{InstituicaoID: strPtr("inst-1"), UsuarioID: "secretaria-1", Role: models.RoleSecretaria}
	f.svc = NewEnrollmentService(f.students, f.insts, f.annuals, f.subjects, f.sections, f.matriculas, f.plans, f.store,
		NewAuditService(f.audit, zap.NewNop()), validator.New(), zap.NewNop())
	return f
}

func enrollReq() EnrollSubjectRequest {
	return EnrollSubjectRequest{AlunoID: "aluno-1", DisciplinaID: "disc-1", AnoLetivoID: "ano-2026"}
}

func assertAppError(t *testing.T, err error, status int) *appErrors.Error {
	t.Helper()
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.Equal(t, status, appErr.Status, "unexpected status for %v", err)
	return appErr
}

func TestEnrollmentServiceEnroll(t *testing.T) {
	f := newEnrollmentFixture()

	enrollment, err := f.svc.Enroll(context.Background(), f.scope, enrollReq())
	require.NoError(t, err)
	assert.Equal(t, models.SubjectCursando, enrollment.Status)
	assert.Equal(t, "anual-1", enrollment.MatriculaAnualID)
	require.NotNil(t, enrollment.TurmaID)
	assert.Equal(t, "turma-1", *enrollment.TurmaID)
	require.NotNil(t, enrollment.Periodo)
	assert.Equal(t, "1", *enrollment.Periodo)
	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, models.AuditActionInscricao, f.audit.entries[0].Acao)
}

func TestEnrollmentServiceEnrollStudentNotFound(t *testing.T) {
	f := newEnrollmentFixture()
	req := enrollReq()
	req.AlunoID = "ghost"

	_, err := f.svc.Enroll(context.Background(), f.scope, req)
	assertAppError(t, err, http.StatusNotFound)
}

func TestEnrollmentServiceEnrollCrossTenantStudentIsNotFound(t *testing.T) {
	f := newEnrollmentFixture()
	f.students.users["aluno-1"].InstituicaoID = "inst-other"

	_, err := f.svc.Enroll(context.Background(), f.scope, enrollReq())
	assertAppError(t, err, http.StatusNotFound)
}

func TestEnrollmentServiceEnrollRejectsNonStudentRole(t *testing.T) {
	f := newEnrollmentFixture()
	f.students.users["aluno-1"].Role = models.RoleProfessor

	_, err := f.svc.Enroll(context.Background(), f.scope, enrollReq())
	appErr := assertAppError(t, err, http.StatusBadRequest)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestEnrollmentServiceEnrollRequiresAnnualEnrollment(t *testing.T) {
	f := newEnrollmentFixture()
	f.annuals.active = nil

	_, err := f.svc.Enroll(context.Background(), f.scope, enrollReq())
	appErr := assertAppError(t, err, http.StatusBadRequest)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "matrícula anual")
}

func TestEnrollmentServiceEnrollRejectsMultipleActiveAnnuals(t *testing.T) {
	f := newEnrollmentFixture()
	f.annuals.active = append(f.annuals.active, f.annuals.active[0])

	_, err := f.svc.Enroll(context.Background(), f.scope, enrollReq())
	appErr := assertAppError(t, err, http.StatusBadRequest)
	assert.Contains(t, appErr.Message, "mais de uma matrícula anual")
}

func TestEnrollmentServiceEnrollSubjectOutsideTenantIsNotFound(t *testing.T) {
	f := newEnrollmentFixture()
	f.subjects.subjects["disc-1"].InstituicaoID = "inst-other"

	_, err := f.svc.Enroll(context.Background(), f.scope, enrollReq())
	assertAppError(t, err, http.StatusNotFound)
}

func TestEnrollmentServiceEnrollExplicitSectionNeedsMatricula(t *testing.T) {
	f := newEnrollmentFixture()
	req := enrollReq()
	req.TurmaID = strPtr("turma-1")
	f.matriculas.bySection = nil

	_, err := f.svc.Enroll(context.Background(), f.scope, req)
	appErr := assertAppError(t, err, http.StatusBadRequest)
	assert.Contains(t, appErr.Message, "matrícula ativa na turma")
}

func TestEnrollmentServiceEnrollRequiresCurriculumLink(t *testing.T) {
	f := newEnrollmentFixture()
	delete(f.subjects.links, "curso-1/disc-1")

	_, err := f.svc.Enroll(context.Background(), f.scope, enrollReq())
	appErr := assertAppError(t, err, http.StatusBadRequest)
	assert.Contains(t, appErr.Message, "não vinculada ao curso")
}

func TestEnrollmentServiceEnrollRequiresApprovedPlan(t *testing.T) {
	f := newEnrollmentFixture()
	delete(f.plans.approved, "disc-1")

	_, err := f.svc.Enroll(context.Background(), f.scope, enrollReq())
	appErr := assertAppError(t, err, http.StatusBadRequest)
	assert.Contains(t, appErr.Message, "Cálculo I")
	assert.Contains(t, appErr.Message, "APROVADO")
}

func TestEnrollmentServiceEnrollRejectsBlockedPlan(t *testing.T) {
	f := newEnrollmentFixture()
	f.plans.approved["disc-1"].Bloqueado = true

	_, err := f.svc.Enroll(context.Background(), f.scope, enrollReq())
	appErr := assertAppError(t, err, http.StatusBadRequest)
	assert.Contains(t, appErr.Message, "bloqueado")
}

func TestEnrollmentServiceEnrollDuplicateIsConflict(t *testing.T) {
	f := newEnrollmentFixture()
	f.store.existing["disc-1"] = true

	_, err := f.svc.Enroll(context.Background(), f.scope, enrollReq())
	assertAppError(t, err, http.StatusConflict)
}

func TestEnrollmentServiceEnrollLostRaceIsConflict(t *testing.T) {
	f := newEnrollmentFixture()
	f.store.createErr = repository.ErrDuplicateEnrollment

	_, err := f.svc.Enroll(context.Background(), f.scope, enrollReq())
	assertAppError(t, err, http.StatusConflict)
}

func TestEnrollmentServiceEnrollBulk(t *testing.T) {
	f := newEnrollmentFixture()
	f.store.existing["disc-2"] = true

	result, err := f.svc.EnrollBulk(context.Background(), f.scope, EnrollBulkRequest{
		AlunoID:       "aluno-1",
		AnoLetivoID:   "ano-2026",
		DisciplinaIDs: []string{"disc-1", "disc-2"},
	})
	require.NoError(t, err)
	assert.Len(t, result.Created, 1)
	assert.Equal(t, 1, result.Duplicates)
	assert.Equal(t, "disc-1", result.Created[0].DisciplinaID)
}

func TestEnrollmentServiceEnrollBulkExpandsAllSubjects(t *testing.T) {
	f := newEnrollmentFixture()
	f.plans.forContext = []models.TeachingPlan{
		*f.plans.approved["disc-1"],
		*f.plans.approved["disc-2"],
	}

	result, err := f.svc.EnrollBulk(context.Background(), f.scope, EnrollBulkRequest{
		AlunoID:     "aluno-1",
		AnoLetivoID: "ano-2026",
	})
	require.NoError(t, err)
	assert.Len(t, result.Created, 2)
	assert.Equal(t, 0, result.Duplicates)
}

func TestEnrollmentServiceEnrollBulkAllDuplicatesKeepsCreatedEmpty(t *testing.T) {
	f := newEnrollmentFixture()
	f.store.existing["disc-1"] = true
	f.store.existing["disc-2"] = true

	result, err := f.svc.EnrollBulk(context.Background(), f.scope, EnrollBulkRequest{
		AlunoID:       "aluno-1",
		AnoLetivoID:   "ano-2026",
		DisciplinaIDs: []string{"disc-1", "disc-2"},
	})
	require.NoError(t, err)
	// An all-duplicate batch still serializes "created": [].
	assert.NotNil(t, result.Created)
	assert.Empty(t, result.Created)
	assert.Equal(t, 2, result.Duplicates)
}

func TestEnrollmentServiceEnrollBulkRequiresCourseForSuperior(t *testing.T) {
	f := newEnrollmentFixture()
	f.annuals.active[0].CursoID = nil

	_, err := f.svc.EnrollBulk(context.Background(), f.scope, EnrollBulkRequest{
		AlunoID:       "aluno-1",
		AnoLetivoID:   "ano-2026",
		DisciplinaIDs: []string{"disc-1"},
	})
	appErr := assertAppError(t, err, http.StatusBadRequest)
	assert.Contains(t, appErr.Message, "curso")
	assert.Empty(t, f.store.created)
}

func TestEnrollmentServiceEnrollBulkCountsRacedDuplicates(t *testing.T) {
	f := newEnrollmentFixture()
	f.store.raced = 1

	result, err := f.svc.EnrollBulk(context.Background(), f.scope, EnrollBulkRequest{
		AlunoID:       "aluno-1",
		AnoLetivoID:   "ano-2026",
		DisciplinaIDs: []string{"disc-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Duplicates)
}

func TestEnrollmentServiceUnenroll(t *testing.T) {
	f := newEnrollmentFixture()
	f.store.enrollments = map[string]*models.SubjectEnrollment{
		"enr-1": {ID: "enr-1", InstituicaoID: "inst-1", AlunoID: "aluno-1", Status: models.SubjectCursando},
	}

	err := f.svc.Unenroll(context.Background(), f.scope, "enr-1")
	require.NoError(t, err)
	assert.Equal(t, models.SubjectCancelado, f.store.status["enr-1"])
}

func TestEnrollmentServiceUnenrollRejectsFinishedEnrollment(t *testing.T) {
	f := newEnrollmentFixture()
	f.store.enrollments = map[string]*models.SubjectEnrollment{
		"enr-1": {ID: "enr-1", InstituicaoID: "inst-1", AlunoID: "aluno-1", Status: models.SubjectAprovado},
	}

	err := f.svc.Unenroll(context.Background(), f.scope, "enr-1")
	assertAppError(t, err, http.StatusBadRequest)
}
