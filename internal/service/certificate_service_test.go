package service

import (
	"context"
	"database/sql"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dsicola/academico-api/internal/models"
)

type mockCompletions struct {
	completion *models.CourseCompletion
	setCodes   map[string]string
	byCode     map[string]*models.CertificateVerification
}

func (m *mockCompletions) FindConcluded(ctx context.Context, alunoID, cursoOuClasseID, instituicaoID string) (*models.CourseCompletion, error) {
	if m.completion == nil || m.completion.AlunoID != alunoID {
		return nil, sql.ErrNoRows
	}
	return m.completion, nil
}

func (m *mockCompletions) SetVerificationCode(ctx context.Context, id, codigo string) error {
	if m.setCodes == nil {
		m.setCodes = make(map[string]string)
	}
	m.setCodes[id] = codigo
	return nil
}

func (m *mockCompletions) FindByCode(ctx context.Context, codigo string) (*models.CertificateVerification, error) {
	if v, ok := m.byCode[codigo]; ok {
		return v, nil
	}
	return nil, sql.ErrNoRows
}

type mockReferences struct {
	courses map[string]string
	classes map[string]string
}

func (m *mockReferences) CourseName(ctx context.Context, id string) (string, error) {
	if n, ok := m.courses[id]; ok {
		return n, nil
	}
	return "", sql.ErrNoRows
}

func (m *mockReferences) ClassName(ctx context.Context, id string) (string, error) {
	if n, ok := m.classes[id]; ok {
		return n, nil
	}
	return "", sql.ErrNoRows
}

type certificateFixture struct {
	doc         *documentFixture
	completions *mockCompletions
	svc         *CertificateService
}

func newCertificateFixture() *certificateFixture {
	doc := newDocumentFixture()
	doc.insts.institutions["inst-1"].AssinaturaDigital = true
	f := &certificateFixture{
		doc: doc,
		completions: &mockCompletions{
			completion: &models.CourseCompletion{
				ID:            "conclusao-1",
				InstituicaoID: "inst-1",
				AlunoID:       "aluno-1",
				CursoID:       strPtr("curso-1"),
				Status:        models.ConclusaoConcluido,
				MediaFinal:    floatPtr(14.5),
				DataConclusao: time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC),
			},
		},
	}
	references := &mockReferences{courses: map[string]string{"curso-1": "Engenharia Informática"}}
	f.svc = NewCertificateService(doc.svc, f.completions, references, nil,
		"https://verificar.dsicola.com/certificados", time.Hour,
		NewAuditService(doc.audit, zap.NewNop()), zap.NewNop())
	return f
}

func TestCertificateServiceIssue(t *testing.T) {
	f := newCertificateFixture()

	cert, err := f.svc.Issue(context.Background(), f.doc.scope, "aluno-1", "curso-1")
	require.NoError(t, err)
	assert.Equal(t, "Ana Silva", cert.AlunoNome)
	require.NotNil(t, cert.CursoNome)
	assert.Equal(t, "Engenharia Informática", *cert.CursoNome)
	assert.True(t, cert.AssinaturaDigital)
	assert.Regexp(t, regexp.MustCompile(`^inst-1-aluno-1-[0-9A-Z]+$`), cert.CodigoValidacao)
	assert.Equal(t, "https://verificar.dsicola.com/certificados/"+cert.CodigoValidacao, cert.URLValidacao)

	assert.Equal(t, cert.CodigoValidacao, f.completions.setCodes["conclusao-1"])
	require.Len(t, f.doc.audit.entries, 1)
	assert.Equal(t, models.AuditActionGerarCertificado, f.doc.audit.entries[0].Acao)
}

func TestCertificateServiceReusesExistingCode(t *testing.T) {
	f := newCertificateFixture()
	f.completions.completion.CodigoValidacao = strPtr("inst-1-aluno-1-ABC123")

	cert, err := f.svc.Issue(context.Background(), f.doc.scope, "aluno-1", "curso-1")
	require.NoError(t, err)
	assert.Equal(t, "inst-1-aluno-1-ABC123", cert.CodigoValidacao)
	assert.Empty(t, f.completions.setCodes)
}

func TestCertificateServiceRequiresConcludedCompletion(t *testing.T) {
	f := newCertificateFixture()
	f.completions.completion = nil

	_, err := f.svc.Issue(context.Background(), f.doc.scope, "aluno-1", "curso-1")
	appErr := assertAppError(t, err, http.StatusBadRequest)
	assert.Contains(t, appErr.Message, "CONCLUIDO")
}

func TestCertificateServiceBlockedDespiteCompletion(t *testing.T) {
	f := newCertificateFixture()
	f.doc.blocks.blocked["aluno-1"] = "propinas em dívida"

	_, err := f.svc.Issue(context.Background(), f.doc.scope, "aluno-1", "curso-1")
	assertAppError(t, err, http.StatusForbidden)
	require.Len(t, f.doc.audit.entries, 1)
	assert.Equal(t, models.AuditActionTentativaBloqueada, f.doc.audit.entries[0].Acao)
}

func TestCertificateServiceVerify(t *testing.T) {
	f := newCertificateFixture()
	f.completions.byCode = map[string]*models.CertificateVerification{
		"inst-1-aluno-1-ABC123": {
			CodigoValidacao: "inst-1-aluno-1-ABC123",
			AlunoNome:       "Ana Silva",
			InstituicaoNome: "Universidade Alfa",
			Valido:          true,
		},
	}

	verification, err := f.svc.Verify(context.Background(), "inst-1-aluno-1-ABC123")
	require.NoError(t, err)
	assert.True(t, verification.Valido)
	assert.Equal(t, "Ana Silva", verification.AlunoNome)

	_, err = f.svc.Verify(context.Background(), "desconhecido")
	assertAppError(t, err, http.StatusNotFound)

	_, err = f.svc.Verify(context.Background(), "")
	assertAppError(t, err, http.StatusBadRequest)
}
