package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dsicola/academico-api/internal/models"
)

type mockScoredAssessments struct {
	scored []models.ScoredAssessment
}

func (m *mockScoredAssessments) ListScored(ctx context.Context, planoEnsinoID, alunoID string) ([]models.ScoredAssessment, error) {
	return m.scored, nil
}

type mockAttendance struct {
	summary *models.AttendanceSummary
}

func (m *mockAttendance) Summarize(ctx context.Context, planoEnsinoID, alunoID string) (*models.AttendanceSummary, error) {
	return m.summary, nil
}

func regularAttendance(percent float64) *mockAttendance {
	return &mockAttendance{summary: &models.AttendanceSummary{
		Percentual: &percent,
		Situacao:   models.FrequenciaRegular,
	}}
}

func scoredAssessment(peso float64, nota *float64) models.ScoredAssessment {
	return models.ScoredAssessment{
		Assessment: models.Assessment{Peso: peso},
		Nota:       nota,
	}
}

func TestGradeServiceWeightedMean(t *testing.T) {
	assessments := &mockScoredAssessments{scored: []models.ScoredAssessment{
		scoredAssessment(2, floatPtr(14)),
		scoredAssessment(1, floatPtr(11)),
	}}
	svc := NewGradeService(assessments, regularAttendance(90), 10, zap.NewNop())

	summary, err := svc.Final(context.Background(), "plano-1", "aluno-1", superiorStrategy{})
	require.NoError(t, err)
	require.NotNil(t, summary.MediaFinal)
	assert.InDelta(t, 13.0, *summary.MediaFinal, 0.001)
	assert.Equal(t, models.NotaAprovado, summary.Situacao)
}

func TestGradeServiceExcludesUnscoredAssessments(t *testing.T) {
	assessments := &mockScoredAssessments{scored: []models.ScoredAssessment{
		scoredAssessment(2, floatPtr(16)),
		scoredAssessment(3, nil),
	}}
	svc := NewGradeService(assessments, regularAttendance(90), 10, zap.NewNop())

	summary, err := svc.Final(context.Background(), "plano-1", "aluno-1", superiorStrategy{})
	require.NoError(t, err)
	require.NotNil(t, summary.MediaFinal)
	assert.InDelta(t, 16.0, *summary.MediaFinal, 0.001)
}

func TestGradeServiceNoScoredAssessmentsIsInProgress(t *testing.T) {
	assessments := &mockScoredAssessments{scored: []models.ScoredAssessment{
		scoredAssessment(2, nil),
	}}
	svc := NewGradeService(assessments, regularAttendance(90), 10, zap.NewNop())

	summary, err := svc.Final(context.Background(), "plano-1", "aluno-1", superiorStrategy{})
	require.NoError(t, err)
	assert.Nil(t, summary.MediaFinal)
	assert.Equal(t, models.NotaEmAndamento, summary.Situacao)
}

func TestGradeServiceIndeterminateAttendanceIsInProgress(t *testing.T) {
	assessments := &mockScoredAssessments{scored: []models.ScoredAssessment{
		scoredAssessment(1, floatPtr(15)),
	}}
	attendance := &mockAttendance{summary: &models.AttendanceSummary{
		Situacao: models.FrequenciaIndeterminada,
	}}
	svc := NewGradeService(assessments, attendance, 10, zap.NewNop())

	summary, err := svc.Final(context.Background(), "plano-1", "aluno-1", superiorStrategy{})
	require.NoError(t, err)
	assert.Equal(t, models.NotaEmAndamento, summary.Situacao)
}

func TestGradeServiceIrregularAttendanceFailsDespitePassingGrade(t *testing.T) {
	assessments := &mockScoredAssessments{scored: []models.ScoredAssessment{
		scoredAssessment(1, floatPtr(18)),
	}}
	percent := 40.0
	attendance := &mockAttendance{summary: &models.AttendanceSummary{
		Percentual: &percent,
		Situacao:   models.FrequenciaIrregular,
	}}
	svc := NewGradeService(assessments, attendance, 10, zap.NewNop())

	summary, err := svc.Final(context.Background(), "plano-1", "aluno-1", superiorStrategy{})
	require.NoError(t, err)
	assert.Equal(t, models.NotaReprovadoFalta, summary.Situacao)
}

func TestGradeServiceBelowMinimumIsFailed(t *testing.T) {
	assessments := &mockScoredAssessments{scored: []models.ScoredAssessment{
		scoredAssessment(1, floatPtr(8)),
	}}
	svc := NewGradeService(assessments, regularAttendance(90), 10, zap.NewNop())

	summary, err := svc.Final(context.Background(), "plano-1", "aluno-1", superiorStrategy{})
	require.NoError(t, err)
	assert.Equal(t, models.NotaReprovado, summary.Situacao)
}

func TestGradeServiceAppliesStrategyRounding(t *testing.T) {
	assessments := &mockScoredAssessments{scored: []models.ScoredAssessment{
		scoredAssessment(3, floatPtr(14)),
		scoredAssessment(1, floatPtr(11)),
	}}
	svc := NewGradeService(assessments, regularAttendance(90), 10, zap.NewNop())

	// 13.25 rounds to 13.3 for SUPERIOR and 13.5 for SECUNDARIO.
	superior, err := svc.Final(context.Background(), "plano-1", "aluno-1", superiorStrategy{})
	require.NoError(t, err)
	assert.InDelta(t, 13.3, *superior.MediaFinal, 0.001)

	secundario, err := svc.Final(context.Background(), "plano-1", "aluno-1", secundarioStrategy{})
	require.NoError(t, err)
	assert.InDelta(t, 13.5, *secundario.MediaFinal, 0.001)
}
