package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dsicola/academico-api/internal/models"
)

type mockLessons struct {
	total        int
	attended     int
	hasPresencas bool
}

func (m *mockLessons) CountByPlan(ctx context.Context, planoEnsinoID string) (int, error) {
	return m.total, nil
}

func (m *mockLessons) CountAttended(ctx context.Context, planoEnsinoID, alunoID string) (int, error) {
	return m.attended, nil
}

func (m *mockLessons) HasAttendanceRecords(ctx context.Context, planoEnsinoID string) (bool, error) {
	return m.hasPresencas, nil
}

func TestAttendanceServiceZeroLessonsIsIndeterminate(t *testing.T) {
	svc := NewAttendanceService(&mockLessons{total: 0}, 75, zap.NewNop())

	summary, err := svc.Summarize(context.Background(), "plano-1", "aluno-1")
	require.NoError(t, err)
	assert.Nil(t, summary.Percentual)
	assert.Equal(t, models.FrequenciaIndeterminada, summary.Situacao)
}

func TestAttendanceServiceRegular(t *testing.T) {
	svc := NewAttendanceService(&mockLessons{total: 20, attended: 18}, 75, zap.NewNop())

	summary, err := svc.Summarize(context.Background(), "plano-1", "aluno-1")
	require.NoError(t, err)
	require.NotNil(t, summary.Percentual)
	assert.InDelta(t, 90.0, *summary.Percentual, 0.001)
	assert.Equal(t, models.FrequenciaRegular, summary.Situacao)
}

func TestAttendanceServiceIrregularBelowMinimum(t *testing.T) {
	svc := NewAttendanceService(&mockLessons{total: 20, attended: 10}, 75, zap.NewNop())

	summary, err := svc.Summarize(context.Background(), "plano-1", "aluno-1")
	require.NoError(t, err)
	require.NotNil(t, summary.Percentual)
	assert.InDelta(t, 50.0, *summary.Percentual, 0.001)
	assert.Equal(t, models.FrequenciaIrregular, summary.Situacao)
}

func TestAttendanceServiceExactMinimumIsRegular(t *testing.T) {
	svc := NewAttendanceService(&mockLessons{total: 4, attended: 3}, 75, zap.NewNop())

	summary, err := svc.Summarize(context.Background(), "plano-1", "aluno-1")
	require.NoError(t, err)
	assert.Equal(t, models.FrequenciaRegular, summary.Situacao)
}
