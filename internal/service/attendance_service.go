package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/dsicola/academico-api/internal/models"
	appErrors "github.com/dsicola/academico-api/pkg/errors"
)

type lessonReader interface {
	CountByPlan(ctx context.Context, planoEnsinoID string) (int, error)
	CountAttended(ctx context.Context, planoEnsinoID, alunoID string) (int, error)
	HasAttendanceRecords(ctx context.Context, planoEnsinoID string) (bool, error)
}

// AttendanceService aggregates presence marks into an attendance percentage
// and tri-state situation for one (plan, student) pair. Pure read over stored
// records: idempotent and safe to call during re-generation.
type AttendanceService struct {
	lessons          lessonReader
	frequenciaMinima float64
	logger           *zap.Logger
}

// NewAttendanceService constructs the aggregator. frequenciaMinima is the
// minimum percentage for a REGULAR situation.
func NewAttendanceService(lessons lessonReader, frequenciaMinima float64, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{lessons: lessons, frequenciaMinima: frequenciaMinima, logger: logger}
}

// Summarize computes the student's attendance under a plan. With zero lessons
// the percentage is nil and the situation INDETERMINADO: "no data yet" is a
// distinct outcome, never 0%.
func (s *AttendanceService) Summarize(ctx context.Context, planoEnsinoID, alunoID string) (*models.AttendanceSummary, error) {
	total, err := s.lessons.CountByPlan(ctx, planoEnsinoID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count lessons")
	}

	summary := &models.AttendanceSummary{
		PlanoEnsinoID: planoEnsinoID,
		AlunoID:       alunoID,
		TotalAulas:    total,
	}
	if total == 0 {
		summary.Situacao = models.FrequenciaIndeterminada
		return summary, nil
	}

	attended, err := s.lessons.CountAttended(ctx, planoEnsinoID, alunoID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count presences")
	}

	percent := float64(attended) / float64(total) * 100
	summary.TotalPresencas = attended
	summary.Percentual = &percent
	if percent >= s.frequenciaMinima {
		summary.Situacao = models.FrequenciaRegular
	} else {
		summary.Situacao = models.FrequenciaIrregular
	}
	return summary, nil
}
