package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/dsicola/academico-api/internal/models"
	appErrors "github.com/dsicola/academico-api/pkg/errors"
)

type assessmentReader interface {
	ListScored(ctx context.Context, planoEnsinoID, alunoID string) ([]models.ScoredAssessment, error)
}

type attendanceSummarizer interface {
	Summarize(ctx context.Context, planoEnsinoID, alunoID string) (*models.AttendanceSummary, error)
}

// GradeService computes a student's final grade for a teaching plan from
// weighted assessment scores and combines it with the attendance situation.
type GradeService struct {
	assessments assessmentReader
	attendance  attendanceSummarizer
	mediaMinima float64
	logger      *zap.Logger
}

// NewGradeService constructs the aggregator. mediaMinima is the passing mark
// on the institution's grade scale.
func NewGradeService(assessments assessmentReader, attendance attendanceSummarizer, mediaMinima float64, logger *zap.Logger) *GradeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{assessments: assessments, attendance: attendance, mediaMinima: mediaMinima, logger: logger}
}

// Final computes the weighted final grade for one (plan, student) pair.
// Assessments without a recorded score are excluded from numerator and
// denominator alike; with no scored assessment the grade is nil and the
// situation EM_ANDAMENTO.
func (s *GradeService) Final(ctx context.Context, planoEnsinoID, alunoID string, strategy AcademicTypeStrategy) (*models.GradeSummary, error) {
	scored, err := s.assessments.ListScored(ctx, planoEnsinoID, alunoID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assessments")
	}
	attendance, err := s.attendance.Summarize(ctx, planoEnsinoID, alunoID)
	if err != nil {
		return nil, err
	}

	summary := &models.GradeSummary{
		PlanoEnsinoID: planoEnsinoID,
		AlunoID:       alunoID,
		Frequencia:    attendance.Percentual,
	}

	var sum, totalWeight float64
	for _, assessment := range scored {
		if assessment.Nota == nil {
			continue
		}
		sum += *assessment.Nota * assessment.Peso
		totalWeight += assessment.Peso
	}
	if totalWeight > 0 {
		final := sum / totalWeight
		if strategy != nil {
			final = strategy.RoundGrade(final)
		}
		summary.MediaFinal = &final
	}

	summary.Situacao = s.classify(summary.MediaFinal, attendance.Situacao)
	return summary, nil
}

// classify combines the grade with the attendance situation. Either side
// being indeterminate keeps the whole outcome EM_ANDAMENTO rather than
// coercing missing data into a failing comparison.
func (s *GradeService) classify(final *float64, frequencia models.SituacaoFrequencia) models.SituacaoNota {
	if final == nil || frequencia == models.FrequenciaIndeterminada {
		return models.NotaEmAndamento
	}
	if frequencia == models.FrequenciaIrregular {
		// Attendance is the failing factor even when the grade would pass.
		return models.NotaReprovadoFalta
	}
	if *final >= s.mediaMinima {
		return models.NotaAprovado
	}
	return models.NotaReprovado
}
