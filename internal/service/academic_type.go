package service

import (
	"math"

	"github.com/dsicola/academico-api/internal/models"
	"github.com/dsicola/academico-api/internal/repository"
	appErrors "github.com/dsicola/academico-api/pkg/errors"
)

// AcademicTypeStrategy captures everything that differs between the SUPERIOR
// and SECUNDARIO regimes, selected once per call instead of branching at
// every step.
type AcademicTypeStrategy interface {
	Tipo() models.TipoAcademico
	// PlanContext narrows an approved-plan lookup to the student's context:
	// the section's course for SUPERIOR, its class for SECUNDARIO.
	PlanContext(section *models.ClassSection, disciplinaID, anoLetivoID, instituicaoID string) (repository.PlanContext, error)
	// PeriodLabel names the academic period unit.
	PeriodLabel() string
	// RoundGrade applies the regime's rounding to a final grade.
	RoundGrade(v float64) float64
	// RequireAnnualContext validates the annual enrollment's completeness:
	// SUPERIOR requires a course binding, SECUNDARIO a class binding.
	RequireAnnualContext(enrollment *models.AnnualEnrollment) error
}

type superiorStrategy struct{}

func (superiorStrategy) Tipo() models.TipoAcademico { return models.TipoSuperior }

func (superiorStrategy) PlanContext(section *models.ClassSection, disciplinaID, anoLetivoID, instituicaoID string) (repository.PlanContext, error) {
	if section.CursoID == nil {
		return repository.PlanContext{}, appErrors.Clone(appErrors.ErrPreconditionFailed,
			"turma sem curso associado: não é possível localizar plano de ensino")
	}
	return repository.PlanContext{
		DisciplinaID:  disciplinaID,
		AnoLetivoID:   anoLetivoID,
		InstituicaoID: instituicaoID,
		CursoID:       section.CursoID,
	}, nil
}

func (superiorStrategy) PeriodLabel() string { return "semestre" }

// SUPERIOR grades carry one decimal place.
func (superiorStrategy) RoundGrade(v float64) float64 {
	return math.Round(v*10) / 10
}

func (superiorStrategy) RequireAnnualContext(enrollment *models.AnnualEnrollment) error {
	if enrollment.CursoID == nil {
		return appErrors.Clone(appErrors.ErrPreconditionFailed,
			"matrícula anual sem curso: obrigatório para instituições de ensino superior")
	}
	return nil
}

type secundarioStrategy struct{}

func (secundarioStrategy) Tipo() models.TipoAcademico { return models.TipoSecundario }

func (secundarioStrategy) PlanContext(section *models.ClassSection, disciplinaID, anoLetivoID, instituicaoID string) (repository.PlanContext, error) {
	if section.ClasseID == nil {
		return repository.PlanContext{}, appErrors.Clone(appErrors.ErrPreconditionFailed,
			"turma sem classe associada: não é possível localizar plano de ensino")
	}
	return repository.PlanContext{
		DisciplinaID:  disciplinaID,
		AnoLetivoID:   anoLetivoID,
		InstituicaoID: instituicaoID,
		ClasseID:      section.ClasseID,
	}, nil
}

func (secundarioStrategy) PeriodLabel() string { return "trimestre" }

// SECUNDARIO grades round to the nearest half point.
func (secundarioStrategy) RoundGrade(v float64) float64 {
	return math.Round(v*2) / 2
}

func (secundarioStrategy) RequireAnnualContext(enrollment *models.AnnualEnrollment) error {
	if enrollment.ClasseID == nil {
		return appErrors.Clone(appErrors.ErrPreconditionFailed,
			"matrícula anual sem classe: obrigatório para o ensino secundário")
	}
	return nil
}

// StrategyFor selects the strategy for an academic type.
func StrategyFor(tipo models.TipoAcademico) (AcademicTypeStrategy, error) {
	switch tipo {
	case models.TipoSuperior:
		return superiorStrategy{}, nil
	case models.TipoSecundario:
		return secundarioStrategy{}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "tipo acadêmico desconhecido")
	}
}
