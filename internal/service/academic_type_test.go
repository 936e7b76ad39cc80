package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsicola/academico-api/internal/models"
)

func TestStrategyForSelectsRegime(t *testing.T) {
	superior, err := StrategyFor(models.TipoSuperior)
	require.NoError(t, err)
	assert.Equal(t, models.TipoSuperior, superior.Tipo())

	secundario, err := StrategyFor(models.TipoSecundario)
	require.NoError(t, err)
	assert.Equal(t, models.TipoSecundario, secundario.Tipo())

	_, err = StrategyFor(models.TipoAcademico("PRIMARIO"))
	assert.Error(t, err)
}

func TestSuperiorPlanContextRequiresCourse(t *testing.T) {
	curso := "curso-1"
	section := &models.ClassSection{ID: "turma-1", CursoID: &curso}

	pc, err := superiorStrategy{}.PlanContext(section, "disc-1", "ano-1", "inst-1")
	require.NoError(t, err)
	require.NotNil(t, pc.CursoID)
	assert.Equal(t, "curso-1", *pc.CursoID)
	assert.Nil(t, pc.ClasseID)

	section.CursoID = nil
	_, err = superiorStrategy{}.PlanContext(section, "disc-1", "ano-1", "inst-1")
	assert.Error(t, err)
}

func TestSecundarioPlanContextRequiresClass(t *testing.T) {
	classe := "classe-1"
	section := &models.ClassSection{ID: "turma-1", ClasseID: &classe}

	pc, err := secundarioStrategy{}.PlanContext(section, "disc-1", "ano-1", "inst-1")
	require.NoError(t, err)
	require.NotNil(t, pc.ClasseID)
	assert.Equal(t, "classe-1", *pc.ClasseID)
	assert.Nil(t, pc.CursoID)

	section.ClasseID = nil
	_, err = secundarioStrategy{}.PlanContext(section, "disc-1", "ano-1", "inst-1")
	assert.Error(t, err)
}

func TestRoundGradePerRegime(t *testing.T) {
	assert.InDelta(t, 13.3, superiorStrategy{}.RoundGrade(13.25), 0.0001)
	assert.InDelta(t, 13.2, superiorStrategy{}.RoundGrade(13.24), 0.0001)
	assert.InDelta(t, 13.5, secundarioStrategy{}.RoundGrade(13.25), 0.0001)
	assert.InDelta(t, 13.0, secundarioStrategy{}.RoundGrade(13.2), 0.0001)
}

func TestRequireAnnualContext(t *testing.T) {
	curso := "curso-1"
	classe := "classe-1"

	assert.NoError(t, superiorStrategy{}.RequireAnnualContext(&models.AnnualEnrollment{CursoID: &curso}))
	assert.Error(t, superiorStrategy{}.RequireAnnualContext(&models.AnnualEnrollment{}))

	assert.NoError(t, secundarioStrategy{}.RequireAnnualContext(&models.AnnualEnrollment{ClasseID: &classe}))
	assert.Error(t, secundarioStrategy{}.RequireAnnualContext(&models.AnnualEnrollment{}))
}

func TestPeriodLabel(t *testing.T) {
	assert.Equal(t, "semestre", superiorStrategy{}.PeriodLabel())
	assert.Equal(t, "trimestre", secundarioStrategy{}.PeriodLabel())
}
