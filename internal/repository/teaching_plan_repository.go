package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/dsicola/academico-api/internal/models"
)

// TeachingPlanRepository reads planos de ensino. Plans are written by an
// external lifecycle component; this engine only consumes them.
type TeachingPlanRepository struct {
	db *sqlx.DB
}

// NewTeachingPlanRepository constructs the repository.
func NewTeachingPlanRepository(db *sqlx.DB) *TeachingPlanRepository {
	return &TeachingPlanRepository{db: db}
}

const teachingPlanColumns = `id, instituicao_id, disciplina_id, professor_id, turma_id, curso_id, classe_id, ano_letivo_id, periodo, status, bloqueado, carga_horaria, created_at`

// FindByID returns a plan by id.
func (r *TeachingPlanRepository) FindByID(ctx context.Context, id string) (*models.TeachingPlan, error) {
	query := fmt.Sprintf(`SELECT %s FROM planos_ensino WHERE id = $1`, teachingPlanColumns)
	var plan models.TeachingPlan
	if err := r.db.GetContext(ctx, &plan, query, id); err != nil {
		return nil, err
	}
	return &plan, nil
}

// PlanContext narrows the approved-plan lookup to the student's academic
// context: course for SUPERIOR institutions, class for SECUNDARIO.
type PlanContext struct {
	DisciplinaID  string
	AnoLetivoID   string
	InstituicaoID string
	CursoID       *string
	ClasseID      *string
}

// FindApproved returns the APROVADO plan matching the context, regardless of
// the bloqueado flag; callers decide how a blocked plan fails.
func (r *TeachingPlanRepository) FindApproved(ctx context.Context, pc PlanContext) (*models.TeachingPlan, error) {
	conditions := []string{"disciplina_id = $1", "ano_letivo_id = $2", "instituicao_id = $3", "status = $4"}
	args := []interface{}{pc.DisciplinaID, pc.AnoLetivoID, pc.InstituicaoID, models.PlanoAprovado}
	if pc.CursoID != nil {
		conditions = append(conditions, fmt.Sprintf("curso_id = $%d", len(args)+1))
		args = append(args, *pc.CursoID)
	}
	if pc.ClasseID != nil {
		conditions = append(conditions, fmt.Sprintf("classe_id = $%d", len(args)+1))
		args = append(args, *pc.ClasseID)
	}
	query := fmt.Sprintf(`SELECT %s FROM planos_ensino WHERE %s ORDER BY created_at DESC LIMIT 1`,
		teachingPlanColumns, strings.Join(conditions, " AND "))
	var plan models.TeachingPlan
	if err := r.db.GetContext(ctx, &plan, query, args...); err != nil {
		return nil, err
	}
	return &plan, nil
}

// ListApprovedForContext returns every APROVADO, non-blocked plan in the
// context for a year, used to expand "all subjects" bulk enrollments.
func (r *TeachingPlanRepository) ListApprovedForContext(ctx context.Context, pc PlanContext) ([]models.TeachingPlan, error) {
	conditions := []string{"ano_letivo_id = $1", "instituicao_id = $2", "status = $3", "bloqueado = FALSE"}
	args := []interface{}{pc.AnoLetivoID, pc.InstituicaoID, models.PlanoAprovado}
	if pc.CursoID != nil {
		conditions = append(conditions, fmt.Sprintf("curso_id = $%d", len(args)+1))
		args = append(args, *pc.CursoID)
	}
	if pc.ClasseID != nil {
		conditions = append(conditions, fmt.Sprintf("classe_id = $%d", len(args)+1))
		args = append(args, *pc.ClasseID)
	}
	query := fmt.Sprintf(`SELECT %s FROM planos_ensino WHERE %s`, teachingPlanColumns, strings.Join(conditions, " AND "))
	var plans []models.TeachingPlan
	if err := r.db.SelectContext(ctx, &plans, query, args...); err != nil {
		return nil, fmt.Errorf("list approved plans: %w", err)
	}
	return plans, nil
}

// ListReachableByStudent returns the plans tied to sections the student has
// ever been enrolled in, in states usable for historical documents.
func (r *TeachingPlanRepository) ListReachableByStudent(ctx context.Context, alunoID, instituicaoID string) ([]models.TeachingPlan, error) {
	query := fmt.Sprintf(`SELECT %s FROM planos_ensino
        WHERE instituicao_id = $2
          AND status IN ($3, $4)
          AND turma_id IN (SELECT turma_id FROM matriculas WHERE aluno_id = $1)
        ORDER BY ano_letivo_id, periodo`, teachingPlanColumns)
	var plans []models.TeachingPlan
	if err := r.db.SelectContext(ctx, &plans, query, alunoID, instituicaoID, models.PlanoAprovado, models.PlanoEncerrado); err != nil {
		return nil, fmt.Errorf("list reachable plans: %w", err)
	}
	return plans, nil
}

// ListReachableForYear narrows ListReachableByStudent to one academic year,
// for report cards.
func (r *TeachingPlanRepository) ListReachableForYear(ctx context.Context, alunoID, instituicaoID, anoLetivoID string) ([]models.TeachingPlan, error) {
	query := fmt.Sprintf(`SELECT %s FROM planos_ensino
        WHERE instituicao_id = $2
          AND ano_letivo_id = $3
          AND turma_id IN (SELECT turma_id FROM matriculas WHERE aluno_id = $1)
        ORDER BY periodo`, teachingPlanColumns)
	var plans []models.TeachingPlan
	if err := r.db.SelectContext(ctx, &plans, query, alunoID, instituicaoID, anoLetivoID); err != nil {
		return nil, fmt.Errorf("list plans for year: %w", err)
	}
	return plans, nil
}
