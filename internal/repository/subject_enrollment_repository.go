package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/dsicola/academico-api/internal/models"
)

// ErrDuplicateEnrollment is returned when the (aluno, disciplina, ano,
// periodo) uniqueness constraint rejects an insert. The constraint is the
// final arbiter for concurrent enrollments; pre-checks only exist to produce
// friendlier duplicate counts.
var ErrDuplicateEnrollment = errors.New("subject enrollment already exists")

const uniqueViolation = "23505"

// SubjectEnrollmentRepository persists per-subject enrollments. All writes go
// through the eligibility chain.
type SubjectEnrollmentRepository struct {
	db *sqlx.DB
}

// NewSubjectEnrollmentRepository constructs the repository.
func NewSubjectEnrollmentRepository(db *sqlx.DB) *SubjectEnrollmentRepository {
	return &SubjectEnrollmentRepository{db: db}
}

const subjectEnrollmentColumns = `id, instituicao_id, aluno_id, disciplina_id, turma_id, ano_letivo_id, periodo, matricula_anual_id, status, created_at`

// FindByID returns an enrollment by id.
func (r *SubjectEnrollmentRepository) FindByID(ctx context.Context, id string) (*models.SubjectEnrollment, error) {
	query := fmt.Sprintf(`SELECT %s FROM aluno_disciplinas WHERE id = $1`, subjectEnrollmentColumns)
	var enrollment models.SubjectEnrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// Exists checks for an enrollment on the uniqueness key. Periodo is matched
// as null-equal when absent.
func (r *SubjectEnrollmentRepository) Exists(ctx context.Context, alunoID, disciplinaID, anoLetivoID string, periodo *string) (bool, error) {
	const query = `SELECT 1 FROM aluno_disciplinas
        WHERE aluno_id = $1 AND disciplina_id = $2 AND ano_letivo_id = $3 AND periodo IS NOT DISTINCT FROM $4
        LIMIT 1`
	var one int
	if err := r.db.GetContext(ctx, &one, query, alunoID, disciplinaID, anoLetivoID, periodo); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check subject enrollment: %w", err)
	}
	return true, nil
}

// Create inserts a single enrollment row. A unique violation surfaces as
// ErrDuplicateEnrollment.
func (r *SubjectEnrollmentRepository) Create(ctx context.Context, enrollment *models.SubjectEnrollment) error {
	prepare(enrollment)
	const query = `INSERT INTO aluno_disciplinas (id, instituicao_id, aluno_id, disciplina_id, turma_id, ano_letivo_id, periodo, matricula_anual_id, status, created_at)
        VALUES (:id, :instituicao_id, :aluno_id, :disciplina_id, :turma_id, :ano_letivo_id, :periodo, :matricula_anual_id, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEnrollment
		}
		return fmt.Errorf("create subject enrollment: %w", err)
	}
	return nil
}

// CreateBulk inserts all rows inside one transaction: every insert of the
// call succeeds or none does. Rows losing a race to a concurrent enrollment
// are skipped via ON CONFLICT DO NOTHING and reported as duplicates rather
// than aborting the batch.
func (r *SubjectEnrollmentRepository) CreateBulk(ctx context.Context, enrollments []models.SubjectEnrollment) (created []models.SubjectEnrollment, duplicates int, err error) {
	if len(enrollments) == 0 {
		return nil, 0, nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("begin bulk enrollment: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO aluno_disciplinas (id, instituicao_id, aluno_id, disciplina_id, turma_id, ano_letivo_id, periodo, matricula_anual_id, status, created_at)
        VALUES (:id, :instituicao_id, :aluno_id, :disciplina_id, :turma_id, :ano_letivo_id, :periodo, :matricula_anual_id, :status, :created_at)
        ON CONFLICT (aluno_id, disciplina_id, ano_letivo_id, periodo) DO NOTHING`

	created = make([]models.SubjectEnrollment, 0, len(enrollments))
	for i := range enrollments {
		prepare(&enrollments[i])
		result, execErr := tx.NamedExecContext(ctx, query, enrollments[i])
		if execErr != nil {
			err = fmt.Errorf("bulk insert enrollment: %w", execErr)
			return nil, 0, err
		}
		affected, _ := result.RowsAffected()
		if affected == 0 {
			duplicates++
			continue
		}
		created = append(created, enrollments[i])
	}

	if err = tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("commit bulk enrollment: %w", err)
	}
	return created, duplicates, nil
}

// UpdateStatus updates a single enrollment's status.
func (r *SubjectEnrollmentRepository) UpdateStatus(ctx context.Context, id string, status models.SubjectEnrollmentStatus) error {
	const query = `UPDATE aluno_disciplinas SET status = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status); err != nil {
		return fmt.Errorf("update subject enrollment status: %w", err)
	}
	return nil
}

func prepare(enrollment *models.SubjectEnrollment) {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	if enrollment.CreatedAt.IsZero() {
		enrollment.CreatedAt = time.Now().UTC()
	}
	if enrollment.Status == "" {
		enrollment.Status = models.SubjectCursando
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}
