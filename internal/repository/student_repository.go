package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/dsicola/academico-api/internal/models"
)

// StudentRepository reads user rows for the enrollment and document layers.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByID returns a user by id regardless of role; callers enforce role and
// tenant scope.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	const query = `SELECT id, instituicao_id, email, nome, role, ativo, created_at, updated_at FROM usuarios WHERE id = $1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}
