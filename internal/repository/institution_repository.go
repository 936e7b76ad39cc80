package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/dsicola/academico-api/internal/models"
)

// InstitutionRepository reads tenant roots.
type InstitutionRepository struct {
	db *sqlx.DB
}

// NewInstitutionRepository constructs the repository.
func NewInstitutionRepository(db *sqlx.DB) *InstitutionRepository {
	return &InstitutionRepository{db: db}
}

// FindByID returns an institution by id.
func (r *InstitutionRepository) FindByID(ctx context.Context, id string) (*models.Institution, error) {
	const query = `SELECT id, nome, tipo_academico, ativa, assinatura_digital, created_at, updated_at FROM instituicoes WHERE id = $1`
	var institution models.Institution
	if err := r.db.GetContext(ctx, &institution, query, id); err != nil {
		return nil, err
	}
	return &institution, nil
}
