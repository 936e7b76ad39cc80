package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/dsicola/academico-api/internal/models"
)

// SectionRepository reads class-sections (turmas).
type SectionRepository struct {
	db *sqlx.DB
}

// NewSectionRepository constructs the repository.
func NewSectionRepository(db *sqlx.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

// FindByID returns a section by id.
func (r *SectionRepository) FindByID(ctx context.Context, id string) (*models.ClassSection, error) {
	const query = `SELECT id, instituicao_id, nome, curso_id, classe_id, ano_letivo_id FROM turmas WHERE id = $1`
	var section models.ClassSection
	if err := r.db.GetContext(ctx, &section, query, id); err != nil {
		return nil, err
	}
	return &section, nil
}
