package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// ReferenceRepository resolves display names of cursos and classes for
// derived documents.
type ReferenceRepository struct {
	db *sqlx.DB
}

// NewReferenceRepository constructs the repository.
func NewReferenceRepository(db *sqlx.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

// CourseName returns the curso's display name.
func (r *ReferenceRepository) CourseName(ctx context.Context, id string) (string, error) {
	var nome string
	if err := r.db.GetContext(ctx, &nome, `SELECT nome FROM cursos WHERE id = $1`, id); err != nil {
		return "", err
	}
	return nome, nil
}

// ClassName returns the classe's display name.
func (r *ReferenceRepository) ClassName(ctx context.Context, id string) (string, error) {
	var nome string
	if err := r.db.GetContext(ctx, &nome, `SELECT nome FROM classes WHERE id = $1`, id); err != nil {
		return "", err
	}
	return nome, nil
}
