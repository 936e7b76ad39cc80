package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsicola/academico-api/internal/models"
)

func newAnnualRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAnnualEnrollmentRepositoryFindForYearIgnoresStatus(t *testing.T) {
	db, mock, cleanup := newAnnualRepoMock(t)
	defer cleanup()

	repo := NewAnnualEnrollmentRepository(db)
	rows := sqlmock.NewRows([]string{"id", "instituicao_id", "aluno_id", "ano_letivo_id", "curso_id", "classe_id", "status", "created_at"}).
		AddRow("anual-1", "inst-1", "aluno-1", "ano-2024", "curso-1", nil, string(models.AnnualConcluida), time.Now())
	// Only three binds: the status never filters this lookup.
	mock.ExpectQuery(regexp.QuoteMeta("FROM matriculas_anuais")).
		WithArgs("aluno-1", "ano-2024", "inst-1").
		WillReturnRows(rows)

	enrollment, err := repo.FindForYear(context.Background(), "aluno-1", "ano-2024", "inst-1")
	require.NoError(t, err)
	assert.Equal(t, models.AnnualConcluida, enrollment.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnualEnrollmentRepositoryFindForYearNoRows(t *testing.T) {
	db, mock, cleanup := newAnnualRepoMock(t)
	defer cleanup()

	repo := NewAnnualEnrollmentRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("FROM matriculas_anuais")).
		WithArgs("aluno-1", "ano-2024", "inst-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindForYear(context.Background(), "aluno-1", "ano-2024", "inst-1")
	assert.Equal(t, sql.ErrNoRows, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
