package typology

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/fraudmesh/evalengine/pkg/constant"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) (*PostgreSQLRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return &PostgreSQLRepository{db: db}, mock
}

func TestUpdate_BindsIDAndVersionSeparately(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec(`UPDATE typology SET configuration = \$1 WHERE id = \$2 AND version = \$3`).
		WithArgs(sqlmock.AnyArg(), "typ-1", "v2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	cfg, err := repo.Update(context.Background(), "typ-1", "v2", &mmodel.TypologyConfiguration{})
	require.NoError(t, err)
	assert.Equal(t, "typ-1", cfg.ID)
	assert.Equal(t, "v2", cfg.Version)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_NoRowsAffectedReturnsNotFound(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec(`UPDATE typology SET configuration = \$1 WHERE id = \$2 AND version = \$3`).
		WithArgs(sqlmock.AnyArg(), "typ-1", "v2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.Update(context.Background(), "typ-1", "v2", &mmodel.TypologyConfiguration{})

	var notFound constant.EntityNotFoundError
	require.True(t, errors.As(err, &notFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFind_NoRowsReturnsNotFound(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`SELECT uuid, id, version, configuration FROM typology WHERE id = \$1 AND version = \$2`).
		WithArgs("typ-1", "v1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Find(context.Background(), "typ-1", "v1")

	var notFound constant.EntityNotFoundError
	require.True(t, errors.As(err, &notFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAll_ScansEveryRow(t *testing.T) {
	repo, mock := newTestRepository(t)

	rows := sqlmock.NewRows([]string{"uuid", "id", "version", "configuration"}).
		AddRow("u1", "typ-1", "v1", []byte(`{}`)).
		AddRow("u2", "typ-2", "v1", []byte(`{}`))

	mock.ExpectQuery(`SELECT uuid, id, version, configuration FROM typology ORDER BY id, version`).
		WillReturnRows(rows)

	out, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, out, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_NoRowsAffectedReturnsNotFound(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec(`DELETE FROM typology WHERE id = \$1 AND version = \$2`).
		WithArgs("typ-1", "v1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "typ-1", "v1")

	var notFound constant.EntityNotFoundError
	require.True(t, errors.As(err, &notFound))
	require.NoError(t, mock.ExpectationsWereMet())
}
