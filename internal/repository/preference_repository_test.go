package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestPreferenceRepositoryToggleDarkTheme(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPreferenceRepository(db)

	mock.ExpectQuery("INSERT INTO preferences").
		WillReturnRows(sqlmock.NewRows([]string{"dark_theme"}).AddRow(true))

	dark, err := repo.ToggleDarkTheme(context.Background(), "usr-1")
	require.NoError(t, err)
	require.True(t, dark)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPreferenceRepositoryToggleFlipsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPreferenceRepository(db)

	mock.ExpectQuery("INSERT INTO preferences").
		WillReturnRows(sqlmock.NewRows([]string{"dark_theme"}).AddRow(true))
	mock.ExpectQuery("INSERT INTO preferences").
		WillReturnRows(sqlmock.NewRows([]string{"dark_theme"}).AddRow(false))

	first, err := repo.ToggleDarkTheme(context.Background(), "usr-1")
	require.NoError(t, err)
	require.True(t, first)

	second, err := repo.ToggleDarkTheme(context.Background(), "usr-1")
	require.NoError(t, err)
	require.False(t, second)
	require.NoError(t, mock.ExpectationsWereMet())
}
