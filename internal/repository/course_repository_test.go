package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestCourseRepositorySearchNormalisesQuery(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "code", "name", "program_id", "credits", "created_at", "updated_at"}).
		AddRow("crs-1", "MAT101", "Calculus I", "prg-1", 4, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE LOWER(name) LIKE $1 OR LOWER(code) LIKE $1 ORDER BY code ASC")).
		WithArgs("%calc%").
		WillReturnRows(rows)

	courses, err := repo.Search(context.Background(), "CALC")
	require.NoError(t, err)
	require.Len(t, courses, 1)
	require.Equal(t, "MAT101", courses[0].Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositorySearchEmptyMatchesAll(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "code", "name", "program_id", "credits", "created_at", "updated_at"}).
		AddRow("crs-1", "MAT101", "Calculus I", "prg-1", 4, now, now).
		AddRow("crs-2", "PHY101", "Physics", "prg-1", 3, now, now)
	mock.ExpectQuery("SELECT .* FROM courses").
		WithArgs("%%").
		WillReturnRows(rows)

	courses, err := repo.Search(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, courses, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}
