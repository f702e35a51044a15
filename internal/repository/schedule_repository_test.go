package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/campushq/horario-api/internal/models"
	appErrors "github.com/campushq/horario-api/pkg/errors"
)

func scheduleDetailRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "course_id", "room_id", "manager_id", "day", "start_time", "end_time", "created_at", "updated_at",
		"course_code", "course_name", "room_code", "manager_name",
	}).AddRow("sch-1", "crs-1", "rm-1", "mgr-1", "MON", "08:00", "10:00", now, now, "MAT101", "Calculus I", "A-101", "Ana Gomez")
}

func TestScheduleRepositoryCreateGuarded(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users WHERE id = $1 FOR UPDATE")).
		WithArgs("mgr-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("mgr-1"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM schedules WHERE manager_id = $1 AND day = $2")).
		WithArgs("mgr-1", models.Monday).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectExec("INSERT INTO schedules").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	sched := &models.Schedule{CourseID: "crs-1", RoomID: "rm-1", ManagerID: "mgr-1", Day: models.Monday, StartTime: "08:00", EndTime: "10:00"}
	require.NoError(t, repo.CreateGuarded(context.Background(), sched, 4))
	require.NotEmpty(t, sched.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryCreateGuardedOverloaded(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users WHERE id = $1 FOR UPDATE")).
		WithArgs("mgr-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("mgr-1"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM schedules WHERE manager_id = $1 AND day = $2")).
		WithArgs("mgr-1", models.Monday).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectRollback()

	sched := &models.Schedule{CourseID: "crs-1", RoomID: "rm-1", ManagerID: "mgr-1", Day: models.Monday, StartTime: "08:00", EndTime: "10:00"}
	err := repo.CreateGuarded(context.Background(), sched, 4)
	require.ErrorIs(t, err, appErrors.ErrManagerOverloaded)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryUpdateGuardedExcludesSelf(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users WHERE id = $1 FOR UPDATE")).
		WithArgs("mgr-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("mgr-1"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM schedules WHERE manager_id = $1 AND day = $2 AND id <> $3")).
		WithArgs("mgr-1", models.Monday, "sch-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectExec("UPDATE schedules SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	sched := &models.Schedule{ID: "sch-1", CourseID: "crs-1", RoomID: "rm-1", ManagerID: "mgr-1", Day: models.Monday, StartTime: "08:00", EndTime: "10:00"}
	require.NoError(t, repo.UpdateGuarded(context.Background(), sched, 4))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListByStudent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery("SELECT .* FROM schedules s").
		WithArgs("stu-1", models.Monday).
		WillReturnRows(scheduleDetailRows())

	schedules, err := repo.ListByStudent(context.Background(), "stu-1", models.Monday)
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	require.Equal(t, "MAT101", schedules[0].CourseCode)
	require.NoError(t, mock.ExpectationsWereMet())
}
