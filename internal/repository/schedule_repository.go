package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campushq/horario-api/internal/models"
	appErrors "github.com/campushq/horario-api/pkg/errors"
)

// weekdayOrderSQL keeps schedule listings Monday-first regardless of the
// lexical order of the day codes.
const weekdayOrderSQL = `CASE s.day WHEN 'MON' THEN 1 WHEN 'TUE' THEN 2 WHEN 'WED' THEN 3 WHEN 'THU' THEN 4 WHEN 'FRI' THEN 5 ELSE 6 END`

const scheduleDetailColumns = `s.id, s.course_id, s.room_id, s.manager_id, s.day, s.start_time, s.end_time, s.created_at, s.updated_at,
        c.code AS course_code, c.name AS course_name, r.code AS room_code, u.full_name AS manager_name`

const scheduleDetailJoins = `FROM schedules s
JOIN courses c ON c.id = s.course_id
JOIN rooms r ON r.id = s.room_id
JOIN users u ON u.id = s.manager_id`

// ScheduleRepository provides persistence for weekly time slots.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// List returns schedules with optional filtering and pagination, ordered by (day, start).
func (r *ScheduleRepository) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleDetail, int, error) {
	base := scheduleDetailJoins
	var conditions []string
	var args []interface{}

	if filter.ProgramID != "" {
		conditions = append(conditions, fmt.Sprintf("c.program_id = $%d", len(args)+1))
		args = append(args, filter.ProgramID)
	}
	if filter.CourseID != "" {
		conditions = append(conditions, fmt.Sprintf("s.course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	if filter.RoomID != "" {
		conditions = append(conditions, fmt.Sprintf("s.room_id = $%d", len(args)+1))
		args = append(args, filter.RoomID)
	}
	if filter.ManagerID != "" {
		conditions = append(conditions, fmt.Sprintf("s.manager_id = $%d", len(args)+1))
		args = append(args, filter.ManagerID)
	}
	if filter.Day != "" {
		conditions = append(conditions, fmt.Sprintf("s.day = $%d", len(args)+1))
		args = append(args, filter.Day)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s %s ORDER BY %s, s.start_time ASC LIMIT %d OFFSET %d`,
		scheduleDetailColumns, base+clause, weekdayOrderSQL, size, offset)

	var schedules []models.ScheduleDetail
	if err := r.db.SelectContext(ctx, &schedules, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list schedules: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count schedules: %w", err)
	}
	return schedules, total, nil
}

// FindByID loads a schedule by id.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	const query = `SELECT id, course_id, room_id, manager_id, day, start_time, end_time, created_at, updated_at FROM schedules WHERE id = $1`
	var sched models.Schedule
	if err := r.db.GetContext(ctx, &sched, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find schedule by id: %w", err)
	}
	return &sched, nil
}

// FindDetailByID loads a schedule with course, room and manager info.
func (r *ScheduleRepository) FindDetailByID(ctx context.Context, id string) (*models.ScheduleDetail, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE s.id = $1`, scheduleDetailColumns, scheduleDetailJoins)
	var detail models.ScheduleDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find schedule detail: %w", err)
	}
	return &detail, nil
}

// CountByManagerAndDay counts a manager's schedules on a day, optionally excluding one record.
func (r *ScheduleRepository) CountByManagerAndDay(ctx context.Context, managerID string, day models.Weekday, excludeID string) (int, error) {
	query := `SELECT COUNT(*) FROM schedules WHERE manager_id = $1 AND day = $2`
	args := []interface{}{managerID, day}
	if excludeID != "" {
		query += fmt.Sprintf(" AND id <> $%d", len(args)+1)
		args = append(args, excludeID)
	}
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count manager schedules: %w", err)
	}
	return count, nil
}

// CreateGuarded inserts a schedule after re-checking the manager's daily load
// inside one transaction. The manager row is locked first so concurrent
// creates for the same manager serialize and cannot both pass the check.
func (r *ScheduleRepository) CreateGuarded(ctx context.Context, schedule *models.Schedule, maxPerDay int) error {
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	schedule.CreatedAt = now
	schedule.UpdatedAt = now

	return r.guardedWrite(ctx, schedule, maxPerDay, "", `INSERT INTO schedules (id, course_id, room_id, manager_id, day, start_time, end_time, created_at, updated_at)
        VALUES (:id, :course_id, :room_id, :manager_id, :day, :start_time, :end_time, :created_at, :updated_at)`)
}

// UpdateGuarded rewrites a schedule under the same daily-load guard, excluding
// the record itself from the count.
func (r *ScheduleRepository) UpdateGuarded(ctx context.Context, schedule *models.Schedule, maxPerDay int) error {
	schedule.UpdatedAt = time.Now().UTC()

	return r.guardedWrite(ctx, schedule, maxPerDay, schedule.ID, `UPDATE schedules SET course_id = :course_id, room_id = :room_id, manager_id = :manager_id, day = :day, start_time = :start_time, end_time = :end_time, updated_at = :updated_at WHERE id = :id`)
}

func (r *ScheduleRepository) guardedWrite(ctx context.Context, schedule *models.Schedule, maxPerDay int, excludeID, writeQuery string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schedule write: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var lockedID string
	if err = tx.GetContext(ctx, &lockedID, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, schedule.ManagerID); err != nil {
		if err == sql.ErrNoRows {
			err = appErrors.Clone(appErrors.ErrNotFound, "manager not found")
			return err
		}
		err = fmt.Errorf("lock manager row: %w", err)
		return err
	}

	countQuery := `SELECT COUNT(*) FROM schedules WHERE manager_id = $1 AND day = $2`
	countArgs := []interface{}{schedule.ManagerID, schedule.Day}
	if excludeID != "" {
		countQuery += " AND id <> $3"
		countArgs = append(countArgs, excludeID)
	}
	var count int
	if err = tx.GetContext(ctx, &count, countQuery, countArgs...); err != nil {
		err = fmt.Errorf("count manager schedules: %w", err)
		return err
	}
	if count >= maxPerDay {
		err = appErrors.ErrManagerOverloaded
		return err
	}

	if _, err = tx.NamedExecContext(ctx, writeQuery, schedule); err != nil {
		if isUniqueViolation(err) {
			err = appErrors.Clone(appErrors.ErrConflict, "schedule slot already taken")
			return err
		}
		err = fmt.Errorf("write schedule: %w", err)
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit schedule write: %w", err)
	}
	return nil
}

// ListByStudent returns schedules for every course the student is enrolled in,
// optionally restricted to one weekday, ordered by (day, start).
func (r *ScheduleRepository) ListByStudent(ctx context.Context, studentID string, day models.Weekday) ([]models.ScheduleDetail, error) {
	base := scheduleDetailJoins + `
JOIN enrollments e ON e.course_id = s.course_id`
	conditions := []string{"e.student_id = $1"}
	args := []interface{}{studentID}
	if day != "" {
		conditions = append(conditions, fmt.Sprintf("s.day = $%d", len(args)+1))
		args = append(args, day)
	}

	query := fmt.Sprintf(`SELECT %s %s WHERE %s ORDER BY %s, s.start_time ASC`,
		scheduleDetailColumns, base, strings.Join(conditions, " AND "), weekdayOrderSQL)

	var schedules []models.ScheduleDetail
	if err := r.db.SelectContext(ctx, &schedules, query, args...); err != nil {
		return nil, fmt.Errorf("list student schedules: %w", err)
	}
	return schedules, nil
}

// Delete removes a schedule by id.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return nil
}
