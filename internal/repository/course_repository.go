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

// CourseRepository handles persistence of courses and their manager assignments.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns courses filtered by the provided criteria.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, int, error) {
	base := `FROM courses c JOIN programs p ON p.id = c.program_id`
	var conditions []string
	var args []interface{}

	if filter.ProgramID != "" {
		conditions = append(conditions, fmt.Sprintf("c.program_id = $%d", len(args)+1))
		args = append(args, filter.ProgramID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(c.name) LIKE $%d OR LOWER(c.code) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"code":       "c.code",
		"name":       "c.name",
		"credits":    "c.credits",
		"created_at": "c.created_at",
	}
	orderBy := allowedSorts[filter.SortBy]
	if orderBy == "" {
		orderBy = "c.code"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
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

	query := fmt.Sprintf(`SELECT c.id, c.code, c.name, c.program_id, c.credits, c.created_at, c.updated_at,
        p.name AS program_name
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base+clause, orderBy, order, size, offset)

	var courses []models.CourseDetail
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}
	return courses, total, nil
}

// Search returns courses whose code or name contains the query, case-insensitive.
// An empty query matches everything.
func (r *CourseRepository) Search(ctx context.Context, q string) ([]models.Course, error) {
	const query = `SELECT id, code, name, program_id, credits, created_at, updated_at FROM courses
        WHERE LOWER(name) LIKE $1 OR LOWER(code) LIKE $1 ORDER BY code ASC`
	pattern := "%" + strings.ToLower(q) + "%"
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, pattern); err != nil {
		return nil, fmt.Errorf("search courses: %w", err)
	}
	return courses, nil
}

// FindByID returns a course by its ID.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	const query = `SELECT id, code, name, program_id, credits, created_at, updated_at FROM courses WHERE id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find course by id: %w", err)
	}
	return &course, nil
}

// ListManagerIDs returns the manager assignments for a course.
func (r *CourseRepository) ListManagerIDs(ctx context.Context, courseID string) ([]string, error) {
	const query = `SELECT manager_id FROM course_managers WHERE course_id = $1 ORDER BY manager_id`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, courseID); err != nil {
		return nil, fmt.Errorf("list course managers: %w", err)
	}
	return ids, nil
}

// Create persists a course together with its manager assignments in one transaction.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course, managerIDs []string) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create course: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.NamedExecContext(ctx, `INSERT INTO courses (id, code, name, program_id, credits, created_at, updated_at)
        VALUES (:id, :code, :name, :program_id, :credits, :created_at, :updated_at)`, course); err != nil {
		if isUniqueViolation(err) {
			err = appErrors.Clone(appErrors.ErrConflict, "course code already in use")
			return err
		}
		err = fmt.Errorf("create course: %w", err)
		return err
	}

	if err = replaceManagers(ctx, tx, course.ID, managerIDs); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create course: %w", err)
	}
	return nil
}

// Update modifies a course and replaces its manager assignments atomically.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course, managerIDs []string) error {
	course.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update course: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.NamedExecContext(ctx, `UPDATE courses SET code = :code, name = :name, program_id = :program_id, credits = :credits, updated_at = :updated_at WHERE id = :id`, course); err != nil {
		if isUniqueViolation(err) {
			err = appErrors.Clone(appErrors.ErrConflict, "course code already in use")
			return err
		}
		err = fmt.Errorf("update course: %w", err)
		return err
	}

	if err = replaceManagers(ctx, tx, course.ID, managerIDs); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update course: %w", err)
	}
	return nil
}

func replaceManagers(ctx context.Context, tx *sqlx.Tx, courseID string, managerIDs []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM course_managers WHERE course_id = $1`, courseID); err != nil {
		return fmt.Errorf("clear course managers: %w", err)
	}
	for _, managerID := range managerIDs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO course_managers (course_id, manager_id) VALUES ($1, $2)`, courseID, managerID); err != nil {
			return fmt.Errorf("assign course manager: %w", err)
		}
	}
	return nil
}

// Delete removes a course. Schedules and enrollments cascade with it.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return nil
}
