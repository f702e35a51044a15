package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushq/horario-api/internal/models"
	appErrors "github.com/campushq/horario-api/pkg/errors"
)

type mockEnrollmentRepo struct {
	enrollments map[string]models.Enrollment
	created     *models.Enrollment
	createErr   error
	deleted     []string
}

func (m *mockEnrollmentRepo) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error) {
	return nil, 0, nil
}

func (m *mockEnrollmentRepo) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	if e, ok := m.enrollments[id]; ok {
		return &e, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEnrollmentRepo) FindDetailByID(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	if e, ok := m.enrollments[id]; ok {
		return &models.EnrollmentDetail{Enrollment: e}, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEnrollmentRepo) CreateGuarded(ctx context.Context, enrollment *models.Enrollment, maxEnrollments int) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.enrollments == nil {
		m.enrollments = make(map[string]models.Enrollment)
	}
	if enrollment.ID == "" {
		enrollment.ID = "enr-new"
	}
	m.enrollments[enrollment.ID] = *enrollment
	m.created = enrollment
	return nil
}

func (m *mockEnrollmentRepo) Delete(ctx context.Context, id string) error {
	delete(m.enrollments, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func studentReader() *mockUserReader {
	return &mockUserReader{users: map[string]*models.User{
		"stu-1": {ID: "stu-1", Role: models.RoleStudent, Active: true},
		"mgr-1": {ID: "mgr-1", Role: models.RoleManager, Active: true},
	}}
}

func TestEnrollmentServiceCreate(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := NewEnrollmentService(repo, &mockCourseReader{}, studentReader(), validator.New(), zap.NewNop())

	enrollment, err := svc.Create(context.Background(), EnrollmentRequest{StudentID: "stu-1", CourseID: "crs-1", Semester: "2026-1"})
	require.NoError(t, err)
	assert.NotEmpty(t, enrollment.ID)
	assert.NotNil(t, repo.created)
}

func TestEnrollmentServiceCreateRejectsNonStudent(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := NewEnrollmentService(repo, &mockCourseReader{}, studentReader(), validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), EnrollmentRequest{StudentID: "mgr-1", CourseID: "crs-1", Semester: "2026-1"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Nil(t, repo.created)
}

func TestEnrollmentServiceCreateMissingCourse(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := NewEnrollmentService(repo, &mockCourseReader{}, studentReader(), validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), EnrollmentRequest{StudentID: "stu-1", CourseID: "missing", Semester: "2026-1"})
	require.Error(t, err)
	assert.Nil(t, repo.created)
}

func TestEnrollmentServiceCreateSurfacesDuplicate(t *testing.T) {
	repo := &mockEnrollmentRepo{createErr: appErrors.ErrDuplicateEnrollment}
	svc := NewEnrollmentService(repo, &mockCourseReader{}, studentReader(), validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), EnrollmentRequest{StudentID: "stu-1", CourseID: "crs-1", Semester: "2026-1"})
	assert.ErrorIs(t, err, appErrors.ErrDuplicateEnrollment)
}

func TestEnrollmentServiceCreateSurfacesCap(t *testing.T) {
	repo := &mockEnrollmentRepo{createErr: appErrors.ErrEnrollmentLimit}
	svc := NewEnrollmentService(repo, &mockCourseReader{}, studentReader(), validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), EnrollmentRequest{StudentID: "stu-1", CourseID: "crs-9", Semester: "2026-1"})
	assert.ErrorIs(t, err, appErrors.ErrEnrollmentLimit)
}

func TestEnrollmentServiceDeleteOwnEnrollment(t *testing.T) {
	repo := &mockEnrollmentRepo{enrollments: map[string]models.Enrollment{"enr-1": {ID: "enr-1", StudentID: "stu-1", CourseID: "crs-1"}}}
	svc := NewEnrollmentService(repo, &mockCourseReader{}, studentReader(), validator.New(), zap.NewNop())

	claims := &models.JWTClaims{UserID: "stu-1", Role: models.RoleStudent}
	require.NoError(t, svc.Delete(context.Background(), "enr-1", claims))
	assert.Contains(t, repo.deleted, "enr-1")
}

func TestEnrollmentServiceDeleteForeignEnrollmentForbidden(t *testing.T) {
	repo := &mockEnrollmentRepo{enrollments: map[string]models.Enrollment{"enr-1": {ID: "enr-1", StudentID: "stu-1", CourseID: "crs-1"}}}
	svc := NewEnrollmentService(repo, &mockCourseReader{}, studentReader(), validator.New(), zap.NewNop())

	claims := &models.JWTClaims{UserID: "stu-2", Role: models.RoleStudent}
	err := svc.Delete(context.Background(), "enr-1", claims)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
	assert.Empty(t, repo.deleted)
}
