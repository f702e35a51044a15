package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/horario-api/internal/middleware"
	"github.com/campushq/horario-api/internal/models"
	"github.com/campushq/horario-api/internal/service"
)

type enrollmentRepoStub struct {
	lastFilter models.EnrollmentFilter
	enrollment *models.Enrollment
	created    *models.Enrollment
}

func (s *enrollmentRepoStub) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error) {
	s.lastFilter = filter
	return nil, 0, nil
}

func (s *enrollmentRepoStub) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	if s.enrollment != nil && s.enrollment.ID == id {
		return s.enrollment, nil
	}
	return nil, sql.ErrNoRows
}

func (s *enrollmentRepoStub) FindDetailByID(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	if s.enrollment != nil && s.enrollment.ID == id {
		return &models.EnrollmentDetail{Enrollment: *s.enrollment}, nil
	}
	return nil, sql.ErrNoRows
}

func (s *enrollmentRepoStub) CreateGuarded(ctx context.Context, enrollment *models.Enrollment, maxEnrollments int) error {
	enrollment.ID = "enr-new"
	s.created = enrollment
	return nil
}

func (s *enrollmentRepoStub) Delete(ctx context.Context, id string) error {
	return nil
}

type courseReaderStub struct{}

func (courseReaderStub) FindByID(ctx context.Context, id string) (*models.Course, error) {
	return &models.Course{ID: id, Code: "MAT101"}, nil
}

type userReaderStub struct{}

func (userReaderStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	return &models.User{ID: id, Role: models.RoleStudent, Active: true}, nil
}

func newEnrollmentHandlerFixture() (*EnrollmentHandler, *enrollmentRepoStub) {
	repo := &enrollmentRepoStub{}
	svc := service.NewEnrollmentService(repo, courseReaderStub{}, userReaderStub{}, nil, nil)
	return NewEnrollmentHandler(svc), repo
}

func TestEnrollmentHandlerListScopesStudentToSelf(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo := newEnrollmentHandlerFixture()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/enrollments?student_id=stu-9", nil)
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "stu-1", Role: models.RoleStudent})

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "stu-1", repo.lastFilter.StudentID)
}

func TestEnrollmentHandlerListCoordinatorKeepsFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo := newEnrollmentHandlerFixture()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/enrollments?student_id=stu-9", nil)
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "usr-1", Role: models.RoleCoordinator})

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "stu-9", repo.lastFilter.StudentID)
}

func TestEnrollmentHandlerCreateOverridesStudentID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo := newEnrollmentHandlerFixture()

	payload, _ := json.Marshal(service.EnrollmentRequest{StudentID: "stu-9", CourseID: "crs-1", Semester: "2026-1"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/enrollments", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "stu-1", Role: models.RoleStudent})

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, repo.created)
	assert.Equal(t, "stu-1", repo.created.StudentID)
}

func TestEnrollmentHandlerGetBlocksForeignEnrollment(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo := newEnrollmentHandlerFixture()
	repo.enrollment = &models.Enrollment{ID: "enr-1", StudentID: "stu-9", CourseID: "crs-1", Semester: "2026-1"}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/enrollments/enr-1", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "enr-1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "stu-1", Role: models.RoleStudent})

	handler.Get(c)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestEnrollmentHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newEnrollmentHandlerFixture()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/enrollments", bytes.NewBufferString(`{"course_id":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "stu-1", Role: models.RoleStudent})

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
