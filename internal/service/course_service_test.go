package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushq/horario-api/internal/models"
	appErrors "github.com/campushq/horario-api/pkg/errors"
)

type mockCourseRepo struct {
	courses     map[string]models.Course
	managers    map[string][]string
	searchCalls int
}

func (m *mockCourseRepo) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, int, error) {
	return nil, 0, nil
}

func (m *mockCourseRepo) Search(ctx context.Context, q string) ([]models.Course, error) {
	m.searchCalls++
	var result []models.Course
	needle := strings.ToLower(q)
	for _, c := range m.courses {
		if strings.Contains(strings.ToLower(c.Name), needle) || strings.Contains(strings.ToLower(c.Code), needle) {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if c, ok := m.courses[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseRepo) ListManagerIDs(ctx context.Context, courseID string) ([]string, error) {
	return m.managers[courseID], nil
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course, managerIDs []string) error {
	if m.courses == nil {
		m.courses = make(map[string]models.Course)
	}
	if course.ID == "" {
		course.ID = "crs-new"
	}
	m.courses[course.ID] = *course
	if m.managers == nil {
		m.managers = make(map[string][]string)
	}
	m.managers[course.ID] = managerIDs
	return nil
}

func (m *mockCourseRepo) Update(ctx context.Context, course *models.Course, managerIDs []string) error {
	m.courses[course.ID] = *course
	m.managers[course.ID] = managerIDs
	return nil
}

func (m *mockCourseRepo) Delete(ctx context.Context, id string) error {
	delete(m.courses, id)
	return nil
}

type mockProgramReader struct{}

func (m *mockProgramReader) FindByID(ctx context.Context, id string) (*models.Program, error) {
	if id == "missing" {
		return nil, sql.ErrNoRows
	}
	return &models.Program{ID: id, Code: "ENG"}, nil
}

// memoryCache is an in-process CacheRepository used to exercise the search cache.
type memoryCache struct {
	entries map[string][]models.Course
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	cached, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	out, ok := dest.(*[]models.Course)
	if !ok {
		return appErrors.ErrCacheMiss
	}
	*out = cached
	return nil
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	courses, ok := value.([]models.Course)
	if !ok {
		return nil
	}
	if m.entries == nil {
		m.entries = make(map[string][]models.Course)
	}
	m.entries[key] = courses
	return nil
}

func (m *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.entries = make(map[string][]models.Course)
	return nil
}

func searchFixture() *mockCourseRepo {
	return &mockCourseRepo{courses: map[string]models.Course{
		"crs-1": {ID: "crs-1", Code: "MAT101", Name: "Calculus I", ProgramID: "prg-1", Credits: 4},
		"crs-2": {ID: "crs-2", Code: "PHY101", Name: "Physics", ProgramID: "prg-1", Credits: 3},
	}}
}

func newCourseService(repo *mockCourseRepo, cacheRepo CacheRepository) *CourseService {
	cacheSvc := NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), cacheRepo != nil)
	return NewCourseService(repo, managerReader(), &mockProgramReader{}, cacheSvc, time.Minute, validator.New(), zap.NewNop())
}

func TestCourseServiceSearchMatchesSubstring(t *testing.T) {
	svc := newCourseService(searchFixture(), nil)

	courses, hit, err := svc.Search(context.Background(), "CALC")
	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, courses, 1)
	assert.Equal(t, "MAT101", courses[0].Code)
}

func TestCourseServiceSearchUsesCache(t *testing.T) {
	repo := searchFixture()
	svc := newCourseService(repo, &memoryCache{})

	_, hit, err := svc.Search(context.Background(), "calc")
	require.NoError(t, err)
	assert.False(t, hit)

	courses, hit, err := svc.Search(context.Background(), "CALC")
	require.NoError(t, err)
	assert.True(t, hit)
	require.Len(t, courses, 1)
	assert.Equal(t, 1, repo.searchCalls)
}

func TestCourseServiceWriteInvalidatesSearchCache(t *testing.T) {
	repo := searchFixture()
	cache := &memoryCache{}
	svc := newCourseService(repo, cache)

	_, _, err := svc.Search(context.Background(), "calc")
	require.NoError(t, err)
	require.NotEmpty(t, cache.entries)

	_, err = svc.Create(context.Background(), CourseRequest{Code: "QUI101", Name: "Chemistry", ProgramID: "prg-1", Credits: 3, ManagerIDs: []string{"mgr-1"}})
	require.NoError(t, err)
	assert.Empty(t, cache.entries)
}

func TestCourseServiceCreateRejectsBadCredits(t *testing.T) {
	repo := searchFixture()
	svc := newCourseService(repo, nil)

	for _, credits := range []int{0, 7} {
		_, err := svc.Create(context.Background(), CourseRequest{Code: "QUI101", Name: "Chemistry", ProgramID: "prg-1", Credits: credits})
		appErr := appErrors.FromError(err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code, "credits %d", credits)
	}
}

func TestCourseServiceCreateRejectsNonManagerAssignment(t *testing.T) {
	repo := searchFixture()
	svc := newCourseService(repo, nil)

	_, err := svc.Create(context.Background(), CourseRequest{Code: "QUI101", Name: "Chemistry", ProgramID: "prg-1", Credits: 3, ManagerIDs: []string{"stu-1"}})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestCourseServiceCreateMissingProgram(t *testing.T) {
	repo := searchFixture()
	svc := newCourseService(repo, nil)

	_, err := svc.Create(context.Background(), CourseRequest{Code: "QUI101", Name: "Chemistry", ProgramID: "missing", Credits: 3})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}
