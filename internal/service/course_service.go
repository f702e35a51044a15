package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campushq/horario-api/internal/models"
	appErrors "github.com/campushq/horario-api/pkg/errors"
)

const courseSearchKeyPrefix = "courses:search:"

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, int, error)
	Search(ctx context.Context, q string) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	ListManagerIDs(ctx context.Context, courseID string) ([]string, error)
	Create(ctx context.Context, course *models.Course, managerIDs []string) error
	Update(ctx context.Context, course *models.Course, managerIDs []string) error
	Delete(ctx context.Context, id string) error
}

type courseUserReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type courseProgramReader interface {
	FindByID(ctx context.Context, id string) (*models.Program, error)
}

// CourseRequest describes course create/update payload.
type CourseRequest struct {
	Code       string   `json:"code" validate:"required"`
	Name       string   `json:"name" validate:"required"`
	ProgramID  string   `json:"program_id" validate:"required"`
	Credits    int      `json:"credits" validate:"required,gte=1,lte=6"`
	ManagerIDs []string `json:"manager_ids"`
}

// CourseService orchestrates course administration and search.
type CourseService struct {
	repo      courseRepository
	users     courseUserReader
	programs  courseProgramReader
	cache     *CacheService
	searchTTL time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs CourseService.
func NewCourseService(repo courseRepository, users courseUserReader, programs courseProgramReader, cache *CacheService, searchTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{
		repo:      repo,
		users:     users,
		programs:  programs,
		cache:     cache,
		searchTTL: searchTTL,
		validator: validate,
		logger:    logger,
	}
}

// List returns courses with program names and assigned managers.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, *models.Pagination, error) {
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	for i := range courses {
		managerIDs, err := s.repo.ListManagerIDs(ctx, courses[i].ID)
		if err != nil {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course managers")
		}
		courses[i].ManagerIDs = managerIDs
	}
	return courses, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns one course with its manager assignments.
func (s *CourseService) Get(ctx context.Context, id string) (*models.CourseDetail, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	managerIDs, err := s.repo.ListManagerIDs(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course managers")
	}
	return &models.CourseDetail{Course: *course, ManagerIDs: managerIDs}, nil
}

// Search finds courses whose code or name contains the query, case
// insensitively. An empty query matches everything. Results are cached
// per normalised query when caching is on.
func (s *CourseService) Search(ctx context.Context, q string) ([]models.Course, bool, error) {
	q = strings.TrimSpace(q)

	key := courseSearchKeyPrefix + strings.ToLower(q)
	var cached []models.Course
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, true, nil
	}

	courses, err := s.repo.Search(ctx, q)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search courses")
	}
	if err := s.cache.Set(ctx, key, courses, s.searchTTL); err != nil {
		s.logger.Warn("course search cache write failed", zap.Error(err))
	}
	return courses, false, nil
}

// Create registers a course. Every assigned manager must exist and hold
// the MANAGER role.
func (s *CourseService) Create(ctx context.Context, req CourseRequest) (*models.CourseDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if err := s.checkProgram(ctx, req.ProgramID); err != nil {
		return nil, err
	}
	if err := s.checkManagers(ctx, req.ManagerIDs); err != nil {
		return nil, err
	}

	course := &models.Course{
		Code:      req.Code,
		Name:      req.Name,
		ProgramID: req.ProgramID,
		Credits:   req.Credits,
	}
	if err := s.repo.Create(ctx, course, req.ManagerIDs); err != nil {
		return nil, err
	}
	s.invalidateSearch(ctx)
	s.logger.Info("course created", zap.String("course_id", course.ID), zap.String("code", course.Code))
	return &models.CourseDetail{Course: *course, ManagerIDs: req.ManagerIDs}, nil
}

// Update modifies a course and replaces its manager assignments.
func (s *CourseService) Update(ctx context.Context, id string, req CourseRequest) (*models.CourseDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if err := s.checkProgram(ctx, req.ProgramID); err != nil {
		return nil, err
	}
	if err := s.checkManagers(ctx, req.ManagerIDs); err != nil {
		return nil, err
	}

	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	course.Code = req.Code
	course.Name = req.Name
	course.ProgramID = req.ProgramID
	course.Credits = req.Credits
	if err := s.repo.Update(ctx, course, req.ManagerIDs); err != nil {
		return nil, err
	}
	s.invalidateSearch(ctx)
	return &models.CourseDetail{Course: *course, ManagerIDs: req.ManagerIDs}, nil
}

// Delete removes a course.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	s.invalidateSearch(ctx)
	return nil
}

func (s *CourseService) checkProgram(ctx context.Context, programID string) error {
	if _, err := s.programs.FindByID(ctx, programID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "program not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load program")
	}
	return nil
}

func (s *CourseService) checkManagers(ctx context.Context, managerIDs []string) error {
	for _, id := range managerIDs {
		user, err := s.users.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("manager %s not found", id))
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load manager")
		}
		if user.Role != models.RoleManager {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("user %s is not a manager", id))
		}
	}
	return nil
}

func (s *CourseService) invalidateSearch(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, courseSearchKeyPrefix+"*"); err != nil {
		s.logger.Warn("course search cache invalidation failed", zap.Error(err))
	}
}
