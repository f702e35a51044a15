package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campushq/horario-api/internal/models"
	appErrors "github.com/campushq/horario-api/pkg/errors"
)

type programRepository interface {
	List(ctx context.Context, filter models.ProgramFilter) ([]models.ProgramDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Program, error)
	Create(ctx context.Context, program *models.Program) error
	Update(ctx context.Context, program *models.Program) error
	Delete(ctx context.Context, id string) error
}

type programUserReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// ProgramRequest describes program create/update payload.
type ProgramRequest struct {
	Name          string  `json:"name" validate:"required"`
	Code          string  `json:"code" validate:"required"`
	CoordinatorID *string `json:"coordinator_id"`
}

// ProgramService orchestrates academic program administration.
type ProgramService struct {
	repo      programRepository
	users     programUserReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProgramService constructs ProgramService.
func NewProgramService(repo programRepository, users programUserReader, validate *validator.Validate, logger *zap.Logger) *ProgramService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgramService{repo: repo, users: users, validator: validate, logger: logger}
}

// List returns programs with coordinator names.
func (s *ProgramService) List(ctx context.Context, filter models.ProgramFilter) ([]models.ProgramDetail, *models.Pagination, error) {
	programs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list programs")
	}
	return programs, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns one program.
func (s *ProgramService) Get(ctx context.Context, id string) (*models.Program, error) {
	program, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load program")
	}
	return program, nil
}

// Create registers a program. The coordinator, when given, must exist and
// hold the COORDINATOR role.
func (s *ProgramService) Create(ctx context.Context, req ProgramRequest) (*models.Program, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid program payload")
	}
	if err := s.checkCoordinator(ctx, req.CoordinatorID); err != nil {
		return nil, err
	}

	program := &models.Program{
		Name:          req.Name,
		Code:          req.Code,
		CoordinatorID: req.CoordinatorID,
	}
	if err := s.repo.Create(ctx, program); err != nil {
		return nil, err
	}
	s.logger.Info("program created", zap.String("program_id", program.ID), zap.String("code", program.Code))
	return program, nil
}

// Update modifies a program.
func (s *ProgramService) Update(ctx context.Context, id string, req ProgramRequest) (*models.Program, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid program payload")
	}
	if err := s.checkCoordinator(ctx, req.CoordinatorID); err != nil {
		return nil, err
	}

	program, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	program.Name = req.Name
	program.Code = req.Code
	program.CoordinatorID = req.CoordinatorID
	if err := s.repo.Update(ctx, program); err != nil {
		return nil, err
	}
	return program, nil
}

// Delete removes a program.
func (s *ProgramService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete program")
	}
	return nil
}

func (s *ProgramService) checkCoordinator(ctx context.Context, coordinatorID *string) error {
	if coordinatorID == nil {
		return nil
	}
	user, err := s.users.FindByID(ctx, *coordinatorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "coordinator not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load coordinator")
	}
	if user.Role != models.RoleCoordinator {
		return appErrors.Clone(appErrors.ErrValidation, "assigned user is not a coordinator")
	}
	return nil
}
