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

type scheduleRepository interface {
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Schedule, error)
	FindDetailByID(ctx context.Context, id string) (*models.ScheduleDetail, error)
	CreateGuarded(ctx context.Context, schedule *models.Schedule, maxPerDay int) error
	UpdateGuarded(ctx context.Context, schedule *models.Schedule, maxPerDay int) error
	Delete(ctx context.Context, id string) error
}

type scheduleCourseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type scheduleRoomReader interface {
	FindByID(ctx context.Context, id string) (*models.Room, error)
}

type scheduleUserReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// ScheduleRequest describes schedule create/update payload. Times use
// the "HH:MM" wire format.
type ScheduleRequest struct {
	CourseID  string         `json:"course_id" validate:"required"`
	RoomID    string         `json:"room_id" validate:"required"`
	ManagerID string         `json:"manager_id" validate:"required"`
	Day       models.Weekday `json:"day" validate:"required,oneof=MON TUE WED THU FRI"`
	StartTime string         `json:"start_time" validate:"required"`
	EndTime   string         `json:"end_time" validate:"required"`
}

// ScheduleService orchestrates weekly schedule administration. Writes
// go through guarded transactions so the per-day teaching cap cannot be
// exceeded by concurrent requests.
type ScheduleService struct {
	repo      scheduleRepository
	courses   scheduleCourseReader
	rooms     scheduleRoomReader
	users     scheduleUserReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService constructs ScheduleService.
func NewScheduleService(repo scheduleRepository, courses scheduleCourseReader, rooms scheduleRoomReader, users scheduleUserReader, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		repo:      repo,
		courses:   courses,
		rooms:     rooms,
		users:     users,
		validator: validate,
		logger:    logger,
	}
}

// List returns schedules with course, room and manager info.
func (s *ScheduleService) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleDetail, *models.Pagination, error) {
	schedules, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}
	return schedules, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns one schedule with its joined details.
func (s *ScheduleService) Get(ctx context.Context, id string) (*models.ScheduleDetail, error) {
	schedule, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	return schedule, nil
}

// Create registers a weekly slot. The time window, duration and per-day
// teaching cap are all enforced; the cap check and the insert happen in
// one transaction.
func (s *ScheduleService) Create(ctx context.Context, req ScheduleRequest) (*models.Schedule, error) {
	if err := s.validateRequest(ctx, req); err != nil {
		return nil, err
	}
	schedule := &models.Schedule{
		CourseID:  req.CourseID,
		RoomID:    req.RoomID,
		ManagerID: req.ManagerID,
		Day:       req.Day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := s.repo.CreateGuarded(ctx, schedule, maxClassesPerDay); err != nil {
		return nil, err
	}
	s.logger.Info("schedule created",
		zap.String("schedule_id", schedule.ID),
		zap.String("manager_id", schedule.ManagerID),
		zap.String("day", string(schedule.Day)))
	return schedule, nil
}

// Update modifies a slot. The day cap is re-checked against the target
// manager and day, excluding the row being updated.
func (s *ScheduleService) Update(ctx context.Context, id string, req ScheduleRequest) (*models.Schedule, error) {
	if err := s.validateRequest(ctx, req); err != nil {
		return nil, err
	}
	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}

	schedule.CourseID = req.CourseID
	schedule.RoomID = req.RoomID
	schedule.ManagerID = req.ManagerID
	schedule.Day = req.Day
	schedule.StartTime = req.StartTime
	schedule.EndTime = req.EndTime
	if err := s.repo.UpdateGuarded(ctx, schedule, maxClassesPerDay); err != nil {
		return nil, err
	}
	return schedule, nil
}

// Delete removes a slot.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule")
	}
	return nil
}

func (s *ScheduleService) validateRequest(ctx context.Context, req ScheduleRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	if err := ValidateTimeSlot(req.StartTime, req.EndTime); err != nil {
		return err
	}
	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if _, err := s.rooms.FindByID(ctx, req.RoomID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "room not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}
	manager, err := s.users.FindByID(ctx, req.ManagerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "manager not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load manager")
	}
	if manager.Role != models.RoleManager {
		return appErrors.Clone(appErrors.ErrValidation, "assigned user is not a manager")
	}
	return nil
}
