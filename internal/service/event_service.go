package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/btc-academy/academy-api/internal/models"
	appErrors "github.com/btc-academy/academy-api/pkg/errors"
)

type eventRepository interface {
	ListVisible(ctx context.Context, cohortID string) ([]models.Event, error)
	RecordAttendance(ctx context.Context, record *models.Attendance) error
}

// EventView is an event with its category folded into the fixed enum.
type EventView struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description *string          `json:"description,omitempty"`
	Type        models.EventType `json:"type"`
	CohortID    *string          `json:"cohort_id,omitempty"`
	StartTime   *time.Time       `json:"start_time,omitempty"`
	EndTime     *time.Time       `json:"end_time,omitempty"`
	Location    *string          `json:"location,omitempty"`
}

// EventService lists events with cohort visibility rules and records
// attendance join rows.
type EventService struct {
	repo      eventRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEventService constructs an EventService.
func NewEventService(repo eventRepository, validate *validator.Validate, logger *zap.Logger) *EventService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{repo: repo, validator: validate, logger: logger}
}

// List returns events visible to the cohort: a nil cohort on a row
// means visible to everyone, and passing no cohort yields only those.
func (s *EventService) List(ctx context.Context, cohortID string) ([]EventView, error) {
	events, err := s.repo.ListVisible(ctx, cohortID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch events")
	}

	views := make([]EventView, 0, len(events))
	for _, event := range events {
		views = append(views, EventView{
			ID:          event.ID,
			Title:       event.Title,
			Description: event.Description,
			Type:        models.NormalizeEventType(event.Type),
			CohortID:    event.CohortID,
			StartTime:   event.StartTime,
			EndTime:     event.EndTime,
			Location:    event.Location,
		})
	}
	return views, nil
}

// RecordAttendanceRequest marks a student as having joined an event.
type RecordAttendanceRequest struct {
	StudentID       string     `json:"student_id" validate:"required"`
	EventID         string     `json:"event_id" validate:"required"`
	JoinTime        *time.Time `json:"join_time"`
	DurationMinutes *int       `json:"duration_minutes"`
}

// RecordAttendance persists an attendance join row.
func (s *EventService) RecordAttendance(ctx context.Context, req RecordAttendanceRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	record := &models.Attendance{
		StudentID:       req.StudentID,
		EventID:         req.EventID,
		JoinTime:        req.JoinTime,
		DurationMinutes: req.DurationMinutes,
	}
	if err := s.repo.RecordAttendance(ctx, record); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record attendance")
	}
	return nil
}
