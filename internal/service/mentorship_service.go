package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/btc-academy/academy-api/internal/models"
	appErrors "github.com/btc-academy/academy-api/pkg/errors"
)

// defaultMentorDescription fills in when an application carries neither
// experience nor motivation text.
const defaultMentorDescription = "Contributing to Bitcoin education in Africa."

// mentorDescriptionLimit bounds the stored description length.
const mentorDescriptionLimit = 200

type mentorshipRepository interface {
	ListApplications(ctx context.Context, status string) ([]models.MentorshipApplication, error)
	FindApplication(ctx context.Context, id string) (*models.MentorshipApplication, error)
	UpdateApplicationStatus(ctx context.Context, id string, status models.MentorshipStatus) error
	FindMentorByApplication(ctx context.Context, applicationID string) (*models.Mentor, error)
	InsertMentor(ctx context.Context, mentor *models.Mentor) error
	UpdateMentor(ctx context.Context, mentor *models.Mentor) error
	DeactivateMentor(ctx context.Context, applicationID string) error
	ListActiveMentors(ctx context.Context) ([]models.Mentor, error)
}

// MentorshipService drives the application lifecycle and its side
// effect on the derived mentor record. The status write is the primary
// operation; mentor sync failures are logged and swallowed so the
// status change always commits when its own write succeeds.
type MentorshipService struct {
	repo      mentorshipRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMentorshipService constructs a MentorshipService.
func NewMentorshipService(repo mentorshipRepository, validate *validator.Validate, logger *zap.Logger) *MentorshipService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MentorshipService{repo: repo, validator: validate, logger: logger}
}

// List returns applications, optionally filtered by status.
func (s *MentorshipService) List(ctx context.Context, status string) ([]models.MentorshipApplication, error) {
	applications, err := s.repo.ListApplications(ctx, status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mentorship applications")
	}
	return applications, nil
}

// ActiveMentors returns the public roster of active mentors.
func (s *MentorshipService) ActiveMentors(ctx context.Context) ([]models.Mentor, error) {
	mentors, err := s.repo.ListActiveMentors(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch mentors")
	}
	return mentors, nil
}

// UpdateStatusRequest carries the lifecycle command.
type UpdateStatusRequest struct {
	ID     string `json:"id" validate:"required"`
	Status string `json:"status" validate:"required"`
}

// UpdateStatus moves an application into a new status and syncs the
// derived mentor record: entering Approved upserts an active mentor,
// leaving Approved deactivates it, and transitions between two
// non-Approved states touch nothing.
func (s *MentorshipService) UpdateStatus(ctx context.Context, req UpdateStatusRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "id and status required")
	}

	application, err := s.repo.FindApplication(ctx, req.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "mentorship application not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch application")
	}

	newStatus := models.MentorshipStatus(req.Status)
	if err := s.repo.UpdateApplicationStatus(ctx, req.ID, newStatus); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update status")
	}

	switch {
	case newStatus == models.MentorshipStatusApproved:
		s.syncMentor(ctx, application)
	case application.Status == models.MentorshipStatusApproved:
		if err := s.repo.DeactivateMentor(ctx, application.ID); err != nil {
			s.logger.Error("failed to deactivate mentor", zap.String("application_id", application.ID), zap.Error(err))
		}
	}
	return nil
}

// syncMentor upserts the mentor derived from an approved application.
// Re-approval reactivates and refreshes the existing row rather than
// creating a second one.
func (s *MentorshipService) syncMentor(ctx context.Context, application *models.MentorshipApplication) {
	role := "Contributor"
	if application.Role != nil && *application.Role != "" {
		role = *application.Role
	}

	description := defaultMentorDescription
	if application.Experience != nil && *application.Experience != "" {
		description = *application.Experience
	} else if application.Motivation != nil && *application.Motivation != "" {
		description = *application.Motivation
	}
	description = truncate(description, mentorDescriptionLimit)

	mentorType := models.ClassifyMentorType(role)

	existing, err := s.repo.FindMentorByApplication(ctx, application.ID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		s.logger.Error("failed to look up mentor", zap.String("application_id", application.ID), zap.Error(err))
		return
	}

	if existing != nil {
		existing.Name = application.Name
		existing.Role = role
		existing.Description = description
		existing.Type = mentorType
		existing.IsActive = true
		if err := s.repo.UpdateMentor(ctx, existing); err != nil {
			s.logger.Error("failed to update mentor", zap.String("application_id", application.ID), zap.Error(err))
		}
		return
	}

	mentor := &models.Mentor{
		MentorshipApplicationID: application.ID,
		Name:                    application.Name,
		Role:                    role,
		Description:             description,
		Type:                    mentorType,
		IsActive:                true,
	}
	if err := s.repo.InsertMentor(ctx, mentor); err != nil {
		s.logger.Error("failed to create mentor", zap.String("application_id", application.ID), zap.Error(err))
	}
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
