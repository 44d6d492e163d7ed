package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/btc-academy/academy-api/internal/models"
	appErrors "github.com/btc-academy/academy-api/pkg/errors"
)

type identityAdminRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
}

type identityProfileRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Profile, error)
}

type identityStudentRepository interface {
	FindByProfileID(ctx context.Context, profileID string) (*models.Student, error)
}

// IdentityService maps an email to a canonical profile/student record
// and an admin flag. It never mutates any store.
type IdentityService struct {
	admins   identityAdminRepository
	profiles identityProfileRepository
	students identityStudentRepository
	logger   *zap.Logger
}

// NewIdentityService constructs an IdentityService.
func NewIdentityService(admins identityAdminRepository, profiles identityProfileRepository, students identityStudentRepository, logger *zap.Logger) *IdentityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdentityService{admins: admins, profiles: profiles, students: students, logger: logger}
}

// Resolve looks up an email after normalization. Admin allow-list
// membership short-circuits with full access regardless of enrollment;
// otherwise registration and enrollment are derived from the profile
// and student stores. Absence is reported through the flags, never as
// an error.
func (s *IdentityService) Resolve(ctx context.Context, email string) (*models.Identity, error) {
	normalized := models.NormalizeEmail(email)
	if normalized == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "email is required")
	}

	admin, err := s.admins.FindByEmail(ctx, normalized)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check admin allow-list")
	}
	if admin != nil {
		identity := &models.Identity{IsAdmin: true, IsRegistered: true, IsEnrolled: true}
		// Admins may optionally also hold a profile; surface it when present
		// so progress overlays can use it.
		profile, err := s.profiles.FindByEmail(ctx, normalized)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch profile")
		}
		if profile != nil {
			identity.ProfileID = profile.ID
		}
		return identity, nil
	}

	profile, err := s.profiles.FindByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.Identity{}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch profile")
	}

	identity := &models.Identity{ProfileID: profile.ID, IsRegistered: true}

	student, err := s.students.FindByProfileID(ctx, profile.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return identity, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}

	identity.StudentID = student.ID
	identity.IsEnrolled = true
	return identity, nil
}
