package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/btc-academy/academy-api/internal/models"
)

// MentorshipRepository manages mentorship applications and the derived
// mentor records.
type MentorshipRepository struct {
	db *sqlx.DB
}

// NewMentorshipRepository constructs a MentorshipRepository.
func NewMentorshipRepository(db *sqlx.DB) *MentorshipRepository {
	return &MentorshipRepository{db: db}
}

// ListApplications returns applications newest first, optionally
// filtered by status.
func (r *MentorshipRepository) ListApplications(ctx context.Context, status string) ([]models.MentorshipApplication, error) {
	var (
		query string
		args  []interface{}
	)
	if status != "" && status != "all" {
		query = `SELECT id, name, email, role, experience, motivation, status, created_at, updated_at
            FROM mentorship_applications WHERE status = $1 ORDER BY created_at DESC`
		args = append(args, status)
	} else {
		query = `SELECT id, name, email, role, experience, motivation, status, created_at, updated_at
            FROM mentorship_applications ORDER BY created_at DESC`
	}

	var applications []models.MentorshipApplication
	if err := r.db.SelectContext(ctx, &applications, query, args...); err != nil {
		return nil, fmt.Errorf("list mentorship applications: %w", err)
	}
	return applications, nil
}

// FindApplication returns an application by id.
func (r *MentorshipRepository) FindApplication(ctx context.Context, id string) (*models.MentorshipApplication, error) {
	const query = `SELECT id, name, email, role, experience, motivation, status, created_at, updated_at
        FROM mentorship_applications WHERE id = $1 LIMIT 1`
	var application models.MentorshipApplication
	if err := r.db.GetContext(ctx, &application, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find mentorship application: %w", err)
	}
	return &application, nil
}

// UpdateApplicationStatus writes the new status. This is the primary
// write of the lifecycle transition.
func (r *MentorshipRepository) UpdateApplicationStatus(ctx context.Context, id string, status models.MentorshipStatus) error {
	const query = `UPDATE mentorship_applications SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update mentorship application status: %w", err)
	}
	return nil
}

// FindMentorByApplication returns the mentor derived from an
// application, if one exists.
func (r *MentorshipRepository) FindMentorByApplication(ctx context.Context, applicationID string) (*models.Mentor, error) {
	const query = `SELECT id, mentorship_application_id, name, role, description, type, is_active, created_at, updated_at
        FROM mentors WHERE mentorship_application_id = $1 LIMIT 1`
	var mentor models.Mentor
	if err := r.db.GetContext(ctx, &mentor, query, applicationID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find mentor by application: %w", err)
	}
	return &mentor, nil
}

// InsertMentor creates a new mentor record.
func (r *MentorshipRepository) InsertMentor(ctx context.Context, mentor *models.Mentor) error {
	if mentor.ID == "" {
		mentor.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	mentor.CreatedAt = now
	mentor.UpdatedAt = now
	const query = `INSERT INTO mentors (id, mentorship_application_id, name, role, description, type, is_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := r.db.ExecContext(ctx, query, mentor.ID, mentor.MentorshipApplicationID, mentor.Name, mentor.Role, mentor.Description, mentor.Type, mentor.IsActive, mentor.CreatedAt, mentor.UpdatedAt); err != nil {
		return fmt.Errorf("insert mentor: %w", err)
	}
	return nil
}

// UpdateMentor rewrites a mentor record in place.
func (r *MentorshipRepository) UpdateMentor(ctx context.Context, mentor *models.Mentor) error {
	mentor.UpdatedAt = time.Now().UTC()
	const query = `UPDATE mentors SET name = $2, role = $3, description = $4, type = $5, is_active = $6, updated_at = $7 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, mentor.ID, mentor.Name, mentor.Role, mentor.Description, mentor.Type, mentor.IsActive, mentor.UpdatedAt); err != nil {
		return fmt.Errorf("update mentor: %w", err)
	}
	return nil
}

// DeactivateMentor flips is_active off for the mentor derived from an
// application. Missing mentors are a no-op.
func (r *MentorshipRepository) DeactivateMentor(ctx context.Context, applicationID string) error {
	const query = `UPDATE mentors SET is_active = FALSE, updated_at = $2 WHERE mentorship_application_id = $1`
	if _, err := r.db.ExecContext(ctx, query, applicationID, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate mentor: %w", err)
	}
	return nil
}

// ListActiveMentors returns active mentors newest first for public display.
func (r *MentorshipRepository) ListActiveMentors(ctx context.Context) ([]models.Mentor, error) {
	const query = `SELECT id, mentorship_application_id, name, role, description, type, is_active, created_at, updated_at
        FROM mentors WHERE is_active = TRUE ORDER BY created_at DESC`
	var mentors []models.Mentor
	if err := r.db.SelectContext(ctx, &mentors, query); err != nil {
		return nil, fmt.Errorf("list active mentors: %w", err)
	}
	return mentors, nil
}
