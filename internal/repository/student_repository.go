package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/btc-academy/academy-api/internal/models"
)

// StudentRepository manages persistence for enrollment records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByProfileID returns the enrollment record for a profile, if any.
func (r *StudentRepository) FindByProfileID(ctx context.Context, profileID string) (*models.Student, error) {
	const query = `SELECT id, profile_id, cohort_id, created_at FROM students WHERE profile_id = $1 LIMIT 1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, profileID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student by profile id: %w", err)
	}
	return &student, nil
}

// List returns every enrollment record.
func (r *StudentRepository) List(ctx context.Context) ([]models.Student, error) {
	const query = `SELECT id, profile_id, cohort_id, created_at FROM students ORDER BY created_at ASC`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}
