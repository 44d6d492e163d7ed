package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/btc-academy/academy-api/internal/models"
)

// ChapterProgressRepository manages persistence for per-chapter progress rows.
type ChapterProgressRepository struct {
	db *sqlx.DB
}

// NewChapterProgressRepository constructs a ChapterProgressRepository.
func NewChapterProgressRepository(db *sqlx.DB) *ChapterProgressRepository {
	return &ChapterProgressRepository{db: db}
}

// ListByStudent returns every progress row for a student.
func (r *ChapterProgressRepository) ListByStudent(ctx context.Context, studentID string) ([]models.ChapterProgress, error) {
	const query = `SELECT id, student_id, chapter_number, is_unlocked, is_completed, created_at, updated_at
        FROM chapter_progress WHERE student_id = $1 ORDER BY chapter_number ASC`
	var rows []models.ChapterProgress
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("list chapter progress: %w", err)
	}
	return rows, nil
}

// Upsert inserts or updates the progress row for (student, chapter).
func (r *ChapterProgressRepository) Upsert(ctx context.Context, studentID string, chapter int, unlocked, completed bool) error {
	now := time.Now().UTC()
	const query = `INSERT INTO chapter_progress (id, student_id, chapter_number, is_unlocked, is_completed, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $6)
        ON CONFLICT (student_id, chapter_number)
        DO UPDATE SET is_unlocked = EXCLUDED.is_unlocked, is_completed = EXCLUDED.is_completed, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, uuid.NewString(), studentID, chapter, unlocked, completed, now); err != nil {
		return fmt.Errorf("upsert chapter progress: %w", err)
	}
	return nil
}

// Unlock ensures the chapter is unlocked without touching its
// completion state.
func (r *ChapterProgressRepository) Unlock(ctx context.Context, studentID string, chapter int) error {
	now := time.Now().UTC()
	const query = `INSERT INTO chapter_progress (id, student_id, chapter_number, is_unlocked, is_completed, created_at, updated_at)
        VALUES ($1, $2, $3, TRUE, FALSE, $4, $4)
        ON CONFLICT (student_id, chapter_number)
        DO UPDATE SET is_unlocked = TRUE, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, uuid.NewString(), studentID, chapter, now); err != nil {
		return fmt.Errorf("unlock chapter: %w", err)
	}
	return nil
}

// ProgressCounts holds per-student completion tallies.
type ProgressCounts struct {
	StudentID string `db:"student_id"`
	Completed int    `db:"completed"`
	Unlocked  int    `db:"unlocked"`
}

// CountsByStudent returns completion and unlock tallies grouped by student.
func (r *ChapterProgressRepository) CountsByStudent(ctx context.Context) (map[string]ProgressCounts, error) {
	const query = `SELECT student_id,
        COUNT(*) FILTER (WHERE is_completed) AS completed,
        COUNT(*) AS unlocked
        FROM chapter_progress GROUP BY student_id`
	var rows []ProgressCounts
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count chapter progress: %w", err)
	}
	counts := make(map[string]ProgressCounts, len(rows))
	for _, row := range rows {
		counts[row.StudentID] = row
	}
	return counts, nil
}
