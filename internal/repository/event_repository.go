package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/btc-academy/academy-api/internal/models"
)

// EventRepository manages persistence for events and attendance.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// ListVisible returns events visible to the given cohort, ordered by
// start time. A NULL cohort on a row means visible to everyone; rows
// scoped to other cohorts are excluded. An empty cohortID returns only
// the events visible to everyone.
func (r *EventRepository) ListVisible(ctx context.Context, cohortID string) ([]models.Event, error) {
	var (
		query string
		args  []interface{}
	)
	if cohortID != "" {
		query = `SELECT id, title, description, type, cohort_id, start_time, end_time, location, created_at
            FROM events WHERE cohort_id IS NULL OR cohort_id = $1 ORDER BY start_time ASC`
		args = append(args, cohortID)
	} else {
		query = `SELECT id, title, description, type, cohort_id, start_time, end_time, location, created_at
            FROM events WHERE cohort_id IS NULL ORDER BY start_time ASC`
	}

	var events []models.Event
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// CountLiveClasses returns the number of live-class events platform-wide.
func (r *EventRepository) CountLiveClasses(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(1) FROM events WHERE type = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, string(models.EventTypeLiveClass)); err != nil {
		return 0, fmt.Errorf("count live-class events: %w", err)
	}
	return count, nil
}

// AttendanceCounts holds a per-student attendance tally.
type AttendanceCounts struct {
	StudentID string `db:"student_id"`
	Attended  int    `db:"attended"`
}

// AttendanceByStudent returns attendance tallies grouped by student.
func (r *EventRepository) AttendanceByStudent(ctx context.Context) (map[string]int, error) {
	const query = `SELECT student_id, COUNT(*) AS attended FROM attendance GROUP BY student_id`
	var rows []AttendanceCounts
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count attendance by student: %w", err)
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.StudentID] = row.Attended
	}
	return counts, nil
}

// RecordAttendance inserts an attendance join row.
func (r *EventRepository) RecordAttendance(ctx context.Context, record *models.Attendance) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	record.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO attendance (id, student_id, event_id, join_time, duration_minutes, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(ctx, query, record.ID, record.StudentID, record.EventID, record.JoinTime, record.DurationMinutes, record.CreatedAt); err != nil {
		return fmt.Errorf("record attendance: %w", err)
	}
	return nil
}
