package models

import (
	"strings"
	"time"
)

// EventType is the normalized category of a platform event.
type EventType string

const (
	EventTypeLiveClass  EventType = "live-class"
	EventTypeAssignment EventType = "assignment"
	EventTypeCommunity  EventType = "community"
	EventTypeWorkshop   EventType = "workshop"
	EventTypeDeadline   EventType = "deadline"
	EventTypeQuiz       EventType = "quiz"
	EventTypeCohort     EventType = "cohort"
)

var eventTypeAliases = map[string]EventType{
	"live-class":   EventTypeLiveClass,
	"live class":   EventTypeLiveClass,
	"live session": EventTypeLiveClass,
	"live":         EventTypeLiveClass,
	"assignment":   EventTypeAssignment,
	"office hours": EventTypeCommunity,
	"community":    EventTypeCommunity,
	"deadline":     EventTypeDeadline,
	"workshop":     EventTypeWorkshop,
	"quiz":         EventTypeQuiz,
	"cohort":       EventTypeCohort,
}

// NormalizeEventType folds free-text event categories into the fixed enum.
// Unknown values default to community.
func NormalizeEventType(raw string) EventType {
	if t, ok := eventTypeAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return t
	}
	return EventTypeCommunity
}

// Event represents a scheduled platform event. A nil CohortID means the
// event is visible to every cohort.
type Event struct {
	ID          string     `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description,omitempty"`
	Type        string     `db:"type" json:"type"`
	CohortID    *string    `db:"cohort_id" json:"cohort_id,omitempty"`
	StartTime   *time.Time `db:"start_time" json:"start_time,omitempty"`
	EndTime     *time.Time `db:"end_time" json:"end_time,omitempty"`
	Location    *string    `db:"location" json:"location,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// Attendance joins a student to an event they attended. Duration is
// recorded but not currently weighted in any calculation.
type Attendance struct {
	ID              string     `db:"id" json:"id"`
	StudentID       string     `db:"student_id" json:"student_id"`
	EventID         string     `db:"event_id" json:"event_id"`
	JoinTime        *time.Time `db:"join_time" json:"join_time,omitempty"`
	DurationMinutes *int       `db:"duration_minutes" json:"duration_minutes,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}
