package models

import (
	"strings"
	"time"
)

// MentorshipStatus is the review state of a mentorship application.
// Stored as free text; only Approved carries transition semantics.
type MentorshipStatus string

const (
	MentorshipStatusPending  MentorshipStatus = "Pending"
	MentorshipStatusApproved MentorshipStatus = "Approved"
	MentorshipStatusRejected MentorshipStatus = "Rejected"
)

// MentorType classifies an approved mentor.
type MentorType string

const (
	MentorTypeMentor        MentorType = "Mentor"
	MentorTypeVolunteer     MentorType = "Volunteer"
	MentorTypeGuestLecturer MentorType = "Guest Lecturer"
)

// ClassifyMentorType derives the mentor type from free-text role.
// Case-insensitive substring match, first match wins in listed order.
func ClassifyMentorType(role string) MentorType {
	lower := strings.ToLower(role)
	if strings.Contains(lower, "volunteer") {
		return MentorTypeVolunteer
	}
	if strings.Contains(lower, "lecturer") || strings.Contains(lower, "guest") {
		return MentorTypeGuestLecturer
	}
	return MentorTypeMentor
}

// MentorshipApplication is a submitted application to mentor.
type MentorshipApplication struct {
	ID         string           `db:"id" json:"id"`
	Name       string           `db:"name" json:"name"`
	Email      *string          `db:"email" json:"email,omitempty"`
	Role       *string          `db:"role" json:"role,omitempty"`
	Experience *string          `db:"experience" json:"experience,omitempty"`
	Motivation *string          `db:"motivation" json:"motivation,omitempty"`
	Status     MentorshipStatus `db:"status" json:"status"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updated_at"`
}

// Mentor is the denormalised record derived from an approved
// application. At most one mentor exists per application id; it is
// deactivated, never deleted.
type Mentor struct {
	ID                      string     `db:"id" json:"id"`
	MentorshipApplicationID string     `db:"mentorship_application_id" json:"mentorship_application_id"`
	Name                    string     `db:"name" json:"name"`
	Role                    string     `db:"role" json:"role"`
	Description             string     `db:"description" json:"description"`
	Type                    MentorType `db:"type" json:"type"`
	IsActive                bool       `db:"is_active" json:"is_active"`
	CreatedAt               time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt               time.Time  `db:"updated_at" json:"updated_at"`
}
