package models

import (
	"strings"
	"time"
)

// Profile represents a registered platform identity.
type Profile struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash *string   `db:"password_hash" json:"-"`
	Status       string    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Admin represents an entry in the admin allow-list.
type Admin struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Role         string    `db:"role" json:"role"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

/// Identity is the resolved view of an email: who it is and what it may access.
type Identity struct {
	ProfileID    string `json:"profile_id,omitempty"`
	StudentID    string `json:"student_id,omitempty"`
	IsAdmin      bool   `json:"is_admin"`
	IsRegistered bool   `json:"is_registered"`
	IsEnrolled   bool   `json:"is_enrolled"`
}

// NormalizeEmail canonicalises an email for lookup. Two inputs differing
// only in case or surrounding whitespace must resolve to the same identity.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
