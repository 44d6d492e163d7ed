package models

import "time"

// Student represents an enrollment record. A profile becomes a student
// only once an application is accepted into a cohort.
type Student struct {
	ID        string    `db:"id" json:"id"`
	ProfileID string    `db:"profile_id" json:"profile_id"`
	CohortID  *string   `db:"cohort_id" json:"cohort_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
