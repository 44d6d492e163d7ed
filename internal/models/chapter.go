package models

import "time"

// TotalChapters is the size of the curriculum; chapter numbers form the
// dense range [1, TotalChapters].
const TotalChapters = 21

// ChapterProgress is one row per (student, chapter) pair. Absence of a
// row for chapter k>1 means the chapter is locked.
type ChapterProgress struct {
	ID            string    `db:"id" json:"id"`
	StudentID     string    `db:"student_id" json:"student_id"`
	ChapterNumber int       `db:"chapter_number" json:"chapter_number"`
	IsUnlocked    bool      `db:"is_unlocked" json:"is_unlocked"`
	IsCompleted   bool      `db:"is_completed" json:"is_completed"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// ChapterStatus is the projected state of a single chapter for a student.
type ChapterStatus struct {
	IsUnlocked  bool `json:"isUnlocked"`
	IsCompleted bool `json:"isCompleted"`
}
