package models

import "time"

// BlogSubmissionStatus is the review state of a blog submission.
type BlogSubmissionStatus string

const (
	BlogSubmissionPending  BlogSubmissionStatus = "pending"
	BlogSubmissionApproved BlogSubmissionStatus = "approved"
	BlogSubmissionRejected BlogSubmissionStatus = "rejected"
)

// BlogSubmission is a reader-submitted article waiting for review.
type BlogSubmission struct {
	ID         string               `db:"id" json:"id"`
	Title      string               `db:"title" json:"title"`
	Content    string               `db:"content" json:"content"`
	AuthorID   *string              `db:"author_id" json:"author_id,omitempty"`
	AuthorName string               `db:"author_name" json:"author_name"`
	AuthorBio  *string              `db:"author_bio" json:"author_bio,omitempty"`
	Category   *string              `db:"category" json:"category,omitempty"`
	Cohort     *string              `db:"cohort" json:"cohort,omitempty"`
	Status     BlogSubmissionStatus `db:"status" json:"status"`
	CreatedAt  time.Time            `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time            `db:"updated_at" json:"updated_at"`
}

// BlogPost is a published article.
type BlogPost struct {
	ID            string     `db:"id" json:"id"`
	Title         string     `db:"title" json:"title"`
	Slug          string     `db:"slug" json:"slug"`
	AuthorID      *string    `db:"author_id" json:"author_id,omitempty"`
	AuthorName    string     `db:"author_name" json:"author_name"`
	AuthorRole    *string    `db:"author_role" json:"author_role,omitempty"`
	AuthorBio     *string    `db:"author_bio" json:"author_bio,omitempty"`
	Category      *string    `db:"category" json:"category,omitempty"`
	Excerpt       string     `db:"excerpt" json:"excerpt"`
	Content       string     `db:"content" json:"content"`
	Status        string     `db:"status" json:"status"`
	IsFeatured    bool       `db:"is_featured" json:"is_featured"`
	IsBlogOfMonth bool       `db:"is_blog_of_month" json:"is_blog_of_month"`
	PublishedAt   *time.Time `db:"published_at" json:"published_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}
