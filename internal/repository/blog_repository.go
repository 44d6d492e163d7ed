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

// BlogRepository manages blog submissions and published posts.
type BlogRepository struct {
	db *sqlx.DB
}

// NewBlogRepository constructs a BlogRepository.
func NewBlogRepository(db *sqlx.DB) *BlogRepository {
	return &BlogRepository{db: db}
}

// FindSubmission returns a submission by id.
func (r *BlogRepository) FindSubmission(ctx context.Context, id string) (*models.BlogSubmission, error) {
	const query = `SELECT id, title, content, author_id, author_name, author_bio, category, cohort, status, created_at, updated_at
        FROM blog_submissions WHERE id = $1 LIMIT 1`
	var submission models.BlogSubmission
	if err := r.db.GetContext(ctx, &submission, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find blog submission: %w", err)
	}
	return &submission, nil
}

// UpdateSubmissionStatus writes the review outcome on a submission.
func (r *BlogRepository) UpdateSubmissionStatus(ctx context.Context, id string, status models.BlogSubmissionStatus) error {
	const query = `UPDATE blog_submissions SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update blog submission status: %w", err)
	}
	return nil
}

// SlugExists reports whether a published post already uses the slug.
func (r *BlogRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	const query = `SELECT COUNT(1) FROM blog_posts WHERE slug = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, slug); err != nil {
		return false, fmt.Errorf("count blog posts by slug: %w", err)
	}
	return count > 0, nil
}

// InsertPost publishes a blog post.
func (r *BlogRepository) InsertPost(ctx context.Context, post *models.BlogPost) error {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	post.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO blog_posts (id, title, slug, author_id, author_name, author_role, author_bio, category, excerpt, content, status, is_featured, is_blog_of_month, published_at, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	if _, err := r.db.ExecContext(ctx, query,
		post.ID, post.Title, post.Slug, post.AuthorID, post.AuthorName, post.AuthorRole, post.AuthorBio,
		post.Category, post.Excerpt, post.Content, post.Status, post.IsFeatured, post.IsBlogOfMonth,
		post.PublishedAt, post.CreatedAt); err != nil {
		return fmt.Errorf("insert blog post: %w", err)
	}
	return nil
}
