package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/btc-academy/academy-api/internal/models"
	appErrors "github.com/btc-academy/academy-api/pkg/errors"
	"github.com/btc-academy/academy-api/pkg/jobs"
)

const (
	blogExcerptLimit   = 200
	blogRewardJobType  = "blog-post-reward"
	blogRewardCategory = "blog_post"
)

var slugStripPattern = regexp.MustCompile(`[^a-z0-9]+`)

type blogRepository interface {
	FindSubmission(ctx context.Context, id string) (*models.BlogSubmission, error)
	UpdateSubmissionStatus(ctx context.Context, id string, status models.BlogSubmissionStatus) error
	SlugExists(ctx context.Context, slug string) (bool, error)
	InsertPost(ctx context.Context, post *models.BlogPost) error
}

type blogStudentRepository interface {
	FindByProfileID(ctx context.Context, profileID string) (*models.Student, error)
}

type blogRewardRepository interface {
	Insert(ctx context.Context, reward *models.SatsReward) error
}

// BlogService reviews submitted articles. Approval publishes the post and
// queues a sats reward for the author in the background.
type BlogService struct {
	repo      blogRepository
	students  blogStudentRepository
	rewards   blogRewardRepository
	queue     *jobs.Queue
	rewardAmt int64
	now       func() time.Time
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBlogService constructs a BlogService. rewardSats is the amount granted
// per approved post.
func NewBlogService(repo blogRepository, students blogStudentRepository, rewards blogRewardRepository, rewardSats int64, validate *validator.Validate, logger *zap.Logger) *BlogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &BlogService{
		repo:      repo,
		students:  students,
		rewards:   rewards,
		rewardAmt: rewardSats,
		now:       time.Now,
		validator: validate,
		logger:    logger,
	}
	s.queue = jobs.NewQueue("blog-rewards", s.handleRewardJob, jobs.QueueConfig{
		Workers:    1,
		MaxRetries: 3,
		Logger:     logger,
	})
	return s
}

// StartWorkers launches the background reward workers.
func (s *BlogService) StartWorkers(ctx context.Context) {
	s.queue.Start(ctx)
}

// StopWorkers drains and stops the reward workers.
func (s *BlogService) StopWorkers() {
	s.queue.Stop()
}

// ApproveRequest reviews a pending submission.
type ApproveRequest struct {
	SubmissionID string `json:"submission_id" validate:"required"`
}

// Approve publishes a pending submission. Submissions already reviewed are
// rejected with a conflict. The reward grant is queued and never blocks or
// fails the approval.
func (s *BlogService) Approve(ctx context.Context, req ApproveRequest) (*models.BlogPost, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid approval payload")
	}

	submission, err := s.repo.FindSubmission(ctx, req.SubmissionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch submission")
	}
	if submission.Status != models.BlogSubmissionPending {
		return nil, appErrors.ErrAlreadyReviewed
	}

	slug, err := s.uniqueSlug(ctx, submission.Title)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to derive slug")
	}

	publishedAt := s.now().UTC()
	post := &models.BlogPost{
		Title:       submission.Title,
		Slug:        slug,
		AuthorID:    submission.AuthorID,
		AuthorName:  submission.AuthorName,
		AuthorRole:  authorRole(submission.Cohort),
		AuthorBio:   submission.AuthorBio,
		Category:    submission.Category,
		Excerpt:     excerpt(submission.Content),
		Content:     submission.Content,
		Status:      "published",
		PublishedAt: &publishedAt,
	}

	// Publish and status update are separate writes. A failed status
	// write leaves the post live with the submission still pending, and
	// a retried approval publishes again under a suffixed slug.
	if err := s.repo.InsertPost(ctx, post); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to publish post")
	}
	if err := s.repo.UpdateSubmissionStatus(ctx, submission.ID, models.BlogSubmissionApproved); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update submission")
	}

	s.enqueueReward(submission)
	return post, nil
}

// Reject marks a pending submission as rejected.
func (s *BlogService) Reject(ctx context.Context, submissionID string) error {
	if submissionID == "" {
		return appErrors.ErrValidation
	}
	submission, err := s.repo.FindSubmission(ctx, submissionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch submission")
	}
	if submission.Status != models.BlogSubmissionPending {
		return appErrors.ErrAlreadyReviewed
	}
	if err := s.repo.UpdateSubmissionStatus(ctx, submission.ID, models.BlogSubmissionRejected); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update submission")
	}
	return nil
}

type rewardJobPayload struct {
	SubmissionID string
	AuthorID     string
}

func (s *BlogService) enqueueReward(submission *models.BlogSubmission) {
	if submission.AuthorID == nil || *submission.AuthorID == "" {
		s.logger.Info("skipping reward for anonymous submission", zap.String("submission_id", submission.ID))
		return
	}
	err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    blogRewardJobType,
		Payload: rewardJobPayload{SubmissionID: submission.ID, AuthorID: *submission.AuthorID},
	})
	if err != nil {
		s.logger.Warn("failed to enqueue blog reward",
			zap.String("submission_id", submission.ID),
			zap.Error(err))
	}
}

func (s *BlogService) handleRewardJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(rewardJobPayload)
	if !ok {
		s.logger.Error("unexpected reward payload", zap.String("job_id", job.ID))
		return nil
	}

	// Enrollment gates eligibility only; ledger rows are keyed by
	// profile id, the same key the totals queries sum on.
	if _, err := s.students.FindByProfileID(ctx, payload.AuthorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Info("blog author is not an enrolled student, skipping reward",
				zap.String("submission_id", payload.SubmissionID))
			return nil
		}
		return fmt.Errorf("resolve blog author: %w", err)
	}

	rewardType := blogRewardCategory
	reward := &models.SatsReward{
		StudentID:     &payload.AuthorID,
		AmountPending: s.rewardAmt,
		RewardType:    &rewardType,
	}
	if err := s.rewards.Insert(ctx, reward); err != nil {
		return fmt.Errorf("grant blog reward: %w", err)
	}
	s.logger.Info("blog reward granted",
		zap.String("submission_id", payload.SubmissionID),
		zap.String("profile_id", payload.AuthorID),
		zap.Int64("sats", s.rewardAmt))
	return nil
}

func (s *BlogService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := slugify(title)
	slug := base
	for i := 2; ; i++ {
		exists, err := s.repo.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugStripPattern.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "post"
	}
	return slug
}

func excerpt(content string) string {
	trimmed := strings.TrimSpace(content)
	runes := []rune(trimmed)
	if len(runes) <= blogExcerptLimit {
		return trimmed
	}
	return strings.TrimSpace(string(runes[:blogExcerptLimit])) + "..."
}

func authorRole(cohort *string) *string {
	role := "Contributor"
	if cohort != nil && *cohort != "" {
		role = fmt.Sprintf("Graduate, %s", *cohort)
	}
	return &role
}
