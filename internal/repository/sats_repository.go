package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/btc-academy/academy-api/internal/models"
)

// SatsRepository manages persistence for sats reward records.
type SatsRepository struct {
	db *sqlx.DB
}

// NewSatsRepository constructs a SatsRepository.
func NewSatsRepository(db *sqlx.DB) *SatsRepository {
	return &SatsRepository{db: db}
}

// TotalsForStudent sums paid and pending amounts across a student's rewards.
func (r *SatsRepository) TotalsForStudent(ctx context.Context, studentID string) (*models.SatsTotals, error) {
	const query = `SELECT COALESCE(SUM(amount_paid), 0) AS total_paid, COALESCE(SUM(amount_pending), 0) AS total_pending
        FROM sats_rewards WHERE student_id = $1`
	var totals struct {
		TotalPaid    int64 `db:"total_paid"`
		TotalPending int64 `db:"total_pending"`
	}
	if err := r.db.GetContext(ctx, &totals, query, studentID); err != nil {
		return nil, fmt.Errorf("sum sats rewards for student: %w", err)
	}
	return &models.SatsTotals{TotalPaid: totals.TotalPaid, TotalPending: totals.TotalPending}, nil
}

// PlatformTotals sums paid and pending amounts over every reward record,
// attributed or not.
func (r *SatsRepository) PlatformTotals(ctx context.Context) (paid, pending int64, err error) {
	const query = `SELECT COALESCE(SUM(amount_paid), 0) AS total_paid, COALESCE(SUM(amount_pending), 0) AS total_pending FROM sats_rewards`
	var totals struct {
		TotalPaid    int64 `db:"total_paid"`
		TotalPending int64 `db:"total_pending"`
	}
	if err := r.db.GetContext(ctx, &totals, query); err != nil {
		return 0, 0, fmt.Errorf("sum sats rewards: %w", err)
	}
	return totals.TotalPaid, totals.TotalPending, nil
}

// Insert persists a new reward record.
func (r *SatsRepository) Insert(ctx context.Context, reward *models.SatsReward) error {
	if reward.ID == "" {
		reward.ID = uuid.NewString()
	}
	reward.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO sats_rewards (id, student_id, amount_paid, amount_pending, reward_type, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(ctx, query, reward.ID, reward.StudentID, reward.AmountPaid, reward.AmountPending, reward.RewardType, reward.CreatedAt); err != nil {
		return fmt.Errorf("insert sats reward: %w", err)
	}
	return nil
}
