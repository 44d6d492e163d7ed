package models

import "time"

// SatsReward is one awarded reward. StudentID is nullable so that
// platform-wide aggregates tolerate unattributed rewards.
type SatsReward struct {
	ID            string    `db:"id" json:"id"`
	StudentID     *string   `db:"student_id" json:"student_id,omitempty"`
	AmountPaid    int64     `db:"amount_paid" json:"amount_paid"`
	AmountPending int64     `db:"amount_pending" json:"amount_pending"`
	RewardType    *string   `db:"reward_type" json:"reward_type,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// SatsTotals sums a single student's rewards.
type SatsTotals struct {
	TotalPaid    int64 `json:"totalPaid"`
	TotalPending int64 `json:"totalPending"`
}

// SatsEconomyStats summarises the platform-wide reward economy.
// Circulated and Spent are definitionally identical: circulated denotes
// tokens that have left the issuing ledger, which is exactly the paid
// amount.
type SatsEconomyStats struct {
	SatsEarned     int64 `json:"satsEarned"`
	SatsSpent      int64 `json:"satsSpent"`
	SatsCirculated int64 `json:"satsCirculated"`
}
