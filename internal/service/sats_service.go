package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/btc-academy/academy-api/internal/models"
	"github.com/btc-academy/academy-api/internal/workspace"
	appErrors "github.com/btc-academy/academy-api/pkg/errors"
)

type satsRewardRepository interface {
	TotalsForStudent(ctx context.Context, studentID string) (*models.SatsTotals, error)
	PlatformTotals(ctx context.Context) (paid, pending int64, err error)
}

type workspaceQuerier interface {
	QueryDatabase(ctx context.Context, databaseID string) ([]workspace.Record, error)
	PageTitle(ctx context.Context, pageID string) (string, error)
}

// SatsService is the reward ledger: per-student and platform-wide token
// totals, plus the mirror totals held in the external workspace.
type SatsService struct {
	rewards         satsRewardRepository
	identity        identityResolver
	ws              workspaceQuerier
	satsRewardsDBID string
	logger          *zap.Logger
}

// NewSatsService constructs a SatsService.
func NewSatsService(rewards satsRewardRepository, identity identityResolver, ws workspaceQuerier, satsRewardsDBID string, logger *zap.Logger) *SatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SatsService{rewards: rewards, identity: identity, ws: ws, satsRewardsDBID: satsRewardsDBID, logger: logger}
}

// TotalsForStudent sums rewards attributed to a profile id directly.
func (s *SatsService) TotalsForStudent(ctx context.Context, studentID string) (*models.SatsTotals, error) {
	totals, err := s.rewards.TotalsForStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch sats rewards")
	}
	return totals, nil
}

// TotalsForEmail resolves an email and sums that identity's rewards.
// An unknown email yields zero totals, never an error.
func (s *SatsService) TotalsForEmail(ctx context.Context, email string) (*models.SatsTotals, error) {
	identity, err := s.identity.Resolve(ctx, email)
	if err != nil {
		return nil, err
	}
	if identity.ProfileID == "" {
		return &models.SatsTotals{}, nil
	}
	return s.TotalsForStudent(ctx, identity.ProfileID)
}

// PlatformStats summarises the reward economy over every record,
// attributed or not. Circulated equals spent by definition: both count
// exactly the tokens that have left the issuing ledger.
func (s *SatsService) PlatformStats(ctx context.Context) (*models.SatsEconomyStats, error) {
	paid, pending, err := s.rewards.PlatformTotals(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch sats statistics")
	}
	return &models.SatsEconomyStats{
		SatsEarned:     paid + pending,
		SatsSpent:      paid,
		SatsCirculated: paid,
	}, nil
}

// WorkspaceSatsTotals sums the reward rows mirrored in the workspace.
type WorkspaceSatsTotals struct {
	TotalPaid    int64 `json:"totalPaid"`
	TotalPending int64 `json:"totalPending"`
	Count        int   `json:"count"`
}

// WorkspaceTotals reads the workspace sats rewards database and sums
// paid and pending amounts across its records.
func (s *SatsService) WorkspaceTotals(ctx context.Context) (*WorkspaceSatsTotals, error) {
	if s.ws == nil || s.satsRewardsDBID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "workspace sats rewards database not configured")
	}

	records, err := s.ws.QueryDatabase(ctx, s.satsRewardsDBID)
	if err != nil {
		return nil, err
	}

	totals := &WorkspaceSatsTotals{Count: len(records)}
	for _, record := range records {
		totals.TotalPaid += int64(record.NumberValue("AmountPaid"))
		totals.TotalPending += int64(record.NumberValue("AmountPending"))
	}
	return totals, nil
}
