package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/btc-academy/academy-api/internal/models"
	"github.com/btc-academy/academy-api/internal/workspace"
	appErrors "github.com/btc-academy/academy-api/pkg/errors"
)

const (
	cacheKeySatsLeaderboard        = "leaderboard:sats"
	cacheKeyAchievementLeaderboard = "leaderboard:achievements"
	cacheKeyLeaderboardPattern     = "leaderboard:*"

	// unknownEntryName groups records carrying neither a display name
	// nor a relation pointer.
	unknownEntryName = "Unknown"
)

// LeaderboardServiceConfig tunes aggregation behaviour.
type LeaderboardServiceConfig struct {
	SatsRewardsDBID  string
	AchievementsDBID string
	ResolveCap       int
	CacheTTL         time.Duration
}

// LeaderboardService merges workspace reward/achievement records into
// ranked per-student leaderboards. Records are first grouped by a cheap
// provisional key, then relation pointers are resolved in one capped
// batch, and groups resolving to the same display name are merged.
type LeaderboardService struct {
	ws     workspaceQuerier
	cache  *CacheService
	logger *zap.Logger
	cfg    LeaderboardServiceConfig
}

// NewLeaderboardService constructs a LeaderboardService.
func NewLeaderboardService(ws workspaceQuerier, cache *CacheService, logger *zap.Logger, cfg LeaderboardServiceConfig) *LeaderboardService {
	if cfg.ResolveCap <= 0 {
		cfg.ResolveCap = 50
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeaderboardService{ws: ws, cache: cache, logger: logger, cfg: cfg}
}

// Sats returns the sats-reward leaderboard. The boolean reports whether
// the result was served from cache.
func (s *LeaderboardService) Sats(ctx context.Context) ([]models.LeaderboardEntry, bool, error) {
	return s.leaderboard(ctx, cacheKeySatsLeaderboard, s.cfg.SatsRewardsDBID, satsQuantity)
}

// Achievements returns the achievement-points leaderboard. The boolean
// reports whether the result was served from cache.
func (s *LeaderboardService) Achievements(ctx context.Context) ([]models.LeaderboardEntry, bool, error) {
	return s.leaderboard(ctx, cacheKeyAchievementLeaderboard, s.cfg.AchievementsDBID, achievementQuantity)
}

// Refresh drops both cached leaderboards so the next read rebuilds
// them from the workspace.
func (s *LeaderboardService) Refresh(ctx context.Context) error {
	return s.cache.Invalidate(ctx, cacheKeyLeaderboardPattern)
}

func (s *LeaderboardService) leaderboard(ctx context.Context, cacheKey, databaseID string, quantity func(workspace.Record) int64) ([]models.LeaderboardEntry, bool, error) {
	if databaseID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "workspace database not configured")
	}

	var cached []models.LeaderboardEntry
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached, true, nil
	}

	records, err := s.ws.QueryDatabase(ctx, databaseID)
	if err != nil {
		return nil, false, err
	}

	entries := s.aggregate(ctx, records, quantity)

	if err := s.cache.Set(ctx, cacheKey, entries, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("leaderboard cache write failed", zap.String("key", cacheKey), zap.Error(err))
	}
	return entries, false, nil
}

func satsQuantity(record workspace.Record) int64 {
	if v := record.NumberPtr("AmountPaid"); v != nil {
		return int64(*v)
	}
	if v := record.NumberPtr("Amount"); v != nil {
		return int64(*v)
	}
	return 0
}

func achievementQuantity(record workspace.Record) int64 {
	if v := record.NumberPtr("Points"); v != nil {
		return int64(*v)
	}
	return 0
}

type provisionalGroup struct {
	amount     int64
	awards     int
	relationID string
}

// aggregate runs the two-phase merge: provisional grouping by surface
// identity, one capped batch of pointer resolutions, then a remerge
// keyed by resolved display name. Resolution misses are tolerated and
// simply leave the provisional key in place.
func (s *LeaderboardService) aggregate(ctx context.Context, records []workspace.Record, quantity func(workspace.Record) int64) []models.LeaderboardEntry {
	groups := make(map[string]*provisionalGroup)
	pointerSet := make(map[string]struct{})

	for _, record := range records {
		relationIDs := record.RelationIDs("Student")
		for _, id := range relationIDs {
			pointerSet[id] = struct{}{}
		}

		key := record.PersonName("Student")
		if key == "" {
			key = record.TitleText("Name")
		}
		if key == "" && len(relationIDs) > 0 {
			key = relationIDs[0]
		}
		if key == "" {
			key = unknownEntryName
		}

		group, ok := groups[key]
		if !ok {
			group = &provisionalGroup{}
			groups[key] = group
		}
		group.amount += quantity(record)
		group.awards++
		// The representative pointer decides which resolved name the
		// whole group maps to; pick the smallest id so the outcome does
		// not depend on record order.
		if len(relationIDs) > 0 && (group.relationID == "" || relationIDs[0] < group.relationID) {
			group.relationID = relationIDs[0]
		}
	}

	resolved := s.resolvePointers(ctx, pointerSet)

	merged := make(map[string]*provisionalGroup, len(groups))
	for key, group := range groups {
		finalKey := key
		if name, ok := resolved[group.relationID]; ok {
			finalKey = name
		}
		target, ok := merged[finalKey]
		if !ok {
			target = &provisionalGroup{}
			merged[finalKey] = target
		}
		target.amount += group.amount
		target.awards += group.awards
	}

	entries := make([]models.LeaderboardEntry, 0, len(merged))
	for name, group := range merged {
		entries = append(entries, models.LeaderboardEntry{Name: name, Amount: group.amount, Awards: group.awards})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Amount != entries[j].Amount {
			return entries[i].Amount > entries[j].Amount
		}
		if entries[i].Awards != entries[j].Awards {
			return entries[i].Awards > entries[j].Awards
		}
		return entries[i].Name < entries[j].Name
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// resolvePointers fetches display names for distinct relation pointers.
// The batch is capped to bound external fan-out; individual misses are
// swallowed and leave the pointer unresolved.
func (s *LeaderboardService) resolvePointers(ctx context.Context, pointerSet map[string]struct{}) map[string]string {
	resolved := make(map[string]string, len(pointerSet))
	if len(pointerSet) == 0 {
		return resolved
	}

	ids := make([]string, 0, len(pointerSet))
	for id := range pointerSet {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if len(ids) > s.cfg.ResolveCap {
		ids = ids[:s.cfg.ResolveCap]
	}

	for _, id := range ids {
		title, err := s.ws.PageTitle(ctx, id)
		if err != nil {
			s.logger.Debug("relation pointer resolution failed", zap.String("pointer", id), zap.Error(err))
			continue
		}
		if title != "" {
			resolved[id] = title
		}
	}
	return resolved
}
