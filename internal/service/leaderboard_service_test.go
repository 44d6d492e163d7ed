package service

import (
	"context"
	"encoding/json"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/btc-academy/academy-api/internal/models"
	"github.com/btc-academy/academy-api/internal/workspace"
	appErrors "github.com/btc-academy/academy-api/pkg/errors"
)

func numberRecord(numbers map[string]float64) workspace.Record {
	props := make(map[string]workspace.Property, len(numbers))
	for name, value := range numbers {
		v := value
		props[name] = workspace.Property{Number: &v}
	}
	return workspace.Record{Properties: props}
}

func rewardRecord(person string, relationID string, paid float64) workspace.Record {
	record := numberRecord(map[string]float64{"AmountPaid": paid})
	prop := workspace.Property{}
	if person != "" {
		prop.People = []workspace.Person{{Name: person}}
	}
	if relationID != "" {
		prop.Relation = []workspace.Relation{{ID: relationID}}
	}
	record.Properties["Student"] = prop
	return record
}

func newLeaderboardFixture(ws *mockWorkspace) *LeaderboardService {
	return NewLeaderboardService(ws, nil, zap.NewNop(), LeaderboardServiceConfig{
		SatsRewardsDBID:  "rewards",
		AchievementsDBID: "achievements",
		ResolveCap:       50,
	})
}

func TestLeaderboardMergesByResolvedName(t *testing.T) {
	ws := &mockWorkspace{
		databases: map[string][]workspace.Record{
			"rewards": {
				rewardRecord("Alice", "", 100),
				rewardRecord("", "rel-alice", 200),
				rewardRecord("Bob", "", 50),
			},
		},
		titles: map[string]string{"rel-alice": "Alice"},
	}
	svc := newLeaderboardFixture(ws)

	entries, _, err := svc.Sats(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Alice", entries[0].Name)
	assert.Equal(t, int64(300), entries[0].Amount)
	assert.Equal(t, 2, entries[0].Awards)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "Bob", entries[1].Name)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestLeaderboardUnresolvedPointerKeepsProvisionalKey(t *testing.T) {
	ws := &mockWorkspace{
		databases: map[string][]workspace.Record{
			"rewards": {rewardRecord("", "rel-ghost", 75)},
		},
	}
	svc := newLeaderboardFixture(ws)

	entries, _, err := svc.Sats(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "rel-ghost", entries[0].Name)
	assert.Equal(t, int64(75), entries[0].Amount)
}

func TestLeaderboardNamelessRecordsGroupAsUnknown(t *testing.T) {
	ws := &mockWorkspace{
		databases: map[string][]workspace.Record{
			"rewards": {
				rewardRecord("", "", 10),
				rewardRecord("", "", 20),
			},
		},
	}
	svc := newLeaderboardFixture(ws)

	entries, _, err := svc.Sats(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Unknown", entries[0].Name)
	assert.Equal(t, int64(30), entries[0].Amount)
	assert.Equal(t, 2, entries[0].Awards)
}

func TestLeaderboardStableUnderRecordPermutation(t *testing.T) {
	records := []workspace.Record{
		rewardRecord("Alice", "", 100),
		rewardRecord("", "rel-a", 200),
		rewardRecord("", "rel-b", 200),
		rewardRecord("Bob", "", 150),
		rewardRecord("Carol", "rel-c", 25),
	}
	titles := map[string]string{"rel-a": "Alice", "rel-b": "Bob", "rel-c": "Carol"}

	svc := newLeaderboardFixture(&mockWorkspace{
		databases: map[string][]workspace.Record{"rewards": records},
		titles:    titles,
	})
	baseline, _, err := svc.Sats(context.Background())
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 5; trial++ {
		shuffled := make([]workspace.Record, len(records))
		copy(shuffled, records)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		svc := newLeaderboardFixture(&mockWorkspace{
			databases: map[string][]workspace.Record{"rewards": shuffled},
			titles:    titles,
		})
		entries, _, err := svc.Sats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, baseline, entries)
	}
}

func TestLeaderboardResolveCap(t *testing.T) {
	records := []workspace.Record{
		rewardRecord("", "rel-1", 10),
		rewardRecord("", "rel-2", 20),
		rewardRecord("", "rel-3", 30),
	}
	ws := &mockWorkspace{
		databases: map[string][]workspace.Record{"rewards": records},
		titles:    map[string]string{"rel-1": "One", "rel-2": "Two", "rel-3": "Three"},
	}
	svc := NewLeaderboardService(ws, nil, zap.NewNop(), LeaderboardServiceConfig{
		SatsRewardsDBID: "rewards",
		ResolveCap:      2,
	})

	entries, _, err := svc.Sats(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)

	names := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		names[e.Name] = struct{}{}
	}
	// Sorted pointer ids rel-1 and rel-2 fit under the cap; rel-3 stays raw.
	assert.Contains(t, names, "One")
	assert.Contains(t, names, "Two")
	assert.Contains(t, names, "rel-3")
}

func TestLeaderboardAchievementsUsesPoints(t *testing.T) {
	record := numberRecord(map[string]float64{"Points": 40})
	record.Properties["Student"] = workspace.Property{People: []workspace.Person{{Name: "Dana"}}}
	ws := &mockWorkspace{databases: map[string][]workspace.Record{"achievements": {record}}}
	svc := newLeaderboardFixture(ws)

	entries, _, err := svc.Achievements(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.LeaderboardEntry{Rank: 1, Name: "Dana", Amount: 40, Awards: 1}, entries[0])
}

func TestLeaderboardUnconfiguredDatabase(t *testing.T) {
	svc := NewLeaderboardService(&mockWorkspace{}, nil, zap.NewNop(), LeaderboardServiceConfig{})

	_, _, err := svc.Sats(context.Background())
	require.Error(t, err)
}

type memoryCacheRepo struct {
	entries map[string][]byte
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	return nil
}

func TestLeaderboardRefreshDropsCache(t *testing.T) {
	ws := &mockWorkspace{databases: map[string][]workspace.Record{
		"rewards": {rewardRecord("Ada", "", 100)},
	}}
	cache := NewCacheService(&memoryCacheRepo{entries: map[string][]byte{}}, nil, time.Minute, zap.NewNop(), true)
	svc := NewLeaderboardService(ws, cache, zap.NewNop(), LeaderboardServiceConfig{
		SatsRewardsDBID:  "rewards",
		AchievementsDBID: "achievements",
	})

	_, cached, err := svc.Sats(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)

	_, cached, err = svc.Sats(context.Background())
	require.NoError(t, err)
	assert.True(t, cached)

	require.NoError(t, svc.Refresh(context.Background()))

	_, cached, err = svc.Sats(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
}
