package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/btc-academy/academy-api/internal/models"
)

type mockIdentityResolver struct {
	identities map[string]*models.Identity
}

func (m *mockIdentityResolver) Resolve(ctx context.Context, email string) (*models.Identity, error) {
	if identity, ok := m.identities[models.NormalizeEmail(email)]; ok {
		cp := *identity
		return &cp, nil
	}
	return &models.Identity{}, nil
}

type chapterRow struct {
	unlocked  bool
	completed bool
}

type mockChapterProgressRepo struct {
	rows     map[string]map[int]chapterRow
	unlocked []int
}

func (m *mockChapterProgressRepo) ListByStudent(ctx context.Context, studentID string) ([]models.ChapterProgress, error) {
	out := make([]models.ChapterProgress, 0)
	for number, row := range m.rows[studentID] {
		out = append(out, models.ChapterProgress{
			StudentID:     studentID,
			ChapterNumber: number,
			IsUnlocked:    row.unlocked,
			IsCompleted:   row.completed,
		})
	}
	return out, nil
}

func (m *mockChapterProgressRepo) Upsert(ctx context.Context, studentID string, chapter int, unlocked, completed bool) error {
	if m.rows == nil {
		m.rows = make(map[string]map[int]chapterRow)
	}
	if m.rows[studentID] == nil {
		m.rows[studentID] = make(map[int]chapterRow)
	}
	m.rows[studentID][chapter] = chapterRow{unlocked: unlocked, completed: completed}
	return nil
}

func (m *mockChapterProgressRepo) Unlock(ctx context.Context, studentID string, chapter int) error {
	if m.rows == nil {
		m.rows = make(map[string]map[int]chapterRow)
	}
	if m.rows[studentID] == nil {
		m.rows[studentID] = make(map[int]chapterRow)
	}
	row := m.rows[studentID][chapter]
	row.unlocked = true
	m.rows[studentID][chapter] = row
	m.unlocked = append(m.unlocked, chapter)
	return nil
}

func newChapterFixture(progress *mockChapterProgressRepo) *ChapterService {
	identities := &mockIdentityResolver{identities: map[string]*models.Identity{
		"admin@academy.io":    {ProfileID: "p9", IsAdmin: true, IsRegistered: true, IsEnrolled: true},
		"student@academy.io":  {ProfileID: "p1", StudentID: "s1", IsRegistered: true, IsEnrolled: true},
		"waitlist@academy.io": {ProfileID: "p2", IsRegistered: true},
	}}
	return NewChapterService(identities, progress, validator.New(), zap.NewNop(), models.TotalChapters)
}

func TestUnlockStatusAdminAllChapters(t *testing.T) {
	progress := &mockChapterProgressRepo{rows: map[string]map[int]chapterRow{
		"p9": {3: {unlocked: true, completed: true}},
	}}
	svc := newChapterFixture(progress)

	res, err := svc.UnlockStatus(context.Background(), "admin@academy.io")
	require.NoError(t, err)
	assert.True(t, res.IsAdmin)
	assert.Len(t, res.Chapters, models.TotalChapters)
	for i := 1; i <= models.TotalChapters; i++ {
		assert.True(t, res.Chapters[i].IsUnlocked, "chapter %d should be unlocked", i)
	}
	assert.True(t, res.Chapters[3].IsCompleted)
	assert.False(t, res.Chapters[4].IsCompleted)
	assert.NotEmpty(t, res.Message)
}

func TestUnlockStatusUnregistered(t *testing.T) {
	svc := newChapterFixture(&mockChapterProgressRepo{})

	res, err := svc.UnlockStatus(context.Background(), "nobody@academy.io")
	require.NoError(t, err)
	assert.False(t, res.IsRegistered)
	assert.Empty(t, res.Chapters)
}

func TestUnlockStatusRegisteredNotEnrolled(t *testing.T) {
	svc := newChapterFixture(&mockChapterProgressRepo{})

	res, err := svc.UnlockStatus(context.Background(), "waitlist@academy.io")
	require.NoError(t, err)
	assert.True(t, res.IsRegistered)
	assert.False(t, res.IsEnrolled)
	assert.Empty(t, res.Chapters)
}

func TestUnlockStatusChapterOneDefault(t *testing.T) {
	svc := newChapterFixture(&mockChapterProgressRepo{})

	res, err := svc.UnlockStatus(context.Background(), "student@academy.io")
	require.NoError(t, err)
	assert.True(t, res.Chapters[1].IsUnlocked)
	assert.False(t, res.Chapters[1].IsCompleted)
	assert.Len(t, res.Chapters, 1)
}

func TestUnlockStatusNoContradictoryState(t *testing.T) {
	progress := &mockChapterProgressRepo{rows: map[string]map[int]chapterRow{
		"p1": {
			1: {unlocked: true, completed: true},
			2: {unlocked: true},
		},
	}}
	svc := newChapterFixture(progress)

	res, err := svc.UnlockStatus(context.Background(), "student@academy.io")
	require.NoError(t, err)
	for number, status := range res.Chapters {
		if status.IsCompleted {
			assert.True(t, status.IsUnlocked, "completed chapter %d must be unlocked", number)
		}
	}
}

func TestMarkCompletedUnlocksNext(t *testing.T) {
	progress := &mockChapterProgressRepo{}
	svc := newChapterFixture(progress)

	err := svc.MarkCompleted(context.Background(), MarkCompletedRequest{StudentID: "p1", Chapter: 4})
	require.NoError(t, err)

	row := progress.rows["p1"][4]
	assert.True(t, row.unlocked)
	assert.True(t, row.completed)
	assert.Equal(t, []int{5}, progress.unlocked)
}

func TestMarkCompletedLastChapter(t *testing.T) {
	progress := &mockChapterProgressRepo{}
	svc := newChapterFixture(progress)

	err := svc.MarkCompleted(context.Background(), MarkCompletedRequest{StudentID: "p1", Chapter: models.TotalChapters})
	require.NoError(t, err)
	assert.Empty(t, progress.unlocked)
}

func TestMarkCompletedValidation(t *testing.T) {
	svc := newChapterFixture(&mockChapterProgressRepo{})

	require.Error(t, svc.MarkCompleted(context.Background(), MarkCompletedRequest{Chapter: 1}))
	require.Error(t, svc.MarkCompleted(context.Background(), MarkCompletedRequest{StudentID: "p1", Chapter: models.TotalChapters + 1}))
}
