package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/btc-academy/academy-api/internal/models"
	"github.com/btc-academy/academy-api/internal/repository"
)

type progressFixtureRepos struct {
	profiles   []models.Profile
	students   []models.Student
	counts     map[string]repository.ProgressCounts
	attendance map[string]int
	liveTotal  int
}

func (f *progressFixtureRepos) List(ctx context.Context, limit int) ([]models.Profile, error) {
	return f.profiles, nil
}

type progressStudentList struct{ students []models.Student }

func (f *progressStudentList) List(ctx context.Context) ([]models.Student, error) {
	return f.students, nil
}

type progressChapterCounts struct {
	counts map[string]repository.ProgressCounts
}

func (f *progressChapterCounts) CountsByStudent(ctx context.Context) (map[string]repository.ProgressCounts, error) {
	return f.counts, nil
}

type progressEventCounts struct {
	attendance map[string]int
	liveTotal  int
}

func (f *progressEventCounts) CountLiveClasses(ctx context.Context) (int, error) {
	return f.liveTotal, nil
}

func (f *progressEventCounts) AttendanceByStudent(ctx context.Context) (map[string]int, error) {
	return f.attendance, nil
}

func newProgressFixture(f progressFixtureRepos) *ProgressService {
	return NewProgressService(ProgressServiceParams{
		Profiles:      &f,
		Students:      &progressStudentList{students: f.students},
		Chapters:      &progressChapterCounts{counts: f.counts},
		Events:        &progressEventCounts{attendance: f.attendance, liveTotal: f.liveTotal},
		Logger:        zap.NewNop(),
		TotalChapters: models.TotalChapters,
	})
}

func TestProgressListComposesRows(t *testing.T) {
	cohort := "cohort-3"
	svc := newProgressFixture(progressFixtureRepos{
		profiles: []models.Profile{
			{ID: "p1", Name: "Alice", Email: "alice@academy.io", Status: "Enrolled"},
			{ID: "p2", Name: "", Email: "blank@academy.io", Status: "New"},
		},
		students: []models.Student{{ID: "s1", ProfileID: "p1", CohortID: &cohort}},
		counts: map[string]repository.ProgressCounts{
			"p1": {StudentID: "p1", Completed: 10, Unlocked: 11},
		},
		attendance: map[string]int{"p1": 6},
		liveTotal:  10,
	})

	rows, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	alice := rows[0]
	assert.Equal(t, "Alice", alice.Name)
	require.NotNil(t, alice.StudentID)
	assert.Equal(t, "s1", *alice.StudentID)
	assert.Equal(t, &cohort, alice.CohortID)
	assert.Equal(t, 10, alice.CompletedChapters)
	assert.Equal(t, 11, alice.UnlockedChapters)
	assert.Equal(t, models.TotalChapters-1, alice.TotalChapters)
	assert.Equal(t, 60, alice.AttendancePercent)
	// 10/20*50 + 60*0.5 = 55
	assert.Equal(t, 55, alice.OverallProgress)

	blank := rows[1]
	assert.Equal(t, "Unnamed", blank.Name)
	assert.Nil(t, blank.StudentID)
	assert.Zero(t, blank.OverallProgress)
}

func TestProgressOverallWeighting(t *testing.T) {
	// 12 completed of 20 gives 30 points; 20% attendance gives 10 more.
	assert.Equal(t, 40, OverallProgress(12, 20, 20))
	assert.Equal(t, 0, OverallProgress(0, 20, 0))
	assert.Equal(t, 100, OverallProgress(20, 20, 100))
	// Out-of-range inputs clamp instead of overflowing the scale.
	assert.Equal(t, 100, OverallProgress(25, 20, 150))
}

func TestProgressAttendanceZeroDenominator(t *testing.T) {
	svc := newProgressFixture(progressFixtureRepos{
		profiles:   []models.Profile{{ID: "p1", Name: "Solo", Email: "solo@academy.io"}},
		attendance: map[string]int{"p1": 3},
		liveTotal:  0,
	})

	rows, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Zero(t, rows[0].AttendancePercent)
}

func TestProgressExportRejectsUnknownFormat(t *testing.T) {
	svc := newProgressFixture(progressFixtureRepos{})

	_, err := svc.Export(context.Background(), "xlsx")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "csv or pdf"))
}

func TestProgressExportDisabledWithoutStorage(t *testing.T) {
	svc := newProgressFixture(progressFixtureRepos{})

	_, err := svc.Export(context.Background(), "csv")
	require.Error(t, err)
}
