package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/btc-academy/academy-api/internal/models"
)

type mockEventRepo struct {
	events     []models.Event
	recorded   []*models.Attendance
	lastCohort string
}

func (m *mockEventRepo) ListVisible(ctx context.Context, cohortID string) ([]models.Event, error) {
	m.lastCohort = cohortID
	out := make([]models.Event, 0, len(m.events))
	for _, e := range m.events {
		if e.CohortID == nil || cohortID == "" || *e.CohortID == cohortID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockEventRepo) RecordAttendance(ctx context.Context, record *models.Attendance) error {
	cp := *record
	m.recorded = append(m.recorded, &cp)
	return nil
}

func TestEventListNormalizesTypes(t *testing.T) {
	repo := &mockEventRepo{events: []models.Event{
		{ID: "e1", Title: "Weekly Call", Type: "Live Session"},
		{ID: "e2", Title: "Homework", Type: "assignment"},
		{ID: "e3", Title: "AMA", Type: "Office Hours"},
		{ID: "e4", Title: "Mystery", Type: "something-else"},
	}}
	svc := NewEventService(repo, nil, zap.NewNop())

	views, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, views, 4)
	assert.Equal(t, models.EventTypeLiveClass, views[0].Type)
	assert.Equal(t, models.EventTypeAssignment, views[1].Type)
	assert.Equal(t, models.EventTypeCommunity, views[2].Type)
	assert.Equal(t, models.EventTypeCommunity, views[3].Type)
}

func TestEventListPassesCohortFilter(t *testing.T) {
	cohort := "cohort-3"
	repo := &mockEventRepo{events: []models.Event{
		{ID: "e1", Title: "Everyone", Type: "community"},
		{ID: "e2", Title: "Cohort Only", Type: "live", CohortID: &cohort},
	}}
	svc := NewEventService(repo, nil, zap.NewNop())

	views, err := svc.List(context.Background(), "cohort-3")
	require.NoError(t, err)
	assert.Equal(t, "cohort-3", repo.lastCohort)
	require.Len(t, views, 2)
}

func TestEventRecordAttendance(t *testing.T) {
	repo := &mockEventRepo{}
	svc := NewEventService(repo, nil, zap.NewNop())

	minutes := 45
	err := svc.RecordAttendance(context.Background(), RecordAttendanceRequest{
		StudentID:       "s1",
		EventID:         "e1",
		DurationMinutes: &minutes,
	})
	require.NoError(t, err)
	require.Len(t, repo.recorded, 1)
	assert.Equal(t, "s1", repo.recorded[0].StudentID)
	assert.Equal(t, "e1", repo.recorded[0].EventID)
	require.NotNil(t, repo.recorded[0].DurationMinutes)
	assert.Equal(t, 45, *repo.recorded[0].DurationMinutes)
}

func TestEventRecordAttendanceValidation(t *testing.T) {
	repo := &mockEventRepo{}
	svc := NewEventService(repo, nil, zap.NewNop())

	err := svc.RecordAttendance(context.Background(), RecordAttendanceRequest{EventID: "e1"})
	require.Error(t, err)
	assert.Empty(t, repo.recorded)
}
