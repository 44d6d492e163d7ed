package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/btc-academy/academy-api/internal/models"
)

type mockMentorshipRepo struct {
	applications map[string]*models.MentorshipApplication
	mentors      map[string]*models.Mentor
	inserts      int
	updates      int
	deactivated  []string
}

func (m *mockMentorshipRepo) ListApplications(ctx context.Context, status string) ([]models.MentorshipApplication, error) {
	out := make([]models.MentorshipApplication, 0, len(m.applications))
	for _, app := range m.applications {
		if status != "all" && string(app.Status) != status {
			continue
		}
		out = append(out, *app)
	}
	return out, nil
}

func (m *mockMentorshipRepo) FindApplication(ctx context.Context, id string) (*models.MentorshipApplication, error) {
	if app, ok := m.applications[id]; ok {
		cp := *app
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockMentorshipRepo) UpdateApplicationStatus(ctx context.Context, id string, status models.MentorshipStatus) error {
	if app, ok := m.applications[id]; ok {
		app.Status = status
	}
	return nil
}

func (m *mockMentorshipRepo) FindMentorByApplication(ctx context.Context, applicationID string) (*models.Mentor, error) {
	if mentor, ok := m.mentors[applicationID]; ok {
		cp := *mentor
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockMentorshipRepo) InsertMentor(ctx context.Context, mentor *models.Mentor) error {
	if m.mentors == nil {
		m.mentors = make(map[string]*models.Mentor)
	}
	m.inserts++
	cp := *mentor
	m.mentors[mentor.MentorshipApplicationID] = &cp
	return nil
}

func (m *mockMentorshipRepo) UpdateMentor(ctx context.Context, mentor *models.Mentor) error {
	m.updates++
	cp := *mentor
	m.mentors[mentor.MentorshipApplicationID] = &cp
	return nil
}

func (m *mockMentorshipRepo) DeactivateMentor(ctx context.Context, applicationID string) error {
	m.deactivated = append(m.deactivated, applicationID)
	if mentor, ok := m.mentors[applicationID]; ok {
		mentor.IsActive = false
	}
	return nil
}

func (m *mockMentorshipRepo) ListActiveMentors(ctx context.Context) ([]models.Mentor, error) {
	out := make([]models.Mentor, 0, len(m.mentors))
	for _, mentor := range m.mentors {
		if mentor.IsActive {
			out = append(out, *mentor)
		}
	}
	return out, nil
}

func strPtr(s string) *string { return &s }

func newMentorshipFixture(apps map[string]*models.MentorshipApplication) (*mockMentorshipRepo, *MentorshipService) {
	repo := &mockMentorshipRepo{applications: apps, mentors: map[string]*models.Mentor{}}
	return repo, NewMentorshipService(repo, validator.New(), zap.NewNop())
}

func TestMentorshipApprovalCreatesMentor(t *testing.T) {
	repo, svc := newMentorshipFixture(map[string]*models.MentorshipApplication{
		"app1": {
			ID:         "app1",
			Name:       "Mentor One",
			Role:       strPtr("Community Volunteer"),
			Experience: strPtr("Five years teaching"),
			Status:     models.MentorshipStatusPending,
		},
	})

	err := svc.UpdateStatus(context.Background(), UpdateStatusRequest{ID: "app1", Status: "Approved"})
	require.NoError(t, err)

	mentor := repo.mentors["app1"]
	require.NotNil(t, mentor)
	assert.True(t, mentor.IsActive)
	assert.Equal(t, "Mentor One", mentor.Name)
	assert.Equal(t, "Community Volunteer", mentor.Role)
	assert.Equal(t, "Five years teaching", mentor.Description)
	assert.Equal(t, models.MentorTypeVolunteer, mentor.Type)
}

func TestMentorshipApprovalDefaults(t *testing.T) {
	repo, svc := newMentorshipFixture(map[string]*models.MentorshipApplication{
		"app1": {ID: "app1", Name: "Bare", Status: models.MentorshipStatusPending},
	})

	require.NoError(t, svc.UpdateStatus(context.Background(), UpdateStatusRequest{ID: "app1", Status: "Approved"}))

	mentor := repo.mentors["app1"]
	require.NotNil(t, mentor)
	assert.Equal(t, "Contributor", mentor.Role)
	assert.Equal(t, "Contributing to Bitcoin education in Africa.", mentor.Description)
	assert.Equal(t, models.MentorTypeMentor, mentor.Type)
}

func TestMentorshipDescriptionFallbackAndTruncation(t *testing.T) {
	long := strings.Repeat("x", 250)
	repo, svc := newMentorshipFixture(map[string]*models.MentorshipApplication{
		"app1": {
			ID:         "app1",
			Name:       "Verbose",
			Motivation: strPtr(long),
			Status:     models.MentorshipStatusPending,
		},
	})

	require.NoError(t, svc.UpdateStatus(context.Background(), UpdateStatusRequest{ID: "app1", Status: "Approved"}))
	require.NotNil(t, repo.mentors["app1"])
	assert.Len(t, repo.mentors["app1"].Description, 200)
}

func TestMentorshipDoubleApprovalReusesMentorRow(t *testing.T) {
	repo, svc := newMentorshipFixture(map[string]*models.MentorshipApplication{
		"app1": {ID: "app1", Name: "Repeat", Status: models.MentorshipStatusPending},
	})

	require.NoError(t, svc.UpdateStatus(context.Background(), UpdateStatusRequest{ID: "app1", Status: "Approved"}))
	require.NoError(t, svc.UpdateStatus(context.Background(), UpdateStatusRequest{ID: "app1", Status: "Approved"}))

	assert.Equal(t, 1, repo.inserts)
	assert.Equal(t, 1, repo.updates)
	assert.Len(t, repo.mentors, 1)
}

func TestMentorshipLeavingApprovedDeactivates(t *testing.T) {
	repo, svc := newMentorshipFixture(map[string]*models.MentorshipApplication{
		"app1": {ID: "app1", Name: "Departing", Status: models.MentorshipStatusPending},
	})

	require.NoError(t, svc.UpdateStatus(context.Background(), UpdateStatusRequest{ID: "app1", Status: "Approved"}))
	require.NoError(t, svc.UpdateStatus(context.Background(), UpdateStatusRequest{ID: "app1", Status: "Rejected"}))

	assert.Equal(t, []string{"app1"}, repo.deactivated)
	assert.False(t, repo.mentors["app1"].IsActive)

	mentors, err := svc.ActiveMentors(context.Background())
	require.NoError(t, err)
	assert.Empty(t, mentors)
}

func TestMentorshipReapprovalReactivatesSameRow(t *testing.T) {
	repo, svc := newMentorshipFixture(map[string]*models.MentorshipApplication{
		"app1": {ID: "app1", Name: "Boomerang", Status: models.MentorshipStatusPending},
	})

	require.NoError(t, svc.UpdateStatus(context.Background(), UpdateStatusRequest{ID: "app1", Status: "Approved"}))
	require.NoError(t, svc.UpdateStatus(context.Background(), UpdateStatusRequest{ID: "app1", Status: "Rejected"}))
	require.NoError(t, svc.UpdateStatus(context.Background(), UpdateStatusRequest{ID: "app1", Status: "Approved"}))

	assert.Equal(t, 1, repo.inserts)
	assert.True(t, repo.mentors["app1"].IsActive)
}

func TestMentorshipNonApprovedTransitionTouchesNothing(t *testing.T) {
	repo, svc := newMentorshipFixture(map[string]*models.MentorshipApplication{
		"app1": {ID: "app1", Name: "Waiting", Status: models.MentorshipStatusPending},
	})

	require.NoError(t, svc.UpdateStatus(context.Background(), UpdateStatusRequest{ID: "app1", Status: "Rejected"}))
	assert.Empty(t, repo.mentors)
	assert.Empty(t, repo.deactivated)
}

func TestMentorshipUnknownApplication(t *testing.T) {
	_, svc := newMentorshipFixture(map[string]*models.MentorshipApplication{})

	err := svc.UpdateStatus(context.Background(), UpdateStatusRequest{ID: "missing", Status: "Approved"})
	require.Error(t, err)
}
