package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/btc-academy/academy-api/internal/models"
)

type mockAdminRepo struct {
	admins map[string]*models.Admin
}

func (m *mockAdminRepo) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	if admin, ok := m.admins[email]; ok {
		cp := *admin
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

type mockProfileRepo struct {
	byEmail map[string]*models.Profile
	byID    map[string]*models.Profile
	created []*models.Profile
}

func (m *mockProfileRepo) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	if profile, ok := m.byEmail[email]; ok {
		cp := *profile
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockProfileRepo) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	if profile, ok := m.byID[id]; ok {
		cp := *profile
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockProfileRepo) Create(ctx context.Context, profile *models.Profile) error {
	if profile.ID == "" {
		profile.ID = "generated"
	}
	cp := *profile
	m.created = append(m.created, &cp)
	if m.byEmail == nil {
		m.byEmail = make(map[string]*models.Profile)
	}
	m.byEmail[profile.Email] = &cp
	return nil
}

type mockStudentRepo struct {
	byProfile map[string]*models.Student
}

func (m *mockStudentRepo) FindByProfileID(ctx context.Context, profileID string) (*models.Student, error) {
	if student, ok := m.byProfile[profileID]; ok {
		cp := *student
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) List(ctx context.Context) ([]models.Student, error) {
	out := make([]models.Student, 0, len(m.byProfile))
	for _, s := range m.byProfile {
		out = append(out, *s)
	}
	return out, nil
}

func newIdentityFixture() (*mockAdminRepo, *mockProfileRepo, *mockStudentRepo, *IdentityService) {
	admins := &mockAdminRepo{admins: map[string]*models.Admin{
		"admin@academy.io": {ID: "a1", Email: "admin@academy.io", Role: "admin"},
	}}
	profiles := &mockProfileRepo{byEmail: map[string]*models.Profile{
		"student@academy.io": {ID: "p1", Email: "student@academy.io", Name: "Student One"},
		"new@academy.io":     {ID: "p2", Email: "new@academy.io", Name: "Newcomer"},
	}}
	students := &mockStudentRepo{byProfile: map[string]*models.Student{
		"p1": {ID: "s1", ProfileID: "p1"},
	}}
	return admins, profiles, students, NewIdentityService(admins, profiles, students, zap.NewNop())
}

func TestIdentityResolveEnrolledStudent(t *testing.T) {
	_, _, _, svc := newIdentityFixture()

	identity, err := svc.Resolve(context.Background(), "student@academy.io")
	require.NoError(t, err)
	assert.Equal(t, "p1", identity.ProfileID)
	assert.Equal(t, "s1", identity.StudentID)
	assert.True(t, identity.IsRegistered)
	assert.True(t, identity.IsEnrolled)
	assert.False(t, identity.IsAdmin)
}

func TestIdentityResolveNormalizesEmail(t *testing.T) {
	_, _, _, svc := newIdentityFixture()

	upper, err := svc.Resolve(context.Background(), "  STUDENT@Academy.IO ")
	require.NoError(t, err)
	lower, err := svc.Resolve(context.Background(), "student@academy.io")
	require.NoError(t, err)
	assert.Equal(t, lower, upper)
}

func TestIdentityResolveRegisteredNotEnrolled(t *testing.T) {
	_, _, _, svc := newIdentityFixture()

	identity, err := svc.Resolve(context.Background(), "new@academy.io")
	require.NoError(t, err)
	assert.True(t, identity.IsRegistered)
	assert.False(t, identity.IsEnrolled)
	assert.Equal(t, "p2", identity.ProfileID)
	assert.Empty(t, identity.StudentID)
}

func TestIdentityResolveUnknownEmail(t *testing.T) {
	_, _, _, svc := newIdentityFixture()

	identity, err := svc.Resolve(context.Background(), "nobody@academy.io")
	require.NoError(t, err)
	assert.False(t, identity.IsRegistered)
	assert.False(t, identity.IsEnrolled)
	assert.False(t, identity.IsAdmin)
}

func TestIdentityResolveAdminBypass(t *testing.T) {
	_, _, _, svc := newIdentityFixture()

	identity, err := svc.Resolve(context.Background(), "Admin@Academy.io")
	require.NoError(t, err)
	assert.True(t, identity.IsAdmin)
	assert.True(t, identity.IsRegistered)
	assert.True(t, identity.IsEnrolled)
}

func TestIdentityResolveEmptyEmail(t *testing.T) {
	_, _, _, svc := newIdentityFixture()

	_, err := svc.Resolve(context.Background(), "   ")
	require.Error(t, err)
}
