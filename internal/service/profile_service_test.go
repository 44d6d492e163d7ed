package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/btc-academy/academy-api/internal/models"
	appErrors "github.com/btc-academy/academy-api/pkg/errors"
)

func TestProfileRegisterCreatesProfile(t *testing.T) {
	repo := &mockProfileRepo{}
	svc := NewProfileService(repo, nil, zap.NewNop())

	profile, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Alice",
		Email:    "  Alice@Academy.IO ",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@academy.io", profile.Email)
	assert.Equal(t, "New", profile.Status)
	require.NotNil(t, profile.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(*profile.PasswordHash), []byte("hunter2hunter2")))
	require.Len(t, repo.created, 1)
}

func TestProfileRegisterWithoutPassword(t *testing.T) {
	repo := &mockProfileRepo{}
	svc := NewProfileService(repo, nil, zap.NewNop())

	profile, err := svc.Register(context.Background(), RegisterRequest{
		Name:  "Bob",
		Email: "bob@academy.io",
	})
	require.NoError(t, err)
	assert.Nil(t, profile.PasswordHash)
}

func TestProfileRegisterIdempotent(t *testing.T) {
	repo := &mockProfileRepo{byEmail: map[string]*models.Profile{
		"alice@academy.io": {ID: "p1", Email: "alice@academy.io", Name: "Alice"},
	}}
	svc := NewProfileService(repo, nil, zap.NewNop())

	profile, err := svc.Register(context.Background(), RegisterRequest{
		Name:  "Someone Else",
		Email: "ALICE@academy.io",
	})
	require.NoError(t, err)
	assert.Equal(t, "p1", profile.ID)
	assert.Equal(t, "Alice", profile.Name)
	assert.Empty(t, repo.created)
}

func TestProfileRegisterValidation(t *testing.T) {
	svc := NewProfileService(&mockProfileRepo{}, nil, zap.NewNop())

	_, err := svc.Register(context.Background(), RegisterRequest{Name: "Alice", Email: "not-an-email"})
	require.Error(t, err)

	_, err = svc.Register(context.Background(), RegisterRequest{Name: "Alice", Email: "a@b.io", Password: "short"})
	require.Error(t, err)
}

func TestProfileGetNotFound(t *testing.T) {
	svc := NewProfileService(&mockProfileRepo{}, nil, zap.NewNop())

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}
