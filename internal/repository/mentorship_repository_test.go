package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btc-academy/academy-api/internal/models"
)

func newMentorshipMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestMentorshipRepositoryListApplicationsFiltered(t *testing.T) {
	db, mock, cleanup := newMentorshipMock(t)
	defer cleanup()
	repo := NewMentorshipRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "email", "role", "experience", "motivation", "status", "created_at", "updated_at"}).
		AddRow("m1", "Alice", nil, nil, nil, nil, "Pending", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM mentorship_applications WHERE status = $1 ORDER BY created_at DESC")).
		WithArgs("Pending").
		WillReturnRows(rows)

	applications, err := repo.ListApplications(context.Background(), "Pending")
	require.NoError(t, err)
	require.Len(t, applications, 1)
	assert.Equal(t, "Alice", applications[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMentorshipRepositoryListApplicationsAll(t *testing.T) {
	db, mock, cleanup := newMentorshipMock(t)
	defer cleanup()
	repo := NewMentorshipRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "email", "role", "experience", "motivation", "status", "created_at", "updated_at"}).
		AddRow("m1", "Alice", nil, nil, nil, nil, "Pending", now, now).
		AddRow("m2", "Bob", nil, nil, nil, nil, "Approved", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM mentorship_applications ORDER BY created_at DESC")).
		WillReturnRows(rows)

	applications, err := repo.ListApplications(context.Background(), "all")
	require.NoError(t, err)
	assert.Len(t, applications, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMentorshipRepositoryFindApplicationNotFound(t *testing.T) {
	db, mock, cleanup := newMentorshipMock(t)
	defer cleanup()
	repo := NewMentorshipRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM mentorship_applications WHERE id = $1 LIMIT 1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindApplication(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMentorshipRepositoryUpdateApplicationStatus(t *testing.T) {
	db, mock, cleanup := newMentorshipMock(t)
	defer cleanup()
	repo := NewMentorshipRepository(db)

	mock.ExpectExec("UPDATE mentorship_applications SET status").
		WithArgs("m1", models.MentorshipStatusApproved, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateApplicationStatus(context.Background(), "m1", models.MentorshipStatusApproved))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMentorshipRepositoryInsertMentor(t *testing.T) {
	db, mock, cleanup := newMentorshipMock(t)
	defer cleanup()
	repo := NewMentorshipRepository(db)

	mock.ExpectExec("INSERT INTO mentors").
		WithArgs(sqlmock.AnyArg(), "m1", "Alice", "Developer", "Bio", models.MentorTypeVolunteer, true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	mentor := &models.Mentor{
		MentorshipApplicationID: "m1",
		Name:                    "Alice",
		Role:                    "Developer",
		Description:             "Bio",
		Type:                    models.MentorTypeVolunteer,
		IsActive:                true,
	}
	require.NoError(t, repo.InsertMentor(context.Background(), mentor))
	assert.NotEmpty(t, mentor.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMentorshipRepositoryDeactivateMentor(t *testing.T) {
	db, mock, cleanup := newMentorshipMock(t)
	defer cleanup()
	repo := NewMentorshipRepository(db)

	mock.ExpectExec("UPDATE mentors SET is_active = FALSE").
		WithArgs("m1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeactivateMentor(context.Background(), "m1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMentorshipRepositoryListActiveMentors(t *testing.T) {
	db, mock, cleanup := newMentorshipMock(t)
	defer cleanup()
	repo := NewMentorshipRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "mentorship_application_id", "name", "role", "description", "type", "is_active", "created_at", "updated_at"}).
		AddRow("mt1", "m1", "Alice", "Developer", "Bio", "Volunteer", true, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM mentors WHERE is_active = TRUE ORDER BY created_at DESC")).
		WillReturnRows(rows)

	mentors, err := repo.ListActiveMentors(context.Background())
	require.NoError(t, err)
	require.Len(t, mentors, 1)
	assert.Equal(t, models.MentorTypeVolunteer, mentors[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}
