package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChapterProgressMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestChapterProgressRepositoryListByStudent(t *testing.T) {
	db, mock, cleanup := newChapterProgressMock(t)
	defer cleanup()
	repo := NewChapterProgressRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "student_id", "chapter_number", "is_unlocked", "is_completed", "created_at", "updated_at"}).
		AddRow("cp1", "s1", 1, true, true, now, now).
		AddRow("cp2", "s1", 2, true, false, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM chapter_progress WHERE student_id = $1 ORDER BY chapter_number ASC")).
		WithArgs("s1").
		WillReturnRows(rows)

	progress, err := repo.ListByStudent(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, progress, 2)
	assert.Equal(t, 1, progress[0].ChapterNumber)
	assert.True(t, progress[0].IsCompleted)
	assert.False(t, progress[1].IsCompleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChapterProgressRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newChapterProgressMock(t)
	defer cleanup()
	repo := NewChapterProgressRepository(db)

	mock.ExpectExec("INSERT INTO chapter_progress").
		WithArgs(sqlmock.AnyArg(), "s1", 4, true, true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Upsert(context.Background(), "s1", 4, true, true))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChapterProgressRepositoryUnlock(t *testing.T) {
	db, mock, cleanup := newChapterProgressMock(t)
	defer cleanup()
	repo := NewChapterProgressRepository(db)

	mock.ExpectExec("INSERT INTO chapter_progress").
		WithArgs(sqlmock.AnyArg(), "s1", 5, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Unlock(context.Background(), "s1", 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChapterProgressRepositoryCountsByStudent(t *testing.T) {
	db, mock, cleanup := newChapterProgressMock(t)
	defer cleanup()
	repo := NewChapterProgressRepository(db)

	rows := sqlmock.NewRows([]string{"student_id", "completed", "unlocked"}).
		AddRow("s1", 10, 11).
		AddRow("s2", 0, 1)
	mock.ExpectQuery(regexp.QuoteMeta("FROM chapter_progress GROUP BY student_id")).WillReturnRows(rows)

	counts, err := repo.CountsByStudent(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, 10, counts["s1"].Completed)
	assert.Equal(t, 11, counts["s1"].Unlocked)
	assert.Equal(t, 1, counts["s2"].Unlocked)
	assert.NoError(t, mock.ExpectationsWereMet())
}
