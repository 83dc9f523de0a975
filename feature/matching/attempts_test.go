package matching

import (
	"context"
	"testing"
	"time"

	"quiz-manager/core/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestGormAttempts_Record(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormAttempts(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `matching_attempts`").
		WithArgs("s-1", "1", 2, 3, 67, false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	attempt := &Attempt{SessionID: "s-1", QuizID: "1", Correct: 2, Total: 3, Percent: 67}
	require.NoError(t, repo.Record(context.Background(), attempt))
	assert.EqualValues(t, 7, attempt.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormAttempts_ListByQuiz(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormAttempts(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "session_id", "quiz_id", "correct", "total", "percent", "perfect", "created_at"}).
		AddRow(2, "s-2", "1", 3, 3, 100, true, now).
		AddRow(1, "s-1", "1", 2, 3, 67, false, now.Add(-time.Minute))
	mock.ExpectQuery("SELECT \\* FROM `matching_attempts` WHERE quiz_id = \\? ORDER BY created_at desc LIMIT").
		WillReturnRows(rows)

	attempts, err := repo.ListByQuiz(context.Background(), "1", 10)
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.True(t, attempts[0].Perfect)
	assert.Equal(t, 67, attempts[1].Percent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormAttempts_SQLite(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	repo := NewGormAttempts(db)
	require.NoError(t, repo.Migrate())

	ctx := context.Background()
	require.NoError(t, repo.Record(ctx, &Attempt{SessionID: "s-1", QuizID: "1", Correct: 1, Total: 3, Percent: 33}))
	require.NoError(t, repo.Record(ctx, &Attempt{SessionID: "s-2", QuizID: "2", Correct: 2, Total: 2, Percent: 100, Perfect: true}))

	attempts, err := repo.ListByQuiz(ctx, "1", 0)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, "s-1", attempts[0].SessionID)
}
