package matching

import (
	"context"
	"fmt"
	"strings"
	"time"

	"quiz-manager/core/database"

	"gorm.io/gorm"
)

// Attempt is one recorded validation of a matching session.
type Attempt struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID string    `gorm:"size:36;index" json:"session_id"`
	QuizID    string    `gorm:"size:64;index" json:"quiz_id"`
	Correct   int       `json:"correct"`
	Total     int       `json:"total"`
	Percent   int       `json:"percent"`
	Perfect   bool      `json:"perfect"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the gorm table name.
func (Attempt) TableName() string {
	return "matching_attempts"
}

// AttemptStore persists attempts.
type AttemptStore interface {
	Record(ctx context.Context, attempt *Attempt) error
	ListByQuiz(ctx context.Context, quizID string, limit int) ([]Attempt, error)
}

// GormAttempts stores attempts with gorm.
type GormAttempts struct {
	db *gorm.DB
}

// NewGormAttempts creates a gorm-backed attempt store.
func NewGormAttempts(db *gorm.DB) *GormAttempts {
	return &GormAttempts{db: db}
}

var attemptColumns = []string{"id", "session_id", "quiz_id", "correct", "total", "percent", "perfect", "created_at"}

// Migrate creates the attempts table and verifies its columns.
func (r *GormAttempts) Migrate() error {
	if err := r.db.AutoMigrate(&Attempt{}); err != nil {
		return fmt.Errorf("failed to migrate attempts: %w", err)
	}
	missing, err := database.MissingColumns(r.db, Attempt{}.TableName(), attemptColumns)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("attempts table is missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (r *GormAttempts) Record(ctx context.Context, attempt *Attempt) error {
	if err := r.db.WithContext(ctx).Create(attempt).Error; err != nil {
		return fmt.Errorf("failed to record attempt: %w", err)
	}
	return nil
}

// ListByQuiz returns the newest attempts of a quiz first.
func (r *GormAttempts) ListByQuiz(ctx context.Context, quizID string, limit int) ([]Attempt, error) {
	if limit <= 0 {
		limit = 50
	}
	var attempts []Attempt
	err := r.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("created_at desc").
		Limit(limit).
		Find(&attempts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	return attempts, nil
}
