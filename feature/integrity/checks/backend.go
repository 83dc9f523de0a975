package checks

import (
	"context"
	"time"

	"quiz-manager/core/domain"
)

// Lister is the backend call used to probe the quiz API.
type Lister interface {
	ListQuizzes(ctx context.Context) ([]domain.Quiz, error)
}

// BackendReport describes the reachability of the quiz API.
type BackendReport struct {
	Reachable bool   `json:"reachable"`
	Quizzes   int    `json:"quizzes"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// CheckBackend lists quizzes once and reports the outcome.
func CheckBackend(ctx context.Context, backend Lister, timeout time.Duration) BackendReport {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	quizzes, err := backend.ListQuizzes(ctx)
	report := BackendReport{LatencyMs: time.Since(start).Milliseconds()}
	if err != nil {
		report.Error = err.Error()
		return report
	}
	report.Reachable = true
	report.Quizzes = len(quizzes)
	return report
}
