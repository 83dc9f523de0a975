package matching

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"quiz-manager/core/domain"
	"quiz-manager/feature/quiz"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AggregateLoader loads quizzes for new sessions.
type AggregateLoader interface {
	Load(ctx context.Context, quizID string) (*quiz.Aggregate, error)
}

// Config holds configuration for matching sessions.
type Config struct {
	// MaxSessions caps live sessions; the least recently used is evicted.
	MaxSessions int
	// SessionTTL expires idle sessions.
	SessionTTL time.Duration
	// Shuffle randomizes the order of unmatched items.
	Shuffle bool
}

// Session is one player's game.
type Session struct {
	ID        string    `json:"id"`
	QuizID    string    `json:"quiz_id"`
	CreatedAt time.Time `json:"created_at"`

	engine *Engine
	used   time.Time
}

// Engine returns the session's state machine.
func (s *Session) Engine() *Engine {
	return s.engine
}

// SessionView is a session with its engine snapshot.
type SessionView struct {
	*Session
	Warnings []domain.PartialLoadWarning `json:"warnings,omitempty"`
	State    Snapshot                    `json:"state"`
}

// Service manages matching sessions and records their attempts.
type Service struct {
	loader   AggregateLoader
	attempts AttemptStore
	cfg      Config
	logger   *zap.Logger
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewService creates a matching service. A nil store disables attempt history.
func NewService(loader AggregateLoader, attempts AttemptStore, cfg Config, logger *zap.Logger) *Service {
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 1000
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		loader:   loader,
		attempts: attempts,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Start loads a quiz into a new session.
func (s *Service) Start(ctx context.Context, quizID string) (*SessionView, error) {
	sess := &Session{ID: uuid.NewString(), QuizID: quizID, engine: NewEngine()}
	warnings, err := s.load(ctx, sess)
	if err != nil {
		return nil, err
	}

	now := s.now()
	sess.CreatedAt, sess.used = now, now

	s.mu.Lock()
	s.evictLocked(now)
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.logger.Info("Matching session started",
		zap.String("session_id", sess.ID),
		zap.String("quiz_id", quizID),
	)
	return &SessionView{Session: sess, Warnings: warnings, State: sess.engine.Snapshot()}, nil
}

// Get returns a session. Unknown and expired sessions yield domain.ErrNotFound.
func (s *Service) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	now := s.now()
	if !ok || now.Sub(sess.used) > s.cfg.SessionTTL {
		delete(s.sessions, id)
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	sess.used = now
	return sess, nil
}

// View returns the session and its current state.
func (s *Service) View(id string) (*SessionView, error) {
	sess, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return &SessionView{Session: sess, State: sess.engine.Snapshot()}, nil
}

// Select toggles the selection of an item.
func (s *Service) Select(id, itemID string) (*SessionView, error) {
	return s.mutate(id, func(e *Engine) error {
		return e.Select(itemID)
	})
}

// Assign moves the selected item to target.
func (s *Service) Assign(id, target string) (*SessionView, error) {
	return s.mutate(id, func(e *Engine) error {
		_, err := e.AssignSelectedTo(target)
		return err
	})
}

// Drop applies a drag-style move.
func (s *Service) Drop(id string, ev DropEvent) (*SessionView, error) {
	return s.mutate(id, func(e *Engine) error {
		_, err := ApplyDrop(e, ev)
		return err
	})
}

// Tap applies a tap-style interaction.
func (s *Service) Tap(id string, ev TapEvent) (*SessionView, error) {
	return s.mutate(id, func(e *Engine) error {
		_, err := ApplyTap(e, ev)
		return err
	})
}

// Reset returns every item to the unmatched pool. With reload the quiz is
// fetched again, so edits made since the session started are picked up.
func (s *Service) Reset(ctx context.Context, id string, reload bool) (*SessionView, error) {
	sess, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	sess.engine.Reset()

	var warnings []domain.PartialLoadWarning
	if reload {
		if warnings, err = s.load(ctx, sess); err != nil {
			return nil, err
		}
	}
	return &SessionView{Session: sess, Warnings: warnings, State: sess.engine.Snapshot()}, nil
}

// Validate scores the session and records the attempt. A recording failure
// is logged and does not fail the validation.
func (s *Service) Validate(ctx context.Context, id string) (ValidationResult, error) {
	sess, err := s.Get(id)
	if err != nil {
		return ValidationResult{}, err
	}
	res, fresh := sess.engine.Evaluate()

	if s.attempts != nil && fresh {
		attempt := &Attempt{
			SessionID: sess.ID,
			QuizID:    sess.QuizID,
			Correct:   res.Correct,
			Total:     res.Total,
			Percent:   res.Percent(),
			Perfect:   res.Perfect,
		}
		if err := s.attempts.Record(ctx, attempt); err != nil {
			s.logger.Warn("Failed to record attempt", zap.String("session_id", sess.ID), zap.Error(err))
		}
	}
	return res, nil
}

// Attempts returns the recorded attempts of a quiz, newest first.
func (s *Service) Attempts(ctx context.Context, quizID string, limit int) ([]Attempt, error) {
	if s.attempts == nil {
		return []Attempt{}, nil
	}
	return s.attempts.ListByQuiz(ctx, quizID, limit)
}

// Close ends a session.
func (s *Service) Close(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *Service) load(ctx context.Context, sess *Session) ([]domain.PartialLoadWarning, error) {
	tok := sess.engine.Begin(sess.QuizID)
	agg, err := s.loader.Load(ctx, sess.QuizID)
	if err != nil {
		return nil, err
	}

	buckets := make([]Bucket, 0, len(agg.Variants))
	var items []Item
	for _, v := range agg.Variants {
		vid := v.ID.String()
		buckets = append(buckets, Bucket{ID: vid, Name: v.Name})
		for _, it := range agg.Items(vid) {
			items = append(items, Item{ID: it.ID.String(), Name: it.Name, CorrectVariant: vid})
		}
	}
	if s.cfg.Shuffle {
		rand.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
	}

	if err := sess.engine.LoadItems(tok, buckets, items); err != nil {
		return nil, err
	}
	return agg.Warnings, nil
}

func (s *Service) mutate(id string, fn func(*Engine) error) (*SessionView, error) {
	sess, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := fn(sess.engine); err != nil {
		return nil, err
	}
	return &SessionView{Session: sess, State: sess.engine.Snapshot()}, nil
}

// evictLocked drops expired sessions and, at capacity, the least recently
// used ones.
func (s *Service) evictLocked(now time.Time) {
	for id, sess := range s.sessions {
		if now.Sub(sess.used) > s.cfg.SessionTTL {
			delete(s.sessions, id)
		}
	}
	if len(s.sessions) < s.cfg.MaxSessions {
		return
	}
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return s.sessions[ids[i]].used.Before(s.sessions[ids[j]].used)
	})
	for _, id := range ids[:len(ids)-s.cfg.MaxSessions+1] {
		delete(s.sessions, id)
	}
}
