package items

import (
	"context"
	"sort"
	"sync"
	"time"

	"quiz-manager/core/reconcile"

	"go.uber.org/zap"
)

// Config bounds the editors a Service keeps.
type Config struct {
	// MaxEditors caps cached editors; the least recently used is dropped.
	MaxEditors int
	// IdleTTL drops editors unused for longer than this.
	IdleTTL time.Duration
}

const (
	defaultMaxEditors = 256
	defaultIdleTTL    = 30 * time.Minute
)

type cachedEditor struct {
	editor *Editor
	used   time.Time
}

// Service hands out one Editor per quiz and resolves request options.
type Service struct {
	backend Backend
	applier *reconcile.Applier
	backup  Backup
	delim   reconcile.Delimiter
	cfg     Config
	logger  *zap.Logger
	now     func() time.Time

	mu      sync.Mutex
	editors map[string]*cachedEditor
}

// NewService creates an items service. Zero limits in cfg use the defaults.
func NewService(backend Backend, applier *reconcile.Applier, backup Backup, delim reconcile.Delimiter, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxEditors < 1 {
		cfg.MaxEditors = defaultMaxEditors
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = defaultIdleTTL
	}
	return &Service{
		backend: backend,
		applier: applier,
		backup:  backup,
		delim:   delim,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
		editors: make(map[string]*cachedEditor),
	}
}

// Editor returns the editor of quizID, creating it on first use. Idle
// editors are dropped; a dropped quiz starts over with an unloaded editor.
func (s *Service) Editor(quizID string) *Editor {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if c, ok := s.editors[quizID]; ok && now.Sub(c.used) <= s.cfg.IdleTTL {
		c.used = now
		return c.editor
	}
	s.evictLocked(now)
	ed := NewEditor(quizID, s.backend, s.applier, s.backup, s.delim, s.logger)
	s.editors[quizID] = &cachedEditor{editor: ed, used: now}
	return ed
}

// Len returns the number of cached editors.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.editors)
}

func (s *Service) evictLocked(now time.Time) {
	for id, c := range s.editors {
		if now.Sub(c.used) > s.cfg.IdleTTL {
			delete(s.editors, id)
		}
	}
	if len(s.editors) < s.cfg.MaxEditors {
		return
	}
	ids := make([]string, 0, len(s.editors))
	for id := range s.editors {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return s.editors[ids[i]].used.Before(s.editors[ids[j]].used)
	})
	for _, id := range ids[:len(ids)-s.cfg.MaxEditors+1] {
		s.logger.Debug("Dropping idle editor", zap.String("quiz_id", id))
		delete(s.editors, id)
	}
}

// View switches the quiz's editor to variantID.
func (s *Service) View(ctx context.Context, quizID, variantID string) (*View, error) {
	return s.Editor(quizID).View(ctx, variantID)
}

// Plan previews the operations a save of text would perform.
func (s *Service) Plan(ctx context.Context, quizID, variantID, text, delimiter string) (*reconcile.Plan, error) {
	delim, err := s.delimiter(delimiter)
	if err != nil {
		return nil, err
	}
	ed := s.Editor(quizID)
	if current, _, loaded := ed.Current(); current != variantID || !loaded {
		if _, err := ed.View(ctx, variantID); err != nil {
			return nil, err
		}
	}
	return ed.Plan(text, delim)
}

// Save reconciles the variant to text.
func (s *Service) Save(ctx context.Context, quizID, variantID, text, delimiter string, opts reconcile.ReconcileOptions) (*SaveResult, error) {
	delim, err := s.delimiter(delimiter)
	if err != nil {
		return nil, err
	}
	return s.Editor(quizID).Save(ctx, variantID, text, delim, opts)
}

// Restore reconciles the variant back to a backup.
func (s *Service) Restore(ctx context.Context, quizID, variantID, key string, opts reconcile.ReconcileOptions) (*SaveResult, error) {
	return s.Editor(quizID).Restore(ctx, variantID, key, opts)
}

// Backups lists the backups of a variant.
func (s *Service) Backups(ctx context.Context, quizID, variantID string) ([]BackupInfo, error) {
	return s.Editor(quizID).Backups(ctx, variantID)
}

func (s *Service) delimiter(value string) (reconcile.Delimiter, error) {
	if value == "" {
		return s.delim, nil
	}
	return reconcile.ParseDelimiter(value)
}
