package items

import (
	"context"
	"fmt"
	"sync"

	"quiz-manager/core/domain"
	"quiz-manager/core/generation"
	"quiz-manager/core/reconcile"

	"go.uber.org/zap"
)

// Backend is the subset of the REST client the editor needs.
type Backend interface {
	ListItems(ctx context.Context, variantID string) ([]domain.Item, error)
	reconcile.Mutator
}

// View is the baseline of the variant being edited.
type View struct {
	QuizID    string        `json:"quiz_id"`
	VariantID string        `json:"variant_id"`
	Items     []domain.Item `json:"items"`
	Text      string        `json:"text"`
}

// SaveResult reports a save or restore.
type SaveResult struct {
	Plan   *reconcile.Plan        `json:"plan"`
	Result *reconcile.ApplyResult `json:"result,omitempty"`
	// Backup is the key of the baseline snapshot taken before deleting.
	Backup string `json:"backup,omitempty"`
	// Stale is set when the view switched variants while the save was in
	// flight. The remote changes were applied but the local baseline was
	// not updated.
	Stale bool `json:"stale"`
}

// Editor edits the items of one quiz, one variant at a time.
//
// Switching the viewed variant supersedes in-flight loads and saves: their
// results are discarded when they complete, so a late response for a
// previous variant never replaces the current baseline.
type Editor struct {
	quizID  string
	backend Backend
	applier *reconcile.Applier
	backup  Backup
	delim   reconcile.Delimiter
	logger  *zap.Logger

	guard    generation.Guard
	mu       sync.RWMutex
	variant  string
	baseline []domain.Item
	loaded   bool
}

// NewEditor creates an editor for quizID. A nil backup disables backups.
func NewEditor(quizID string, backend Backend, applier *reconcile.Applier, backup Backup, delim reconcile.Delimiter, logger *zap.Logger) *Editor {
	if backup == nil {
		backup = NopBackup{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if delim == "" {
		delim = reconcile.DelimiterAuto
	}
	return &Editor{
		quizID:  quizID,
		backend: backend,
		applier: applier,
		backup:  backup,
		delim:   delim,
		logger:  logger.With(zap.String("quiz_id", quizID)),
	}
}

// QuizID returns the quiz being edited.
func (e *Editor) QuizID() string {
	return e.quizID
}

// Current returns the displayed variant and a copy of its baseline.
func (e *Editor) Current() (string, []domain.Item, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.variant, append([]domain.Item(nil), e.baseline...), e.loaded
}

// View switches the displayed variant and loads its baseline. It returns
// generation.ErrStale when another switch happened before the load finished.
func (e *Editor) View(ctx context.Context, variantID string) (*View, error) {
	tok := e.guard.Begin(variantID)
	e.mu.Lock()
	e.variant, e.baseline, e.loaded = variantID, nil, false
	e.mu.Unlock()

	items, err := e.fetchBaseline(ctx, variantID)
	if err != nil {
		if !e.guard.Current(tok) {
			return nil, generation.ErrStale
		}
		return nil, err
	}

	if !e.commit(tok, items) {
		e.logger.Debug("Discarding stale variant load", zap.String("variant_id", variantID))
		return nil, generation.ErrStale
	}
	return e.view(variantID, items), nil
}

// Plan diffs the current baseline against the edited text. It performs no I/O.
func (e *Editor) Plan(text string, delim reconcile.Delimiter) (*reconcile.Plan, error) {
	desired, err := e.desired(text, delim)
	if err != nil {
		return nil, err
	}
	_, baseline, loaded := e.Current()
	if !loaded {
		return nil, &domain.ValidationError{Field: "variant", Reason: "no variant loaded"}
	}
	return reconcile.Reconcile(baseline, desired), nil
}

// Save makes the variant's items match the edited text.
//
// The baseline is re-fetched, diffed and, when the plan deletes items,
// backed up before anything is applied. A destructive plan without
// opts.Confirmed returns the plan together with
// reconcile.ErrConfirmationRequired. Individual failures are reported in
// the result; nothing is retried.
func (e *Editor) Save(ctx context.Context, variantID, text string, delim reconcile.Delimiter, opts reconcile.ReconcileOptions) (*SaveResult, error) {
	desired, err := e.desired(text, delim)
	if err != nil {
		return nil, err
	}
	return e.save(ctx, variantID, desired, opts)
}

// Restore reconciles the variant back to a snapshot: the named one, or the
// newest when key is empty.
func (e *Editor) Restore(ctx context.Context, variantID, key string, opts reconcile.ReconcileOptions) (*SaveResult, error) {
	target := reconcile.Target{QuizID: e.quizID, VariantID: variantID}

	var snap *Snapshot
	var err error
	if key == "" {
		snap, err = e.backup.Latest(ctx, target)
	} else {
		snap, err = e.backup.Get(ctx, key)
	}
	if err != nil {
		return nil, err
	}
	if snap.Target != target {
		return nil, &domain.ValidationError{
			Field:  "backup",
			Reason: fmt.Sprintf("snapshot belongs to quiz %s variant %s", snap.Target.QuizID, snap.Target.VariantID),
		}
	}

	e.logger.Info("Restoring variant from backup",
		zap.String("variant_id", variantID),
		zap.String("key", snap.Key),
	)
	return e.save(ctx, variantID, domain.Names(snap.Items), opts)
}

// Backups lists the snapshots of a variant, newest first.
func (e *Editor) Backups(ctx context.Context, variantID string) ([]BackupInfo, error) {
	return e.backup.List(ctx, reconcile.Target{QuizID: e.quizID, VariantID: variantID})
}

func (e *Editor) save(ctx context.Context, variantID string, desired []string, opts reconcile.ReconcileOptions) (*SaveResult, error) {
	tok := e.guard.Begin(variantID)
	target := reconcile.Target{QuizID: e.quizID, VariantID: variantID}

	baseline, err := e.fetchBaseline(ctx, variantID)
	if err != nil {
		return nil, err
	}
	e.commit(tok, baseline)

	plan := reconcile.Reconcile(baseline, desired)
	out := &SaveResult{Plan: plan}

	if plan.Destructive() && !opts.DryRun {
		if !opts.Confirmed {
			return out, reconcile.ErrConfirmationRequired
		}
		key, err := e.backup.Save(ctx, target, baseline)
		if err != nil {
			return out, fmt.Errorf("backup before save failed, nothing applied: %w", err)
		}
		out.Backup = key
	}

	result, err := e.applier.Apply(ctx, target, plan, opts)
	if err != nil {
		return out, err
	}
	out.Result = result

	if !result.Skipped {
		if !e.commit(tok, result.Baseline(baseline)) {
			out.Stale = true
			e.logger.Info("Variant switched during save, baseline not updated", zap.String("variant_id", variantID))
		}
	}
	return out, nil
}

func (e *Editor) desired(text string, delim reconcile.Delimiter) ([]string, error) {
	if delim == "" {
		delim = e.delim
	}
	desired := reconcile.ParseDesired(text, delim)
	if err := reconcile.ValidateNames(desired); err != nil {
		return nil, err
	}
	return desired, nil
}

func (e *Editor) fetchBaseline(ctx context.Context, variantID string) ([]domain.Item, error) {
	fetched, err := e.backend.ListItems(ctx, variantID)
	if err != nil {
		return nil, fmt.Errorf("items of variant %s: %w", variantID, err)
	}
	items := make([]domain.Item, 0, len(fetched))
	for _, item := range fetched {
		if item.BelongsTo(e.quizID, variantID) {
			items = append(items, item)
		}
	}
	return items, nil
}

func (e *Editor) commit(tok generation.Token, items []domain.Item) bool {
	return e.guard.Commit(tok, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.variant, e.baseline, e.loaded = tok.Target, items, true
	})
}

func (e *Editor) view(variantID string, items []domain.Item) *View {
	return &View{
		QuizID:    e.quizID,
		VariantID: variantID,
		Items:     items,
		Text:      reconcile.FormatNames(domain.Names(items), e.delim),
	}
}
