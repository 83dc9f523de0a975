package matching

import (
	"fmt"
	"math"
	"sync"

	"quiz-manager/core/domain"
	"quiz-manager/core/generation"
	"quiz-manager/core/ref"
)

// Unmatched is the target that returns an item to the unmatched pool.
const Unmatched = "unmatched"

// State is the position of an item in the game.
type State string

const (
	StateUnmatched State = "unmatched"
	StateSelected  State = "selected"
	StateAssigned  State = "assigned"
)

// Item is a playable item and the variant it belongs to.
type Item struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	CorrectVariant string `json:"-"`
}

// Bucket is a variant the player can assign items to.
type Bucket struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ItemResult is the outcome for one item.
type ItemResult struct {
	ItemID   string `json:"item_id"`
	Assigned string `json:"assigned"`
	Correct  bool   `json:"correct"`
}

// ValidationResult scores the current assignment. Total always counts
// every item, so unmatched items lower the score.
type ValidationResult struct {
	Correct int          `json:"correct"`
	Total   int          `json:"total"`
	Perfect bool         `json:"perfect"`
	Items   []ItemResult `json:"items"`
}

// Score returns Correct/Total, or 0 without items.
func (r ValidationResult) Score() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total)
}

// Percent returns the score as a whole percentage, rounded to nearest.
func (r ValidationResult) Percent() int {
	return int(math.Round(r.Score() * 100))
}

// ItemState is an item as seen by the player.
type ItemState struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	State    State  `json:"state"`
	Assigned string `json:"assigned,omitempty"`
}

// Snapshot is a read-only view of the engine.
type Snapshot struct {
	QuizID     string              `json:"quiz_id"`
	Buckets    []Bucket            `json:"buckets"`
	Items      []ItemState         `json:"items"`
	Placement  map[string][]string `json:"placement"`
	Selected   string              `json:"selected,omitempty"`
	Validation *ValidationResult   `json:"validation,omitempty"`
}

// Engine is the matching game state machine. Every item is Unmatched,
// Selected or Assigned to a variant. All transitions are serialized.
//
// Loads are tagged with a generation token from Begin; Reset and later
// Begin calls make older tokens stale so a late load cannot resurrect a
// previous quiz.
type Engine struct {
	guard generation.Guard

	mu         sync.Mutex
	quizID     string
	items      []Item
	index      map[string]int
	buckets    []Bucket
	bucketIDs  map[string]struct{}
	assigned   map[string]string
	placement  map[string][]string
	selected   string
	validation *ValidationResult
}

// NewEngine creates an empty engine.
func NewEngine() *Engine {
	e := &Engine{}
	e.clear()
	return e
}

// Begin starts loading quizID and supersedes earlier loads.
func (e *Engine) Begin(quizID string) generation.Token {
	return e.guard.Begin(quizID)
}

// Load installs the quiz's variants and items if tok is still current.
// Items are keyed to the variant they are listed under. Every item starts
// unmatched in the given order.
func (e *Engine) Load(tok generation.Token, variants []domain.Variant, itemsByVariant map[string][]domain.Item) error {
	buckets := make([]Bucket, 0, len(variants))
	var items []Item
	for _, v := range variants {
		vid := v.ID.String()
		buckets = append(buckets, Bucket{ID: vid, Name: v.Name})
		for _, it := range itemsByVariant[vid] {
			items = append(items, Item{ID: it.ID.String(), Name: it.Name, CorrectVariant: vid})
		}
	}
	return e.LoadItems(tok, buckets, items)
}

// LoadItems is Load for already-flattened items.
func (e *Engine) LoadItems(tok generation.Token, buckets []Bucket, items []Item) error {
	committed := e.guard.Commit(tok, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.clear()
		e.quizID = tok.Target
		e.buckets = buckets
		for _, b := range buckets {
			e.bucketIDs[b.ID] = struct{}{}
		}
		for _, it := range items {
			if _, dup := e.index[it.ID]; dup || it.ID == "" {
				continue
			}
			e.index[it.ID] = len(e.items)
			e.items = append(e.items, it)
			e.placement[Unmatched] = append(e.placement[Unmatched], it.ID)
		}
	})
	if !committed {
		return generation.ErrStale
	}
	return nil
}

// Select toggles the selection of itemID. Selecting another item replaces
// the selection.
func (e *Engine) Select(itemID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.index[itemID]; !ok {
		return fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
	}
	if e.selected == itemID {
		e.selected = ""
	} else {
		e.selected = itemID
	}
	return nil
}

// Selected returns the selected item id, or "".
func (e *Engine) Selected() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selected
}

// AssignSelectedTo moves the selected item to target, a variant id or
// Unmatched, and clears the selection. It reports whether anything moved;
// without a selection it does nothing. Any cached validation is dropped.
func (e *Engine) AssignSelectedTo(target string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.selected == "" {
		return false, nil
	}
	if target != Unmatched {
		if _, ok := e.bucketIDs[target]; !ok {
			return false, fmt.Errorf("variant %s: %w", target, domain.ErrNotFound)
		}
	}

	itemID := e.selected
	from := e.bucketOf(itemID)
	e.placement[from] = remove(e.placement[from], itemID)
	e.placement[target] = append(e.placement[target], itemID)
	if target == Unmatched {
		delete(e.assigned, itemID)
	} else {
		e.assigned[itemID] = target
	}
	e.selected = ""
	e.validation = nil
	return true, nil
}

// Reset returns every item to the unmatched pool, clears the selection and
// validation, and makes in-flight loads stale.
func (e *Engine) Reset() {
	e.guard.Invalidate()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.assigned = make(map[string]string)
	e.placement = map[string][]string{Unmatched: {}}
	for _, it := range e.items {
		e.placement[Unmatched] = append(e.placement[Unmatched], it.ID)
	}
	e.selected = ""
	e.validation = nil
}

// Validate scores the current assignment. The result is cached until the
// next assignment or reset.
func (e *Engine) Validate() ValidationResult {
	res, _ := e.Evaluate()
	return res
}

// Evaluate is Validate that also reports whether the result was computed by
// this call rather than served from the cache. Exactly one caller observes
// fresh for each cached result.
func (e *Engine) Evaluate() (res ValidationResult, fresh bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.validation != nil {
		return *e.validation, false
	}

	res = ValidationResult{Total: len(e.items), Items: make([]ItemResult, 0, len(e.items))}
	for _, it := range e.items {
		assigned, ok := e.assigned[it.ID]
		correct := ok && ref.Matches(assigned, it.CorrectVariant)
		if correct {
			res.Correct++
		}
		if !ok {
			assigned = Unmatched
		}
		res.Items = append(res.Items, ItemResult{ItemID: it.ID, Assigned: assigned, Correct: correct})
	}
	res.Perfect = res.Total > 0 && res.Correct == res.Total
	e.validation = &res
	return res, true
}

// Score is Validate().Score().
func (e *Engine) Score() float64 {
	return e.Validate().Score()
}

// Validated reports whether a validation result is cached.
func (e *Engine) Validated() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.validation != nil
}

// QuizID returns the loaded quiz.
func (e *Engine) QuizID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.quizID
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		QuizID:    e.quizID,
		Buckets:   append([]Bucket{}, e.buckets...),
		Items:     make([]ItemState, 0, len(e.items)),
		Placement: make(map[string][]string, len(e.placement)),
		Selected:  e.selected,
	}
	for bucket, ids := range e.placement {
		snap.Placement[bucket] = append([]string{}, ids...)
	}
	for _, it := range e.items {
		st := ItemState{ID: it.ID, Name: it.Name, State: StateUnmatched}
		if v, ok := e.assigned[it.ID]; ok {
			st.State, st.Assigned = StateAssigned, v
		}
		if it.ID == e.selected {
			st.State = StateSelected
		}
		snap.Items = append(snap.Items, st)
	}
	if e.validation != nil {
		v := *e.validation
		snap.Validation = &v
	}
	return snap
}

func (e *Engine) clear() {
	e.quizID = ""
	e.items = nil
	e.index = make(map[string]int)
	e.buckets = nil
	e.bucketIDs = make(map[string]struct{})
	e.assigned = make(map[string]string)
	e.placement = map[string][]string{Unmatched: {}}
	e.selected = ""
	e.validation = nil
}

func (e *Engine) bucketOf(itemID string) string {
	if v, ok := e.assigned[itemID]; ok {
		return v
	}
	return Unmatched
}

func remove(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}
