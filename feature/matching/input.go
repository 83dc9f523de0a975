package matching

import "quiz-manager/core/domain"

// DropEvent is a drag-style interaction: ItemID was dropped on Target.
type DropEvent struct {
	ItemID string `json:"item_id"`
	Target string `json:"target"`
}

// ApplyDrop moves the dropped item to the target through the selection.
func ApplyDrop(e *Engine, ev DropEvent) (bool, error) {
	if e.Selected() != ev.ItemID {
		if err := e.Select(ev.ItemID); err != nil {
			return false, err
		}
	}
	return e.AssignSelectedTo(ev.Target)
}

// TapKind tells what a tap landed on.
type TapKind string

const (
	TapItem   TapKind = "item"
	TapTarget TapKind = "target"
)

// TapEvent is a tap-style interaction: tap an item to select it, then tap a
// target to assign it.
type TapEvent struct {
	Kind TapKind `json:"kind"`
	ID   string  `json:"id"`
}

// ApplyTap selects on item taps and assigns on target taps.
func ApplyTap(e *Engine, ev TapEvent) (bool, error) {
	switch ev.Kind {
	case TapItem:
		return false, e.Select(ev.ID)
	case TapTarget:
		return e.AssignSelectedTo(ev.ID)
	default:
		return false, &domain.ValidationError{Field: "kind", Reason: "unknown tap kind", Offending: []string{string(ev.Kind)}}
	}
}
