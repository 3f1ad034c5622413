package contracts

// TouchAction is the phase of a touch frame.
type TouchAction int

const (
	// ActionDown is the first contact touching the surface.
	ActionDown TouchAction = iota
	// ActionMove carries the current position of every active contact.
	ActionMove
	// ActionUp is the last contact lifting.
	ActionUp
	// ActionPointerDown is an additional contact touching the surface.
	ActionPointerDown
	// ActionPointerUp is a non-last contact lifting.
	ActionPointerUp
	// ActionCancel aborts the gesture.
	ActionCancel
)

func (a TouchAction) String() string {
	switch a {
	case ActionDown:
		return "down"
	case ActionMove:
		return "move"
	case ActionUp:
		return "up"
	case ActionPointerDown:
		return "pointer_down"
	case ActionPointerUp:
		return "pointer_up"
	case ActionCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Pointer is the position of one contact, already in keyboard coordinates (scroll offset applied).
type Pointer struct {
	ID   ContactID
	X, Y int
}

// TouchEvent is one input frame. Pointers holds every active contact; ActionIndex selects
// the contact the action refers to for down, pointer down and pointer up.
type TouchEvent struct {
	Action      TouchAction
	Pointers    []Pointer
	ActionIndex int
}

// ActionPointer returns the contact the action refers to.
func (e TouchEvent) ActionPointer() (Pointer, bool) {
	if e.ActionIndex < 0 || e.ActionIndex >= len(e.Pointers) {
		return Pointer{}, false
	}
	return e.Pointers[e.ActionIndex], true
}
