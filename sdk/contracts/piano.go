package contracts

import "context"

// Piano is the interactive keyboard surface.
type Piano interface {
	// Run processes the event queue until ctx is done or Stop is called. It starts sample loading.
	Run(ctx context.Context) error
	// HandleTouch feeds one input frame and reports whether the surface handled it.
	HandleTouch(ctx context.Context, event TouchEvent) (bool, error)
	// AutoPlay plays a script on a background goroutine. It returns false if a script is already running.
	AutoPlay(entities []AutoPlayEntity) bool
	// Scroll moves the visible window to progress percent (0-100) of the scrollable range.
	Scroll(progress int)
	// SetCanPress enables or disables user input.
	SetCanPress(canPress bool)
	// PressNote and ReleaseNote drive keys from a MIDI note number.
	PressNote(note uint8)
	ReleaseNote(note uint8)
	// PressedKeys returns the keys currently pressed.
	PressedKeys(ctx context.Context) ([]KeyID, error)
	// ScrollOrigin returns the left edge of the visible window.
	ScrollOrigin(ctx context.Context) (int, error)
	// Stop releases the loader and its samples and ends Run.
	Stop() error
}
