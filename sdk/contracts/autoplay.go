package contracts

import "time"

// AutoPlayEntity is one scripted key event followed by its break.
type AutoPlayEntity struct {
	Type        KeyType `json:"type"`
	Group       int     `json:"group"`
	Position    int     `json:"position"`
	BreakMillis int64   `json:"break_ms"`
}

// Break returns the time spent on the entity: half before the key is released, half after.
func (e AutoPlayEntity) Break() time.Duration {
	if e.BreakMillis <= 0 {
		return 0
	}
	return time.Duration(e.BreakMillis) * time.Millisecond
}
