package repo

import "time"

// EventFilter narrows ListEvents to orderedAt in [Since, Until). Nil bounds are open.
type EventFilter struct {
	Since *time.Time
	Until *time.Time
}

func (f EventFilter) matches(t time.Time) bool {
	if f.Since != nil && t.Before(*f.Since) {
		return false
	}
	if f.Until != nil && !t.Before(*f.Until) {
		return false
	}
	return true
}
