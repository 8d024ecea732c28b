package vane

import "time"

type Phase int

const (
	// Clean means nothing has been selected since startup.
	Clean Phase = iota
	// Pending means the latest selection has not been delivered yet.
	Pending
	// Sent means the latest selection was delivered to the unit.
	Sent
)

func (p Phase) String() string {
	switch p {
	case Clean:
		return "clean"
	case Pending:
		return "pending"
	case Sent:
		return "sent"
	default:
		return "unknown"
	}
}

// PendingChange is the dirty record shared between the selectors and the
// transport. It is a value; the Coordinator hands out copies.
type PendingChange struct {
	phase    Phase
	since    time.Time
	revision uint64
}

func (p PendingChange) Phase() Phase {
	return p.phase
}

// HasChanged reports whether any selection was made. Delivery does not clear it.
func (p PendingChange) HasChanged() bool {
	return p.phase != Clean
}

func (p PendingChange) HasBeenSent() bool {
	return p.phase == Sent
}

func (p PendingChange) LastChangeAt() time.Time {
	return p.since
}

// Due reports whether the change is still undelivered and has been quiet for
// at least debounce.
func (p PendingChange) Due(now time.Time, debounce time.Duration) bool {
	return p.phase == Pending && now.Sub(p.since) >= debounce
}

func (p PendingChange) changed(at time.Time) PendingChange {
	return PendingChange{phase: Pending, since: at, revision: p.revision + 1}
}

func (p PendingChange) delivered(sent PendingChange) PendingChange {
	if p.phase != Pending || p.revision != sent.revision {
		return p
	}

	p.phase = Sent
	return p
}
