package vane

import (
	"fmt"
	"sync"
	"time"
)

// Listener receives the label picked on a selector.
type Listener interface {
	Selected(label string) error
}

// Selector is a user facing control offering a finite list of labels.
type Selector interface {
	SetOptions(labels []string)
	// SetListener replaces the current listener. nil detaches it.
	SetListener(l Listener)
}

// Coordinator tracks the wanted vane codes and whether they still need to be
// delivered to the unit.
type Coordinator struct {
	table *Table
	now   func() time.Time

	mutex     sync.Mutex
	codes     map[Axis]Code
	change    PendingChange
	selectors map[Axis]Selector
}

type Option func(*Coordinator)

// WithClock replaces time.Now as the source of change timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		c.now = now
	}
}

func NewCoordinator(table *Table, opts ...Option) *Coordinator {
	codes := make(map[Axis]Code, len(axes))
	for _, axis := range axes {
		codes[axis] = Code{axis: axis}
	}

	c := &Coordinator{
		table:     table,
		now:       time.Now,
		codes:     codes,
		selectors: make(map[Axis]Selector),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Coordinator) Table() *Table {
	return c.table
}

// Bind offers the axis labels on selector and routes its selections into
// OnSelected. A selector previously bound to the same axis is detached; a nil
// selector only detaches.
func (c *Coordinator) Bind(axis Axis, selector Selector) error {
	if !axis.valid() {
		return fmt.Errorf("cannot bind selector to %v", axis)
	}

	c.mutex.Lock()
	previous := c.selectors[axis]
	if selector == nil {
		delete(c.selectors, axis)
	} else {
		c.selectors[axis] = selector
	}
	c.mutex.Unlock()

	if previous != nil && previous != selector {
		previous.SetListener(nil)
	}

	if selector == nil {
		return nil
	}

	selector.SetOptions(c.table.Labels(axis))
	selector.SetListener(axisListener{coordinator: c, axis: axis})

	return nil
}

func (c *Coordinator) OnSelected(axis Axis, label string) error {
	code, err := c.table.Resolve(axis, label)
	if err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.codes[axis] = code
	c.change = c.change.changed(c.now())

	return nil
}

func (c *Coordinator) CurrentCode(axis Axis) Code {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if code, ok := c.codes[axis]; ok {
		return code
	}

	return Code{axis: axis}
}

func (c *Coordinator) Snapshot() PendingChange {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.change
}

// AcknowledgeSent marks sent as delivered. It does nothing when sent is no
// longer the latest change, so a selection made during a transmission is
// picked up by the next poll.
func (c *Coordinator) AcknowledgeSent(sent PendingChange) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.change = c.change.delivered(sent)
}

type axisListener struct {
	coordinator *Coordinator
	axis        Axis
}

func (l axisListener) Selected(label string) error {
	return l.coordinator.OnSelected(l.axis, label)
}
