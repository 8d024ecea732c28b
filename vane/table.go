package vane

import "fmt"

// Code is the device value for one vane position. The zero Code of an axis is
// "unset"; codes of different axes never compare equal.
type Code struct {
	axis  Axis
	value byte
	set   bool
}

func (c Code) Axis() Axis {
	return c.axis
}

// Byte is the value the unit expects on the wire. Only meaningful when IsSet.
func (c Code) Byte() byte {
	return c.value
}

func (c Code) IsSet() bool {
	return c.set
}

func (c Code) String() string {
	if !c.set {
		return fmt.Sprintf("%v:unset", c.axis)
	}

	return fmt.Sprintf("%v:%#02x", c.axis, c.value)
}

type UnknownLabelError struct {
	Axis  Axis
	Label string
}

func (e *UnknownLabelError) Error() string {
	return fmt.Sprintf("unknown %v vane setting %q", e.Axis, e.Label)
}

type entry struct {
	label string
	value byte
}

// Table maps human readable vane labels to device codes, per axis.
type Table struct {
	entries map[Axis][]entry
}

// CN105 holds the vane positions of Mitsubishi units on the CN105 connector.
var CN105 = &Table{
	entries: map[Axis][]entry{
		Vertical: {
			{"Auto", 0x00},
			{"Up", 0x01},
			{"Middle Up", 0x02},
			{"Middle", 0x03},
			{"Middle Down", 0x04},
			{"Down", 0x05},
			{"Swing", 0x07},
		},
		Horizontal: {
			{"Far Left", 0x01},
			{"Left", 0x02},
			{"Center", 0x03},
			{"Right", 0x04},
			{"Far Right", 0x05},
			{"Split", 0x08},
			{"Swing", 0x0c},
		},
	},
}

func (t *Table) Labels(axis Axis) []string {
	entries := t.entries[axis]

	labels := make([]string, 0, len(entries))
	for _, e := range entries {
		labels = append(labels, e.label)
	}

	return labels
}

func (t *Table) Resolve(axis Axis, label string) (Code, error) {
	for _, e := range t.entries[axis] {
		if e.label == label {
			return Code{axis: axis, value: e.value, set: true}, nil
		}
	}

	return Code{axis: axis}, &UnknownLabelError{Axis: axis, Label: label}
}

// Label is the reverse of Resolve.
func (t *Table) Label(code Code) (string, bool) {
	if !code.set {
		return "", false
	}

	for _, e := range t.entries[code.axis] {
		if e.value == code.value {
			return e.label, true
		}
	}

	return "", false
}
