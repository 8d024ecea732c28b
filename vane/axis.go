package vane

import (
	"fmt"
	"strings"
)

type Axis int

const (
	Vertical Axis = iota
	Horizontal
)

var axes = [...]Axis{Vertical, Horizontal}

// Axes returns both axes in a fixed order.
func Axes() []Axis {
	return axes[:]
}

func (a Axis) String() string {
	switch a {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(s) {
	case "vertical":
		return Vertical, nil
	case "horizontal":
		return Horizontal, nil
	}

	return 0, fmt.Errorf("unknown vane axis %q", s)
}

func (a Axis) valid() bool {
	return a == Vertical || a == Horizontal
}
