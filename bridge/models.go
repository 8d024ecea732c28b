package bridge

import "github.com/victorjacobs/go-cn105/vane"

// Sender delivers vane codes to the unit.
type Sender interface {
	SendVanes(vertical, horizontal vane.Code) error
}

type selectConfiguration struct {
	name string
	axis vane.Axis
}

// VaneState is what the bridge currently wants the unit to do.
type VaneState struct {
	Vertical   string
	Horizontal string
	Change     vane.PendingChange
}
