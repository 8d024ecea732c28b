package bridge

import "github.com/victorjacobs/go-cn105/vane"

var selectDefinitions = [...]selectConfiguration{
	{
		name: "CN105 Vertical Vane",
		axis: vane.Vertical,
	},
	{
		name: "CN105 Horizontal Vane",
		axis: vane.Horizontal,
	},
}
