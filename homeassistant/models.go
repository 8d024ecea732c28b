package homeassistant

type deviceConfiguration struct {
	Identifiers  []string `json:"identifiers"`
	Name         string   `json:"name"`
	Manufacturer string   `json:"manufacturer"`
}

type selectConfiguration struct {
	UniqueId     string              `json:"unique_id"`
	Name         string              `json:"name"`
	Icon         string              `json:"icon,omitempty"`
	StateTopic   string              `json:"state_topic"`
	CommandTopic string              `json:"command_topic"`
	Options      []string            `json:"options"`
	Device       deviceConfiguration `json:"device"`
}
