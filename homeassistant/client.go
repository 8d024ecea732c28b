package homeassistant

import (
	"encoding/json"
	"fmt"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/victorjacobs/go-cn105/config"
)

type Client struct {
	mqtt mqtt.Client
}

func NewClient(mqtt mqtt.Client) *Client {
	return &Client{
		mqtt: mqtt,
	}
}

// RegisterSelect announces a select entity through MQTT discovery and returns
// the topics Home Assistant will use for it.
func (h *Client) RegisterSelect(name string, options []string) (commandTopic string, stateTopic string, err error) {
	uniqueId := UniqueId(name)
	commandTopic, stateTopic = SelectTopics(name)

	selectConfiguration, err := json.Marshal(selectConfiguration{
		UniqueId:     uniqueId,
		Name:         name,
		Icon:         "mdi:arrow-oscillating",
		StateTopic:   stateTopic,
		CommandTopic: commandTopic,
		Options:      options,
		Device: deviceConfiguration{
			Identifiers:  []string{config.TopicPrefix},
			Name:         "CN105 heat pump",
			Manufacturer: "Mitsubishi Electric",
		},
	})
	if err != nil {
		return "", "", err
	}

	configTopic := fmt.Sprintf("%v/select/%v/config", config.HomeAssistantPrefix, uniqueId)

	if t := h.mqtt.Publish(configTopic, 0, true, selectConfiguration); t.Wait() && t.Error() != nil {
		return "", "", t.Error()
	}

	return commandTopic, stateTopic, nil
}

func UniqueId(name string) string {
	return strings.Replace(strings.ToLower(name), " ", "_", -1)
}

func SelectTopics(name string) (commandTopic string, stateTopic string) {
	uniqueId := UniqueId(name)

	return fmt.Sprintf("%v/select/%v/cmd", config.TopicPrefix, uniqueId),
		fmt.Sprintf("%v/select/%v/state", config.TopicPrefix, uniqueId)
}
