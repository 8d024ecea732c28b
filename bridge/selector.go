package bridge

import (
	"errors"
	"log"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/victorjacobs/go-cn105/homeassistant"
	"github.com/victorjacobs/go-cn105/vane"
)

// mqttSelector is a Home Assistant select entity driven over MQTT.
type mqttSelector struct {
	name         string
	commandTopic string
	stateTopic   string

	mutex    sync.Mutex
	options  []string
	listener vane.Listener
}

func newMqttSelector(name string) *mqttSelector {
	commandTopic, stateTopic := homeassistant.SelectTopics(name)

	return &mqttSelector{
		name:         name,
		commandTopic: commandTopic,
		stateTopic:   stateTopic,
	}
}

func (s *mqttSelector) SetOptions(labels []string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.options = labels
}

func (s *mqttSelector) SetListener(l vane.Listener) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.listener = l
}

func (s *mqttSelector) Options() []string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.options
}

func (s *mqttSelector) subscribe(client mqtt.Client) {
	if t := client.Subscribe(s.commandTopic, 0, func(client mqtt.Client, msg mqtt.Message) {
		s.handle(string(msg.Payload()))
	}); t.Wait() && t.Error() != nil {
		log.Printf("MQTT receive error: %v", t.Error())
	}
}

func (s *mqttSelector) handle(label string) {
	log.Printf("%v requested: %v", s.name, label)

	s.mutex.Lock()
	listener := s.listener
	s.mutex.Unlock()

	if listener == nil {
		log.Printf("%v is not bound, dropping %q", s.name, label)
		return
	}

	if err := listener.Selected(label); err != nil {
		var unknown *vane.UnknownLabelError
		if errors.As(err, &unknown) {
			log.Printf("Ignoring %v: %v", s.name, err)
		} else {
			log.Printf("Error setting %v: %v", s.name, err)
		}
	}
}
