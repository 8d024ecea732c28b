package bridge

import (
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/victorjacobs/go-cn105/cn105"
	"github.com/victorjacobs/go-cn105/config"
	"github.com/victorjacobs/go-cn105/homeassistant"
	"github.com/victorjacobs/go-cn105/vane"
)

type Bridge struct {
	cfg         *config.Configuration
	sender      Sender
	coordinator *vane.Coordinator
	selectors   map[vane.Axis]*mqttSelector
	published   map[vane.Axis]string
	now         func() time.Time
}

func New(cfg *config.Configuration) (*Bridge, error) {
	log.Printf("Connecting to %v", cfg.SerialPort)

	client := cn105.NewClient(cfg.SerialPort, cfg.BaudRate)
	if err := client.Connect(); err != nil {
		return nil, err
	}
	log.Printf("Connected to heat pump on %v", cfg.SerialPort)

	return NewWithSender(cfg, client), nil
}

// NewWithSender builds a bridge delivering vane settings through sender.
func NewWithSender(cfg *config.Configuration, sender Sender) *Bridge {
	b := &Bridge{
		cfg:       cfg,
		sender:    sender,
		selectors: make(map[vane.Axis]*mqttSelector),
		published: make(map[vane.Axis]string),
		now:       time.Now,
	}
	b.coordinator = vane.NewCoordinator(vane.CN105, vane.WithClock(func() time.Time {
		return b.now()
	}))

	for _, def := range selectDefinitions {
		selector := newMqttSelector(def.name)
		if err := b.coordinator.Bind(def.axis, selector); err != nil {
			log.Panicf("Binding %v: %v", def.name, err)
		}
		b.selectors[def.axis] = selector
	}

	return b
}

func (b *Bridge) RegisterSelects(mqttClient mqtt.Client) error {
	homeAssistantClient := homeassistant.NewClient(mqttClient)

	for _, def := range selectDefinitions {
		selector := b.selectors[def.axis]

		if _, _, err := homeAssistantClient.RegisterSelect(selector.name, selector.Options()); err != nil {
			return err
		}
		log.Printf("Registered select %v", selector.name)
	}

	return nil
}

func (b *Bridge) SubscribeToVaneCommands(mqttClient mqtt.Client) {
	for _, def := range selectDefinitions {
		b.selectors[def.axis].subscribe(mqttClient)
	}
}

// Select applies a vane setting coming from outside of Home Assistant.
func (b *Bridge) Select(axis vane.Axis, label string) error {
	log.Printf("%v vane requested: %v", axis, label)

	return b.coordinator.OnSelected(axis, label)
}

// PollPending sends the wanted vane positions once they have been left alone
// for the configured debounce interval.
func (b *Bridge) PollPending() {
	snapshot := b.coordinator.Snapshot()
	if !snapshot.Due(b.now(), time.Duration(b.cfg.Debounce)) {
		return
	}

	vertical := b.coordinator.CurrentCode(vane.Vertical)
	horizontal := b.coordinator.CurrentCode(vane.Horizontal)

	if err := b.sender.SendVanes(vertical, horizontal); err != nil {
		log.Printf("Sending vanes failed, retrying next poll: %v", err)
		return
	}

	b.coordinator.AcknowledgeSent(snapshot)
}

// PublishVaneState publishes the wanted labels whenever they differ from what
// was last published.
func (b *Bridge) PublishVaneState(mqttClient mqtt.Client) {
	for _, def := range selectDefinitions {
		label, ok := b.coordinator.Table().Label(b.coordinator.CurrentCode(def.axis))
		if !ok || b.published[def.axis] == label {
			continue
		}

		if t := mqttClient.Publish(b.selectors[def.axis].stateTopic, 0, true, label); t.Wait() && t.Error() != nil {
			log.Printf("MQTT publishing failed: %v", t.Error())
			continue
		}

		b.published[def.axis] = label
	}
}

func (b *Bridge) State() VaneState {
	table := b.coordinator.Table()

	vertical, _ := table.Label(b.coordinator.CurrentCode(vane.Vertical))
	horizontal, _ := table.Label(b.coordinator.CurrentCode(vane.Horizontal))

	return VaneState{
		Vertical:   vertical,
		Horizontal: horizontal,
		Change:     b.coordinator.Snapshot(),
	}
}
