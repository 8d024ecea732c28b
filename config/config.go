package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/ghodss/yaml"
	"github.com/nats-io/nats.go"
)

const HomeAssistantPrefix = "homeassistant"
const TopicPrefix = "cn105"

const (
	DefaultUpdateInterval = 4 * time.Second
	DefaultDebounce       = time.Second
	DefaultHttpAddress    = ":8080"
	DefaultNatsPrefix     = "cn105"
)

type Configuration struct {
	SerialPort     string   `json:"serial_port"`
	BaudRate       int      `json:"baud_rate"`
	UpdateInterval Duration `json:"update_interval"`
	// Debounce is how long the vanes must stay untouched before they are sent.
	Debounce    Duration `json:"debounce"`
	HttpAddress string   `json:"http_address"`
	LogFile     string   `json:"log_file"`
	Mqtt        Mqtt     `json:"mqtt"`
	Nats        Nats     `json:"nats"`
}

type Mqtt struct {
	IpAddress string `json:"ip_address"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

type Nats struct {
	Url    string `json:"url"`
	Prefix string `json:"prefix"`
}

// Duration reads Go duration strings such as "4s" or "250ms".
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}

	*d = Duration(parsed)
	return nil
}

// LoadConfiguration reads a JSON or YAML configuration file.
func LoadConfiguration(filename string) (*Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

func Parse(data []byte) (*Configuration, error) {
	configuration := &Configuration{}
	if err := yaml.Unmarshal(data, configuration); err != nil {
		return nil, err
	}

	configuration.setDefaults()

	if err := configuration.Validate(); err != nil {
		return nil, err
	}

	return configuration, nil
}

func (c *Configuration) setDefaults() {
	if c.UpdateInterval == 0 {
		c.UpdateInterval = Duration(DefaultUpdateInterval)
	}

	if c.Debounce == 0 {
		c.Debounce = Duration(DefaultDebounce)
	}

	if c.HttpAddress == "" {
		c.HttpAddress = DefaultHttpAddress
	}

	if c.Nats.Prefix == "" {
		c.Nats.Prefix = DefaultNatsPrefix
	}
}

func (c *Configuration) Validate() error {
	if c.SerialPort == "" {
		return errors.New("serial_port is required")
	}

	if c.BaudRate < 0 {
		return fmt.Errorf("invalid baud_rate %v", c.BaudRate)
	}

	if c.UpdateInterval <= 0 {
		return fmt.Errorf("update_interval must be positive, got %v", time.Duration(c.UpdateInterval))
	}

	if c.Debounce < 0 {
		return fmt.Errorf("debounce must not be negative, got %v", time.Duration(c.Debounce))
	}

	return nil
}

func (m *Mqtt) ClientOptions() *mqtt.ClientOptions {
	return mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%v:1883", m.IpAddress)).
		SetUsername(m.Username).
		SetPassword(m.Password).
		SetAutoReconnect(true).
		SetConnectionLostHandler(func(client mqtt.Client, err error) {
			log.Printf("MQTT connection lost: %v", err)
		}).
		SetReconnectingHandler(func(client mqtt.Client, opts *mqtt.ClientOptions) {
			log.Printf("MQTT reconnecting")
		})
}

func (n *Nats) Enabled() bool {
	return n.Url != ""
}

func (n *Nats) Connect() (*nats.Conn, error) {
	return nats.Connect(n.Url,
		nats.Name("cn105"),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("NATS reconnected to %v", nc.ConnectedUrl())
		}),
	)
}
