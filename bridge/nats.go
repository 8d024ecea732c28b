package bridge

import (
	"fmt"
	"log"

	"github.com/nats-io/nats.go"
	"github.com/victorjacobs/go-cn105/vane"
)

func natsSubject(prefix string, axis vane.Axis) string {
	return fmt.Sprintf("%v.vane.%v.set", prefix, axis)
}

// SubscribeToNatsCommands accepts vane labels on <prefix>.vane.<axis>.set.
// Requests get "ok" or the error text as reply.
func (b *Bridge) SubscribeToNatsCommands(nc *nats.Conn) error {
	for _, axis := range vane.Axes() {
		axis := axis
		subject := natsSubject(b.cfg.Nats.Prefix, axis)

		if _, err := nc.Subscribe(subject, func(m *nats.Msg) {
			b.handleNats(axis, m)
		}); err != nil {
			return fmt.Errorf("subscribing to %v: %w", subject, err)
		}

		log.Printf("Subscribed to %v", subject)
	}

	return nil
}

func (b *Bridge) handleNats(axis vane.Axis, m *nats.Msg) {
	reply := "ok"
	if err := b.Select(axis, string(m.Data)); err != nil {
		log.Printf("Ignoring NATS request on %v: %v", m.Subject, err)
		reply = err.Error()
	}

	if m.Reply == "" {
		return
	}

	if err := m.Respond([]byte(reply)); err != nil {
		log.Printf("NATS reply failed: %v", err)
	}
}
