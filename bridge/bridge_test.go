package bridge

import (
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/nats-io/nats.go"
	"github.com/victorjacobs/go-cn105/config"
	"github.com/victorjacobs/go-cn105/vane"
)

type sent struct {
	vertical   vane.Code
	horizontal vane.Code
}

type fakeSender struct {
	sent []sent
	err  error
}

func (s *fakeSender) SendVanes(vertical, horizontal vane.Code) error {
	if s.err != nil {
		return s.err
	}

	s.sent = append(s.sent, sent{vertical, horizontal})
	return nil
}

type fakeToken struct{}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{} {
	done := make(chan struct{})
	close(done)
	return done
}
func (t *fakeToken) Error() error { return nil }

type fakeMqtt struct {
	mqtt.Client

	published map[string][]string
	handlers  map[string]mqtt.MessageHandler
}

func (m *fakeMqtt) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	if m.published == nil {
		m.published = map[string][]string{}
	}

	switch p := payload.(type) {
	case string:
		m.published[topic] = append(m.published[topic], p)
	case []byte:
		m.published[topic] = append(m.published[topic], string(p))
	}

	return &fakeToken{}
}

func (m *fakeMqtt) Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token {
	if m.handlers == nil {
		m.handlers = map[string]mqtt.MessageHandler{}
	}

	m.handlers[topic] = callback
	return &fakeToken{}
}

type fakeMessage struct {
	mqtt.Message

	payload []byte
}

func (m *fakeMessage) Payload() []byte {
	return m.payload
}

type testBridge struct {
	*Bridge
	sender *fakeSender
	clock  time.Time
}

func newTestBridge(debounce time.Duration) *testBridge {
	cfg := &config.Configuration{
		SerialPort: "/dev/ttyTEST",
		Debounce:   config.Duration(debounce),
		Nats:       config.Nats{Prefix: "cn105"},
	}

	sender := &fakeSender{}
	tb := &testBridge{
		Bridge: NewWithSender(cfg, sender),
		sender: sender,
		clock:  time.Now(),
	}
	tb.now = func() time.Time { return tb.clock }

	return tb
}

func code(t *testing.T, axis vane.Axis, label string) vane.Code {
	t.Helper()

	c, err := vane.CN105.Resolve(axis, label)
	if err != nil {
		t.Fatal(err)
	}

	return c
}

func TestPollPendingWaitsForDebounce(t *testing.T) {
	b := newTestBridge(time.Second)

	b.PollPending()
	if len(b.sender.sent) != 0 {
		t.Fatal("sent without any change")
	}

	if err := b.Select(vane.Vertical, "Up"); err != nil {
		t.Fatal(err)
	}

	b.clock = b.clock.Add(500 * time.Millisecond)
	b.PollPending()
	if len(b.sender.sent) != 0 {
		t.Fatal("sent before debounce elapsed")
	}

	b.clock = b.clock.Add(500 * time.Millisecond)
	b.PollPending()
	if len(b.sender.sent) != 1 {
		t.Fatalf("sent %d times, want 1", len(b.sender.sent))
	}

	got := b.sender.sent[0]
	if got.vertical != code(t, vane.Vertical, "Up") || got.horizontal.IsSet() {
		t.Errorf("sent %+v", got)
	}
	if !b.State().Change.HasBeenSent() {
		t.Error("change not acknowledged")
	}

	b.clock = b.clock.Add(time.Minute)
	b.PollPending()
	if len(b.sender.sent) != 1 {
		t.Error("resent an acknowledged change")
	}
}

func TestPollPendingCoalescesChanges(t *testing.T) {
	b := newTestBridge(time.Second)

	if err := b.Select(vane.Vertical, "Up"); err != nil {
		t.Fatal(err)
	}
	b.clock = b.clock.Add(800 * time.Millisecond)
	if err := b.Select(vane.Vertical, "Down"); err != nil {
		t.Fatal(err)
	}
	if err := b.Select(vane.Horizontal, "Split"); err != nil {
		t.Fatal(err)
	}

	b.clock = b.clock.Add(800 * time.Millisecond)
	b.PollPending()
	if len(b.sender.sent) != 0 {
		t.Fatal("debounce not restarted by the later change")
	}

	b.clock = b.clock.Add(200 * time.Millisecond)
	b.PollPending()
	if len(b.sender.sent) != 1 {
		t.Fatalf("sent %d times, want 1", len(b.sender.sent))
	}

	got := b.sender.sent[0]
	if got.vertical != code(t, vane.Vertical, "Down") || got.horizontal != code(t, vane.Horizontal, "Split") {
		t.Errorf("sent %+v", got)
	}
}

func TestPollPendingRetriesAfterFailure(t *testing.T) {
	b := newTestBridge(0)
	b.sender.err = errors.New("serial port gone")

	if err := b.Select(vane.Horizontal, "Left"); err != nil {
		t.Fatal(err)
	}

	b.PollPending()
	if b.State().Change.HasBeenSent() {
		t.Fatal("failed send acknowledged")
	}

	b.sender.err = nil
	b.PollPending()
	if len(b.sender.sent) != 1 || !b.State().Change.HasBeenSent() {
		t.Errorf("retry did not deliver, sent %d", len(b.sender.sent))
	}
}

func TestSelectorForwardsLabel(t *testing.T) {
	b := newTestBridge(0)
	m := &fakeMqtt{}

	b.SubscribeToVaneCommands(m)

	handler, ok := m.handlers["cn105/select/cn105_horizontal_vane/cmd"]
	if !ok {
		t.Fatalf("no subscription, got %v", m.handlers)
	}

	handler(m, &fakeMessage{payload: []byte("Far Right")})
	if got := b.State().Horizontal; got != "Far Right" {
		t.Errorf("Horizontal = %q", got)
	}

	// Unknown labels are dropped without touching the state
	before := b.State()
	handler(m, &fakeMessage{payload: []byte("far right")})
	if got := b.State(); got != before {
		t.Errorf("state changed on unknown label: %+v", got)
	}
}

func TestRegisterSelects(t *testing.T) {
	b := newTestBridge(0)
	m := &fakeMqtt{}

	if err := b.RegisterSelects(m); err != nil {
		t.Fatal(err)
	}

	for _, topic := range []string{
		"homeassistant/select/cn105_vertical_vane/config",
		"homeassistant/select/cn105_horizontal_vane/config",
	} {
		if len(m.published[topic]) != 1 {
			t.Errorf("expected discovery on %v, got %v", topic, m.published)
		}
	}
}

func TestPublishVaneState(t *testing.T) {
	b := newTestBridge(0)
	m := &fakeMqtt{}

	b.PublishVaneState(m)
	if len(m.published) != 0 {
		t.Fatalf("published unset vanes: %v", m.published)
	}

	if err := b.Select(vane.Vertical, "Swing"); err != nil {
		t.Fatal(err)
	}
	b.PublishVaneState(m)
	b.PublishVaneState(m)

	topic := "cn105/select/cn105_vertical_vane/state"
	if got := m.published[topic]; len(got) != 1 || got[0] != "Swing" {
		t.Errorf("published %v on %v", got, topic)
	}
}

func TestHandleNats(t *testing.T) {
	b := newTestBridge(0)

	b.handleNats(vane.Vertical, &nats.Msg{Subject: "cn105.vane.vertical.set", Data: []byte("Middle")})
	if got := b.State().Vertical; got != "Middle" {
		t.Errorf("Vertical = %q", got)
	}

	b.handleNats(vane.Vertical, &nats.Msg{Subject: "cn105.vane.vertical.set", Data: []byte("Split")})
	if got := b.State().Vertical; got != "Middle" {
		t.Errorf("Vertical = %q after unknown label", got)
	}
}

func TestNatsSubject(t *testing.T) {
	if got := natsSubject("cn105", vane.Horizontal); got != "cn105.vane.horizontal.set" {
		t.Errorf("natsSubject = %v", got)
	}
}
