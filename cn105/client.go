package cn105

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/victorjacobs/go-cn105/vane"
	"go.bug.st/serial"
)

type Client struct {
	serialPort string
	mode       *serial.Mode
	mutex      sync.Mutex

	open func(name string, mode *serial.Mode) (serial.Port, error)
}

func NewClient(serialPort string, baudRate int) *Client {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}

	return &Client{
		serialPort: serialPort,
		mode: &serial.Mode{
			BaudRate: baudRate,
			DataBits: 8,
			Parity:   serial.EvenParity,
			StopBits: serial.OneStopBit,
		},
		open: serial.Open,
	}
}

// Connect performs the CN105 handshake.
func (c *Client) Connect() error {
	response, err := c.write(packConnect())
	if err != nil {
		return err
	}

	if response[1] != packetConnectReply {
		return fmt.Errorf("unexpected connect reply %#02x", response[1])
	}

	return nil
}

// SendVanes writes both vane positions in one set frame. Unset codes are
// left out of the frame so the unit keeps its current position for that axis.
func (c *Client) SendVanes(vertical, horizontal vane.Code) error {
	if !vertical.IsSet() && !horizontal.IsSet() {
		return nil
	}

	response, err := c.write(packVanes(vertical, horizontal))
	if err != nil {
		return err
	}

	if response[1] != packetSetReply {
		return fmt.Errorf("unit did not accept settings, received %#02x instead", response[1])
	}

	log.Printf("Sent vanes %v %v", vertical, horizontal)

	return nil
}

func (c *Client) write(packed []byte) ([]byte, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	port, err := c.open(c.serialPort, c.mode)
	if err != nil {
		return nil, err
	}
	defer port.Close()

	if err := port.SetReadTimeout(time.Second); err != nil {
		return nil, err
	}

	n, err := port.Write(packed)
	if err != nil {
		return nil, err
	}

	if n == 0 {
		return nil, errors.New("nothing written")
	}

	return readFrame(port)
}

// readFrame reads one reply frame. A serial read returns as soon as any byte
// arrives, so the frame is assembled over as many reads as it takes; a read
// returning nothing means the port timed out.
func readFrame(port serial.Port) ([]byte, error) {
	frame := make([]byte, 0, maxFrameLength)
	buff := make([]byte, maxFrameLength)

	for want := replyHeaderSize; len(frame) < want; {
		n, err := port.Read(buff[:want-len(frame)])
		if err != nil {
			return nil, err
		}

		if n == 0 {
			if len(frame) == 0 {
				return nil, errors.New("no response")
			}
			return nil, fmt.Errorf("incomplete response % x", frame)
		}

		if len(frame) == 0 && buff[0] != frameStart {
			return nil, fmt.Errorf("unexpected response start %x", buff[0])
		}

		frame = append(frame, buff[:n]...)

		if want == replyHeaderSize && len(frame) >= replyHeaderSize {
			want = replyHeaderSize + int(frame[offsetDataLength]) + 1
		}
	}

	if sum := checksum(frame[:len(frame)-1]); sum != frame[len(frame)-1] {
		return nil, fmt.Errorf("bad response checksum %#02x, expected %#02x", frame[len(frame)-1], sum)
	}

	return frame, nil
}

func packConnect() []byte {
	packet := []byte{frameStart, packetConnect, 0x01, 0x30, 0x02, 0xca, 0x01, 0x00}
	packet[len(packet)-1] = checksum(packet[:len(packet)-1])

	return packet
}

func packVanes(vertical, horizontal vane.Code) []byte {
	packet := make([]byte, setFrameLength)
	copy(packet, []byte{frameStart, packetSet, 0x01, 0x30, 0x10, setSettings})

	if vertical.IsSet() {
		packet[offsetFlags] |= flagVane
		packet[offsetVane] = vertical.Byte()
	}

	if horizontal.IsSet() {
		packet[offsetFlags2] |= flagWideVane
		packet[offsetWideVane] = horizontal.Byte()
	}

	packet[offsetChecksum] = checksum(packet[:offsetChecksum])

	return packet
}

func checksum(data []byte) byte {
	sum := 0
	for _, b := range data {
		sum += int(b)
	}

	return byte((0xfc - sum) & 0xff)
}
