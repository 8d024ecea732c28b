package cn105

const (
	DefaultBaudRate = 2400

	frameStart = 0xfc

	packetConnect      = 0x5a
	packetConnectReply = 0x7a
	packetSet          = 0x41
	packetSetReply     = 0x61

	setSettings = 0x01

	// Bits in the first and second flag byte of a set frame.
	flagVane     = 0x10
	flagWideVane = 0x01

	setFrameLength = 22
)

// Byte offsets in a set frame.
const (
	offsetFlags     = 6
	offsetFlags2    = 7
	offsetVane      = 12
	offsetWideVane  = 18
	offsetChecksum  = setFrameLength - 1
	replyHeaderSize = 5

	offsetDataLength = 4
	maxFrameLength   = replyHeaderSize + 0xff + 1
)
