package pipeline

// MIDI byte classification constants.
const (
	statusNoteOff = 0x80 // high nibble of a Note Off status byte
	statusNoteOn  = 0x90 // high nibble of a Note On status byte
	statusMask    = 0xF0 // selects the message type nibble
	channelMask   = 0x0F // selects the channel nibble

	// Real-time bytes dropped unconditionally.
	realtimeActiveSensing = 0xFE
	realtimeStop          = 0xFC

	// MaxNote is the largest valid data byte (note number or velocity).
	MaxNote = 0x7F
)

// Message is a complete MIDI channel-voice message. The only messages this
// pipeline interprets are Note On and Note Off, which are always exactly
// three bytes on the wire.
type Message struct {
	Status byte // 1sssnnnn: message type and channel
	Data1  byte // note number, 0..127
	Data2  byte // velocity, 0..127
}

// Channel returns the channel nibble of the status byte (0-15).
func (m Message) Channel() uint8 {
	return m.Status & channelMask
}

// IsNoteOn reports whether the message is a Note On.
func (m Message) IsNoteOn() bool {
	return m.Status&statusMask == statusNoteOn
}

// IsNoteOff reports whether the message is a Note Off.
func (m Message) IsNoteOff() bool {
	return m.Status&statusMask == statusNoteOff
}
