package rtmidi

import (
	"bytes"
	"testing"

	gomidi "gitlab.com/gomidi/midi/v2"
)

func TestMessageLength(t *testing.T) {
	tests := []struct {
		status byte
		want   int
	}{
		{0x80, 3}, // Note Off
		{0x93, 3}, // Note On
		{0xA0, 3}, // Poly Aftertouch
		{0xB2, 3}, // Control Change
		{0xC5, 2}, // Program Change
		{0xD0, 2}, // Channel Pressure
		{0xE7, 3}, // Pitch Bend
		{0xF1, 2}, // MTC Quarter Frame
		{0xF2, 3}, // Song Position Pointer
		{0xF3, 2}, // Song Select
		{0xF6, 1}, // Tune Request
	}

	for _, tt := range tests {
		if got := messageLength(tt.status); got != tt.want {
			t.Errorf("messageLength(%#02x) = %d, want %d", tt.status, got, tt.want)
		}
	}
}

// newCaptureHAL returns a HAL whose send function records outgoing
// messages instead of touching a driver.
func newCaptureHAL() (*HAL, *[][]byte) {
	var sent [][]byte
	h := New("in", "out")
	h.send = func(msg gomidi.Message) error {
		sent = append(sent, append([]byte(nil), msg.Bytes()...))
		return nil
	}
	return h, &sent
}

func TestWriteByte_CoalescesChannelMessage(t *testing.T) {
	h, sent := newCaptureHAL()

	for _, b := range []byte{0x90, 0x40, 0x64} {
		if err := h.WriteByte(b); err != nil {
			t.Fatalf("WriteByte(%#02x): %v", b, err)
		}
	}

	if len(*sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(*sent))
	}
	if !bytes.Equal((*sent)[0], []byte{0x90, 0x40, 0x64}) {
		t.Errorf("sent % X, want 90 40 64", (*sent)[0])
	}
}

func TestWriteByte_TwoByteMessage(t *testing.T) {
	h, sent := newCaptureHAL()

	for _, b := range []byte{0xC0, 0x05} {
		if err := h.WriteByte(b); err != nil {
			t.Fatalf("WriteByte(%#02x): %v", b, err)
		}
	}

	if len(*sent) != 1 || !bytes.Equal((*sent)[0], []byte{0xC0, 0x05}) {
		t.Fatalf("sent %v, want [C0 05]", *sent)
	}
}

func TestWriteByte_RealtimePassesImmediately(t *testing.T) {
	h, sent := newCaptureHAL()

	// Real-time byte mid-assembly must not disturb the pending message.
	for _, b := range []byte{0x90, 0x40, 0xF8, 0x64} {
		if err := h.WriteByte(b); err != nil {
			t.Fatalf("WriteByte(%#02x): %v", b, err)
		}
	}

	if len(*sent) != 2 {
		t.Fatalf("sent %d messages, want 2", len(*sent))
	}
	if !bytes.Equal((*sent)[0], []byte{0xF8}) {
		t.Errorf("first sent % X, want F8", (*sent)[0])
	}
	if !bytes.Equal((*sent)[1], []byte{0x90, 0x40, 0x64}) {
		t.Errorf("second sent % X, want 90 40 64", (*sent)[1])
	}
}

func TestWriteByte_DropsOrphanDataByte(t *testing.T) {
	h, sent := newCaptureHAL()

	if err := h.WriteByte(0x40); err != nil {
		t.Fatalf("WriteByte: %v", err)
	}
	if len(*sent) != 0 {
		t.Errorf("sent %d messages, want 0", len(*sent))
	}
}
