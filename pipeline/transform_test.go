package pipeline

import (
	"errors"
	"testing"
)

// collectEmitter implements Emitter by recording emitted messages.
type collectEmitter struct {
	msgs []Message
	err  error // returned from Emit when set
}

func (c *collectEmitter) Emit(m Message) error {
	if c.err != nil {
		return c.err
	}
	c.msgs = append(c.msgs, m)
	return nil
}

func TestEcho(t *testing.T) {
	var out collectEmitter
	msg := Message{Status: 0x90, Data1: 0x40, Data2: 0x64}

	if err := (Echo{}).Apply(msg, &out); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(out.msgs) != 1 || out.msgs[0] != msg {
		t.Errorf("Echo emitted %v, want [%v]", out.msgs, msg)
	}
}

func TestTranspose(t *testing.T) {
	tests := []struct {
		name      string
		semitones int
		in        Message
		want      Message
	}{
		{"up octave", 12, Message{0x90, 0x40, 0x64}, Message{0x90, 0x4C, 0x64}},
		{"down octave", -12, Message{0x80, 0x40, 0x00}, Message{0x80, 0x34, 0x00}},
		{"clamp high", 12, Message{0x90, 0x7F, 0x64}, Message{0x90, 0x7F, 0x64}},
		{"clamp low", -5, Message{0x90, 0x02, 0x64}, Message{0x90, 0x00, 0x64}},
		{"identity", 0, Message{0x91, 0x33, 0x22}, Message{0x91, 0x33, 0x22}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out collectEmitter
			if err := (Transpose{Semitones: tt.semitones}).Apply(tt.in, &out); err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if len(out.msgs) != 1 {
				t.Fatalf("emitted %d messages, want 1", len(out.msgs))
			}
			if out.msgs[0] != tt.want {
				t.Errorf("Transpose(%d) = %v, want %v", tt.semitones, out.msgs[0], tt.want)
			}
		})
	}
}

func TestChordExpand(t *testing.T) {
	var out collectEmitter
	chord := ChordExpand{Intervals: []int{0, 4, 7}}

	if err := chord.Apply(Message{0x90, 0x40, 0x64}, &out); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	want := []Message{
		{0x90, 0x40, 0x64},
		{0x90, 0x44, 0x64},
		{0x90, 0x47, 0x64},
	}
	if len(out.msgs) != len(want) {
		t.Fatalf("emitted %d messages, want %d", len(out.msgs), len(want))
	}
	for i := range want {
		if out.msgs[i] != want[i] {
			t.Errorf("message %d = %v, want %v", i, out.msgs[i], want[i])
		}
	}
}

func TestChordExpand_ClampsPerInterval(t *testing.T) {
	var out collectEmitter
	chord := ChordExpand{Intervals: []int{0, 4, 7}}

	if err := chord.Apply(Message{0x90, 0x7C, 0x64}, &out); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	want := []Message{
		{0x90, 0x7C, 0x64},
		{0x90, 0x7F, 0x64}, // 0x7C+4 clamped
		{0x90, 0x7F, 0x64}, // 0x7C+7 clamped
	}
	for i := range want {
		if out.msgs[i] != want[i] {
			t.Errorf("message %d = %v, want %v", i, out.msgs[i], want[i])
		}
	}
}

func TestChordExpand_EmptyIntervals(t *testing.T) {
	var out collectEmitter
	if err := (ChordExpand{}).Apply(Message{0x90, 0x40, 0x64}, &out); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(out.msgs) != 0 {
		t.Errorf("emitted %d messages, want 0", len(out.msgs))
	}
}

func TestChordExpand_StopsOnEmitError(t *testing.T) {
	emitErr := errors.New("line busy")
	out := collectEmitter{err: emitErr}
	chord := ChordExpand{Intervals: []int{0, 4, 7}}

	if err := chord.Apply(Message{0x90, 0x40, 0x64}, &out); !errors.Is(err, emitErr) {
		t.Errorf("Apply error = %v, want %v", err, emitErr)
	}
}

func TestMessage_Accessors(t *testing.T) {
	tests := []struct {
		name    string
		msg     Message
		channel uint8
		noteOn  bool
		noteOff bool
	}{
		{"note on ch 0", Message{0x90, 0x40, 0x64}, 0, true, false},
		{"note on ch 5", Message{0x95, 0x40, 0x64}, 5, true, false},
		{"note off ch 15", Message{0x8F, 0x40, 0x00}, 15, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.msg.Channel(); got != tt.channel {
				t.Errorf("Channel() = %d, want %d", got, tt.channel)
			}
			if got := tt.msg.IsNoteOn(); got != tt.noteOn {
				t.Errorf("IsNoteOn() = %v, want %v", got, tt.noteOn)
			}
			if got := tt.msg.IsNoteOff(); got != tt.noteOff {
				t.Errorf("IsNoteOff() = %v, want %v", got, tt.noteOff)
			}
		})
	}
}
