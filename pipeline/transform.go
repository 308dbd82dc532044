package pipeline

// Emitter receives the outgoing messages produced by a transform.
// *Processor implements Emitter by writing the message bytes to its
// transport, so applying a transform performs no allocation.
type Emitter interface {
	Emit(Message) error
}

// Transform maps one completed Note On/Off message to zero or more
// outgoing messages. All other bytes bypass the transform entirely.
type Transform interface {
	// Apply emits the transformed message(s) for msg, in output order.
	// It stops at the first emit error and returns it.
	Apply(msg Message, out Emitter) error
}

// Echo re-emits every message unchanged.
type Echo struct{}

// Apply implements Transform.
func (Echo) Apply(msg Message, out Emitter) error {
	return out.Emit(msg)
}

// Transpose shifts the note number by a fixed number of semitones,
// clamping to the valid range rather than wrapping.
type Transpose struct {
	Semitones int
}

// Apply implements Transform.
func (t Transpose) Apply(msg Message, out Emitter) error {
	msg.Data1 = clampNote(int(msg.Data1) + t.Semitones)
	return out.Emit(msg)
}

// ChordExpand multiplies one note message into len(Intervals) messages,
// one per semitone offset, in the given order. Include 0 in Intervals to
// keep the original note.
type ChordExpand struct {
	Intervals []int
}

// Apply implements Transform.
func (c ChordExpand) Apply(msg Message, out Emitter) error {
	for _, k := range c.Intervals {
		note := msg
		note.Data1 = clampNote(int(msg.Data1) + k)
		if err := out.Emit(note); err != nil {
			return err
		}
	}
	return nil
}

// clampNote clamps v to the valid data byte range 0..127. Clamping rather
// than wrapping keeps arithmetic from ever setting the high bit, which
// would turn a data byte into a status byte on the wire.
func clampNote(v int) byte {
	if v < 0 {
		return 0
	}
	if v > MaxNote {
		return MaxNote
	}
	return byte(v)
}
