// Package pipeline converts an interrupt-fed MIDI byte stream into complete
// messages and applies a transform before re-emission.
//
// A [Processor] owns a [midiline/hal.Transport] and a [midiline/ring.Buffer].
// Its receive handler runs in the interrupt context and only moves bytes:
// transport scratch → ring buffer. Everything else happens on the main
// loop's [Processor.Tick]: drain, parse, transform, write out.
//
// # Parser
//
// The parser is a running-status state machine over the raw byte stream:
//
//   - Note On/Off status bytes (0x8n, 0x9n) start a message collection and
//     become the running status.
//   - Any other status byte is forwarded unchanged and abandons a partial
//     collection. The real-time bytes 0xFE (Active Sensing) and 0xFC (Stop)
//     are dropped outright and never touch parser state.
//   - Data bytes fill the collection in order. A data byte arriving while
//     idle reuses the running status (the MIDI running-status convention);
//     with no running status it is forwarded unchanged, since silently
//     dropping bytes would make the device unpredictable at the keyboard.
//
// Parser state persists across ticks, so a message may span drain
// boundaries. Bytes lost to a ring-buffer overrun are simply absent from
// the stream; the parser never resets itself on overrun, it only reports
// the condition in [TickStats]. Callers wanting a stricter policy can call
// [Processor.Reset].
//
// # Transforms
//
// Completed Note On/Off messages pass through the configured [Transform]:
// [Echo], [Transpose], or [ChordExpand]. Note numbers are clamped to
// 0..127 so arithmetic can never produce a spurious status byte.
package pipeline
