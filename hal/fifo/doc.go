// Package fifo implements a simulated serial MIDI transport using named
// pipes.
//
// This transport is primarily intended for testing and demos. It lets
// other processes play the roles of the MIDI keyboard and the sound
// module, enabling end-to-end pipeline runs without a UART or a MIDI
// interface.
//
// # Architecture
//
// The transport owns two FIFOs inside a caller-supplied directory:
//
//	/tmp/midi-bus/
//	├── midi_in     # bytes written here arrive at the pipeline (MIDI IN)
//	└── midi_out    # the pipeline's output line (MIDI OUT)
//
// A dedicated reader goroutine stands in for the interrupt context: it
// reads up to BurstSize bytes at a time from midi_in and invokes the
// registered receive handler for each burst, exactly as a UART receive
// interrupt would. The handler and the mask gate run under the same lock,
// so [HAL.Mask] provides the interrupt-masking guarantee the ring buffer's
// drain relies on: while masked, no burst can be delivered.
//
// # Zero-Allocation Design
//
// The burst scratch buffer is allocated once in [New] and reused for every
// delivery; the hot paths perform no allocation. (Being host-side
// simulation, the timing is best-effort rather than real-time.)
//
// # Usage
//
//	transport := fifo.New("/tmp/midi-bus")
//	proc, err := pipeline.New(transport, transport, 3, pipeline.Transpose{Semitones: 12})
//	...
//	err = proc.Run(ctx, 2*time.Millisecond)
//
// Feed the pipeline from a shell with e.g.
//
//	printf '\x90\x40\x64' > /tmp/midi-bus/midi_in
//	cat /tmp/midi-bus/midi_out | xxd
package fifo
