package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"midiline/hal"
	"midiline/pkg"
	"midiline/ring"
)

// component identifies this package for structured logging.
const component = pkg.ComponentPipeline

// parserState tracks message re-assembly progress.
type parserState uint8

const (
	stateIdle       parserState = iota // waiting for a status or running-status data byte
	stateCollecting                    // accumulating data bytes for p.status
)

// TickStats reports what a single Tick processed.
type TickStats struct {
	Bytes    int  // bytes drained from the ring buffer
	Messages int  // Note On/Off messages completed
	Overrun  bool // bursts were discarded since the previous tick
}

// Processor drains interrupt-received bytes, re-assembles them into MIDI
// messages with a running-status state machine, applies a transform to
// completed Note On/Off messages, and writes the result back out.
//
// The receive handler registered with the transport is the only Processor
// code that runs in the interrupt context; Tick, Reset, and the transform
// run on the caller's main loop.
type Processor struct {
	transport hal.Transport
	buf       *ring.Buffer
	transform Transform

	state     parserState
	status    byte // status of the message being collected
	data1     byte // first data byte of the message being collected
	collected int  // data bytes accumulated so far (0..2)
	running   byte // running status, 0 = none
}

// New creates a processor on top of transport, buffering up to depth
// interrupt bursts between ticks. The masker serializes ring buffer drains
// against the transport's interrupt context. The processor registers its
// receive handler with the transport; the caller still controls the
// transport lifecycle (directly or via Run).
func New(transport hal.Transport, irq hal.InterruptMasker, depth int, transform Transform) (*Processor, error) {
	if transport == nil {
		return nil, fmt.Errorf("nil transport: %w", pkg.ErrInvalidConfig)
	}
	if transform == nil {
		return nil, fmt.Errorf("nil transform: %w", pkg.ErrInvalidConfig)
	}

	buf, err := ring.New(transport.BurstSize(), depth, irq)
	if err != nil {
		return nil, fmt.Errorf("ring buffer: %w", err)
	}

	p := &Processor{
		transport: transport,
		buf:       buf,
		transform: transform,
	}
	transport.SetReceiveHandler(p.handleReceive)
	return p, nil
}

// handleReceive runs in the interrupt context: copy the burst into the
// scratch region and commit it. Nothing here blocks, allocates, or logs.
func (p *Processor) handleReceive() {
	n := p.transport.CopyReceived(p.buf.ISRScratch())
	p.buf.Commit(n)
}

// Tick drains all bytes received since the previous tick and runs them
// through the parser. Call it from the main loop often enough that the
// ring buffer cannot fill between calls.
//
// An overrun is reported in the returned stats, not as an error: lost
// bytes are an expected operating condition. The parser is deliberately
// not reset on overrun, so the caller can decide between observing the
// condition and calling Reset.
func (p *Processor) Tick() (TickStats, error) {
	data, overrun := p.buf.Drain()
	stats := TickStats{Bytes: len(data), Overrun: overrun}
	if overrun {
		pkg.LogWarn(component, "receive overrun, bursts discarded",
			"capacity", p.buf.Capacity())
	}
	if len(data) > 0 && pkg.GetLogLevel() <= slog.LevelDebug {
		pkg.LogDebug(component, "rx bytes", "data", fmt.Sprintf("% X", data))
	}

	for _, b := range data {
		completed, err := p.consume(b)
		if err != nil {
			return stats, err
		}
		if completed {
			stats.Messages++
		}
	}
	return stats, nil
}

// consume advances the state machine by one byte. It reports whether a
// Note On/Off message completed on this byte.
func (p *Processor) consume(b byte) (bool, error) {
	// Real-time filter: dropped before the parser ever sees them.
	if b == realtimeActiveSensing || b == realtimeStop {
		return false, nil
	}

	if b&0x80 != 0 {
		// Status byte.
		switch b & statusMask {
		case statusNoteOff, statusNoteOn:
			p.state = stateCollecting
			p.status = b
			p.collected = 0
			p.running = b
			return false, nil
		default:
			// Not interpreted: abandon any partial collection and pass
			// the byte through unchanged. The running status survives.
			p.state = stateIdle
			p.collected = 0
			return false, p.forward(b)
		}
	}

	// Data byte.
	if p.state == stateIdle {
		if p.running == 0 {
			// Unsynchronized stream; forward rather than drop.
			return false, p.forward(b)
		}
		// Running status: omitted status byte, new message of the same type.
		p.state = stateCollecting
		p.status = p.running
		p.collected = 0
		pkg.LogDebug(component, "running status continuation",
			"status", fmt.Sprintf("%#02x", p.status))
	}

	if p.collected == 0 {
		p.data1 = b
		p.collected = 1
		return false, nil
	}

	msg := Message{Status: p.status, Data1: p.data1, Data2: b}
	p.state = stateIdle
	p.collected = 0

	pkg.LogDebug(component, "message complete",
		"status", fmt.Sprintf("%#02x", msg.Status),
		"note", msg.Data1,
		"velocity", msg.Data2)

	return true, p.transform.Apply(msg, p)
}

// Emit implements Emitter by writing the message bytes to the transport
// in wire order.
func (p *Processor) Emit(m Message) error {
	if err := p.transport.WriteByte(m.Status); err != nil {
		return fmt.Errorf("emit status: %w", err)
	}
	if err := p.transport.WriteByte(m.Data1); err != nil {
		return fmt.Errorf("emit data1: %w", err)
	}
	if err := p.transport.WriteByte(m.Data2); err != nil {
		return fmt.Errorf("emit data2: %w", err)
	}
	pkg.LogDebug(component, "tx message",
		"status", m.Status, "data1", m.Data1, "data2", m.Data2)
	return nil
}

// forward writes a single pass-through byte to the transport.
func (p *Processor) forward(b byte) error {
	if err := p.transport.WriteByte(b); err != nil {
		return fmt.Errorf("forward byte %#02x: %w", b, err)
	}
	pkg.LogDebug(component, "tx pass-through", "byte", b)
	return nil
}

// Reset returns the parser to idle and clears the running status. It does
// not touch the ring buffer; bytes already committed will still be parsed,
// from a clean state, on the next tick.
func (p *Processor) Reset() {
	p.state = stateIdle
	p.collected = 0
	p.running = 0
}

// Run initializes and starts the transport, ticks at the given interval
// until ctx is cancelled, then stops the transport. It is a convenience
// wrapper for callers without their own main loop.
func (p *Processor) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("tick interval %v: %w", interval, pkg.ErrInvalidConfig)
	}

	if err := p.transport.Init(ctx); err != nil {
		return fmt.Errorf("transport init: %w", err)
	}
	if err := p.transport.Start(); err != nil {
		return fmt.Errorf("transport start: %w", err)
	}
	defer p.transport.Stop()

	pkg.LogInfo(component, "processor running",
		"burst", p.transport.BurstSize(),
		"capacity", p.buf.Capacity(),
		"interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := p.Tick(); err != nil {
				return err
			}
		}
	}
}
