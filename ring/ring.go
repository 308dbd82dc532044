package ring

import (
	"fmt"

	"midiline/hal"
	"midiline/pkg"
)

// Buffer moves bytes from an interrupt context to a cooperative consumer
// without heap use and without exposing the consumer to concurrent
// mutation. See the package documentation for the three-region layout.
//
// At most one producer (the interrupt context) and one consumer (the main
// loop) may use a Buffer concurrently. Buffer methods must never be called
// from more than one goroutine per role.
type Buffer struct {
	// Backing store, allocated once. The three region slices below alias
	// disjoint windows of it and are never reassigned.
	mem     []byte
	isr     []byte // producer scratch, interrupt context only
	pending []byte // accumulator, shared under interrupt masking
	drain   []byte // consumer-owned snapshot

	// waiting and overrun are written by the interrupt context and
	// read/reset by the consumer only while the interrupt is masked.
	waiting int
	overrun bool

	irq hal.InterruptMasker
}

// New creates a buffer sized for bursts of up to burst bytes and depth
// bursts of slack between drains. The masker is used only inside Drain to
// serialize access to the pending region.
//
// Total memory is burst × (2×depth + 1) bytes plus the struct itself.
// Configuration errors are rejected here, never at runtime.
func New(burst, depth int, irq hal.InterruptMasker) (*Buffer, error) {
	if burst <= 0 {
		return nil, fmt.Errorf("burst size %d: %w", burst, pkg.ErrInvalidConfig)
	}
	if depth <= 0 {
		return nil, fmt.Errorf("depth %d: %w", depth, pkg.ErrInvalidConfig)
	}
	if irq == nil {
		return nil, fmt.Errorf("nil interrupt masker: %w", pkg.ErrInvalidConfig)
	}

	mem := make([]byte, burst*(2*depth+1))
	return &Buffer{
		mem:     mem,
		isr:     mem[:burst],
		pending: mem[burst : burst*(depth+1)],
		drain:   mem[burst*(depth+1):],
		irq:     irq,
	}, nil
}

// BurstSize returns the capacity of the ISR scratch region.
func (b *Buffer) BurstSize() int {
	return len(b.isr)
}

// Capacity returns the size of the pending region, the maximum number of
// bytes that can accumulate between two drains.
func (b *Buffer) Capacity() int {
	return len(b.pending)
}

// ISRScratch returns the fixed scratch region for the interrupt handler to
// fill before calling Commit. Interrupt context only; the same slice is
// returned on every call.
func (b *Buffer) ISRScratch() []byte {
	return b.isr
}

// Commit appends the first n bytes of the scratch region to the pending
// region. Interrupt context only; the triggering interrupt is already
// masked by virtue of executing inside its handler.
//
// If the burst does not fit, or n is out of range for the scratch region,
// the burst is discarded whole and the overrun flag is set. The pending
// region never receives a partial burst.
func (b *Buffer) Commit(n int) {
	if n < 0 || n > len(b.isr) || b.waiting+n > len(b.pending) {
		b.overrun = true
		return
	}
	copy(b.pending[b.waiting:], b.isr[:n])
	b.waiting += n
}

// Drain moves all accumulated bytes into the consumer-owned drain region
// and returns the slice holding them, along with whether any burst was
// discarded since the previous drain. Task context only.
//
// The receive interrupt is masked for the minimum critical section: one
// metadata capture plus one copy bounded by Capacity bytes. After Drain
// returns, the interrupt context is free to produce again without touching
// the returned bytes. The overrun flag is captured and cleared inside the
// same critical section, so a burst lost at any point before the drain is
// always reported by exactly one drain.
//
// The returned slice aliases the same drain region on every call; its
// contents are valid only until the next Drain. Bytes beyond its length
// are stale data from earlier drains.
func (b *Buffer) Drain() ([]byte, bool) {
	state := b.irq.Mask()
	n := b.waiting
	overrun := b.overrun
	copy(b.drain[:n], b.pending[:n])
	b.waiting = 0
	b.overrun = false
	b.irq.Restore(state)
	return b.drain[:n], overrun
}

// Overrun reports whether one or more bursts have been discarded since the
// last drain. Task context only; the flag is sticky and clears on the next
// Drain. The interrupt is masked for the read, since the flag is written
// by Commit in the interrupt context.
func (b *Buffer) Overrun() bool {
	state := b.irq.Mask()
	overrun := b.overrun
	b.irq.Restore(state)
	return overrun
}
