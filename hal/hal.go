package hal

import (
	"context"
)

// ReceiveHandler is invoked in the interrupt context when between 1 and
// Transport.BurstSize bytes have been received. The handler must copy the
// pending bytes out with Transport.CopyReceived before returning, must not
// block, and must not allocate.
type ReceiveHandler func()

// InterruptState is the opaque prior-state token returned by
// InterruptMasker.Mask and consumed by InterruptMasker.Restore. Its value
// is meaningful only to the masker that produced it.
type InterruptState uint8

// InterruptMasker masks and unmasks the serial receive interrupt source.
//
// Both methods are called only from task context, never from the interrupt
// context itself. Mask must guarantee that no ReceiveHandler invocation is
// in progress or can begin until Restore is called.
type InterruptMasker interface {
	// Mask disables delivery of receive interrupts and returns the prior
	// mask state. Mask/Restore pairs must not be nested.
	Mask() InterruptState

	// Restore re-enables receive interrupt delivery, restoring the state
	// previously returned by Mask.
	Restore(state InterruptState)
}

// Transport is the serial line capability the pipeline core is built on.
//
// Implementations own framing and line configuration (baud rate, parity);
// the core only sees raw bytes. At most one ReceiveHandler is registered
// at a time, and it is invoked serially: a new burst is never delivered
// while a previous handler invocation is still running.
type Transport interface {
	// Init prepares the transport. The context can cancel initialization.
	Init(ctx context.Context) error

	// Start begins delivering receive interrupts to the registered handler.
	Start() error

	// Stop ceases interrupt delivery and releases transport resources.
	Stop() error

	// BurstSize returns the maximum number of bytes a single interrupt
	// can deliver.
	BurstSize() int

	// SetReceiveHandler registers the handler invoked from the interrupt
	// context on data arrival. Must be called before Start.
	SetReceiveHandler(fn ReceiveHandler)

	// CopyReceived copies the bytes of the current burst into dst and
	// returns the number of bytes copied. Valid only inside a
	// ReceiveHandler invocation; dst must hold at least BurstSize bytes.
	CopyReceived(dst []byte) int

	// WriteByte writes a single byte to the output line.
	WriteByte(b byte) error
}
