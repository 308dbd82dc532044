// Package ring implements the interrupt-to-task handoff buffer at the heart
// of the midiline pipeline.
//
// A [Buffer] decouples one producer running in an interrupt context from one
// consumer running in a cooperative main loop. It is built from a single
// preallocated block carved into three fixed, non-overlapping regions:
//
//		[ isr scratch | pending (burst × depth) | drain (burst × depth) ]
//
//	  - The scratch region is filled by the interrupt handler and appended to
//	    the pending region by [Buffer.Commit], both in interrupt context.
//	  - The pending region accumulates bytes between drains. It is the only
//	    state shared across contexts, and access to it is serialized by
//	    masking the receive interrupt for the short copy inside
//	    [Buffer.Drain].
//	  - The drain region belongs exclusively to the consumer. Because the
//	    interrupt context never touches it, the consumer can iterate it at
//	    leisure with interrupts enabled.
//
// # Zero-Allocation Design
//
// All memory is allocated once in [New] and reused for the lifetime of the
// buffer. Commit and Drain perform no allocation, which keeps interrupt
// latency deterministic: no garbage collection or allocator activity can be
// triggered from, or block, the interrupt context.
//
// # Overrun
//
// If a commit would not fit in the pending region the incoming burst is
// discarded whole and the sticky overrun flag is set. A burst is lost
// entirely or kept entirely, never split. The flag clears on the next
// drain. Size the buffer so that burst × depth bytes can never accumulate
// between drains; that bound is a configuration contract, not an enforced
// invariant.
package ring
