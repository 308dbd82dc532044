// Package hal defines the Hardware Abstraction Layer interfaces for the
// midiline pipeline.
//
// The pipeline core never talks to a serial peripheral directly. It depends
// on two narrow capabilities that platform code provides:
//
//   - [Transport]: delivers received bytes in small bursts from an
//     interrupt context and accepts single-byte output writes.
//   - [InterruptMasker]: masks and unmasks the receive interrupt source,
//     used for the short critical section inside the ring buffer drain.
//
// On microcontroller targets these map onto the UART receive interrupt and
// the interrupt controller. On hosts, the [midiline/hal/fifo] and
// [midiline/hal/rtmidi] packages emulate the same contract with a goroutine
// standing in for the interrupt context, which keeps the core testable
// without hardware.
package hal
