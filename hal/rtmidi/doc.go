// Package rtmidi implements the pipeline transport on real MIDI ports via
// gitlab.com/gomidi/midi/v2 with the rtmidi driver.
//
// Incoming port messages arrive on the driver's callback thread, which
// plays the interrupt context: each message's raw bytes are one burst
// delivered to the registered receive handler under the mask gate.
//
// # Output coalescing
//
// rtmidi sends complete MIDI messages, not individual bytes, so the
// single-byte writes coming out of the pipeline are coalesced at message
// boundaries using the standard length of each status byte. System
// real-time bytes go out immediately. Orphan data bytes, which a UART
// would put on the wire as-is, have no legal representation at a port
// boundary and are dropped with a debug log.
//
// SysEx is out of scope for the pipeline; incoming messages longer than
// one burst are dropped.
package rtmidi
