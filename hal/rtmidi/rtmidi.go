package rtmidi

import (
	"context"
	"fmt"
	"strings"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"midiline/hal"
	"midiline/pkg"
)

// BurstSize is the maximum incoming burst: one complete channel message.
// Longer messages (SysEx) are out of scope and dropped.
const BurstSize = 8

// HAL implements hal.Transport and hal.InterruptMasker over a pair of
// system MIDI ports.
type HAL struct {
	inName  string
	outName string

	inPort  drivers.In
	outPort drivers.Out
	send    func(gomidi.Message) error
	stopFn  func()

	// irq serializes burst delivery against Mask/Restore. The driver
	// callback holds it across each handler invocation.
	irq     sync.Mutex
	handler hal.ReceiveHandler
	rxBuf   [BurstSize]byte
	rxLen   int

	// Output coalescing state; task context only.
	outBuf [3]byte
	outLen int

	mutex    sync.RWMutex
	initDone bool
	running  bool
}

// New creates a transport bound to the first input and output ports whose
// names contain the given substrings (case-insensitive), resolved in Init.
func New(inName, outName string) *HAL {
	return &HAL{
		inName:  inName,
		outName: outName,
	}
}

// Ports returns the names of all available MIDI input and output ports.
func Ports() (ins, outs []string) {
	for _, p := range gomidi.GetInPorts() {
		ins = append(ins, p.String())
	}
	for _, p := range gomidi.GetOutPorts() {
		outs = append(outs, p.String())
	}
	return ins, outs
}

// CloseDriver releases the underlying MIDI driver. Call once at program
// exit, after all transports are stopped.
func CloseDriver() {
	gomidi.CloseDriver()
}

// Init resolves and opens the configured ports.
func (h *HAL) Init(ctx context.Context) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.initDone {
		return pkg.ErrAlreadyRunning
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	in, err := findInPort(h.inName)
	if err != nil {
		return err
	}
	out, err := findOutPort(h.outName)
	if err != nil {
		return err
	}

	send, err := gomidi.SendTo(out)
	if err != nil {
		return fmt.Errorf("open output %q: %w", out.String(), err)
	}

	h.inPort = in
	h.outPort = out
	h.send = send
	h.initDone = true

	pkg.LogInfo(pkg.ComponentHAL, "rtmidi transport initialized",
		"in", in.String(),
		"out", out.String())
	return nil
}

// Start begins listening on the input port. The driver callback thread is
// the transport's interrupt context.
func (h *HAL) Start() error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if !h.initDone {
		return pkg.ErrNotConfigured
	}
	if h.running {
		return pkg.ErrAlreadyRunning
	}

	stop, err := gomidi.ListenTo(h.inPort, h.receive)
	if err != nil {
		return fmt.Errorf("listen %q: %w", h.inPort.String(), err)
	}
	h.stopFn = stop
	h.running = true

	pkg.LogInfo(pkg.ComponentHAL, "rtmidi transport started")
	return nil
}

// Stop stops listening and closes both ports.
func (h *HAL) Stop() error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if !h.initDone {
		return pkg.ErrNotRunning
	}

	if h.stopFn != nil {
		h.stopFn()
		h.stopFn = nil
	}
	if h.outPort != nil {
		h.outPort.Close()
		h.outPort = nil
	}
	h.inPort = nil
	h.send = nil
	h.initDone = false
	h.running = false

	pkg.LogInfo(pkg.ComponentHAL, "rtmidi transport stopped")
	return nil
}

// BurstSize implements hal.Transport.
func (h *HAL) BurstSize() int {
	return BurstSize
}

// SetReceiveHandler implements hal.Transport. Must be called before Start.
func (h *HAL) SetReceiveHandler(fn hal.ReceiveHandler) {
	h.irq.Lock()
	h.handler = fn
	h.irq.Unlock()
}

// CopyReceived implements hal.Transport. Valid only inside a handler
// invocation, on the driver callback thread.
func (h *HAL) CopyReceived(dst []byte) int {
	return copy(dst, h.rxBuf[:h.rxLen])
}

// receive is the driver callback: one incoming message is one burst.
func (h *HAL) receive(msg gomidi.Message, timestampms int32) {
	raw := msg.Bytes()
	if len(raw) == 0 || len(raw) > BurstSize {
		return
	}

	h.irq.Lock()
	h.rxLen = copy(h.rxBuf[:], raw)
	if h.handler != nil {
		h.handler()
	}
	h.rxLen = 0
	h.irq.Unlock()
}

// WriteByte implements hal.Transport, coalescing bytes into complete
// messages at the port boundary.
func (h *HAL) WriteByte(b byte) error {
	h.mutex.RLock()
	send := h.send
	h.mutex.RUnlock()

	if send == nil {
		return pkg.ErrNotConfigured
	}

	if b >= 0xF8 {
		// System real-time: a complete message on its own, regardless of
		// any channel message being assembled around it.
		if err := send(gomidi.Message{b}); err != nil {
			return fmt.Errorf("send real-time %#02x: %w", b, err)
		}
		return nil
	}

	if b&0x80 != 0 {
		if h.outLen > 0 {
			pkg.LogDebug(pkg.ComponentHAL, "dropping incomplete outgoing message",
				"status", fmt.Sprintf("%#02x", h.outBuf[0]),
				"have", h.outLen)
		}
		h.outBuf[0] = b
		h.outLen = 1
	} else {
		if h.outLen == 0 {
			// A UART would emit this orphan byte as-is; a port cannot.
			pkg.LogDebug(pkg.ComponentHAL, "dropping orphan data byte",
				"byte", fmt.Sprintf("%#02x", b))
			return nil
		}
		h.outBuf[h.outLen] = b
		h.outLen++
	}

	if h.outLen < messageLength(h.outBuf[0]) {
		return nil
	}

	msg := gomidi.Message(h.outBuf[:h.outLen])
	h.outLen = 0
	if err := send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// Mask implements hal.InterruptMasker. While masked, the driver callback
// cannot deliver a burst.
func (h *HAL) Mask() hal.InterruptState {
	h.irq.Lock()
	return 1
}

// Restore implements hal.InterruptMasker.
func (h *HAL) Restore(state hal.InterruptState) {
	h.irq.Unlock()
}

// messageLength returns the wire length of the message begun by status.
func messageLength(status byte) int {
	switch status & 0xF0 {
	case 0xC0, 0xD0: // Program Change, Channel Pressure
		return 2
	case 0xF0:
		switch status {
		case 0xF1, 0xF3: // MTC Quarter Frame, Song Select
			return 2
		case 0xF2: // Song Position Pointer
			return 3
		default:
			return 1
		}
	default:
		return 3
	}
}

// findInPort returns the first input port whose name contains name.
func findInPort(name string) (drivers.In, error) {
	for _, p := range gomidi.GetInPorts() {
		if strings.Contains(strings.ToLower(p.String()), strings.ToLower(name)) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("input %q: %w", name, pkg.ErrNoPort)
}

// findOutPort returns the first output port whose name contains name.
func findOutPort(name string) (drivers.Out, error) {
	for _, p := range gomidi.GetOutPorts() {
		if strings.Contains(strings.ToLower(p.String()), strings.ToLower(name)) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("output %q: %w", name, pkg.ErrNoPort)
}

// Compile-time interface checks
var (
	_ hal.Transport       = (*HAL)(nil)
	_ hal.InterruptMasker = (*HAL)(nil)
)
