package fifo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"midiline/hal"
	"midiline/pkg"
)

// DefaultBurstSize is the maximum number of bytes delivered per simulated
// interrupt, matching the burst a hardware UART FIFO would produce.
const DefaultBurstSize = 8

// FIFO file names inside the bus directory.
const (
	fifoMIDIIn  = "midi_in"  // external writer → pipeline
	fifoMIDIOut = "midi_out" // pipeline → external reader
)

// readPollInterval bounds how long the reader goroutine blocks before
// rechecking for shutdown.
const readPollInterval = 100 * time.Millisecond

// HAL implements hal.Transport and hal.InterruptMasker over two named
// pipes. A reader goroutine plays the interrupt context.
type HAL struct {
	dir   string
	burst int

	inRead   *os.File // pipeline reads received bytes
	outWrite *os.File // pipeline writes the output line

	// irq serializes burst delivery against Mask/Restore. The reader
	// goroutine holds it across each handler invocation.
	irq     sync.Mutex
	handler hal.ReceiveHandler
	rxBuf   []byte // burst scratch, allocated once
	rxLen   int    // valid bytes in rxBuf during a handler invocation

	// mutex protects lifecycle state.
	mutex     sync.RWMutex
	initDone  bool
	running   bool
	closeCh   chan struct{}
	closeOnce sync.Once
	readerWG  sync.WaitGroup
}

// New creates a FIFO transport rooted at dir with the default burst size.
// The directory is created by Init if it does not exist.
func New(dir string) *HAL {
	return NewWithBurst(dir, DefaultBurstSize)
}

// NewWithBurst creates a FIFO transport delivering at most burst bytes per
// simulated interrupt. A non-positive burst falls back to the default.
func NewWithBurst(dir string, burst int) *HAL {
	if burst <= 0 {
		burst = DefaultBurstSize
	}
	return &HAL{
		dir:     dir,
		burst:   burst,
		rxBuf:   make([]byte, burst),
		closeCh: make(chan struct{}),
	}
}

// Init creates the bus directory and both FIFOs, and opens them.
// FIFOs are opened O_RDWR so neither end blocks waiting for a peer and
// reads never hit EOF when a writer disconnects.
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

	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		return fmt.Errorf("create bus dir: %w", err)
	}
	if err := h.createFIFO(fifoMIDIIn); err != nil {
		return err
	}
	if err := h.createFIFO(fifoMIDIOut); err != nil {
		return err
	}

	var err error
	h.inRead, err = h.openFIFO(fifoMIDIIn)
	if err != nil {
		h.cleanup()
		return err
	}
	h.outWrite, err = h.openFIFO(fifoMIDIOut)
	if err != nil {
		h.cleanup()
		return err
	}

	// Re-arm the close signal so the transport can be restarted after Stop.
	h.closeCh = make(chan struct{})
	h.closeOnce = sync.Once{}

	h.initDone = true
	pkg.LogInfo(pkg.ComponentHAL, "fifo transport initialized",
		"dir", h.dir,
		"burst", h.burst)
	return nil
}

// Start launches the reader goroutine that delivers receive bursts.
func (h *HAL) Start() error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if !h.initDone {
		return pkg.ErrNotConfigured
	}
	if h.running {
		return pkg.ErrAlreadyRunning
	}

	h.running = true
	h.readerWG.Add(1)
	go h.interruptLoop(h.closeCh)

	pkg.LogInfo(pkg.ComponentHAL, "fifo transport started")
	return nil
}

// Stop shuts down the reader goroutine and removes the FIFOs.
func (h *HAL) Stop() error {
	h.mutex.RLock()
	initDone := h.initDone
	h.mutex.RUnlock()
	if !initDone {
		return pkg.ErrNotRunning
	}

	h.closeOnce.Do(func() {
		close(h.closeCh)
	})
	h.readerWG.Wait()

	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.cleanup()
	h.initDone = false
	h.running = false
	pkg.LogInfo(pkg.ComponentHAL, "fifo transport stopped")
	return nil
}

// BurstSize implements hal.Transport.
func (h *HAL) BurstSize() int {
	return h.burst
}

// SetReceiveHandler implements hal.Transport. Must be called before Start.
func (h *HAL) SetReceiveHandler(fn hal.ReceiveHandler) {
	h.irq.Lock()
	h.handler = fn
	h.irq.Unlock()
}

// CopyReceived implements hal.Transport. Valid only inside a handler
// invocation, on the reader goroutine.
func (h *HAL) CopyReceived(dst []byte) int {
	return copy(dst, h.rxBuf[:h.rxLen])
}

// WriteByte implements hal.Transport by writing one byte to midi_out.
func (h *HAL) WriteByte(b byte) error {
	h.mutex.RLock()
	f := h.outWrite
	h.mutex.RUnlock()

	if f == nil {
		return pkg.ErrNotConfigured
	}

	buf := [1]byte{b}
	if _, err := f.Write(buf[:]); err != nil {
		return fmt.Errorf("write midi out: %w", err)
	}
	return nil
}

// Mask implements hal.InterruptMasker. While masked, the reader goroutine
// cannot deliver a burst; a burst already being delivered has completed by
// the time Mask returns.
func (h *HAL) Mask() hal.InterruptState {
	h.irq.Lock()
	return 1
}

// Restore implements hal.InterruptMasker.
func (h *HAL) Restore(state hal.InterruptState) {
	h.irq.Unlock()
}

// Dir returns the bus directory path.
func (h *HAL) Dir() string {
	return h.dir
}

// interruptLoop is the simulated interrupt context: it reads bursts from
// midi_in and delivers each to the registered handler under the mask gate.
func (h *HAL) interruptLoop(closeCh <-chan struct{}) {
	defer h.readerWG.Done()

	for {
		select {
		case <-closeCh:
			return
		default:
		}

		h.inRead.SetReadDeadline(time.Now().Add(readPollInterval))
		n, err := h.inRead.Read(h.rxBuf[:h.burst])
		if n > 0 {
			h.irq.Lock()
			h.rxLen = n
			if h.handler != nil {
				h.handler()
			}
			h.rxLen = 0
			h.irq.Unlock()
		}
		if err != nil && !os.IsTimeout(err) {
			select {
			case <-closeCh:
			default:
				pkg.LogError(pkg.ComponentHAL, "midi in read failed", "error", err)
			}
			return
		}
	}
}

// cleanup closes both FIFOs and removes them from the bus directory.
func (h *HAL) cleanup() {
	if h.inRead != nil {
		h.inRead.Close()
		h.inRead = nil
	}
	if h.outWrite != nil {
		h.outWrite.Close()
		h.outWrite = nil
	}
	os.Remove(filepath.Join(h.dir, fifoMIDIIn))
	os.Remove(filepath.Join(h.dir, fifoMIDIOut))
}

// createFIFO creates a named pipe inside the bus directory.
func (h *HAL) createFIFO(name string) error {
	path := filepath.Join(h.dir, name)

	// Remove existing file if any
	os.Remove(path)

	if err := syscall.Mkfifo(path, 0o666); err != nil {
		return fmt.Errorf("mkfifo %s: %w", name, err)
	}
	return nil
}

// openFIFO opens a named pipe read-write and non-blocking.
func (h *HAL) openFIFO(name string) (*os.File, error) {
	path := filepath.Join(h.dir, name)
	f, err := os.OpenFile(path, os.O_RDWR|syscall.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return f, nil
}

// Compile-time interface checks
var (
	_ hal.Transport       = (*HAL)(nil)
	_ hal.InterruptMasker = (*HAL)(nil)
)
