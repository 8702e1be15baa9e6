//go:build linux

package hotkey

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Linux input event codes, see linux/input-event-codes.h.
const (
	evKey = 1

	keyLeftCtrl   = 29
	keyLeftShift  = 42
	keySpace      = 57
	keyRightShift = 54
	keyRightCtrl  = 97
)

// struct input_event on 64-bit: 16 bytes of timeval, then type, code, value.
const eventSize = 24

var (
	inputDir = "/dev/input"
	sysDir   = "/sys/class/input"
)

var errNoKeyboard = errors.New("no keyboard devices found (is the user in the 'input' group?)")

type evdevHotkey struct {
	keydown chan struct{}
	keyup   chan struct{}

	mu      sync.Mutex
	devices []io.Closer
	stop    chan struct{}
}

// New returns a Ctrl+Shift+Space hotkey read from evdev keyboards.
func New() Hotkey {
	return &evdevHotkey{
		keydown: make(chan struct{}, 1),
		keyup:   make(chan struct{}, 1),
	}
}

func (h *evdevHotkey) Register() error {
	paths, err := keyboards()
	if err != nil {
		return fmt.Errorf("scan keyboards: %w", err)
	}
	if len(paths) == 0 {
		return errNoKeyboard
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.stop = make(chan struct{})
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		h.devices = append(h.devices, f)
		go h.watch(f, h.stop)
	}
	if len(h.devices) == 0 {
		return fmt.Errorf("open %d keyboard(s): permission denied (add the user to the 'input' group)", len(paths))
	}
	return nil
}

// watch reads events from one device until it is closed.
func (h *evdevHotkey) watch(r io.Reader, stop <-chan struct{}) {
	var c chord
	buf := make([]byte, eventSize*16)
	for {
		n, err := r.Read(buf)
		if err != nil {
			return
		}
		for off := 0; off+eventSize <= n; off += eventSize {
			switch c.feed(buf[off : off+eventSize]) {
			case chordDown:
				h.notify(h.keydown, stop)
			case chordUp:
				h.notify(h.keyup, stop)
			}
		}
	}
}

func (h *evdevHotkey) notify(ch chan struct{}, stop <-chan struct{}) {
	select {
	case <-stop:
	case ch <- struct{}{}:
	default:
	}
}

func (h *evdevHotkey) Unregister() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stop == nil {
		return
	}
	close(h.stop)
	h.stop = nil
	for _, d := range h.devices {
		d.Close()
	}
	h.devices = nil
}

func (h *evdevHotkey) Keydown() <-chan struct{} {
	return h.keydown
}

func (h *evdevHotkey) Keyup() <-chan struct{} {
	return h.keyup
}

type chordEdge int

const (
	chordNone chordEdge = iota
	chordDown
	chordUp
)

// chord tracks modifier state across raw key events of one device.
type chord struct {
	ctrl, shift, space bool
}

func (c *chord) feed(ev []byte) chordEdge {
	typ := binary.LittleEndian.Uint16(ev[16:])
	code := binary.LittleEndian.Uint16(ev[18:])
	value := int32(binary.LittleEndian.Uint32(ev[20:]))
	if typ != evKey || value == 2 { // 2 is autorepeat
		return chordNone
	}
	down := value == 1

	switch code {
	case keyLeftCtrl, keyRightCtrl:
		c.ctrl = down
	case keyLeftShift, keyRightShift:
		c.shift = down
	case keySpace:
		if down && !c.space && c.ctrl && c.shift {
			c.space = true
			return chordDown
		}
		if !down && c.space {
			c.space = false
			return chordUp
		}
	}
	return chordNone
}

func keyboards() ([]string, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "event") && hasKeys(e.Name()) {
			paths = append(paths, filepath.Join(inputDir, e.Name()))
		}
	}
	return paths, nil
}

// hasKeys reports whether the device advertises a full key bitmap, which
// tells keyboards apart from power buttons and lid switches.
func hasKeys(event string) bool {
	data, err := os.ReadFile(filepath.Join(sysDir, event, "device", "capabilities", "key"))
	if err != nil {
		return false
	}
	return len(strings.TrimSpace(string(data))) > 10
}
