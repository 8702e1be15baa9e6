//go:build !linux

package hotkey

import (
	"golang.design/x/hotkey"
)

type globalHotkey struct {
	hk      *hotkey.Hotkey
	keydown chan struct{}
	keyup   chan struct{}
	stop    chan struct{}
}

// New returns the system-wide Ctrl+Shift+Space hotkey.
func New() Hotkey {
	return &globalHotkey{
		hk:      hotkey.New([]hotkey.Modifier{hotkey.ModCtrl, hotkey.ModShift}, hotkey.KeySpace),
		keydown: make(chan struct{}, 1),
		keyup:   make(chan struct{}, 1),
		stop:    make(chan struct{}),
	}
}

func (h *globalHotkey) Register() error {
	if err := h.hk.Register(); err != nil {
		return err
	}
	go forward(h.hk.Keydown(), h.keydown, h.stop)
	go forward(h.hk.Keyup(), h.keyup, h.stop)
	return nil
}

func forward(in <-chan hotkey.Event, out chan<- struct{}, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-in:
		}
		select {
		case out <- struct{}{}:
		case <-stop:
			return
		}
	}
}

func (h *globalHotkey) Unregister() {
	select {
	case <-h.stop:
		return
	default:
		close(h.stop)
	}
	h.hk.Unregister()
}

func (h *globalHotkey) Keydown() <-chan struct{} {
	return h.keydown
}

func (h *globalHotkey) Keyup() <-chan struct{} {
	return h.keyup
}
