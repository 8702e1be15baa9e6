package hotkey

import (
	"time"
)

// Event is a key gesture. The toggler keeps no notion of whether dictation
// is running; the receiver decides what a gesture means for the current
// session.
type Event int

const (
	// Toggle is a press in plain mode.
	Toggle Event = iota
	// Press is the key going down in hybrid mode.
	Press
	// Tap is a release before the long-press threshold.
	Tap
	// HoldEnd is a release after the key was held past the threshold.
	HoldEnd
)

func (e Event) String() string {
	switch e {
	case Toggle:
		return "toggle"
	case Press:
		return "press"
	case Tap:
		return "tap"
	case HoldEnd:
		return "hold_end"
	}
	return "unknown"
}

// Toggler turns raw key presses into gesture events. In plain mode every
// press is a Toggle. In hybrid mode each press yields Press followed by Tap
// or HoldEnd, depending on how long the key was held.
type Toggler struct {
	events chan Event
	stop   chan struct{}
}

func NewToggler(hk Hotkey, hybrid bool, longPress time.Duration) *Toggler {
	t := &Toggler{
		events: make(chan Event, 1),
		stop:   make(chan struct{}),
	}
	if hybrid {
		go t.runHybrid(hk, longPress)
	} else {
		go t.runPlain(hk)
	}
	return t
}

func (t *Toggler) Events() <-chan Event { return t.events }

func (t *Toggler) Close() {
	select {
	case <-t.stop:
	default:
		close(t.stop)
	}
}

func (t *Toggler) closed() bool {
	select {
	case <-t.stop:
		return true
	default:
		return false
	}
}

func (t *Toggler) send(ev Event) bool {
	if t.closed() {
		return false
	}
	select {
	case t.events <- ev:
		return true
	case <-t.stop:
		return false
	}
}

func (t *Toggler) wait(ch <-chan struct{}) bool {
	if t.closed() {
		return false
	}
	select {
	case <-ch:
		return true
	case <-t.stop:
		return false
	}
}

func (t *Toggler) runPlain(hk Hotkey) {
	for t.wait(hk.Keydown()) {
		if !t.send(Toggle) {
			return
		}
	}
}

func (t *Toggler) runHybrid(hk Hotkey, longPress time.Duration) {
	for t.wait(hk.Keydown()) {
		if !t.send(Press) {
			return
		}
		timer := time.NewTimer(longPress)
		select {
		case <-timer.C:
			if !t.wait(hk.Keyup()) || !t.send(HoldEnd) {
				return
			}
		case <-hk.Keyup():
			timer.Stop()
			if !t.send(Tap) {
				return
			}
		case <-t.stop:
			timer.Stop()
			return
		}
	}
}
