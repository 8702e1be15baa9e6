package main

import (
	"errors"
	"os"
	"time"

	"dictate/clipboard"
	"dictate/config"
	"dictate/dictation"
	"dictate/hotkey"
	"dictate/log"
	"dictate/observe"
	"dictate/speech"
)

// app owns the dictation service. Everything that touches the service runs
// on the goroutine calling app's methods; engine callbacks and the
// authorization result are delivered through channels to that goroutine.
type app struct {
	svc    *dictation.Service
	posted chan func()

	// The registry holds observers weakly, so app keeps them alive.
	out    *printer
	outRef *observe.ManagedReference
	clip   *clipboard.Sink
	counts *tally

	// pressStarted records whether the current hybrid press started the
	// session, in which case a tap leaves it running.
	pressStarted bool
}

func newApp(cfg config.Config, engine speech.Engine) *app {
	a := &app{
		posted: make(chan func(), 64),
		out:    newPrinter(os.Stdout),
		counts: &tally{},
	}
	a.svc = dictation.NewService(engine, dictation.WithPost(a.post))
	a.outRef = dictation.Subscribe(a.svc, a.out)
	dictation.Subscribe(a.svc, a.counts)
	if cfg.Clipboard.Copy {
		a.clip = clipboard.NewSink(clipboard.SinkOptions{
			Paste:        cfg.Clipboard.Paste,
			Restore:      cfg.Clipboard.Restore,
			RestoreDelay: cfg.Clipboard.RestoreDelay,
		})
		dictation.Subscribe(a.svc, a.clip)
	}
	return a
}

func (a *app) post(f func()) {
	a.posted <- f
}

// drain runs callbacks that are already queued.
func (a *app) drain() {
	for {
		select {
		case f := <-a.posted:
			f()
		default:
			return
		}
	}
}

// waitIdle runs queued callbacks until the running session finishes.
func (a *app) waitIdle(timeout time.Duration) bool {
	deadline := time.After(timeout)
	for a.svc.Controller().State() == dictation.Active {
		select {
		case f := <-a.posted:
			f()
		case <-deadline:
			return false
		}
	}
	return true
}

func (a *app) toggle() {
	err := a.svc.Toggle()
	if errors.Is(err, dictation.ErrNotAuthorized) {
		log.Warn("toggle_refused: not authorized")
		a.out.notice("dictation not authorized")
	}
}

// request switches dictation on or off, ignoring requests for the state
// the controller is already in.
func (a *app) request(on bool) {
	if (a.svc.Controller().State() == dictation.Active) == on {
		return
	}
	a.toggle()
}

// key acts on a hotkey gesture. Decisions are made against the
// controller's state, so a session that ended on its own needs no extra
// press to restart.
func (a *app) key(ev hotkey.Event) {
	active := a.svc.Controller().State() == dictation.Active
	switch ev {
	case hotkey.Toggle:
		a.toggle()
	case hotkey.Press:
		a.pressStarted = !active
		if !active {
			a.toggle()
		}
	case hotkey.Tap:
		if !a.pressStarted {
			a.request(false)
		}
		a.pressStarted = false
	case hotkey.HoldEnd:
		a.request(false)
		a.pressStarted = false
	}
}

// mute cancels the printer's registration; unmute registers it again.
func (a *app) mute() {
	a.outRef.Cancel()
}

func (a *app) unmute() {
	a.outRef = dictation.Subscribe(a.svc, a.out)
}

func (a *app) close() {
	log.SessionEnd(a.svc.Controller().Toggles(), a.counts.transcripts)
}
