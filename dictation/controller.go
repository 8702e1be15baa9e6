// Package dictation drives one dictation session at a time and reports its
// progress as Output values.
//
// A Controller is owned by a single goroutine. Engine callbacks arrive on
// arbitrary goroutines and are handed back through the post function given
// to WithPost; without it they run inline.
package dictation

import (
	"fmt"

	"dictate/log"
	"dictate/output"
	"dictate/speech"
)

type State int

const (
	Idle State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "idle"
}

type Option func(*Controller)

// WithPost sets how engine callbacks reach the owning goroutine.
func WithPost(post func(func())) Option {
	return func(c *Controller) {
		if post != nil {
			c.post = post
		}
	}
}

type Controller struct {
	engine speech.Engine
	post   func(func())
	emit   func(output.Output[string])

	state   State
	session uint64
	partial string
	toggles int

	sending bool
	queue   []output.Output[string]
}

func New(engine speech.Engine, opts ...Option) *Controller {
	c := &Controller{
		engine: engine,
		post:   func(f func()) { f() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetOutput replaces the output slot. The last call wins.
func (c *Controller) SetOutput(fn func(output.Output[string])) {
	c.emit = fn
}

func (c *Controller) State() State { return c.state }

// Partial returns the latest partial transcript of the current session.
func (c *Controller) Partial() string { return c.partial }

func (c *Controller) Toggles() int { return c.toggles }

// Toggle starts a session when idle and ends the running one otherwise.
// Ending a session emits Loading(false) and discards any result the engine
// reports afterwards. Authorization is the caller's responsibility.
func (c *Controller) Toggle() {
	c.toggles++
	if c.state == Active {
		c.stop()
		return
	}
	c.start()
}

func (c *Controller) start() {
	c.session++
	id := c.session
	c.partial = ""
	c.setState(Active)
	c.send(output.Loading[string](true))
	if c.session != id {
		// an observer toggled the session off already
		return
	}

	err := c.engine.Start(speech.Callbacks{
		OnPartial: func(text string) {
			c.post(func() { c.onPartial(id, text) })
		},
		OnFinal: func(text string) {
			c.post(func() { c.finish(id, output.Success(text)) })
		},
		OnError: func(err error) {
			c.post(func() { c.finish(id, output.Failure[string](err)) })
		},
	})
	if err != nil {
		log.Errorf("engine start error: %v", err)
		c.finish(id, output.Failure[string](fmt.Errorf("start %s: %w", c.engine.Name(), err)))
	}
}

func (c *Controller) stop() {
	c.session++
	c.engine.Stop()
	c.setState(Idle)
	c.send(output.Loading[string](false))
}

func (c *Controller) onPartial(id uint64, text string) {
	if id != c.session || c.state != Active {
		return
	}
	c.partial = text
	log.Debug("partial: " + text)
}

func (c *Controller) finish(id uint64, out output.Output[string]) {
	if id != c.session || c.state != Active {
		log.Debug("stale session result dropped: " + out.String())
		return
	}
	c.session++
	c.setState(Idle)

	if text, ok := out.Value(); ok {
		log.TranscriptionText(text)
	} else if err := out.Err(); err != nil {
		log.Errorf("session failure: %v", err)
	}

	c.send(out, output.Loading[string](false))
}

func (c *Controller) setState(s State) {
	if c.state == s {
		return
	}
	log.Toggle(c.state.String(), s.String(), c.session)
	c.state = s
}

// send emits outs in order. Outputs produced by observers reacting to them,
// such as a new session started from a Success handler, are queued behind
// the whole batch.
func (c *Controller) send(outs ...output.Output[string]) {
	c.queue = append(c.queue, outs...)
	if c.sending {
		return
	}
	c.sending = true
	defer func() { c.sending = false }()

	for len(c.queue) > 0 {
		out := c.queue[0]
		c.queue = c.queue[1:]
		if c.emit != nil {
			c.emit(out)
		}
	}
	c.queue = nil
}
