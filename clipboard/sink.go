package clipboard

import (
	"time"

	"dictate/log"
	"dictate/output"
)

type SinkOptions struct {
	Paste        bool
	Restore      bool
	RestoreDelay time.Duration
}

// Sink observes dictation output and puts every transcript on the
// clipboard, optionally pasting it and then putting back whatever the
// clipboard held when dictation started. Clipboard work runs off the
// dispatching goroutine.
type Sink struct {
	opts SinkOptions

	read  func() (string, error)
	write func(string) error
	paste func() error
	async func(func())
	sleep func(time.Duration)

	prev chan string
}

func NewSink(opts SinkOptions) *Sink {
	return &Sink{
		opts:  opts,
		read:  Read,
		write: Copy,
		paste: Paste,
		async: func(f func()) { go f() },
		sleep: time.Sleep,
	}
}

func (s *Sink) restoring() bool {
	return s.opts.Paste && s.opts.Restore
}

func (s *Sink) Observe(out output.Output[string]) {
	out.Match(
		func(loading bool) {
			if !loading {
				s.prev = nil
				return
			}
			if s.restoring() {
				ch := make(chan string, 1)
				s.prev = ch
				s.async(func() {
					prev, _ := s.read()
					ch <- prev
				})
			}
		},
		func(text string) {
			prev := s.prev
			s.prev = nil
			if text == "" {
				return
			}
			s.async(func() { s.deliver(text, prev) })
		},
		func(error) {
			s.prev = nil
		},
	)
}

func (s *Sink) deliver(text string, prev <-chan string) {
	if err := s.write(text); err != nil {
		log.Errorf("clipboard copy error: %v", err)
		return
	}
	if !s.opts.Paste {
		return
	}
	if err := s.paste(); err != nil {
		log.Errorf("paste error: %v", err)
		return
	}
	if prev == nil {
		return
	}
	if old := <-prev; old != "" {
		s.sleep(s.opts.RestoreDelay)
		if err := s.write(old); err != nil {
			log.Warnf("clipboard restore error: %v", err)
		}
	}
}
