package speech

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Fake reports a fixed transcript, or a fixed error, delay after Start.
type Fake struct {
	text  string
	err   error
	delay time.Duration

	mu   sync.Mutex
	stop chan struct{}
}

func NewFake(text string, err error, delay time.Duration) *Fake {
	return &Fake{text: text, err: err, delay: delay}
}

func (f *Fake) Name() string { return "fake" }

func (f *Fake) Start(cb Callbacks) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stop != nil {
		return ErrBusy
	}
	stop := make(chan struct{})
	f.stop = stop

	go func() {
		timer := time.NewTimer(f.delay)
		defer timer.Stop()
		if first, _, ok := strings.Cut(f.text, " "); ok && cb.OnPartial != nil {
			cb.OnPartial(first)
		}
		select {
		case <-stop:
			return
		case <-timer.C:
		}

		f.mu.Lock()
		if f.stop != stop {
			f.mu.Unlock()
			return
		}
		f.stop = nil
		f.mu.Unlock()

		if f.err != nil {
			if cb.OnError != nil {
				cb.OnError(fmt.Errorf("fake engine error: %w", f.err))
			}
			return
		}
		if cb.OnFinal != nil {
			cb.OnFinal(f.text)
		}
	}()
	return nil
}

func (f *Fake) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stop != nil {
		close(f.stop)
		f.stop = nil
	}
}
