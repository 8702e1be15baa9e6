package speech

import "sync"

// Scripted is driven by its caller: Partial, Final and Fail fire the
// callbacks of the running session.
type Scripted struct {
	// StartErr, when set, is returned by the next Start.
	StartErr error

	mu      sync.Mutex
	cb      Callbacks
	running bool
	starts  int
	stops   int
}

func NewScripted() *Scripted {
	return &Scripted{}
}

func (s *Scripted) Name() string { return "scripted" }

func (s *Scripted) Start(cb Callbacks) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.StartErr; err != nil {
		s.StartErr = nil
		return err
	}
	if s.running {
		return ErrBusy
	}
	s.cb = cb
	s.running = true
	s.starts++
	return nil
}

func (s *Scripted) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.running = false
		s.stops++
	}
}

func (s *Scripted) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scripted) Counts() (starts, stops int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.starts, s.stops
}

// Callbacks returns the callbacks of the most recent session, running or not.
func (s *Scripted) Callbacks() Callbacks {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cb
}

func (s *Scripted) Partial(text string) error {
	cb, err := s.current(false)
	if err != nil {
		return err
	}
	if cb.OnPartial != nil {
		cb.OnPartial(text)
	}
	return nil
}

func (s *Scripted) Final(text string) error {
	cb, err := s.current(true)
	if err != nil {
		return err
	}
	if cb.OnFinal != nil {
		cb.OnFinal(text)
	}
	return nil
}

func (s *Scripted) Fail(failure error) error {
	cb, err := s.current(true)
	if err != nil {
		return err
	}
	if cb.OnError != nil {
		cb.OnError(failure)
	}
	return nil
}

func (s *Scripted) current(finish bool) (Callbacks, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return Callbacks{}, ErrNotStarted
	}
	if finish {
		s.running = false
	}
	return s.cb, nil
}
