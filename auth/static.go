package auth

import (
	"context"
	"sync"
)

// Static reports a configured status. While NotDetermined, Request settles
// it to the configured answer.
type Static struct {
	mu     sync.Mutex
	status Status
	answer Status
}

func NewStatic(status, answer Status) *Static {
	if answer == NotDetermined {
		answer = Denied
	}
	return &Static{status: status, answer: answer}
}

func (s *Static) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Static) Request(ctx context.Context) <-chan Status {
	out := make(chan Status, 1)
	go func() {
		s.mu.Lock()
		if s.status == NotDetermined {
			s.status = s.answer
		}
		st := s.status
		s.mu.Unlock()
		out <- st
		close(out)
	}()
	return out
}
