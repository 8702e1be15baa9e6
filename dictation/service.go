package dictation

import (
	"errors"

	"dictate/auth"
	"dictate/observe"
	"dictate/speech"
)

var ErrNotAuthorized = errors.New("dictation not authorized")

// Wire feeds every emission of c into reg.
func Wire(c *Controller, reg *observe.Registry[string]) {
	c.SetOutput(reg.Dispatch)
}

// Service is one controller, the registry its output feeds, and the
// authorization gate in front of Toggle. Construct one per presenting
// component; there is no shared instance.
type Service struct {
	ctrl      *Controller
	observers *observe.Registry[string]
	gate      auth.Gate
}

func NewService(engine speech.Engine, opts ...Option) *Service {
	s := &Service{
		ctrl:      New(engine, opts...),
		observers: observe.New[string](),
	}
	Wire(s.ctrl, s.observers)
	return s
}

func (s *Service) Controller() *Controller { return s.ctrl }

func (s *Service) Observers() *observe.Registry[string] { return s.observers }

// Authorize records the authorization result. It must be called on the
// owning goroutine.
func (s *Service) Authorize(st auth.Status) { s.gate.Set(st) }

func (s *Service) Allowed() bool { return s.gate.Allowed() }

func (s *Service) Toggle() error {
	if !s.gate.Allowed() {
		return ErrNotAuthorized
	}
	s.ctrl.Toggle()
	return nil
}

// Subscribe registers observer with the service's registry.
func Subscribe[O any, P interface {
	*O
	observe.Observer[string]
}](s *Service, observer P) *observe.ManagedReference {
	return observe.Add[string, O, P](s.observers, observer)
}
