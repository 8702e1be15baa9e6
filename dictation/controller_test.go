package dictation

import (
	"errors"
	"runtime"
	"strings"
	"testing"

	"dictate/auth"
	"dictate/observe"
	"dictate/output"
	"dictate/speech"
)

type recorder struct {
	got []output.Output[string]
}

func (r *recorder) Observe(o output.Output[string]) { r.got = append(r.got, o) }

func (r *recorder) trace() string {
	parts := make([]string, len(r.got))
	for i, o := range r.got {
		parts[i] = o.String()
	}
	return strings.Join(parts, " ")
}

func newWired(t *testing.T) (*Controller, *speech.Scripted, *recorder) {
	t.Helper()
	eng := speech.NewScripted()
	c := New(eng)
	rec := &recorder{}
	c.SetOutput(rec.Observe)
	return c, eng, rec
}

func TestToggleSuccess(t *testing.T) {
	c, eng, rec := newWired(t)

	c.Toggle()
	if c.State() != Active {
		t.Fatalf("State() = %s, want active", c.State())
	}
	eng.Partial("hel")
	if c.Partial() != "hel" {
		t.Errorf("Partial() = %q", c.Partial())
	}
	eng.Final("hello")

	want := `loading(true) success("hello") loading(false)`
	if got := rec.trace(); got != want {
		t.Errorf("emissions = %s, want %s", got, want)
	}
	if c.State() != Idle {
		t.Errorf("State() = %s, want idle", c.State())
	}
}

func TestToggleFailure(t *testing.T) {
	c, eng, rec := newWired(t)

	c.Toggle()
	eng.Fail(errors.New("no match"))

	want := "loading(true) failure(no match) loading(false)"
	if got := rec.trace(); got != want {
		t.Errorf("emissions = %s, want %s", got, want)
	}
	if c.State() != Idle {
		t.Errorf("State() = %s, want idle", c.State())
	}
}

func TestToggleTwiceCancelsSession(t *testing.T) {
	c, eng, rec := newWired(t)
	c.Toggle()
	cb := eng.Callbacks()
	c.Toggle()

	// the engine reporting late must not leak into the output
	cb.OnFinal("too late")
	cb.OnError(errors.New("too late"))

	want := "loading(true) loading(false)"
	if got := rec.trace(); got != want {
		t.Errorf("emissions = %s, want %s", got, want)
	}
	if eng.Running() {
		t.Error("engine should be stopped")
	}
	if c.State() != Idle || c.Toggles() != 2 {
		t.Errorf("State() = %s, Toggles() = %d", c.State(), c.Toggles())
	}
}

func TestStartError(t *testing.T) {
	c, eng, rec := newWired(t)
	eng.StartErr = errors.New("mic busy")

	c.Toggle()

	if len(rec.got) != 3 {
		t.Fatalf("emissions = %s", rec.trace())
	}
	if err := rec.got[1].Err(); err == nil || !strings.Contains(err.Error(), "mic busy") {
		t.Errorf("failure = %v, want mic busy", err)
	}
	if flag, ok := rec.got[2].Flag(); !ok || flag {
		t.Errorf("last emission = %s, want loading(false)", rec.got[2])
	}
	if c.State() != Idle {
		t.Errorf("State() = %s, want idle", c.State())
	}
}

func TestRestartAfterCompletion(t *testing.T) {
	c, eng, rec := newWired(t)
	c.Toggle()
	eng.Final("one")
	c.Toggle()
	eng.Final("two")

	want := `loading(true) success("one") loading(false) loading(true) success("two") loading(false)`
	if got := rec.trace(); got != want {
		t.Errorf("emissions = %s, want %s", got, want)
	}
}

func TestSetOutputLastWins(t *testing.T) {
	eng := speech.NewScripted()
	c := New(eng)
	first, second := &recorder{}, &recorder{}
	c.SetOutput(first.Observe)
	c.SetOutput(second.Observe)

	c.Toggle()

	if len(first.got) != 0 || len(second.got) != 1 {
		t.Errorf("first got %d, second got %d", len(first.got), len(second.got))
	}
}

func TestPostMarshalsCallbacks(t *testing.T) {
	eng := speech.NewScripted()
	var queue []func()
	c := New(eng, WithPost(func(f func()) { queue = append(queue, f) }))
	rec := &recorder{}
	c.SetOutput(rec.Observe)

	c.Toggle()
	eng.Final("queued")
	if len(rec.got) != 1 {
		t.Fatalf("callback ran before being posted: %s", rec.trace())
	}
	for _, f := range queue {
		f()
	}
	want := `loading(true) success("queued") loading(false)`
	if got := rec.trace(); got != want {
		t.Errorf("emissions = %s, want %s", got, want)
	}
}

func TestServiceGate(t *testing.T) {
	svc := NewService(speech.NewScripted())
	rec := &recorder{}
	ref := Subscribe(svc, rec)

	if err := svc.Toggle(); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("Toggle() err = %v, want ErrNotAuthorized", err)
	}
	if len(rec.got) != 0 {
		t.Fatal("unauthorized toggle emitted output")
	}

	svc.Authorize(auth.Authorized)
	if err := svc.Toggle(); err != nil {
		t.Fatal(err)
	}
	if err := svc.Toggle(); err != nil {
		t.Fatal(err)
	}
	if got := rec.trace(); got != "loading(true) loading(false)" {
		t.Errorf("emissions = %s", got)
	}

	ref.Cancel()
	svc.Toggle()
	if len(rec.got) != 2 {
		t.Errorf("cancelled observer still receives output: %s", rec.trace())
	}
	if svc.Controller().State() != Active {
		t.Error("cancelling a registration must not stop the session")
	}
}

//go:noinline
func subscribeDropped(svc *Service) {
	Subscribe(svc, &recorder{})
}

func TestServiceFanOut(t *testing.T) {
	eng := speech.NewScripted()
	svc := NewService(eng)
	svc.Authorize(auth.Authorized)

	a, b := &recorder{}, &recorder{}
	Subscribe(svc, a)
	Subscribe(svc, b)
	Subscribe(svc, a) // same identity, still one entry
	subscribeDropped(svc)
	runtime.GC()
	runtime.GC()

	svc.Toggle()
	eng.Final("fan out")

	want := `loading(true) success("fan out") loading(false)`
	for name, r := range map[string]*recorder{"a": a, "b": b} {
		if got := r.trace(); got != want {
			t.Errorf("%s emissions = %s, want %s", name, got, want)
		}
	}
	if n := svc.Observers().Len(); n != 2 {
		t.Errorf("Observers().Len() = %d, want 2", n)
	}
}

type toggler struct {
	c     *Controller
	fired bool
}

func (tg *toggler) Observe(o output.Output[string]) {
	if _, ok := o.Value(); ok && !tg.fired {
		tg.fired = true
		tg.c.Toggle()
	}
}

func TestObserverTogglesDuringSuccess(t *testing.T) {
	eng := speech.NewScripted()
	svc := NewService(eng)
	rec := &recorder{}
	tg := &toggler{c: svc.Controller()}
	observe.Add(svc.Observers(), tg)
	observe.Add(svc.Observers(), rec)

	svc.Controller().Toggle()
	eng.Final("again")

	// the new session starts only after the first one has closed
	want := `loading(true) success("again") loading(false) loading(true)`
	if got := rec.trace(); got != want {
		t.Errorf("emissions = %s, want %s", got, want)
	}
	if svc.Controller().State() != Active {
		t.Errorf("State() = %s, want active", svc.Controller().State())
	}
	if !eng.Running() {
		t.Error("second session should have started the engine")
	}

	eng.Final("twice")
	want += ` success("twice") loading(false)`
	if got := rec.trace(); got != want {
		t.Errorf("emissions = %s, want %s", got, want)
	}
	runtime.KeepAlive(tg)
}

func TestObserverTogglesOffDuringLoading(t *testing.T) {
	eng := speech.NewScripted()
	c := New(eng)
	rec := &recorder{}
	reg := observe.New[string]()
	Wire(c, reg)
	stopper := &loadingStopper{c: c}
	observe.Add(reg, stopper)
	observe.Add(reg, rec)

	c.Toggle()

	if want := "loading(true) loading(false)"; rec.trace() != want {
		t.Errorf("emissions = %s, want %s", rec.trace(), want)
	}
	if eng.Running() {
		t.Error("engine started for a session cancelled before it began")
	}
	if c.State() != Idle {
		t.Errorf("State() = %s, want idle", c.State())
	}
	runtime.KeepAlive(stopper)
	runtime.KeepAlive(rec)
}

type loadingStopper struct {
	c *Controller
}

func (s *loadingStopper) Observe(o output.Output[string]) {
	if on, ok := o.Flag(); ok && on {
		s.c.Toggle()
	}
}
