package speech

import (
	"errors"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	for _, tt := range []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", "fake", false},
		{"fake", "fake", false},
		{"scripted", "scripted", false},
		{"whisper", "", true},
	} {
		t.Run(tt.name, func(t *testing.T) {
			e, err := New(Config{Name: tt.name})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error for unknown engine")
				}
				return
			}
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if e.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", e.Name(), tt.want)
			}
		})
	}
}

func TestFakeFinal(t *testing.T) {
	f := NewFake("hello world", nil, 10*time.Millisecond)
	partial := make(chan string, 1)
	final := make(chan string, 1)
	if err := f.Start(Callbacks{
		OnPartial: func(s string) { partial <- s },
		OnFinal:   func(s string) { final <- s },
	}); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-final:
		if got != "hello world" {
			t.Errorf("final = %q", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for final")
	}
	if got := <-partial; got != "hello" {
		t.Errorf("partial = %q, want hello", got)
	}

	// session finished, a new one may start
	if err := f.Start(Callbacks{}); err != nil {
		t.Errorf("restart: %v", err)
	}
	f.Stop()
}

func TestFakeError(t *testing.T) {
	boom := errors.New("boom")
	f := NewFake("", boom, time.Millisecond)
	errs := make(chan error, 1)
	if err := f.Start(Callbacks{OnError: func(err error) { errs <- err }}); err != nil {
		t.Fatal(err)
	}
	select {
	case err := <-errs:
		if !errors.Is(err, boom) {
			t.Errorf("err = %v, want wrapped boom", err)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for error")
	}
}

func TestFakeStopSuppressesResult(t *testing.T) {
	f := NewFake("never", nil, 50*time.Millisecond)
	final := make(chan string, 1)
	if err := f.Start(Callbacks{OnFinal: func(s string) { final <- s }}); err != nil {
		t.Fatal(err)
	}
	if err := f.Start(Callbacks{}); !errors.Is(err, ErrBusy) {
		t.Errorf("second Start err = %v, want ErrBusy", err)
	}
	f.Stop()
	f.Stop() // idempotent

	select {
	case got := <-final:
		t.Fatalf("stopped session reported %q", got)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestScripted(t *testing.T) {
	s := NewScripted()
	if err := s.Final("x"); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Final before Start err = %v, want ErrNotStarted", err)
	}

	var got []string
	if err := s.Start(Callbacks{
		OnPartial: func(text string) { got = append(got, "partial:"+text) },
		OnFinal:   func(text string) { got = append(got, "final:"+text) },
	}); err != nil {
		t.Fatal(err)
	}
	s.Partial("he")
	s.Final("hello")
	if s.Running() {
		t.Error("Final should end the session")
	}
	if len(got) != 2 || got[0] != "partial:he" || got[1] != "final:hello" {
		t.Errorf("callbacks = %v", got)
	}

	s.StartErr = errors.New("mic busy")
	if err := s.Start(Callbacks{}); err == nil {
		t.Error("expected StartErr")
	}
	if err := s.Start(Callbacks{}); err != nil {
		t.Errorf("StartErr should apply once: %v", err)
	}
	s.Stop()
	starts, stops := s.Counts()
	if starts != 2 || stops != 1 {
		t.Errorf("Counts() = %d, %d; want 2, 1", starts, stops)
	}
}
