// Package speech defines the session interface of an external
// speech-to-text engine. Recognition itself lives outside this module.
package speech

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotStarted = errors.New("speech session not started")
	ErrBusy       = errors.New("speech session already running")
)

// Callbacks may be invoked from any goroutine.
type Callbacks struct {
	OnPartial func(text string)
	OnFinal   func(text string)
	OnError   func(err error)
}

type Engine interface {
	Name() string
	Start(cb Callbacks) error
	// Stop ends the running session without reporting a result.
	Stop()
}

type Config struct {
	Name  string
	Text  string
	Fail  string
	Delay time.Duration
}

func New(cfg Config) (Engine, error) {
	switch cfg.Name {
	case "", "fake":
		var err error
		if cfg.Fail != "" {
			err = errors.New(cfg.Fail)
		}
		return NewFake(cfg.Text, err, cfg.Delay), nil
	case "scripted":
		return NewScripted(), nil
	default:
		return nil, fmt.Errorf("unknown speech engine %q (use fake or scripted)", cfg.Name)
	}
}
