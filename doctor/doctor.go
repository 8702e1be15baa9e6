package doctor

import (
	"context"
	"fmt"
	"time"

	"dictate/auth"
	"dictate/clipboard"
	"dictate/config"
	"dictate/dictation"
	"dictate/hotkey"
	"dictate/output"
	"dictate/speech"
)

// Run executes diagnostic checks and returns an exit code (0=all pass, 1=any fail).
func Run(cfg config.Config) int {
	resetTerminal()
	defer watchInterrupt()()

	fmt.Println("dictate doctor - system diagnostics")
	fmt.Println("===================================")

	checks := []func(config.Config) bool{
		checkAuthorization,
		checkDispatch,
		checkClipboard,
	}
	if cfg.Hotkey.Enabled {
		checks = append(checks, checkHotkey)
	}

	allPass := true
	for i, check := range checks {
		fmt.Println()
		fmt.Printf("[%d/%d] ", i+1, len(checks))
		if !check(cfg) {
			allPass = false
		}
	}

	fmt.Println()
	if allPass {
		fmt.Println("All checks passed!")
		return 0
	}
	fmt.Println("Some checks failed. See details above.")
	return 1
}

func checkAuthorization(cfg config.Config) bool {
	fmt.Println("Speech authorization")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	st := <-auth.Resolve(ctx, cfg.Authorizer())
	if st != auth.Authorized {
		fmt.Printf("  FAIL: authorization is %s\n", st)
		fmt.Println("  Fix with: DICTATE_AUTH=authorized or [auth] status in the config file")
		return false
	}
	fmt.Println("  PASS: authorized")
	return true
}

type sessionTrace struct {
	got []output.Output[string]
}

func (p *sessionTrace) Observe(o output.Output[string]) { p.got = append(p.got, o) }

// checkDispatch runs one session through a fake engine and verifies the
// observer sees loading, success, loading in that order.
func checkDispatch(cfg config.Config) bool {
	fmt.Println("Session dispatch")

	const text = "doctor check"
	posted := make(chan func(), 8)
	svc := dictation.NewService(speech.NewFake(text, nil, 50*time.Millisecond),
		dictation.WithPost(func(f func()) { posted <- f }))
	svc.Authorize(auth.Authorized)

	p := &sessionTrace{}
	ref := dictation.Subscribe(svc, p)
	defer ref.Cancel()

	if err := svc.Toggle(); err != nil {
		fmt.Printf("  FAIL: toggle: %v\n", err)
		return false
	}
	timeout := time.After(2 * time.Second)
	for svc.Controller().State() == dictation.Active {
		select {
		case f := <-posted:
			f()
		case <-timeout:
			fmt.Println("  FAIL: timeout waiting for session result")
			return false
		}
	}

	want := []string{"loading(true)", fmt.Sprintf("success(%q)", text), "loading(false)"}
	if len(p.got) != len(want) {
		fmt.Printf("  FAIL: observer saw %d outputs, want %d\n", len(p.got), len(want))
		return false
	}
	for i, o := range p.got {
		if o.String() != want[i] {
			fmt.Printf("  FAIL: output %d is %s, want %s\n", i, o, want[i])
			return false
		}
	}
	fmt.Println("  PASS: loading, success, loading delivered in order")
	return true
}

func checkClipboard(cfg config.Config) bool {
	fmt.Println("Clipboard")

	if !cfg.Clipboard.Copy {
		fmt.Println("  SKIP: clipboard copy disabled")
		return true
	}

	prev, err := clipboard.Read()
	if err != nil {
		fmt.Printf("  FAIL: clipboard read failed: %v\n", err)
		return false
	}
	sentinel := fmt.Sprintf("dictate-doctor-%d", time.Now().UnixNano())
	if err := clipboard.Copy(sentinel); err != nil {
		fmt.Printf("  FAIL: clipboard copy failed: %v\n", err)
		return false
	}
	got, err := clipboard.Read()
	restoreErr := clipboard.Copy(prev)
	if err != nil {
		fmt.Printf("  FAIL: clipboard read failed: %v\n", err)
		return false
	}
	if got != sentinel {
		fmt.Printf("  FAIL: clipboard round trip (got %q, want %q)\n", got, sentinel)
		return false
	}
	if restoreErr != nil {
		fmt.Printf("  FAIL: clipboard restore failed: %v\n", restoreErr)
		return false
	}

	if cfg.Clipboard.Paste {
		if err := clipboard.Init(); err != nil {
			fmt.Printf("  FAIL: paste init: %v\n", err)
			fmt.Println("  Fix with: sudo chmod 660 /dev/uinput && sudo chgrp input /dev/uinput")
			return false
		}
	}
	fmt.Println("  PASS: clipboard round trip")
	return true
}

func checkHotkey(config.Config) bool {
	fmt.Println("Hotkey detection")
	fmt.Println("Press Ctrl+Shift+Space...")

	hk := hotkey.New()
	if err := hk.Register(); err != nil {
		fmt.Printf("  FAIL: could not register hotkey: %v\n", err)
		return false
	}
	defer hk.Unregister()

	select {
	case <-hk.Keydown():
		fmt.Println("  PASS: hotkey detected")
		select {
		case <-hk.Keyup():
		case <-time.After(5 * time.Second):
		}
		// the hotkey backend may leave the terminal in raw mode
		resetTerminal()
		return true
	case <-time.After(10 * time.Second):
		fmt.Println("  FAIL: timeout waiting for hotkey")
		return false
	}
}
