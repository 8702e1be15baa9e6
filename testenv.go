package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"dictate/auth"
	"dictate/config"
	"dictate/log"
	"dictate/speech"
)

func runTestMode(a *app, cfg config.Config, engine speech.Engine) {
	a.svc.Authorize(<-auth.Resolve(context.Background(), cfg.Authorizer()))

	scripted, _ := engine.(*speech.Scripted)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- strings.TrimSpace(scanner.Text())
		}
	}()

	// Same ownership as runInteractive: commands and engine callbacks are
	// both handled on this goroutine.
	for {
		select {
		case f := <-a.posted:
			f()
		case line, ok := <-lines:
			if !ok {
				return
			}
			if !a.exec(scripted, line) {
				return
			}
			a.drain()
		}
	}
}

// exec runs one test-mode command and reports whether to keep going.
func (a *app) exec(scripted *speech.Scripted, line string) bool {
	cmd, arg, _ := strings.Cut(line, " ")
	switch cmd {
	case "":
	case "TOGGLE":
		a.toggle()
	case "ON":
		a.request(true)
	case "OFF":
		a.request(false)
	case "PARTIAL", "FINAL", "FAIL":
		if scripted == nil {
			fmt.Fprintf(os.Stderr, "%s needs -engine scripted\n", cmd)
			return true
		}
		var err error
		switch cmd {
		case "PARTIAL":
			err = scripted.Partial(arg)
		case "FINAL":
			err = scripted.Final(arg)
		default:
			err = scripted.Fail(errors.New(arg))
		}
		if err != nil {
			log.Warnf("%s: %v", cmd, err)
		}
	case "WAIT":
		if !a.waitIdle(10 * time.Second) {
			log.Warn("WAIT timed out")
		}
	case "MUTE":
		a.mute()
	case "UNMUTE":
		a.unmute()
	case "AUTH":
		st, err := auth.ParseStatus(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "AUTH: %v\n", err)
			return true
		}
		a.svc.Authorize(st)
	case "SLEEP":
		if ms, err := strconv.Atoi(arg); err == nil {
			time.Sleep(time.Duration(ms) * time.Millisecond)
		}
	case "QUIT":
		return false
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
	}
	return true
}
