// Package auth consumes the result of an external speech authorization
// check. It never prompts the user itself.
package auth

import (
	"context"
	"fmt"
	"strings"
)

type Status int

const (
	NotDetermined Status = iota
	Authorized
	Denied
)

func (s Status) String() string {
	switch s {
	case Authorized:
		return "authorized"
	case Denied:
		return "denied"
	default:
		return "not_determined"
	}
}

func ParseStatus(raw string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "not_determined", "notdetermined", "prompt":
		return NotDetermined, nil
	case "authorized", "allow", "yes":
		return Authorized, nil
	case "denied", "deny", "no":
		return Denied, nil
	default:
		return NotDetermined, fmt.Errorf("unknown authorization status %q", raw)
	}
}

type Authorizer interface {
	Status() Status
	// Request asks for authorization. The result arrives on the returned
	// channel from an arbitrary goroutine.
	Request(ctx context.Context) <-chan Status
}

// Resolve yields the current status when it is already determined and the
// outcome of a request otherwise. The channel carries exactly one value;
// a cancelled ctx yields Denied.
func Resolve(ctx context.Context, a Authorizer) <-chan Status {
	out := make(chan Status, 1)
	if st := a.Status(); st != NotDetermined {
		out <- st
		return out
	}
	go func() {
		select {
		case st, ok := <-a.Request(ctx):
			if !ok {
				st = Denied
			}
			out <- st
		case <-ctx.Done():
			out <- Denied
		}
	}()
	return out
}
