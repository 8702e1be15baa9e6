// Package hotkey watches the global Ctrl+Shift+Space chord and turns it into
// dictation toggle events.
//
// On Linux the chord is read from evdev keyboard devices, so no display
// server is needed. Elsewhere it is registered with the OS through
// golang.design/x/hotkey.
package hotkey

type Hotkey interface {
	Register() error
	Unregister()
	Keydown() <-chan struct{}
	Keyup() <-chan struct{}
}
