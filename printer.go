package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"dictate/output"
)

var (
	listeningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	idleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	transcriptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// printer writes one line per output. Styling is only applied when
// writing to a terminal so test-mode output stays plain.
type printer struct {
	w      io.Writer
	styled bool
}

func newPrinter(f *os.File) *printer {
	return &printer{w: f, styled: term.IsTerminal(int(f.Fd()))}
}

func (p *printer) render(style lipgloss.Style, s string) string {
	if !p.styled {
		return s
	}
	return style.Render(s)
}

func (p *printer) Observe(out output.Output[string]) {
	out.Match(
		func(loading bool) {
			if loading {
				p.line(listeningStyle, "listening")
			} else {
				p.line(idleStyle, "idle")
			}
		},
		func(text string) {
			p.line(transcriptStyle, fmt.Sprintf("transcript: %s", text))
		},
		func(err error) {
			p.line(errorStyle, fmt.Sprintf("error: %v", err))
		},
	)
}

func (p *printer) notice(format string, args ...any) {
	p.line(idleStyle, fmt.Sprintf(format, args...))
}

func (p *printer) line(style lipgloss.Style, s string) {
	fmt.Fprintln(p.w, p.render(style, s))
}

// tally counts finished sessions for the session_end log line.
type tally struct {
	transcripts int
	failures    int
}

func (t *tally) Observe(out output.Output[string]) {
	out.Match(
		func(bool) {},
		func(string) { t.transcripts++ },
		func(error) { t.failures++ },
	)
}
