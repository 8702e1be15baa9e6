package main

import (
	"bytes"
	"errors"
	"testing"

	"dictate/output"
)

func TestPrinterPlain(t *testing.T) {
	var buf bytes.Buffer
	p := &printer{w: &buf}

	p.Observe(output.Loading[string](true))
	p.Observe(output.Success("hello"))
	p.Observe(output.Failure[string](errors.New("no match")))
	p.Observe(output.Loading[string](false))

	want := "listening\ntranscript: hello\nerror: no match\nidle\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestTally(t *testing.T) {
	var tl tally
	tl.Observe(output.Loading[string](true))
	tl.Observe(output.Success("a"))
	tl.Observe(output.Failure[string](errors.New("x")))
	tl.Observe(output.Success("b"))
	if tl.transcripts != 2 || tl.failures != 1 {
		t.Errorf("tally = %+v", tl)
	}
}
