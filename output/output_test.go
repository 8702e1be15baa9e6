package output

import (
	"errors"
	"testing"
)

func TestVariants(t *testing.T) {
	boom := errors.New("boom")

	l := Loading[string](true)
	if flag, ok := l.Flag(); !ok || !flag {
		t.Errorf("Loading(true).Flag() = %v, %v", flag, ok)
	}
	if _, ok := l.Value(); ok {
		t.Error("Loading should not report a value")
	}

	s := Success("hello")
	if v, ok := s.Value(); !ok || v != "hello" {
		t.Errorf("Success.Value() = %q, %v", v, ok)
	}
	if s.Err() != nil {
		t.Error("Success should not carry an error")
	}

	f := Failure[string](boom)
	if !errors.Is(f.Err(), boom) {
		t.Errorf("Failure.Err() = %v, want %v", f.Err(), boom)
	}
	if _, ok := f.Flag(); ok {
		t.Error("Failure should not report a loading flag")
	}
}

func TestMatchCallsOnlyActiveVariant(t *testing.T) {
	for _, tt := range []struct {
		name string
		out  Output[int]
		want string
	}{
		{"loading", Loading[int](false), "loading"},
		{"success", Success(7), "success"},
		{"failure", Failure[int](errors.New("x")), "failure"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			var calls []string
			tt.out.Match(
				func(bool) { calls = append(calls, "loading") },
				func(int) { calls = append(calls, "success") },
				func(error) { calls = append(calls, "failure") },
			)
			if len(calls) != 1 || calls[0] != tt.want {
				t.Errorf("calls = %v, want [%s]", calls, tt.want)
			}
			if tt.out.Kind().String() != tt.want {
				t.Errorf("Kind() = %s, want %s", tt.out.Kind(), tt.want)
			}
		})
	}
}

func TestMatchRequiresEveryHandler(t *testing.T) {
	onLoading := func(bool) {}
	onSuccess := func(string) {}
	onFailure := func(error) {}
	for _, tt := range []struct {
		name string
		call func()
	}{
		{"loading", func() { Success("x").Match(nil, onSuccess, onFailure) }},
		{"success", func() { Loading[string](true).Match(onLoading, nil, onFailure) }},
		{"failure", func() { Success("x").Match(onLoading, onSuccess, nil) }},
	} {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("Match with a nil handler should panic")
				}
			}()
			tt.call()
		})
	}
}

func TestFold(t *testing.T) {
	label := func(o Output[string]) string {
		return Fold(o,
			func(b bool) string { return "L" },
			func(v string) string { return "S:" + v },
			func(err error) string { return "F:" + err.Error() },
		)
	}
	if got := label(Success("a")); got != "S:a" {
		t.Errorf("got %q", got)
	}
	if got := label(Failure[string](errors.New("e"))); got != "F:e" {
		t.Errorf("got %q", got)
	}
	if got := label(Loading[string](true)); got != "L" {
		t.Errorf("got %q", got)
	}
}

func TestString(t *testing.T) {
	for _, tt := range []struct {
		out  Output[string]
		want string
	}{
		{Loading[string](true), "loading(true)"},
		{Success("hi"), `success("hi")`},
		{Failure[string](errors.New("denied")), "failure(denied)"},
	} {
		if got := tt.out.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
