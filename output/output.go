// Package output models the state of an in-flight dictation: loading,
// success or failure. Exactly one variant is active per value.
package output

import "fmt"

type Kind int

const (
	KindLoading Kind = iota
	KindSuccess
	KindFailure
)

func (k Kind) String() string {
	switch k {
	case KindLoading:
		return "loading"
	case KindSuccess:
		return "success"
	case KindFailure:
		return "failure"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Output is immutable; build it with Loading, Success or Failure.
type Output[T any] struct {
	kind    Kind
	loading bool
	value   T
	err     error
}

func Loading[T any](loading bool) Output[T] {
	return Output[T]{kind: KindLoading, loading: loading}
}

func Success[T any](value T) Output[T] {
	return Output[T]{kind: KindSuccess, value: value}
}

func Failure[T any](err error) Output[T] {
	return Output[T]{kind: KindFailure, err: err}
}

func (o Output[T]) Kind() Kind { return o.kind }

// Flag reports the loading flag and whether o is a Loading value.
func (o Output[T]) Flag() (bool, bool) {
	return o.loading, o.kind == KindLoading
}

// Value reports the success value and whether o is a Success value.
func (o Output[T]) Value() (T, bool) {
	return o.value, o.kind == KindSuccess
}

// Err returns the failure error, nil for the other variants.
func (o Output[T]) Err() error {
	if o.kind != KindFailure {
		return nil
	}
	return o.err
}

// Match calls the handler for the active variant. All three handlers are
// required, whatever the variant; it panics if one is nil. Pass an empty
// func to ignore a variant.
func (o Output[T]) Match(onLoading func(bool), onSuccess func(T), onFailure func(error)) {
	if onLoading == nil || onSuccess == nil || onFailure == nil {
		panic("output: Match needs a handler for every variant")
	}
	switch o.kind {
	case KindLoading:
		onLoading(o.loading)
	case KindSuccess:
		onSuccess(o.value)
	case KindFailure:
		onFailure(o.err)
	}
}

func Fold[T, R any](o Output[T], onLoading func(bool) R, onSuccess func(T) R, onFailure func(error) R) R {
	switch o.kind {
	case KindSuccess:
		return onSuccess(o.value)
	case KindFailure:
		return onFailure(o.err)
	default:
		return onLoading(o.loading)
	}
}

func (o Output[T]) String() string {
	switch o.kind {
	case KindSuccess:
		return fmt.Sprintf("success(%q)", fmt.Sprint(o.value))
	case KindFailure:
		return fmt.Sprintf("failure(%v)", o.err)
	default:
		return fmt.Sprintf("loading(%t)", o.loading)
	}
}
