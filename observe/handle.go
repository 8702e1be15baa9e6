package observe

import (
	"fmt"
	"unsafe"
	"weak"

	"dictate/output"
)

// Observer receives every Output dispatched after its registration.
type Observer[T any] interface {
	Observe(output.Output[T])
}

type weakRef[T any] interface {
	resolve() (Observer[T], bool)
	key() any
	name() string
}

type pointerRef[T, O any, P interface {
	*O
	Observer[T]
}] struct {
	ptr weak.Pointer[O]
}

func (r pointerRef[T, O, P]) resolve() (Observer[T], bool) {
	o := r.ptr.Value()
	if o == nil {
		return nil, false
	}
	return P(o), true
}

// weak.Pointer values compare equal iff they were made from the same
// pointer, and keep doing so after the object is reclaimed.
func (r pointerRef[T, O, P]) key() any { return r.ptr }

func (r pointerRef[T, O, P]) name() string {
	var p P
	return fmt.Sprintf("%T", p)
}

// WeakHandle wraps an observer without keeping it alive. Handles compare by
// the identity of the wrapped object, never by its value.
type WeakHandle[T any] struct {
	ref weakRef[T]
}

type strongRef[T any] struct {
	obs Observer[T]
}

func (r strongRef[T]) resolve() (Observer[T], bool) { return r.obs, true }
func (r strongRef[T]) key() any                     { return r.obs }
func (r strongRef[T]) name() string                 { return fmt.Sprintf("%T", r.obs) }

// MakeHandle wraps observer weakly. A nil observer, or one whose type has no
// size, yields an empty handle.
//
// observer must point into the heap. A pointer to a package-level variable
// cannot be tracked weakly and makes the runtime abort; register such
// observers with Pin instead.
func MakeHandle[T, O any, P interface {
	*O
	Observer[T]
}](observer P) WeakHandle[T] {
	if observer == nil || zeroSized[O]() {
		return WeakHandle[T]{}
	}
	return WeakHandle[T]{ref: pointerRef[T, O, P]{ptr: weak.Make((*O)(observer))}}
}

// Values of a zero-size type share one address, so they have no identity
// of their own to track.
func zeroSized[O any]() bool {
	var o O
	return unsafe.Sizeof(o) == 0
}

// Resolve returns the live observer, or false once it has been collected.
func (h WeakHandle[T]) Resolve() (Observer[T], bool) {
	if h.ref == nil {
		return nil, false
	}
	return h.ref.resolve()
}

func (h WeakHandle[T]) Empty() bool {
	_, ok := h.Resolve()
	return !ok
}

// Key is comparable and usable as a map key; equal handles share a key.
func (h WeakHandle[T]) Key() any {
	if h.ref == nil {
		return nil
	}
	return h.ref.key()
}

func (h WeakHandle[T]) Equal(other WeakHandle[T]) bool {
	return h.Key() == other.Key()
}

func (h WeakHandle[T]) String() string {
	if h.ref == nil {
		return "<nil>"
	}
	return h.ref.name()
}
