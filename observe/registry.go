// Package observe fans a producer's Output values out to a dynamic set of
// weakly held observers.
//
// Registry and ManagedReference are not safe for concurrent use. Every Add,
// Cancel and Dispatch must happen on the single goroutine that owns the
// registry; results produced elsewhere have to be handed back to that
// goroutine first.
package observe

import (
	"slices"
	"weak"

	"dictate/log"
	"dictate/output"
)

type entry[T any] struct {
	handle WeakHandle[T]
	seq    uint64
}

// Registry maps observer identities to their registration. An identity is
// registered at most once.
type Registry[T any] struct {
	entries map[any]*entry[T]
	seq     uint64

	dispatching bool
	pending     []output.Output[T]
}

func New[T any]() *Registry[T] {
	return &Registry[T]{entries: make(map[any]*entry[T])}
}

// Add registers observer and returns the token that deregisters it.
// Registering an identity that is already present replaces its entry and
// leaves the earlier token inert. The registry never keeps observer alive;
// dropping it is enough to unsubscribe.
//
// observer must be heap allocated (see MakeHandle). Observers of a
// zero-size type are rejected with an inert token.
func Add[T, O any, P interface {
	*O
	Observer[T]
}](r *Registry[T], observer P) *ManagedReference {
	if r == nil || observer == nil {
		return &ManagedReference{}
	}
	if zeroSized[O]() {
		log.Warnf("observer %T has no size and cannot be held weakly, use Pin", observer)
		return &ManagedReference{}
	}
	return r.insert(MakeHandle[T, O, P](observer))
}

// Pin registers observer with a strong reference. It suits observers that
// live for the whole program, such as package-level values and stateless
// zero-size types. A pinned entry stays until its token is cancelled.
func Pin[T, O any, P interface {
	*O
	Observer[T]
}](r *Registry[T], observer P) *ManagedReference {
	if r == nil || observer == nil {
		return &ManagedReference{}
	}
	return r.insert(WeakHandle[T]{ref: strongRef[T]{obs: observer}})
}

func (r *Registry[T]) insert(h WeakHandle[T]) *ManagedReference {
	key := h.Key()

	r.seq++
	seq := r.seq
	r.entries[key] = &entry[T]{handle: h, seq: seq}

	wr := weak.Make(r)
	return newManagedReference(func() bool {
		reg := wr.Value()
		if reg == nil {
			return false
		}
		return reg.remove(key, seq)
	})
}

// remove deletes key only while it still belongs to the registration seq.
func (r *Registry[T]) remove(key any, seq uint64) bool {
	e, ok := r.entries[key]
	if !ok || e.seq != seq {
		return false
	}
	delete(r.entries, key)
	return true
}

// Cancel deregisters the entry ref was issued for. Cancelling twice, or
// after the observer has been pruned, does nothing.
func (r *Registry[T]) Cancel(ref *ManagedReference) {
	ref.Cancel()
}

// Len counts entries, including collected observers not yet pruned.
func (r *Registry[T]) Len() int {
	return len(r.entries)
}

// Prune drops entries whose observer has been collected and returns how
// many were removed.
func (r *Registry[T]) Prune() int {
	n := 0
	for key, e := range r.entries {
		if e.handle.Empty() {
			delete(r.entries, key)
			n++
		}
	}
	return n
}

// Dispatch delivers out to every live observer in registration order.
// The set of recipients is fixed when a pass starts: observers added or
// cancelled from inside a handler take effect on the next pass. A Dispatch
// made from inside a handler is queued and delivered after the current pass,
// so every observer sees outputs in the order they were dispatched. A
// panicking observer is logged and skipped.
func (r *Registry[T]) Dispatch(out output.Output[T]) {
	r.pending = append(r.pending, out)
	if r.dispatching {
		return
	}
	r.dispatching = true
	defer func() { r.dispatching = false }()

	for len(r.pending) > 0 {
		next := r.pending[0]
		r.pending[0] = output.Output[T]{}
		r.pending = r.pending[1:]
		r.pass(next)
	}
	r.pending = nil
}

func (r *Registry[T]) pass(out output.Output[T]) {
	snapshot := make([]*entry[T], 0, len(r.entries))
	for _, e := range r.entries {
		snapshot = append(snapshot, e)
	}
	slices.SortFunc(snapshot, func(a, b *entry[T]) int {
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})

	pruned, delivered := 0, 0
	for _, e := range snapshot {
		obs, ok := e.handle.Resolve()
		if !ok {
			if r.remove(e.handle.Key(), e.seq) {
				pruned++
			}
			continue
		}
		if r.deliver(obs, e.handle, out) {
			delivered++
		}
	}

	log.Emission(out.Kind().String(), delivered)
	log.Pruned(pruned, len(r.entries))
}

func (r *Registry[T]) deliver(obs Observer[T], h WeakHandle[T], out output.Output[T]) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			log.ObserverPanic(h.String(), rec)
			ok = false
		}
	}()
	obs.Observe(out)
	return true
}
