package observe

// ManagedReference is the capability to cancel one registration. It holds
// no strong reference to the observer or the registry.
type ManagedReference struct {
	cancel func() bool
	done   bool
}

func newManagedReference(cancel func() bool) *ManagedReference {
	return &ManagedReference{cancel: cancel}
}

// Cancel removes the registration if it still exists. Safe to call more
// than once and on a nil reference.
func (m *ManagedReference) Cancel() {
	if m == nil || m.done {
		return
	}
	m.done = true
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// Active reports whether Cancel has not been called yet. A superseded or
// pruned registration can still report true; cancelling it is a no-op.
func (m *ManagedReference) Active() bool {
	return m != nil && !m.done && m.cancel != nil
}
