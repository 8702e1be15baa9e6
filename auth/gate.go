package auth

// Gate is the capability flag derived from the authorization status.
// Like the controller it guards, it belongs to the owning goroutine.
type Gate struct {
	status Status
}

func (g *Gate) Set(st Status) { g.status = st }

func (g *Gate) Status() Status { return g.status }

// Allowed reports whether dictation may be toggled.
func (g *Gate) Allowed() bool {
	return g != nil && g.status == Authorized
}
