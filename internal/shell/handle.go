package shell

import (
	"sync"

	"github.com/mattjoyce/taskdesk/internal/deployment"
)

// Handle is the single slot holding the live deployment. It starts empty, is
// populated at most once and never reverts.
type Handle struct {
	mu    sync.RWMutex
	d     deployment.Deployment
	ready chan struct{}
}

func NewHandle() *Handle {
	return &Handle{ready: make(chan struct{})}
}

// Get returns a snapshot of the slot. The lock is released before returning,
// so callers never hold it across deployment I/O.
func (h *Handle) Get() (deployment.Deployment, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.d, h.d != nil
}

// Require returns the deployment or a NotInitialized error. It never waits.
func (h *Handle) Require() (deployment.Deployment, error) {
	d, ok := h.Get()
	if !ok {
		return nil, NotInitialized()
	}
	return d, nil
}

// Populate stores d if the slot is still empty and reports whether it did.
func (h *Handle) Populate(d deployment.Deployment) bool {
	if d == nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.d != nil {
		return false
	}
	h.d = d
	close(h.ready)
	return true
}

// IsInitialized reports whether the slot has been populated.
func (h *Handle) IsInitialized() bool {
	_, ok := h.Get()
	return ok
}

// Ready is closed once the slot is populated.
func (h *Handle) Ready() <-chan struct{} {
	return h.ready
}
