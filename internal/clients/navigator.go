package clients

import "sync/atomic"

// Navigator is the navigation subscriber of the unauthenticated signal. The
// web layer consults it after each backend failure and sends the browser to
// the entry point when it fired.
type Navigator struct {
	pending atomic.Bool
}

// ForceEntry requests a redirect to the entry point.
func (n *Navigator) ForceEntry() { n.pending.Store(true) }

// Take reports and resets a pending redirect.
func (n *Navigator) Take() bool { return n.pending.Swap(false) }
