package chain

import "sync"

// TrackerRegistry hands out one open-interest tracker per underlying+expiry
// session. Deltas for one chain never leak into another: each scope owns its
// own ledger for the lifetime of the process.
type TrackerRegistry struct {
	mu       sync.Mutex
	trackers map[string]*Tracker
}

// NewTrackerRegistry creates an empty registry
func NewTrackerRegistry() *TrackerRegistry {
	return &TrackerRegistry{trackers: make(map[string]*Tracker)}
}

// For returns the tracker scoped to the given underlying and expiry,
// creating it on first use.
func (r *TrackerRegistry) For(instrumentKey, expiry string) *Tracker {
	key := instrumentKey + "|" + expiry

	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.trackers[key]
	if !ok {
		t = NewTracker()
		r.trackers[key] = t
	}
	return t
}

// Reset drops the ledger for one scope, starting a fresh session
func (r *TrackerRegistry) Reset(instrumentKey, expiry string) {
	key := instrumentKey + "|" + expiry

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.trackers, key)
}
