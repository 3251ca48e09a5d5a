package chain

import (
	"sync"

	"github.com/shritish20/Volguard-4/internal/contracts"
)

// sideKey identifies one (strike, side) ledger entry
type sideKey struct {
	strike float64
	side   contracts.OptionType
}

// Tracker is the open-interest ledger for one underlying+expiry session.
// The caller owns its lifecycle: create it at session start, discard it at
// session end. Never share one tracker across underlyings or expiries:
// the key carries no scope discriminator.
//
// The mutex is held across the whole read-compute-write pass, so
// overlapping snapshots for the same session serialize.
type Tracker struct {
	mu     sync.Mutex
	lastOI map[sideKey]int64
}

// NewTracker creates an empty ledger
func NewTracker() *Tracker {
	return &Tracker{
		lastOI: make(map[sideKey]int64),
	}
}

// Apply fills the OI change fields of every row against the ledger, then
// overwrites the ledger with the snapshot's values. The overwrite is total
// for strikes present in the snapshot; entries from strikes no longer quoted
// are left in place.
func (t *Tracker) Apply(rows []contracts.StrikeRow) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range rows {
		t.applySide(rows[i].Strike, contracts.OptionCall, &rows[i].Call)
		t.applySide(rows[i].Strike, contracts.OptionPut, &rows[i].Put)
	}

	for i := range rows {
		t.lastOI[sideKey{rows[i].Strike, contracts.OptionCall}] = rows[i].Call.OI
		t.lastOI[sideKey{rows[i].Strike, contracts.OptionPut}] = rows[i].Put.OI
	}
}

// applySide computes change and change-percent for one side. A never-seen
// key defaults the previous value to the current OI, so first observations
// always report zero change.
func (t *Tracker) applySide(strike float64, side contracts.OptionType, q *contracts.SideQuote) {
	prev, seen := t.lastOI[sideKey{strike, side}]
	if !seen {
		q.OIChange = 0
		q.OIChangePct = 0
		return
	}

	q.OIChange = q.OI - prev
	if prev == 0 {
		q.OIChangePct = 0
		return
	}
	q.OIChangePct = float64(q.OIChange) / float64(prev) * 100
}

// Len returns the number of ledger entries, for diagnostics
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.lastOI)
}
