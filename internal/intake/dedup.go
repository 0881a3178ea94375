package intake

import "sync"

// Dedup is the idempotency gate for webhook deliveries. WhatsApp redelivers
// until it sees a 200, so the same message ID can arrive many times; only the
// first arrival may reach the queue. State is in-memory and lost on restart,
// accepting a rare duplicate after a redeploy.
type Dedup struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewDedup() *Dedup {
	return &Dedup{seen: make(map[string]struct{})}
}

// MarkIfNew records the ID and reports whether this was its first arrival.
func (d *Dedup) MarkIfNew(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return false
	}
	d.seen[id] = struct{}{}
	return true
}

// Size reports how many IDs the gate currently holds.
func (d *Dedup) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
