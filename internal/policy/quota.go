package policy

import "sync"

// DefaultDailyLimit matches the platform-safe ceiling of 100 sends per day.
const DefaultDailyLimit = 100

// Quota enforces a hard ceiling on attempted sends. The counter lives for the
// process lifetime; there is no calendar rollover, only a restart resets it.
//
// Admission and counting are split on purpose: TryAdmit answers "may I attempt
// another send" with no side effect, and the dispatcher calls Record exactly
// once per admitted attempt (a refused admission is never counted).
type Quota struct {
	mu    sync.Mutex
	limit int
	sent  int
}

// NewQuota builds a guard with the given ceiling; limit <= 0 falls back to
// DefaultDailyLimit.
func NewQuota(limit int) *Quota {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	return &Quota{limit: limit}
}

// TryAdmit reports whether another send attempt may start.
func (q *Quota) TryAdmit() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.sent < q.limit
}

// Record counts one admitted attempt. Success and per-recipient failure both
// count; the attempt consumed a platform call either way.
func (q *Quota) Record() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sent++
	return q.sent
}

// Sent returns the cumulative attempted-send count.
func (q *Quota) Sent() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.sent
}
