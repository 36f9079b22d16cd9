// Package ids provides a process-wide monotonic integer ID source, used for
// tag template identities. Values are unique but carry no ordering guarantee
// across goroutines beyond uniqueness — the counter uses relaxed add
// semantics via sync/atomic.
package ids

import "sync/atomic"

// Counter hands out unique, increasing uint64 values starting at 0.
// The zero value is ready to use.
type Counter struct {
	next atomic.Uint64
}

// Next returns the next unique value from c. Safe for concurrent use.
func (c *Counter) Next() uint64 {
	return c.next.Add(1) - 1
}

// EnsureAbove bumps c so that the next call to Next returns at least n,
// without ever moving it backwards. Used when loading externally
// persisted IDs that must not collide with freshly minted ones.
func (c *Counter) EnsureAbove(n uint64) {
	for {
		cur := c.next.Load()
		if cur >= n {
			return
		}
		if c.next.CompareAndSwap(cur, n) {
			return
		}
	}
}
