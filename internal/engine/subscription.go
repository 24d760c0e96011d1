package engine

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/hotkey/internal/shortcut"
)

// Subscription is a live callback bound to a shortcut id. Its priority is
// a snapshot of the definition's priority at subscribe time.
type Subscription struct {
	// ID is the generated subscription identifier.
	ID string

	// ShortcutID is the shortcut this subscription listens for.
	ShortcutID string

	// Priority orders subscriptions within a shortcut bucket; higher
	// fires first. Snapshot from the definition at subscribe time.
	Priority int

	// Action is the subscriber callback.
	Action shortcut.Action

	// order is the insertion counter used to break priority ties in
	// favor of the earlier subscriber.
	order uint64
}

// subscriptionTable maps shortcut ids to priority-sorted subscription
// buckets, independent of the registry's lifecycle.
type subscriptionTable struct {
	mu sync.RWMutex

	byShortcut map[string][]*Subscription
	nextOrder  uint64
}

func newSubscriptionTable() *subscriptionTable {
	return &subscriptionTable{
		byShortcut: make(map[string][]*Subscription),
	}
}

// add inserts a subscription and re-sorts its bucket by priority
// descending. Equal priorities keep insertion order.
func (t *subscriptionTable) add(shortcutID string, priority int, action shortcut.Action) *Subscription {
	t.mu.Lock()
	defer t.mu.Unlock()

	sub := &Subscription{
		ID:         uuid.NewString(),
		ShortcutID: shortcutID,
		Priority:   priority,
		Action:     action,
		order:      t.nextOrder,
	}
	t.nextOrder++

	bucket := append(t.byShortcut[shortcutID], sub)
	sort.SliceStable(bucket, func(i, j int) bool {
		if bucket[i].Priority != bucket[j].Priority {
			return bucket[i].Priority > bucket[j].Priority
		}
		return bucket[i].order < bucket[j].order
	})
	t.byShortcut[shortcutID] = bucket

	return sub
}

// remove deletes a subscription by id across all buckets.
// Returns false if the id was not found.
func (t *subscriptionTable) remove(subscriptionID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for shortcutID, bucket := range t.byShortcut {
		for i, sub := range bucket {
			if sub.ID != subscriptionID {
				continue
			}
			bucket = append(bucket[:i], bucket[i+1:]...)
			if len(bucket) == 0 {
				delete(t.byShortcut, shortcutID)
			} else {
				t.byShortcut[shortcutID] = bucket
			}
			return true
		}
	}
	return false
}

// top returns the highest-priority live subscription for a shortcut, or
// nil if none is subscribed.
func (t *subscriptionTable) top(shortcutID string) *Subscription {
	t.mu.RLock()
	defer t.mu.RUnlock()

	bucket := t.byShortcut[shortcutID]
	if len(bucket) == 0 {
		return nil
	}
	return bucket[0]
}

// count returns the number of live subscriptions for a shortcut.
func (t *subscriptionTable) count(shortcutID string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.byShortcut[shortcutID])
}

// clear drops every subscription.
func (t *subscriptionTable) clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.byShortcut = make(map[string][]*Subscription)
}
