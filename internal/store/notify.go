package store

import "sync"

// notifier fans out change notifications to subscribers so UI layers
// can re-read snapshots without the store depending on any rendering
// code. Callbacks run synchronously on the mutating goroutine and must
// not call back into the store while holding their own locks.
type notifier struct {
	mu   sync.Mutex
	subs map[int]func()
	next int
}

// Subscribe registers fn and returns a cancel function.
func (n *notifier) Subscribe(fn func()) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subs == nil {
		n.subs = make(map[int]func())
	}
	id := n.next
	n.next++
	n.subs[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
	}
}

func (n *notifier) notify() {
	n.mu.Lock()
	fns := make([]func(), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
