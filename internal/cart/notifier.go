package cart

import "sync"

// Notifier is an in-process publish/subscribe channel carrying a payload-less
// "cart updated" signal. Signals are coalesced: a subscriber that has not yet
// consumed the previous signal does not receive a second one.
type Notifier struct {
	mu     sync.Mutex
	subs   map[int]chan struct{}
	nextID int
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]chan struct{})}
}

// Subscribe returns a signal channel and a function that cancels the
// subscription and closes the channel.
func (n *Notifier) Subscribe() (<-chan struct{}, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.nextID
	n.nextID++
	ch := make(chan struct{}, 1)
	n.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.subs, id)
			close(ch)
		})
	}
}

// Publish never blocks.
func (n *Notifier) Publish() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (n *Notifier) Subscribers() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}
