package web

import "sync"

// Notifier fans out "frame loaded" pings from viewer pages to in-process
// listeners such as the terminal browser.
type Notifier struct {
	mu   sync.Mutex
	next int
	subs map[int]chan string
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]chan string)}
}

// Subscribe returns a channel of game ids and a function that unsubscribes
// and closes it. Slow subscribers miss pings rather than block the server.
func (n *Notifier) Subscribe() (<-chan string, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.next
	n.next++
	ch := make(chan string, 8)
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

// Notify tells every subscriber that gameID finished loading.
func (n *Notifier) Notify(gameID string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, ch := range n.subs {
		select {
		case ch <- gameID:
		default:
		}
	}
}

