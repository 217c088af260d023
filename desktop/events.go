package desktop

// EventType names a registry lifecycle change
type EventType int

const (
	EventMapped EventType = iota
	EventUnmapped
	EventRemoved
)

func (t EventType) String() string {
	switch t {
	case EventMapped:
		return "mapped"
	case EventUnmapped:
		return "unmapped"
	case EventRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers after the registry finished updating.
// For EventRemoved the ID no longer resolves.
type Event struct {
	Type EventType
	View ID
}

type subscriber struct {
	token int
	fn    func(Event)
}

// Subscribe registers fn for every lifecycle event. Delivery is synchronous
// and in order. The returned func removes the subscription.
func (r *Registry) Subscribe(fn func(Event)) (unsubscribe func()) {
	r.nextToken++
	token := r.nextToken
	r.subscribers = append(r.subscribers, subscriber{token: token, fn: fn})
	return func() {
		for i, s := range r.subscribers {
			if s.token == token {
				r.subscribers = append(r.subscribers[:i], r.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (r *Registry) emit(ev Event) {
	// Copy so that subscribers may unsubscribe while being called
	subs := append([]subscriber(nil), r.subscribers...)
	for _, s := range subs {
		s.fn(ev)
	}
}
