package events

import "sync"

// Bus is a multi-producer, fan-out event channel. Sends never block and
// never panic: a dropped event (no subscriber, or a full subscriber
// buffer) must not corrupt the run. Grounded on the original
// implementation's crossbeam-channel EventSender/EventReceiver
// (src/events/channel.rs), translated to Go channels with an explicit
// fan-out list instead of a single MPMC channel, since Go channels are
// not natively broadcast.
type Bus struct {
	mu   sync.RWMutex
	subs []chan Event
}

// NewBus creates an event bus with no subscribers. Sending on it is
// always safe and simply discards the event.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a new fan-out channel with the given buffer
// capacity. The caller owns draining it; Close removes it from the bus.
func (b *Bus) Subscribe(capacity int) *Subscription {
	ch := make(chan Event, capacity)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return &Subscription{bus: b, ch: ch}
}

// HasSubscribers reports whether anything is listening, letting a hot
// loop skip building an event payload entirely when nobody can see it.
func (b *Bus) HasSubscribers() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs) > 0
}

// Send fans an event out to every subscriber. A full subscriber buffer
// drops the event for that subscriber rather than blocking the
// producer; this mirrors "sends on a closed bus are discarded without
// error" from the spec's event-bus concurrency model.
func (b *Bus) Send(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscription is one fan-out leg of a Bus.
type Subscription struct {
	bus *Bus
	ch  chan Event
}

// C returns the receive-only channel to range over.
func (s *Subscription) C() <-chan Event { return s.ch }

// Close unregisters the subscription and closes its channel. Safe to
// call once; further Close calls are no-ops.
func (s *Subscription) Close() {
	s.bus.mu.Lock()
	found := false
	for i, ch := range s.bus.subs {
		if ch == s.ch {
			s.bus.subs = append(s.bus.subs[:i], s.bus.subs[i+1:]...)
			found = true
			break
		}
	}
	s.bus.mu.Unlock()
	if found {
		close(s.ch)
	}
}

// NullBus is a Bus pre-built with no subscribers, for callers that want
// to run the pipeline without any progress reporting — equivalent to
// the original implementation's null_sender().
func NullBus() *Bus { return NewBus() }
