// Package bus is the in-process publish/subscribe mechanism that decouples
// the store, the project manager and the task engine from whatever renders
// them. Delivery is synchronous and ordered: Publish runs every current
// subscriber to completion before returning. There is no queuing and no
// reentrancy guard; handlers must not start a mutation that is already in
// progress.
package bus

import "sync"

// Topic identifies a class of planning events.
type Topic string

const (
	// TopicProjectChanged fires when the active project, the project list or
	// a project's columns change. Event.ProjectID carries the affected
	// project.
	TopicProjectChanged Topic = "planning:projectChanged"
	// TopicTasksChanged fires after any mutation that affects board contents.
	TopicTasksChanged Topic = "planning:tasksChanged"
)

// Event is what subscribers receive.
type Event struct {
	Topic     Topic
	ProjectID string
}

// Handler consumes one event.
type Handler func(Event)

type subscriber struct {
	id int
	fn Handler
}

// Bus is a typed observer registry keyed by topic. The zero value is not
// usable; construct with New.
type Bus struct {
	mu   sync.Mutex
	next int
	subs map[Topic][]subscriber
}

// New returns an empty bus.
func New() *Bus {
	return &Bus{subs: map[Topic][]subscriber{}}
}

// Subscription represents an active registration.
type Subscription struct {
	cancel func()
}

// Close removes the subscriber. Safe to call more than once.
func (s Subscription) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Subscribe registers fn for topic. Handlers run in subscription order.
func (b *Bus) Subscribe(topic Topic, fn Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	id := b.next
	b.subs[topic] = append(b.subs[topic], subscriber{id: id, fn: fn})
	return Subscription{cancel: func() { b.unsubscribe(topic, id) }}
}

func (b *Bus) unsubscribe(topic Topic, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subs[topic]
	for i, s := range subs {
		if s.id == id {
			b.subs[topic] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Publish delivers ev to every subscriber of its topic, synchronously, in
// subscription order. Handlers registered during delivery see only later
// events.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	subs := append([]subscriber(nil), b.subs[ev.Topic]...)
	b.mu.Unlock()
	for _, s := range subs {
		s.fn(ev)
	}
}
