package events

import (
	"context"
	"sync"
)

// Publisher defines the interface for publishing domain events
type Publisher interface {
	// Publish publishes an event to the message broker
	Publish(ctx context.Context, exchange string, event *Event, headers Headers) error

	// Close closes the publisher connection
	Close() error
}

// Published is one call recorded by a RecordingPublisher.
type Published struct {
	Exchange string
	Event    *Event
}

// RecordingPublisher keeps published events in memory.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []Published
}

func (p *RecordingPublisher) Publish(_ context.Context, exchange string, event *Event, _ Headers) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, Published{Exchange: exchange, Event: event})
	return nil
}

func (p *RecordingPublisher) Close() error {
	return nil
}

func (p *RecordingPublisher) Events() []Published {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Published, len(p.events))
	copy(out, p.events)
	return out
}

// Names returns the event names in publish order.
func (p *RecordingPublisher) Names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.events))
	for _, e := range p.events {
		names = append(names, e.Event.Event)
	}
	return names
}
