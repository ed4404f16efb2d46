package events

// EventCollector holds the domain events an aggregate raised since it was
// last persisted. The zero value is empty and ready to use.
//
// Aggregates in this module are copied on write, so a copy must Fork its
// collector before recording; otherwise the copy and the original would share
// a backing array.
type EventCollector struct {
	events []DomainEvent
}

// Record appends events in the order they occurred.
func (c *EventCollector) Record(events ...DomainEvent) {
	c.events = append(c.events, events...)
}

// Events returns the collected events without clearing them.
func (c EventCollector) Events() []DomainEvent {
	return c.events
}

// Fork returns an independent collector holding the same events.
func (c EventCollector) Fork() EventCollector {
	if c.events == nil {
		return EventCollector{}
	}
	out := make([]DomainEvent, len(c.events))
	copy(out, c.events)
	return EventCollector{events: out}
}

// ClearEvents returns the collected events and empties the collector.
func (c *EventCollector) ClearEvents() []DomainEvent {
	collected := c.events
	c.events = nil
	return collected
}
