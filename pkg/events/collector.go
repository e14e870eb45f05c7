package events

// EventCollector buffers the events an aggregate raises until the use case
// that changed it has persisted the aggregate. Embed it by value.
type EventCollector struct {
	pending []DomainEvent
}

// Record queues an event.
func (c *EventCollector) Record(event DomainEvent) {
	c.pending = append(c.pending, event)
}

// DomainEvents drains the queue in the order events were recorded.
func (c *EventCollector) DomainEvents() []DomainEvent {
	drained := c.pending
	c.pending = nil
	return drained
}
