package events

// Buffer collects events and hands them to a Publisher later. It is not
// safe for concurrent use; callers Take under their own lock and Deliver
// after releasing it.
type Buffer struct {
	target  Publisher
	pending []Event
}

var _ Publisher = (*Buffer)(nil)

// NewBuffer creates a buffer that delivers into target
func NewBuffer(target Publisher) *Buffer {
	return &Buffer{target: target}
}

// Publish queues the event
func (b *Buffer) Publish(event Event) {
	b.pending = append(b.pending, event)
}

// Take empties the buffer and returns what was queued
func (b *Buffer) Take() []Event {
	out := b.pending
	b.pending = nil
	return out
}

// Deliver publishes evs to the buffer's target
func (b *Buffer) Deliver(evs []Event) {
	for _, e := range evs {
		b.target.Publish(e)
	}
}
