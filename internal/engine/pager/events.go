package pager

import "go.trai.ch/tally/internal/core/domain"

// eventBuffer is the capacity of every subscription channel.
const eventBuffer = 32

// Subscribe returns a channel that receives every pagination state change and
// a function that ends the subscription and closes the channel.
//
// Delivery never blocks the controller: events are dropped for subscribers
// whose buffer is full.
func (c *Controller[R]) Subscribe() (<-chan domain.PageEvent, func()) {
	ch := make(chan domain.PageEvent, eventBuffer)

	c.subMu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = ch
	c.subMu.Unlock()

	cancel := func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (c *Controller[R]) publish(ev domain.PageEvent) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	for _, ch := range c.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
