package selection

import "sync"

// Listener is called after every dispatch with the previous and next state.
type Listener func(prev, next Selection)

// Container holds the selection for one app session. It is created once per
// session and passed to the views that need it.
type Container struct {
	mu        sync.Mutex
	state     Selection
	listeners []listenerEntry
	nextID    int
}

type listenerEntry struct {
	id int
	fn Listener
}

// NewContainer returns a container holding initial.
func NewContainer(initial Selection) *Container {
	return &Container{state: initial}
}

// State returns a copy of the current selection.
func (c *Container) State() Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Dispatch applies a and notifies listeners in registration order. Listeners
// run outside the lock and may dispatch again.
func (c *Container) Dispatch(a Action) Selection {
	c.mu.Lock()
	prev := c.state
	next := Reduce(prev, a)
	c.state = next
	subs := make([]Listener, len(c.listeners))
	for i, l := range c.listeners {
		subs[i] = l.fn
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(prev, next)
	}
	return next
}

// Subscribe registers fn and returns a func that removes it.
func (c *Container) Subscribe(fn Listener) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners = append(c.listeners, listenerEntry{id: id, fn: fn})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, l := range c.listeners {
				if l.id == id {
					c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
					return
				}
			}
		})
	}
}
