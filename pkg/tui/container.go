// ABOUTME: Container is an ordered collection of child Components, each addressed by a Registry-minted ComponentID.
// ABOUTME: Thread-safe via RWMutex for concurrent render vs mutation

package tui

import "sync"

type containerChild struct {
	id   ComponentID
	comp Component
}

// Container holds an ordered list of child components, each registered
// under a ComponentID so surfaces and focus tracking can address them
// without holding raw component pointers.
// It is safe for concurrent access: mutations acquire a write lock,
// rendering acquires a read lock.
type Container struct {
	mu       sync.RWMutex
	registry *Registry
	children []containerChild
}

// NewContainer creates an empty Container backed by a fresh Registry.
func NewContainer() *Container {
	return &Container{registry: NewRegistry()}
}

// Registry returns the Container's backing Registry, so a Runtime can
// look up components by the ComponentID Add returns.
func (c *Container) Registry() *Registry {
	return c.registry
}

// Add appends a component to the container and returns the ComponentID it
// was minted under.
func (c *Container) Add(comp Component) ComponentID {
	id := c.registry.Mint(comp)
	c.mu.Lock()
	c.children = append(c.children, containerChild{id: id, comp: comp})
	c.mu.Unlock()
	return id
}

// Remove removes a component from the container by identity.
// Returns true if the component was found and removed.
func (c *Container) Remove(comp Component) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, child := range c.children {
		if child.comp == comp {
			c.registry.Release(child.id)
			c.children = append(c.children[:i], c.children[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveID removes a component from the container by ComponentID.
// Returns true if id was found and removed.
func (c *Container) RemoveID(id ComponentID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, child := range c.children {
		if child.id == id {
			c.registry.Release(id)
			c.children = append(c.children[:i], c.children[i+1:]...)
			return true
		}
	}
	return false
}

// Lookup returns the component registered under id, if it is still a
// child of this container.
func (c *Container) Lookup(id ComponentID) (Component, bool) {
	return c.registry.Lookup(id)
}

// Clear removes all children.
func (c *Container) Clear() {
	c.mu.Lock()
	for _, child := range c.children {
		c.registry.Release(child.id)
	}
	c.children = c.children[:0]
	c.mu.Unlock()
}

// Children returns a snapshot of the current children.
func (c *Container) Children() []Component {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Component, len(c.children))
	for i, child := range c.children {
		out[i] = child.comp
	}
	return out
}

// ChildIDs returns a snapshot of the current children's ComponentIDs, in
// the same order as Children.
func (c *Container) ChildIDs() []ComponentID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]ComponentID, len(c.children))
	for i, child := range c.children {
		out[i] = child.id
	}
	return out
}

// Render renders all children sequentially into the buffer.
func (c *Container) Render(out *RenderBuffer, width int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, child := range c.children {
		child.comp.Render(out, width)
	}
}

// Invalidate invalidates all children.
func (c *Container) Invalidate() {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, child := range c.children {
		child.comp.Invalidate()
	}
}
