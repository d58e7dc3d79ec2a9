package reactive

// Computed is a cached derivation. The compute function runs lazily on Get
// and its result is reused until one of the signals or computed values it
// read changes.
type Computed[T any] struct {
	deps

	node       node
	compute    func() T
	value      T
	dirty      bool
	computing  bool
	dirtyAgain bool
}

// NewComputed returns a computed value backed by compute. Nothing runs until
// the first Get.
func NewComputed[T any](compute func() T) *Computed[T] {
	return &Computed[T]{compute: compute, dirty: true}
}

// Get returns the cached value, recomputing first if a dependency changed
// since the last run. Reading a computed inside another computation links
// the two, so invalidation flows through chains of derivations.
func (c *Computed[T]) Get() T {
	graph.Lock()
	c.node.trackLocked()
	if !c.dirty {
		value := c.value
		graph.Unlock()
		return value
	}
	graph.Unlock()

	c.recompute()

	graph.Lock()
	value := c.value
	graph.Unlock()
	return value
}

func (c *Computed[T]) recompute() {
	graph.Lock()
	c.computing = true
	c.dirtyAgain = false
	c.detachLocked(c)
	graph.stack = append(graph.stack, c)
	graph.Unlock()

	value := c.compute()

	graph.Lock()
	graph.stack = graph.stack[:len(graph.stack)-1]
	c.value = value
	c.computing = false
	// A write that landed mid-compute leaves the result dirty so the next
	// Get recomputes again.
	c.dirty = c.dirtyAgain
	graph.Unlock()
}

func (c *Computed[T]) invalidateLocked(out *[]*effectNode) {
	if c.computing {
		c.dirtyAgain = true
		return
	}
	if c.dirty {
		return
	}
	c.dirty = true
	c.node.invalidateObserversLocked(out)
}
