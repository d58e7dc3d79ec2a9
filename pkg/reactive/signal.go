package reactive

// Signal is a reactive value container. Reading it inside an effect or
// computed subscribes that computation; writing it notifies everything that
// read it.
type Signal[T any] struct {
	node  node
	value T
}

// NewSignal returns a signal holding initial.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{value: initial}
}

// Get returns the current value and registers it as a dependency of the
// computation currently running, if any.
func (s *Signal[T]) Get() T {
	graph.Lock()
	s.node.trackLocked()
	value := s.value
	graph.Unlock()
	return value
}

// Peek returns the current value without registering a dependency.
func (s *Signal[T]) Peek() T {
	graph.Lock()
	value := s.value
	graph.Unlock()
	return value
}

// Set stores a new value and notifies observers. Every Set notifies; use
// Batch to coalesce a burst of writes.
func (s *Signal[T]) Set(value T) {
	graph.Lock()
	s.value = value
	var targets []*effectNode
	s.node.invalidateObserversLocked(&targets)
	dispatch(targets)
}

// Update applies fn to the current value and stores the result.
func (s *Signal[T]) Update(fn func(T) T) {
	s.Set(fn(s.Peek()))
}

// Subscribe invokes fn with each value written after the subscription is
// made. The current value does not fire. The returned cancel is idempotent.
func (s *Signal[T]) Subscribe(fn func(T)) (cancel func()) {
	initial := true
	return Effect(func() Cleanup {
		value := s.Get()
		if initial {
			initial = false
			return nil
		}
		fn(value)
		return nil
	})
}
