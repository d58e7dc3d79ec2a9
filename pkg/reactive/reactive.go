package reactive

import "sync"

// Cleanup tears down whatever an effect run set up. Effects may return nil
// when there is nothing to release.
type Cleanup func()

// graph is the package-wide bookkeeping: the tracking stack that links reads
// to the computation performing them, and the batch queue.
var graph = struct {
	sync.Mutex
	stack      []observer
	batchDepth int
	queue      []*effectNode
}{}

// observer is anything that re-runs or invalidates when a source it read
// changes: effects and computed values.
type observer interface {
	invalidateLocked(out *[]*effectNode)
	addSource(n *node)
}

// node is the source side of the dependency graph, embedded in signals and
// computed values.
type node struct {
	observers map[observer]struct{}
}

// trackLocked registers the computation currently on top of the tracking
// stack, if any, as an observer of this node. Caller holds the graph lock.
func (n *node) trackLocked() {
	if len(graph.stack) == 0 {
		return
	}
	top := graph.stack[len(graph.stack)-1]
	if n.observers == nil {
		n.observers = make(map[observer]struct{})
	}
	if _, ok := n.observers[top]; ok {
		return
	}
	n.observers[top] = struct{}{}
	top.addSource(n)
}

// invalidateObserversLocked fans a change out to every observer, collecting
// the effects that need to run. Caller holds the graph lock.
func (n *node) invalidateObserversLocked(out *[]*effectNode) {
	for o := range n.observers {
		o.invalidateLocked(out)
	}
}

// deps is the observer side: the sources a computation read on its last run,
// kept so the edges can be dropped before the next run re-tracks them.
type deps struct {
	sources []*node
}

func (d *deps) addSource(n *node) {
	d.sources = append(d.sources, n)
}

func (d *deps) detachLocked(self observer) {
	for _, n := range d.sources {
		delete(n.observers, self)
	}
	d.sources = nil
}

// dispatch either queues effects for the enclosing batch or runs them now.
// Caller holds the graph lock and hands it over; dispatch unlocks before
// running anything.
func dispatch(targets []*effectNode) {
	if graph.batchDepth > 0 {
		graph.queue = append(graph.queue, targets...)
		graph.Unlock()
		return
	}
	graph.Unlock()
	runEffects(targets)
}

func runEffects(list []*effectNode) {
	for _, e := range list {
		e.run()
	}
}

// Batch runs fn and defers effect notifications until it returns, so a group
// of writes observed by the same effect triggers a single re-run. Batches
// nest; the queue drains when the outermost one ends.
func Batch(fn func()) {
	graph.Lock()
	graph.batchDepth++
	graph.Unlock()

	defer func() {
		graph.Lock()
		graph.batchDepth--
		var queue []*effectNode
		if graph.batchDepth == 0 {
			queue = graph.queue
			graph.queue = nil
		}
		graph.Unlock()
		runEffects(queue)
	}()

	fn()
}

// Effect runs fn immediately, tracking the signals and computed values it
// reads, and re-runs it whenever one of them changes. The Cleanup returned
// by a run executes before the next run and once more on stop.
func Effect(fn func() Cleanup) (stop func()) {
	e := &effectNode{fn: fn}
	e.run()
	return e.stop
}

type effectNode struct {
	deps

	fn      func() Cleanup
	cleanup Cleanup
	queued  bool
	running bool
	rerun   bool
	stopped bool
}

func (e *effectNode) invalidateLocked(out *[]*effectNode) {
	if e.stopped || e.queued {
		return
	}
	if e.running {
		e.rerun = true
		return
	}
	e.queued = true
	*out = append(*out, e)
}

func (e *effectNode) run() {
	graph.Lock()
	if e.stopped {
		graph.Unlock()
		return
	}
	if e.running {
		e.rerun = true
		graph.Unlock()
		return
	}
	e.running = true
	e.queued = false
	cleanup := e.cleanup
	e.cleanup = nil
	e.detachLocked(e)
	graph.Unlock()

	// The previous run's cleanup executes untracked.
	if cleanup != nil {
		cleanup()
	}

	graph.Lock()
	if e.stopped {
		e.running = false
		graph.Unlock()
		return
	}
	graph.stack = append(graph.stack, e)
	graph.Unlock()

	next := e.fn()

	graph.Lock()
	graph.stack = graph.stack[:len(graph.stack)-1]
	e.cleanup = next
	e.running = false
	again := e.rerun && !e.stopped
	e.rerun = false
	graph.Unlock()

	if again {
		e.run()
	}
}

func (e *effectNode) stop() {
	graph.Lock()
	if e.stopped {
		graph.Unlock()
		return
	}
	e.stopped = true
	cleanup := e.cleanup
	e.cleanup = nil
	e.detachLocked(e)
	graph.Unlock()

	if cleanup != nil {
		cleanup()
	}
}
