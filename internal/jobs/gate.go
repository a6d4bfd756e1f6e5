package jobs

import "sync"

// gate enforces the two admission bounds: total queue occupancy (queued plus
// active jobs) and the number of concurrent executions.
type gate struct {
	mu        sync.Mutex
	occupancy int
	active    int
	maxQueue  int
}

func newGate(maxQueue int) *gate {
	return &gate{maxQueue: maxQueue}
}

// admit reserves one unit of occupancy or fails with ErrQueueFull. The
// reservation is held until the job reaches a terminal state.
func (g *gate) admit() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.occupancy >= g.maxQueue {
		return ErrQueueFull
	}
	g.occupancy++
	return nil
}

// release returns one unit of occupancy.
func (g *gate) release() {
	g.mu.Lock()
	if g.occupancy > 0 {
		g.occupancy--
	}
	g.mu.Unlock()
}

// start marks one execution slot busy.
func (g *gate) start() {
	g.mu.Lock()
	g.active++
	g.mu.Unlock()
}

// finish frees the execution slot.
func (g *gate) finish() {
	g.mu.Lock()
	if g.active > 0 {
		g.active--
	}
	g.mu.Unlock()
}

func (g *gate) snapshot() (occupancy, active int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.occupancy, g.active
}

// utilization reports occupancy as a percentage of queue capacity.
func (g *gate) utilization() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.maxQueue <= 0 {
		return 0
	}
	return float64(g.occupancy) / float64(g.maxQueue) * 100
}
