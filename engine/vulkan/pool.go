package vulkan

import (
	"sync"

	"github.com/spaghettifunk/valkyrie/engine/containers"
	"github.com/spaghettifunk/valkyrie/engine/core"
)

// Metrics labels, one per primitive kind.
const (
	kindSemaphore = "semaphore"
	kindFence     = "fence"
	kindEvent     = "event"
)

// HandlePool is a free-list of raw handles of one primitive kind, reached
// through the device that owns it. A handle is either checked out through a
// wrapper or sitting in the pool, never both. The mutex is the only
// serialization point and is never held across a native call; the pool
// itself neither allocates nor destroys anything.
//
// Reuse order is an implementation detail (LIFO today), not a contract.
type HandlePool[H ~uint64] struct {
	kind string
	mu   sync.Mutex
	free *containers.Stack[H]
}

func newHandlePool[H ~uint64](kind string) *HandlePool[H] {
	return &HandlePool[H]{
		kind: kind,
		free: containers.NewStack[H](8),
	}
}

// Take pops a recycled handle if one is available.
func (p *HandlePool[H]) Take() (H, bool) {
	p.mu.Lock()
	handle, ok := p.free.Pop()
	p.mu.Unlock()

	if ok {
		core.MetricsPoolHit(p.kind)
	} else {
		core.MetricsPoolMiss(p.kind)
	}
	return handle, ok
}

// Give returns a handle to the pool. The handle must be valid and must not
// be reachable through any wrapper anymore.
func (p *HandlePool[H]) Give(handle H) {
	p.mu.Lock()
	p.free.Push(handle)
	p.mu.Unlock()

	core.MetricsPoolGive(p.kind)
}

// Len reports how many handles are waiting for reuse.
func (p *HandlePool[H]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.free.Len()
}

// drain empties the pool and hands the handles to the caller, which becomes
// responsible for destroying them. Used only during device teardown.
func (p *HandlePool[H]) drain() []H {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.free.Drain()
}
