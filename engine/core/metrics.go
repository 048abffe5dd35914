package core

import "sync"

// PoolStats counts free-list traffic for one primitive kind.
type PoolStats struct {
	Hits     uint64 // takes satisfied from the pool
	Misses   uint64 // takes that fell back to allocation
	Gives    uint64 // handles returned to the pool
	Destroys uint64 // handles destroyed instead of recycled
}

type metricsStateType struct {
	mu    sync.Mutex
	pools map[string]*PoolStats
}

var onceMetrics sync.Once
var metricsState *metricsStateType = nil

func MetricsInitialize() error {
	onceMetrics.Do(func() {
		metricsState = &metricsStateType{
			pools: make(map[string]*PoolStats),
		}
	})
	return nil
}

func (m *metricsStateType) stats(kind string) *PoolStats {
	if s, exists := m.pools[kind]; exists {
		return s
	}
	s := &PoolStats{}
	m.pools[kind] = s
	return s
}

func MetricsPoolHit(kind string) {
	MetricsInitialize()
	metricsState.mu.Lock()
	defer metricsState.mu.Unlock()
	metricsState.stats(kind).Hits++
}

func MetricsPoolMiss(kind string) {
	MetricsInitialize()
	metricsState.mu.Lock()
	defer metricsState.mu.Unlock()
	metricsState.stats(kind).Misses++
}

func MetricsPoolGive(kind string) {
	MetricsInitialize()
	metricsState.mu.Lock()
	defer metricsState.mu.Unlock()
	metricsState.stats(kind).Gives++
}

func MetricsPoolDestroy(kind string) {
	MetricsInitialize()
	metricsState.mu.Lock()
	defer metricsState.mu.Unlock()
	metricsState.stats(kind).Destroys++
}

// MetricsPool returns a copy of the counters for one primitive kind.
func MetricsPool(kind string) PoolStats {
	MetricsInitialize()
	metricsState.mu.Lock()
	defer metricsState.mu.Unlock()
	return *metricsState.stats(kind)
}
