package dispatch

import (
	"sort"
	"sync"
	"time"
)

// Metrics collects per-handler dispatch statistics.
type Metrics struct {
	mu sync.RWMutex

	handlerMetrics map[string]*HandlerMetrics

	totalDispatches uint64
	totalFailures   uint64
	totalPanics     uint64
	totalDuration   time.Duration
}

// HandlerMetrics holds statistics for one handler.
type HandlerMetrics struct {
	Name          string
	DispatchCount uint64
	FailureCount  uint64
	TotalDuration time.Duration
	MinDuration   time.Duration
	MaxDuration   time.Duration
	LastDispatch  time.Time
}

// NewMetrics creates a metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		handlerMetrics: make(map[string]*HandlerMetrics),
	}
}

// RecordDispatch records one dispatch through a handler.
func (m *Metrics) RecordDispatch(name string, duration time.Duration, succeeded bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalDispatches++
	m.totalDuration += duration
	if !succeeded {
		m.totalFailures++
	}

	hm := m.handlerMetrics[name]
	if hm == nil {
		hm = &HandlerMetrics{
			Name:        name,
			MinDuration: duration,
			MaxDuration: duration,
		}
		m.handlerMetrics[name] = hm
	}

	hm.DispatchCount++
	hm.TotalDuration += duration
	hm.LastDispatch = time.Now()
	if !succeeded {
		hm.FailureCount++
	}
	if duration < hm.MinDuration {
		hm.MinDuration = duration
	}
	if duration > hm.MaxDuration {
		hm.MaxDuration = duration
	}
}

// RecordPanic records a recovered handler panic.
func (m *Metrics) RecordPanic(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalPanics++
	if hm := m.handlerMetrics[name]; hm != nil {
		hm.FailureCount++
	}
}

// TotalDispatches returns the total number of dispatches.
func (m *Metrics) TotalDispatches() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalDispatches
}

// TotalFailures returns the total number of failed Results.
func (m *Metrics) TotalFailures() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalFailures
}

// TotalPanics returns the number of recovered handler panics.
func (m *Metrics) TotalPanics() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalPanics
}

// HandlerStats returns a copy of the metrics for one handler, or nil.
func (m *Metrics) HandlerStats(name string) *HandlerMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hm := m.handlerMetrics[name]
	if hm == nil {
		return nil
	}
	cp := *hm
	return &cp
}

// TopHandlers returns the n most dispatched handlers.
func (m *Metrics) TopHandlers(n int) []*HandlerMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := make([]*HandlerMetrics, 0, len(m.handlerMetrics))
	for _, hm := range m.handlerMetrics {
		cp := *hm
		stats = append(stats, &cp)
	}

	sort.Slice(stats, func(i, j int) bool {
		return stats[i].DispatchCount > stats[j].DispatchCount
	})

	if n > len(stats) {
		n = len(stats)
	}
	return stats[:n]
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.handlerMetrics = make(map[string]*HandlerMetrics)
	m.totalDispatches = 0
	m.totalFailures = 0
	m.totalPanics = 0
	m.totalDuration = 0
}
