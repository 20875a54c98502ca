// Package profiler reports viewer loop health. The render and navigation
// loops run on separate goroutines at different rates, so both are counted
// and reported together.
package profiler

import (
	"log"
	"runtime"
	"sync"
	"time"
)

// Profiler counts render frames and navigation ticks and logs throughput
// and memory statistics at a fixed interval.
type Profiler struct {
	mu sync.Mutex

	frameCount     int
	tickCount      int
	lastReport     time.Time
	reportInterval time.Duration
	memStats       runtime.MemStats
	lastTotalAlloc uint64
}

// NewProfiler creates a Profiler reporting at the given interval.
// A non-positive interval defaults to one second.
//
// Parameters:
//   - interval: how often to log a report
//
// Returns:
//   - *Profiler: the newly created profiler
func NewProfiler(interval time.Duration) *Profiler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Profiler{
		lastReport:     time.Now(),
		reportInterval: interval,
	}
}

// CountTick records one navigation loop iteration.
func (p *Profiler) CountTick() {
	p.mu.Lock()
	p.tickCount++
	p.mu.Unlock()
}

// CountFrame records one rendered frame and logs a report when the interval
// has elapsed.
//
// Returns:
//   - bool: true if a report was logged
func (p *Profiler) CountFrame() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.frameCount++
	now := time.Now()
	elapsed := now.Sub(p.lastReport)
	if elapsed < p.reportInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()
	tps := float64(p.tickCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	heapMB := float64(p.memStats.Alloc) / 1024 / 1024
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	log.Printf("[Profiler] FPS: %.2f | Ticks/s: %.2f | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d",
		fps, tps, heapMB, allocRateMB, p.memStats.NumGC)

	p.frameCount = 0
	p.tickCount = 0
	p.lastReport = now
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
