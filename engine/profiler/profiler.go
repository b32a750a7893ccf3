package profiler

import (
	"log"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
)

// Profiler tracks frame rate, memory and GPU resource statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	// Last logged values, exposed for tests and status lines.
	fps  float64
	live int
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	return NewProfilerWithInterval(time.Second)
}

// NewProfilerWithInterval creates a Profiler that logs every interval.
//
// Parameters:
//   - interval: the time between log lines
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfilerWithInterval(interval time.Duration) *Profiler {
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: interval,
	}
}

// Tick should be called once per frame to track frame timing.
// Logs FPS, heap usage, allocation rate, GC pauses and the renderer's live resource counts
// when the update interval has elapsed.
//
// Parameters:
//   - stats: the mounted scene's resource ledger
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(stats renderer.LedgerStats) bool {
	p.frameCount++
	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	p.fps = float64(p.frameCount) / elapsed.Seconds()
	p.live = stats.Live()

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	var maxPauseUs uint64
	// PauseNs is a circular buffer of the last 256 GC pauses
	startIdx := p.lastGCCount
	if gcCount-startIdx > 256 {
		startIdx = gcCount - 256
	}
	for i := startIdx; i < gcCount; i++ {
		maxPauseUs = max(maxPauseUs, p.memStats.PauseNs[i%256]/1000)
	}

	log.Printf("[Profiler] FPS: %.2f | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (max: %d µs) | GPU: %d live (%d buffers, %d bind groups, %d pipelines)",
		p.fps, allocMB, allocRateMB, gcCount, maxPauseUs, p.live,
		stats.LiveByKind[renderer.ResourceKindBuffer], stats.LiveByKind[renderer.ResourceKindBindGroup], stats.LiveByKind[renderer.ResourceKindPipeline])

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// FPS returns the frame rate from the last logged interval.
func (p *Profiler) FPS() float64 {
	return p.fps
}

// Live returns the live resource count from the last logged interval.
func (p *Profiler) Live() int {
	return p.live
}
