package rlog

import (
	"runtime"
	"time"
)

// Profiler accumulates raster-tile throughput counters and periodically
// reports them through the package logger. Adapted from the source
// engine's per-frame FPS/heap profiler: the reporting cadence and the
// runtime.MemStats fields sampled are kept, but the counted unit changes
// from GPU frames to completed raster tiles, since this renderer has no
// frame-presentation loop of its own.
type Profiler struct {
	tileCount      int64
	lastTime       time.Time
	updateInterval time.Duration
	lastGCCount    uint32
	lastTotalAlloc uint64
}

// NewProfiler creates a profiler that reports once per second, matching
// the source's default update interval.
func NewProfiler() *Profiler {
	return &Profiler{
		lastTime:       now(),
		updateInterval: time.Second,
	}
}

// now returns the wall-clock time Tick measures its reporting interval
// against; Tick takes no clock argument of its own.
func now() time.Time { return time.Now() }

// TileDone records one completed raster tile. A nil Profiler is a
// no-op, so callers that hold an optional profiler need not nil-check
// before every tile.
func (p *Profiler) TileDone() {
	if p == nil {
		return
	}
	p.tileCount++
}

// Tick checks whether the reporting interval has elapsed and, if so,
// logs accumulated throughput and resets counters. Returns true if a
// report was emitted. A nil Profiler always returns false.
func (p *Profiler) Tick() bool {
	if p == nil {
		return false
	}
	elapsed := now().Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	tilesPerSec := float64(p.tileCount) / elapsed.Seconds()
	heapMB := float64(mem.HeapAlloc) / (1024 * 1024)
	sysMB := float64(mem.Sys) / (1024 * 1024)
	allocRateMB := float64(mem.TotalAlloc-p.lastTotalAlloc) / (1024 * 1024) / elapsed.Seconds()
	gcCount := mem.NumGC - p.lastGCCount

	Infof("tiles/s: %.2f | heap: %.2f MB | sys: %.2f MB | alloc rate: %.2f MB/s | GC: %d | pause: %d us",
		tilesPerSec, heapMB, sysMB, allocRateMB, gcCount, mem.PauseNs[(mem.NumGC+255)%256]/1000)

	p.tileCount = 0
	p.lastTime = now()
	p.lastGCCount = mem.NumGC
	p.lastTotalAlloc = mem.TotalAlloc
	return true
}
