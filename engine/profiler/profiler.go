package profiler

import (
	"runtime"
	"time"

	"go.uber.org/zap"
)

// Stats is one profiling sample covering the frames since the previous sample.
type Stats struct {
	FPS         float64
	HeapMB      float64 // live heap
	AllocRateMB float64 // heap churn per second
	SysMB       float64 // memory obtained from the OS
	GCCount     uint32
	LastPause   time.Duration
	MaxPause    time.Duration // longest GC pause since the previous sample
}

// Profiler tracks frame rate and memory statistics and logs a sample at a fixed interval.
// Not safe for concurrent use; the engine calls Tick from the render goroutine only.
type Profiler struct {
	logger         *zap.Logger
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats
	now            func() time.Time
}

// ProfilerOption is a functional option used to configure a Profiler during construction.
type ProfilerOption func(*Profiler)

// WithInterval sets how often a sample is logged. Non-positive values are ignored.
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// withClock replaces time.Now, for tests.
func withClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		p.now = now
	}
}

// NewProfiler creates a Profiler that logs through logger every second by default.
//
// Parameters:
//   - logger: destination for samples; nil disables logging but samples are still taken
//   - options: a variadic list of options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(logger *zap.Logger, options ...ProfilerOption) *Profiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Profiler{
		logger:         logger,
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per frame. When the interval has elapsed it takes a sample and
// logs it at info level together with any extra fields the caller passes.
//
// Parameters:
//   - extra: additional fields logged with the sample, e.g. draw counters
//
// Returns:
//   - bool: true if a sample was taken this tick
func (p *Profiler) Tick(extra ...zap.Field) bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	s := Stats{
		FPS:         float64(p.frameCount) / elapsed.Seconds(),
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:       float64(p.memStats.Sys) / 1024 / 1024,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:     p.memStats.NumGC,
	}

	// PauseNs is a ring of the last 256 pauses
	if gcCount := p.memStats.NumGC; gcCount > 0 {
		s.LastPause = time.Duration(p.memStats.PauseNs[(gcCount-1)%256])
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			s.MaxPause = max(s.MaxPause, time.Duration(p.memStats.PauseNs[i%256]))
		}
	}

	fields := append([]zap.Field{
		zap.Float64("fps", s.FPS),
		zap.Float64("heap_mb", s.HeapMB),
		zap.Float64("alloc_rate_mb_s", s.AllocRateMB),
		zap.Uint32("gc", s.GCCount),
		zap.Duration("gc_last_pause", s.LastPause),
		zap.Duration("gc_max_pause", s.MaxPause),
		zap.Float64("sys_mb", s.SysMB),
	}, extra...)
	p.logger.Info("frame stats", fields...)

	p.last = s
	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the most recent sample, or the zero Stats before the first one.
func (p *Profiler) Last() Stats {
	return p.last
}
