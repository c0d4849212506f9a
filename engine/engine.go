package engine

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-shapes/engine/profiler"
	"github.com/Carmen-Shannon/oxy-shapes/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shapes/engine/scene"
	"github.com/Carmen-Shannon/oxy-shapes/engine/window"
	"go.uber.org/zap"
)

// engine implements the Engine interface.
// Coordinates engine, render, and window threads.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running atomic.Bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window window.Window
	logger *zap.Logger

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	// cbMu guards the callbacks and engineTickRate.
	cbMu           sync.Mutex
	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	scenesMu sync.RWMutex
	scenes   map[int]scene.Scene

	renderFrameLimit atomic.Int64 // minimum frame duration in nanoseconds; 0 = uncapped

	// lastDrawErr suppresses repeated logging of the same per-frame error.
	lastDrawErr string
}

// Engine is the main entry point for the engine.
// It orchestrates the engine loop, render loop, and window management.
type Engine interface {
	// Window returns the underlying window, or nil for a headless engine.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Logger returns the engine logger.
	Logger() *zap.Logger

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in frames per second.
	// Active scenes are updated and the tick callback is called at this rate.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick after active scenes are updated.
	// Use this for input processing and game logic.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called after each render frame.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// AddScene registers a scene at the given z-index key.
	// Scenes are rendered in ascending key order during the render loop.
	//
	// Parameters:
	//   - key: the z-index determining render order (lower renders first)
	//   - s: the Scene to register
	AddScene(key int, s scene.Scene)

	// RemoveScene removes the scene at the given z-index key. The scene is not released.
	//
	// Parameters:
	//   - key: the z-index of the scene to remove
	RemoveScene(key int)

	// Scene retrieves the scene registered at the given z-index key.
	// Returns nil if no scene exists at that key.
	//
	// Parameters:
	//   - key: the z-index of the scene to retrieve
	//
	// Returns:
	//   - scene.Scene: the scene at the key, or nil if not found
	Scene(key int) scene.Scene

	// Scenes returns a copy of all registered scenes keyed by z-index.
	//
	// Returns:
	//   - map[int]scene.Scene: a copy of the scenes map
	Scenes() map[int]scene.Scene

	// Run starts the engine loops and blocks until the window closes or Quit is called.
	// A headless engine (no window) blocks until Quit.
	Run()

	// Quit signals all engine goroutines to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// Options are applied directly to the engine struct via the option-builder pattern.
// When a window is set, resizes are forwarded to every scene's renderer and camera.
//
// Parameters:
//   - options: functional options for engine configuration (profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		scenes:          make(map[int]scene.Scene),
		engineTickRate:  time.Second / 60,
		logger:          zap.NewNop(),
	}

	for _, opt := range options {
		opt(e)
	}
	e.profiler = profiler.NewProfiler(e.logger.Named("profiler"))

	if e.window != nil {
		e.window.SetResizeCallback(e.handleResize)
	}

	return e
}

// handleResize reconfigures each distinct renderer once and updates every camera's aspect ratio.
func (e *engine) handleResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	resized := make(map[renderer.Renderer]bool)
	for _, s := range e.sortedScenes(false) {
		if r := s.Renderer(); r != nil && !resized[r] {
			r.Resize(width, height)
			resized[r] = true
		}
		if c := s.Camera(); c != nil {
			c.SetAspect(float32(width) / float32(height))
		}
	}
	e.logger.Debug("window resized", zap.Int("width", width), zap.Int("height", height))
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Logger() *zap.Logger {
	return e.logger
}

func (e *engine) Run() {
	e.running.Store(true)
	e.handle()
	if e.window != nil {
		e.window.ProcessMessages()
		e.signalQuit()
	} else {
		<-e.quitChannel
	}
	e.wg.Wait()
	e.logger.Info("engine stopped")
}

func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running.Store(false)
		close(e.quitChannel)
	})
}

// handle launches the engine, render, and quit goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(3)
	go e.handleEngine()
	go e.handleRender()
	go e.handleQuit()
}

// sortedScenes returns the registered scenes in ascending z-index order.
//
// Parameters:
//   - activeOnly: skip scenes that are not active
//
// Returns:
//   - []scene.Scene: the scenes in render order
func (e *engine) sortedScenes(activeOnly bool) []scene.Scene {
	e.scenesMu.RLock()
	defer e.scenesMu.RUnlock()
	keys := make([]int, 0, len(e.scenes))
	for k := range e.scenes {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	out := make([]scene.Scene, 0, len(keys))
	for _, k := range keys {
		if s := e.scenes[k]; !activeOnly || s.Active() {
			out = append(out, s)
		}
	}
	return out
}

// handleEngine runs the fixed-rate tick loop in its own goroutine. Each tick updates the
// active scenes and then fires the tick callback. Listens for rate changes via tickRateChannel.
// Recovers from panics and signals quit on recovery.
func (e *engine) handleEngine() {
	defer e.wg.Done()
	defer e.recoverAndQuit("engine")

	e.cbMu.Lock()
	ticker := time.NewTicker(e.engineTickRate)
	e.cbMu.Unlock()
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			for _, s := range e.sortedScenes(true) {
				s.Update(dt)
			}

			e.cbMu.Lock()
			cb := e.tickCallback
			e.cbMu.Unlock()
			if cb != nil {
				cb(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.cbMu.Lock()
			e.engineTickRate = newRate
			e.cbMu.Unlock()
		}
	}
}

// handleRender runs the uncapped (or frame-limited) render loop in its own goroutine.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer e.recoverAndQuit("render")

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
		}

		now := time.Now()
		dt := float32(now.Sub(lastRender).Seconds())
		lastRender = now

		stats := e.renderFrame()

		e.cbMu.Lock()
		cb := e.renderCallback
		e.cbMu.Unlock()
		if cb != nil {
			cb(dt)
		}

		if e.profilingEnabled.Load() {
			e.profiler.Tick(
				zap.Int("objects", stats.Objects),
				zap.Int("drawn", stats.Drawn),
				zap.Int("culled", stats.Culled),
			)
		}

		if limit := time.Duration(e.renderFrameLimit.Load()); limit > 0 {
			if remaining := limit - time.Since(now); remaining > 0 {
				time.Sleep(remaining)
			}
		} else if stats.Objects == 0 {
			// nothing to present; avoid spinning a core
			time.Sleep(time.Millisecond)
		}
	}
}

// renderFrame draws every active scene inside one frame of the first active scene's renderer.
// All scenes sharing that renderer are drawn within a single render pass.
//
// Returns:
//   - scene.DrawStats: the draw counters summed over the active scenes
func (e *engine) renderFrame() scene.DrawStats {
	var total scene.DrawStats
	active := e.sortedScenes(true)
	if len(active) == 0 {
		return total
	}
	frameRenderer := active[0].Renderer()
	if frameRenderer == nil {
		return total
	}

	if err := frameRenderer.BeginFrame(); err != nil {
		e.logFrameError("begin frame", err)
		return total
	}
	for _, s := range active {
		if err := s.DrawCalls(); err != nil {
			e.logFrameError(s.Name(), err)
		}
		st := s.Stats()
		total.Objects += st.Objects
		total.Disabled += st.Disabled
		total.Missing += st.Missing
		total.Culled += st.Culled
		total.Drawn += st.Drawn
	}
	frameRenderer.EndFrame()
	frameRenderer.Present()
	return total
}

// logFrameError logs a per-frame error once until a different error occurs.
func (e *engine) logFrameError(where string, err error) {
	msg := where + ": " + err.Error()
	if msg == e.lastDrawErr {
		return
	}
	e.lastDrawErr = msg
	e.logger.Warn("frame error", zap.String("stage", where), zap.Error(err))
}

// recoverAndQuit logs a recovered panic from an engine goroutine and shuts the engine down.
func (e *engine) recoverAndQuit(loop string) {
	if r := recover(); r != nil {
		e.logger.Error("goroutine recovered from panic",
			zap.String("loop", loop),
			zap.Any("panic", r),
			zap.StackSkip("stack", 2),
		)
		e.signalQuit()
	}
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

// SetTickRate sets the engine tick rate in frames per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	if !e.running.Load() {
		e.cbMu.Lock()
		e.engineTickRate = newRate
		e.cbMu.Unlock()
		return
	}

	// keep only the newest pending rate
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.cbMu.Lock()
	defer e.cbMu.Unlock()
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.cbMu.Lock()
	defer e.cbMu.Unlock()
	e.renderCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit.Store(int64(frameDuration(fps)))
}

// frameDuration converts a frame rate into a frame duration, 0 for non-positive rates.
func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}

func (e *engine) AddScene(key int, s scene.Scene) {
	e.scenesMu.Lock()
	defer e.scenesMu.Unlock()
	e.scenes[key] = s
}

func (e *engine) RemoveScene(key int) {
	e.scenesMu.Lock()
	defer e.scenesMu.Unlock()
	delete(e.scenes, key)
}

func (e *engine) Scene(key int) scene.Scene {
	e.scenesMu.RLock()
	defer e.scenesMu.RUnlock()
	return e.scenes[key]
}

func (e *engine) Scenes() map[int]scene.Scene {
	e.scenesMu.RLock()
	defer e.scenesMu.RUnlock()
	cp := make(map[int]scene.Scene, len(e.scenes))
	for k, v := range e.scenes {
		cp[k] = v
	}
	return cp
}
