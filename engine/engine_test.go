package engine

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-shapes/engine/camera"
	"github.com/Carmen-Shannon/oxy-shapes/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shapes/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeRenderer struct {
	renderer.Renderer

	frames   atomic.Int32
	presents atomic.Int32
	resizes  atomic.Int32
	beginErr error
}

func (f *fakeRenderer) BeginFrame() error {
	if f.beginErr != nil {
		return f.beginErr
	}
	f.frames.Add(1)
	return nil
}

func (f *fakeRenderer) EndFrame() {}

func (f *fakeRenderer) Present() {
	f.presents.Add(1)
}

func (f *fakeRenderer) Resize(_, _ int) {
	f.resizes.Add(1)
}

type fakeScene struct {
	scene.Scene

	name      string
	active    bool
	r         *fakeRenderer
	cam       camera.Camera
	updates   atomic.Int32
	draws     atomic.Int32
	panicDraw bool
}

func (f *fakeScene) Name() string                { return f.name }
func (f *fakeScene) Active() bool                { return f.active }
func (f *fakeScene) Renderer() renderer.Renderer { return f.r }
func (f *fakeScene) Camera() camera.Camera       { return f.cam }
func (f *fakeScene) Stats() scene.DrawStats      { return scene.DrawStats{Objects: 2, Drawn: 1, Culled: 1} }
func (f *fakeScene) Update(float32)              { f.updates.Add(1) }

func (f *fakeScene) DrawCalls() error {
	if f.panicDraw {
		panic("draw exploded")
	}
	f.draws.Add(1)
	return nil
}

func runAsync(e Engine) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()
	return done
}

func TestSceneRegistry(t *testing.T) {
	a := &fakeScene{name: "a"}
	e := NewEngine(WithScene(1, a))

	b := &fakeScene{name: "b"}
	e.AddScene(0, b)
	assert.Same(t, a, e.Scene(1))
	assert.Nil(t, e.Scene(5))

	cp := e.Scenes()
	delete(cp, 0)
	assert.Len(t, e.Scenes(), 2, "Scenes returns a copy")

	e.RemoveScene(0)
	assert.Nil(t, e.Scene(0))

	eng := e.(*engine)
	a.active = true
	eng.AddScene(-1, &fakeScene{name: "c", active: true})
	var names []string
	for _, s := range eng.sortedScenes(true) {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"c", "a"}, names)
}

func TestRunHeadlessUpdatesAndRendersActiveScenes(t *testing.T) {
	r := &fakeRenderer{}
	active := &fakeScene{name: "active", active: true, r: r}
	idle := &fakeScene{name: "idle", r: r}

	var ticks, renders atomic.Int32
	e := NewEngine(WithTickRate(500), WithRenderFrameLimit(1000), WithProfiling(true), WithScene(0, active), WithScene(1, idle))
	e.SetTickCallback(func(float32) { ticks.Add(1) })
	e.SetRenderCallback(func(float32) { renders.Add(1) })

	done := runAsync(e)
	require.Eventually(t, func() bool {
		return active.updates.Load() > 2 && active.draws.Load() > 2 && ticks.Load() > 2 && renders.Load() > 2
	}, 2*time.Second, 5*time.Millisecond)

	e.Quit()
	e.Quit()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Quit")
	}

	assert.Zero(t, idle.updates.Load())
	assert.Zero(t, idle.draws.Load())
	assert.Equal(t, r.frames.Load(), r.presents.Load())
}

func TestRenderPanicStopsEngine(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	s := &fakeScene{name: "boom", active: true, r: &fakeRenderer{}, panicDraw: true}
	e := NewEngine(WithLogger(zap.New(core)), WithScene(0, s))

	done := runAsync(e)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("engine kept running after a render panic")
	}

	entries := logs.FilterMessage("goroutine recovered from panic").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "render", entries[0].ContextMap()["loop"])
}

func TestBeginFrameErrorIsLoggedOnce(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	r := &fakeRenderer{beginErr: errors.New("surface lost")}
	s := &fakeScene{name: "s", active: true, r: r}
	e := NewEngine(WithLogger(zap.New(core)), WithScene(0, s)).(*engine)

	e.renderFrame()
	e.renderFrame()
	assert.Equal(t, 1, logs.FilterMessage("frame error").Len())
	assert.Zero(t, s.draws.Load())
	assert.Zero(t, r.presents.Load())
}

func TestRenderFrameSumsStats(t *testing.T) {
	r := &fakeRenderer{}
	e := NewEngine(
		WithScene(0, &fakeScene{name: "a", active: true, r: r}),
		WithScene(1, &fakeScene{name: "b", active: true, r: r}),
	).(*engine)

	stats := e.renderFrame()
	assert.Equal(t, scene.DrawStats{Objects: 4, Drawn: 2, Culled: 2}, stats)
	assert.Equal(t, int32(1), r.frames.Load(), "scenes share one frame")
}

func TestHandleResize(t *testing.T) {
	r := &fakeRenderer{}
	camA := camera.NewCamera()
	camB := camera.NewCamera()
	e := NewEngine(
		WithScene(0, &fakeScene{name: "a", r: r, cam: camA}),
		WithScene(1, &fakeScene{name: "b", r: r, cam: camB}),
	).(*engine)

	e.handleResize(800, 400)
	assert.Equal(t, int32(1), r.resizes.Load(), "shared renderer is resized once")
	assert.Equal(t, float32(2), camA.Aspect())
	assert.Equal(t, float32(2), camB.Aspect())

	e.handleResize(0, 400)
	assert.Equal(t, int32(1), r.resizes.Load())
}

func TestTickRateAndFrameLimit(t *testing.T) {
	e := NewEngine(WithTickRate(-1)).(*engine)
	assert.Equal(t, time.Second/60, e.engineTickRate)

	e.SetTickRate(120)
	assert.Equal(t, time.Second/120, e.engineTickRate)

	e.SetRenderFrameLimit(50)
	assert.Equal(t, int64(20*time.Millisecond), e.renderFrameLimit.Load())
	e.SetRenderFrameLimit(0)
	assert.Zero(t, e.renderFrameLimit.Load())

	e.EnableProfiler()
	assert.True(t, e.profilingEnabled.Load())
	e.DisableProfiler()
	assert.False(t, e.profilingEnabled.Load())
	assert.Nil(t, e.Window())
	assert.NotNil(t, e.Logger())
}
