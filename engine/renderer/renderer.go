package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-shapes/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-shapes/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-shapes/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

var (
	// ErrPipelineNotFound is returned when a draw names a pipeline that was never registered.
	ErrPipelineNotFound = errors.New("render pipeline not found in cache")

	// ErrMeshNotReady is returned when a draw is given a provider without vertex and index buffers.
	ErrMeshNotReady = errors.New("mesh provider has no GPU buffers")

	// ErrIndexRange is returned when a draw range reaches past the end of the index buffer.
	ErrIndexRange = errors.New("index range outside index buffer")

	// ErrReleased is returned by every GPU operation after Release.
	ErrReleased = errors.New("renderer released")
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend
	logger      *zap.Logger
	released    bool

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	pendingClearColor    *wgpu.Color
	pendingPipelines     []pipeline.Pipeline
}

// Renderer draws indexed meshes through cached render pipelines onto a window surface.
//
// A frame is BeginFrame, any number of DrawCall/DrawCallRange, EndFrame, Present. GPU
// resources are created once with InitMeshBuffers/InitBindGroup and freed by their providers;
// Release frees the pipelines and the device.
type Renderer interface {
	// Pipeline retrieves the registered pipeline with the given key, or nil.
	//
	// Parameters:
	//   - key: the pipeline key
	//
	// Returns:
	//   - pipeline.Pipeline: the pipeline or nil
	Pipeline(key string) pipeline.Pipeline

	// Pipelines returns a snapshot of every registered pipeline keyed by PipelineKey.
	Pipelines() map[string]pipeline.Pipeline

	// RegisterPipelines creates the GPU objects for each pipeline and caches it by key.
	// Keys that are already registered are skipped.
	//
	// Parameters:
	//   - pipelines: the pipelines to register
	//
	// Returns:
	//   - error: the first creation failure
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Resize reconfigures the surface. Zero sizes (a minimized window) are ignored.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// InitMeshBuffers uploads a mesh into a new vertex/index buffer pair stored on provider.
	//
	// Parameters:
	//   - provider: receives the buffers
	//   - vertexData: the interleaved vertex bytes
	//   - indexData: little-endian uint32 indices
	//   - indexCount: the number of indices in indexData
	//
	// Returns:
	//   - error: empty data or a buffer creation failure
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount uint32) error

	// InitBindGroup creates the buffers and the bind group described by descriptor on provider.
	// Buffers are sized from each entry's MinBindingSize unless overridden.
	//
	// Parameters:
	//   - provider: receives the buffers and bind group
	//   - descriptor: the group layout, usually from pipeline.BindGroupLayoutDescriptors
	//   - bufferSizeOverrides: buffer sizes keyed by binding, may be nil
	//
	// Returns:
	//   - error: a creation failure
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error

	// WriteBuffers queues a batch of buffer writes. Writes to missing buffers are skipped.
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the next surface texture and opens the main render pass.
	//
	// Returns:
	//   - error: the surface could not be acquired or the previous frame was not presented
	BeginFrame() error

	// DrawCall draws the whole index buffer of meshProvider.
	//
	// Parameters:
	//   - pipelineKey: the registered pipeline to draw with
	//   - meshProvider: the provider holding the vertex and index buffers
	//   - instanceCount: the number of instances to draw
	//   - bindGroups: set at group index 0, 1, ... in order
	//
	// Returns:
	//   - error: unknown pipeline or a mesh without buffers
	DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error

	// DrawCallRange draws indexCount indices starting at firstIndex, one instance. A zero
	// indexCount draws nothing.
	//
	// Parameters:
	//   - pipelineKey: the registered pipeline to draw with
	//   - meshProvider: the provider holding the vertex and index buffers
	//   - firstIndex: the first index to read
	//   - indexCount: the number of indices to draw
	//   - bindGroups: set at group index 0, 1, ... in order
	//
	// Returns:
	//   - error: unknown pipeline, a mesh without buffers or a range past the index buffer
	DrawCallRange(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, firstIndex, indexCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndFrame closes the render pass and submits the frame.
	EndFrame()

	// Present shows the frame on the surface.
	Present()

	// SetPresentMode switches between vsync and uncapped presentation on the next resize.
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the background color.
	//
	// Parameters:
	//   - r, g, b, a: color components in [0,1]
	SetClearColor(r, g, b, a float64)

	// Release frees every registered pipeline and the GPU device. Safe to call more than once.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer drawing into the window's surface. It panics when no adapter
// or device can be obtained.
//
// Parameters:
//   - backendType: the type of rendering backend to use
//   - window: the window providing the surface descriptor and initial size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a ready renderer
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		logger:        zap.NewNop(),
	}

	// options first so forceFallbackAdapter is known before the adapter request
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil && r.pendingMSAA.Valid() {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	if r.pendingClearColor != nil {
		r.backend.SetClearColor(*r.pendingClearColor)
	}
	r.backend.ConfigureSurface(window.Width(), window.Height())
	r.logger.Info("renderer ready",
		zap.Int("width", window.Width()),
		zap.Int("height", window.Height()),
		zap.Uint32("msaa", uint32(msaa)),
		zap.Bool("fallback_adapter", r.forceFallbackAdapter),
	)

	if len(r.pendingPipelines) > 0 {
		if err := r.RegisterPipelines(r.pendingPipelines...); err != nil {
			panic(fmt.Sprintf("renderer: %v", err))
		}
		r.pendingPipelines = nil
	}
	return r
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return
	}
	r.backend.ConfigureSurface(width, height)
	r.logger.Debug("surface resized", zap.Int("width", width), zap.Int("height", height))
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) SetClearColor(red, green, blue, alpha float64) {
	r.backend.SetClearColor(wgpu.Color{R: red, G: green, B: blue, A: alpha})
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) Pipelines() map[string]pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]pipeline.Pipeline, len(r.pipelineCache))
	for k, p := range r.pipelineCache {
		out[k] = p
	}
	return out
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return ErrReleased
	}
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("register pipeline %q: %w", key, err)
		}
		r.pipelineCache[key] = p
		r.logger.Debug("pipeline registered", zap.String("pipeline", key))
	}
	return nil
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount uint32) error {
	if r.isReleased() {
		return ErrReleased
	}
	if len(vertexData) == 0 || len(indexData) == 0 || indexCount == 0 {
		return fmt.Errorf("init mesh buffers %q: empty vertex or index data", provider.Label())
	}
	if uint64(len(indexData)) < uint64(indexCount)*4 {
		return fmt.Errorf("init mesh buffers %q: %d index bytes for %d indices: %w", provider.Label(), len(indexData), indexCount, ErrIndexRange)
	}
	return r.backend.InitMeshBuffers(provider, vertexData, indexData, indexCount)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error {
	if r.isReleased() {
		return ErrReleased
	}
	return r.backend.InitBindGroup(provider, descriptor, bufferSizeOverrides)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	if len(writes) == 0 || r.isReleased() {
		return
	}
	r.backend.WriteBuffers(writes)
}

func (r *renderer) BeginFrame() error {
	if r.isReleased() {
		return ErrReleased
	}
	return r.backend.BeginFrame()
}

func (r *renderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	p, err := r.drawPipeline(pipelineKey, meshProvider)
	if err != nil {
		return err
	}
	return r.backend.DrawIndexed(p, meshProvider, 0, meshProvider.IndexCount(), instanceCount, bindGroups)
}

func (r *renderer) DrawCallRange(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, firstIndex, indexCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	p, err := r.drawPipeline(pipelineKey, meshProvider)
	if err != nil {
		return err
	}
	if uint64(firstIndex)+uint64(indexCount) > uint64(meshProvider.IndexCount()) {
		return fmt.Errorf("draw %q [%d, %d) of %d: %w", meshProvider.Label(), firstIndex, firstIndex+indexCount, meshProvider.IndexCount(), ErrIndexRange)
	}
	if indexCount == 0 {
		return nil
	}
	return r.backend.DrawIndexed(p, meshProvider, firstIndex, indexCount, 1, bindGroups)
}

// drawPipeline resolves the pipeline and checks the mesh shared by both draw calls.
func (r *renderer) drawPipeline(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider) (pipeline.Pipeline, error) {
	r.mu.Lock()
	p, exists := r.pipelineCache[pipelineKey]
	released := r.released
	r.mu.Unlock()

	if released {
		return nil, ErrReleased
	}
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrPipelineNotFound, pipelineKey)
	}
	if meshProvider == nil || !meshProvider.HasMesh() {
		return nil, ErrMeshNotReady
	}
	return p, nil
}

func (r *renderer) EndFrame() {
	if r.isReleased() {
		return
	}
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	if r.isReleased() {
		return
	}
	r.backend.Present()
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return
	}
	r.released = true
	for key, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, key)
	}
	r.backend.Release()
	r.logger.Info("renderer released")
}

func (r *renderer) isReleased() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.released
}
