package renderer

import (
	"github.com/Carmen-Shannon/oxy-shapes/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-shapes/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents immediately. Lowest latency, may tear.
	PresentModeUncapped
)

// String returns the lower-case name used in configuration files.
func (m PresentMode) String() string {
	if m == PresentModeVSync {
		return "vsync"
	}
	return "uncapped"
}

// MSAASampleCount is the sample count of the main color and depth targets.
// WebGPU guarantees 1 and 4; 8 and 16 depend on the adapter.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing.
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4

	// MSAA8x enables 8x multisample anti-aliasing. Adapter-dependent.
	MSAA8x MSAASampleCount = 8

	// MSAA16x enables 16x multisample anti-aliasing. Adapter-dependent.
	MSAA16x MSAASampleCount = 16
)

// Valid reports whether the sample count is one of the defined values.
func (c MSAASampleCount) Valid() bool {
	switch c {
	case MSAAOff, MSAA4x, MSAA8x, MSAA16x:
		return true
	default:
		return false
	}
}

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}

// wgpuRendererBackend is everything the Renderer asks of the GPU. All methods are called
// from the render goroutine except WriteBuffers and the Init* methods, which lock.
type wgpuRendererBackend interface {
	// ConfigureSurface (re)creates the swapchain, MSAA and depth targets for a surface size.
	ConfigureSurface(width, height int)

	// SetPresentMode takes effect on the next ConfigureSurface.
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the color the main pass clears to.
	SetClearColor(color wgpu.Color)

	// RegisterRenderPipeline creates the shader modules, bind group layouts, pipeline layout and
	// render pipeline for p and stores the GPU objects on it.
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// InitMeshBuffers uploads vertex and index bytes into new buffers stored on provider.
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount uint32) error

	// InitBindGroup creates the buffers and bind group described by descriptor on provider.
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error

	// WriteBuffers queues every write for the next submission.
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the surface texture and opens the main render pass.
	BeginFrame() error

	// DrawIndexed records one indexed draw of indexCount indices starting at firstIndex.
	DrawIndexed(p pipeline.Pipeline, meshProvider bind_group_provider.BindGroupProvider, firstIndex, indexCount, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndFrame closes the render pass and submits the frame's commands.
	EndFrame()

	// Present shows the acquired surface texture.
	Present()

	// Release frees the render targets, device and surface.
	Release()
}
