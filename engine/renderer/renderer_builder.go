package renderer

import (
	"github.com/Carmen-Shannon/oxy-shapes/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// RendererBuilderOption is a functional option used to configure a Renderer during construction.
type RendererBuilderOption func(*renderer)

// WithPipelines registers pipelines as soon as the device and surface exist.
//
// Parameters:
//   - pipelines: the pipelines to register
//
// Returns:
//   - RendererBuilderOption: option queueing the pipelines for registration
func WithPipelines(pipelines ...pipeline.Pipeline) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPipelines = append(r.pendingPipelines, pipelines...)
	}
}

// WithPresentMode sets the present mode used when the surface is first configured.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: option setting the present mode
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPresentMode = &mode
	}
}

// WithMSAA sets the multisample count. Invalid counts fall back to MSAA4x.
//
// Parameters:
//   - count: the MSAASampleCount to use (MSAAOff, MSAA4x, MSAA8x, or MSAA16x)
//
// Returns:
//   - RendererBuilderOption: option setting the MSAA sample count
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingMSAA = &count
	}
}

// WithForceSoftwareRenderer requests the CPU fallback adapter. It needs a software Vulkan
// driver such as lavapipe or SwiftShader installed.
//
// Parameters:
//   - force: true to force the software fallback adapter
//
// Returns:
//   - RendererBuilderOption: option setting the adapter preference
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithClearColor sets the background color. Defaults to dark gray.
//
// Parameters:
//   - red, green, blue, alpha: color components in [0,1]
//
// Returns:
//   - RendererBuilderOption: option setting the clear color
func WithClearColor(red, green, blue, alpha float64) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingClearColor = &wgpu.Color{R: red, G: green, B: blue, A: alpha}
	}
}

// WithLogger sets the logger used for lifecycle events. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) RendererBuilderOption {
	return func(r *renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}
