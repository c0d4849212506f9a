package pipeline

import (
	"github.com/Carmen-Shannon/oxy-shapes/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineBuilderOption is a functional option used to configure a Pipeline during construction.
type PipelineBuilderOption func(*pipeline)

// WithShaders sets the vertex and fragment shader pair in one call.
//
// Parameters:
//   - vs: the vertex stage shader
//   - fs: the fragment stage shader
//
// Returns:
//   - PipelineBuilderOption: option setting both stages
func WithShaders(vs, fs shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexShader = vs
		p.fragmentShader = fs
	}
}

// WithVertexShader sets the vertex stage shader.
func WithVertexShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexShader = s
	}
}

// WithFragmentShader sets the fragment stage shader.
func WithFragmentShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.fragmentShader = s
	}
}

// WithDepth toggles the depth test and depth writes.
//
// Parameters:
//   - test: compare fragments against the depth buffer
//   - write: store passing fragment depth
//
// Returns:
//   - PipelineBuilderOption: option setting the depth state
func WithDepth(test, write bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthTestEnabled = test
		p.depthWriteEnabled = write
	}
}

// WithDepthBias sets the constant and slope scaled depth bias.
//
// Parameters:
//   - bias: the constant depth bias to apply
//   - slopeScale: the slope scale depth bias to apply
//
// Returns:
//   - PipelineBuilderOption: option setting the depth bias
func WithDepthBias(bias int32, slopeScale float32) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthBias = bias
		p.depthBiasSlopeScale = slopeScale
	}
}

// WithBlendEnabled turns color blending on or off.
func WithBlendEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendEnabled = enabled
	}
}

// WithCullMode sets which faces are discarded, e.g. wgpu.CullModeBack for closed shapes.
func WithCullMode(mode wgpu.CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.cullMode = mode
	}
}

// WithTopology sets the primitive topology, e.g. wgpu.PrimitiveTopologyLineList for wireframes.
func WithTopology(topology wgpu.PrimitiveTopology) PipelineBuilderOption {
	return func(p *pipeline) {
		p.topology = topology
	}
}

// WithFrontFace sets the winding order treated as front facing.
func WithFrontFace(frontFace wgpu.FrontFace) PipelineBuilderOption {
	return func(p *pipeline) {
		p.frontFace = frontFace
	}
}

// WithWriteMask sets the color channels the fragment stage writes.
func WithWriteMask(writeMask wgpu.ColorWriteMask) PipelineBuilderOption {
	return func(p *pipeline) {
		p.writeMask = writeMask
	}
}

// WithBlendState replaces the default alpha blend state. A nil state is ignored.
//
// Parameters:
//   - blendState: the color and alpha blend components
//
// Returns:
//   - PipelineBuilderOption: option setting the blend state
func WithBlendState(blendState *wgpu.BlendState) PipelineBuilderOption {
	return func(p *pipeline) {
		if blendState != nil {
			p.blendState = blendState
		}
	}
}
