package scene

import (
	"github.com/Carmen-Shannon/oxy-shapes/engine/game_object"
	"github.com/Carmen-Shannon/oxy-shapes/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-shapes/engine/shapes"
	"go.uber.org/zap"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active for rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithObjects adds initial objects to the scene once its pipeline is ready.
// NewScene fails if any of them cannot be added.
//
// Parameters:
//   - objects: the objects to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithObjects(objects ...game_object.GameObject) SceneBuilderOption {
	return func(s *scene) {
		for _, obj := range objects {
			if obj != nil {
				s.pending = append(s.pending, obj)
			}
		}
	}
}

// WithWorkers sets the number of pool workers used to prepare object uniforms in DrawCalls.
// Defaults to runtime.NumCPU()-1. Values below 1 are raised to 1.
//
// Parameters:
//   - n: the number of workers
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		s.workers = max(n, 1)
	}
}

// WithCullingDisabled skips frustum culling so every enabled object is drawn.
func WithCullingDisabled(disabled bool) SceneBuilderOption {
	return func(s *scene) {
		s.cullingDisabled = disabled
	}
}

// WithPipelineKey overrides the key the shape pipeline is registered under.
// Empty keys are ignored.
func WithPipelineKey(key string) SceneBuilderOption {
	return func(s *scene) {
		if key != "" {
			s.pipelineKey = key
		}
	}
}

// WithPipelineOptions appends options to the shape pipeline, e.g. a cull mode or depth bias.
func WithPipelineOptions(opts ...pipeline.PipelineBuilderOption) SceneBuilderOption {
	return func(s *scene) {
		s.pipelineOpts = append(s.pipelineOpts, opts...)
	}
}

// WithShapeMeshes makes the scene draw from an existing mesh set instead of creating its own.
// The set must draw with the scene's pipeline key. Release leaves a borrowed set alone.
//
// Parameters:
//   - sm: the mesh set to borrow
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithShapeMeshes(sm shapes.ShapeMeshes) SceneBuilderOption {
	return func(s *scene) {
		s.shapes = sm
	}
}

// WithShapeOptions configures the mesh set the scene creates (segments, stacks, torus
// thickness, ...). Ignored when WithShapeMeshes is used.
func WithShapeOptions(opts ...shapes.ShapeMeshesBuilderOption) SceneBuilderOption {
	return func(s *scene) {
		s.shapeOpts = append(s.shapeOpts, opts...)
	}
}

// WithLogger sets the scene logger. It is also passed to the mesh set the scene creates.
// Nil loggers are ignored.
func WithLogger(logger *zap.Logger) SceneBuilderOption {
	return func(s *scene) {
		if logger != nil {
			s.logger = logger
		}
	}
}
