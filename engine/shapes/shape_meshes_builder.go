package shapes

import "go.uber.org/zap"

// ShapeMeshesBuilderOption is a functional option used to configure ShapeMeshes.
type ShapeMeshesBuilderOption func(*shapeMeshes)

// WithPipelineKey sets the render pipeline used by every draw.
//
// Parameters:
//   - key: a pipeline key registered with the renderer
//
// Returns:
//   - ShapeMeshesBuilderOption: a function that sets the pipeline key
func WithPipelineKey(key string) ShapeMeshesBuilderOption {
	return func(s *shapeMeshes) {
		if key != "" {
			s.pipelineKey = key
		}
	}
}

// WithSegments sets the radial slice count of the round shapes.
func WithSegments(n int) ShapeMeshesBuilderOption {
	return func(s *shapeMeshes) {
		s.segments = n
	}
}

// WithStacks sets the sphere stack count and torus tube resolution.
func WithStacks(n int) ShapeMeshesBuilderOption {
	return func(s *shapeMeshes) {
		s.stacks = n
	}
}

// WithThickness sets the torus tube radius used by Load and LoadAll.
func WithThickness(t float32) ShapeMeshesBuilderOption {
	return func(s *shapeMeshes) {
		s.thickness = t
	}
}

// WithTopRadius sets the top radius of the tapered cylinder.
func WithTopRadius(r float32) ShapeMeshesBuilderOption {
	return func(s *shapeMeshes) {
		s.topRadius = r
	}
}

// WithTopScale sets the zig's top square size relative to its base.
func WithTopScale(scale float32) ShapeMeshesBuilderOption {
	return func(s *shapeMeshes) {
		s.topScale = scale
	}
}

// WithTiers sets the tier count of the test zig.
func WithTiers(n int) ShapeMeshesBuilderOption {
	return func(s *shapeMeshes) {
		s.tiers = n
	}
}

// WithWorkers sets the size of the worker pool LoadAll generates meshes on.
//
// Parameters:
//   - n: the worker count, values below 1 keep the default of NumCPU-1
//
// Returns:
//   - ShapeMeshesBuilderOption: a function that sets the worker count
func WithWorkers(n int) ShapeMeshesBuilderOption {
	return func(s *shapeMeshes) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithLogger sets the logger for load and release events.
func WithLogger(logger *zap.Logger) ShapeMeshesBuilderOption {
	return func(s *shapeMeshes) {
		if logger != nil {
			s.logger = logger
		}
	}
}
