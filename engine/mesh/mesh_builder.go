package mesh

// Generator defaults and lower bounds.
const (
	DefaultSegments  = 36
	DefaultStacks    = 18
	DefaultThickness = 0.2
	DefaultTopRadius = 0.5
	DefaultTopScale  = 0.5
	DefaultTiers     = 3

	MinSegments = 3
	MinStacks   = 2
	MaxTiers    = 16
)

// generatorConfig holds the resolved tessellation and shape parameters for a generator call.
type generatorConfig struct {
	segments  int
	stacks    int
	thickness float32
	topRadius float32
	topScale  float32
	tiers     int
}

// GeneratorOption is a functional option used to configure a shape generator.
type GeneratorOption func(*generatorConfig)

// WithSegments sets the number of radial slices for round shapes (cone, cylinders, sphere, torus).
// Values below MinSegments are raised to MinSegments.
//
// Parameters:
//   - n: the number of slices around the axis
//
// Returns:
//   - GeneratorOption: a function that sets the segment count
func WithSegments(n int) GeneratorOption {
	return func(c *generatorConfig) {
		c.segments = n
	}
}

// WithStacks sets the number of latitude stacks of the sphere and the tube resolution of the torus.
// The value is raised to MinStacks and rounded up to an even number so the upper half
// ends on a stack boundary.
//
// Parameters:
//   - n: the number of stacks
//
// Returns:
//   - GeneratorOption: a function that sets the stack count
func WithStacks(n int) GeneratorOption {
	return func(c *generatorConfig) {
		c.stacks = n
	}
}

// WithThickness sets the torus tube radius relative to a major radius of 1.
// The value is clamped to [0.01, 0.99].
//
// Parameters:
//   - t: the tube radius
//
// Returns:
//   - GeneratorOption: a function that sets the torus thickness
func WithThickness(t float32) GeneratorOption {
	return func(c *generatorConfig) {
		c.thickness = t
	}
}

// WithTopRadius sets the top radius of the tapered cylinder (bottom radius is 1).
// Negative values are treated as 0.
//
// Parameters:
//   - r: the top radius
//
// Returns:
//   - GeneratorOption: a function that sets the top radius
func WithTopRadius(r float32) GeneratorOption {
	return func(c *generatorConfig) {
		c.topRadius = r
	}
}

// WithTopScale sets the size of the zig's top square relative to its base, clamped to [0, 1].
//
// Parameters:
//   - s: the top scale factor
//
// Returns:
//   - GeneratorOption: a function that sets the top scale
func WithTopScale(s float32) GeneratorOption {
	return func(c *generatorConfig) {
		c.topScale = s
	}
}

// WithTiers sets the number of stacked tiers of the test zig, clamped to [1, MaxTiers].
//
// Parameters:
//   - n: the tier count
//
// Returns:
//   - GeneratorOption: a function that sets the tier count
func WithTiers(n int) GeneratorOption {
	return func(c *generatorConfig) {
		c.tiers = n
	}
}

// newGeneratorConfig applies options over the defaults and clamps every value into its valid range.
func newGeneratorConfig(options ...GeneratorOption) generatorConfig {
	c := generatorConfig{
		segments:  DefaultSegments,
		stacks:    DefaultStacks,
		thickness: DefaultThickness,
		topRadius: DefaultTopRadius,
		topScale:  DefaultTopScale,
		tiers:     DefaultTiers,
	}
	for _, opt := range options {
		opt(&c)
	}

	c.segments = max(c.segments, MinSegments)
	c.stacks = max(c.stacks, MinStacks)
	if c.stacks%2 != 0 {
		c.stacks++
	}
	c.thickness = min(max(c.thickness, 0.01), 0.99)
	c.topRadius = max(c.topRadius, 0)
	c.topScale = min(max(c.topScale, 0), 1)
	c.tiers = min(max(c.tiers, 1), MaxTiers)
	return c
}
