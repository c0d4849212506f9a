package shader

// ShaderBuilderOption is a functional option used to configure a Shader during construction.
type ShaderBuilderOption func(*shader)

// WithPreProcessor replaces the default pre-processor, typically one with extra structs registered.
//
// Parameters:
//   - pp: the pre-processor used to expand annotations
//
// Returns:
//   - ShaderBuilderOption: option setting the pre-processor
func WithPreProcessor(pp PreProcessor) ShaderBuilderOption {
	return func(s *shader) {
		s.pp = pp
	}
}
