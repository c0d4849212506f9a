package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithSharedBindGroupLayout makes the provider use a layout owned by someone else, typically a
// pipeline whose objects all bind the same group. Release does not free a shared layout.
//
// Parameters:
//   - bgl: the layout to create this provider's bind group with
//
// Returns:
//   - BindGroupProviderOption: option setting the shared layout
func WithSharedBindGroupLayout(bgl *wgpu.BindGroupLayout) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.bindGroupLayout = bgl
		p.sharedLayout = bgl != nil
	}
}

// WithBuffer pre-assigns a buffer to a binding index. Renderer.InitBindGroup keeps
// pre-assigned buffers instead of allocating new ones.
//
// Parameters:
//   - binding: the binding index for this buffer
//   - buf: the buffer to associate with this binding
//
// Returns:
//   - BindGroupProviderOption: option setting the buffer
func WithBuffer(binding int, buf *wgpu.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.buffers[binding] = buf
	}
}
