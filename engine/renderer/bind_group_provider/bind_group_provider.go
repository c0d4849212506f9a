package bind_group_provider

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label names the GPU objects created for this provider.
	label string

	// The following fields are GPU resources populated by the Renderer, never by the caller.

	// bindGroup is nil until the Renderer initializes this provider as a bind group.
	bindGroup *wgpu.BindGroup
	// bindGroupLayout is created by the Renderer unless a shared layout was passed in.
	bindGroupLayout *wgpu.BindGroupLayout
	// sharedLayout marks bindGroupLayout as borrowed; Release leaves it alone.
	sharedLayout bool
	// buffers holds the uniform/storage buffers keyed by binding index.
	buffers map[int]*wgpu.Buffer

	// The following fields are used by mesh providers.

	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	indexCount   uint32

	released bool
}

// BindGroupProvider holds the GPU resources of one drawable piece of state. A provider is used
// either as a mesh (vertex/index buffer pair) or as a bind group (uniform buffers plus the
// bind group that exposes them). The Renderer creates and fills the resources; the owner frees
// them once with Release.
//
// Usage pattern:
//  1. The owner creates a provider with NewBindGroupProvider and a descriptive label
//  2. Renderer.InitMeshBuffers or Renderer.InitBindGroup allocates the GPU side
//  3. Renderer.WriteBuffers updates uniform contents each frame
//  4. Draw calls read VertexBuffer/IndexBuffer or BindGroup
//  5. The owner calls Release at shutdown
type BindGroupProvider interface {
	// Release frees every GPU resource owned by the provider. Calling it again is a no-op.
	Release()

	// Released reports whether Release has been called.
	Released() bool

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// BindGroup returns the bind group for shader binding, or nil before initialization.
	BindGroup() *wgpu.BindGroup

	// BindGroupLayout returns the layout the bind group was created with, or nil.
	BindGroupLayout() *wgpu.BindGroupLayout

	// Buffer returns the buffer bound at a binding index, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(binding int) *wgpu.Buffer

	// Buffers returns every buffer keyed by binding index.
	Buffers() map[int]*wgpu.Buffer

	// VertexBuffer returns the mesh vertex buffer, or nil.
	VertexBuffer() *wgpu.Buffer

	// IndexBuffer returns the mesh index buffer, or nil.
	IndexBuffer() *wgpu.Buffer

	// IndexCount returns the number of indices in the index buffer.
	IndexCount() uint32

	// HasMesh reports whether both mesh buffers are present.
	HasMesh() bool

	// SetBindGroup stores the bind group created by Renderer.InitBindGroup.
	SetBindGroup(bg *wgpu.BindGroup)

	// SetBindGroupLayout stores a layout created by Renderer.InitBindGroup. The provider owns it.
	SetBindGroupLayout(bgl *wgpu.BindGroupLayout)

	// SetSharedBindGroupLayout stores a layout owned elsewhere. Release leaves it alone.
	// It must be called before Renderer.InitBindGroup to take effect.
	SetSharedBindGroupLayout(bgl *wgpu.BindGroupLayout)

	// SetBuffer stores the buffer created for a binding index.
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the created buffer
	SetBuffer(binding int, buf *wgpu.Buffer)

	// SetVertexBuffer stores the vertex buffer created by Renderer.InitMeshBuffers.
	SetVertexBuffer(buf *wgpu.Buffer)

	// SetIndexBuffer stores the index buffer created by Renderer.InitMeshBuffers.
	//
	// Parameters:
	//   - buf: the created index buffer
	//   - indexCount: the number of uint32 indices it holds
	SetIndexBuffer(buf *wgpu.Buffer, indexCount uint32)
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates an empty provider. GPU resources are added by the Renderer.
//
// Parameters:
//   - label: debug label used for the GPU objects created for this provider
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new provider
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:   label,
		buffers: make(map[int]*wgpu.Buffer),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) Released() bool {
	return p.released
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.bindGroupLayout
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) Buffers() map[int]*wgpu.Buffer {
	return p.buffers
}

func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer {
	return p.vertexBuffer
}

func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer {
	return p.indexBuffer
}

func (p *bindGroupProvider) IndexCount() uint32 {
	return p.indexCount
}

func (p *bindGroupProvider) HasMesh() bool {
	return p.vertexBuffer != nil && p.indexBuffer != nil
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBindGroupLayout(bgl *wgpu.BindGroupLayout) {
	p.bindGroupLayout = bgl
	p.sharedLayout = false
}

func (p *bindGroupProvider) SetSharedBindGroupLayout(bgl *wgpu.BindGroupLayout) {
	p.bindGroupLayout = bgl
	p.sharedLayout = bgl != nil
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	if p.buffers == nil {
		p.buffers = make(map[int]*wgpu.Buffer)
	}
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) SetVertexBuffer(buf *wgpu.Buffer) {
	p.vertexBuffer = buf
}

func (p *bindGroupProvider) SetIndexBuffer(buf *wgpu.Buffer, indexCount uint32) {
	p.indexBuffer = buf
	p.indexCount = indexCount
}

func (p *bindGroupProvider) Release() {
	if p.released {
		return
	}
	p.released = true

	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.bindGroupLayout != nil && !p.sharedLayout {
		p.bindGroupLayout.Release()
	}
	p.bindGroupLayout = nil
	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
		p.vertexBuffer = nil
	}
	if p.indexBuffer != nil {
		p.indexBuffer.Release()
		p.indexBuffer = nil
	}
	p.indexCount = 0
}
