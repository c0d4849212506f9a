package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBindGroupProviderKeepsLabel(t *testing.T) {
	p := NewBindGroupProvider("mesh:box")
	assert.Equal(t, "mesh:box", p.Label())
	assert.NotNil(t, p.Buffers())
	assert.False(t, p.HasMesh())
	assert.False(t, p.Released())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.Buffer(0))
}

func TestSetBuffersWithoutGPU(t *testing.T) {
	p := NewBindGroupProvider("object", WithBuffer(0, nil))
	_, ok := p.Buffers()[0]
	assert.True(t, ok, "pre-assigned binding is tracked")

	p.SetVertexBuffer(nil)
	p.SetIndexBuffer(nil, 36)
	assert.Equal(t, uint32(36), p.IndexCount())
	assert.False(t, p.HasMesh(), "counts alone are not a mesh")
}

func TestReleaseIsIdempotent(t *testing.T) {
	p := NewBindGroupProvider("camera", WithSharedBindGroupLayout(nil))
	p.SetIndexBuffer(nil, 12)

	assert.NotPanics(t, func() {
		p.Release()
		p.Release()
	})
	assert.True(t, p.Released())
	assert.Equal(t, uint32(0), p.IndexCount())
	assert.Empty(t, p.Buffers())
}
