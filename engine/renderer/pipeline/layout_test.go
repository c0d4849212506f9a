package pipeline

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformEntry(binding uint32, stage wgpu.ShaderStage) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: stage,
		Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform, MinBindingSize: 16},
	}
}

func TestMergeBindGroupLayouts(t *testing.T) {
	vs := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Entries: []wgpu.BindGroupLayoutEntry{uniformEntry(0, wgpu.ShaderStageVertex)}},
		1: {Entries: []wgpu.BindGroupLayoutEntry{uniformEntry(0, wgpu.ShaderStageVertex)}},
	}
	fs := map[int]wgpu.BindGroupLayoutDescriptor{
		1: {Entries: []wgpu.BindGroupLayoutEntry{
			uniformEntry(2, wgpu.ShaderStageFragment),
			uniformEntry(0, wgpu.ShaderStageFragment),
		}},
		3: {Entries: []wgpu.BindGroupLayoutEntry{uniformEntry(0, wgpu.ShaderStageFragment)}},
	}

	merged := mergeBindGroupLayouts(vs, fs)
	require.Len(t, merged, 3)

	assert.Equal(t, wgpu.ShaderStageVertex, merged[0].Entries[0].Visibility)

	g1 := merged[1].Entries
	require.Len(t, g1, 2)
	assert.Equal(t, uint32(0), g1[0].Binding)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, g1[0].Visibility)
	assert.Equal(t, uint32(2), g1[1].Binding)
	assert.Equal(t, wgpu.ShaderStageFragment, g1[1].Visibility)

	assert.Equal(t, 3, MaxGroup(merged))
	assert.Equal(t, -1, MaxGroup(nil))
}

func TestBindGroupLayoutOutOfRange(t *testing.T) {
	p := NewPipeline("shapes")
	assert.Nil(t, p.BindGroupLayout(-1))
	assert.Nil(t, p.BindGroupLayout(4))
	assert.Empty(t, p.BindGroupLayoutDescriptors())
}
