package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVertexSource = `
//@oxy:include vertex
//@oxy:include camera
//@oxy:include object

//@oxy:group 0 0 storage_uniform camera camera
//@oxy:group 1 0 storage_uniform object object

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) normal: vec3<f32>,
};

/* block comment with a fake entry point: @fragment fn nope() {} */
@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip = camera.view_proj * object.model * vec4<f32>(in.position, 1.0);
    out.normal = (object.normal * vec4<f32>(in.normal, 0.0)).xyz;
    return out;
}
`

const testFragmentSource = `
//@oxy:include object
//@oxy:group 1 0 storage_uniform object object

@fragment
fn fs_main(@location(0) normal: vec3<f32>) -> @location(0) vec4<f32> {
    return object.color;
}
`

func TestNewShaderVertex(t *testing.T) {
	s, err := NewShader("shape_vs", ShaderTypeVertex, testVertexSource)
	require.NoError(t, err)

	assert.Equal(t, "shape_vs", s.Key())
	assert.Equal(t, ShaderTypeVertex, s.ShaderType())
	assert.Equal(t, "vs_main", s.EntryPoint())
	assert.NotContains(t, s.Source(), "@oxy:")
	require.NotNil(t, s.Module())
	assert.Equal(t, "shape_vs", s.Module().Label)

	layouts := s.VertexLayouts()
	require.Len(t, layouts, 1, "only VertexInput is a pure vertex input struct")
	assert.Equal(t, uint64(32), layouts[0].ArrayStride)
	require.Len(t, layouts[0].Attributes, 3)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, layouts[0].Attributes[1].Format)
	assert.Equal(t, uint64(12), layouts[0].Attributes[1].Offset)
	assert.Equal(t, wgpu.VertexFormatFloat32x2, layouts[0].Attributes[2].Format)
	assert.Equal(t, uint32(2), layouts[0].Attributes[2].ShaderLocation)

	cam := s.BindGroupLayoutDescriptor(0)
	require.Len(t, cam.Entries, 1)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, cam.Entries[0].Buffer.Type)
	assert.Equal(t, uint64(80), cam.Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageVertex, cam.Entries[0].Visibility)

	obj := s.BindGroupLayoutDescriptor(1)
	require.Len(t, obj.Entries, 1)
	assert.Equal(t, uint64(144), obj.Entries[0].Buffer.MinBindingSize)

	assert.Equal(t, "camera", s.BindGroupVarName(0, 0))
	assert.Equal(t, "", s.BindGroupVarName(3, 0))

	group, ok := s.GroupOf(AnnotationArgObject)
	assert.True(t, ok)
	assert.Equal(t, 1, group)
	_, ok = s.GroupOf(AnnotationArgVertex)
	assert.False(t, ok, "include annotations are not declarations")
	assert.Len(t, s.Declarations(), 2)
}

func TestNewShaderFragment(t *testing.T) {
	s, err := NewShader("shape_fs", ShaderTypeFragment, testFragmentSource)
	require.NoError(t, err)

	assert.Equal(t, "fs_main", s.EntryPoint())
	assert.Nil(t, s.VertexLayouts())
	entries := s.BindGroupLayoutDescriptor(1).Entries
	require.Len(t, entries, 1)
	assert.Equal(t, wgpu.ShaderStageFragment, entries[0].Visibility)
}

func TestNewShaderErrors(t *testing.T) {
	tests := []struct {
		name   string
		stage  ShaderType
		source string
	}{
		{"missing entry point", ShaderTypeFragment, testVertexSource},
		{"unknown include", ShaderTypeVertex, "//@oxy:include light\n@vertex fn main() {}"},
		{"texture binding", ShaderTypeFragment, "@group(2) @binding(0) var tex: texture_2d<f32>;\n@fragment fn main() {}"},
		{"bad group index", ShaderTypeVertex, "//@oxy:group x 0 storage_uniform camera camera\n@vertex fn main() {}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewShader("bad", tt.stage, tt.source)
			assert.Error(t, err)
		})
	}

	_, err := NewShader("bad", ShaderTypeFragment, testVertexSource)
	assert.ErrorIs(t, err, ErrNoEntryPoint)
}

func TestSharedPreProcessorKeepsPerShaderDeclarations(t *testing.T) {
	pp := NewPreProcessor()
	vs, err := NewShader("vs", ShaderTypeVertex, testVertexSource, WithPreProcessor(pp))
	require.NoError(t, err)
	_, err = NewShader("fs", ShaderTypeFragment, testFragmentSource, WithPreProcessor(pp))
	require.NoError(t, err)

	assert.Len(t, vs.Declarations(), 2)
}

func TestShaderTypeString(t *testing.T) {
	assert.Equal(t, "vertex", ShaderTypeVertex.String())
	assert.Equal(t, "fragment", ShaderTypeFragment.String())
	assert.Equal(t, "ShaderType(7)", ShaderType(7).String())
}
