package shader

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader module feeds.
type ShaderType int

const (
	// ShaderTypeVertex is a module with a @vertex entry point.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is a module with a @fragment entry point.
	ShaderTypeFragment
)

// String returns the WGSL attribute name of the stage.
func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderType(%d)", int(t))
	}
}

// ErrNoEntryPoint is returned when the source has no entry point for the requested stage.
var ErrNoEntryPoint = errors.New("shader: no entry point for stage")

// shader is the implementation of the Shader interface.
type shader struct {
	key                        string
	source                     string
	shaderType                 ShaderType
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	vertexLayouts              []wgpu.VertexBufferLayout
	entryPoint                 string
	module                     *wgpu.ShaderModuleDescriptor
	declarations               []Annotation

	pp PreProcessor
}

// Shader is a pre-processed and reflected WGSL module for one pipeline stage.
type Shader interface {
	// Key retrieves the unique identifier for this shader.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the expanded WGSL source, after annotation processing.
	//
	// Returns:
	//   - string: the WGSL source code
	Source() string

	// ShaderType returns the stage this shader was loaded for.
	ShaderType() ShaderType

	// EntryPoint returns the name of the stage's entry point function.
	EntryPoint() string

	// Module returns the descriptor used to create the GPU shader module.
	Module() *wgpu.ShaderModuleDescriptor

	// VertexLayouts returns the vertex buffer layouts reflected from the vertex input structs,
	// in declaration order. Fragment shaders return nil.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: one layout per vertex buffer slot
	VertexLayouts() []wgpu.VertexBufferLayout

	// BindGroupLayoutDescriptor retrieves the reflected layout of one bind group.
	//
	// Parameters:
	//   - group: the @group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the layout, or an empty descriptor if the group is unused
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors retrieves every reflected bind group layout keyed by group index.
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName retrieves the WGSL variable bound at group and binding.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name, or "" if nothing is bound there
	BindGroupVarName(group, binding int) string

	// Declarations returns the @oxy:group annotations found in the source.
	Declarations() []Annotation

	// GroupOf returns the bind group index an @oxy:group annotation assigned to a struct.
	//
	// Parameters:
	//   - key: the struct key, e.g. AnnotationArgCamera
	//
	// Returns:
	//   - int: the group index
	//   - bool: false if no group annotation referenced the struct
	GroupOf(key AnnotationArg) (int, bool)
}

var _ Shader = &shader{}

// NewShader pre-processes and reflects a WGSL source for one stage.
//
// Parameters:
//   - key: a unique identifier for the shader, also used as the module label
//   - shaderType: the stage the source provides an entry point for
//   - source: the raw WGSL source, annotations included
//   - opts: a variadic list of ShaderBuilderOption functions
//
// Returns:
//   - Shader: the processed shader
//   - error: annotation errors, unsupported bindings, or a missing entry point
func NewShader(key string, shaderType ShaderType, source string, opts ...ShaderBuilderOption) (Shader, error) {
	s := &shader{
		key:        key,
		shaderType: shaderType,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.pp == nil {
		s.pp = NewPreProcessor()
	}

	var err error
	s.source, err = s.pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("shader %s: pre-process: %w", key, err)
	}
	s.declarations = append([]Annotation(nil), s.pp.Declarations()...)

	s.entryPoint = parseEntryPoint(s.source, shaderType)
	if s.entryPoint == "" {
		return nil, fmt.Errorf("shader %s: %w %s", key, ErrNoEntryPoint, shaderType)
	}

	visibility := wgpu.ShaderStageFragment
	if shaderType == ShaderTypeVertex {
		visibility = wgpu.ShaderStageVertex
		s.vertexLayouts = parseVertexLayouts(s.source)
	}
	s.bindGroupLayoutDescriptors, s.bindingVarNames, err = parseBindGroupLayouts(s.source, visibility)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}

	s.module = &wgpu.ShaderModuleDescriptor{
		Label: key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupVarName(group, binding int) string {
	return s.bindingVarNames[group][binding]
}

func (s *shader) Declarations() []Annotation {
	return s.declarations
}

func (s *shader) GroupOf(key AnnotationArg) (int, bool) {
	for _, d := range s.declarations {
		if d.StructKey() == key {
			return *d.Group, true
		}
	}
	return -1, false
}
