package shader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Carmen-Shannon/oxy-shapes/engine/camera"
	"github.com/Carmen-Shannon/oxy-shapes/engine/game_object"
	"github.com/Carmen-Shannon/oxy-shapes/engine/mesh"
)

// registryEntry pairs an embedded WGSL struct definition with its WGSL type name.
type registryEntry struct {
	// Source is injected by @oxy:include.
	Source string

	// Type is the type name emitted in @oxy:group declarations.
	Type string
}

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	structRegistry map[AnnotationArg]registryEntry
	declarations   []Annotation
}

// PreProcessor expands @oxy: annotations in WGSL source and records the bindings it declared.
type PreProcessor interface {
	// Process expands every annotation in source. include lines are replaced by the struct
	// definition, group lines by a @group/@binding declaration. The declarations list is reset
	// on every call.
	//
	// Parameters:
	//   - source: the raw WGSL source
	//
	// Returns:
	//   - string: the expanded WGSL source
	//   - error: an error naming the line of the first malformed annotation
	Process(source string) (string, error)

	// Declarations returns the group annotations found by the last Process call, in source order.
	Declarations() []Annotation

	// Register adds or replaces a struct definition available to include and group annotations.
	//
	// Parameters:
	//   - key: the annotation argument naming the struct
	//   - source: the WGSL struct definition
	//   - typeName: the WGSL type name declared by source
	Register(key AnnotationArg, source, typeName string)
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with the camera, vertex and object structs registered.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		structRegistry: map[AnnotationArg]registryEntry{
			AnnotationArgCamera: {Source: camera.GPUCameraUniformSource, Type: "CameraUniform"},
			AnnotationArgVertex: {Source: mesh.GPUVertexSource, Type: "VertexInput"},
			AnnotationArgObject: {Source: game_object.GPUObjectUniformSource, Type: "ObjectUniform"},
		},
	}
}

func (p *preProcessor) Register(key AnnotationArg, source, typeName string) {
	p.structRegistry[key] = registryEntry{Source: source, Type: typeName}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = p.declarations[:0]
	known := p.knownStructs()

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		a, err := parseAnnotation(line, i+1, known)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		entry := p.structRegistry[a.StructKey()]
		switch a.Type {
		case AnnotationTypeInclude:
			out = append(out, entry.Source)
		case AnnotationTypeBindingGroup:
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;",
				*a.Group, *a.Binding, addressSpaces[a.Args[0]], a.Args[1], entry.Type))
			p.declarations = append(p.declarations, *a)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}

func (p *preProcessor) knownStructs() []AnnotationArg {
	keys := make([]AnnotationArg, 0, len(p.structRegistry))
	for k := range p.structRegistry {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
