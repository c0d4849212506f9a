// Package shader loads WGSL sources, expands the @oxy: annotations that inject the engine's
// shared struct definitions, and reflects the pieces the renderer needs to build a pipeline:
// entry points, vertex buffer layouts and bind group layouts.
//
// Annotations are single-line WGSL comments:
//
//	//@oxy:include <struct>
//	//@oxy:group <group> <binding> <address_space> <var_name> <struct>
//
// include pastes the struct definition at the annotation site. group emits the matching
// @group/@binding declaration and records it so callers can look bindings up by struct.
package shader

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// annotationPrefix marks an annotation inside a WGSL line comment.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// AnnotationTypeInclude injects a registered struct definition. It produces no declaration.
	AnnotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup generates a @group/@binding variable and is recorded as a declaration.
	AnnotationTypeBindingGroup AnnotationType = "group"
)

// Annotation is one parsed @oxy: line.
type Annotation struct {
	// Type identifies which annotation was parsed.
	Type AnnotationType

	// Args holds the annotation's arguments:
	//   - include: [0] = struct key
	//   - group:   [0] = address space, [1] = var name, [2] = struct key
	Args []AnnotationArg

	// Line is the 1-based source line, used in error messages.
	Line int

	// Group and Binding are set for group annotations only.
	Group   *int
	Binding *int
}

// StructKey returns the struct argument of the annotation, or "" when it has none.
//
// Returns:
//   - AnnotationArg: the registered struct key referenced by the annotation
func (a Annotation) StructKey() AnnotationArg {
	switch a.Type {
	case AnnotationTypeInclude:
		return a.Args[0]
	case AnnotationTypeBindingGroup:
		return a.Args[2]
	default:
		return ""
	}
}

// AnnotationArg is an annotation argument: either a struct key or an address space.
type AnnotationArg string

// Struct keys. Each maps to a WGSL struct embedded next to the Go type that fills it.
const (
	// AnnotationArgCamera is the CameraUniform struct (view-projection matrix and eye position).
	AnnotationArgCamera AnnotationArg = "camera"

	// AnnotationArgVertex is the VertexInput struct shared by every shape mesh.
	AnnotationArgVertex AnnotationArg = "vertex"

	// AnnotationArgObject is the ObjectUniform struct (model matrix, normal matrix, color).
	AnnotationArgObject AnnotationArg = "object"
)

// Address spaces accepted by group annotations.
const (
	annotationArgStorageTypeUniform   AnnotationArg = "storage_uniform"
	annotationArgStorageTypeRead      AnnotationArg = "storage_read"
	annotationArgStorageTypeReadWrite AnnotationArg = "storage_read_write"
)

var addressSpaces = map[AnnotationArg]string{
	annotationArgStorageTypeUniform:   "var<uniform>",
	annotationArgStorageTypeRead:      "var<storage, read>",
	annotationArgStorageTypeReadWrite: "var<storage, read_write>",
}

// parseAnnotation parses one WGSL line. Lines without the prefix return (nil, nil).
// Struct keys are checked against known, the keys registered with the pre-processor.
//
// Parameters:
//   - line: the raw WGSL source line
//   - lineNum: the 1-based line number for error reporting
//   - known: registered struct keys
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error for malformed annotations
func parseAnnotation(line string, lineNum int, known []AnnotationArg) (*Annotation, error) {
	_, after, ok := strings.Cut(strings.TrimSpace(line), annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}

	switch AnnotationType(args[0]) {
	case AnnotationTypeInclude:
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy:include takes exactly one struct key", lineNum)
		}
		if !slices.Contains(known, AnnotationArg(args[1])) {
			return nil, fmt.Errorf("line %d: unknown struct %q in @oxy:include", lineNum, args[1])
		}
		return &Annotation{
			Type: AnnotationTypeInclude,
			Args: []AnnotationArg{AnnotationArg(args[1])},
			Line: lineNum,
		}, nil

	case AnnotationTypeBindingGroup:
		if len(args) != 6 {
			return nil, fmt.Errorf("line %d: @oxy:group takes group, binding, address space, var name and struct key", lineNum)
		}
		group, err := strconv.Atoi(args[1])
		if err != nil || group < 0 {
			return nil, fmt.Errorf("line %d: invalid group %q in @oxy:group", lineNum, args[1])
		}
		binding, err := strconv.Atoi(args[2])
		if err != nil || binding < 0 {
			return nil, fmt.Errorf("line %d: invalid binding %q in @oxy:group", lineNum, args[2])
		}
		if _, ok := addressSpaces[AnnotationArg(args[3])]; !ok {
			return nil, fmt.Errorf("line %d: unknown address space %q in @oxy:group", lineNum, args[3])
		}
		if !slices.Contains(known, AnnotationArg(args[5])) {
			return nil, fmt.Errorf("line %d: unknown struct %q in @oxy:group", lineNum, args[5])
		}
		return &Annotation{
			Type:    AnnotationTypeBindingGroup,
			Args:    []AnnotationArg{AnnotationArg(args[3]), AnnotationArg(args[4]), AnnotationArg(args[5])},
			Line:    lineNum,
			Group:   &group,
			Binding: &binding,
		}, nil

	default:
		return nil, fmt.Errorf("line %d: unknown @oxy annotation %q", lineNum, args[0])
	}
}
