package shapes

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-shapes/engine/mesh"
)

// Kind identifies one of the built-in shape templates.
type Kind int

const (
	KindBox Kind = iota
	KindBox2
	KindCone
	KindCylinder
	KindPlane
	KindPrism
	KindPyramid3
	KindPyramid4
	KindSphere
	KindTaperedCylinder
	KindTorus
	KindZig
	KindRamp
	KindTestZig

	kindCount
)

var kindNames = [kindCount]string{
	KindBox:             "box",
	KindBox2:            "box2",
	KindCone:            "cone",
	KindCylinder:        "cylinder",
	KindPlane:           "plane",
	KindPrism:           "prism",
	KindPyramid3:        "pyramid3",
	KindPyramid4:        "pyramid4",
	KindSphere:          "sphere",
	KindTaperedCylinder: "tapered_cylinder",
	KindTorus:           "torus",
	KindZig:             "zig",
	KindRamp:            "ramp",
	KindTestZig:         "testzig",
}

// String returns the lower-case name used in layout files and on the command line.
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Valid reports whether k names a built-in shape.
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

// ParseKind resolves a shape name. Matching ignores case, and '-' is accepted for '_'.
//
// Parameters:
//   - s: the shape name, e.g. "tapered_cylinder"
//
// Returns:
//   - Kind: the matching kind
//   - error: ErrUnknownKind when no shape has that name
func ParseKind(s string) (Kind, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Kinds returns every built-in kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, kindCount)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// Generate builds the CPU mesh of a kind. Options that do not apply to the kind are ignored.
//
// Parameters:
//   - kind: the shape to generate
//   - options: tessellation and shape parameters
//
// Returns:
//   - *mesh.Mesh: the validated mesh
//   - error: ErrUnknownKind, or mesh.ErrInvalidMesh if the generated data is inconsistent
func Generate(kind Kind, options ...mesh.GeneratorOption) (*mesh.Mesh, error) {
	var m *mesh.Mesh
	switch kind {
	case KindBox:
		m = mesh.NewBox()
	case KindBox2:
		m = mesh.NewBox2()
	case KindCone:
		m = mesh.NewCone(options...)
	case KindCylinder:
		m = mesh.NewCylinder(options...)
	case KindPlane:
		m = mesh.NewPlane()
	case KindPrism:
		m = mesh.NewPrism()
	case KindPyramid3:
		m = mesh.NewPyramid3()
	case KindPyramid4:
		m = mesh.NewPyramid4()
	case KindSphere:
		m = mesh.NewSphere(options...)
	case KindTaperedCylinder:
		m = mesh.NewTaperedCylinder(options...)
	case KindTorus:
		m = mesh.NewTorus(options...)
	case KindZig:
		m = mesh.NewZig(options...)
	case KindRamp:
		m = mesh.NewRamp()
	case KindTestZig:
		m = mesh.NewTestZig(options...)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("generate %s: %w", kind, err)
	}
	return m, nil
}

// Parts selects which pieces of a shape a draw covers.
//
// Top, Bottom and Sides apply to the capped shapes (cylinder, tapered cylinder, zig, test zig);
// the cone always draws its sides and uses Bottom for its base. Half draws only the upper half
// of a sphere or torus. Other shapes are always drawn whole.
type Parts struct {
	Top    bool `yaml:"top" toml:"top"`
	Bottom bool `yaml:"bottom" toml:"bottom"`
	Sides  bool `yaml:"sides" toml:"sides"`
	Half   bool `yaml:"half" toml:"half"`
}

// AllParts draws every piece of a shape.
var AllParts = Parts{Top: true, Bottom: true, Sides: true}
