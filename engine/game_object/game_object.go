package game_object

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-shapes/common"
	"github.com/Carmen-Shannon/oxy-shapes/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-shapes/engine/shapes"
	"github.com/chewxy/math32"
)

// objectCount numbers the bind group providers of objects created without one.
var objectCount atomic.Uint64

type gameObject struct {
	mu *sync.Mutex

	id      uint64
	name    string
	enabled atomic.Bool

	kind  shapes.Kind
	parts shapes.Parts
	color [4]float32

	position      [3]float32
	rotation      [3]float32
	scale         [3]float32
	rotationSpeed [3]float32

	bindGroupProvider bind_group_provider.BindGroupProvider
}

// GameObject is one shape instance in a scene: which shape and parts to draw, where, and in
// what color. Its bind group provider holds the per-object uniform buffer.
type GameObject interface {
	// ID returns the identifier assigned by the scene, 0 before the object is added.
	ID() uint64

	// Name returns the object's display name.
	Name() string

	// Enabled reports whether the object is drawn.
	Enabled() bool

	// Kind returns the shape the object draws.
	Kind() shapes.Kind

	// Parts returns the shape parts the object draws.
	Parts() shapes.Parts

	// Color returns the RGBA color.
	Color() [4]float32

	// Position returns the world-space position.
	//
	// Returns:
	//   - x, y, z: position components
	Position() (x, y, z float32)

	// Rotation returns the Euler rotation in radians, applied X then Y then Z.
	//
	// Returns:
	//   - rx, ry, rz: rotation angles
	Rotation() (rx, ry, rz float32)

	// RotationSpeed returns the rotation rate in radians per second applied by Update.
	//
	// Returns:
	//   - rx, ry, rz: rotation speed values
	RotationSpeed() (rx, ry, rz float32)

	// Scale returns the per-axis scale applied to the unit shape.
	//
	// Returns:
	//   - sx, sy, sz: scale components
	Scale() (sx, sy, sz float32)

	// TransformData reads the whole transform under one lock.
	//
	// Returns:
	//   - pos: position
	//   - scale: scale
	//   - rot: rotation
	//   - rotSpeed: rotation speed
	TransformData() (pos, scale, rot, rotSpeed [3]float32)

	// Update advances the rotation by RotationSpeed * dt. Angles are kept within (-2Pi, 2Pi).
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Update(dt float32)

	// Uniform builds the model matrix, normal matrix and color for the GPU.
	//
	// Returns:
	//   - GPUObjectUniform: the uniform ready to marshal
	Uniform() GPUObjectUniform

	// BoundingSphere returns the world-space bounding sphere for a unit shape of the given
	// local radius. The radius is scaled by the largest scale component.
	//
	// Parameters:
	//   - localRadius: the bounding radius of the shape template
	//
	// Returns:
	//   - center: the world-space center
	//   - radius: the world-space radius
	BoundingSphere(localRadius float32) (center [3]float32, radius float32)

	// BindGroupProvider returns the provider holding the object's uniform buffer.
	BindGroupProvider() bind_group_provider.BindGroupProvider

	SetID(id uint64)
	SetName(name string)
	SetEnabled(enabled bool)
	SetKind(kind shapes.Kind)
	SetParts(parts shapes.Parts)
	SetColor(r, g, b, a float32)
	SetPosition(x, y, z float32)
	SetRotation(rx, ry, rz float32)
	SetRotationSpeed(rx, ry, rz float32)
	SetScale(sx, sy, sz float32)

	// Release frees the object's GPU buffers.
	Release()
}

var _ GameObject = &gameObject{}

// NewGameObject creates an enabled, white, unit-scale box at the origin unless options say
// otherwise.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		mu:    &sync.Mutex{},
		kind:  shapes.KindBox,
		parts: shapes.AllParts,
		color: [4]float32{1, 1, 1, 1},
		scale: [3]float32{1, 1, 1},
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	if obj.name == "" {
		obj.name = obj.kind.String()
	}
	if obj.bindGroupProvider == nil {
		obj.bindGroupProvider = bind_group_provider.NewBindGroupProvider(
			"object_" + strconv.FormatUint(objectCount.Add(1)-1, 10),
		)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.id
}

func (g *gameObject) Name() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.name
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) Kind() shapes.Kind {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.kind
}

func (g *gameObject) Parts() shapes.Parts {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.parts
}

func (g *gameObject) Color() [4]float32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.color
}

func (g *gameObject) Position() (x, y, z float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.position[0], g.position[1], g.position[2]
}

func (g *gameObject) Rotation() (rx, ry, rz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rotation[0], g.rotation[1], g.rotation[2]
}

func (g *gameObject) RotationSpeed() (rx, ry, rz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rotationSpeed[0], g.rotationSpeed[1], g.rotationSpeed[2]
}

func (g *gameObject) Scale() (sx, sy, sz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scale[0], g.scale[1], g.scale[2]
}

func (g *gameObject) TransformData() (pos, scale, rot, rotSpeed [3]float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.position, g.scale, g.rotation, g.rotationSpeed
}

func (g *gameObject) Update(dt float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.rotation {
		g.rotation[i] = math32.Mod(g.rotation[i]+g.rotationSpeed[i]*dt, 2*math32.Pi)
	}
}

func (g *gameObject) Uniform() GPUObjectUniform {
	g.mu.Lock()
	pos, rot, scale, color := g.position, g.rotation, g.scale, g.color
	g.mu.Unlock()

	var u GPUObjectUniform
	common.BuildModelMatrix(u.Model[:], pos, rot, scale)
	common.NormalMatrix(u.Normal[:], u.Model[:])
	u.Color = color
	return u
}

func (g *gameObject) BoundingSphere(localRadius float32) (center [3]float32, radius float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s := max(math32.Abs(g.scale[0]), math32.Abs(g.scale[1]), math32.Abs(g.scale[2]))
	return g.position, localRadius * s
}

func (g *gameObject) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return g.bindGroupProvider
}

func (g *gameObject) SetID(id uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.id = id
}

func (g *gameObject) SetName(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.name = name
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) SetKind(kind shapes.Kind) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.kind = kind
}

func (g *gameObject) SetParts(parts shapes.Parts) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.parts = parts
}

func (g *gameObject) SetColor(r, gr, b, a float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.color = [4]float32{r, gr, b, a}
}

func (g *gameObject) SetPosition(x, y, z float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.position = [3]float32{x, y, z}
}

func (g *gameObject) SetRotation(rx, ry, rz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotation = [3]float32{rx, ry, rz}
}

func (g *gameObject) SetRotationSpeed(rx, ry, rz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotationSpeed = [3]float32{rx, ry, rz}
}

func (g *gameObject) SetScale(sx, sy, sz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scale = [3]float32{sx, sy, sz}
}

func (g *gameObject) Release() {
	g.bindGroupProvider.Release()
}
