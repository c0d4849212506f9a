package game_object

import (
	"github.com/Carmen-Shannon/oxy-shapes/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-shapes/engine/shapes"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithName sets the display name. Defaults to the shape name.
func WithName(name string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.name = name
	}
}

// WithEnabled sets whether the GameObject is drawn.
//
// Parameters:
//   - enabled: true to render the object, false to skip it
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithKind sets the shape the object draws.
//
// Parameters:
//   - kind: the shape kind
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the shape
func WithKind(kind shapes.Kind) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.kind = kind
	}
}

// WithParts sets the shape parts the object draws.
func WithParts(parts shapes.Parts) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.parts = parts
	}
}

// WithColor sets the RGBA color, each component in [0, 1].
func WithColor(r, g, b, a float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.color = [4]float32{r, g, b, a}
	}
}

// WithPosition sets the initial world position of the GameObject.
//
// Parameters:
//   - x: the x-coordinate
//   - y: the y-coordinate
//   - z: the z-coordinate
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the position
func WithPosition(x, y, z float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.position = [3]float32{x, y, z}
	}
}

// WithRotation sets the initial Euler rotation in radians.
func WithRotation(rx, ry, rz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rotation = [3]float32{rx, ry, rz}
	}
}

// WithScale sets the initial scale of the GameObject.
//
// Parameters:
//   - sx: scale factor along the x-axis
//   - sy: scale factor along the y-axis
//   - sz: scale factor along the z-axis
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the scale
func WithScale(sx, sy, sz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.scale = [3]float32{sx, sy, sz}
	}
}

// WithRotationSpeed sets the rotation rate in radians per second, applied by Update.
//
// Parameters:
//   - rx: rotation speed around the x-axis
//   - ry: rotation speed around the y-axis
//   - rz: rotation speed around the z-axis
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the rotation speed
func WithRotationSpeed(rx, ry, rz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rotationSpeed = [3]float32{rx, ry, rz}
	}
}

// WithBindGroupProvider replaces the default uniform provider.
func WithBindGroupProvider(provider bind_group_provider.BindGroupProvider) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.bindGroupProvider = provider
	}
}
