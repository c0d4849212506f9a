package game_object

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-shapes/common"
	"github.com/Carmen-Shannon/oxy-shapes/engine/shapes"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGameObjectDefaults(t *testing.T) {
	obj := NewGameObject()

	assert.True(t, obj.Enabled())
	assert.Equal(t, shapes.KindBox, obj.Kind())
	assert.Equal(t, "box", obj.Name())
	assert.Equal(t, shapes.AllParts, obj.Parts())
	sx, sy, sz := obj.Scale()
	assert.Equal(t, [3]float32{1, 1, 1}, [3]float32{sx, sy, sz})
	require.NotNil(t, obj.BindGroupProvider())
	assert.NotEqual(t, obj.BindGroupProvider().Label(), NewGameObject().BindGroupProvider().Label())
}

func TestOptions(t *testing.T) {
	obj := NewGameObject(
		WithKind(shapes.KindCylinder),
		WithName("pillar"),
		WithParts(shapes.Parts{Sides: true}),
		WithColor(1, 0, 0, 1),
		WithPosition(1, 2, 3),
		WithRotation(0.1, 0.2, 0.3),
		WithScale(2, 4, 2),
		WithRotationSpeed(0, 1, 0),
		WithEnabled(false),
	)

	assert.Equal(t, "pillar", obj.Name())
	assert.False(t, obj.Enabled())
	assert.Equal(t, shapes.Parts{Sides: true}, obj.Parts())
	assert.Equal(t, [4]float32{1, 0, 0, 1}, obj.Color())
	pos, scale, rot, speed := obj.TransformData()
	assert.Equal(t, [3]float32{1, 2, 3}, pos)
	assert.Equal(t, [3]float32{2, 4, 2}, scale)
	assert.Equal(t, [3]float32{0.1, 0.2, 0.3}, rot)
	assert.Equal(t, [3]float32{0, 1, 0}, speed)
}

func TestUpdateRotatesAndWraps(t *testing.T) {
	obj := NewGameObject(WithRotationSpeed(1, -2, 0))

	obj.Update(0.5)
	rx, ry, rz := obj.Rotation()
	assert.InDelta(t, 0.5, rx, 1e-6)
	assert.InDelta(t, -1, ry, 1e-6)
	assert.Zero(t, rz)

	obj.Update(10)
	rx, ry, _ = obj.Rotation()
	assert.Less(t, rx, 2*math32.Pi)
	assert.Greater(t, ry, -2*math32.Pi)
}

func TestUniform(t *testing.T) {
	obj := NewGameObject(WithPosition(1, 2, 3), WithScale(2, 2, 2), WithColor(0.1, 0.2, 0.3, 1))
	u := obj.Uniform()

	p := common.TransformPoint(u.Model[:], [3]float32{1, 0, 0})
	assert.InDelta(t, 3, p[0], 1e-5)
	assert.InDelta(t, 2, p[1], 1e-5)
	assert.InDelta(t, 0.5, u.Normal[0], 1e-5, "uniform scale 2 inverts to 0.5")
	assert.Equal(t, [4]float32{0.1, 0.2, 0.3, 1}, u.Color)

	buf := u.Marshal()
	require.Len(t, buf, GPUObjectUniformSize)
	assert.Equal(t, float32(0.3), math.Float32frombits(binary.LittleEndian.Uint32(buf[136:])))
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(buf[60:])), "model[15]")
}

func TestBoundingSphere(t *testing.T) {
	obj := NewGameObject(WithPosition(5, 0, 0), WithScale(1, -3, 2))
	center, radius := obj.BoundingSphere(0.5)
	assert.Equal(t, [3]float32{5, 0, 0}, center)
	assert.Equal(t, float32(1.5), radius)
}

func TestObjectUniformSource(t *testing.T) {
	assert.Contains(t, GPUObjectUniformSource, "struct ObjectUniform")
	assert.Contains(t, GPUObjectUniformSource, "normal: mat4x4<f32>")
}

func TestReleaseFreesProvider(t *testing.T) {
	obj := NewGameObject()
	obj.Release()
	assert.True(t, obj.BindGroupProvider().Released())
}
