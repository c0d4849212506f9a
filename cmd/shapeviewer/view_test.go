package main

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-shapes/engine/game_object"
	"github.com/Carmen-Shannon/oxy-shapes/engine/scene"
	"github.com/Carmen-Shannon/oxy-shapes/engine/shapes"
	"github.com/Carmen-Shannon/oxy-shapes/internal/config"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScene struct {
	scene.Scene

	added  []game_object.GameObject
	addErr error
}

func (f *fakeScene) Add(obj game_object.GameObject) (uint64, error) {
	if f.addErr != nil {
		return 0, f.addErr
	}
	f.added = append(f.added, obj)
	return uint64(len(f.added)), nil
}

func TestObjectFromConfig(t *testing.T) {
	top := shapes.Parts{Top: true}
	obj, err := objectFromConfig(config.ObjectConfig{
		Name:     "lid",
		Shape:    "Tapered-Cylinder",
		Parts:    &top,
		Position: [3]float32{1, 2, 3},
		Rotation: [3]float32{0, 90, 180},
		Scale:    [3]float32{2, 2, 2},
		Spin:     [3]float32{0, 45, 0},
		Color:    [4]float32{1, 0, 0, 1},
		Disabled: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "lid", obj.Name())
	assert.Equal(t, shapes.KindTaperedCylinder, obj.Kind())
	assert.Equal(t, top, obj.Parts())
	assert.False(t, obj.Enabled())
	assert.Equal(t, [4]float32{1, 0, 0, 1}, obj.Color())

	x, y, z := obj.Position()
	assert.Equal(t, [3]float32{1, 2, 3}, [3]float32{x, y, z})
	rx, ry, rz := obj.Rotation()
	assert.InDelta(t, 0, rx, 1e-6)
	assert.InDelta(t, math32.Pi/2, ry, 1e-6)
	assert.InDelta(t, math32.Pi, rz, 1e-6)
	_, sy, _ := obj.RotationSpeed()
	assert.InDelta(t, math32.Pi/4, sy, 1e-6)
}

func TestObjectFromConfigDefaults(t *testing.T) {
	obj, err := objectFromConfig(config.ObjectConfig{Shape: "sphere", Scale: [3]float32{1, 1, 1}})
	require.NoError(t, err)
	assert.Equal(t, shapes.AllParts, obj.Parts())
	assert.True(t, obj.Enabled())
	assert.Equal(t, "sphere", obj.Name())

	_, err = objectFromConfig(config.ObjectConfig{Shape: "blob"})
	assert.ErrorIs(t, err, shapes.ErrUnknownKind)
}

func TestAddObjectsCollectsFailures(t *testing.T) {
	s := &fakeScene{}
	err := addObjects(s, []config.ObjectConfig{
		{Shape: "box"},
		{Shape: "blob"},
		{Shape: "torus"},
	})
	require.ErrorIs(t, err, shapes.ErrUnknownKind)
	assert.Contains(t, err.Error(), "object 1")
	assert.Len(t, s.added, 2, "valid objects are still added")

	s = &fakeScene{addErr: errors.New("released")}
	err = addObjects(s, []config.ObjectConfig{{Shape: "box"}})
	assert.ErrorContains(t, err, "object 0: released")
}

func TestCameraFromConfig(t *testing.T) {
	cam := cameraFromConfig(config.CameraConfig{
		Fov: 60, Near: 0.1, Far: 50, Radius: 12, Azimuth: 90, Elevation: 0,
		Target: [3]float32{0, 1, 0},
	}, 2)

	assert.InDelta(t, math32.Pi/3, cam.Fov(), 1e-6)
	assert.Equal(t, float32(2), cam.Aspect())

	ctrl := cam.Controller()
	assert.Equal(t, float32(12), ctrl.Radius())
	assert.InDelta(t, math32.Pi/2, ctrl.Azimuth(), 1e-6)

	x, y, z := ctrl.Position()
	assert.InDelta(t, 12, x, 1e-4)
	assert.InDelta(t, 1, y, 1e-4)
	assert.InDelta(t, 0, z, 1e-4)
}
