package main

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-shapes/common"
	"github.com/Carmen-Shannon/oxy-shapes/engine"
	"github.com/Carmen-Shannon/oxy-shapes/engine/camera"
	"github.com/Carmen-Shannon/oxy-shapes/engine/window"
	"github.com/stretchr/testify/assert"
)

type fakeWindow struct {
	window.Window

	keyDown, keyUp, move, scroll, button bool
}

func (f *fakeWindow) SetKeyDownCallback(func(uint32))                      { f.keyDown = true }
func (f *fakeWindow) SetKeyUpCallback(func(uint32))                        { f.keyUp = true }
func (f *fakeWindow) SetMouseMoveCallback(func(int32, int32))              { f.move = true }
func (f *fakeWindow) SetScrollCallback(func(float32))                      { f.scroll = true }
func (f *fakeWindow) SetMouseButtonCallback(func(int, bool, int32, int32)) { f.button = true }

func newTestInput() (*cameraInput, camera.CameraController) {
	ctrl := camera.NewCameraController(camera.WithRadius(10), camera.WithAzimuth(0), camera.WithElevation(0))
	return newCameraInput(ctrl), ctrl
}

func TestAttachRegistersCallbacks(t *testing.T) {
	in, _ := newTestInput()
	w := &fakeWindow{}
	eng := engine.NewEngine()

	in.attach(w, eng)
	assert.True(t, w.keyDown && w.keyUp && w.move && w.scroll && w.button)
}

func TestMiddleDragOrbits(t *testing.T) {
	in, ctrl := newTestInput()

	in.mouseMove(50, 50)
	assert.Zero(t, ctrl.Azimuth(), "moves without a drag are ignored")

	in.mouseButton(common.MouseButtonLeft, true, 0, 0)
	in.mouseMove(50, 50)
	assert.Zero(t, ctrl.Azimuth(), "only the middle button drags")

	in.mouseButton(common.MouseButtonMiddle, true, 100, 100)
	in.mouseMove(120, 100)
	assert.InDelta(t, -20*ctrl.MouseSensitivity(), ctrl.Azimuth(), 1e-6)

	in.mouseButton(common.MouseButtonMiddle, false, 120, 100)
	in.mouseMove(300, 100)
	assert.InDelta(t, -20*ctrl.MouseSensitivity(), ctrl.Azimuth(), 1e-6)
}

func TestScrollZooms(t *testing.T) {
	in, ctrl := newTestInput()
	in.scroll(2)
	assert.InDelta(t, 10-2*ctrl.ZoomSpeed(), ctrl.Radius(), 1e-6)
}

func TestHeldKeysPanOnTick(t *testing.T) {
	in, ctrl := newTestInput()

	in.keyDown(common.KeyW)
	in.keyDown(common.KeyS)
	in.tick(0.016)
	x, y, z := ctrl.Target()
	assert.Equal(t, [3]float32{}, [3]float32{x, y, z}, "opposite keys cancel")

	in.keyUp(common.KeyS)
	in.tick(0.016)
	_, _, z = ctrl.Target()
	assert.InDelta(t, -ctrl.PanSpeed(), z, 1e-6, "forward looks down -z from +z")

	in.keyUp(common.KeyW)
	in.keyDown(common.KeyQ)
	in.tick(0.016)
	_, y, _ = ctrl.Target()
	assert.InDelta(t, ctrl.PanSpeed(), y, 1e-6)
}

func TestResetOnFirstPress(t *testing.T) {
	in, ctrl := newTestInput()
	ctrl.SetRadius(20)

	in.keyDown(common.KeyR)
	assert.Equal(t, float32(10), ctrl.Radius())

	ctrl.SetRadius(20)
	in.keyDown(common.KeyR)
	assert.Equal(t, float32(20), ctrl.Radius(), "key repeat does not reset again")

	in.keyUp(common.KeyR)
	in.keyDown(common.KeyR)
	assert.Equal(t, float32(10), ctrl.Radius())
}
