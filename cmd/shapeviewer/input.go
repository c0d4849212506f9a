package main

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-shapes/common"
	"github.com/Carmen-Shannon/oxy-shapes/engine"
	"github.com/Carmen-Shannon/oxy-shapes/engine/camera"
	"github.com/Carmen-Shannon/oxy-shapes/engine/window"
)

// cameraInput turns window events into camera controller moves: WASD/QE pan, middle-mouse
// drag orbits, scroll zooms and R resets the view. Window callbacks and the engine tick run
// on different goroutines.
type cameraInput struct {
	mu       sync.Mutex
	ctrl     camera.CameraController
	keys     map[uint32]bool
	dragging bool
	lastX    int32
	lastY    int32
}

func newCameraInput(ctrl camera.CameraController) *cameraInput {
	return &cameraInput{ctrl: ctrl, keys: make(map[uint32]bool)}
}

// attach registers the input callbacks on w and the pan handling on the engine tick.
func (in *cameraInput) attach(w window.Window, eng engine.Engine) {
	w.SetKeyDownCallback(in.keyDown)
	w.SetKeyUpCallback(in.keyUp)
	w.SetMouseButtonCallback(in.mouseButton)
	w.SetMouseMoveCallback(in.mouseMove)
	w.SetScrollCallback(in.scroll)
	eng.SetTickCallback(in.tick)
}

func (in *cameraInput) keyDown(key uint32) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if key == common.KeyR && !in.keys[key] {
		in.ctrl.Reset()
	}
	in.keys[key] = true
}

func (in *cameraInput) keyUp(key uint32) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.keys[key] = false
}

func (in *cameraInput) mouseButton(button int, down bool, x, y int32) {
	if button != common.MouseButtonMiddle {
		return
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	in.dragging = down
	in.lastX, in.lastY = x, y
}

func (in *cameraInput) mouseMove(x, y int32) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if !in.dragging {
		return
	}
	in.ctrl.OrbitDrag(float32(x-in.lastX), float32(y-in.lastY))
	in.lastX, in.lastY = x, y
}

func (in *cameraInput) scroll(delta float32) {
	in.ctrl.Zoom(delta)
}

func (in *cameraInput) tick(_ float32) {
	in.mu.Lock()
	defer in.mu.Unlock()
	axis := func(pos, neg uint32) float32 {
		var v float32
		if in.keys[pos] {
			v++
		}
		if in.keys[neg] {
			v--
		}
		return v
	}
	if d := axis(common.KeyW, common.KeyS); d != 0 {
		in.ctrl.PanForward(d)
	}
	if d := axis(common.KeyD, common.KeyA); d != 0 {
		in.ctrl.PanRight(d)
	}
	if d := axis(common.KeyQ, common.KeyE); d != 0 {
		in.ctrl.PanUp(d)
	}
}
