package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/Carmen-Shannon/oxy-shapes/engine"
	"github.com/Carmen-Shannon/oxy-shapes/engine/camera"
	"github.com/Carmen-Shannon/oxy-shapes/engine/game_object"
	"github.com/Carmen-Shannon/oxy-shapes/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shapes/engine/scene"
	"github.com/Carmen-Shannon/oxy-shapes/engine/shapes"
	"github.com/Carmen-Shannon/oxy-shapes/engine/window"
	"github.com/Carmen-Shannon/oxy-shapes/internal/config"
	"github.com/chewxy/math32"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// titleInterval is how often the window title is refreshed with draw counters.
const titleInterval = 500 * time.Millisecond

func newViewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Open a window and render the scene layout",
		Long: `Opens a window and renders every object of the scene layout.

Controls: WASD pan, Q/E up/down, middle-mouse drag orbit, scroll zoom, R reset view,
Esc quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runViewer(cfg, a.logger)
		},
	}
}

// runViewer opens the window and blocks until it is closed.
func runViewer(cfg *config.Config, logger *zap.Logger) error {
	presentMode, err := cfg.Renderer.PresentModeValue()
	if err != nil {
		return err
	}

	win := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
		window.WithResizable(cfg.Window.Resizable),
	)
	defer win.Close()

	cc := cfg.Renderer.ClearColor
	r := renderer.NewRenderer(renderer.BackendTypeWGPU, win,
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(renderer.MSAASampleCount(cfg.Renderer.MSAA)),
		renderer.WithClearColor(cc[0], cc[1], cc[2], cc[3]),
		renderer.WithForceSoftwareRenderer(cfg.Renderer.Software),
		renderer.WithLogger(logger.Named("renderer")),
	)
	defer r.Release()

	aspect := float32(cfg.Window.Width) / float32(cfg.Window.Height)
	if win.Width() > 0 && win.Height() > 0 {
		aspect = float32(win.Width()) / float32(win.Height())
	}
	cam := cameraFromConfig(cfg.Camera, aspect)

	sceneOpts := []scene.SceneBuilderOption{
		scene.WithActive(true),
		scene.WithLogger(logger.Named("scene")),
		scene.WithShapeOptions(shapeOptions(cfg.Shapes)...),
	}
	if cfg.Renderer.Workers > 0 {
		sceneOpts = append(sceneOpts, scene.WithWorkers(cfg.Renderer.Workers))
	}
	s, err := scene.NewScene("shapes", cam, r, sceneOpts...)
	if err != nil {
		return err
	}
	defer s.Release()

	if err := s.Shapes().LoadAll(cfg.Kinds()...); err != nil {
		return err
	}
	if err := addObjects(s, cfg.Objects); err != nil {
		return err
	}

	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithLogger(logger),
		engine.WithScene(0, s),
		engine.WithTickRate(cfg.Renderer.TickRate),
		engine.WithRenderFrameLimit(cfg.Renderer.FrameLimit),
		engine.WithProfiling(cfg.Renderer.Profiling),
	)

	input := newCameraInput(cam.Controller())
	input.attach(win, eng)

	var lastTitle time.Time
	eng.SetRenderCallback(func(float32) {
		if time.Since(lastTitle) < titleInterval {
			return
		}
		lastTitle = time.Now()
		st := s.Stats()
		win.SetTitle(fmt.Sprintf("%s | %d drawn, %d culled", cfg.Window.Title, st.Drawn, st.Culled))
	})

	logger.Info("viewer started",
		zap.Int("objects", s.Count()),
		zap.Int("shapes", len(cfg.Kinds())),
		zap.Stringer("present_mode", presentMode),
	)
	eng.Run()
	return nil
}

func radians(deg float32) float32 {
	return deg * math32.Pi / 180
}

// cameraFromConfig builds an orbit camera placed as the layout describes.
func cameraFromConfig(c config.CameraConfig, aspect float32) camera.Camera {
	ctrl := camera.NewCameraController(
		camera.WithRadius(c.Radius),
		camera.WithAzimuth(radians(c.Azimuth)),
		camera.WithElevation(radians(c.Elevation)),
		camera.WithTarget(c.Target[0], c.Target[1], c.Target[2]),
	)
	return camera.NewCamera(
		camera.WithFov(radians(c.Fov)),
		camera.WithNear(c.Near),
		camera.WithFar(c.Far),
		camera.WithAspect(aspect),
		camera.WithController(ctrl),
	)
}

func shapeOptions(c config.ShapesConfig) []shapes.ShapeMeshesBuilderOption {
	return []shapes.ShapeMeshesBuilderOption{
		shapes.WithSegments(c.Segments),
		shapes.WithStacks(c.Stacks),
		shapes.WithThickness(c.Thickness),
		shapes.WithTopRadius(c.TopRadius),
		shapes.WithTopScale(c.TopScale),
		shapes.WithTiers(c.Tiers),
	}
}

// objectFromConfig converts one layout entry into a game object.
func objectFromConfig(o config.ObjectConfig) (game_object.GameObject, error) {
	kind, err := shapes.ParseKind(o.Shape)
	if err != nil {
		return nil, err
	}
	parts := shapes.AllParts
	if o.Parts != nil {
		parts = *o.Parts
	}
	return game_object.NewGameObject(
		game_object.WithName(o.Name),
		game_object.WithKind(kind),
		game_object.WithParts(parts),
		game_object.WithEnabled(!o.Disabled),
		game_object.WithPosition(o.Position[0], o.Position[1], o.Position[2]),
		game_object.WithRotation(radians(o.Rotation[0]), radians(o.Rotation[1]), radians(o.Rotation[2])),
		game_object.WithScale(o.Scale[0], o.Scale[1], o.Scale[2]),
		game_object.WithRotationSpeed(radians(o.Spin[0]), radians(o.Spin[1]), radians(o.Spin[2])),
		game_object.WithColor(o.Color[0], o.Color[1], o.Color[2], o.Color[3]),
	), nil
}

// addObjects adds every layout object to s, collecting failures instead of stopping at the first.
func addObjects(s scene.Scene, objects []config.ObjectConfig) error {
	var errs []error
	for i, o := range objects {
		obj, err := objectFromConfig(o)
		if err != nil {
			errs = append(errs, fmt.Errorf("object %d: %w", i, err))
			continue
		}
		if _, err := s.Add(obj); err != nil {
			obj.Release()
			errs = append(errs, fmt.Errorf("object %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
