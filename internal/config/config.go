// Package config loads and saves the shapeviewer layout: window, renderer and camera
// settings plus the list of shape objects to place in the scene.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-shapes/common"
	"github.com/Carmen-Shannon/oxy-shapes/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shapes/engine/shapes"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnsupportedFormat is returned for file extensions other than .yaml, .yml and .toml.
	ErrUnsupportedFormat = errors.New("unsupported config format")

	// ErrInvalidConfig wraps every problem reported by Validate.
	ErrInvalidConfig = errors.New("invalid config")
)

// Config is the full viewer layout.
type Config struct {
	Window   WindowConfig   `yaml:"window" toml:"window"`
	Renderer RendererConfig `yaml:"renderer" toml:"renderer"`
	Camera   CameraConfig   `yaml:"camera" toml:"camera"`
	Shapes   ShapesConfig   `yaml:"shapes" toml:"shapes"`
	Objects  []ObjectConfig `yaml:"objects" toml:"objects"`
}

// WindowConfig configures the viewer window.
type WindowConfig struct {
	Title     string `yaml:"title" toml:"title"`
	Width     int    `yaml:"width" toml:"width"`
	Height    int    `yaml:"height" toml:"height"`
	Resizable bool   `yaml:"resizable" toml:"resizable"`
}

// RendererConfig configures the renderer and the engine loops.
type RendererConfig struct {
	PresentMode string     `yaml:"present_mode" toml:"present_mode"` // "vsync" or "uncapped"
	MSAA        int        `yaml:"msaa" toml:"msaa"`                 // 1, 4, 8 or 16
	ClearColor  [4]float64 `yaml:"clear_color" toml:"clear_color"`
	FrameLimit  float64    `yaml:"frame_limit" toml:"frame_limit"` // 0 = uncapped
	TickRate    float64    `yaml:"tick_rate" toml:"tick_rate"`
	Workers     int        `yaml:"workers" toml:"workers"` // 0 = one per CPU
	Profiling   bool       `yaml:"profiling" toml:"profiling"`
	Software    bool       `yaml:"software" toml:"software"`
}

// CameraConfig places the orbit camera. Angles are in degrees.
type CameraConfig struct {
	Fov       float32    `yaml:"fov" toml:"fov"`
	Near      float32    `yaml:"near" toml:"near"`
	Far       float32    `yaml:"far" toml:"far"`
	Radius    float32    `yaml:"radius" toml:"radius"`
	Azimuth   float32    `yaml:"azimuth" toml:"azimuth"`
	Elevation float32    `yaml:"elevation" toml:"elevation"`
	Target    [3]float32 `yaml:"target" toml:"target"`
}

// ShapesConfig holds the mesh generator settings shared by every shape.
type ShapesConfig struct {
	Segments  int     `yaml:"segments" toml:"segments"`
	Stacks    int     `yaml:"stacks" toml:"stacks"`
	Thickness float32 `yaml:"thickness" toml:"thickness"`
	TopRadius float32 `yaml:"top_radius" toml:"top_radius"`
	TopScale  float32 `yaml:"top_scale" toml:"top_scale"`
	Tiers     int     `yaml:"tiers" toml:"tiers"`
}

// ObjectConfig is one shape instance. Rotation and Spin are in degrees and degrees per second.
// A nil Parts draws every part; a zero Scale means 1 and a zero Color means white.
type ObjectConfig struct {
	Name     string        `yaml:"name,omitempty" toml:"name,omitempty"`
	Shape    string        `yaml:"shape" toml:"shape"`
	Parts    *shapes.Parts `yaml:"parts,omitempty" toml:"parts,omitempty"`
	Position [3]float32    `yaml:"position" toml:"position"`
	Rotation [3]float32    `yaml:"rotation" toml:"rotation"`
	Scale    [3]float32    `yaml:"scale" toml:"scale"`
	Spin     [3]float32    `yaml:"spin" toml:"spin"`
	Color    [4]float32    `yaml:"color" toml:"color"`
	Disabled bool          `yaml:"disabled,omitempty" toml:"disabled,omitempty"`
}

// DefaultConfig returns a working layout that shows every shape on a 5x3 grid.
//
// Returns:
//   - *Config: a new default config
func DefaultConfig() *Config {
	cfg := &Config{
		Window: WindowConfig{
			Title:     "oxy-shapes",
			Width:     1280,
			Height:    720,
			Resizable: true,
		},
		Renderer: RendererConfig{
			PresentMode: renderer.PresentModeVSync.String(),
			MSAA:        int(renderer.MSAA4x),
			ClearColor:  [4]float64{0.08, 0.09, 0.11, 1},
			TickRate:    60,
		},
		Camera: CameraConfig{
			Fov:       45,
			Near:      0.05,
			Far:       200,
			Radius:    9,
			Azimuth:   30,
			Elevation: 25,
		},
		Shapes: ShapesConfig{
			Segments:  36,
			Stacks:    18,
			Thickness: 0.2,
			TopRadius: 0.5,
			TopScale:  0.5,
			Tiers:     3,
		},
	}

	palette := [][4]float32{
		{0.90, 0.35, 0.30, 1},
		{0.95, 0.70, 0.25, 1},
		{0.40, 0.75, 0.40, 1},
		{0.30, 0.60, 0.90, 1},
		{0.65, 0.45, 0.85, 1},
	}
	for i, kind := range shapes.Kinds() {
		col, row := i%5, i/5
		cfg.Objects = append(cfg.Objects, ObjectConfig{
			Name:     kind.String(),
			Shape:    kind.String(),
			Position: [3]float32{float32(col-2) * 2.5, 0, float32(row-1) * 2.5},
			Scale:    [3]float32{1, 1, 1},
			Spin:     [3]float32{0, 20, 0},
			Color:    palette[i%len(palette)],
		})
	}
	return cfg
}

// codecFor picks the marshal and unmarshal functions for a file extension.
func codecFor(path string) (marshal func(any) ([]byte, error), unmarshal func([]byte, any) error, err error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Marshal, yaml.Unmarshal, nil
	case ".toml":
		return toml.Marshal, toml.Unmarshal, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads a layout from path, choosing the codec by extension. Fields missing from the
// file keep their DefaultConfig values; a missing file returns the defaults.
// The result is not validated.
//
// Parameters:
//   - path: a .yaml, .yml or .toml file
//
// Returns:
//   - *Config: the loaded config
//   - error: ErrUnsupportedFormat, or a read or parse failure
func Load(path string) (*Config, error) {
	_, unmarshal, err := codecFor(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.applyObjectDefaults()
	return cfg, nil
}

// Save writes the config to path with the codec matching its extension, creating parent
// directories as needed.
func (c *Config) Save(path string) error {
	marshal, _, err := codecFor(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyObjectDefaults() {
	for i := range c.Objects {
		o := &c.Objects[i]
		o.Scale = common.Coalesce(o.Scale, [3]float32{1, 1, 1})
		o.Color = common.Coalesce(o.Color, [4]float32{1, 1, 1, 1})
		o.Name = common.Coalesce(o.Name, o.Shape)
	}
}

// Validate reports every problem in the config at once. Each problem wraps ErrInvalidConfig.
//
// Returns:
//   - error: nil, or all problems joined
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...)))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		bad("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}

	if _, err := c.Renderer.PresentModeValue(); err != nil {
		bad("%v", err)
	}
	if !renderer.MSAASampleCount(c.Renderer.MSAA).Valid() {
		bad("msaa %d must be 1, 4, 8 or 16", c.Renderer.MSAA)
	}
	if c.Renderer.FrameLimit < 0 || c.Renderer.TickRate < 0 || c.Renderer.Workers < 0 {
		bad("frame_limit, tick_rate and workers must not be negative")
	}

	if c.Camera.Fov <= 0 || c.Camera.Fov >= 180 {
		bad("camera fov %g must be in (0, 180) degrees", c.Camera.Fov)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		bad("camera clip planes near=%g far=%g need 0 < near < far", c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.Radius <= 0 {
		bad("camera radius %g must be positive", c.Camera.Radius)
	}

	if c.Shapes.Segments < 3 {
		bad("segments %d must be at least 3", c.Shapes.Segments)
	}
	if c.Shapes.Stacks < 2 {
		bad("stacks %d must be at least 2", c.Shapes.Stacks)
	}
	if c.Shapes.Thickness <= 0 || c.Shapes.Thickness >= 1 {
		bad("torus thickness %g must be in (0, 1)", c.Shapes.Thickness)
	}
	if c.Shapes.TopRadius < 0 {
		bad("top_radius %g must not be negative", c.Shapes.TopRadius)
	}
	if c.Shapes.TopScale < 0 || c.Shapes.TopScale > 1 {
		bad("top_scale %g must be in [0, 1]", c.Shapes.TopScale)
	}
	if c.Shapes.Tiers < 1 {
		bad("tiers %d must be at least 1", c.Shapes.Tiers)
	}

	for i, o := range c.Objects {
		if _, err := shapes.ParseKind(o.Shape); err != nil {
			bad("object %d: %v", i, err)
		}
	}
	return errors.Join(errs...)
}

// PresentModeValue converts PresentMode to the renderer type.
//
// Returns:
//   - renderer.PresentMode: the parsed mode
//   - error: an unknown mode name
func (r RendererConfig) PresentModeValue() (renderer.PresentMode, error) {
	switch strings.ToLower(r.PresentMode) {
	case renderer.PresentModeVSync.String(), "":
		return renderer.PresentModeVSync, nil
	case renderer.PresentModeUncapped.String():
		return renderer.PresentModeUncapped, nil
	default:
		return 0, fmt.Errorf("present mode %q must be %q or %q",
			r.PresentMode, renderer.PresentModeVSync, renderer.PresentModeUncapped)
	}
}

// Kinds returns the distinct shape kinds the objects use, in first-use order.
// Unknown shape names are skipped; Validate reports them.
func (c *Config) Kinds() []shapes.Kind {
	var kinds []shapes.Kind
	seen := make(map[shapes.Kind]bool)
	for _, o := range c.Objects {
		k, err := shapes.ParseKind(o.Shape)
		if err != nil || seen[k] {
			continue
		}
		seen[k] = true
		kinds = append(kinds, k)
	}
	return kinds
}
