package g3d

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/g3d/internal/gpu"
	"github.com/gogpu/g3d/world"
	"github.com/gogpu/gputypes"
	"gopkg.in/yaml.v3"
)

// Config is the complete renderer configuration. Angles are in degrees and
// rates in degrees per second; they are converted to radians when the
// scene is built.
type Config struct {
	Width       uint32 `yaml:"width"`
	Height      uint32 `yaml:"height"`
	PresentMode string `yaml:"present_mode"`

	// ClearColor is the linear RGBA background.
	ClearColor [4]float64 `yaml:"clear_color"`

	Camera     CameraConfig     `yaml:"camera"`
	Projection ProjectionConfig `yaml:"projection"`
	Controller ControllerConfig `yaml:"controller"`
	Grid       GridConfig       `yaml:"grid"`
	Light      LightConfig      `yaml:"light"`

	// TextureBudgetMB caps the memory of cached material textures.
	TextureBudgetMB int `yaml:"texture_budget_mb"`
}

// CameraConfig places the camera.
type CameraConfig struct {
	Position [3]float32 `yaml:"position"`
	Yaw      float32    `yaml:"yaw"`
	Pitch    float32    `yaml:"pitch"`
}

// ProjectionConfig describes the perspective projection.
type ProjectionConfig struct {
	FovY float32 `yaml:"fovy"`
	Near float32 `yaml:"near"`
	Far  float32 `yaml:"far"`
}

// ControllerConfig tunes the camera controller.
type ControllerConfig struct {
	Speed       float32 `yaml:"speed"`
	Sensitivity float32 `yaml:"sensitivity"`
}

// GridConfig describes the instance grid.
type GridConfig struct {
	PerRow       int     `yaml:"per_row"`
	Spacing      float32 `yaml:"spacing"`
	InitialAngle float32 `yaml:"initial_angle"`
	RotationRate float32 `yaml:"rotation_rate"`
}

// LightConfig describes the point light. Without Enabled the scene is drawn
// unlit and the light pass is skipped.
type LightConfig struct {
	Enabled   bool       `yaml:"enabled"`
	ShowLight bool       `yaml:"show"`
	Position  [3]float32 `yaml:"position"`
	Color     [3]float32 `yaml:"color"`
	OrbitRate float32    `yaml:"orbit_rate"`
}

// DefaultConfig returns the default scene: an 800x600 view of a 10x10 grid
// of cubes lit by an orbiting white light.
func DefaultConfig() Config {
	return Config{
		Width:       800,
		Height:      600,
		PresentMode: gpu.PresentModeFifo.String(),
		ClearColor:  [4]float64{0.1, 0.2, 0.3, 1.0},
		Camera: CameraConfig{
			Position: [3]float32{0, 5, 10},
			Yaw:      -90,
			Pitch:    -20,
		},
		Projection: ProjectionConfig{FovY: 45, Near: 0.1, Far: 100},
		Controller: ControllerConfig{Speed: 4, Sensitivity: 0.4},
		Grid: GridConfig{
			PerRow:       10,
			Spacing:      1,
			InitialAngle: 45,
			RotationRate: 60,
		},
		Light: LightConfig{
			Enabled:   true,
			ShowLight: true,
			Position:  [3]float32{2, 2, 2},
			Color:     [3]float32{1, 1, 1},
			OrbitRate: 60,
		},
		TextureBudgetMB: gpu.DefaultMaxMemoryMB,
	}
}

// LoadConfig reads a YAML config file. Missing fields keep their
// DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("g3d: read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML on top of DefaultConfig and validates the
// result. Unknown fields are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the config for values no renderer can start with.
func (c Config) Validate() error {
	var errs []error
	if c.Width == 0 || c.Height == 0 {
		errs = append(errs, fmt.Errorf("size %dx%d", c.Width, c.Height))
	}
	if _, err := gpu.ParsePresentMode(c.PresentMode); err != nil {
		errs = append(errs, err)
	}
	p := c.Projection
	if !(p.Near > 0 && p.Near < p.Far) || math.IsInf(float64(p.Far), 0) {
		errs = append(errs, fmt.Errorf("projection near=%v far=%v", p.Near, p.Far))
	}
	if !(p.FovY > 0 && p.FovY < 180) {
		errs = append(errs, fmt.Errorf("projection fovy=%v", p.FovY))
	}
	if c.Controller.Speed < 0 || c.Controller.Sensitivity < 0 {
		errs = append(errs, fmt.Errorf("controller speed=%v sensitivity=%v", c.Controller.Speed, c.Controller.Sensitivity))
	}
	if err := c.worldGrid().Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.TextureBudgetMB < gpu.MinMemoryMB {
		errs = append(errs, fmt.Errorf("texture budget %d MB", c.TextureBudgetMB))
	}
	if c.Light.ShowLight && !c.Light.Enabled {
		errs = append(errs, errors.New("light.show requires light.enabled"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) presentMode() gpu.PresentMode {
	m, _ := gpu.ParsePresentMode(c.PresentMode)
	return m
}

func (c Config) clearColor() gputypes.Color {
	return gputypes.Color{R: c.ClearColor[0], G: c.ClearColor[1], B: c.ClearColor[2], A: c.ClearColor[3]}
}

func (c Config) worldCamera() *world.Camera {
	return world.NewCamera(mgl32.Vec3(c.Camera.Position),
		mgl32.DegToRad(c.Camera.Yaw), mgl32.DegToRad(c.Camera.Pitch))
}

func (c Config) worldProjection(width, height uint32) (*world.Projection, error) {
	return world.NewProjection(width, height, mgl32.DegToRad(c.Projection.FovY), c.Projection.Near, c.Projection.Far)
}

func (c Config) worldGrid() world.GridConfig {
	return world.GridConfig{
		PerRow:       c.Grid.PerRow,
		Spacing:      c.Grid.Spacing,
		InitialAngle: mgl32.DegToRad(c.Grid.InitialAngle),
		RotationRate: mgl32.DegToRad(c.Grid.RotationRate),
	}
}

func (c Config) worldLight() world.Light {
	return world.Light{
		Position:  mgl32.Vec3(c.Light.Position),
		Color:     mgl32.Vec3(c.Light.Color),
		OrbitRate: mgl32.DegToRad(c.Light.OrbitRate),
	}
}

func (c Config) pipelineConfig(color gputypes.TextureFormat) gpu.PipelineConfig {
	return gpu.PipelineConfig{
		ColorFormat: color,
		DepthFormat: gpu.DepthFormat,
		Lighting:    c.Light.Enabled,
		LightPass:   c.Light.Enabled && c.Light.ShowLight,
	}
}
