package g3d

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/g3d/internal/gpu"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	if cfg.presentMode() != gpu.PresentModeFifo {
		t.Errorf("default present mode = %v, want fifo", cfg.presentMode())
	}
	pc := cfg.pipelineConfig(0)
	if !pc.Lighting || !pc.LightPass {
		t.Errorf("default pipeline config = %+v, want lighting with light pass", pc)
	}
}

func TestParseConfig(t *testing.T) {
	data := []byte(`
width: 1024
height: 768
present_mode: mailbox
clear_color: [0, 0, 0, 1]
camera:
  position: [1, 2, 3]
  yaw: 0
projection:
  fovy: 60
grid:
  per_row: 2
  spacing: 3
light:
  show: false
`)
	cfg, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Width != 1024 || cfg.Height != 768 {
		t.Errorf("size = %dx%d, want 1024x768", cfg.Width, cfg.Height)
	}
	if cfg.presentMode() != gpu.PresentModeMailbox {
		t.Errorf("present mode = %v, want mailbox", cfg.presentMode())
	}
	if cfg.ClearColor != [4]float64{0, 0, 0, 1} {
		t.Errorf("clear color = %v", cfg.ClearColor)
	}
	if cfg.Camera.Position != [3]float32{1, 2, 3} {
		t.Errorf("camera position = %v", cfg.Camera.Position)
	}
	// Fields absent from the document keep their defaults.
	def := DefaultConfig()
	if cfg.Camera.Pitch != def.Camera.Pitch {
		t.Errorf("camera pitch = %v, want default %v", cfg.Camera.Pitch, def.Camera.Pitch)
	}
	if cfg.Projection.FovY != 60 || cfg.Projection.Near != def.Projection.Near || cfg.Projection.Far != def.Projection.Far {
		t.Errorf("projection = %+v", cfg.Projection)
	}
	if !cfg.Light.Enabled || cfg.Light.ShowLight {
		t.Errorf("light = %+v, want enabled and hidden", cfg.Light)
	}
	if cfg.pipelineConfig(0).LightPass {
		t.Error("hidden light still requests the light pass")
	}
}

func TestParseConfigEmpty(t *testing.T) {
	cfg, err := ParseConfig(nil)
	if err != nil {
		t.Fatalf("ParseConfig(nil): %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("ParseConfig(nil) = %+v, want defaults", cfg)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown field", "colour: red\n"},
		{"syntax", "width: [\n"},
		{"zero height", "height: 0\n"},
		{"near beyond far", "projection: {near: 10, far: 1}\n"},
		{"zero near", "projection: {near: 0}\n"},
		{"wide fov", "projection: {fovy: 180}\n"},
		{"present mode", "present_mode: adaptive\n"},
		{"empty grid", "grid: {per_row: 0}\n"},
		{"negative speed", "controller: {speed: -1}\n"},
		{"show without light", "light: {enabled: false, show: true}\n"},
		{"texture budget", "texture_budget_mb: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("ParseConfig(%q) = %v, want ErrInvalidConfig", tt.data, err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte("grid: {per_row: 4}\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Grid.PerRow != 4 {
		t.Errorf("Grid.PerRow = %d, want 4", cfg.Grid.PerRow)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadConfig(missing) = %v, want os.ErrNotExist", err)
	}
}

func TestLoadConfigTestdata(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("cmd", "g3ddemo", "testdata", "scene.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig(testdata): %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("testdata config invalid: %v", err)
	}
}

func TestConfigConversions(t *testing.T) {
	cfg := DefaultConfig()

	cam := cfg.worldCamera()
	if got, want := cam.Yaw, mgl32.DegToRad(-90); math.Abs(float64(got-want)) > 1e-6 {
		t.Errorf("camera yaw = %v, want %v", got, want)
	}

	grid := cfg.worldGrid()
	if got, want := grid.RotationRate, mgl32.DegToRad(60); math.Abs(float64(got-want)) > 1e-6 {
		t.Errorf("grid rate = %v, want %v", got, want)
	}

	proj, err := cfg.worldProjection(800, 600)
	if err != nil {
		t.Fatalf("worldProjection: %v", err)
	}
	if got, want := proj.FovY(), mgl32.DegToRad(45); math.Abs(float64(got-want)) > 1e-6 {
		t.Errorf("FovY = %v, want %v", got, want)
	}

	light := cfg.worldLight()
	if light.Position != (mgl32.Vec3{2, 2, 2}) {
		t.Errorf("light position = %v", light.Position)
	}

	c := cfg.clearColor()
	if c.R != 0.1 || c.G != 0.2 || c.B != 0.3 || c.A != 1 {
		t.Errorf("clear color = %+v", c)
	}
}
