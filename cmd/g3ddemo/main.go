// Command g3ddemo renders the g3d instanced scene offscreen and writes the
// last frame as a PNG.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gogpu/g3d"
	"github.com/gogpu/gputypes"
	_ "github.com/gogpu/wgpu/hal/allbackends"
)

// frameTime is the simulated time step between frames.
const frameTime = time.Second / 60

func main() {
	var (
		configPath = flag.String("config", "", "YAML scene config (defaults when empty)")
		frames     = flag.Int("frames", 60, "number of frames to render")
		output     = flag.String("output", "g3d.png", "output file")
		backend    = flag.String("backend", "vulkan", "HAL backend: vulkan, gl, metal, dx12, software")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		g3d.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if err := run(*configPath, *backend, *frames, *output); err != nil {
		log.Fatalf("g3ddemo: %v", err)
	}
}

func run(configPath, backendName string, frames int, output string) error {
	cfg := g3d.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = g3d.LoadConfig(configPath); err != nil {
			return err
		}
	}
	backend, err := parseBackend(backendName)
	if err != nil {
		return err
	}

	dev, err := g3d.OpenDevice(g3d.DeviceOptions{Backend: backend})
	if err != nil {
		return err
	}
	defer dev.Close()

	surface := g3d.NewOffscreenSurface(dev.Queue())
	r, err := g3d.New(dev, surface, cfg.Width, cfg.Height, g3d.WithConfig(cfg))
	if err != nil {
		return err
	}
	defer r.Close()

	// Fly forward for the first half of the run.
	r.HandleInput(g3d.KeyEvent{Key: g3d.KeyW, Pressed: true})
	for i := 0; i < frames; i++ {
		if i == frames/2 {
			r.HandleInput(g3d.KeyEvent{Key: g3d.KeyW, Pressed: false})
		}
		if err := r.Update(frameTime); err != nil {
			return err
		}
		if err := r.Render(); err != nil {
			if g3d.IsFatal(err) {
				return err
			}
			slog.Warn("frame skipped", "frame", i, "err", err)
		}
	}

	stats := r.Stats()
	if stats.Frames == 0 {
		return fmt.Errorf("no frame presented in %d attempts", frames)
	}
	if err := savePNG(output, surface.Image()); err != nil {
		return err
	}
	log.Printf("Rendered %d frames (%d skipped), saved %s (%dx%d)",
		stats.Frames, stats.Skipped, output, cfg.Width, cfg.Height)
	return nil
}

var backends = map[string]gputypes.Backend{
	"vulkan":   gputypes.BackendVulkan,
	"gl":       gputypes.BackendGL,
	"metal":    gputypes.BackendMetal,
	"dx12":     gputypes.BackendDX12,
	"software": gputypes.BackendEmpty,
}

func parseBackend(name string) (gputypes.Backend, error) {
	b, ok := backends[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("unknown backend %q", name)
	}
	return b, nil
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
