package g3d

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/g3d/world"
	"github.com/gogpu/gputypes"
)

// Option configures a Renderer during creation.
//
// Example:
//
//	r, err := g3d.New(dev, surface, 800, 600,
//	    g3d.WithClearColor(gputypes.Color{R: 0, G: 0, B: 0, A: 1}),
//	    g3d.WithGrid(5, 2),
//	)
type Option func(*options)

// options holds the settings collected from Options.
type options struct {
	config Config
	model  *world.Model
}

// defaultOptions returns the default renderer options.
func defaultOptions() options {
	return options{config: DefaultConfig()}
}

// WithConfig replaces the whole configuration. Options after it still
// apply on top.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.config = cfg
	}
}

// WithClearColor sets the frame background.
func WithClearColor(c gputypes.Color) Option {
	return func(o *options) {
		o.config.ClearColor = [4]float64{c.R, c.G, c.B, c.A}
	}
}

// WithGrid sets the instance grid to perRow x perRow instances spaced
// spacing units apart.
func WithGrid(perRow int, spacing float32) Option {
	return func(o *options) {
		o.config.Grid.PerRow = perRow
		o.config.Grid.Spacing = spacing
	}
}

// WithProjection sets the vertical field of view in degrees and the clip
// planes.
func WithProjection(fovYDegrees, near, far float32) Option {
	return func(o *options) {
		o.config.Projection = ProjectionConfig{FovY: fovYDegrees, Near: near, Far: far}
	}
}

// WithCamera places the camera. Yaw and pitch are in degrees.
func WithCamera(position mgl32.Vec3, yawDegrees, pitchDegrees float32) Option {
	return func(o *options) {
		o.config.Camera = CameraConfig{Position: position, Yaw: yawDegrees, Pitch: pitchDegrees}
	}
}

// WithLight enables lighting with a light at position.
func WithLight(position, color mgl32.Vec3) Option {
	return func(o *options) {
		o.config.Light.Enabled = true
		o.config.Light.Position = position
		o.config.Light.Color = color
	}
}

// WithoutLighting draws the scene unlit, without a light pass.
func WithoutLighting() Option {
	return func(o *options) {
		o.config.Light.Enabled = false
		o.config.Light.ShowLight = false
	}
}

// WithoutLightPass keeps lighting but does not draw the light itself.
func WithoutLightPass() Option {
	return func(o *options) {
		o.config.Light.ShowLight = false
	}
}

// WithPresentMode sets the present mode by name: "fifo", "immediate" or
// "mailbox".
func WithPresentMode(mode string) Option {
	return func(o *options) {
		o.config.PresentMode = mode
	}
}

// WithModel sets the model drawn at every instance. The default is a
// textured unit cube.
func WithModel(m world.Model) Option {
	return func(o *options) {
		o.model = &m
	}
}
