package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ContextOptions configures NewContext.
type ContextOptions struct {
	PresentMode PresentMode
}

// Context binds a device to a surface. It owns the surface configuration
// and the depth buffer, and keeps both the same size.
type Context struct {
	device  hal.Device
	queue   hal.Queue
	surface Surface

	config SurfaceConfig
	depth  *DepthBuffer
	closed bool
}

// NewContext configures surface for a width x height drawable using the
// surface's preferred format.
func NewContext(device hal.Device, queue hal.Queue, surface Surface, width, height uint32, opts ContextOptions) (*Context, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: surface %dx%d", ErrZeroSize, width, height)
	}
	formats := surface.Formats()
	if len(formats) == 0 {
		return nil, ErrNoSurfaceFormat
	}

	c := &Context{
		device:  device,
		queue:   queue,
		surface: surface,
		config: SurfaceConfig{
			Width:       width,
			Height:      height,
			Format:      formats[0],
			PresentMode: opts.PresentMode,
		},
	}
	if err := c.surface.Configure(device, c.config); err != nil {
		return nil, err
	}
	depth, err := NewDepthBuffer(device, width, height)
	if err != nil {
		c.surface.Unconfigure()
		return nil, err
	}
	c.depth = depth

	slogger().Info("gpu: surface configured",
		"width", width, "height", height,
		"format", c.config.Format, "present", c.config.PresentMode)
	return c, nil
}

// Reconfigure applies a new size. A zero dimension (minimized window) is
// ignored and reported as false. On failure the previous configuration and
// depth buffer stay in place.
func (c *Context) Reconfigure(width, height uint32) (bool, error) {
	if c.closed {
		return false, ErrClosed
	}
	if width == 0 || height == 0 {
		return false, nil
	}
	cfg := c.config
	cfg.Width, cfg.Height = width, height
	// Depth first: Resize keeps the old texture when creation fails.
	if err := c.depth.Resize(width, height); err != nil {
		return false, err
	}
	if err := c.surface.Configure(c.device, cfg); err != nil {
		if rerr := c.depth.Resize(c.config.Width, c.config.Height); rerr != nil {
			slogger().Error("gpu: depth rollback failed", "err", rerr)
			return false, errors.Join(err, rerr)
		}
		return false, err
	}
	c.config = cfg
	slogger().Debug("gpu: surface reconfigured", "width", width, "height", height)
	return true, nil
}

// ReconfigureCurrent reapplies the last configuration that succeeded. Used
// to recover from lost or suboptimal surfaces.
func (c *Context) ReconfigureCurrent() error {
	if c.closed {
		return ErrClosed
	}
	if err := c.depth.Resize(c.config.Width, c.config.Height); err != nil {
		return err
	}
	return c.surface.Configure(c.device, c.config)
}

// FrameTarget is an acquired frame ready to be rendered into.
type FrameTarget struct {
	View   hal.TextureView
	Depth  hal.TextureView
	Width  uint32
	Height uint32
}

// AcquireFrame acquires the next surface view. Failures are returned as
// the surface reported them; see ClassifySurfaceError.
func (c *Context) AcquireFrame() (*FrameTarget, error) {
	if c.closed {
		return nil, ErrClosed
	}
	view, err := c.surface.Acquire()
	if err != nil {
		return nil, fmt.Errorf("acquire frame: %w", err)
	}
	return &FrameTarget{
		View:   view,
		Depth:  c.depth.View(),
		Width:  c.config.Width,
		Height: c.config.Height,
	}, nil
}

// Discard releases the last acquired frame without presenting it.
func (c *Context) Discard() {
	c.surface.Discard()
}

// Present shows the last acquired frame.
func (c *Context) Present() error {
	if err := c.surface.Present(); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	return nil
}

// Device returns the HAL device.
func (c *Context) Device() hal.Device { return c.device }

// Queue returns the HAL queue.
func (c *Context) Queue() hal.Queue { return c.queue }

// Config returns the current surface configuration.
func (c *Context) Config() SurfaceConfig { return c.config }

// ColorFormat returns the configured surface format.
func (c *Context) ColorFormat() gputypes.TextureFormat { return c.config.Format }

// Depth returns the depth buffer.
func (c *Context) Depth() *DepthBuffer { return c.depth }

// Destroy releases the depth buffer and unconfigures the surface. The
// device is not touched.
func (c *Context) Destroy() {
	if c.closed {
		return
	}
	c.closed = true
	if c.depth != nil {
		c.depth.Destroy()
	}
	c.surface.Unconfigure()
}
