package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Surface acquire errors. Surface implementations wrap their failures with
// one of these so ClassifySurfaceError can decide how the frame loop reacts.
var (
	ErrSurfaceLost       = errors.New("gpu: surface lost")
	ErrSurfaceSuboptimal = errors.New("gpu: surface suboptimal")
	ErrSurfaceOutdated   = errors.New("gpu: surface outdated")
	ErrSurfaceTimeout    = errors.New("gpu: surface acquire timeout")
	ErrOutOfMemory       = errors.New("gpu: out of memory")
	ErrDeviceLost        = errors.New("gpu: device lost")
)

// PresentMode controls how presented frames are queued.
type PresentMode uint8

const (
	// PresentModeFifo waits for vertical blank. Always supported.
	PresentModeFifo PresentMode = iota
	// PresentModeImmediate presents without waiting and may tear.
	PresentModeImmediate
	// PresentModeMailbox replaces the queued frame with the newest one.
	PresentModeMailbox
)

// String returns the mode name.
func (m PresentMode) String() string {
	switch m {
	case PresentModeFifo:
		return "fifo"
	case PresentModeImmediate:
		return "immediate"
	case PresentModeMailbox:
		return "mailbox"
	default:
		return fmt.Sprintf("PresentMode(%d)", m)
	}
}

// ParsePresentMode parses the names returned by String.
func ParsePresentMode(s string) (PresentMode, error) {
	switch s {
	case "", "fifo", "vsync":
		return PresentModeFifo, nil
	case "immediate":
		return PresentModeImmediate, nil
	case "mailbox":
		return PresentModeMailbox, nil
	default:
		return PresentModeFifo, fmt.Errorf("gpu: unknown present mode %q", s)
	}
}

// HAL returns the gputypes equivalent.
func (m PresentMode) HAL() gputypes.PresentMode {
	switch m {
	case PresentModeImmediate:
		return gputypes.PresentModeImmediate
	case PresentModeMailbox:
		return gputypes.PresentModeMailbox
	default:
		return gputypes.PresentModeFifo
	}
}

// SurfaceConfig is the configuration applied to a Surface. Width and Height
// are non-zero whenever a config has been applied.
type SurfaceConfig struct {
	Width       uint32
	Height      uint32
	Format      gputypes.TextureFormat
	PresentMode PresentMode
}

// Surface is a presentation target. Windowed implementations wrap a
// platform swapchain (see HALSurface), OffscreenSurface renders into a
// texture.
type Surface interface {
	// Formats lists the supported color formats, preferred first.
	Formats() []gputypes.TextureFormat

	// Configure (re)creates the swapchain for cfg.
	Configure(device hal.Device, cfg SurfaceConfig) error

	// Acquire returns the view to render the next frame into. Failures wrap
	// one of the ErrSurface* sentinels, ErrOutOfMemory or ErrDeviceLost.
	Acquire() (hal.TextureView, error)

	// Present shows the frame rendered into the last acquired view.
	Present() error

	// Discard releases the last acquired view without presenting it.
	Discard()

	// Unconfigure releases the swapchain.
	Unconfigure()
}

// SurfaceErrorClass is the reaction a surface failure calls for.
type SurfaceErrorClass uint8

const (
	// SurfaceErrorNone means there was no error.
	SurfaceErrorNone SurfaceErrorClass = iota
	// SurfaceErrorRecoverable: reconfigure with the last good size, skip the frame.
	SurfaceErrorRecoverable
	// SurfaceErrorTransient: skip the frame, retry next tick.
	SurfaceErrorTransient
	// SurfaceErrorFatal: stop rendering.
	SurfaceErrorFatal
)

// String returns the class name.
func (c SurfaceErrorClass) String() string {
	switch c {
	case SurfaceErrorNone:
		return "none"
	case SurfaceErrorRecoverable:
		return "recoverable"
	case SurfaceErrorTransient:
		return "transient"
	case SurfaceErrorFatal:
		return "fatal"
	default:
		return fmt.Sprintf("SurfaceErrorClass(%d)", c)
	}
}

// ClassifySurfaceError sorts an acquire or present failure. HAL errors are
// recognized as well, so HAL surfaces may return them unwrapped. Unknown
// errors are fatal.
func ClassifySurfaceError(err error) SurfaceErrorClass {
	switch {
	case err == nil:
		return SurfaceErrorNone
	case errors.Is(err, ErrSurfaceLost), errors.Is(err, hal.ErrSurfaceLost),
		errors.Is(err, ErrSurfaceSuboptimal):
		return SurfaceErrorRecoverable
	case errors.Is(err, ErrSurfaceOutdated), errors.Is(err, hal.ErrSurfaceOutdated),
		errors.Is(err, ErrSurfaceTimeout), errors.Is(err, hal.ErrTimeout),
		errors.Is(err, hal.ErrNotReady):
		return SurfaceErrorTransient
	default:
		return SurfaceErrorFatal
	}
}

// HALSurface adapts a platform hal.Surface (created by hal.Instance from
// window handles) to Surface.
type HALSurface struct {
	surface hal.Surface
	device  hal.Device
	queue   hal.Queue
	formats []gputypes.TextureFormat

	current *hal.AcquiredSurfaceTexture
	view    hal.TextureView
	format  gputypes.TextureFormat
}

// NewHALSurface wraps surface. formats comes from the adapter's
// SurfaceCapabilities; BGRA8 sRGB is assumed when it is empty.
func NewHALSurface(surface hal.Surface, queue hal.Queue, formats []gputypes.TextureFormat) *HALSurface {
	if len(formats) == 0 {
		formats = []gputypes.TextureFormat{gputypes.TextureFormatBGRA8UnormSrgb}
	}
	return &HALSurface{surface: surface, queue: queue, formats: formats}
}

// Formats implements Surface.
func (s *HALSurface) Formats() []gputypes.TextureFormat { return s.formats }

// Configure implements Surface.
func (s *HALSurface) Configure(device hal.Device, cfg SurfaceConfig) error {
	s.release()
	err := s.surface.Configure(device, &hal.SurfaceConfiguration{
		Width:       cfg.Width,
		Height:      cfg.Height,
		Format:      cfg.Format,
		Usage:       gputypes.TextureUsageRenderAttachment,
		PresentMode: cfg.PresentMode.HAL(),
		AlphaMode:   gputypes.CompositeAlphaModeOpaque,
	})
	if err != nil {
		return fmt.Errorf("configure surface: %w", err)
	}
	s.device = device
	s.format = cfg.Format
	return nil
}

// Acquire implements Surface. A suboptimal texture is discarded and
// reported as ErrSurfaceSuboptimal so the caller reconfigures first.
func (s *HALSurface) Acquire() (hal.TextureView, error) {
	if s.device == nil {
		return nil, ErrNotConfigured
	}
	s.release()
	acquired, err := s.surface.AcquireTexture(nil)
	if err != nil {
		return nil, mapHALSurfaceError(err)
	}
	if acquired.Suboptimal {
		s.surface.DiscardTexture(acquired.Texture)
		return nil, ErrSurfaceSuboptimal
	}
	view, err := s.device.CreateTextureView(acquired.Texture, &hal.TextureViewDescriptor{
		Label:         "surface_view",
		Format:        s.format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		s.surface.DiscardTexture(acquired.Texture)
		return nil, fmt.Errorf("create surface view: %w", err)
	}
	s.current = acquired
	s.view = view
	return view, nil
}

// Present implements Surface.
func (s *HALSurface) Present() error {
	if s.current == nil {
		return ErrNotConfigured
	}
	tex := s.current.Texture
	if s.view != nil {
		s.device.DestroyTextureView(s.view)
		s.view = nil
	}
	s.current = nil
	if err := s.queue.Present(s.surface, tex, nil); err != nil {
		return mapHALSurfaceError(err)
	}
	return nil
}

// Discard implements Surface.
func (s *HALSurface) Discard() { s.release() }

// Unconfigure implements Surface.
func (s *HALSurface) Unconfigure() {
	s.release()
	if s.device != nil {
		s.surface.Unconfigure(s.device)
		s.device = nil
	}
}

// release discards a texture that was acquired but never presented.
func (s *HALSurface) release() {
	if s.view != nil && s.device != nil {
		s.device.DestroyTextureView(s.view)
	}
	s.view = nil
	if s.current != nil {
		s.surface.DiscardTexture(s.current.Texture)
		s.current = nil
	}
}

func mapHALSurfaceError(err error) error {
	switch {
	case errors.Is(err, hal.ErrSurfaceLost):
		return fmt.Errorf("%w: %w", ErrSurfaceLost, err)
	case errors.Is(err, hal.ErrSurfaceOutdated):
		return fmt.Errorf("%w: %w", ErrSurfaceOutdated, err)
	case errors.Is(err, hal.ErrTimeout), errors.Is(err, hal.ErrNotReady):
		return fmt.Errorf("%w: %w", ErrSurfaceTimeout, err)
	case errors.Is(err, hal.ErrDeviceOutOfMemory):
		return fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	case errors.Is(err, hal.ErrDeviceLost):
		return fmt.Errorf("%w: %w", ErrDeviceLost, err)
	default:
		return err
	}
}
