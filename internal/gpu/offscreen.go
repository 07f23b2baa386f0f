package gpu

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// copyRowAlignment is the required bytes-per-row alignment for
// texture-to-buffer copies.
const copyRowAlignment = 256

// OffscreenSurface renders into a texture instead of a window. Present
// copies the frame back to the CPU, where Image returns it.
type OffscreenSurface struct {
	device hal.Device
	queue  hal.Queue

	tex      hal.Texture
	view     hal.TextureView
	readback hal.Buffer

	width, height uint32
	bytesPerRow   uint32
	acquired      bool

	frame *image.RGBA
}

// NewOffscreenSurface returns an unconfigured offscreen surface.
func NewOffscreenSurface(queue hal.Queue) *OffscreenSurface {
	return &OffscreenSurface{queue: queue}
}

// Formats implements Surface.
func (s *OffscreenSurface) Formats() []gputypes.TextureFormat {
	return []gputypes.TextureFormat{gputypes.TextureFormatRGBA8Unorm}
}

// Configure implements Surface.
func (s *OffscreenSurface) Configure(device hal.Device, cfg SurfaceConfig) error {
	if cfg.Width == 0 || cfg.Height == 0 {
		return fmt.Errorf("%w: offscreen %dx%d", ErrZeroSize, cfg.Width, cfg.Height)
	}
	if cfg.Format != gputypes.TextureFormatRGBA8Unorm {
		return fmt.Errorf("gpu: offscreen surface does not support format %v", cfg.Format)
	}

	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "offscreen_target",
		Size:          hal.Extent3D{Width: cfg.Width, Height: cfg.Height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        cfg.Format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create offscreen texture: %w", err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "offscreen_view",
		Format:        cfg.Format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		device.DestroyTexture(tex)
		return fmt.Errorf("create offscreen view: %w", err)
	}
	bytesPerRow := alignUp(cfg.Width*4, copyRowAlignment)
	readback, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "offscreen_readback",
		Size:  uint64(bytesPerRow) * uint64(cfg.Height),
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		device.DestroyTextureView(view)
		device.DestroyTexture(tex)
		return fmt.Errorf("create offscreen readback buffer: %w", err)
	}

	s.Unconfigure()
	s.device = device
	s.tex, s.view, s.readback = tex, view, readback
	s.width, s.height, s.bytesPerRow = cfg.Width, cfg.Height, bytesPerRow
	return nil
}

// Acquire implements Surface. The same texture is returned every frame.
func (s *OffscreenSurface) Acquire() (hal.TextureView, error) {
	if s.view == nil {
		return nil, ErrNotConfigured
	}
	s.acquired = true
	return s.view, nil
}

// Present implements Surface: it copies the rendered texture into the
// readback buffer, waits for the copy and decodes it into Image.
func (s *OffscreenSurface) Present() error {
	if !s.acquired {
		return ErrNotConfigured
	}
	s.acquired = false

	encoder, err := s.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "offscreen_readback"})
	if err != nil {
		return fmt.Errorf("create readback encoder: %w", err)
	}
	if err := encoder.BeginEncoding("offscreen_readback"); err != nil {
		return fmt.Errorf("begin readback encoding: %w", err)
	}
	encoder.CopyTextureToBuffer(s.tex, s.readback, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{BytesPerRow: s.bytesPerRow, RowsPerImage: s.height},
		TextureBase:  hal.ImageCopyTexture{Texture: s.tex, Aspect: gputypes.TextureAspectAll},
		Size:         hal.Extent3D{Width: s.width, Height: s.height, DepthOrArrayLayers: 1},
	}})
	cmd, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("end readback encoding: %w", err)
	}
	if err := submitAndWait(s.device, s.queue, cmd); err != nil {
		return err
	}
	return s.readFrame()
}

func (s *OffscreenSurface) readFrame() error {
	size := uint64(s.bytesPerRow) * uint64(s.height)
	mapping, err := s.device.MapBuffer(s.readback, 0, size)
	if err != nil {
		return fmt.Errorf("map readback buffer: %w", err)
	}
	defer func() { _ = s.device.UnmapBuffer(s.readback) }()

	// The mapping stays valid until UnmapBuffer.
	src := unsafe.Slice((*byte)(mapping.Ptr), size)
	img := image.NewRGBA(image.Rect(0, 0, int(s.width), int(s.height)))
	rowBytes := int(s.width) * 4
	for y := 0; y < int(s.height); y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+rowBytes], src[y*int(s.bytesPerRow):])
	}
	s.frame = img
	return nil
}

// Discard implements Surface. The texture is reused, so only the acquired
// state is reset.
func (s *OffscreenSurface) Discard() { s.acquired = false }

// Image returns the last presented frame, nil before the first Present.
func (s *OffscreenSurface) Image() *image.RGBA { return s.frame }

// Size returns the configured dimensions.
func (s *OffscreenSurface) Size() (uint32, uint32) { return s.width, s.height }

// Unconfigure implements Surface.
func (s *OffscreenSurface) Unconfigure() {
	if s.device == nil {
		return
	}
	if s.readback != nil {
		s.device.DestroyBuffer(s.readback)
		s.readback = nil
	}
	if s.view != nil {
		s.device.DestroyTextureView(s.view)
		s.view = nil
	}
	if s.tex != nil {
		s.device.DestroyTexture(s.tex)
		s.tex = nil
	}
	s.acquired = false
}

func alignUp(n, alignment uint32) uint32 {
	return (n + alignment - 1) / alignment * alignment
}
