package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// DepthFormat is the depth attachment format used by all pipelines.
const DepthFormat = gputypes.TextureFormatDepth32Float

// DepthBuffer owns the depth texture matching the surface size. It is
// recreated whenever the surface is reconfigured to a different size.
type DepthBuffer struct {
	device hal.Device
	format gputypes.TextureFormat

	tex  hal.Texture
	view hal.TextureView

	width, height uint32
}

// NewDepthBuffer creates a width x height depth attachment.
func NewDepthBuffer(device hal.Device, width, height uint32) (*DepthBuffer, error) {
	d := &DepthBuffer{device: device, format: DepthFormat}
	if err := d.Resize(width, height); err != nil {
		return nil, err
	}
	return d, nil
}

// Resize recreates the texture for the new size. Same size is a no-op,
// a zero dimension returns ErrZeroSize and keeps the current texture.
func (d *DepthBuffer) Resize(width, height uint32) error {
	if width == 0 || height == 0 {
		return fmt.Errorf("%w: depth %dx%d", ErrZeroSize, width, height)
	}
	if d.tex != nil && d.width == width && d.height == height {
		return nil
	}

	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "depth_texture",
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        d.format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding,
	})
	if err != nil {
		return fmt.Errorf("create depth texture: %w", err)
	}
	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "depth_view",
		Format:        d.format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectDepthOnly,
		MipLevelCount: 1,
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return fmt.Errorf("create depth view: %w", err)
	}

	d.destroy()
	d.tex, d.view = tex, view
	d.width, d.height = width, height
	slogger().Debug("gpu: depth buffer created", "width", width, "height", height)
	return nil
}

// View returns the attachment view.
func (d *DepthBuffer) View() hal.TextureView { return d.view }

// Format returns the depth format.
func (d *DepthBuffer) Format() gputypes.TextureFormat { return d.format }

// Size returns the current dimensions.
func (d *DepthBuffer) Size() (uint32, uint32) { return d.width, d.height }

// Destroy releases the texture and view.
func (d *DepthBuffer) Destroy() {
	d.destroy()
	d.width, d.height = 0, 0
}

func (d *DepthBuffer) destroy() {
	if d.view != nil {
		d.device.DestroyTextureView(d.view)
		d.view = nil
	}
	if d.tex != nil {
		d.device.DestroyTexture(d.tex)
		d.tex = nil
	}
}
