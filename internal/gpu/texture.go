package gpu

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"golang.org/x/image/draw"
)

// MaxTextureSize bounds material textures. Larger images are downscaled
// before upload, keeping their aspect ratio.
const MaxTextureSize = 2048

// TextureFormat is the format of material textures. Diffuse images are
// authored in sRGB.
const TextureFormat = gputypes.TextureFormatRGBA8UnormSrgb

// Texture is a sampled 2D texture with its view and sampler.
type Texture struct {
	device hal.Device

	tex     hal.Texture
	view    hal.TextureView
	sampler hal.Sampler

	width, height uint32
}

// NewTexture uploads img as an RGBA8 sRGB texture.
func NewTexture(device hal.Device, queue hal.Queue, label string, img image.Image) (*Texture, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: texture %q has no pixels", ErrZeroSize, label)
	}
	rgba := toRGBA(img, MaxTextureSize)
	w, h := uint32(rgba.Rect.Dx()), uint32(rgba.Rect.Dy()) //nolint:gosec // bounded by MaxTextureSize

	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        TextureFormat,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create texture %s: %w", label, err)
	}
	t := &Texture{device: device, tex: tex, width: w, height: h}

	err = queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: tex, MipLevel: 0, Aspect: gputypes.TextureAspectAll},
		rgba.Pix,
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: uint32(rgba.Stride), RowsPerImage: h}, //nolint:gosec // stride = 4*w
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	if err != nil {
		t.Destroy()
		return nil, fmt.Errorf("upload texture %s: %w", label, err)
	}

	t.view, err = device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        TextureFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		t.Destroy()
		return nil, fmt.Errorf("create texture view %s: %w", label, err)
	}

	t.sampler, err = device.CreateSampler(&hal.SamplerDescriptor{
		Label:        label + "_sampler",
		AddressModeU: gputypes.AddressModeRepeat,
		AddressModeV: gputypes.AddressModeRepeat,
		AddressModeW: gputypes.AddressModeRepeat,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeNearest,
		MipmapFilter: gputypes.FilterModeNearest,
		LodMaxClamp:  32,
	})
	if err != nil {
		t.Destroy()
		return nil, fmt.Errorf("create sampler %s: %w", label, err)
	}

	slogger().Debug("gpu: texture uploaded", "label", label, "width", w, "height", h)
	return t, nil
}

// toRGBA converts img to a tightly packed RGBA image no larger than limit on
// either side.
func toRGBA(img image.Image, limit int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > limit || h > limit {
		if w >= h {
			h = max(1, h*limit/w)
			w = limit
		} else {
			w = max(1, w*limit/h)
			h = limit
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.ApproxBiLinear.Scale(dst, dst.Rect, img, b, draw.Src, nil)
		return dst
	}
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == 4*w {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
	return dst
}

// View returns the texture view.
func (t *Texture) View() hal.TextureView { return t.view }

// Sampler returns the sampler.
func (t *Texture) Sampler() hal.Sampler { return t.sampler }

// Size returns the uploaded dimensions.
func (t *Texture) Size() (uint32, uint32) { return t.width, t.height }

// Destroy releases the sampler, view and texture.
func (t *Texture) Destroy() {
	if t.sampler != nil {
		t.device.DestroySampler(t.sampler)
		t.sampler = nil
	}
	if t.view != nil {
		t.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		t.device.DestroyTexture(t.tex)
		t.tex = nil
	}
}
