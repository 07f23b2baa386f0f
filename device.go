package g3d

import (
	"github.com/gogpu/g3d/internal/gpu"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Device is an open GPU device and its queue.
type Device = gpu.Device

// DeviceOptions selects the HAL backend for OpenDevice.
type DeviceOptions = gpu.DeviceOptions

// Surface is a presentation target: a window swapchain or an offscreen
// texture.
type Surface = gpu.Surface

// SurfaceConfig is the configuration a Surface was last configured with.
type SurfaceConfig = gpu.SurfaceConfig

// PresentMode controls how presented frames are queued.
type PresentMode = gpu.PresentMode

// Present modes.
const (
	PresentModeFifo      = gpu.PresentModeFifo
	PresentModeImmediate = gpu.PresentModeImmediate
	PresentModeMailbox   = gpu.PresentModeMailbox
)

// OffscreenSurface renders into a texture and reads every presented frame
// back into an image.
type OffscreenSurface = gpu.OffscreenSurface

// FrameStats counts presented, skipped and reconfigured frames.
type FrameStats = gpu.FrameStats

// TextureStats reports material texture cache usage.
type TextureStats = gpu.MemoryStats

// OpenDevice opens a device on the backend in opts. The backend package
// must be linked in, e.g.
//
//	import _ "github.com/gogpu/wgpu/hal/vulkan"
func OpenDevice(opts DeviceOptions) (*Device, error) {
	dev, err := gpu.OpenDevice(opts)
	if err != nil {
		return nil, err
	}
	Logger().Info("g3d: device opened", "adapter", dev.Info().Name, "backend", opts.Backend)
	return dev, nil
}

// DeviceFromProvider wraps the device of a host framework implementing
// gpucontext.DeviceProvider. The device is shared: Close does not destroy it.
func DeviceFromProvider(provider any) (*Device, error) {
	return gpu.DeviceFromProvider(provider)
}

// NewOffscreenSurface returns an unconfigured offscreen surface submitting
// readbacks on queue.
func NewOffscreenSurface(queue hal.Queue) *OffscreenSurface {
	return gpu.NewOffscreenSurface(queue)
}

// NewWindowSurface wraps a platform surface created from a window handle.
// formats lists the formats the surface supports, preferred first.
func NewWindowSurface(surface hal.Surface, queue hal.Queue, formats []gputypes.TextureFormat) Surface {
	return gpu.NewHALSurface(surface, queue, formats)
}
