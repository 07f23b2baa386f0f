package gpu

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// DeviceOptions selects the HAL backend and device limits.
type DeviceOptions struct {
	// Backend is the HAL backend to open. Zero value (BackendEmpty) is the
	// noop backend, used by tests and headless dry runs.
	Backend gputypes.Backend

	// Limits requested from the adapter. Zero value means
	// gputypes.DefaultLimits().
	Limits *gputypes.Limits
}

// Device is an open logical device and its queue.
type Device struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	info     gputypes.AdapterInfo

	// shared is true when the device belongs to a host framework and must
	// not be destroyed by Close.
	shared bool
}

// OpenDevice creates an instance on the requested backend, picks an adapter
// and opens a device on it. Discrete GPUs are preferred, then integrated
// ones, then whatever adapter comes first.
func OpenDevice(opts DeviceOptions) (*Device, error) {
	backend, ok := hal.GetBackend(opts.Backend)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBackendUnavailable, opts.Backend)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	selected := selectAdapter(adapters)

	limits := gputypes.DefaultLimits()
	if opts.Limits != nil {
		limits = *opts.Limits
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), limits)
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}

	slogger().Info("gpu: device opened",
		"adapter", selected.Info.Name,
		"type", selected.Info.DeviceType,
		"backend", opts.Backend)

	return &Device{
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
		info:     selected.Info,
	}, nil
}

// selectAdapter returns the first discrete GPU, else the first integrated
// GPU, else the first adapter.
func selectAdapter(adapters []hal.ExposedAdapter) *hal.ExposedAdapter {
	for _, want := range []gputypes.DeviceType{gputypes.DeviceTypeDiscreteGPU, gputypes.DeviceTypeIntegratedGPU} {
		for i := range adapters {
			if adapters[i].Info.DeviceType == want {
				return &adapters[i]
			}
		}
	}
	return &adapters[0]
}

// DeviceFromProvider wraps a device owned by a host framework. The provider
// must implement HalDevice() any and HalQueue() any returning hal.Device and
// hal.Queue. The returned Device is never destroyed by Close.
func DeviceFromProvider(provider any) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("gpu: provider HalQueue is not hal.Queue")
	}

	d := &Device{device: device, queue: queue, shared: true}
	if dp, ok := provider.(gpucontext.DeviceProvider); ok {
		info := dp.AdapterInfo()
		d.info = gputypes.AdapterInfo{Name: info.Name, DeviceType: adapterDeviceType(info.Type)}
	}
	slogger().Info("gpu: using shared device", "adapter", d.info.Name)
	return d, nil
}

func adapterDeviceType(t gpucontext.AdapterType) gputypes.DeviceType {
	switch t {
	case gpucontext.AdapterTypeDiscrete:
		return gputypes.DeviceTypeDiscreteGPU
	case gpucontext.AdapterTypeIntegrated:
		return gputypes.DeviceTypeIntegratedGPU
	case gpucontext.AdapterTypeSoftware:
		return gputypes.DeviceTypeCPU
	default:
		return gputypes.DeviceTypeOther
	}
}

// HAL returns the underlying device.
func (d *Device) HAL() hal.Device { return d.device }

// Queue returns the device queue.
func (d *Device) Queue() hal.Queue { return d.queue }

// Info returns the adapter description.
func (d *Device) Info() gputypes.AdapterInfo { return d.info }

// Shared reports whether the device is owned by someone else.
func (d *Device) Shared() bool { return d.shared }

// Close waits for the GPU to go idle and destroys the device and instance
// unless they are shared.
func (d *Device) Close() {
	if d == nil || d.device == nil {
		return
	}
	if !d.shared {
		if err := d.device.WaitIdle(); err != nil {
			slogger().Warn("gpu: wait idle on close", "err", err)
		}
		d.device.Destroy()
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
	d.device = nil
	d.queue = nil
	d.instance = nil
}
