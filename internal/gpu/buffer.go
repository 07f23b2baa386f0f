package gpu

import (
	"fmt"

	"github.com/gogpu/g3d/world"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// UniformBuffer is a fixed-size uniform buffer that is always replaced as a
// whole. Partial writes are rejected so a reader never sees a half-updated
// value.
type UniformBuffer struct {
	device hal.Device
	queue  hal.Queue
	buf    hal.Buffer
	size   uint64
	label  string
}

// NewUniformBuffer allocates a size-byte uniform buffer.
func NewUniformBuffer(device hal.Device, queue hal.Queue, label string, size uint64) (*UniformBuffer, error) {
	if size == 0 {
		return nil, fmt.Errorf("%w: uniform %q has zero size", ErrSizeMismatch, label)
	}
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	slogger().Debug("gpu: uniform buffer created", "label", label, "size", size)
	return &UniformBuffer{device: device, queue: queue, buf: buf, size: size, label: label}, nil
}

// Write replaces the buffer contents. len(data) must equal Size.
func (u *UniformBuffer) Write(data []byte) error {
	if uint64(len(data)) != u.size {
		return fmt.Errorf("%w: %s expects %d bytes, got %d", ErrSizeMismatch, u.label, u.size, len(data))
	}
	if err := u.queue.WriteBuffer(u.buf, 0, data); err != nil {
		return fmt.Errorf("write %s: %w", u.label, err)
	}
	return nil
}

// Buffer returns the HAL buffer.
func (u *UniformBuffer) Buffer() hal.Buffer { return u.buf }

// Size returns the buffer size in bytes.
func (u *UniformBuffer) Size() uint64 { return u.size }

// Binding returns the whole buffer as a bind group resource.
func (u *UniformBuffer) Binding() gputypes.BufferBinding {
	return gputypes.BufferBinding{Buffer: u.buf.NativeHandle(), Offset: 0, Size: u.size}
}

// Destroy releases the buffer.
func (u *UniformBuffer) Destroy() {
	if u.buf != nil {
		u.device.DestroyBuffer(u.buf)
		u.buf = nil
	}
}

// InstanceBuffer holds one InstanceRaw per instance. Its length is fixed at
// creation; the instance set is never resized at runtime.
type InstanceBuffer struct {
	device hal.Device
	queue  hal.Queue
	buf    hal.Buffer
	count  uint32
}

// NewInstanceBuffer allocates count*InstanceRawSize bytes and uploads
// initial when it is not nil.
func NewInstanceBuffer(device hal.Device, queue hal.Queue, initial []world.InstanceRaw) (*InstanceBuffer, error) {
	if len(initial) == 0 {
		return nil, fmt.Errorf("%w: empty instance set", ErrInstanceCountMismatch)
	}
	data := world.EncodeInstances(initial)
	buf, err := createAndUploadBuffer(device, queue, "instance_buffer", data,
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	return &InstanceBuffer{device: device, queue: queue, buf: buf, count: uint32(len(initial))}, nil
}

// Write uploads raw. len(raw) must equal Count.
func (b *InstanceBuffer) Write(raw []world.InstanceRaw) error {
	if len(raw) != int(b.count) {
		return fmt.Errorf("%w: buffer holds %d, got %d", ErrInstanceCountMismatch, b.count, len(raw))
	}
	if err := b.queue.WriteBuffer(b.buf, 0, world.EncodeInstances(raw)); err != nil {
		return fmt.Errorf("write instance buffer: %w", err)
	}
	return nil
}

// Buffer returns the HAL buffer.
func (b *InstanceBuffer) Buffer() hal.Buffer { return b.buf }

// Count returns the fixed instance count.
func (b *InstanceBuffer) Count() uint32 { return b.count }

// Destroy releases the buffer.
func (b *InstanceBuffer) Destroy() {
	if b.buf != nil {
		b.device.DestroyBuffer(b.buf)
		b.buf = nil
	}
}

// createAndUploadBuffer creates a buffer sized to data (padded to 4 bytes)
// and writes data into it.
func createAndUploadBuffer(device hal.Device, queue hal.Queue, label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	size := alignUp4(uint64(len(data)))
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	if uint64(len(data)) != size {
		padded := make([]byte, size)
		copy(padded, data)
		data = padded
	}
	if err := queue.WriteBuffer(buf, 0, data); err != nil {
		device.DestroyBuffer(buf)
		return nil, fmt.Errorf("upload %s: %w", label, err)
	}
	slogger().Debug("gpu: buffer uploaded", "label", label, "size", size)
	return buf, nil
}

func alignUp4(n uint64) uint64 {
	return (n + 3) &^ 3
}
