package gpu

import (
	"fmt"
	"testing"
	"unsafe"

	"github.com/gogpu/g3d/world"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// createNoopDevice opens a device on the noop backend. Buffers keep their
// contents in memory, so uploads can be read back with readBuffer.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

// readBuffer copies size bytes out of a noop buffer.
func readBuffer(t *testing.T, device hal.Device, buf hal.Buffer, size uint64) []byte {
	t.Helper()
	mapping, err := device.MapBuffer(buf, 0, size)
	if err != nil {
		t.Fatalf("MapBuffer failed: %v", err)
	}
	defer func() { _ = device.UnmapBuffer(buf) }()
	out := make([]byte, size)
	copy(out, unsafe.Slice((*byte)(mapping.Ptr), size))
	return out
}

// fakeResource stands in for any HAL object. Its name shows up in
// recorded calls.
type fakeResource struct {
	name string
}

func (r *fakeResource) Destroy()              {}
func (r *fakeResource) NativeHandle() uintptr { return 0 }

func resourceName(x any) string {
	if r, ok := x.(*fakeResource); ok {
		return r.name
	}
	return fmt.Sprintf("%T", x)
}

// recordingPass records every pass call as a short string.
type recordingPass struct {
	calls []string
}

func (p *recordingPass) SetPipeline(pipeline hal.RenderPipeline) {
	p.calls = append(p.calls, "pipeline "+resourceName(pipeline))
}

func (p *recordingPass) SetBindGroup(index uint32, group hal.BindGroup, _ []uint32) {
	p.calls = append(p.calls, fmt.Sprintf("group %d %s", index, resourceName(group)))
}

func (p *recordingPass) SetVertexBuffer(slot uint32, buffer hal.Buffer, _ uint64) {
	p.calls = append(p.calls, fmt.Sprintf("vertex %d %s", slot, resourceName(buffer)))
}

func (p *recordingPass) SetIndexBuffer(buffer hal.Buffer, format gputypes.IndexFormat, _ uint64) {
	p.calls = append(p.calls, fmt.Sprintf("index %s %d", resourceName(buffer), format))
}

func (p *recordingPass) DrawIndexed(indexCount, instanceCount, _ uint32, _ int32, _ uint32) {
	p.calls = append(p.calls, fmt.Sprintf("draw %d x%d", indexCount, instanceCount))
}

// fakeSurface is a Surface whose Acquire fails with the queued errors
// before succeeding.
type fakeSurface struct {
	formats     []gputypes.TextureFormat
	acquireErrs []error
	presentErr  error
	configErr   error

	configs      []SurfaceConfig
	acquires     int
	presents     int
	discards     int
	unconfigured int
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{formats: []gputypes.TextureFormat{gputypes.TextureFormatBGRA8UnormSrgb}}
}

func (s *fakeSurface) Formats() []gputypes.TextureFormat { return s.formats }

func (s *fakeSurface) Configure(_ hal.Device, cfg SurfaceConfig) error {
	if s.configErr != nil {
		return s.configErr
	}
	s.configs = append(s.configs, cfg)
	return nil
}

func (s *fakeSurface) Acquire() (hal.TextureView, error) {
	s.acquires++
	if len(s.acquireErrs) > 0 {
		err := s.acquireErrs[0]
		s.acquireErrs = s.acquireErrs[1:]
		return nil, err
	}
	return &fakeResource{name: "surface_view"}, nil
}

func (s *fakeSurface) Present() error {
	if s.presentErr != nil {
		return s.presentErr
	}
	s.presents++
	return nil
}

func (s *fakeSurface) Discard() { s.discards++ }

func (s *fakeSurface) Unconfigure() { s.unconfigured++ }

// failingDevice wraps a device and fails the calls whose error is set.
type failingDevice struct {
	hal.Device
	textureErr error
	encoderErr error
}

func (d *failingDevice) CreateTexture(desc *hal.TextureDescriptor) (hal.Texture, error) {
	if d.textureErr != nil {
		return nil, d.textureErr
	}
	return d.Device.CreateTexture(desc)
}

func (d *failingDevice) CreateCommandEncoder(desc *hal.CommandEncoderDescriptor) (hal.CommandEncoder, error) {
	if d.encoderErr != nil {
		return nil, d.encoderErr
	}
	return d.Device.CreateCommandEncoder(desc)
}

// fakeGeometry returns geometry backed by named fake buffers.
func fakeGeometry(name string, indexCount uint32) *GeometryBuffer {
	return &GeometryBuffer{
		vertex:      &fakeResource{name: name + "_vb"},
		index:       &fakeResource{name: name + "_ib"},
		indexFormat: gputypes.IndexFormatUint16,
		indexCount:  indexCount,
	}
}

// fakePipelines returns a PipelineSet with named fake pipelines.
func fakePipelines(cfg PipelineConfig) *PipelineSet {
	p := &PipelineSet{config: cfg, main: &fakeResource{name: "main"}}
	if cfg.LightPass {
		p.light = &fakeResource{name: "light"}
	}
	return p
}

// fakeScene returns a scene of one cube drawn count times.
func fakeScene(count uint32) *FrameScene {
	return &FrameScene{
		Meshes: []DrawMesh{{
			Geometry: fakeGeometry("cube", 36),
			Material: &fakeResource{name: "material"},
		}},
		Camera:    &fakeResource{name: "camera"},
		Light:     &fakeResource{name: "light_uniform"},
		Instances: &InstanceBuffer{buf: &fakeResource{name: "instances"}, count: count},
	}
}

// gridRaw returns the raw instance data of a perRow x perRow grid.
func gridRaw(t *testing.T, perRow int) []world.InstanceRaw {
	t.Helper()
	cfg := world.DefaultGridConfig()
	cfg.PerRow = perRow
	set, err := world.NewInstanceGrid(cfg)
	if err != nil {
		t.Fatalf("NewInstanceGrid: %v", err)
	}
	return set.Raw()
}
