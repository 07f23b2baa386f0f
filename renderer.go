package g3d

import (
	"fmt"
	"time"

	"github.com/gogpu/g3d/internal/gpu"
	"github.com/gogpu/g3d/world"
	"github.com/gogpu/wgpu/hal"
)

// Renderer draws a grid of model instances, lit by an orbiting point light,
// into a Surface.
//
// A typical loop:
//
//	for !r.ExitRequested() {
//	    for _, ev := range pollEvents() {
//	        r.HandleInput(ev)
//	    }
//	    if err := r.Update(dt); err != nil {
//	        return err
//	    }
//	    if err := r.Render(); g3d.IsFatal(err) {
//	        return err
//	    }
//	}
//
// Renderer is not safe for concurrent use.
type Renderer struct {
	device hal.Device
	queue  hal.Queue
	config Config

	ctx       *gpu.Context
	pipelines *gpu.PipelineSet
	frames    *gpu.FrameOrchestrator

	camera     *world.Camera
	projection *world.Projection
	controller *world.CameraController
	instances  *world.InstanceSet
	light      world.Light

	cameraBuf   *gpu.UniformBuffer
	cameraGroup hal.BindGroup
	lightBuf    *gpu.UniformBuffer
	lightGroup  hal.BindGroup
	instanceBuf *gpu.InstanceBuffer

	textures *gpu.TextureCache
	model    *gpuModel

	rotating bool
	exit     bool
	closed   bool
}

// gpuModel is a world.Model uploaded to the device. Its textures are
// borrowed from the renderer's texture cache.
type gpuModel struct {
	device    hal.Device
	cache     *gpu.TextureCache
	geometry  []*gpu.GeometryBuffer
	textures  []*gpu.Texture
	materials []hal.BindGroup
	draws     []gpu.DrawMesh
}

func (m *gpuModel) destroy() {
	if m == nil {
		return
	}
	for _, g := range m.geometry {
		g.Destroy()
	}
	for _, group := range m.materials {
		m.device.DestroyBindGroup(group)
	}
	for _, t := range m.textures {
		m.cache.Release(t)
	}
	m.geometry, m.materials, m.textures, m.draws = nil, nil, nil, nil
}

// New creates a renderer drawing into surface at width x height. The
// surface is configured with its preferred format. Without WithModel the
// scene shows a textured cube at every instance.
//
// The device stays owned by the caller and must outlive the renderer.
func New(dev *Device, surface Surface, width, height uint32, opts ...Option) (_ *Renderer, err error) {
	if dev == nil || dev.HAL() == nil || surface == nil {
		return nil, fmt.Errorf("%w: nil device or surface", ErrInvalidConfig)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	cfg := o.config
	cfg.Width, cfg.Height = width, height
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Renderer{device: dev.HAL(), queue: dev.Queue(), config: cfg}
	defer func() {
		if err != nil {
			r.release()
		}
	}()

	r.camera = cfg.worldCamera()
	r.projection, err = cfg.worldProjection(width, height)
	if err != nil {
		return nil, fmt.Errorf("g3d: %w", err)
	}
	r.controller = world.NewCameraController(cfg.Controller.Speed, cfg.Controller.Sensitivity)
	r.instances, err = world.NewInstanceGrid(cfg.worldGrid())
	if err != nil {
		return nil, fmt.Errorf("g3d: %w", err)
	}
	r.light = cfg.worldLight()

	r.ctx, err = gpu.NewContext(r.device, r.queue, surface, width, height,
		gpu.ContextOptions{PresentMode: cfg.presentMode()})
	if err != nil {
		return nil, fmt.Errorf("g3d: create context: %w", err)
	}
	r.pipelines, err = gpu.NewPipelineSet(r.device, cfg.pipelineConfig(r.ctx.ColorFormat()))
	if err != nil {
		return nil, fmt.Errorf("g3d: create pipelines: %w", err)
	}
	if err = r.createSceneBindings(); err != nil {
		return nil, fmt.Errorf("g3d: %w", err)
	}
	if err = r.writeUniforms(); err != nil {
		return nil, fmt.Errorf("g3d: upload scene: %w", err)
	}

	r.frames = gpu.NewFrameOrchestrator(r.ctx, r.pipelines)
	r.frames.SetClearColor(cfg.clearColor())
	r.textures = gpu.NewTextureCache(r.device, r.queue, gpu.TextureCacheConfig{MaxMemoryMB: cfg.TextureBudgetMB})

	model := world.CubeModel()
	if o.model != nil {
		model = *o.model
	}
	if err = r.LoadModel(model); err != nil {
		return nil, err
	}

	Logger().Info("g3d: renderer created",
		"width", width, "height", height,
		"instances", r.instances.Len(),
		"lighting", cfg.Light.Enabled)
	return r, nil
}

// createSceneBindings creates the camera, light and instance buffers and
// their bind groups.
func (r *Renderer) createSceneBindings() error {
	layouts := r.pipelines.Layouts()
	var err error

	r.cameraBuf, err = gpu.NewUniformBuffer(r.device, r.queue, "camera_buffer", world.CameraUniformSize)
	if err != nil {
		return err
	}
	r.cameraGroup, err = layouts.UniformBindGroup("camera_bind_group", layouts.Camera, r.cameraBuf)
	if err != nil {
		return err
	}

	if r.config.Light.Enabled {
		r.lightBuf, err = gpu.NewUniformBuffer(r.device, r.queue, "light_buffer", world.LightUniformSize)
		if err != nil {
			return err
		}
		r.lightGroup, err = layouts.UniformBindGroup("light_bind_group", layouts.Light, r.lightBuf)
		if err != nil {
			return err
		}
	}

	r.instanceBuf, err = gpu.NewInstanceBuffer(r.device, r.queue, r.instances.Raw())
	return err
}

// writeUniforms uploads the current camera, light and instance state.
func (r *Renderer) writeUniforms() error {
	if err := r.writeCamera(); err != nil {
		return err
	}
	if r.lightBuf != nil {
		if err := r.lightBuf.Write(r.light.Uniform().Bytes()); err != nil {
			return fmt.Errorf("light: %w", err)
		}
	}
	if err := r.instanceBuf.Write(r.instances.Raw()); err != nil {
		return fmt.Errorf("instances: %w", err)
	}
	return nil
}

func (r *Renderer) writeCamera() error {
	if err := r.cameraBuf.Write(world.NewCameraUniform(r.camera, r.projection).Bytes()); err != nil {
		return fmt.Errorf("camera: %w", err)
	}
	r.projection.ClearDirty()
	return nil
}

// LoadModel uploads m and draws it at every instance from the next frame
// on. The previous model is released only after m uploaded successfully.
// Materials are cached by name, so reloading a model, or loading another
// one sharing material names, reuses the uploaded textures.
func (r *Renderer) LoadModel(m world.Model) error {
	if r.closed {
		return ErrClosed
	}
	if len(m.Meshes) == 0 {
		return fmt.Errorf("g3d: load model: %w: no meshes", world.ErrEmptyMesh)
	}
	if err := m.Validate(); err != nil {
		return fmt.Errorf("g3d: load model: %w", err)
	}

	layouts := r.pipelines.Layouts()
	gm := &gpuModel{device: r.device, cache: r.textures}
	for i, mat := range m.Materials {
		tex, err := r.textures.Acquire(mat.Name, mat.Diffuse)
		if err != nil {
			gm.destroy()
			return fmt.Errorf("g3d: load model: %w", err)
		}
		gm.textures = append(gm.textures, tex)
		label := mat.Name
		if label == "" {
			label = fmt.Sprintf("material_%d", i)
		}
		group, err := layouts.MaterialBindGroup(label, tex)
		if err != nil {
			gm.destroy()
			return fmt.Errorf("g3d: load model: %w", err)
		}
		gm.materials = append(gm.materials, group)
	}
	for i := range m.Meshes {
		mesh := &m.Meshes[i]
		geo, err := gpu.NewGeometryBuffer(r.device, r.queue, mesh.Name, world.EncodeVertices(mesh.Vertices), mesh.Indices)
		if err != nil {
			gm.destroy()
			return fmt.Errorf("g3d: load model: %w", err)
		}
		gm.geometry = append(gm.geometry, geo)
		gm.draws = append(gm.draws, gpu.DrawMesh{Geometry: geo, Material: gm.materials[mesh.Material]})
	}

	old := r.model
	r.model = gm
	old.destroy()

	Logger().Debug("g3d: model loaded", "meshes", len(m.Meshes), "materials", len(m.Materials))
	return nil
}

// Resize reconfigures the surface and depth buffer and updates the
// projection aspect ratio. A zero dimension, as reported for minimized
// windows, is ignored.
func (r *Renderer) Resize(width, height uint32) error {
	if r.closed {
		return ErrClosed
	}
	applied, err := r.frames.Resize(width, height)
	if err != nil || !applied {
		return err
	}
	r.config.Width, r.config.Height = width, height
	r.projection.Resize(width, height)
	if err := r.writeCamera(); err != nil {
		return &FrameError{Kind: FrameErrorFatal, Op: "resize", Err: err}
	}
	return nil
}

// HandleInput feeds ev to the camera controller. Escape requests exit.
// Mouse motion rotates the camera only while the left button is held.
func (r *Renderer) HandleInput(ev Event) InputResult {
	switch e := ev.(type) {
	case KeyEvent:
		if e.Key == KeyEscape {
			if !e.Pressed {
				return InputIgnored
			}
			r.exit = true
			return InputExitRequested
		}
		m, ok := e.Key.movement()
		if !ok {
			return InputIgnored
		}
		r.controller.SetMovement(m, e.Pressed)
		return InputConsumed
	case MouseButtonEvent:
		if e.Button != MouseButtonLeft {
			return InputIgnored
		}
		r.rotating = e.Pressed
		return InputConsumed
	case MouseMotionEvent:
		if !r.rotating {
			return InputIgnored
		}
		r.controller.ProcessMouse(e.DX, e.DY)
		return InputConsumed
	case ScrollEvent:
		r.controller.ProcessScroll(e.Delta, e.Lines)
		return InputConsumed
	}
	return InputIgnored
}

// Update advances the scene by dt: applies pending camera input, spins the
// instances, moves the light along its orbit and uploads the result.
func (r *Renderer) Update(dt time.Duration) error {
	if r.closed {
		return ErrClosed
	}
	s := float32(dt.Seconds())
	r.controller.UpdateCamera(r.camera, s)
	r.instances.Update(s)
	if r.config.Light.Enabled {
		r.light.Update(s)
	}
	if err := r.writeUniforms(); err != nil {
		return fmt.Errorf("g3d: update: %w", err)
	}
	return nil
}

// Render draws and presents one frame. Lost or suboptimal surfaces are
// reconfigured and the frame skipped; outdated surfaces and timeouts skip
// the frame. Both return a non-fatal *FrameError. Use IsFatal to decide
// whether to keep rendering.
func (r *Renderer) Render() error {
	if r.closed {
		return ErrClosed
	}
	err := r.frames.Render(r.scene())
	if err != nil && IsFatal(err) {
		Logger().Error("g3d: frame failed", "err", err)
	}
	return err
}

func (r *Renderer) scene() *gpu.FrameScene {
	s := &gpu.FrameScene{
		Camera:    r.cameraGroup,
		Light:     r.lightGroup,
		Instances: r.instanceBuf,
	}
	if r.model != nil {
		s.Meshes = r.model.draws
	}
	return s
}

// Camera returns the camera. Changes take effect on the next Update.
func (r *Renderer) Camera() *world.Camera { return r.camera }

// Projection returns the projection.
func (r *Renderer) Projection() *world.Projection { return r.projection }

// Instances returns the instance grid.
func (r *Renderer) Instances() *world.InstanceSet { return r.instances }

// Light returns the current light state.
func (r *Renderer) Light() world.Light { return r.light }

// Config returns the configuration the renderer runs with. Width and Height
// follow Resize.
func (r *Renderer) Config() Config { return r.config }

// SurfaceConfig returns the configuration currently applied to the surface.
func (r *Renderer) SurfaceConfig() SurfaceConfig { return r.ctx.Config() }

// Stats returns the frame counters.
func (r *Renderer) Stats() FrameStats { return r.frames.Stats() }

// TextureStats returns the material texture cache usage.
func (r *Renderer) TextureStats() TextureStats {
	if r.textures == nil {
		return TextureStats{}
	}
	return r.textures.Stats()
}

// ExitRequested reports whether Escape was pressed.
func (r *Renderer) ExitRequested() bool { return r.exit }

// Close releases every GPU resource the renderer created and unconfigures
// the surface. The device is left open. Close is idempotent.
func (r *Renderer) Close() {
	if r.closed {
		return
	}
	r.release()
	r.closed = true
}

func (r *Renderer) release() {
	r.model.destroy()
	r.model = nil
	if r.textures != nil {
		r.textures.Close()
	}

	for _, group := range []*hal.BindGroup{&r.lightGroup, &r.cameraGroup} {
		if *group != nil {
			r.device.DestroyBindGroup(*group)
			*group = nil
		}
	}
	if r.instanceBuf != nil {
		r.instanceBuf.Destroy()
		r.instanceBuf = nil
	}
	if r.lightBuf != nil {
		r.lightBuf.Destroy()
		r.lightBuf = nil
	}
	if r.cameraBuf != nil {
		r.cameraBuf.Destroy()
		r.cameraBuf = nil
	}
	if r.pipelines != nil {
		r.pipelines.Destroy()
		r.pipelines = nil
	}
	if r.ctx != nil {
		r.ctx.Destroy()
	}
}
