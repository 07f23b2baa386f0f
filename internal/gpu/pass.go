package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Bind group slots of the main pipeline.
const (
	mainMaterialGroup = 0
	mainCameraGroup   = 1
	mainLightGroup    = 2
)

// Bind group slots of the light pipeline.
const (
	lightCameraGroup = 0
	lightLightGroup  = 1
)

// Vertex buffer slots.
const (
	meshVertexSlot     = 0
	instanceVertexSlot = 1
)

// passEncoder is the part of hal.RenderPassEncoder a frame records with.
type passEncoder interface {
	SetPipeline(pipeline hal.RenderPipeline)
	SetBindGroup(index uint32, group hal.BindGroup, offsets []uint32)
	SetVertexBuffer(slot uint32, buffer hal.Buffer, offset uint64)
	SetIndexBuffer(buffer hal.Buffer, format gputypes.IndexFormat, offset uint64)
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32)
}

// DrawMesh is one mesh of the scene with its material bind group.
type DrawMesh struct {
	Geometry *GeometryBuffer
	Material hal.BindGroup
}

// FrameScene is everything a frame binds. All bind groups and buffers are
// owned by the caller and must outlive the Render call.
type FrameScene struct {
	Meshes    []DrawMesh
	Camera    hal.BindGroup
	Light     hal.BindGroup
	Instances *InstanceBuffer
}

// validate checks that every binding the configured pipelines need is
// present. A missing binding is a setup error, never a skipped draw.
func (s *FrameScene) validate(p *PipelineSet) error {
	switch {
	case p == nil || p.Main() == nil:
		return fmt.Errorf("%w: main pipeline", ErrMissingBinding)
	case s.Camera == nil:
		return fmt.Errorf("%w: camera bind group", ErrMissingBinding)
	case p.Config().Lighting && s.Light == nil:
		return fmt.Errorf("%w: light bind group", ErrMissingBinding)
	case p.Config().LightPass && p.Light() == nil:
		return fmt.Errorf("%w: light pipeline", ErrMissingBinding)
	case s.Instances == nil || s.Instances.Buffer() == nil || s.Instances.Count() == 0:
		return fmt.Errorf("%w: instance buffer", ErrMissingBinding)
	}
	for i, m := range s.Meshes {
		if m.Geometry == nil || m.Geometry.VertexBuffer() == nil || m.Geometry.IndexBuffer() == nil {
			return fmt.Errorf("%w: mesh %d geometry", ErrMissingBinding, i)
		}
		if m.Material == nil {
			return fmt.Errorf("%w: mesh %d material", ErrMissingBinding, i)
		}
	}
	return nil
}

// recordFrame records the light pass (when configured) and then the main
// instanced pass. The scene must have been validated.
func recordFrame(pass passEncoder, p *PipelineSet, s *FrameScene) {
	if p.Config().LightPass {
		pass.SetPipeline(p.Light())
		pass.SetBindGroup(lightCameraGroup, s.Camera, nil)
		pass.SetBindGroup(lightLightGroup, s.Light, nil)
		for _, m := range s.Meshes {
			g := m.Geometry
			pass.SetVertexBuffer(meshVertexSlot, g.VertexBuffer(), 0)
			pass.SetIndexBuffer(g.IndexBuffer(), g.IndexFormat(), 0)
			pass.DrawIndexed(g.IndexCount(), 1, 0, 0, 0)
		}
	}

	pass.SetPipeline(p.Main())
	for _, m := range s.Meshes {
		g := m.Geometry
		pass.SetBindGroup(mainMaterialGroup, m.Material, nil)
		pass.SetBindGroup(mainCameraGroup, s.Camera, nil)
		if p.Config().Lighting {
			pass.SetBindGroup(mainLightGroup, s.Light, nil)
		}
		pass.SetVertexBuffer(meshVertexSlot, g.VertexBuffer(), 0)
		pass.SetVertexBuffer(instanceVertexSlot, s.Instances.Buffer(), 0)
		pass.SetIndexBuffer(g.IndexBuffer(), g.IndexFormat(), 0)
		pass.DrawIndexed(g.IndexCount(), s.Instances.Count(), 0, 0, 0)
	}
}
