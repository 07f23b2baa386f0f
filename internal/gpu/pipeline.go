package gpu

import (
	"fmt"

	"github.com/gogpu/g3d/world"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// PipelineConfig selects the pipelines a PipelineSet builds.
type PipelineConfig struct {
	// ColorFormat is the surface format the pipelines render into.
	ColorFormat gputypes.TextureFormat

	// DepthFormat enables depth testing (Less, write enabled). Zero
	// (TextureFormatUndefined) disables it.
	DepthFormat gputypes.TextureFormat

	// Lighting builds the lit main pipeline with a light bind group at
	// slot 2. Without it the main pipeline uses only material and camera.
	Lighting bool

	// LightPass builds the light visualization pipeline. Requires Lighting.
	LightPass bool
}

// PipelineSet holds the main pipeline and the optional light pipeline,
// built once and immutable afterwards.
type PipelineSet struct {
	device hal.Device
	config PipelineConfig

	layouts *Layouts

	mainShader  hal.ShaderModule
	mainLayout  hal.PipelineLayout
	main        hal.RenderPipeline
	lightShader hal.ShaderModule
	lightLayout hal.PipelineLayout
	light       hal.RenderPipeline
}

// NewPipelineSet compiles the shaders and creates the pipelines.
func NewPipelineSet(device hal.Device, cfg PipelineConfig) (*PipelineSet, error) {
	if cfg.ColorFormat == gputypes.TextureFormatUndefined {
		return nil, fmt.Errorf("%w: pipeline color format", ErrMissingBinding)
	}
	if cfg.LightPass && !cfg.Lighting {
		return nil, fmt.Errorf("%w: light pass without lighting", ErrMissingBinding)
	}

	layouts, err := NewLayouts(device)
	if err != nil {
		return nil, err
	}
	p := &PipelineSet{device: device, config: cfg, layouts: layouts}

	if err := p.createMain(); err != nil {
		p.Destroy()
		return nil, err
	}
	if cfg.LightPass {
		if err := p.createLight(); err != nil {
			p.Destroy()
			return nil, err
		}
	}
	slogger().Debug("gpu: pipelines created",
		"color", cfg.ColorFormat, "depth", cfg.DepthFormat,
		"lighting", cfg.Lighting, "light_pass", cfg.LightPass)
	return p, nil
}

func (p *PipelineSet) createMain() error {
	source, label := unlitShaderSource, "unlit_shader"
	groups := []hal.BindGroupLayout{p.layouts.Material, p.layouts.Camera}
	if p.config.Lighting {
		source, label = litShaderSource, "shader"
		groups = append(groups, p.layouts.Light)
	}

	var err error
	p.mainShader, err = createShaderModule(p.device, label, source)
	if err != nil {
		return err
	}
	p.mainLayout, err = p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "render_pipeline_layout",
		BindGroupLayouts: groups,
	})
	if err != nil {
		return fmt.Errorf("create render pipeline layout: %w", err)
	}
	p.main, err = p.createPipeline("render_pipeline", p.mainLayout, p.mainShader,
		[]gputypes.VertexBufferLayout{world.ModelVertex{}.Layout(), world.InstanceLayout()})
	return err
}

func (p *PipelineSet) createLight() error {
	var err error
	p.lightShader, err = createShaderModule(p.device, "light_shader", lightShaderSource)
	if err != nil {
		return err
	}
	p.lightLayout, err = p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "light_pipeline_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.layouts.Camera, p.layouts.Light},
	})
	if err != nil {
		return fmt.Errorf("create light pipeline layout: %w", err)
	}
	p.light, err = p.createPipeline("light_render_pipeline", p.lightLayout, p.lightShader,
		[]gputypes.VertexBufferLayout{world.ModelVertex{}.Layout()})
	return err
}

// createPipeline builds a render pipeline with the fixed state shared by
// every pipeline in the set.
func (p *PipelineSet) createPipeline(label string, layout hal.PipelineLayout, shader hal.ShaderModule, buffers []gputypes.VertexBufferLayout) (hal.RenderPipeline, error) {
	blend := gputypes.BlendStateReplace()
	desc := &hal.RenderPipelineDescriptor{
		Label:  label,
		Layout: layout,
		Vertex: hal.VertexState{
			Module:     shader,
			EntryPoint: vertexEntryPoint,
			Buffers:    buffers,
		},
		Fragment: &hal.FragmentState{
			Module:     shader,
			EntryPoint: fragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    p.config.ColorFormat,
					Blend:     &blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  gputypes.CullModeBack,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}
	if p.config.DepthFormat != gputypes.TextureFormatUndefined {
		desc.DepthStencil = &hal.DepthStencilState{
			Format:            p.config.DepthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      gputypes.CompareFunctionLess,
			StencilFront:      hal.StencilFaceState{Compare: gputypes.CompareFunctionAlways},
			StencilBack:       hal.StencilFaceState{Compare: gputypes.CompareFunctionAlways},
		}
	}

	pipeline, err := p.device.CreateRenderPipeline(desc)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	return pipeline, nil
}

// Main returns the main pipeline.
func (p *PipelineSet) Main() hal.RenderPipeline { return p.main }

// Light returns the light pipeline, nil when the light pass is disabled.
func (p *PipelineSet) Light() hal.RenderPipeline { return p.light }

// Layouts returns the bind group layouts.
func (p *PipelineSet) Layouts() *Layouts { return p.layouts }

// Config returns the configuration the set was built with.
func (p *PipelineSet) Config() PipelineConfig { return p.config }

// Destroy releases all pipeline resources in reverse creation order.
func (p *PipelineSet) Destroy() {
	if p.light != nil {
		p.device.DestroyRenderPipeline(p.light)
		p.light = nil
	}
	if p.lightLayout != nil {
		p.device.DestroyPipelineLayout(p.lightLayout)
		p.lightLayout = nil
	}
	if p.lightShader != nil {
		p.device.DestroyShaderModule(p.lightShader)
		p.lightShader = nil
	}
	if p.main != nil {
		p.device.DestroyRenderPipeline(p.main)
		p.main = nil
	}
	if p.mainLayout != nil {
		p.device.DestroyPipelineLayout(p.mainLayout)
		p.mainLayout = nil
	}
	if p.mainShader != nil {
		p.device.DestroyShaderModule(p.mainShader)
		p.mainShader = nil
	}
	if p.layouts != nil {
		p.layouts.Destroy()
		p.layouts = nil
	}
}
