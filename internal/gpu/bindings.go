package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Layouts holds the bind group layouts shared by all pipelines.
//
//	material: binding 0 texture_2d<f32>, binding 1 sampler (fragment)
//	camera:   binding 0 uniform Camera (vertex+fragment)
//	light:    binding 0 uniform Light (vertex+fragment)
type Layouts struct {
	device hal.Device

	Material hal.BindGroupLayout
	Camera   hal.BindGroupLayout
	Light    hal.BindGroupLayout
}

// NewLayouts creates the three bind group layouts.
func NewLayouts(device hal.Device) (*Layouts, error) {
	l := &Layouts{device: device}
	var err error

	l.Material, err = device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "texture_bind_group_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create material layout: %w", err)
	}

	l.Camera, err = createUniformLayout(device, "camera_bind_group_layout")
	if err != nil {
		l.Destroy()
		return nil, err
	}
	l.Light, err = createUniformLayout(device, "light_bind_group_layout")
	if err != nil {
		l.Destroy()
		return nil, err
	}
	return l, nil
}

func createUniformLayout(device hal.Device, label string) (hal.BindGroupLayout, error) {
	layout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: label,
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	return layout, nil
}

// UniformBindGroup binds ub at binding 0 of layout.
func (l *Layouts) UniformBindGroup(label string, layout hal.BindGroupLayout, ub *UniformBuffer) (hal.BindGroup, error) {
	if layout == nil || ub == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingBinding, label)
	}
	group, err := l.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   label,
		Layout:  layout,
		Entries: []gputypes.BindGroupEntry{{Binding: 0, Resource: ub.Binding()}},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	return group, nil
}

// MaterialBindGroup binds tex and its sampler to the material layout.
func (l *Layouts) MaterialBindGroup(label string, tex *Texture) (hal.BindGroup, error) {
	if tex == nil || tex.View() == nil || tex.Sampler() == nil {
		return nil, fmt.Errorf("%w: %s texture", ErrMissingBinding, label)
	}
	group, err := l.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  label,
		Layout: l.Material,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.TextureViewBinding{TextureView: tex.View().NativeHandle()}},
			{Binding: 1, Resource: gputypes.SamplerBinding{Sampler: tex.Sampler().NativeHandle()}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	return group, nil
}

// Destroy releases the layouts.
func (l *Layouts) Destroy() {
	for _, layout := range []*hal.BindGroupLayout{&l.Light, &l.Camera, &l.Material} {
		if *layout != nil {
			l.device.DestroyBindGroupLayout(*layout)
			*layout = nil
		}
	}
}
