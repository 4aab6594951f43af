package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Entry points a workload shader must define.
const (
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

// Bindings of the sampled texture in group 0.
const (
	TextureBinding = 0
	SamplerBinding = 1
)

// TexturedShader is drawn when a texture is set without a shader. It covers
// the drawable with one triangle and samples the texture across it.
const TexturedShader = `
@group(0) @binding(0) var tex: texture_2d<f32>;
@group(0) @binding(1) var samp: sampler;

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) uv: vec2<f32>,
}

@vertex
fn vs_main(@builtin(vertex_index) idx: u32) -> VertexOutput {
    let x = f32(i32(idx) / 2) * 4.0 - 1.0;
    let y = f32(i32(idx) % 2) * 4.0 - 1.0;
    var out: VertexOutput;
    out.position = vec4<f32>(x, y, 0.0, 1.0);
    out.uv = vec2<f32>((x + 1.0) * 0.5, (1.0 - y) * 0.5);
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return textureSample(tex, samp, in.uv);
}
`

// workload is the optional render pipeline drawn on every frame. The vertex
// stage takes no buffers; it generates positions from the vertex and
// instance indices. When a texture is uploaded, it is bound with a linear
// sampler in group 0 for every draw.
type workload struct {
	module     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	sampler    hal.Sampler
	bindGroup  hal.BindGroup
	layout     hal.PipelineLayout
	pipeline   hal.RenderPipeline
}

func newWorkload(device hal.Device, source string, d *drawable, sampled *target) (*workload, error) {
	module, err := createShaderModule(device, "gpumark_workload", source)
	if err != nil {
		return nil, err
	}
	w := &workload{module: module}

	var groups []hal.BindGroupLayout
	if sampled != nil && sampled.view != nil {
		if err := w.bindTexture(device, sampled); err != nil {
			w.destroy(device)
			return nil, err
		}
		groups = append(groups, w.bindLayout)
	}

	w.layout, err = device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "gpumark_workload_layout",
		BindGroupLayouts: groups,
	})
	if err != nil {
		w.destroy(device)
		return nil, fmt.Errorf("create pipeline layout: %w", err)
	}

	samples := d.samples
	if samples == 0 {
		samples = 1
	}
	desc := &hal.RenderPipelineDescriptor{
		Label:  "gpumark_workload",
		Layout: w.layout,
		Vertex: hal.VertexState{
			Module:     module,
			EntryPoint: VertexEntryPoint,
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCCW,
		},
		Multisample: gputypes.MultisampleState{
			Count: samples,
			Mask:  0xFFFFFFFF,
		},
		Fragment: &hal.FragmentState{
			Module:     module,
			EntryPoint: FragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{{
				Format:    d.format,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
	}
	if d.depth {
		always := hal.StencilFaceState{Compare: gputypes.CompareFunctionAlways}
		desc.DepthStencil = &hal.DepthStencilState{
			Format:           gputypes.TextureFormatDepth24PlusStencil8,
			DepthCompare:     gputypes.CompareFunctionAlways,
			StencilFront:     always,
			StencilBack:      always,
			StencilReadMask:  0xFF,
			StencilWriteMask: 0xFF,
		}
	}

	w.pipeline, err = device.CreateRenderPipeline(desc)
	if err != nil {
		w.destroy(device)
		return nil, fmt.Errorf("create render pipeline: %w", err)
	}
	return w, nil
}

// bindTexture creates the group 0 layout, the sampler and the bind group for
// the sampled texture.
func (w *workload) bindTexture(device hal.Device, sampled *target) error {
	var err error
	w.bindLayout, err = device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "gpumark_texture_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    TextureBinding,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    SamplerBinding,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create texture bind group layout: %w", err)
	}

	w.sampler, err = device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "gpumark_texture_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		return fmt.Errorf("create texture sampler: %w", err)
	}

	w.bindGroup, err = device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "gpumark_texture_bind_group",
		Layout: w.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: TextureBinding, Resource: gputypes.TextureViewBinding{TextureView: sampled.view.NativeHandle()}},
			{Binding: SamplerBinding, Resource: gputypes.SamplerBinding{Sampler: w.sampler.NativeHandle()}},
		},
	})
	if err != nil {
		return fmt.Errorf("create texture bind group: %w", err)
	}
	return nil
}

// draw records the workload into an open render pass.
func (w *workload) draw(rp hal.RenderPassEncoder, instances uint32) {
	rp.SetPipeline(w.pipeline)
	if w.bindGroup != nil {
		rp.SetBindGroup(0, w.bindGroup, nil)
	}
	rp.Draw(3, instances, 0, 0)
}

func (w *workload) destroy(device hal.Device) {
	if w.pipeline != nil {
		device.DestroyRenderPipeline(w.pipeline)
		w.pipeline = nil
	}
	if w.layout != nil {
		device.DestroyPipelineLayout(w.layout)
		w.layout = nil
	}
	if w.bindGroup != nil {
		device.DestroyBindGroup(w.bindGroup)
		w.bindGroup = nil
	}
	if w.sampler != nil {
		device.DestroySampler(w.sampler)
		w.sampler = nil
	}
	if w.bindLayout != nil {
		device.DestroyBindGroupLayout(w.bindLayout)
		w.bindLayout = nil
	}
	if w.module != nil {
		device.DestroyShaderModule(w.module)
		w.module = nil
	}
}
