// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
	_ "github.com/gogpu/wgpu/hal/vulkan" // register the Vulkan HAL backend

	"github.com/gogpu/gpumark/framebuffer"
	"github.com/gogpu/gpumark/gfx"
)

// Registry names.
const (
	NameVulkan = "vulkan"
	NameNoop   = "noop"
)

// Surface size reported by Create. Rendering is offscreen, so the window
// handle carries no size.
const (
	DefaultWidth  = 1280
	DefaultHeight = 720
)

func init() {
	gfx.Register(NameVulkan, 100, func() gfx.Backend {
		return New(WithVariant(gputypes.BackendVulkan))
	}, func() bool {
		_, ok := hal.GetBackend(gputypes.BackendVulkan)
		return ok
	})
	gfx.Register(NameNoop, 1, func() gfx.Backend {
		return New(WithHAL(noop.API{}))
	}, nil)
}

// Backend renders frames with a gogpu/wgpu HAL device into an offscreen
// drawable. Every Swap encodes one render pass (a clear plus the optional
// workload draw, with the uploaded texture bound) and submits it. With vsync on, Swap also waits for the GPU,
// so the measured frame time includes the GPU work.
type Backend struct {
	name     string
	variant  gputypes.Backend
	api      hal.Backend
	provider gpucontext.DeviceProvider

	shaderSource string
	texture      *texturePixels
	instances    uint32
	clear        gputypes.Color

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	external bool
	info     gfx.DeviceInfo

	target   drawable
	workload *workload
	sampled  target
	vsync    bool
	frames   uint64
}

// New creates a HAL backend. Without options it uses the Vulkan HAL.
func New(opts ...Option) *Backend {
	b := &Backend{
		name:      NameVulkan,
		variant:   gputypes.BackendVulkan,
		instances: 1,
		clear:     gputypes.Color{R: 0, G: 0, B: 0, A: 1},
		target: drawable{
			format:  gputypes.TextureFormatBGRA8Unorm,
			samples: 1,
			depth:   true,
		},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name implements gfx.Backend.
func (b *Backend) Name() string { return b.name }

// Create implements gfx.Backend. It opens the device (or adopts the one
// from the device provider) and builds the workload pipeline.
func (b *Backend) Create(_ any) (int, int, error) {
	var err error
	if b.provider != nil {
		err = b.adoptProvider()
	} else {
		err = b.openDevice()
	}
	if err != nil {
		return 0, 0, err
	}

	if b.texture != nil {
		b.sampled, err = uploadTexture(b.device, b.queue, b.texture)
		if err != nil {
			b.release()
			return 0, 0, fmt.Errorf("%w: %s: %w", gfx.ErrContextRejected, b.name, err)
		}
	}

	source := b.shaderSource
	if source == "" && b.sampled.view != nil {
		source = TexturedShader
	}
	if source != "" {
		b.workload, err = newWorkload(b.device, source, &b.target, &b.sampled)
		if err != nil {
			b.release()
			return 0, 0, fmt.Errorf("%w: %s: %w", gfx.ErrContextRejected, b.name, err)
		}
	}

	gfx.Logger().Info("wgpu: device ready",
		"backend", b.name, "adapter", b.info.Renderer, "external", b.external)
	return DefaultWidth, DefaultHeight, nil
}

func (b *Backend) openDevice() error {
	api := b.api
	if api == nil {
		var ok bool
		api, ok = hal.GetBackend(b.variant)
		if !ok {
			return fmt.Errorf("%w: %s HAL backend not registered", gfx.ErrSurfaceUnavailable, b.variant)
		}
	}

	instance, err := api.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("%w: %s: create instance: %w", gfx.ErrSurfaceUnavailable, b.name, err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return fmt.Errorf("%w: %s: no GPU adapters found", gfx.ErrContextRejected, b.name)
	}

	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return fmt.Errorf("%w: %s: open device: %w", gfx.ErrContextRejected, b.name, err)
	}

	b.instance = instance
	b.device = openDev.Device
	b.queue = openDev.Queue
	b.external = false
	b.info = gfx.DeviceInfo{
		Vendor:          selected.Info.Vendor,
		Renderer:        fmt.Sprintf("%s (%s)", selected.Info.Name, selected.Info.DeviceType),
		Version:         selected.Info.Driver,
		ShadingLanguage: shadingLanguage,
	}
	return nil
}

// adoptProvider takes the device and queue from a host application. The
// provider's Device and Queue must be hal.Device and hal.Queue, either
// directly or through HalDevice/HalQueue accessors.
func (b *Backend) adoptProvider() error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}

	var device, queue any = b.provider.Device(), b.provider.Queue()
	if hp, ok := b.provider.(halProvider); ok {
		device, queue = hp.HalDevice(), hp.HalQueue()
	}
	d, ok := device.(hal.Device)
	if !ok || d == nil {
		return fmt.Errorf("%w: %s: provider device %T is not a hal.Device", gfx.ErrContextRejected, b.name, device)
	}
	q, ok := queue.(hal.Queue)
	if !ok || q == nil {
		return fmt.Errorf("%w: %s: provider queue %T is not a hal.Queue", gfx.ErrContextRejected, b.name, queue)
	}

	if f := b.provider.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
		b.target.format = f
	}
	ai := b.provider.AdapterInfo()
	b.device, b.queue = d, q
	b.external = true
	b.info = gfx.DeviceInfo{
		Renderer:        fmt.Sprintf("%s (%s)", ai.Name, ai.Type),
		ShadingLanguage: shadingLanguage,
	}
	return nil
}

// shadingLanguage names the workload shader language as it reaches the HAL.
const shadingLanguage = "WGSL (SPIR-V via naga)"

// Destroy implements gfx.Backend. A device adopted from a provider is not
// destroyed; the host owns it.
func (b *Backend) Destroy() {
	if b.device != nil {
		if err := b.device.WaitIdle(); err != nil {
			gfx.Logger().Warn("wgpu: wait idle before destroy", "err", err)
		}
	}
	b.release()
	gfx.Logger().Info("wgpu: device released", "backend", b.name)
}

func (b *Backend) release() {
	if b.device != nil {
		if b.workload != nil {
			b.workload.destroy(b.device)
			b.workload = nil
		}
		b.target.destroy(b.device)
		b.sampled.release(b.device)
		if !b.external {
			b.device.Destroy()
		}
	}
	if b.instance != nil {
		b.instance.Destroy()
	}
	b.instance, b.device, b.queue = nil, nil, nil
	b.external = false
}

// Resize implements gfx.Backend. The drawable is recreated only when the
// size changes. With vsync on, Swap waits for the GPU after every frame;
// with it off, frames are only throttled by submission.
func (b *Backend) Resize(width, height int, vsync bool) error {
	if b.device == nil {
		return fmt.Errorf("%w: %s: no device", gfx.ErrNotActive, b.name)
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", gfx.ErrInvalidSize, width, height)
	}
	if err := b.target.ensure(b.device, uint32(width), uint32(height)); err != nil {
		return fmt.Errorf("%w: %s: %w", gfx.ErrContextRejected, b.name, err)
	}
	b.vsync = vsync
	return nil
}

// Swap implements gfx.Backend.
func (b *Backend) Swap() error {
	if b.device == nil || b.target.color.view == nil {
		return fmt.Errorf("%w: %s: no drawable", gfx.ErrNotActive, b.name)
	}

	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "gpumark_frame"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("gpumark_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(b.renderPass())
	if b.workload != nil {
		b.workload.draw(rp, b.instances)
	}
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer b.device.FreeCommandBuffer(cmdBuf)

	idx, err := b.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	if b.vsync && b.queue.PollCompleted() < idx {
		if err := b.device.WaitIdle(); err != nil {
			return fmt.Errorf("wait for GPU: %w", err)
		}
	}
	b.frames++
	return nil
}

func (b *Backend) renderPass() *hal.RenderPassDescriptor {
	color := hal.RenderPassColorAttachment{
		View:       b.target.color.view,
		LoadOp:     gputypes.LoadOpClear,
		StoreOp:    gputypes.StoreOpStore,
		ClearValue: b.clear,
	}
	if b.target.resolve.view != nil {
		color.ResolveTarget = b.target.resolve.view
		color.StoreOp = gputypes.StoreOpDiscard
	}
	desc := &hal.RenderPassDescriptor{
		Label:            "gpumark_frame",
		ColorAttachments: []hal.RenderPassColorAttachment{color},
	}
	if b.target.depthStencil.view != nil {
		desc.DepthStencilAttachment = &hal.RenderPassDepthStencilAttachment{
			View:              b.target.depthStencil.view,
			DepthLoadOp:       gputypes.LoadOpClear,
			DepthStoreOp:      gputypes.StoreOpDiscard,
			DepthClearValue:   1.0,
			StencilLoadOp:     gputypes.LoadOpClear,
			StencilStoreOp:    gputypes.StoreOpDiscard,
			StencilClearValue: 0,
		}
	}
	return desc
}

// HasDisplay implements gfx.Backend. It reports whether a device is open.
func (b *Backend) HasDisplay() bool { return b.device != nil }

// SetClearColor implements gfx.Clearer.
func (b *Backend) SetClearColor(r, g, bl, a float64) {
	b.clear = gputypes.Color{R: r, G: g, B: bl, A: a}
}

// Framebuffer implements gfx.FramebufferDescriber.
func (b *Backend) Framebuffer() *framebuffer.Target { return b.target.describe() }

// DeviceInfo implements gfx.DeviceDescriber.
func (b *Backend) DeviceInfo() gfx.DeviceInfo { return b.info }

// Frames returns the number of submitted frames.
func (b *Backend) Frames() uint64 { return b.frames }
