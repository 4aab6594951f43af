package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gpumark/framebuffer"
)

// target is one texture and its default view.
type target struct {
	tex  hal.Texture
	view hal.TextureView
	desc hal.TextureDescriptor
}

// drawable holds the offscreen render target frames are drawn into:
//   - color: samples x, surface format, RenderAttachment
//   - resolve: 1x, surface format, RenderAttachment | CopySrc (only when samples > 1)
//   - depth/stencil: samples x, Depth24PlusStencil8 (optional)
type drawable struct {
	color        target
	resolve      target
	depthStencil target

	format  gputypes.TextureFormat
	samples uint32
	depth   bool
	width   uint32
	height  uint32
}

// ensure (re)creates the attachments when the size changed. It is a no-op
// when the drawable already matches. The new attachments are built before
// the old ones are released, so a failure leaves the drawable as it was.
func (d *drawable) ensure(device hal.Device, w, h uint32) error {
	if d.width == w && d.height == h && d.color.tex != nil {
		return nil
	}

	next := drawable{format: d.format, samples: d.samples, depth: d.depth}
	if err := next.build(device, w, h); err != nil {
		next.destroy(device)
		return err
	}
	d.destroy(device)
	*d = next
	return nil
}

func (d *drawable) build(device hal.Device, w, h uint32) error {
	samples := d.samples
	if samples == 0 {
		samples = 1
	}
	size := hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}

	colorUsage := gputypes.TextureUsageRenderAttachment
	if samples == 1 {
		colorUsage |= gputypes.TextureUsageCopySrc
	}
	if err := d.color.create(device, hal.TextureDescriptor{
		Label:         "gpumark_color",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   samples,
		Dimension:     gputypes.TextureDimension2D,
		Format:        d.format,
		Usage:         colorUsage,
	}); err != nil {
		return err
	}

	if samples > 1 {
		if err := d.resolve.create(device, hal.TextureDescriptor{
			Label:         "gpumark_resolve",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     gputypes.TextureDimension2D,
			Format:        d.format,
			Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
		}); err != nil {
			return err
		}
	}

	if d.depth {
		if err := d.depthStencil.create(device, hal.TextureDescriptor{
			Label:         "gpumark_depth_stencil",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   samples,
			Dimension:     gputypes.TextureDimension2D,
			Format:        gputypes.TextureFormatDepth24PlusStencil8,
			Usage:         gputypes.TextureUsageRenderAttachment,
		}); err != nil {
			return err
		}
	}

	d.width, d.height = w, h
	return nil
}

func (t *target) create(device hal.Device, desc hal.TextureDescriptor) error {
	tex, err := device.CreateTexture(&desc)
	if err != nil {
		return fmt.Errorf("create %s texture: %w", desc.Label, err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{Label: desc.Label + "_view"})
	if err != nil {
		device.DestroyTexture(tex)
		return fmt.Errorf("create %s view: %w", desc.Label, err)
	}
	t.tex, t.view, t.desc = tex, view, desc
	return nil
}

func (t *target) release(device hal.Device) {
	if t.view != nil {
		device.DestroyTextureView(t.view)
	}
	if t.tex != nil {
		device.DestroyTexture(t.tex)
	}
	*t = target{}
}

// attachment describes the target for framebuffer validation, or nil when
// it does not exist.
func (t *target) attachment() *framebuffer.Attachment {
	if t.tex == nil {
		return nil
	}
	return &framebuffer.Attachment{
		Label:       t.desc.Label,
		Format:      t.desc.Format,
		Width:       int(t.desc.Size.Width),
		Height:      int(t.desc.Size.Height),
		SampleCount: t.desc.SampleCount,
	}
}

// destroy releases all attachments in reverse creation order and resets the
// size.
func (d *drawable) destroy(device hal.Device) {
	d.depthStencil.release(device)
	d.resolve.release(device)
	d.color.release(device)
	d.width, d.height = 0, 0
}

// describe returns the render target as seen by the render pass.
func (d *drawable) describe() *framebuffer.Target {
	if d.color.tex == nil {
		return nil
	}
	t := &framebuffer.Target{
		Label: "gpumark",
		Color: []framebuffer.Attachment{*d.color.attachment()},
	}
	t.DepthStencil = d.depthStencil.attachment()
	t.Resolve = d.resolve.attachment()
	return t
}
