package wgpu

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Option configures a Backend.
type Option func(*Backend)

// WithVariant selects the HAL backend registered for variant
// (e.g., gputypes.BackendVulkan).
func WithVariant(variant gputypes.Backend) Option {
	return func(b *Backend) {
		b.variant = variant
		b.api = nil
		b.name = variant.String()
		if variant == gputypes.BackendVulkan {
			b.name = NameVulkan
		}
	}
}

// WithHAL uses api directly instead of looking it up in the HAL registry.
// Passing noop.API{} gives a device that accepts all work and draws nothing.
func WithHAL(api hal.Backend) Option {
	return func(b *Backend) {
		b.api = api
		b.variant = api.Variant()
		b.name = NameNoop
		if b.variant == gputypes.BackendVulkan {
			b.name = NameVulkan
		}
	}
}

// WithDeviceProvider renders with a device shared by the host application
// instead of opening one. The device is not destroyed by the backend.
func WithDeviceProvider(p gpucontext.DeviceProvider) Option {
	return func(b *Backend) {
		b.provider = p
		b.name = "external"
	}
}

// WithShaderSource sets the WGSL workload drawn on every frame. The shader
// must define VertexEntryPoint and FragmentEntryPoint and write one color
// target. A shader that fails to compile makes Create fail with
// gfx.ErrContextRejected.
func WithShaderSource(wgsl string) Option {
	return func(b *Backend) {
		b.shaderSource = wgsl
	}
}

// WithInstances sets how many instances of the workload triangle are drawn
// per frame. Values below 1 are ignored.
func WithInstances(n uint32) Option {
	return func(b *Backend) {
		if n > 0 {
			b.instances = n
		}
	}
}

// WithSampleCount sets the MSAA sample count of the drawable. With more than
// one sample, the color target is resolved into a single-sample texture.
func WithSampleCount(n uint32) Option {
	return func(b *Backend) {
		if n > 0 {
			b.target.samples = n
		}
	}
}

// WithDepthStencil enables or disables the depth/stencil attachment.
// It is enabled by default.
func WithDepthStencil(enabled bool) Option {
	return func(b *Backend) {
		b.target.depth = enabled
	}
}

// WithFormat sets the color format of the drawable.
func WithFormat(f gputypes.TextureFormat) Option {
	return func(b *Backend) {
		if f != gputypes.TextureFormatUndefined {
			b.target.format = f
		}
	}
}

// WithTexture uploads an RGBA8 image (4 bytes per pixel, rows top to bottom)
// to a sampled texture at Create. The upload time is part of bring-up, not
// of any frame.
func WithTexture(width, height int, rgba []byte) Option {
	return func(b *Backend) {
		if width > 0 && height > 0 {
			b.texture = &texturePixels{width: uint32(width), height: uint32(height), pix: rgba}
		}
	}
}
