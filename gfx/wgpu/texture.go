package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// texturePixels is an RGBA8 image supplied with WithTexture.
type texturePixels struct {
	width, height uint32
	pix           []byte
}

// uploadTexture creates a sampled RGBA8 texture and writes the pixels into
// it through the queue.
func uploadTexture(device hal.Device, queue hal.Queue, src *texturePixels) (target, error) {
	if want := int(src.width) * int(src.height) * 4; len(src.pix) < want {
		return target{}, fmt.Errorf("texture data is %d bytes, want %d", len(src.pix), want)
	}

	var t target
	size := hal.Extent3D{Width: src.width, Height: src.height, DepthOrArrayLayers: 1}
	if err := t.create(device, hal.TextureDescriptor{
		Label:         "gpumark_texture",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	}); err != nil {
		return target{}, err
	}

	err := queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: t.tex},
		src.pix,
		&hal.ImageDataLayout{BytesPerRow: src.width * 4, RowsPerImage: src.height},
		&size,
	)
	if err != nil {
		t.release(device)
		return target{}, fmt.Errorf("write texture: %w", err)
	}
	return t, nil
}
