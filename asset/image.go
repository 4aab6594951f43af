package asset

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register GIF
	_ "image/jpeg" // register JPEG
	_ "image/png"  // register PNG
	"path"
	"strings"

	_ "golang.org/x/image/bmp" // register BMP
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register TIFF
	_ "golang.org/x/image/webp" // register WebP
)

// LoadImage decodes a PNG, JPEG, GIF, BMP, TIFF or WebP image, or a TGA
// image by extension, and converts it to RGBA.
func (l *Loader) LoadImage(name string) (*image.RGBA, error) {
	if strings.EqualFold(path.Ext(name), ".tga") {
		img, err := l.LoadTGA(name)
		if err != nil {
			return nil, err
		}
		return img.RGBA(), nil
	}

	data, err := l.LoadContents(name)
	if err != nil {
		return nil, err
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, name, err)
	}
	if rgba, ok := src.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba, nil
	}

	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst, nil
}

// LoadImageSize is LoadImage followed by a bilinear resample to
// width x height. Images already at that size are returned unchanged.
func (l *Loader) LoadImageSize(name string, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("asset: invalid target size %dx%d", width, height)
	}
	src, err := l.LoadImage(name)
	if err != nil {
		return nil, err
	}
	if src.Rect.Dx() == width && src.Rect.Dy() == height {
		return src, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}
