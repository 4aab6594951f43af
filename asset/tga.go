package asset

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
)

// TGA image types this loader understands.
const (
	tgaTrueColor = 2
	tgaGrayscale = 3
)

// tgaHeader is the fixed 18-byte TGA file header, little-endian.
type tgaHeader struct {
	IDSize       uint8
	MapType      uint8
	ImageType    uint8
	PaletteStart uint16
	PaletteSize  uint16
	PaletteDepth uint8
	X, Y         uint16
	Width        uint16
	Height       uint16
	ColorDepth   uint8
	Descriptor   uint8
}

const tgaHeaderSize = 18

// Image is a decoded bitmap. Rows run top to bottom; channels are gray
// (8 bpp), RGB (24 bpp) or RGBA (32 bpp).
type Image struct {
	Width        int
	Height       int
	BitsPerPixel int
	Pix          []byte
}

// Validate checks that the image has a positive size, a supported depth and
// enough pixel data.
func (m *Image) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: nil image", ErrDecode)
	}
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("%w: image size %dx%d", ErrDecode, m.Width, m.Height)
	}
	switch m.BitsPerPixel {
	case 8, 24, 32:
	default:
		return fmt.Errorf("%w: %d bits per pixel", ErrDecode, m.BitsPerPixel)
	}
	if want := m.Width * m.Height * m.BitsPerPixel / 8; len(m.Pix) < want {
		return fmt.Errorf("%w: %d bytes of pixel data, want %d", ErrDecode, len(m.Pix), want)
	}
	return nil
}

// RGBA expands the image to 8-bit RGBA.
func (m *Image) RGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, m.Width, m.Height))
	bpp := m.BitsPerPixel / 8
	for i, j := 0, 0; i < m.Width*m.Height; i, j = i+1, j+bpp {
		o := i * 4
		switch bpp {
		case 1:
			g := m.Pix[j]
			img.Pix[o], img.Pix[o+1], img.Pix[o+2], img.Pix[o+3] = g, g, g, 0xFF
		case 3:
			img.Pix[o], img.Pix[o+1], img.Pix[o+2], img.Pix[o+3] = m.Pix[j], m.Pix[j+1], m.Pix[j+2], 0xFF
		case 4:
			copy(img.Pix[o:o+4], m.Pix[j:j+4])
		}
	}
	return img
}

// LoadTGA decodes an uncompressed true-color (type 2) or grayscale (type 3)
// TGA image with 8, 24 or 32 bits per pixel. The origin bit of the image
// descriptor is honored, so the result always starts with the top row.
func (l *Loader) LoadTGA(name string) (*Image, error) {
	data, err := l.LoadContents(name)
	if err != nil {
		return nil, err
	}
	img, err := DecodeTGA(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return img, nil
}

// DecodeTGA decodes TGA data. See Loader.LoadTGA.
func DecodeTGA(data []byte) (*Image, error) {
	if len(data) < tgaHeaderSize {
		return nil, fmt.Errorf("%w: tga: %d bytes is shorter than the header", ErrDecode, len(data))
	}
	var h tgaHeader
	if err := binary.Read(bytes.NewReader(data[:tgaHeaderSize]), binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: tga header: %w", ErrDecode, err)
	}

	switch h.ImageType {
	case tgaTrueColor:
		if h.ColorDepth != 24 && h.ColorDepth != 32 {
			return nil, fmt.Errorf("%w: tga: %d-bit true-color", ErrDecode, h.ColorDepth)
		}
	case tgaGrayscale:
		if h.ColorDepth != 8 {
			return nil, fmt.Errorf("%w: tga: %d-bit grayscale", ErrDecode, h.ColorDepth)
		}
	default:
		return nil, fmt.Errorf("%w: tga: unsupported image type %d", ErrDecode, h.ImageType)
	}
	if h.Width == 0 || h.Height == 0 {
		return nil, fmt.Errorf("%w: tga: image size %dx%d", ErrDecode, h.Width, h.Height)
	}

	offset := tgaHeaderSize + int(h.IDSize)
	if h.MapType != 0 {
		offset += int(h.PaletteSize) * ((int(h.PaletteDepth) + 7) / 8)
	}

	w, ht := int(h.Width), int(h.Height)
	bpp := int(h.ColorDepth) / 8
	stride := w * bpp
	if offset+stride*ht > len(data) {
		return nil, fmt.Errorf("%w: tga: truncated pixel data (%d bytes, want %d)",
			ErrDecode, len(data)-offset, stride*ht)
	}
	src := data[offset : offset+stride*ht]

	img := &Image{Width: w, Height: ht, BitsPerPixel: int(h.ColorDepth), Pix: make([]byte, stride*ht)}
	topLeft := h.Descriptor&0x20 != 0
	for y := 0; y < ht; y++ {
		srcRow := y
		if !topLeft {
			srcRow = ht - 1 - y
		}
		row := src[srcRow*stride : (srcRow+1)*stride]
		dst := img.Pix[y*stride : (y+1)*stride]
		copy(dst, row)
		if bpp >= 3 {
			// BGR(A) -> RGB(A)
			for x := 0; x < stride; x += bpp {
				dst[x], dst[x+2] = dst[x+2], dst[x]
			}
		}
	}
	return img, nil
}
