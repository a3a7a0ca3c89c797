package formats

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"

	"github.com/Faultbox/qtmdl/pkg/model"
)

const (
	pcxHeaderSize  = 128
	pcxPaletteSize = 768
	pcxMaxRun      = 63 // pixels one encoded byte pair can produce
)

// pcxHeader is the fixed 128-byte PCX file header.
type pcxHeader struct {
	Manufacturer uint8
	Version      uint8
	Encoding     uint8
	BitsPerPixel uint8
	XMin, YMin   uint16
	XMax, YMax   uint16
	HRes, VRes   uint16
	ColorMap     [48]byte
	Reserved     uint8
	ColorPlanes  uint8
	BytesPerLine uint16
	PaletteType  uint16
	Filler       [58]byte
}

// decodePCX returns the image size, width*height palette indices and the
// 768-byte RGB palette of an 8-bit RLE PCX file.
func decodePCX(data []byte) (width, height int, pix, palette []byte, err error) {
	var h pcxHeader
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &h); err != nil {
		return 0, 0, nil, nil, fmt.Errorf("%w: pcx header", ErrMalformedStream)
	}
	if h.Manufacturer != 0x0a || h.Version != 5 || h.Encoding != 1 || h.BitsPerPixel != 8 {
		return 0, 0, nil, nil, fmt.Errorf("%w: pcx manufacturer %#x version %d encoding %d bpp %d",
			ErrUnsupportedFormat, h.Manufacturer, h.Version, h.Encoding, h.BitsPerPixel)
	}
	if len(data) < pcxHeaderSize+pcxPaletteSize {
		return 0, 0, nil, nil, fmt.Errorf("%w: pcx of %d bytes has no palette", ErrMalformedStream, len(data))
	}

	width, height = int(h.XMax)+1, int(h.YMax)+1
	palette = append([]byte(nil), data[len(data)-pcxPaletteSize:]...)

	// Scanlines are padded to BytesPerLine; the padding is decoded and
	// discarded. Runs never spill into the next scanline.
	stride := max(int(h.BytesPerLine), width)
	body := data[pcxHeaderSize : len(data)-pcxPaletteSize]
	if int64(stride)*int64(height) > int64(len(body))*pcxMaxRun {
		return 0, 0, nil, nil, fmt.Errorf("%w: pcx %dx%d needs more than %d bytes of data",
			ErrMalformedStream, width, height, len(body))
	}
	pix = make([]byte, width*height)
	line := make([]byte, stride)

	at := 0
	next := func() (byte, bool) {
		if at >= len(body) {
			return 0, false
		}
		at++
		return body[at-1], true
	}

	for y := 0; y < height; y++ {
		for x := 0; x < stride; {
			b, ok := next()
			if !ok {
				return 0, 0, nil, nil, fmt.Errorf("%w: pcx data ends at row %d", ErrMalformedStream, y)
			}
			run := 1
			if b&0xC0 == 0xC0 {
				run = int(b & 0x3F)
				if b, ok = next(); !ok {
					return 0, 0, nil, nil, fmt.Errorf("%w: pcx data ends at row %d", ErrMalformedStream, y)
				}
			}
			for ; run > 0 && x < stride; run-- {
				line[x] = b
				x++
			}
		}
		copy(pix[y*width:(y+1)*width], line[:width])
	}
	return width, height, pix, palette, nil
}

// DecodePCX decodes an 8-bit RLE PCX file into a paletted image.
func DecodePCX(data []byte) (*image.Paletted, error) {
	width, height, pix, palette, err := decodePCX(data)
	if err != nil {
		return nil, err
	}
	pal := make(color.Palette, 256)
	for i := range pal {
		pal[i] = color.RGBA{R: palette[i*3], G: palette[i*3+1], B: palette[i*3+2], A: 0xff}
	}
	return &image.Paletted{
		Pix:     pix,
		Stride:  width,
		Rect:    image.Rect(0, 0, width, height),
		Palette: pal,
	}, nil
}

// loadPCXSkin decodes a PCX file into the raw indexed data of sk and sizes
// the skin to the image.
func loadPCXSkin(sk *model.Skin, data []byte) error {
	width, height, pix, palette, err := decodePCX(data)
	if err != nil {
		return err
	}
	sk.Width, sk.Height = int32(width), int32(height)
	sk.Raw = &model.PaletteData{Palette: &palette, Data: pix}
	return nil
}

// ExpandSkin builds the cooked image of an indexed skin from its palette
// indices. Skins that already have an image, or have no indexed data, are
// left alone, so calling it twice is harmless. A skin without a palette uses
// QuakePalette.
func ExpandSkin(sk *model.Skin) {
	if sk.Image != nil || sk.Raw == nil || sk.Width <= 0 || sk.Height <= 0 {
		return
	}

	palette := QuakePalette[:]
	if sk.Raw.Palette != nil {
		palette = *sk.Raw.Palette
	}

	img := image.NewNRGBA(image.Rect(0, 0, int(sk.Width), int(sk.Height)))
	n := min(len(sk.Raw.Data), int(sk.Width)*int(sk.Height))
	for i := 0; i < n; i++ {
		c := int(sk.Raw.Data[i]) * 3
		o := i * 4
		if c+2 < len(palette) {
			img.Pix[o] = palette[c]
			img.Pix[o+1] = palette[c+1]
			img.Pix[o+2] = palette[c+2]
		}
		img.Pix[o+3] = 0xff
	}
	sk.Image = img
}
