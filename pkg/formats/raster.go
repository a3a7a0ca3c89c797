package formats

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"path"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"go.uber.org/zap"
	"golang.org/x/image/bmp"

	"github.com/Faultbox/qtmdl/pkg/model"
)

// PlaceholderSize is the edge length of the built-in placeholder texture.
const PlaceholderSize = 64

// Magic numbers of the texture formats that have one.
const (
	pngMagic  = "\x89PNG\r\n\x1a\n"
	jpegMagic = "\xff\xd8"
	bmpMagic  = "BM"
	pcxMagic  = "\x0a\x05\x01\x08"
)

// decodeRaster decodes a full-colour texture file. Formats with a magic
// number are recognised by it; anything else is read as TGA, which has none.
// image.Decode is not used: the tga package registers an empty magic that
// matches every input.
func decodeRaster(name string, data []byte) (*image.NRGBA, error) {
	var (
		img image.Image
		err error
	)
	r := bytes.NewReader(data)
	switch {
	case bytes.HasPrefix(data, []byte(pngMagic)):
		img, err = png.Decode(r)
	case bytes.HasPrefix(data, []byte(jpegMagic)):
		img, err = jpeg.Decode(r)
	case bytes.HasPrefix(data, []byte(pcxMagic)):
		img, err = DecodePCX(data)
	case bytes.HasPrefix(data, []byte(bmpMagic)) && !strings.EqualFold(path.Ext(name), ".tga"):
		img, err = bmp.Decode(r)
	default:
		img, err = tga.Decode(r)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return toNRGBA(img), nil
}

// DecodeImage decodes a texture file of any supported type (PCX, TGA, PNG,
// JPEG, BMP) to an NRGBA image. name selects the decoder for TGA files.
func DecodeImage(name string, data []byte) (*image.NRGBA, error) {
	return decodeRaster(name, data)
}

// toNRGBA converts any image to an NRGBA image with its origin at (0, 0).
func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// Placeholder returns a fresh copy of the built-in texture used when a
// model's texture cannot be found: a magenta and black checkerboard.
func Placeholder() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, PlaceholderSize, PlaceholderSize))
	magenta := color.NRGBA{R: 0xff, B: 0xff, A: 0xff}
	black := color.NRGBA{A: 0xff}
	for y := 0; y < PlaceholderSize; y++ {
		for x := 0; x < PlaceholderSize; x++ {
			if (x/8+y/8)%2 == 0 {
				img.SetNRGBA(x, y, magenta)
			} else {
				img.SetNRGBA(x, y, black)
			}
		}
	}
	return img
}

func cloneNRGBA(src *image.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, src.Bounds().Dx(), src.Bounds().Dy()))
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

// resolver finds and decodes the textures a model references, relative to
// the directory the model was loaded from.
type resolver struct {
	fs          FileSystem
	dir         string
	exts        []string
	log         *zap.Logger
	placeholder *image.NRGBA
}

func (r *resolver) logger() *zap.Logger {
	if r == nil || r.log == nil {
		return zap.NewNop()
	}
	return r.log
}

// find locates and reads the file for a texture name. A texture that cannot
// be found or read is logged and reported as missing.
func (r *resolver) find(name string) (string, []byte, bool) {
	if r == nil || r.fs == nil {
		return "", nil, false
	}
	file, ok := FindSkinFile(r.fs, r.dir, name, r.exts)
	if !ok {
		r.logger().Warn("texture not found",
			zap.String("texture", name),
			zap.String("dir", r.dir),
			zap.Strings("extensions", r.exts),
			zap.Error(ErrMissingTexture))
		return "", nil, false
	}
	data, err := r.fs.ReadFile(file)
	if err != nil {
		r.logger().Warn("texture unreadable",
			zap.String("texture", name),
			zap.String("file", file),
			zap.Error(fmt.Errorf("%w: %w", ErrMissingTexture, err)))
		return "", nil, false
	}
	return file, data, true
}

// loadSkin fills in the pixels of sk from the texture file it names. PCX
// files keep their palette indices; other formats are decoded to an image.
// Failures leave the skin without pixels.
func (r *resolver) loadSkin(sk *model.Skin) {
	file, data, ok := r.find(sk.Name)
	if !ok {
		return
	}

	if strings.EqualFold(path.Ext(file), ".pcx") {
		if err := loadPCXSkin(sk, data); err != nil {
			r.logger().Warn("skipping texture", zap.String("file", file), zap.Error(err))
		}
		return
	}

	img, err := decodeRaster(file, data)
	if err != nil {
		r.logger().Warn("skipping texture", zap.String("file", file), zap.Error(err))
		return
	}
	sk.Image = img
	sk.Width, sk.Height = int32(img.Bounds().Dx()), int32(img.Bounds().Dy())
}

// loadRasterSkin fills in sk from a full-colour texture, falling back to the
// placeholder image when none can be loaded.
func (r *resolver) loadRasterSkin(sk *model.Skin) {
	if file, data, ok := r.find(sk.Name); ok {
		img, err := decodeRaster(file, data)
		if err == nil {
			sk.Image = img
			sk.Width, sk.Height = int32(img.Bounds().Dx()), int32(img.Bounds().Dy())
			return
		}
		r.logger().Warn("skipping texture", zap.String("file", file), zap.Error(err))
	}

	if r != nil && r.placeholder != nil {
		sk.Image = cloneNRGBA(r.placeholder)
	} else {
		sk.Image = Placeholder()
	}
	sk.Width, sk.Height = int32(sk.Image.Bounds().Dx()), int32(sk.Image.Bounds().Dy())
}
