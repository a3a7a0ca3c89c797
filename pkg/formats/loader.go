package formats

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/qtmdl/pkg/model"
)

// Format is a model format tag.
type Format string

// Supported formats.
const (
	FormatQIM  Format = "qim"
	FormatMD2  Format = "md2"
	FormatMD2F Format = "md2f"
	FormatMDL  Format = "mdl"
	FormatMD3  Format = "md3"
)

// Formats lists every supported format.
var Formats = []Format{FormatQIM, FormatMD2, FormatMD2F, FormatMDL, FormatMD3}

// DefaultExtensions is the texture extension search order per format. The
// MD2 family pairs historically with PCX skins; MD3 prefers full-colour
// formats.
var DefaultExtensions = map[Format][]string{
	FormatMD2:  {"pcx", "tga", "png"},
	FormatMD2F: {"pcx", "tga", "png"},
	FormatMD3:  {"tga", "png", "jpg", "jpeg", "pcx"},
}

// ParseFormat returns the format named by tag, ignoring case.
func ParseFormat(tag string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(tag, ".")))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, tag)
}

// FormatFromPath picks a format from a file extension.
func FormatFromPath(name string) (Format, error) {
	return ParseFormat(path.Ext(filepath.ToSlash(name)))
}

// Writable reports whether models can be saved in the format.
func (f Format) Writable() bool {
	return f == FormatQIM || f == FormatMD2
}

// Loader decodes and encodes models. The zero value reads from the host
// filesystem, logs nothing and uses DefaultExtensions.
type Loader struct {
	// FS is used to read model files and to look up textures.
	FS FileSystem
	// Logger receives missing-texture and model-anomaly warnings.
	Logger *zap.Logger
	// Extensions overrides the texture search order per format.
	Extensions map[Format][]string
	// Placeholder replaces the built-in texture for unresolved MD3 shaders.
	Placeholder *image.NRGBA
}

func (l *Loader) fs() FileSystem {
	if l.FS == nil {
		return OSFS{}
	}
	return l.FS
}

func (l *Loader) logger() *zap.Logger {
	if l.Logger == nil {
		return zap.NewNop()
	}
	return l.Logger
}

func (l *Loader) extensions(f Format) []string {
	if exts, ok := l.Extensions[f]; ok && len(exts) > 0 {
		return exts
	}
	return DefaultExtensions[f]
}

// baseDir is the directory texture lookups start from. On the host
// filesystem it is made absolute so the search can climb past the working
// directory; other filesystems keep the relative path.
func (l *Loader) baseDir(name string) string {
	if _, ok := l.fs().(OSFS); ok {
		if abs, err := filepath.Abs(filepath.Dir(name)); err == nil {
			return filepath.ToSlash(abs)
		}
	}
	return path.Dir(filepath.ToSlash(name))
}

// LoadFile reads and decodes the model at name.
func (l *Loader) LoadFile(name string, f Format) (*model.Model, error) {
	data, err := l.fs().ReadFile(filepath.ToSlash(name))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return l.Load(data, name, f)
}

// Load decodes a model held in memory. name locates the model for texture
// lookups; textures are searched for starting in its directory. After
// decoding, indexed skins are expanded to images and the first skin is
// selected.
func (l *Loader) Load(data []byte, name string, f Format) (*model.Model, error) {
	log := l.logger().With(zap.String("model", name), zap.String("format", string(f)))
	res := &resolver{
		fs:          l.fs(),
		dir:         l.baseDir(name),
		exts:        l.extensions(f),
		log:         log,
		placeholder: l.Placeholder,
	}

	var (
		m   *model.Model
		err error
	)
	switch f {
	case FormatQIM:
		m, err = DecodeQIM(data)
	case FormatMD2:
		m, err = decodeMD2(data, res)
	case FormatMD2F:
		m, err = decodeMD2F(data, res)
	case FormatMDL:
		m, err = DecodeMDL(data)
	case FormatMD3:
		m, err = decodeMD3(data, res)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}

	for i := range m.Skins {
		ExpandSkin(&m.Skins[i])
	}
	if len(m.Skins) > 0 {
		m.Mutate(func(mu *model.Mutator) { mu.SetSelectedSkin(model.Int32(0)) })
	}
	for _, warning := range m.Validate() {
		log.Warn("model anomaly", zap.String("detail", warning))
	}

	log.Debug("model loaded",
		zap.Int("frames", len(m.Frames)),
		zap.Int("meshes", len(m.Meshes)),
		zap.Int("skins", len(m.Skins)),
		zap.Int("triangles", m.TriangleCount()))
	return m, nil
}

// Save encodes m in format f. Formats without an encoder fail with
// ErrUnwritableFormat before anything is written.
func (l *Loader) Save(w io.Writer, m *model.Model, f Format) error {
	switch f {
	case FormatQIM:
		return EncodeQIM(w, m)
	case FormatMD2:
		return EncodeMD2(w, m)
	default:
		return fmt.Errorf("%w: %q", ErrUnwritableFormat, f)
	}
}

// Encode returns m encoded in format f.
func (l *Loader) Encode(m *model.Model, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := l.Save(&buf, m, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
