// Package pak reads Quake PACK archives.
//
// An archive is a 12-byte header ("PACK", directory offset, directory
// length) followed by file data and a directory of 64-byte entries, each a
// NUL-padded 56-byte name and the file's offset and size. Archives satisfy
// formats.FileSystem, so models and their skins can be loaded directly from a
// .pak file.
package pak

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Faultbox/qtmdl/pkg/encoding"
)

const (
	pakMagic   = "PACK"
	headerSize = 12
	entrySize  = 64
	nameSize   = 56
)

// ErrInvalidArchive is returned for data that is not a readable PACK file.
var ErrInvalidArchive = errors.New("invalid pak archive")

// Header is the fixed archive header.
type Header struct {
	Magic     [4]byte
	DirOffset int32
	DirLength int32
}

// Entry is one file in the archive directory.
type Entry struct {
	Name   string
	Offset uint32
	Size   uint32
}

type rawEntry struct {
	Name   [nameSize]byte
	Offset int32
	Size   int32
}

// Archive represents an opened PACK archive.
type Archive struct {
	r       io.ReaderAt
	closer  io.Closer
	size    int64
	header  Header
	entries map[string]*Entry
}

// Open opens a PACK archive on disk.
func Open(name string) (*Archive, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat: %w", err)
	}

	a, err := NewReader(file, info.Size())
	if err != nil {
		file.Close()
		return nil, err
	}
	a.closer = file
	return a, nil
}

// NewReader reads the archive directory from r, which holds size bytes.
func NewReader(r io.ReaderAt, size int64) (*Archive, error) {
	a := &Archive{
		r:       r,
		size:    size,
		entries: make(map[string]*Entry),
	}
	if err := a.readHeader(); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if err := a.readDirectory(); err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}
	return a, nil
}

// Close closes the underlying file, if the archive owns one.
func (a *Archive) Close() error {
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}

func (a *Archive) readHeader() error {
	if a.size < headerSize {
		return fmt.Errorf("%w: %d bytes is too short", ErrInvalidArchive, a.size)
	}
	sr := io.NewSectionReader(a.r, 0, headerSize)
	if err := binary.Read(sr, binary.LittleEndian, &a.header); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArchive, err)
	}
	if string(a.header.Magic[:]) != pakMagic {
		return fmt.Errorf("%w: bad magic %q", ErrInvalidArchive, a.header.Magic[:])
	}
	return nil
}

func (a *Archive) readDirectory() error {
	off, length := int64(a.header.DirOffset), int64(a.header.DirLength)
	if off < headerSize || length < 0 || length%entrySize != 0 || off+length > a.size {
		return fmt.Errorf("%w: directory at %d+%d", ErrInvalidArchive, off, length)
	}

	raw := make([]rawEntry, length/entrySize)
	sr := io.NewSectionReader(a.r, off, length)
	if err := binary.Read(sr, binary.LittleEndian, raw); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArchive, err)
	}

	for _, re := range raw {
		if re.Offset < 0 || re.Size < 0 || int64(re.Offset)+int64(re.Size) > a.size {
			return fmt.Errorf("%w: entry %q out of bounds", ErrInvalidArchive, encoding.FixedString(re.Name[:]))
		}
		name := encoding.NormalizePath(encoding.FixedString(re.Name[:]))
		if name == "" {
			continue
		}
		// Later entries shadow earlier ones with the same name.
		a.entries[name] = &Entry{Name: name, Offset: uint32(re.Offset), Size: uint32(re.Size)}
	}
	return nil
}

// Len returns the number of files in the archive.
func (a *Archive) Len() int {
	return len(a.entries)
}

// List returns all file paths in the archive, sorted.
func (a *Archive) List() []string {
	result := make([]string, 0, len(a.entries))
	for name := range a.entries {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// Stat returns the directory entry for name.
func (a *Archive) Stat(name string) (Entry, bool) {
	e, ok := a.entries[encoding.NormalizePath(name)]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Exists reports whether the archive holds a file called name.
func (a *Archive) Exists(name string) bool {
	_, ok := a.entries[encoding.NormalizePath(name)]
	return ok
}

// ReadFile returns the contents of name. Missing files wrap fs.ErrNotExist.
func (a *Archive) ReadFile(name string) ([]byte, error) {
	e, ok := a.entries[encoding.NormalizePath(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", fs.ErrNotExist, name)
	}
	data := make([]byte, e.Size)
	if _, err := a.r.ReadAt(data, int64(e.Offset)); err != nil && !(errors.Is(err, io.EOF) && e.Size == 0) {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

// Extract writes every file whose path matches pattern (path.Match syntax,
// empty for all) below dir and returns the written paths.
func (a *Archive) Extract(dir, pattern string) ([]string, error) {
	var written []string
	for _, name := range a.List() {
		if pattern != "" {
			ok, err := path.Match(strings.ToLower(pattern), name)
			if err != nil {
				return written, fmt.Errorf("bad pattern %q: %w", pattern, err)
			}
			if !ok {
				continue
			}
		}

		dst, err := a.extractOne(dir, name)
		if err != nil {
			return written, err
		}
		written = append(written, dst)
	}
	return written, nil
}

func (a *Archive) extractOne(dir, name string) (string, error) {
	if !fs.ValidPath(name) {
		return "", fmt.Errorf("%w: unsafe path %q", ErrInvalidArchive, name)
	}
	data, err := a.ReadFile(name)
	if err != nil {
		return "", err
	}

	dst := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("creating directory: %w", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", dst, err)
	}
	return dst, nil
}
