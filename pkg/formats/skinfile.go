package formats

import (
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FileSystem is the file access a loader needs to read a model and look up
// the textures it references. Paths use forward slashes.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	Exists(name string) bool
}

// OSFS is the host filesystem.
type OSFS struct{}

// ReadFile reads a file from disk.
func (OSFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(filepath.FromSlash(name))
}

// Exists reports whether name is an existing regular file.
func (OSFS) Exists(name string) bool {
	info, err := os.Stat(filepath.FromSlash(name))
	return err == nil && info.Mode().IsRegular()
}

// FindSkinFile looks for the texture a model references as name. Starting at
// baseDir and moving up one directory at a time, it tries
// {dir}/{directory of name}/{base name}.{ext} for each extension in order.
// The base name is the part before the first dot. The first existing file
// wins.
func FindSkinFile(fsys FileSystem, baseDir, name string, exts []string) (string, bool) {
	name = strings.ReplaceAll(name, "\\", "/")
	sub := path.Dir(name)
	stem, _, _ := strings.Cut(path.Base(name), ".")
	if stem == "" || stem == "/" {
		return "", false
	}

	dir := path.Clean(filepath.ToSlash(baseDir))
	for {
		for _, ext := range exts {
			candidate := path.Join(dir, sub, stem+"."+ext)
			if fsys.Exists(candidate) {
				return candidate, true
			}
		}
		parent := path.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
