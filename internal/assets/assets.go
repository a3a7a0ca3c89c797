// Package assets resolves file names against a search path of loose
// directories and PACK archives, the way the game itself looks up data.
package assets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/qtmdl/pkg/pak"
)

// Source is one entry of the search path.
type Source interface {
	ReadFile(name string) ([]byte, error)
	Exists(name string) bool
}

// Manager searches its sources in reverse order: the last source added has
// the highest priority, so pak1.pak added after pak0.pak overrides it.
type Manager struct {
	sources []Source
	names   []string
	closers []io.Closer
	log     *zap.Logger
}

// NewManager creates an empty search path. log may be nil.
func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{log: log}
}

// Add appends a source under a display name.
func (m *Manager) Add(name string, src Source) {
	m.sources = append(m.sources, src)
	m.names = append(m.names, name)
}

// AddDir adds a directory of loose files.
func (m *Manager) AddDir(dir string) {
	m.Add(dir, Dir(dir))
}

// AddArchive opens a PACK archive and adds it.
func (m *Manager) AddArchive(path string) error {
	archive, err := pak.Open(path)
	if err != nil {
		return fmt.Errorf("opening archive %s: %w", path, err)
	}
	m.Add(path, archive)
	m.closers = append(m.closers, archive)
	m.log.Debug("archive added", zap.String("pak", path), zap.Int("files", archive.Len()))
	return nil
}

// Len returns the number of sources.
func (m *Manager) Len() int {
	return len(m.sources)
}

// Locate returns the display name of the source that provides name.
func (m *Manager) Locate(name string) (string, bool) {
	for i := len(m.sources) - 1; i >= 0; i-- {
		if m.sources[i].Exists(name) {
			return m.names[i], true
		}
	}
	return "", false
}

// Exists reports whether any source holds name.
func (m *Manager) Exists(name string) bool {
	_, ok := m.Locate(name)
	return ok
}

// ReadFile reads name from the highest-priority source that has it.
func (m *Manager) ReadFile(name string) ([]byte, error) {
	for i := len(m.sources) - 1; i >= 0; i-- {
		if !m.sources[i].Exists(name) {
			continue
		}
		data, err := m.sources[i].ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("reading %s from %s: %w", name, m.names[i], err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%w: %s", fs.ErrNotExist, name)
}

// Close closes every archive the manager opened.
func (m *Manager) Close() error {
	var errs []error
	for _, c := range m.closers {
		errs = append(errs, c.Close())
	}
	m.sources, m.names, m.closers = nil, nil, nil
	return errors.Join(errs...)
}

// Dir is a directory of loose files. Absolute names are used as given.
type Dir string

func (d Dir) path(name string) string {
	p := filepath.FromSlash(name)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(string(d), p)
}

// ReadFile reads a file below the directory.
func (d Dir) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(d.path(name))
}

// Exists reports whether name is a regular file below the directory.
func (d Dir) Exists(name string) bool {
	info, err := os.Stat(d.path(name))
	return err == nil && info.Mode().IsRegular()
}
