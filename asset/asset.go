// Package asset loads benchmark assets (shader sources, textures) from a
// file system.
//
// The file system is passed explicitly, so tests use testing/fstest and an
// application bundle can use embed.FS:
//
//	l := asset.NewDir("assets")
//	src, err := l.LoadText("shaders/workload.wgsl")
//	img, err := l.LoadTGA("textures/crate.tga")
package asset

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// ErrRead reports that an asset could not be opened or read.
var ErrRead = errors.New("asset: read failed")

// ErrDecode reports that an asset was read but its contents are malformed
// or use an unsupported format.
var ErrDecode = errors.New("asset: decode failed")

// Loader reads assets from a file system.
// A Loader is safe for concurrent use if its file system is.
type Loader struct {
	fsys fs.FS
}

// New creates a Loader that reads from fsys.
func New(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// NewDir creates a Loader that reads from the directory dir.
func NewDir(dir string) *Loader {
	return New(os.DirFS(dir))
}

// LoadContents returns the whole asset.
func (l *Loader) LoadContents(name string) ([]byte, error) {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	return data, nil
}

// LoadText returns the whole asset as a string.
func (l *Loader) LoadText(name string) (string, error) {
	data, err := l.LoadContents(name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadAsset reads at most len(buf) bytes from the start of the asset and
// returns the number of bytes read. A short asset is not an error.
func (l *Loader) ReadAsset(name string, buf []byte) (int, error) {
	f, err := l.fsys.Open(name)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer func() {
		_ = f.Close()
	}()

	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return n, fmt.Errorf("%w: %s: %w", ErrRead, name, err)
	}
	return n, nil
}
