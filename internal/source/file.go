package source

import (
	"errors"
	"io/fs"
	"os"

	"github.com/starford/ansuz/internal/apperr"
)

// File reads the raw envelope from a local cache file.
type File struct {
	path string
}

// NewFile creates a file-backed source. The path is not required to
// exist yet; Read reports a structured error when it does not.
func NewFile(path string) *File {
	return &File{path: path}
}

// Read returns the file contents.
func (f *File) Read() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, apperr.IO("cache file not readable", map[string]any{
			"path": f.path,
		}).WithCause(err)
	}
	return data, nil
}

// Stat reports on the cache file without reading it.
func (f *File) Stat() (Stats, error) {
	info, err := os.Stat(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Stats{}, nil
	}
	if err != nil {
		return Stats{}, err
	}
	readable := true
	fh, err := os.Open(f.path)
	if err != nil {
		readable = false
	} else {
		fh.Close()
	}
	return Stats{Exists: true, Readable: readable, SizeBytes: info.Size()}, nil
}

// Location returns the file path.
func (f *File) Location() string { return f.path }
