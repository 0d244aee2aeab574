// Package source abstracts where the raw cache envelope comes from.
// Both implementations yield the same outer-envelope byte shape, so the
// loader is indifferent to the origin.
package source

import (
	"fmt"

	"github.com/starford/ansuz/internal/apperr"
)

// Source is the retrieval collaborator consumed by the cache loader.
type Source interface {
	// Read returns the raw outer-envelope bytes, or fails.
	Read() ([]byte, error)
	// Stat reports existence, readability, and size without reading.
	Stat() (Stats, error)
	// Location describes the source for diagnostics and status reports.
	Location() string
}

// Stats describes the storage behind a source.
type Stats struct {
	Exists    bool  `json:"exists"`
	Readable  bool  `json:"readable"`
	SizeBytes int64 `json:"size_bytes"`
}

// Config selects and parameterizes a source implementation.
type Config struct {
	Kind      string // "local" or "remote"
	CachePath string // local cache file

	APIBase    string // remote
	APIToken   string
	CacheDir   string
	TTLSeconds int
}

// Source kinds.
const (
	KindLocal  = "local"
	KindRemote = "remote"
)

// New creates a source from configuration, selected once at startup.
func New(cfg Config) (Source, error) {
	switch cfg.Kind {
	case "", KindLocal:
		return NewFile(cfg.CachePath), nil
	case KindRemote:
		if cfg.APIToken == "" {
			return nil, apperr.BadRequest("api token is required for the remote source", nil)
		}
		return NewRemote(cfg.APIBase, cfg.APIToken, cfg.CacheDir, cfg.TTLSeconds), nil
	default:
		return nil, fmt.Errorf("source: unknown kind %q", cfg.Kind)
	}
}
