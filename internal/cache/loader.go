// Package cache performs the two-stage deserialization of the raw
// envelope (outer JSON whose "cache" field holds a nested, separately
// encoded payload) and owns the memoized snapshot of the decoded
// document graph.
package cache

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/source"
	"github.com/starford/ansuz/internal/timeutil"
	"github.com/starford/ansuz/internal/untyped"
)

// Snapshot is the decoded inner document graph plus its load time.
// It is immutable once created and replaced wholesale on reload.
type Snapshot struct {
	Inner    map[string]any
	LoadedAt time.Time
}

// State returns the top-level state object of the graph, or nil when it
// is not an object.
func (s *Snapshot) State() map[string]any {
	return untyped.Map(s.Inner, "state")
}

// Loader decodes the envelope and memoizes the result. The cached
// snapshot is read and replaced as an atomic unit: a reader observes
// either the previous complete snapshot or the new complete one. A
// failed reload keeps the last-known-good snapshot but still surfaces
// the error to the caller.
type Loader struct {
	src source.Source

	mu   sync.RWMutex
	snap *Snapshot
}

// NewLoader creates a loader over the given source.
func NewLoader(src source.Source) *Loader {
	return &Loader{src: src}
}

// Load returns the memoized snapshot, loading it on first use. With
// force set, the full load sequence is repeated and only a successful
// result replaces the cached snapshot.
func (l *Loader) Load(force bool) (*Snapshot, error) {
	if !force {
		l.mu.RLock()
		snap := l.snap
		l.mu.RUnlock()
		if snap != nil {
			return snap, nil
		}
	}

	snap, err := l.decode()
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.snap = snap
	l.mu.Unlock()
	return snap, nil
}

// Cached returns the current snapshot without triggering a load.
func (l *Loader) Cached() *Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snap
}

func (l *Loader) decode() (*Snapshot, error) {
	raw, err := l.src.Read()
	if err != nil {
		return nil, err
	}

	var outer map[string]any
	if err := json.Unmarshal(raw, &outer); err != nil {
		return nil, apperr.IO("outer envelope is not valid JSON", map[string]any{
			"location": l.src.Location(),
		}).WithCause(err)
	}

	cacheField, ok := outer["cache"]
	if !ok {
		return nil, apperr.IO("missing 'cache' field in outer JSON", map[string]any{
			"location":   l.src.Location(),
			"outer_keys": untyped.Keys(outer),
		})
	}

	var inner map[string]any
	switch v := cacheField.(type) {
	case string:
		if err := json.Unmarshal([]byte(v), &inner); err != nil {
			return nil, apperr.IO("nested cache payload is not valid JSON", map[string]any{
				"location": l.src.Location(),
			}).WithCause(err)
		}
	case map[string]any:
		inner = v
	default:
		return nil, apperr.IO("cache field is neither string nor object", map[string]any{
			"location":   l.src.Location(),
			"outer_keys": untyped.Keys(outer),
		})
	}

	if _, ok := inner["state"]; !ok {
		return nil, apperr.IO("nested payload missing 'state' field", map[string]any{
			"location":   l.src.Location(),
			"inner_keys": untyped.Keys(inner),
		})
	}

	return &Snapshot{Inner: inner, LoadedAt: time.Now().UTC()}, nil
}

// Info describes the cache for status reporting.
type Info struct {
	Path           string `json:"path"`
	Exists         bool   `json:"exists"`
	Readable       bool   `json:"readable"`
	SizeBytes      int64  `json:"size_bytes"`
	MeetingCount   int    `json:"meeting_count"`
	ValidStructure bool   `json:"valid_structure"`
	LastLoadedTS   string `json:"last_loaded_ts,omitempty"`
}

// Info reports on the cache location and, when a snapshot is loadable,
// on its structure. A load failure degrades to storage-level facts
// rather than failing the status call.
func (l *Loader) Info() Info {
	info := Info{Path: l.src.Location()}
	if stats, err := l.src.Stat(); err == nil {
		info.Exists = stats.Exists
		info.Readable = stats.Readable
		info.SizeBytes = stats.SizeBytes
	}

	snap, err := l.Load(false)
	if err != nil {
		return info
	}
	state := snap.State()
	info.ValidStructure = state != nil &&
		(state["documents"] != nil || state["meetingsMetadata"] != nil)
	if docs := untyped.Map(state, "documents"); docs != nil {
		info.MeetingCount = len(docs)
	}
	info.LastLoadedTS = timeutil.Canonical(snap.LoadedAt)
	return info
}
