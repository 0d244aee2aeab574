package source

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/untyped"
)

const defaultAPIBase = "https://api.granola.ai"

// Remote fetches documents from the upstream API and caches the
// decompressed response on disk with a TTL. Read synthesizes the same
// outer-envelope shape the local cache file has, so the loader treats
// both sources identically.
type Remote struct {
	apiBase string
	token   string

	cacheDir string
	ttl      time.Duration
	client   *http.Client
}

// NewRemote creates a remote source. ttlSeconds <= 0 disables the
// on-disk response cache.
func NewRemote(apiBase, token, cacheDir string, ttlSeconds int) *Remote {
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	if cacheDir == "" {
		home, _ := os.UserHomeDir()
		cacheDir = filepath.Join(home, ".ansuz", "remote_cache")
	}
	return &Remote{
		apiBase:  apiBase,
		token:    token,
		cacheDir: cacheDir,
		ttl:      time.Duration(ttlSeconds) * time.Second,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Read fetches the document list (from the on-disk cache when fresh)
// and wraps it into the canonical outer envelope:
//
//	{"cache": {"state": {"documents": {id: doc, ...}}}}
func (r *Remote) Read() ([]byte, error) {
	body, err := r.fetch()
	if err != nil {
		return nil, err
	}

	var resp map[string]any
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperr.IO("remote response is not valid JSON", map[string]any{
			"api_base": r.apiBase,
		}).WithCause(err)
	}
	docs, ok := untyped.AsSlice(resp["docs"])
	if !ok {
		return nil, apperr.IO("remote response missing 'docs' list", map[string]any{
			"api_base":      r.apiBase,
			"response_keys": untyped.Keys(resp),
		})
	}

	documents := make(map[string]any, len(docs))
	for _, d := range docs {
		doc, ok := untyped.AsMap(d)
		if !ok {
			continue
		}
		id := untyped.Str(doc, "id")
		if id == "" {
			continue
		}
		documents[id] = doc
	}

	envelope := map[string]any{
		"cache": map[string]any{
			"state": map[string]any{
				"documents": documents,
			},
		},
	}
	return json.Marshal(envelope)
}

// Stat reports on the cached response file, when one exists.
func (r *Remote) Stat() (Stats, error) {
	info, err := os.Stat(r.cachePath())
	if err != nil {
		// No cached response yet; the source itself is still usable.
		return Stats{Exists: false, Readable: true}, nil
	}
	return Stats{Exists: true, Readable: true, SizeBytes: info.Size()}, nil
}

// Location describes the remote endpoint.
func (r *Remote) Location() string {
	return r.apiBase + "/v2/get-documents"
}

func (r *Remote) cachePath() string {
	key := checksum.ShortKey([]byte(r.apiBase))
	return filepath.Join(r.cacheDir, "docs_"+key+".json")
}

func (r *Remote) fetch() ([]byte, error) {
	path := r.cachePath()
	if r.ttl > 0 {
		if info, err := os.Stat(path); err == nil && time.Since(info.ModTime()) < r.ttl {
			if data, err := os.ReadFile(path); err == nil {
				return data, nil
			}
		}
	}

	payload, _ := json.Marshal(map[string]any{
		"limit":                     100,
		"offset":                    0,
		"include_last_viewed_panel": true,
	})
	req, err := http.NewRequest(http.MethodPost, r.Location(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("source: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, apperr.IO("remote fetch failed", map[string]any{
			"api_base": r.apiBase,
		}).WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.IO("remote fetch returned non-OK status", map[string]any{
			"api_base": r.apiBase,
			"status":   resp.StatusCode,
		})
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.IO("read remote response", nil).WithCause(err)
	}
	// Responses arrive gzip-compressed unless the transport already
	// transparently decompressed them.
	if gz, err := gzip.NewReader(bytes.NewReader(body)); err == nil {
		decompressed, err := io.ReadAll(gz)
		gz.Close()
		if err != nil {
			return nil, apperr.IO("decompress remote response", nil).WithCause(err)
		}
		body = decompressed
	}

	if r.ttl > 0 {
		if err := os.MkdirAll(r.cacheDir, 0o755); err == nil {
			// Cache write failures are non-fatal.
			_ = os.WriteFile(path, body, 0o644)
		}
	}
	return body, nil
}
