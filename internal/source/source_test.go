package source

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/ansuz/internal/apperr"
)

func TestNew(t *testing.T) {
	if _, err := New(Config{Kind: KindLocal, CachePath: "x.json"}); err != nil {
		t.Errorf("local: %v", err)
	}
	// Empty kind defaults to local.
	if _, err := New(Config{CachePath: "x.json"}); err != nil {
		t.Errorf("default kind: %v", err)
	}
	if _, err := New(Config{Kind: KindRemote}); apperr.CodeOf(err) != apperr.CodeBadRequest {
		t.Errorf("remote without token: got %v, want BAD_REQUEST", err)
	}
	if _, err := New(Config{Kind: "carrier_pigeon"}); err == nil {
		t.Error("unknown kind accepted")
	}
}

func TestFile_ReadAndStat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte(`{"cache":"{}"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	f := NewFile(path)

	data, err := f.Read()
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"cache":"{}"}` {
		t.Errorf("data = %s", data)
	}

	st, err := f.Stat()
	if err != nil {
		t.Fatal(err)
	}
	if !st.Exists || !st.Readable || st.SizeBytes != 14 {
		t.Errorf("stats = %+v", st)
	}
	if f.Location() != path {
		t.Errorf("location = %q", f.Location())
	}
}

func TestFile_Missing(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "nope.json"))

	_, err := f.Read()
	if apperr.CodeOf(err) != apperr.CodeIO {
		t.Errorf("code = %v, want IO_ERROR", apperr.CodeOf(err))
	}

	st, err := f.Stat()
	if err != nil {
		t.Fatal(err)
	}
	if st.Exists {
		t.Errorf("stats = %+v, want not exists", st)
	}
}

func remoteDocsHandler(t *testing.T, authSeen *string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v2/get-documents" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		*authSeen = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{
			"docs": []any{
				map[string]any{"id": "e1", "title": "Sprint Planning"},
				map[string]any{"title": "no id, skipped"},
			},
		})
	}
}

func TestRemote_Read(t *testing.T) {
	var auth string
	srv := httptest.NewServer(remoteDocsHandler(t, &auth))
	defer srv.Close()

	r := NewRemote(srv.URL, "tok", t.TempDir(), 0)
	data, err := r.Read()
	if err != nil {
		t.Fatal(err)
	}
	if auth != "Bearer tok" {
		t.Errorf("authorization = %q", auth)
	}

	var envelope struct {
		Cache struct {
			State struct {
				Documents map[string]map[string]any `json:"documents"`
			} `json:"state"`
		} `json:"cache"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		t.Fatal(err)
	}
	docs := envelope.Cache.State.Documents
	if len(docs) != 1 || docs["e1"]["title"] != "Sprint Planning" {
		t.Errorf("documents = %+v", docs)
	}
}

func TestRemote_TTLCachesResponse(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		json.NewEncoder(w).Encode(map[string]any{"docs": []any{}})
	}))
	defer srv.Close()

	r := NewRemote(srv.URL, "tok", t.TempDir(), 3600)
	if _, err := r.Read(); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Read(); err != nil {
		t.Fatal(err)
	}
	if hits != 1 {
		t.Errorf("upstream hits = %d, want 1 (second read served from disk)", hits)
	}
}

func TestRemote_ErrorStatuses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	r := NewRemote(srv.URL, "tok", t.TempDir(), 0)
	_, err := r.Read()
	if apperr.CodeOf(err) != apperr.CodeIO {
		t.Errorf("code = %v, want IO_ERROR", apperr.CodeOf(err))
	}
}

func TestRemote_MissingDocsField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"items": []any{}})
	}))
	defer srv.Close()

	r := NewRemote(srv.URL, "tok", t.TempDir(), 0)
	_, err := r.Read()
	if apperr.CodeOf(err) != apperr.CodeIO {
		t.Fatalf("code = %v, want IO_ERROR", apperr.CodeOf(err))
	}
}
