package meetings_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/cache"
	"github.com/starford/ansuz/internal/meetings"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/source"
	"github.com/starford/ansuz/internal/testutil"
)

func serviceState() map[string]any {
	return map[string]any{
		"documents": map[string]any{
			"e1": map[string]any{
				"id":          "e1",
				"title":       "Sprint Planning",
				"created_at":  "2025-09-02T10:00:00Z",
				"people":      []any{map[string]any{"name": "Alice"}},
				"notes_plain": "Discuss roadmap",
			},
			"e2": map[string]any{
				"id":         "e2",
				"title":      "Retro",
				"created_at": "2025-09-01T09:00:00Z",
				"people":     []any{map[string]any{"name": "Carol"}},
			},
		},
		"transcripts": map[string]any{
			"e1": []any{
				map[string]any{"ts": "2025-09-02T10:00:00Z", "source": "Alice", "text": "Hello"},
				map[string]any{"ts": "2025-09-02T10:00:05Z", "source": "Alice", "text": "World"},
				map[string]any{"ts": "2025-09-02T10:00:10Z", "source": "Bob", "text": "Reply"},
			},
		},
	}
}

func newTestService(t *testing.T, idx meetings.Index) *meetings.Service {
	t.Helper()
	path := testutil.WriteCacheFile(t, testutil.State(serviceState()))
	src, err := source.New(source.Config{Kind: source.KindLocal, CachePath: path})
	if err != nil {
		t.Fatal(err)
	}
	return meetings.NewService(cache.NewLoader(src), idx, nil)
}

func TestService_List(t *testing.T) {
	svc := newTestService(t, nil)
	page, err := svc.List(meetings.ListParams{})
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 2 || page.NextCursor != "" {
		t.Fatalf("page = %+v", page)
	}
	if page.Items[0].ID != "e1" {
		t.Errorf("first item = %s, want e1 (newest first)", page.Items[0].ID)
	}

	page, err = svc.List(meetings.ListParams{Query: "roadmap"})
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != "e1" {
		t.Errorf("filtered page = %+v", page.Items)
	}
}

func TestService_List_InvalidCursor(t *testing.T) {
	svc := newTestService(t, nil)
	_, err := svc.List(meetings.ListParams{Cursor: "bogus"})
	if apperr.CodeOf(err) != apperr.CodeBadRequest {
		t.Errorf("code = %v, want BAD_REQUEST", apperr.CodeOf(err))
	}
}

func TestService_Get(t *testing.T) {
	svc := newTestService(t, nil)

	m, err := svc.Get("e1", true)
	if err != nil {
		t.Fatal(err)
	}
	if m.Title != "Sprint Planning" {
		t.Errorf("title = %q", m.Title)
	}
	if len(m.Transcript) != 2 {
		t.Fatalf("transcript turns = %d, want 2", len(m.Transcript))
	}
	if m.Transcript[0].Text != "Hello World" {
		t.Errorf("turn text = %q", m.Transcript[0].Text)
	}

	m, err = svc.Get("e1", false)
	if err != nil {
		t.Fatal(err)
	}
	if m.Transcript != nil {
		t.Error("transcript attached without being requested")
	}
}

func TestService_Get_Errors(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.Get("", false)
	if apperr.CodeOf(err) != apperr.CodeBadRequest {
		t.Errorf("empty id: code = %v, want BAD_REQUEST", apperr.CodeOf(err))
	}

	_, err = svc.Get("missing", false)
	if apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Errorf("unknown id: code = %v, want NOT_FOUND", apperr.CodeOf(err))
	}
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Details["id"] != "missing" {
		t.Errorf("details = %+v, want requested id", err)
	}
}

func TestService_Search_Linear(t *testing.T) {
	svc := newTestService(t, nil)
	page, err := svc.Search(meetings.SearchParams{Query: "sprint"})
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != "e1" {
		t.Errorf("search results = %+v", page.Items)
	}
}

func TestService_Search_Indexed(t *testing.T) {
	db := testutil.TestIndex(t)
	svc := newTestService(t, db)
	if err := svc.SyncIndex(); err != nil {
		t.Fatal(err)
	}

	page, err := svc.Search(meetings.SearchParams{Query: "roadmap"})
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != "e1" {
		t.Errorf("indexed search = %+v", page.Items)
	}
}

func TestService_Search_IndexedMatchesLinear(t *testing.T) {
	state := map[string]any{
		"documents": map[string]any{
			"e1": map[string]any{
				"id":         "e1",
				"title":      "CafÉ sync",
				"created_at": "2025-09-02T10:00:00Z",
			},
			"e2": map[string]any{
				"id":         "e2",
				"title":      "Retro",
				"created_at": "2025-09-01T09:00:00Z",
			},
		},
	}
	path := testutil.WriteCacheFile(t, testutil.State(state))
	src, err := source.New(source.Config{Kind: source.KindLocal, CachePath: path})
	if err != nil {
		t.Fatal(err)
	}

	linear := meetings.NewService(cache.NewLoader(src), nil, nil)
	indexed := meetings.NewService(cache.NewLoader(src), testutil.TestIndex(t), nil)
	if err := indexed.SyncIndex(); err != nil {
		t.Fatal(err)
	}

	// Case folding beyond ASCII must not depend on the search profile.
	for _, query := range []string{"café", "CAFÉ", "retro"} {
		want, err := linear.Search(meetings.SearchParams{Query: query})
		if err != nil {
			t.Fatal(err)
		}
		got, err := indexed.Search(meetings.SearchParams{Query: query})
		if err != nil {
			t.Fatal(err)
		}
		if len(got.Items) != len(want.Items) {
			t.Fatalf("query %q: indexed found %d items, linear found %d",
				query, len(got.Items), len(want.Items))
		}
		for i := range got.Items {
			if got.Items[i].ID != want.Items[i].ID {
				t.Errorf("query %q: item %d = %s, linear has %s",
					query, i, got.Items[i].ID, want.Items[i].ID)
			}
		}
		if len(want.Items) != 1 {
			t.Errorf("query %q: linear found %d items, want 1", query, len(want.Items))
		}
	}
}

// failingIndex errors on every call to exercise the degradation path.
type failingIndex struct{}

func (failingIndex) Sync([]models.Meeting) error { return errors.New("index down") }
func (failingIndex) Search(string, int) ([]string, error) {
	return nil, errors.New("index down")
}

func TestService_Search_IndexFailureFallsBack(t *testing.T) {
	svc := newTestService(t, failingIndex{})
	page, err := svc.Search(meetings.SearchParams{Query: "retro"})
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != "e2" {
		t.Errorf("degraded search = %+v", page.Items)
	}
}

func TestService_ExportMarkdown(t *testing.T) {
	svc := newTestService(t, nil)

	out, err := svc.ExportMarkdown("e1", nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"# Sprint Planning", "- ID: `e1`", "## Attendees", "- Alice", "## Notes"} {
		if !strings.Contains(out, want) {
			t.Errorf("export missing %q:\n%s", want, out)
		}
	}

	if _, err := svc.ExportMarkdown("", nil); apperr.CodeOf(err) != apperr.CodeBadRequest {
		t.Errorf("empty id: got %v", err)
	}
	if _, err := svc.ExportMarkdown("missing", nil); apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Errorf("unknown id: got %v", err)
	}
}

func TestService_Stats(t *testing.T) {
	svc := newTestService(t, nil)
	res, err := svc.Stats("", meetings.GroupByDay)
	if err != nil {
		t.Fatal(err)
	}
	total := 0
	for _, pc := range res.ByPeriod {
		total += pc.Meetings
	}
	if total != 2 {
		t.Errorf("total counted = %d, want 2", total)
	}
}

func TestService_CacheStatus(t *testing.T) {
	svc := newTestService(t, nil)
	if _, err := svc.List(meetings.ListParams{}); err != nil {
		t.Fatal(err)
	}

	st := svc.CacheStatus()
	if st.Profile != "linear" {
		t.Errorf("profile = %q, want linear", st.Profile)
	}
	if !st.Exists || st.MeetingCount != 2 {
		t.Errorf("status = %+v", st)
	}

	svc = newTestService(t, testutil.TestIndex(t))
	if got := svc.CacheStatus().Profile; got != "sqlite" {
		t.Errorf("profile = %q, want sqlite", got)
	}
}

func TestService_Refresh(t *testing.T) {
	db := testutil.TestIndex(t)
	svc := newTestService(t, db)

	res, err := svc.Refresh()
	if err != nil {
		t.Fatal(err)
	}
	if res.MeetingCount != 2 {
		t.Errorf("meeting_count = %d, want 2", res.MeetingCount)
	}
	n, err := db.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("indexed rows = %d, want 2", n)
	}
}
