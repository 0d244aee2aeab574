package meetings

import (
	"strings"
	"testing"

	"github.com/starford/ansuz/internal/models"
)

func renderFixture() models.Meeting {
	return models.Meeting{
		MeetingSummary: models.MeetingSummary{
			ID:           "e1",
			Title:        "Sprint Planning",
			StartTS:      "2025-09-02T10:00:00+00:00",
			EndTS:        "2025-09-02T11:00:00+00:00",
			Participants: []string{"Alice", "Bob"},
			Platform:     models.PlatformMeet,
		},
		Notes:      "Discuss roadmap",
		FolderName: "Folder A",
	}
}

func TestRenderMarkdown_FullLayout(t *testing.T) {
	got := RenderMarkdown(renderFixture(), nil)
	want := strings.Join([]string{
		"# Sprint Planning",
		"",
		"- ID: `e1`",
		"- When: 2025-09-02T10:00:00+00:00 → 2025-09-02T11:00:00+00:00",
		"- Platform: meet",
		"- Folder: Folder A",
		"",
		"## Attendees",
		"- Alice",
		"- Bob",
		"",
		"## Notes",
		"Discuss roadmap",
		"",
	}, "\n")
	if got != want {
		t.Errorf("render mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestRenderMarkdown_SelectedSections(t *testing.T) {
	got := RenderMarkdown(renderFixture(), []string{SectionNotes})
	want := "## Notes\nDiscuss roadmap\n"
	if got != want {
		t.Errorf("notes-only render = %q, want %q", got, want)
	}
}

func TestRenderMarkdown_EmptyNotesOmitted(t *testing.T) {
	m := renderFixture()
	m.Notes = ""
	got := RenderMarkdown(m, nil)
	if strings.Contains(got, "## Notes") {
		t.Errorf("empty notes section rendered:\n%s", got)
	}
}

func TestRenderMarkdown_TrailingNewline(t *testing.T) {
	got := RenderMarkdown(renderFixture(), nil)
	if !strings.HasSuffix(got, "\n") || strings.HasSuffix(got, "\n\n") {
		t.Errorf("want exactly one trailing newline, got %q", got[len(got)-3:])
	}
}

func TestRenderMarkdown_Deterministic(t *testing.T) {
	m := renderFixture()
	if RenderMarkdown(m, nil) != RenderMarkdown(m, nil) {
		t.Error("render output differs between identical calls")
	}
}
