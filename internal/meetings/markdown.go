package meetings

import (
	"strings"

	"github.com/starford/ansuz/internal/models"
)

// Markdown section names.
const (
	SectionHeader    = "header"
	SectionAttendees = "attendees"
	SectionNotes     = "notes"
)

// DefaultSections is the section set used when none are requested.
var DefaultSections = []string{SectionHeader, SectionAttendees, SectionNotes}

// RenderMarkdown renders one meeting into Markdown with the requested
// sections. Output is deterministic and always ends with exactly one
// trailing newline so downstream diffs stay stable. The notes section
// is silently omitted when the record has no notes.
func RenderMarkdown(m models.Meeting, sections []string) string {
	if len(sections) == 0 {
		sections = DefaultSections
	}
	selected := make(map[string]struct{}, len(sections))
	for _, s := range sections {
		selected[s] = struct{}{}
	}

	var parts []string
	if _, ok := selected[SectionHeader]; ok {
		parts = append(parts, "# "+m.Title, "")
		parts = append(parts, "- ID: `"+m.ID+"`")
		when := "- When: " + m.StartTS
		if m.EndTS != "" {
			when += " → " + m.EndTS
		}
		parts = append(parts, when)
		if m.Platform != "" {
			parts = append(parts, "- Platform: "+string(m.Platform))
		}
		if m.FolderName != "" {
			parts = append(parts, "- Folder: "+m.FolderName)
		}
		parts = append(parts, "")
	}

	if _, ok := selected[SectionAttendees]; ok {
		parts = append(parts, "## Attendees")
		bullets := make([]string, len(m.Participants))
		for i, name := range m.Participants {
			bullets[i] = "- " + name
		}
		parts = append(parts, strings.Join(bullets, "\n"), "")
	}

	if _, ok := selected[SectionNotes]; ok && m.Notes != "" {
		parts = append(parts, "## Notes", m.Notes, "")
	}

	return strings.TrimSpace(strings.Join(parts, "\n")) + "\n"
}
