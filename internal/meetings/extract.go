// Package meetings implements the normalization core: extraction of
// flat meeting records from the decoded document graph, transcript turn
// coalescing, filtering, pagination, rendering, and aggregation.
package meetings

import (
	"sort"
	"strings"

	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/timeutil"
	"github.com/starford/ansuz/internal/untyped"
)

// untitledPlaceholder is used when a document carries no title.
const untitledPlaceholder = "Untitled Meeting"

// hrSentinel is the placeholder panel content that must not be surfaced
// as notes.
const hrSentinel = "<hr>"

// meetingType is the document type discriminator for meetings. Entries
// with no discriminator at all are still included.
const meetingType = "meeting"

// folderRef is one entry of the reverse folder index.
type folderRef struct {
	id   string
	name string
}

// participantSource yields candidate participant names for one
// document. Sources are tried in order; names are appended if novel,
// never replacing what an earlier source already contributed.
type participantSource func(doc, meta map[string]any) []string

var participantSources = []participantSource{
	peopleParticipants,
	attendeeParticipants,
}

// notesSource yields note text for one document. Sources are tried in
// order; the first non-empty result wins.
type notesSource func(doc, panels map[string]any) string

var notesSources = []notesSource{
	plainNotes,
	markdownNotes,
	panelNotes,
}

// Extract walks the decoded state object and produces the ordered
// collection of normalized meeting records. It is a pure function of
// its input: no state is kept, malformed fields degrade to documented
// defaults, and two calls over the same graph yield identical output.
func Extract(state map[string]any) []models.Meeting {
	documents := untyped.Map(state, "documents")
	if documents == nil {
		return nil
	}
	metadataMap := untyped.Map(state, "meetingsMetadata")
	panelsMap := untyped.Map(state, "documentPanels")
	transcriptsMap := untyped.Map(state, "transcripts")
	folders := folderIndex(state)

	items := make([]models.Meeting, 0, len(documents))
	for _, docKey := range sortedKeys(documents) {
		doc, ok := untyped.AsMap(documents[docKey])
		if !ok {
			continue
		}
		if t := untyped.Str(doc, "type"); t != "" && t != meetingType {
			continue
		}

		id := untyped.Str(doc, "id")
		if id == "" {
			id = docKey
		}
		title := untyped.Str(doc, "title")
		if title == "" {
			title = untitledPlaceholder
		}

		meta := untyped.Map(metadataMap, id)
		panels := untyped.Map(panelsMap, id)

		m := models.Meeting{
			MeetingSummary: models.MeetingSummary{
				ID:           id,
				Title:        title,
				StartTS:      timeutil.Normalize(doc["created_at"]),
				Participants: resolveParticipants(doc, meta),
				Platform:     mapPlatform(untyped.Str(untyped.Map(meta, "conference"), "provider")),
			},
			Notes:         resolveNotes(doc, panels),
			Overview:      untyped.Str(doc, "overview"),
			Summary:       untyped.Str(doc, "summary"),
			HasTranscript: len(untyped.Slice(transcriptsMap, id)) > 0,
		}
		if ref, ok := folders[id]; ok {
			m.FolderID = ref.id
			m.FolderName = ref.name
		}
		items = append(items, m)
	}

	// Newest first; records without a start timestamp sort last. The
	// sort is stable so equal keys keep their key-order position.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].StartTS > items[j].StartTS
	})
	return items
}

// Find returns the record with the given id from an extracted
// collection, scanning linearly.
func Find(records []models.Meeting, id string) (models.Meeting, bool) {
	for _, m := range records {
		if m.ID == id {
			return m, true
		}
	}
	return models.Meeting{}, false
}

// folderIndex reverse-resolves folder membership: every id listed under
// a folder maps to that folder's id and title.
func folderIndex(state map[string]any) map[string]folderRef {
	lists := untyped.Map(state, "documentLists")
	listsMeta := untyped.Map(state, "documentListsMetadata")
	out := make(map[string]folderRef)
	for folderID, v := range lists {
		ids, ok := untyped.AsSlice(v)
		if !ok {
			continue
		}
		name := untyped.Str(untyped.Map(listsMeta, folderID), "title")
		for _, idv := range ids {
			if id, ok := untyped.AsString(idv); ok {
				out[id] = folderRef{id: folderID, name: name}
			}
		}
	}
	return out
}

func resolveParticipants(doc, meta map[string]any) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, src := range participantSources {
		for _, name := range src(doc, meta) {
			// De-duplication is case-sensitive exact match.
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names
}

func peopleParticipants(doc, _ map[string]any) []string {
	return namesOf(untyped.Slice(doc, "people"))
}

func attendeeParticipants(_, meta map[string]any) []string {
	return namesOf(untyped.Slice(meta, "attendees"))
}

func namesOf(persons []any) []string {
	var out []string
	for _, p := range persons {
		person, ok := untyped.AsMap(p)
		if !ok {
			continue
		}
		if name := untyped.Str(person, "name"); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func resolveNotes(doc, panels map[string]any) string {
	for _, src := range notesSources {
		if notes := src(doc, panels); notes != "" {
			return notes
		}
	}
	return ""
}

func plainNotes(doc, _ map[string]any) string {
	return untyped.Str(doc, "notes_plain")
}

func markdownNotes(doc, _ map[string]any) string {
	return untyped.Str(doc, "notes_markdown")
}

// panelNotes returns the first panel whose raw content is a non-empty,
// non-placeholder string. Panels are visited in key order so the result
// is deterministic.
func panelNotes(_, panels map[string]any) string {
	for _, key := range sortedKeys(panels) {
		panel, ok := untyped.AsMap(panels[key])
		if !ok {
			continue
		}
		content := strings.TrimSpace(untyped.Str(panel, "original_content"))
		if content != "" && content != hrSentinel {
			return content
		}
	}
	return ""
}

func mapPlatform(provider string) models.Platform {
	switch provider {
	case "":
		return ""
	case "google_meet":
		return models.PlatformMeet
	case "zoom":
		return models.PlatformZoom
	case "teams":
		return models.PlatformTeams
	default:
		return models.PlatformOther
	}
}

func sortedKeys(m map[string]any) []string {
	keys := untyped.Keys(m)
	sort.Strings(keys)
	return keys
}
