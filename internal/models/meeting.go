// Package models defines the domain types for Ansuz.
package models

// Platform is the closed conferencing-platform enumeration. Any
// recognized provider maps to its own value; any other non-empty
// provider maps to PlatformOther; an absent provider leaves the
// platform unset (empty string).
type Platform string

// Known platforms.
const (
	PlatformMeet  Platform = "meet"
	PlatformZoom  Platform = "zoom"
	PlatformTeams Platform = "teams"
	PlatformOther Platform = "other"
)

// MeetingSummary is the lightweight meeting view returned by list and
// search operations.
type MeetingSummary struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	StartTS      string   `json:"start_ts"`
	EndTS        string   `json:"end_ts,omitempty"`
	Participants []string `json:"participants"`
	Platform     Platform `json:"platform,omitempty"`
}

// Meeting is the full normalized meeting record produced by the
// extractor. Constructed fresh on every extraction pass and never
// mutated afterwards.
type Meeting struct {
	MeetingSummary

	Notes         string           `json:"notes,omitempty"`
	Overview      string           `json:"overview,omitempty"`
	Summary       string           `json:"summary,omitempty"`
	FolderID      string           `json:"folder_id,omitempty"`
	FolderName    string           `json:"folder_name,omitempty"`
	HasTranscript bool             `json:"has_transcript"`
	Transcript    []TranscriptTurn `json:"transcript,omitempty"`
}

// TranscriptTurn is one coalesced block of consecutive same-speaker
// transcript segments. Derived on demand, never persisted.
type TranscriptTurn struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
	StartTS string `json:"start_ts"`
	EndTS   string `json:"end_ts"`
}

// TranscriptSegment is one raw timestamped utterance as it appears in
// the cache, before turn coalescing.
type TranscriptSegment struct {
	Speaker string
	TS      string
	Text    string
}
