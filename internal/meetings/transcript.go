package meetings

import (
	"strings"

	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/timeutil"
	"github.com/starford/ansuz/internal/untyped"
)

// Segments reads the raw utterance segments for a meeting from the
// state object. A missing or malformed transcripts mapping yields nil,
// never an error.
func Segments(state map[string]any, meetingID string) []models.TranscriptSegment {
	raw := untyped.Slice(untyped.Map(state, "transcripts"), meetingID)
	var out []models.TranscriptSegment
	for _, v := range raw {
		seg, ok := untyped.AsMap(v)
		if !ok {
			continue
		}
		out = append(out, models.TranscriptSegment{
			Speaker: untyped.Str(seg, "source"),
			TS:      timeutil.Normalize(seg["ts"]),
			Text:    untyped.Str(seg, "text"),
		})
	}
	return out
}

// BuildTurns coalesces consecutive segments sharing a speaker label
// into turns: texts joined with single spaces, the turn spanning the
// first through last segment timestamps. A new turn begins at the first
// segment and whenever the speaker label changes.
func BuildTurns(segments []models.TranscriptSegment) []models.TranscriptTurn {
	var turns []models.TranscriptTurn
	var texts []string

	flush := func(turn *models.TranscriptTurn) {
		turn.Text = strings.Join(texts, " ")
		turns = append(turns, *turn)
		texts = texts[:0]
	}

	var current *models.TranscriptTurn
	for _, seg := range segments {
		if current == nil || seg.Speaker != current.Speaker {
			if current != nil {
				flush(current)
			}
			current = &models.TranscriptTurn{
				Speaker: seg.Speaker,
				StartTS: seg.TS,
			}
		}
		current.EndTS = seg.TS
		texts = append(texts, seg.Text)
	}
	if current != nil {
		flush(current)
	}
	return turns
}
