package meetings

import (
	"strconv"
	"strings"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/timeutil"
)

// DefaultLimit is the page size used when a request does not set one.
const DefaultLimit = 50

// Filter holds the predicate applied over extracted records. The zero
// value matches everything.
type Filter struct {
	// Query is a case-insensitive substring matched against the
	// concatenation of title, notes, and participant names.
	Query string
	// Participants requires a non-empty case-insensitive intersection
	// with the record's participant names.
	Participants []string
	// Platform requires case-insensitive equality.
	Platform string
	// From and To are inclusive bounds compared against the canonical
	// start timestamp. A bound that cannot be normalized is ignored.
	From string
	To   string
}

// Match reports whether a record passes the filter.
func (f Filter) Match(m models.Meeting) bool {
	if f.Query != "" {
		hay := strings.ToLower(m.Title + " " + m.Notes + " " + strings.Join(m.Participants, " "))
		if !strings.Contains(hay, strings.ToLower(f.Query)) {
			return false
		}
	}
	if len(f.Participants) > 0 && !intersects(f.Participants, m.Participants) {
		return false
	}
	if f.Platform != "" && !strings.EqualFold(f.Platform, string(m.Platform)) {
		return false
	}
	if bound, ok := normalizeBound(f.From); ok && m.StartTS < bound {
		return false
	}
	if bound, ok := normalizeBound(f.To); ok && m.StartTS > bound {
		return false
	}
	return true
}

// Apply returns the records matching the filter, preserving order.
func (f Filter) Apply(records []models.Meeting) []models.Meeting {
	out := make([]models.Meeting, 0, len(records))
	for _, m := range records {
		if f.Match(m) {
			out = append(out, m)
		}
	}
	return out
}

func intersects(want, have []string) bool {
	set := make(map[string]struct{}, len(want))
	for _, w := range want {
		set[strings.ToLower(w)] = struct{}{}
	}
	for _, h := range have {
		if _, ok := set[strings.ToLower(h)]; ok {
			return true
		}
	}
	return false
}

func normalizeBound(bound string) (string, bool) {
	if bound == "" {
		return "", false
	}
	t, ok := timeutil.Parse(bound)
	if !ok {
		return "", false
	}
	return timeutil.Canonical(t), true
}

// Paginate slices a filtered, already-sorted collection. The cursor is
// a decimal offset; empty means 0. The next cursor is offset+limit as a
// string, returned only while that offset is still within bounds.
func Paginate[T any](items []T, limit int, cursor string) ([]T, string, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	start := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil || n < 0 {
			return nil, "", apperr.BadRequest("invalid cursor", map[string]any{
				"cursor": cursor,
			})
		}
		start = n
	}
	if start >= len(items) {
		return []T{}, "", nil
	}
	end := start + limit
	next := ""
	if end < len(items) {
		next = strconv.Itoa(end)
	} else {
		end = len(items)
	}
	return items[start:end], next, nil
}
