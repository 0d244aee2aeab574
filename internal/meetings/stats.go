package meetings

import (
	"sort"
	"time"

	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/timeutil"
)

// Stats windows and grouping modes.
const (
	GroupByDay  = "day"
	GroupByWeek = "week"
)

// windowDays maps the recognized window literals to their length.
var windowDays = map[string]int{
	"7d":  7,
	"30d": 30,
	"90d": 90,
}

// PeriodCount is one aggregation bucket.
type PeriodCount struct {
	Period   string `json:"period"`
	Meetings int    `json:"meetings"`
}

// CountByPeriod groups records by day or ISO week key within an
// optional trailing window relative to now. Records whose start
// timestamp cannot be parsed are skipped rather than failing the
// aggregation. Buckets are returned in ascending period order.
func CountByPeriod(records []models.Meeting, window, groupBy string, now time.Time) []PeriodCount {
	var cutoff string
	if days, ok := windowDays[window]; ok {
		cutoff = timeutil.Canonical(now.UTC().AddDate(0, 0, -days))
	}

	counts := make(map[string]int)
	for _, m := range records {
		if cutoff != "" && m.StartTS < cutoff {
			continue
		}
		var key string
		var ok bool
		if groupBy == GroupByWeek {
			key, ok = timeutil.WeekKey(m.StartTS)
		} else {
			key, ok = timeutil.DayKey(m.StartTS)
		}
		if !ok {
			continue
		}
		counts[key]++
	}

	out := make([]PeriodCount, 0, len(counts))
	for k, v := range counts {
		out = append(out, PeriodCount{Period: k, Meetings: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}
