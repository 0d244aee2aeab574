package timeutil

import "testing"

func TestNormalize_ZSuffix(t *testing.T) {
	got := Normalize("2025-09-01T10:00:00Z")
	want := "2025-09-01T10:00:00+00:00"
	if got != want {
		t.Errorf("Normalize = %q, want %q", got, want)
	}
}

func TestNormalize_ExplicitOffset(t *testing.T) {
	got := Normalize("2025-09-01T12:00:00+02:00")
	if got != "2025-09-01T12:00:00+02:00" {
		t.Errorf("Normalize = %q", got)
	}
}

func TestNormalize_EpochSecondsAndMillis(t *testing.T) {
	sec := Normalize(float64(1756722000))
	ms := Normalize(float64(1756722000000))
	if sec != ms {
		t.Errorf("seconds %q != milliseconds %q", sec, ms)
	}
	if sec != "2025-09-01T10:20:00+00:00" {
		t.Errorf("epoch = %q", sec)
	}
}

func TestNormalize_Nil(t *testing.T) {
	if got := Normalize(nil); got != "" {
		t.Errorf("Normalize(nil) = %q, want empty", got)
	}
}

func TestNormalize_UnparseableStringReturnedUnchanged(t *testing.T) {
	if got := Normalize("not a timestamp"); got != "not a timestamp" {
		t.Errorf("Normalize = %q", got)
	}
}

func TestNormalize_ZonelessAssumedUTC(t *testing.T) {
	got := Normalize("2025-09-01T10:00:00")
	if got != "2025-09-01T10:00:00+00:00" {
		t.Errorf("Normalize = %q", got)
	}
}

func TestDayKey(t *testing.T) {
	key, ok := DayKey("2025-09-01T23:30:00+02:00")
	if !ok || key != "2025-09-01" {
		t.Errorf("DayKey = %q, %v", key, ok)
	}
	if _, ok := DayKey(""); ok {
		t.Error("DayKey(\"\") should not parse")
	}
}

func TestDayKey_BucketsInUTC(t *testing.T) {
	// 23:30 at -03:00 is 02:30 UTC the next day.
	key, ok := DayKey("2025-09-01T23:30:00-03:00")
	if !ok || key != "2025-09-02" {
		t.Errorf("DayKey = %q, %v, want 2025-09-02", key, ok)
	}
}

func TestWeekKey_BucketsInUTC(t *testing.T) {
	// Sunday 23:00 at -03:00 is Monday 02:00 UTC, one ISO week later.
	key, ok := WeekKey("2025-09-07T23:00:00-03:00")
	if !ok || key != "2025-W37" {
		t.Errorf("WeekKey = %q, %v, want 2025-W37", key, ok)
	}
}

func TestWeekKey_ZeroPadded(t *testing.T) {
	key, ok := WeekKey("2025-01-02T00:00:00Z")
	if !ok || key != "2025-W01" {
		t.Errorf("WeekKey = %q, %v", key, ok)
	}
}

func TestWeekKey_ISOYearBoundary(t *testing.T) {
	// 2024-12-30 falls in ISO week 1 of 2025.
	key, ok := WeekKey("2024-12-30T12:00:00Z")
	if !ok || key != "2025-W01" {
		t.Errorf("WeekKey = %q, %v", key, ok)
	}
}
