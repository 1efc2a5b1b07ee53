package service

import (
	"testing"
	"time"

	"github.com/leavesync/leavesync/internal/holiday/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsoWeekday(t *testing.T) {
	// 2025-06-02 is a Monday.
	if got := isoWeekday(day(2025, 6, 2)); got != 1 {
		t.Fatalf("expected Monday=1, got %d", got)
	}
	// 2025-06-08 is a Sunday.
	if got := isoWeekday(day(2025, 6, 8)); got != 7 {
		t.Fatalf("expected Sunday=7, got %d", got)
	}
}

func TestClassifyPrecedence(t *testing.T) {
	monday := day(2025, 6, 2)
	facts := dayFacts{
		workingDays: map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true},
		holidays:    map[time.Time]string{monday: "Founders Day"},
		leaveDays:   map[time.Time]bool{monday: true},
	}

	// Leave wins over holiday, holiday over weekend, weekend over workday.
	if got := classify(monday, facts); got.Kind != domain.DayLeave {
		t.Fatalf("expected leave, got %s", got.Kind)
	}

	delete(facts.leaveDays, monday)
	got := classify(monday, facts)
	if got.Kind != domain.DayHoliday || got.Holiday != "Founders Day" {
		t.Fatalf("expected holiday, got %+v", got)
	}

	delete(facts.holidays, monday)
	if got := classify(monday, facts); got.Kind != domain.DayWorkday {
		t.Fatalf("expected workday, got %s", got.Kind)
	}

	saturday := day(2025, 6, 7)
	if got := classify(saturday, facts); got.Kind != domain.DayWeekend {
		t.Fatalf("expected weekend, got %s", got.Kind)
	}
}

func buildDays(t *testing.T, from, to time.Time, facts dayFacts) []domain.CalendarDay {
	t.Helper()
	var out []domain.CalendarDay
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		out = append(out, classify(d, facts))
	}
	return out
}

func TestBridgeDaysSingleGap(t *testing.T) {
	// Thursday 2025-06-05 is a holiday; Friday the 6th bridges into the
	// weekend.
	facts := dayFacts{
		workingDays: map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true},
		holidays:    map[time.Time]string{day(2025, 6, 5): "Founders Day"},
		leaveDays:   map[time.Time]bool{},
	}
	days := buildDays(t, day(2025, 6, 2), day(2025, 6, 8), facts)

	got := bridgeDays(days)
	if len(got) != 1 {
		t.Fatalf("expected 1 bridge day, got %d: %v", len(got), got)
	}
	if !got[0].Equal(day(2025, 6, 6)) {
		t.Fatalf("expected Friday the 6th, got %v", got[0])
	}
}

func TestBridgeDaysTwoDayRun(t *testing.T) {
	// Wednesday 2025-06-04 is a holiday; Thursday and Friday bridge it to
	// the weekend.
	facts := dayFacts{
		workingDays: map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true},
		holidays:    map[time.Time]string{day(2025, 6, 4): "Founders Day"},
		leaveDays:   map[time.Time]bool{},
	}
	days := buildDays(t, day(2025, 6, 2), day(2025, 6, 8), facts)

	got := bridgeDays(days)
	if len(got) != 2 {
		t.Fatalf("expected 2 bridge days, got %d: %v", len(got), got)
	}
}

func TestBridgeDaysIgnoresFullWeeks(t *testing.T) {
	// A plain working week between two weekends is not a bridge.
	facts := dayFacts{
		workingDays: map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true},
		holidays:    map[time.Time]string{},
		leaveDays:   map[time.Time]bool{},
	}
	days := buildDays(t, day(2025, 6, 1), day(2025, 6, 14), facts)

	if got := bridgeDays(days); len(got) != 0 {
		t.Fatalf("expected no bridge days, got %v", got)
	}
}

func TestBridgeDaysNeedsBothFlanks(t *testing.T) {
	// Runs touching the edge of the classified span have no known left
	// neighbor and are skipped.
	facts := dayFacts{
		workingDays: map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true},
		holidays:    map[time.Time]string{},
		leaveDays:   map[time.Time]bool{},
	}
	// Friday through Sunday: the Friday run starts the span.
	days := buildDays(t, day(2025, 6, 6), day(2025, 6, 8), facts)

	if got := bridgeDays(days); len(got) != 0 {
		t.Fatalf("expected no bridge days at span edge, got %v", got)
	}
}
