package service

import (
	"sort"
	"time"

	"github.com/leavesync/leavesync/internal/holiday/domain"
)

// Runs of workdays up to this length, flanked by non-working days on both
// sides, are suggested as bridge days.
const maxBridgeRun = 2

const bridgeReason = "Bridge day: take off to extend your break"

type dayFacts struct {
	workingDays map[int]bool
	holidays    map[time.Time]string
	leaveDays   map[time.Time]bool
}

// isoWeekday maps Go's Sunday-based weekday to ISO numbering (Monday 1,
// Sunday 7).
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func classify(d time.Time, facts dayFacts) domain.CalendarDay {
	day := domain.CalendarDay{Date: d, Kind: domain.DayWorkday}
	switch {
	case facts.leaveDays[d]:
		day.Kind = domain.DayLeave
	case facts.holidays[d] != "":
		day.Kind = domain.DayHoliday
		day.Holiday = facts.holidays[d]
	case !facts.workingDays[isoWeekday(d)]:
		day.Kind = domain.DayWeekend
	}
	return day
}

// bridgeDays finds short workday runs whose neighbors on both sides are
// holidays or weekends. Only runs fully inside the classified span count.
func bridgeDays(days []domain.CalendarDay) []time.Time {
	kinds := make(map[time.Time]domain.DayKind, len(days))
	ordered := make([]time.Time, 0, len(days))
	for _, d := range days {
		kinds[d.Date] = d.Kind
		ordered = append(ordered, d.Date)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Before(ordered[j]) })

	nonWork := func(t time.Time) bool {
		k, ok := kinds[t]
		return ok && (k == domain.DayHoliday || k == domain.DayWeekend)
	}

	var out []time.Time
	i := 0
	for i < len(ordered) {
		if kinds[ordered[i]] != domain.DayWorkday {
			i++
			continue
		}
		end := i
		for end+1 < len(ordered) && kinds[ordered[end+1]] == domain.DayWorkday {
			end++
		}

		runLen := end - i + 1
		left := ordered[i].AddDate(0, 0, -1)
		right := ordered[end].AddDate(0, 0, 1)
		if runLen <= maxBridgeRun && nonWork(left) && nonWork(right) {
			out = append(out, ordered[i:end+1]...)
		}
		i = end + 1
	}
	return out
}
