package service

import (
	"bufio"
	"io"
	"strings"
	"time"
)

// Accepted date layouts for holiday imports, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02-01-2006",
	"02/01/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

type parsedHoliday struct {
	Name string
	Date time.Time
}

// parseHolidayRows reads comma or tab separated lines. Each usable row has
// one cell that parses as a date; the first other non-empty cell becomes
// the holiday name. Rows without a date are skipped.
func parseHolidayRows(r io.Reader) ([]parsedHoliday, error) {
	var out []parsedHoliday

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		sep := ","
		if strings.Contains(line, "\t") {
			sep = "\t"
		}
		cells := strings.Split(line, sep)

		var (
			name string
			date time.Time
			ok   bool
		)
		for _, cell := range cells {
			cell = strings.TrimSpace(strings.Trim(strings.TrimSpace(cell), `"`))
			if cell == "" {
				continue
			}
			if !ok {
				if d, found := parseDate(cell); found {
					date = d
					ok = true
					continue
				}
			}
			if name == "" {
				name = cell
			}
		}
		if !ok {
			continue
		}
		if name == "" {
			name = "Holiday"
		}
		out = append(out, parsedHoliday{Name: name, Date: date})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
