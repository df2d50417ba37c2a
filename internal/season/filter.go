package season

import (
	"regexp"
	"strconv"

	"github.com/mauv0809/fairway-oom/internal/oom"
)

var leadingYear = regexp.MustCompile(`^\s*(\d{4})`)

// EventYear extracts the year an event date starts with. Dates are stored as entered, so
// "2024-05-12", "2024/05/12" and "2024-05-12T09:00:00Z" all count as 2024.
func EventYear(date string) (int, bool) {
	m := leadingYear.FindStringSubmatch(date)
	if m == nil {
		return 0, false
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return year, true
}

// SelectEvents returns the published events that match opts, in their original order.
func SelectEvents(events []oom.Event, opts Options) []oom.Event {
	selected := make([]oom.Event, 0, len(events))
	for _, ev := range events {
		if ev.Status != oom.StatusPublished {
			continue
		}
		if opts.Year != 0 {
			year, ok := EventYear(ev.Date)
			if !ok || year != opts.Year {
				continue
			}
		}
		if opts.OOMOnly && !ev.OOMEligible {
			continue
		}
		selected = append(selected, ev)
	}
	return selected
}
