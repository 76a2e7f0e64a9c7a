package analytics

import (
	"fmt"
	"time"
)

// AbsoluteDateLayout is the layout used for the absolute form of a date.
const AbsoluteDateLayout = "Jan 2, 2006"

// DateDescription is the display form of a timestamp relative to now.
type DateDescription struct {
	Absolute string `json:"absolute"`
	Relative string `json:"relative"`
	IsUrgent bool   `json:"isUrgent"`
}

// ClassifyDate describes target relative to now and flags it urgent when it
// is close enough to need attention. Day and hour counts are floored.
func ClassifyDate(target, now time.Time) DateDescription {
	absolute := target.In(now.Location()).Format(AbsoluteDateLayout)
	desc := DateDescription{Absolute: absolute, Relative: absolute}

	diff := target.Sub(now)
	if diff < 0 {
		daysAgo := int(-diff / day)
		switch {
		case daysAgo == 0:
			desc.Relative = "Today"
		case daysAgo == 1:
			desc.Relative = "Yesterday"
		case daysAgo < 7:
			desc.Relative = fmt.Sprintf("%d days ago", daysAgo)
		}
		return desc
	}

	hours := int(diff / time.Hour)
	days := int(diff / day)
	switch {
	case diff < day:
		desc.Relative = inHours(hours)
		desc.IsUrgent = hours < 6
	case days == 1:
		desc.Relative = "Tomorrow"
		desc.IsUrgent = true
	case days < 7:
		desc.Relative = fmt.Sprintf("In %d days", days)
		desc.IsUrgent = days <= 2
	}
	return desc
}

func inHours(hours int) string {
	if hours == 1 {
		return "In 1 hour"
	}
	return fmt.Sprintf("In %d hours", hours)
}
