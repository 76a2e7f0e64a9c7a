package analytics

import (
	"math"
	"sort"
	"time"
)

// UpcomingWindow is how far ahead a viewing counts as upcoming.
const UpcomingWindow = 7 * day

// Priority weights and the lead quality used when a viewing has no scores.
const (
	urgencyWeight      = 0.6
	qualityWeight      = 0.4
	defaultLeadQuality = 50.0
	urgencyDecayPerDay = 10.0
	maxViewingUrgency  = 100.0
)

// DateRange is an inclusive time window.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls within the range, bounds included.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// ViewingFilters narrows the viewings considered for the queue.
// Zero-valued fields do not filter.
type ViewingFilters struct {
	Status    *ViewingStatus `json:"status,omitempty"`
	Upcoming  bool           `json:"upcoming,omitempty"`
	DateRange *DateRange     `json:"dateRange,omitempty"`
}

func (f ViewingFilters) matches(v ViewingRecord, now time.Time) bool {
	if f.Status != nil && v.Status != *f.Status {
		return false
	}
	if f.Upcoming && !(DateRange{Start: now, End: now.Add(UpcomingWindow)}).Contains(v.ScheduledAt) {
		return false
	}
	if f.DateRange != nil && !f.DateRange.Contains(v.ScheduledAt) {
		return false
	}
	return true
}

// ScoreViewing returns the priority of a viewing: a blend of how soon it is
// and how promising the lead is. Past viewings get no urgency.
func ScoreViewing(v ViewingRecord, now time.Time) float64 {
	hoursUntil := float64(v.ScheduledAt.Sub(now)) / float64(time.Hour)

	urgency := 0.0
	if hoursUntil > 0 {
		urgency = math.Max(0, maxViewingUrgency-(hoursUntil/24)*urgencyDecayPerDay)
	}

	return urgency*urgencyWeight + leadQuality(v.Lead)*qualityWeight
}

func leadQuality(lead *LeadScores) float64 {
	switch {
	case lead == nil:
		return defaultLeadQuality
	case lead.IntentScore != nil:
		return *lead.IntentScore
	case lead.QualityScore != nil:
		return *lead.QualityScore
	default:
		return defaultLeadQuality
	}
}

// PrioritizeViewings filters viewings and returns them ordered by descending
// priority. Equal priorities keep their input order.
func PrioritizeViewings(viewings []ViewingRecord, filters ViewingFilters, now time.Time) []ViewingRecord {
	type scored struct {
		viewing  ViewingRecord
		priority float64
	}

	kept := make([]scored, 0, len(viewings))
	for _, v := range viewings {
		if filters.matches(v, now) {
			kept = append(kept, scored{viewing: v, priority: ScoreViewing(v, now)})
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].priority > kept[j].priority
	})

	result := make([]ViewingRecord, len(kept))
	for i, s := range kept {
		result[i] = s.viewing
	}
	return result
}
