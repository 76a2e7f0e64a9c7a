package analytics_test

import (
	"testing"
	"time"

	"github.com/meridian-realty/dashboard-api/internal/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func score(v float64) *float64 { return &v }

func viewingAt(id string, offset time.Duration, lead *analytics.LeadScores) analytics.ViewingRecord {
	return analytics.ViewingRecord{
		ID:          id,
		ScheduledAt: referenceNow.Add(offset),
		Status:      analytics.ViewingStatusScheduled,
		Lead:        lead,
	}
}

func TestScoreViewing(t *testing.T) {
	tests := []struct {
		name    string
		viewing analytics.ViewingRecord
		want    float64
	}{
		{
			name:    "one day ahead without lead uses mid quality",
			viewing: viewingAt("v1", 24*time.Hour, nil),
			want:    90*0.6 + 50*0.4,
		},
		{
			name:    "intent score preferred over quality score",
			viewing: viewingAt("v2", 48*time.Hour, &analytics.LeadScores{IntentScore: score(80), QualityScore: score(10)}),
			want:    80*0.6 + 80*0.4,
		},
		{
			name:    "quality score used when intent is missing",
			viewing: viewingAt("v3", 24*time.Hour, &analytics.LeadScores{QualityScore: score(30)}),
			want:    90*0.6 + 30*0.4,
		},
		{
			name:    "lead without scores uses mid quality",
			viewing: viewingAt("v4", 24*time.Hour, &analytics.LeadScores{Name: "Kari"}),
			want:    90*0.6 + 50*0.4,
		},
		{
			name:    "past viewing gets no urgency",
			viewing: viewingAt("v5", -3*time.Hour, nil),
			want:    50 * 0.4,
		},
		{
			name:    "far future urgency floors at zero",
			viewing: viewingAt("v6", 30*24*time.Hour, nil),
			want:    50 * 0.4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, analytics.ScoreViewing(tt.viewing, referenceNow), 1e-9)
		})
	}
}

func TestPrioritizeViewings_Ordering(t *testing.T) {
	viewings := []analytics.ViewingRecord{
		viewingAt("past", -24*time.Hour, nil),
		viewingAt("next-week", 6*24*time.Hour, nil),
		viewingAt("tomorrow", 24*time.Hour, nil),
		viewingAt("hot-lead", 3*24*time.Hour, &analytics.LeadScores{IntentScore: score(100)}),
	}

	got := analytics.PrioritizeViewings(viewings, analytics.ViewingFilters{}, referenceNow)

	require.Len(t, got, 4)
	ids := []string{got[0].ID, got[1].ID, got[2].ID, got[3].ID}
	assert.Equal(t, []string{"hot-lead", "tomorrow", "next-week", "past"}, ids)

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t,
			analytics.ScoreViewing(got[i-1], referenceNow),
			analytics.ScoreViewing(got[i], referenceNow),
			"viewing %d ranked above a higher priority viewing", i)
	}
}

func TestPrioritizeViewings_TiesKeepInputOrder(t *testing.T) {
	viewings := []analytics.ViewingRecord{
		viewingAt("first", 48*time.Hour, nil),
		viewingAt("second", 48*time.Hour, nil),
		viewingAt("third", 48*time.Hour, nil),
	}

	got := analytics.PrioritizeViewings(viewings, analytics.ViewingFilters{}, referenceNow)

	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].ID)
	assert.Equal(t, "second", got[1].ID)
	assert.Equal(t, "third", got[2].ID)
}

func TestPrioritizeViewings_Filters(t *testing.T) {
	completed := analytics.ViewingStatusCompleted
	viewings := []analytics.ViewingRecord{
		viewingAt("in-3-days", 3*24*time.Hour, nil),
		viewingAt("in-10-days", 10*24*time.Hour, nil),
		viewingAt("yesterday", -24*time.Hour, nil),
		{ID: "done", ScheduledAt: referenceNow.Add(-48 * time.Hour), Status: completed},
		{ID: "odd-status", ScheduledAt: referenceNow.Add(time.Hour), Status: "rescheduled"},
	}

	t.Run("status", func(t *testing.T) {
		got := analytics.PrioritizeViewings(viewings, analytics.ViewingFilters{Status: &completed}, referenceNow)
		require.Len(t, got, 1)
		assert.Equal(t, "done", got[0].ID)
	})

	t.Run("upcoming keeps the next seven days", func(t *testing.T) {
		got := analytics.PrioritizeViewings(viewings, analytics.ViewingFilters{Upcoming: true}, referenceNow)
		ids := make([]string, len(got))
		for i, v := range got {
			ids[i] = v.ID
		}
		assert.ElementsMatch(t, []string{"in-3-days", "odd-status"}, ids)
	})

	t.Run("date range is inclusive", func(t *testing.T) {
		rng := &analytics.DateRange{
			Start: referenceNow.Add(-24 * time.Hour),
			End:   referenceNow.Add(3 * 24 * time.Hour),
		}
		got := analytics.PrioritizeViewings(viewings, analytics.ViewingFilters{DateRange: rng}, referenceNow)
		ids := make([]string, len(got))
		for i, v := range got {
			ids[i] = v.ID
		}
		assert.ElementsMatch(t, []string{"in-3-days", "yesterday", "odd-status"}, ids)
	})

	t.Run("unknown status passes through without filter", func(t *testing.T) {
		got := analytics.PrioritizeViewings(viewings, analytics.ViewingFilters{}, referenceNow)
		assert.Len(t, got, len(viewings))
	})
}

func TestPrioritizeViewings_DoesNotMutateInput(t *testing.T) {
	viewings := []analytics.ViewingRecord{
		viewingAt("a", 6*24*time.Hour, nil),
		viewingAt("b", time.Hour, nil),
	}
	original := append([]analytics.ViewingRecord(nil), viewings...)

	first := analytics.PrioritizeViewings(viewings, analytics.ViewingFilters{}, referenceNow)
	second := analytics.PrioritizeViewings(viewings, analytics.ViewingFilters{}, referenceNow)

	assert.Equal(t, original, viewings)
	assert.Equal(t, first, second)
}

func TestPrioritizeViewings_Empty(t *testing.T) {
	got := analytics.PrioritizeViewings(nil, analytics.ViewingFilters{Upcoming: true}, referenceNow)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
