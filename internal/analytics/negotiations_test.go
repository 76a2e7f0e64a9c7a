package analytics_test

import (
	"math"
	"testing"

	"github.com/meridian-realty/dashboard-api/internal/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeNegotiation(id string, asking, current float64, stage analytics.Stage) analytics.NegotiationRecord {
	n := analytics.NegotiationRecord{
		ID:           id,
		AskingPrice:  asking,
		CurrentPrice: current,
		Status:       analytics.NegotiationStatusActive,
	}
	if stage != "" {
		n.Journey = &analytics.JourneyRef{ID: "journey-" + id, CurrentStage: stage}
	}
	return n
}

func TestAnalyzeNegotiations_MinimalGapInNegotiationStage(t *testing.T) {
	n := activeNegotiation("n1", 10_000_000, 9_700_000, analytics.StageNegotiation)

	got := analytics.AnalyzeNegotiations([]analytics.NegotiationRecord{n})

	require.Len(t, got.Recommendations, 1)
	rec := got.Recommendations[0]
	assert.Equal(t, 1, got.ActiveCount)
	assert.InDelta(t, 3.0, rec.GapPercent, 1e-9)
	assert.InDelta(t, 3.0, got.AvgPriceGap, 1e-9)
	assert.Equal(t, analytics.ActionAcceptOffer, rec.Action)
	assert.Equal(t, analytics.PriorityHigh, rec.Priority)
	assert.Contains(t, rec.Reasoning, "3.0%")
	assert.Equal(t, 80.0, analytics.StageScore(n.Journey))
	// gapScore 94, stageScore 80
	assert.InDelta(t, 89.8, rec.SuccessProbability, 1e-9)
	assert.InDelta(t, 89.8, got.SuccessProbability, 1e-9)
}

func TestRecommend_Bands(t *testing.T) {
	tests := []struct {
		gap          float64
		wantAction   string
		wantPriority analytics.RecommendationPriority
	}{
		{0, analytics.ActionAcceptOffer, analytics.PriorityHigh},
		{4.9, analytics.ActionAcceptOffer, analytics.PriorityHigh},
		{5, analytics.ActionCounterSmall, analytics.PriorityHigh},
		{14.9, analytics.ActionCounterSmall, analytics.PriorityHigh},
		{15, analytics.ActionNegotiateMore, analytics.PriorityMedium},
		{29.9, analytics.ActionNegotiateMore, analytics.PriorityMedium},
		{30, analytics.ActionReviewStrategy, analytics.PriorityLow},
		{75, analytics.ActionReviewStrategy, analytics.PriorityLow},
	}

	for _, tt := range tests {
		action, priority, reasoning := analytics.Recommend(tt.gap)
		assert.Equal(t, tt.wantAction, action, "gap %.1f", tt.gap)
		assert.Equal(t, tt.wantPriority, priority, "gap %.1f", tt.gap)
		assert.NotEmpty(t, reasoning)
	}
}

func TestPriceGapPercent(t *testing.T) {
	assert.InDelta(t, 10.0, analytics.PriceGapPercent(100, 90), 1e-9)
	assert.InDelta(t, 10.0, analytics.PriceGapPercent(100, 110), 1e-9, "offers above asking count as a gap")
	assert.Equal(t, 0.0, analytics.PriceGapPercent(0, 500_000), "zero asking price is treated as a full match")
	assert.Equal(t, 0.0, analytics.PriceGapPercent(-10, 5))
}

func TestAnalyzeNegotiations_Aggregates(t *testing.T) {
	negotiations := []analytics.NegotiationRecord{
		activeNegotiation("gap-10", 100, 90, ""),
		activeNegotiation("gap-20", 100, 120, analytics.StageEvaluation),
		{ID: "done", AskingPrice: 100, CurrentPrice: 10, Status: analytics.NegotiationStatusCompleted},
		{ID: "odd", AskingPrice: 100, CurrentPrice: 10, Status: "paused"},
	}

	got := analytics.AnalyzeNegotiations(negotiations)

	assert.Equal(t, 2, got.ActiveCount)
	assert.InDelta(t, 15.0, got.AvgPriceGap, 1e-9)
	// (0.71 + 0.57) / 2
	assert.InDelta(t, 64.0, got.SuccessProbability, 1e-9)
	require.Len(t, got.Recommendations, 2)
	assert.Equal(t, "gap-10", got.Recommendations[0].NegotiationID)
	assert.Equal(t, analytics.ActionCounterSmall, got.Recommendations[0].Action)
	assert.Equal(t, analytics.ActionNegotiateMore, got.Recommendations[1].Action)
}

func TestAnalyzeNegotiations_ZeroAskingPrice(t *testing.T) {
	got := analytics.AnalyzeNegotiations([]analytics.NegotiationRecord{
		activeNegotiation("no-asking", 0, 1_500_000, ""),
	})

	require.Len(t, got.Recommendations, 1)
	assert.Equal(t, 0.0, got.AvgPriceGap)
	assert.Equal(t, analytics.ActionAcceptOffer, got.Recommendations[0].Action)
	assert.False(t, math.IsNaN(got.SuccessProbability))
}

func TestAnalyzeNegotiations_Bounds(t *testing.T) {
	negotiations := []analytics.NegotiationRecord{
		activeNegotiation("huge-gap", 100, 5, ""),
		activeNegotiation("over-asking", 100, 400, analytics.StageNegotiation),
		activeNegotiation("exact", 100, 100, analytics.StageNegotiation),
	}

	got := analytics.AnalyzeNegotiations(negotiations)

	assert.GreaterOrEqual(t, got.AvgPriceGap, 0.0)
	assert.GreaterOrEqual(t, got.SuccessProbability, 0.0)
	assert.LessOrEqual(t, got.SuccessProbability, 100.0)
	for _, rec := range got.Recommendations {
		assert.GreaterOrEqual(t, rec.GapPercent, 0.0)
		assert.GreaterOrEqual(t, rec.SuccessProbability, 0.0)
		assert.LessOrEqual(t, rec.SuccessProbability, 100.0)
	}
}

func TestAnalyzeNegotiations_Empty(t *testing.T) {
	got := analytics.AnalyzeNegotiations(nil)

	assert.Equal(t, 0, got.ActiveCount)
	assert.Equal(t, 0.0, got.AvgPriceGap)
	assert.Equal(t, 0.0, got.SuccessProbability)
	assert.NotNil(t, got.Recommendations)
	assert.Empty(t, got.Recommendations)
}

func TestAnalyzeNegotiations_InsightsAreCopied(t *testing.T) {
	n := activeNegotiation("n1", 100, 97, "")
	n.Insights = []string{"Buyer pre-approved", "Second viewing booked"}
	input := []analytics.NegotiationRecord{n}

	got := analytics.AnalyzeNegotiations(input)
	got.Recommendations[0].Insights[0] = "changed"

	assert.Equal(t, "Buyer pre-approved", input[0].Insights[0])
	assert.Equal(t, analytics.AnalyzeNegotiations(input).Recommendations[0].Insights, n.Insights)
}
