package analytics_test

import (
	"testing"

	"github.com/meridian-realty/dashboard-api/internal/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func daysPtr(d int) *int { return &d }

func journey(id string, stage analytics.Stage, days *int, stalling bool) analytics.DealLifecycleRecord {
	return analytics.DealLifecycleRecord{ID: id, CurrentStage: stage, DaysInStage: days, IsStalling: stalling}
}

func TestDetectStalls_DefaultThresholds(t *testing.T) {
	journeys := []analytics.DealLifecycleRecord{
		journey("d15", analytics.StageEvaluation, daysPtr(15), false),
		journey("d10", analytics.StageEvaluation, daysPtr(10), false),
		journey("d3", analytics.StageInterest, daysPtr(3), false),
	}

	got := analytics.DetectStalls(journeys, analytics.DefaultStallConfig())

	require.Len(t, got.Stalled, 1)
	assert.Equal(t, "d15", got.Stalled[0].ID)
	require.Len(t, got.AtRisk, 1)
	assert.Equal(t, "d10", got.AtRisk[0].ID)
	require.Len(t, got.Healthy, 1)
	assert.Equal(t, "d3", got.Healthy[0].ID)
}

func TestClassifyStall(t *testing.T) {
	defaults := analytics.DefaultStallConfig()
	tests := []struct {
		name   string
		record analytics.DealLifecycleRecord
		cfg    analytics.StallConfig
		want   analytics.DealHealth
	}{
		{"upstream flag wins", journey("a", analytics.StageDiscovery, daysPtr(0), true), defaults, analytics.HealthStalled},
		{"exactly critical is at risk", journey("b", analytics.StageDiscovery, daysPtr(14), false), defaults, analytics.HealthAtRisk},
		{"exactly warning is healthy", journey("c", analytics.StageDiscovery, daysPtr(7), false), defaults, analytics.HealthHealthy},
		{"missing days is healthy", journey("d", analytics.StageDiscovery, nil, false), defaults, analytics.HealthHealthy},
		{"custom warning", journey("e", analytics.StageDiscovery, daysPtr(4), false), analytics.StallConfig{WarningDays: 3, CriticalDays: 5}, analytics.HealthAtRisk},
		{"custom critical", journey("f", analytics.StageDiscovery, daysPtr(6), false), analytics.StallConfig{WarningDays: 3, CriticalDays: 5}, analytics.HealthStalled},
		{"zero config uses defaults", journey("g", analytics.StageDiscovery, daysPtr(10), false), analytics.StallConfig{}, analytics.HealthAtRisk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, analytics.ClassifyStall(tt.record, tt.cfg))
		})
	}
}

func TestDetectStalls_IsAPartition(t *testing.T) {
	journeys := []analytics.DealLifecycleRecord{
		journey("1", analytics.StageDiscovery, daysPtr(1), false),
		journey("2", analytics.StageInterest, daysPtr(8), false),
		journey("3", analytics.StageEvaluation, daysPtr(20), false),
		journey("4", analytics.StageNegotiation, daysPtr(2), true),
		journey("5", "on_hold", nil, false),
		journey("6", analytics.StageClosed, daysPtr(30), false),
	}

	got := analytics.DetectStalls(journeys, analytics.DefaultStallConfig())

	assert.Equal(t, len(journeys), len(got.Stalled)+len(got.AtRisk)+len(got.Healthy))
	seen := make(map[string]int)
	for _, bucket := range [][]analytics.DealLifecycleRecord{got.Stalled, got.AtRisk, got.Healthy} {
		for _, r := range bucket {
			seen[r.ID]++
		}
	}
	for _, j := range journeys {
		assert.Equal(t, 1, seen[j.ID], "journey %s should appear exactly once", j.ID)
	}
}

func TestDetectStalls_AvgDaysPerStage(t *testing.T) {
	journeys := []analytics.DealLifecycleRecord{
		journey("a", analytics.StageEvaluation, daysPtr(4), false),
		journey("b", analytics.StageEvaluation, daysPtr(10), false),
		journey("c", analytics.StageInterest, nil, false),
		journey("d", analytics.StageInterest, daysPtr(6), false),
		journey("e", "on_hold", daysPtr(21), false),
	}

	got := analytics.DetectStalls(journeys, analytics.DefaultStallConfig())

	assert.InDelta(t, 7.0, got.AvgDaysPerStage[analytics.StageEvaluation], 1e-9)
	assert.InDelta(t, 3.0, got.AvgDaysPerStage[analytics.StageInterest], 1e-9)
	assert.InDelta(t, 21.0, got.AvgDaysPerStage["on_hold"], 1e-9)
}

func TestDetectStalls_Empty(t *testing.T) {
	got := analytics.DetectStalls(nil, analytics.DefaultStallConfig())

	assert.NotNil(t, got.Stalled)
	assert.NotNil(t, got.AtRisk)
	assert.NotNil(t, got.Healthy)
	assert.Empty(t, got.AvgDaysPerStage)
}

func TestStallConfig_Normalized(t *testing.T) {
	assert.Equal(t, analytics.DefaultStallConfig(), analytics.StallConfig{}.Normalized())
	assert.Equal(t, analytics.StallConfig{WarningDays: 7, CriticalDays: 5}, analytics.StallConfig{CriticalDays: 5}.Normalized())
	assert.Equal(t, analytics.StallConfig{WarningDays: 3, CriticalDays: 14}, analytics.StallConfig{WarningDays: 3, CriticalDays: -1}.Normalized())
}
