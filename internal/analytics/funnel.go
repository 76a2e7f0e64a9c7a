package analytics

import "sort"

// bottleneckFactor is how many times the mean stage duration a stage must
// exceed to count as a bottleneck.
const bottleneckFactor = 2.0

// FunnelStage is the aggregate for one lifecycle stage.
type FunnelStage struct {
	Stage      Stage   `json:"stage"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	AvgDays    float64 `json:"avgDays"`
}

// FunnelReport is the conversion funnel across all journeys.
type FunnelReport struct {
	Stages            []FunnelStage `json:"stages"`
	OverallConversion float64       `json:"overallConversion"`
	BottleneckStages  []Stage       `json:"bottleneckStages"`
}

type stageAggregate struct {
	count int
	days  []float64
}

// CalculateFunnel groups journeys by stage and flags bottlenecks.
//
// The bottleneck baseline is the unweighted mean of the per-stage averages,
// not the mean over all records: a thin stage with long durations moves the
// baseline as much as a crowded one.
func CalculateFunnel(journeys []DealLifecycleRecord) FunnelReport {
	report := FunnelReport{
		Stages:           []FunnelStage{},
		BottleneckStages: []Stage{},
	}
	if len(journeys) == 0 {
		return report
	}

	groups := make(map[Stage]*stageAggregate)
	converted := 0
	for _, j := range journeys {
		stage := j.CurrentStage
		if stage == "" {
			stage = StageDiscovery
		}

		agg, ok := groups[stage]
		if !ok {
			agg = &stageAggregate{}
			groups[stage] = agg
		}
		agg.count++
		if j.DaysInStage != nil {
			agg.days = append(agg.days, float64(*j.DaysInStage))
		}

		if stage == StageNegotiation || stage == StageClosed {
			converted++
		}
	}

	total := len(journeys)
	stageAverages := make([]float64, 0, len(groups))
	for _, stage := range orderStages(groups) {
		agg := groups[stage]
		avgDays := mean(agg.days)
		stageAverages = append(stageAverages, avgDays)
		report.Stages = append(report.Stages, FunnelStage{
			Stage:      stage,
			Count:      agg.count,
			Percentage: percentOf(agg.count, total),
			AvgDays:    avgDays,
		})
	}

	overallAvgDays := mean(stageAverages)
	for _, s := range report.Stages {
		if s.Count > 0 && s.AvgDays > bottleneckFactor*overallAvgDays {
			report.BottleneckStages = append(report.BottleneckStages, s.Stage)
		}
	}

	report.OverallConversion = percentOf(converted, total)
	return report
}

// orderStages returns the known lifecycle stages present in groups in
// lifecycle order, followed by unknown stages alphabetically.
func orderStages(groups map[Stage]*stageAggregate) []Stage {
	ordered := make([]Stage, 0, len(groups))
	known := make(map[Stage]bool, len(LifecycleStages))
	for _, stage := range LifecycleStages {
		known[stage] = true
		if _, ok := groups[stage]; ok {
			ordered = append(ordered, stage)
		}
	}

	var unknown []Stage
	for stage := range groups {
		if !known[stage] {
			unknown = append(unknown, stage)
		}
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })

	return append(ordered, unknown...)
}
