package analytics

// Default stall thresholds in days.
const (
	DefaultWarningDays  = 7
	DefaultCriticalDays = 14
)

// DealHealth is the stall classification of a deal.
type DealHealth string

const (
	HealthStalled DealHealth = "stalled"
	HealthAtRisk  DealHealth = "at_risk"
	HealthHealthy DealHealth = "healthy"
)

// StallConfig holds the day thresholds for stall detection.
// Non-positive values fall back to the defaults.
type StallConfig struct {
	WarningDays  int `json:"warningDays"`
	CriticalDays int `json:"criticalDays"`
}

// DefaultStallConfig returns the standard 7/14 day thresholds.
func DefaultStallConfig() StallConfig {
	return StallConfig{WarningDays: DefaultWarningDays, CriticalDays: DefaultCriticalDays}
}

// Normalized replaces non-positive thresholds with the defaults
func (c StallConfig) Normalized() StallConfig {
	if c.WarningDays <= 0 {
		c.WarningDays = DefaultWarningDays
	}
	if c.CriticalDays <= 0 {
		c.CriticalDays = DefaultCriticalDays
	}
	return c
}

// StallReport partitions deals by health. Every input record lands in exactly one bucket.
type StallReport struct {
	Stalled         []DealLifecycleRecord `json:"stalled"`
	AtRisk          []DealLifecycleRecord `json:"atRisk"`
	Healthy         []DealLifecycleRecord `json:"healthy"`
	AvgDaysPerStage map[Stage]float64     `json:"avgDaysPerStage"`
}

// ClassifyStall returns the health of a single deal. The upstream stalling
// flag always wins.
func ClassifyStall(record DealLifecycleRecord, cfg StallConfig) DealHealth {
	cfg = cfg.Normalized()
	days := record.days()

	switch {
	case record.IsStalling || days > cfg.CriticalDays:
		return HealthStalled
	case days > cfg.WarningDays:
		return HealthAtRisk
	default:
		return HealthHealthy
	}
}

// DetectStalls classifies every deal and averages days-in-stage per stage.
// Records without a day count are treated as zero days.
func DetectStalls(journeys []DealLifecycleRecord, cfg StallConfig) StallReport {
	report := StallReport{
		Stalled:         []DealLifecycleRecord{},
		AtRisk:          []DealLifecycleRecord{},
		Healthy:         []DealLifecycleRecord{},
		AvgDaysPerStage: make(map[Stage]float64),
	}

	daysByStage := make(map[Stage][]float64)
	for _, j := range journeys {
		switch ClassifyStall(j, cfg) {
		case HealthStalled:
			report.Stalled = append(report.Stalled, j)
		case HealthAtRisk:
			report.AtRisk = append(report.AtRisk, j)
		default:
			report.Healthy = append(report.Healthy, j)
		}
		daysByStage[j.CurrentStage] = append(daysByStage[j.CurrentStage], float64(j.days()))
	}

	for stage, days := range daysByStage {
		report.AvgDaysPerStage[stage] = mean(days)
	}

	return report
}
