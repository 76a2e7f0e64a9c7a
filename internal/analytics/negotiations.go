package analytics

import (
	"fmt"
	"math"
)

// RecommendationPriority ranks how soon an agent should act on a recommendation.
type RecommendationPriority string

const (
	PriorityHigh   RecommendationPriority = "high"
	PriorityMedium RecommendationPriority = "medium"
	PriorityLow    RecommendationPriority = "low"
)

// Recommended actions by price gap band.
const (
	ActionAcceptOffer    = "Accept offer — Gap is minimal"
	ActionCounterSmall   = "Counter with small adjustment"
	ActionNegotiateMore  = "Negotiate further — moderate gap"
	ActionReviewStrategy = "Review pricing strategy"
)

const (
	negotiationStageScore = 80.0
	defaultStageScore     = 50.0
)

// Recommendation is the suggested next step for one active negotiation.
type Recommendation struct {
	NegotiationID      string                 `json:"negotiationId"`
	Action             string                 `json:"action"`
	Priority           RecommendationPriority `json:"priority"`
	Reasoning          string                 `json:"reasoning"`
	GapPercent         float64                `json:"gapPercent"`
	SuccessProbability float64                `json:"successProbability"`
	Insights           []string               `json:"insights,omitempty"`
}

// NegotiationAnalysis summarises the active negotiations.
// SuccessProbability is expressed on a 0-100 scale.
type NegotiationAnalysis struct {
	ActiveCount        int              `json:"activeCount"`
	AvgPriceGap        float64          `json:"avgPriceGap"`
	SuccessProbability float64          `json:"successProbability"`
	Recommendations    []Recommendation `json:"recommendations"`
}

// PriceGapPercent returns the absolute gap between asking and current price as
// a percentage of the asking price. A non-positive asking price yields 0.
func PriceGapPercent(askingPrice, currentPrice float64) float64 {
	if askingPrice <= 0 || math.IsNaN(askingPrice) || math.IsInf(askingPrice, 0) {
		return 0
	}
	gap := math.Abs(askingPrice-currentPrice) / askingPrice * 100
	if math.IsNaN(gap) || math.IsInf(gap, 0) {
		return 0
	}
	return gap
}

// StageScore is the stage component of the success estimate.
func StageScore(journey *JourneyRef) float64 {
	if journey != nil && journey.CurrentStage == StageNegotiation {
		return negotiationStageScore
	}
	return defaultStageScore
}

// SuccessProbability estimates, on a 0-1 scale, how likely a negotiation with
// the given gap and journey is to close.
func SuccessProbability(gapPercent float64, journey *JourneyRef) float64 {
	gapScore := math.Max(0, 100-gapPercent*2)
	return (gapScore*0.7 + StageScore(journey)*0.3) / 100
}

// Recommend maps a price gap to an action and priority.
func Recommend(gapPercent float64) (string, RecommendationPriority, string) {
	gap := fmt.Sprintf("%.1f%%", gapPercent)
	switch {
	case gapPercent < 5:
		return ActionAcceptOffer, PriorityHigh,
			fmt.Sprintf("Price gap of %s is within the acceptance range", gap)
	case gapPercent < 15:
		return ActionCounterSmall, PriorityHigh,
			fmt.Sprintf("Price gap of %s can likely be closed with a small counter-offer", gap)
	case gapPercent < 30:
		return ActionNegotiateMore, PriorityMedium,
			fmt.Sprintf("Price gap of %s needs further negotiation", gap)
	default:
		return ActionReviewStrategy, PriorityLow,
			fmt.Sprintf("Price gap of %s suggests the asking price is out of line with the market", gap)
	}
}

// AnalyzeNegotiations computes price gap statistics, the mean success
// probability and a recommendation for every active negotiation.
func AnalyzeNegotiations(negotiations []NegotiationRecord) NegotiationAnalysis {
	gaps := make([]float64, 0, len(negotiations))
	probabilities := make([]float64, 0, len(negotiations))
	recommendations := make([]Recommendation, 0, len(negotiations))

	for _, n := range negotiations {
		if n.Status != NegotiationStatusActive {
			continue
		}

		gap := PriceGapPercent(n.AskingPrice, n.CurrentPrice)
		probability := SuccessProbability(gap, n.Journey)
		action, priority, reasoning := Recommend(gap)

		gaps = append(gaps, gap)
		probabilities = append(probabilities, probability)
		recommendations = append(recommendations, Recommendation{
			NegotiationID:      n.ID,
			Action:             action,
			Priority:           priority,
			Reasoning:          reasoning,
			GapPercent:         gap,
			SuccessProbability: probability * 100,
			Insights:           append([]string(nil), n.Insights...),
		})
	}

	activeCount := len(gaps)
	divisor := math.Max(1, float64(activeCount))

	return NegotiationAnalysis{
		ActiveCount:        activeCount,
		AvgPriceGap:        mean(gaps),
		SuccessProbability: sum(probabilities) / divisor * 100,
		Recommendations:    recommendations,
	}
}
