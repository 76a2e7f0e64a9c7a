// Package analytics derives decision-support metrics from viewing, negotiation,
// contract and deal-journey records.
//
// Every function in this package is pure: the current time is passed in
// explicitly, inputs are never modified and each call returns freshly built
// output. The functions are safe to call concurrently on shared inputs.
package analytics

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ViewingStatus is the status of a scheduled viewing. Unknown values are tolerated.
type ViewingStatus string

const (
	ViewingStatusScheduled ViewingStatus = "scheduled"
	ViewingStatusCompleted ViewingStatus = "completed"
	ViewingStatusCancelled ViewingStatus = "cancelled"
)

// NegotiationStatus is the status of a price negotiation. Unknown values are tolerated.
type NegotiationStatus string

const (
	NegotiationStatusActive    NegotiationStatus = "active"
	NegotiationStatusCompleted NegotiationStatus = "completed"
	NegotiationStatusCancelled NegotiationStatus = "cancelled"
)

// ContractStatus is the status of a sales contract. Unknown values are tolerated.
type ContractStatus string

const (
	ContractStatusDraft   ContractStatus = "draft"
	ContractStatusSent    ContractStatus = "sent"
	ContractStatusSigned  ContractStatus = "signed"
	ContractStatusExpired ContractStatus = "expired"
)

// Stage is a deal lifecycle stage label. The set is open: labels outside the
// known lifecycle are grouped under their own value.
type Stage string

const (
	StageDiscovery   Stage = "discovery"
	StageInterest    Stage = "interest"
	StageEvaluation  Stage = "evaluation"
	StageNegotiation Stage = "negotiation"
	StageDecision    Stage = "decision"
	StageClosed      Stage = "closed"
)

// LifecycleStages lists the known stages in lifecycle order.
var LifecycleStages = []Stage{
	StageDiscovery,
	StageInterest,
	StageEvaluation,
	StageNegotiation,
	StageDecision,
	StageClosed,
}

// LeadScores carries the optional 0-100 scores of the lead attending a viewing.
type LeadScores struct {
	ID           string   `json:"id,omitempty"`
	Name         string   `json:"name,omitempty"`
	IntentScore  *float64 `json:"intentScore,omitempty"`
	QualityScore *float64 `json:"qualityScore,omitempty"`
}

// PropertyRef identifies the property a viewing is for.
type PropertyRef struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
}

// JourneyRef is the deal journey a negotiation or lifecycle record belongs to.
type JourneyRef struct {
	ID           string `json:"id,omitempty"`
	CurrentStage Stage  `json:"currentStage,omitempty"`
}

// ViewingRecord is a scheduled visit of a lead to a property.
type ViewingRecord struct {
	ID          string        `json:"id"`
	ScheduledAt time.Time     `json:"scheduledAt"`
	Status      ViewingStatus `json:"status"`
	Lead        *LeadScores   `json:"lead,omitempty"`
	Property    *PropertyRef  `json:"property,omitempty"`
}

// NegotiationRecord is a price discussion between the asking price and the current offer.
type NegotiationRecord struct {
	ID           string            `json:"id"`
	AskingPrice  float64           `json:"askingPrice"`
	CurrentPrice float64           `json:"currentPrice"`
	Status       NegotiationStatus `json:"status"`
	Journey      *JourneyRef       `json:"journey,omitempty"`
	Insights     []string          `json:"insights,omitempty"`
}

// ContractRecord is a sales contract. SignedAt is only set once the contract is signed.
type ContractRecord struct {
	ID        string         `json:"id"`
	Status    ContractStatus `json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
	SignedAt  *time.Time     `json:"signedAt,omitempty"`
}

// DealLifecycleRecord is a deal journey positioned in a lifecycle stage.
// DaysInStage is optional; the funnel ignores records that do not supply it
// when averaging durations.
type DealLifecycleRecord struct {
	ID           string      `json:"id"`
	CurrentStage Stage       `json:"currentStage"`
	IsStalling   bool        `json:"isStalling"`
	DaysInStage  *int        `json:"daysInStage,omitempty"`
	Journey      *JourneyRef `json:"journey,omitempty"`
}

// days returns DaysInStage or 0 when it is absent.
func (r DealLifecycleRecord) days() int {
	if r.DaysInStage == nil {
		return 0
	}
	return *r.DaysInStage
}

const day = 24 * time.Hour

// mean returns the arithmetic mean of xs, or 0 for an empty slice.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

// percentOf returns part/total*100, or 0 when total is zero.
func percentOf(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func sum(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return floats.Sum(xs)
}
