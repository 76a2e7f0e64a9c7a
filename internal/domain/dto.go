package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/meridian-realty/dashboard-api/internal/analytics"
)

// Record DTOs

type AgencyDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	IsActive  bool      `json:"isActive"`
	CreatedAt string    `json:"createdAt"`
}

type LeadDTO struct {
	ID           uuid.UUID `json:"id"`
	AgencyID     uuid.UUID `json:"agencyId"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	IntentScore  *float64  `json:"intentScore,omitempty"`
	QualityScore *float64  `json:"qualityScore,omitempty"`
	CreatedAt    string    `json:"createdAt"`
}

type PropertyDTO struct {
	ID        uuid.UUID `json:"id"`
	AgencyID  uuid.UUID `json:"agencyId"`
	Title     string    `json:"title"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	ListPrice float64   `json:"listPrice"`
	CreatedAt string    `json:"createdAt"`
}

type ViewingDTO struct {
	ID            uuid.UUID     `json:"id"`
	AgencyID      uuid.UUID     `json:"agencyId"`
	LeadID        *uuid.UUID    `json:"leadId,omitempty"`
	LeadName      string        `json:"leadName,omitempty"`
	PropertyID    *uuid.UUID    `json:"propertyId,omitempty"`
	PropertyTitle string        `json:"propertyTitle,omitempty"`
	ScheduledAt   string        `json:"scheduledAt"`
	Status        ViewingStatus `json:"status"`
	Notes         string        `json:"notes,omitempty"`
	CreatedAt     string        `json:"createdAt"`
}

type JourneyDTO struct {
	ID             uuid.UUID  `json:"id"`
	AgencyID       uuid.UUID  `json:"agencyId"`
	LeadID         *uuid.UUID `json:"leadId,omitempty"`
	PropertyID     *uuid.UUID `json:"propertyId,omitempty"`
	CurrentStage   DealStage  `json:"currentStage"`
	StageEnteredAt string     `json:"stageEnteredAt"`
	DaysInStage    int        `json:"daysInStage"`
	IsStalling     bool       `json:"isStalling"`
	CreatedAt      string     `json:"createdAt"`
}

type NegotiationDTO struct {
	ID           uuid.UUID         `json:"id"`
	AgencyID     uuid.UUID         `json:"agencyId"`
	JourneyID    *uuid.UUID        `json:"journeyId,omitempty"`
	AskingPrice  float64           `json:"askingPrice"`
	CurrentPrice float64           `json:"currentPrice"`
	Status       NegotiationStatus `json:"status"`
	Insights     []string          `json:"insights"`
	CreatedAt    string            `json:"createdAt"`
}

type ContractDTO struct {
	ID        uuid.UUID      `json:"id"`
	AgencyID  uuid.UUID      `json:"agencyId"`
	JourneyID *uuid.UUID     `json:"journeyId,omitempty"`
	Status    ContractStatus `json:"status"`
	SignedAt  *string        `json:"signedAt,omitempty"`
	CreatedAt string         `json:"createdAt"`
}

type StageTransitionDTO struct {
	ID            uuid.UUID  `json:"id"`
	JourneyID     uuid.UUID  `json:"journeyId"`
	FromStage     *DealStage `json:"fromStage,omitempty"`
	ToStage       DealStage  `json:"toStage"`
	ChangedByID   string     `json:"changedById"`
	ChangedByName string     `json:"changedByName,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	ChangedAt     string     `json:"changedAt"`
}

// Requests
//
// AgencyID is only honoured for callers allowed to act on every agency.
// Everyone else writes into the agency of their token.

type CreateAgencyRequest struct {
	Name string `json:"name" validate:"required,max=200"`
	Slug string `json:"slug" validate:"required,max=100,lowercase"`
}

type CreateLeadRequest struct {
	AgencyID     *uuid.UUID `json:"agencyId,omitempty"`
	Name         string     `json:"name" validate:"required,max=200"`
	Email        string     `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone        string     `json:"phone,omitempty" validate:"max=50"`
	IntentScore  *float64   `json:"intentScore,omitempty" validate:"omitempty,gte=0,lte=100"`
	QualityScore *float64   `json:"qualityScore,omitempty" validate:"omitempty,gte=0,lte=100"`
}

type CreatePropertyRequest struct {
	AgencyID  *uuid.UUID `json:"agencyId,omitempty"`
	Title     string     `json:"title" validate:"required,max=300"`
	Address   string     `json:"address,omitempty" validate:"max=500"`
	City      string     `json:"city,omitempty" validate:"max=100"`
	ListPrice float64    `json:"listPrice" validate:"gte=0"`
}

type CreateViewingRequest struct {
	AgencyID    *uuid.UUID    `json:"agencyId,omitempty"`
	LeadID      *uuid.UUID    `json:"leadId,omitempty"`
	PropertyID  *uuid.UUID    `json:"propertyId,omitempty"`
	ScheduledAt time.Time     `json:"scheduledAt" validate:"required"`
	Status      ViewingStatus `json:"status,omitempty" validate:"max=50"`
	Notes       string        `json:"notes,omitempty" validate:"max=2000"`
}

type CreateJourneyRequest struct {
	AgencyID   *uuid.UUID `json:"agencyId,omitempty"`
	LeadID     *uuid.UUID `json:"leadId,omitempty"`
	PropertyID *uuid.UUID `json:"propertyId,omitempty"`
	Stage      DealStage  `json:"stage,omitempty" validate:"max=50"`
	IsStalling bool       `json:"isStalling"`
}

type UpdateJourneyStageRequest struct {
	Stage DealStage `json:"stage" validate:"required,max=50"`
	Notes string    `json:"notes,omitempty" validate:"max=1000"`
}

type CreateNegotiationRequest struct {
	AgencyID     *uuid.UUID        `json:"agencyId,omitempty"`
	JourneyID    *uuid.UUID        `json:"journeyId,omitempty"`
	AskingPrice  float64           `json:"askingPrice" validate:"gte=0"`
	CurrentPrice float64           `json:"currentPrice" validate:"gte=0"`
	Status       NegotiationStatus `json:"status,omitempty" validate:"max=50"`
	Insights     []string          `json:"insights,omitempty" validate:"max=20,dive,max=500"`
}

type CreateContractRequest struct {
	AgencyID  *uuid.UUID     `json:"agencyId,omitempty"`
	JourneyID *uuid.UUID     `json:"journeyId,omitempty"`
	Status    ContractStatus `json:"status,omitempty" validate:"max=50"`
	SignedAt  *time.Time     `json:"signedAt,omitempty"`
}

// Analytics queries, read from the query string and checked with the validator

// ViewingQueueParams filters the prioritized viewing queue
type ViewingQueueParams struct {
	Status   string `validate:"omitempty,max=50"`
	Upcoming bool
	From     *time.Time
	To       *time.Time
}

// StallQueryParams overrides the configured stall thresholds
type StallQueryParams struct {
	WarningDays  *int `validate:"omitempty,gt=0"`
	CriticalDays *int `validate:"omitempty,gt=0"`
}

type DateQueryParams struct {
	At string `validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

// Analytics responses

// AnalyticsOverview bundles every dashboard analysis computed at the same instant
type AnalyticsOverview struct {
	GeneratedAt  string                        `json:"generatedAt"`
	ViewingQueue []PrioritizedViewing          `json:"viewingQueue"`
	Negotiations analytics.NegotiationAnalysis `json:"negotiations"`
	Contracts    analytics.ContractAnalysis    `json:"contracts"`
	Stalls       analytics.StallReport         `json:"stalls"`
	Funnel       analytics.FunnelReport        `json:"funnel"`
}

// PrioritizedViewing is a viewing with its priority score and a readable date
type PrioritizedViewing struct {
	analytics.ViewingRecord
	PriorityScore float64                   `json:"priorityScore"`
	When          analytics.DateDescription `json:"when"`
}

// DateClassificationResponse is the result of classifying a single instant
type DateClassificationResponse struct {
	Date string `json:"date"`
	analytics.DateDescription
}

// Pagination

type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// NewPaginatedResponse computes the page count for a result set
func NewPaginatedResponse(data interface{}, total int64, page, pageSize int) *PaginatedResponse {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return &PaginatedResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
