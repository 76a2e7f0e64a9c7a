package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BaseModel carries the columns shared by every table.
// IDs are assigned in BeforeCreate so that records can be created on
// databases without a uuid default.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns a random ID when none is set
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ViewingStatus represents the status of a property viewing
type ViewingStatus string

const (
	ViewingStatusScheduled ViewingStatus = "scheduled"
	ViewingStatusCompleted ViewingStatus = "completed"
	ViewingStatusCancelled ViewingStatus = "cancelled"
)

// NegotiationStatus represents the status of a price negotiation
type NegotiationStatus string

const (
	NegotiationStatusActive    NegotiationStatus = "active"
	NegotiationStatusCompleted NegotiationStatus = "completed"
	NegotiationStatusCancelled NegotiationStatus = "cancelled"
)

// ContractStatus represents the status of a sales contract
type ContractStatus string

const (
	ContractStatusDraft   ContractStatus = "draft"
	ContractStatusSent    ContractStatus = "sent"
	ContractStatusSigned  ContractStatus = "signed"
	ContractStatusExpired ContractStatus = "expired"
)

// DealStage represents where a deal journey sits in the sales lifecycle.
// Agencies may use stage labels outside the known set.
type DealStage string

const (
	DealStageDiscovery   DealStage = "discovery"
	DealStageInterest    DealStage = "interest"
	DealStageEvaluation  DealStage = "evaluation"
	DealStageNegotiation DealStage = "negotiation"
	DealStageDecision    DealStage = "decision"
	DealStageClosed      DealStage = "closed"
)

// IsKnown reports whether the status is one of the predefined values
func (s ViewingStatus) IsKnown() bool {
	switch s {
	case ViewingStatusScheduled, ViewingStatusCompleted, ViewingStatusCancelled:
		return true
	}
	return false
}

// IsKnown reports whether the status is one of the predefined values
func (s NegotiationStatus) IsKnown() bool {
	switch s {
	case NegotiationStatusActive, NegotiationStatusCompleted, NegotiationStatusCancelled:
		return true
	}
	return false
}

// IsKnown reports whether the status is one of the predefined values
func (s ContractStatus) IsKnown() bool {
	switch s {
	case ContractStatusDraft, ContractStatusSent, ContractStatusSigned, ContractStatusExpired:
		return true
	}
	return false
}

// IsKnown reports whether the stage is part of the standard lifecycle
func (s DealStage) IsKnown() bool {
	switch s {
	case DealStageDiscovery, DealStageInterest, DealStageEvaluation,
		DealStageNegotiation, DealStageDecision, DealStageClosed:
		return true
	}
	return false
}

// Agency is a real-estate agency. Every other record belongs to exactly one agency.
type Agency struct {
	BaseModel
	Name     string `gorm:"type:varchar(200);not null"`
	Slug     string `gorm:"type:varchar(100);not null;uniqueIndex"`
	IsActive bool   `gorm:"not null;default:true;column:is_active"`
}

// Lead is a prospective buyer. Scores are on a 0-100 scale and optional.
type Lead struct {
	BaseModel
	AgencyID     uuid.UUID `gorm:"type:uuid;not null;index;column:agency_id"`
	Name         string    `gorm:"type:varchar(200);not null"`
	Email        string    `gorm:"type:varchar(255)"`
	Phone        string    `gorm:"type:varchar(50)"`
	IntentScore  *float64  `gorm:"column:intent_score"`
	QualityScore *float64  `gorm:"column:quality_score"`
}

// Property is a listing offered by an agency
type Property struct {
	BaseModel
	AgencyID  uuid.UUID       `gorm:"type:uuid;not null;index;column:agency_id"`
	Title     string          `gorm:"type:varchar(300);not null"`
	Address   string          `gorm:"type:varchar(500)"`
	City      string          `gorm:"type:varchar(100)"`
	ListPrice decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0;column:list_price"`
}

// Viewing is a scheduled visit of a lead to a property
type Viewing struct {
	BaseModel
	AgencyID    uuid.UUID     `gorm:"type:uuid;not null;index;column:agency_id"`
	LeadID      *uuid.UUID    `gorm:"type:uuid;index;column:lead_id"`
	Lead        *Lead         `gorm:"foreignKey:LeadID"`
	PropertyID  *uuid.UUID    `gorm:"type:uuid;index;column:property_id"`
	Property    *Property     `gorm:"foreignKey:PropertyID"`
	ScheduledAt time.Time     `gorm:"not null;index;column:scheduled_at"`
	Status      ViewingStatus `gorm:"type:varchar(50);not null;default:'scheduled'"`
	Notes       string        `gorm:"type:text"`
}

// DealJourney follows one lead's path towards buying one property
type DealJourney struct {
	BaseModel
	AgencyID       uuid.UUID  `gorm:"type:uuid;not null;index;column:agency_id"`
	LeadID         *uuid.UUID `gorm:"type:uuid;index;column:lead_id"`
	Lead           *Lead      `gorm:"foreignKey:LeadID"`
	PropertyID     *uuid.UUID `gorm:"type:uuid;index;column:property_id"`
	Property       *Property  `gorm:"foreignKey:PropertyID"`
	CurrentStage   DealStage  `gorm:"type:varchar(50);not null;default:'discovery';column:current_stage"`
	StageEnteredAt time.Time  `gorm:"not null;column:stage_entered_at"`
	IsStalling     bool       `gorm:"not null;default:false;column:is_stalling"`
}

// TableName overrides the default table name to match the migration
func (DealJourney) TableName() string {
	return "deal_journeys"
}

// DaysInStage returns the whole days the journey has spent in its current stage
func (j *DealJourney) DaysInStage(now time.Time) int {
	if j.StageEnteredAt.IsZero() || now.Before(j.StageEnteredAt) {
		return 0
	}
	return int(now.Sub(j.StageEnteredAt) / (24 * time.Hour))
}

// Negotiation is a price discussion tied to a deal journey
type Negotiation struct {
	BaseModel
	AgencyID     uuid.UUID         `gorm:"type:uuid;not null;index;column:agency_id"`
	JourneyID    *uuid.UUID        `gorm:"type:uuid;index;column:journey_id"`
	Journey      *DealJourney      `gorm:"foreignKey:JourneyID"`
	AskingPrice  decimal.Decimal   `gorm:"type:numeric(14,2);not null;default:0;column:asking_price"`
	CurrentPrice decimal.Decimal   `gorm:"type:numeric(14,2);not null;default:0;column:current_price"`
	Status       NegotiationStatus `gorm:"type:varchar(50);not null;default:'active'"`
	Insights     pq.StringArray    `gorm:"type:text[]"`
}

// Contract is a sales contract tied to a deal journey
type Contract struct {
	BaseModel
	AgencyID  uuid.UUID      `gorm:"type:uuid;not null;index;column:agency_id"`
	JourneyID *uuid.UUID     `gorm:"type:uuid;index;column:journey_id"`
	Journey   *DealJourney   `gorm:"foreignKey:JourneyID"`
	Status    ContractStatus `gorm:"type:varchar(50);not null;default:'draft'"`
	SignedAt  *time.Time     `gorm:"column:signed_at"`
}

// StageTransition records a change of stage on a deal journey
type StageTransition struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	JourneyID     uuid.UUID  `gorm:"type:uuid;not null;index;column:journey_id"`
	FromStage     *DealStage `gorm:"type:varchar(50);column:from_stage"`
	ToStage       DealStage  `gorm:"type:varchar(50);not null;column:to_stage"`
	ChangedByID   string     `gorm:"type:varchar(100);not null;column:changed_by_id"`
	ChangedByName string     `gorm:"type:varchar(200);column:changed_by_name"`
	Notes         string     `gorm:"type:text"`
	ChangedAt     time.Time  `gorm:"not null;column:changed_at"`
}

// BeforeCreate assigns a random ID when none is set
func (t *StageTransition) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
