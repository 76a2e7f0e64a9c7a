// Package mapper converts persisted domain models into API DTOs and into the
// plain records consumed by the analytics package.
package mapper

import (
	"fmt"
	"time"

	"github.com/meridian-realty/dashboard-api/internal/analytics"
	"github.com/meridian-realty/dashboard-api/internal/domain"
)

const timestampLayout = "2006-01-02T15:04:05Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// ToAgencyDTO converts Agency to AgencyDTO
func ToAgencyDTO(agency *domain.Agency) domain.AgencyDTO {
	return domain.AgencyDTO{
		ID:        agency.ID,
		Name:      agency.Name,
		Slug:      agency.Slug,
		IsActive:  agency.IsActive,
		CreatedAt: formatTime(agency.CreatedAt),
	}
}

// ToLeadDTO converts Lead to LeadDTO
func ToLeadDTO(lead *domain.Lead) domain.LeadDTO {
	return domain.LeadDTO{
		ID:           lead.ID,
		AgencyID:     lead.AgencyID,
		Name:         lead.Name,
		Email:        lead.Email,
		Phone:        lead.Phone,
		IntentScore:  lead.IntentScore,
		QualityScore: lead.QualityScore,
		CreatedAt:    formatTime(lead.CreatedAt),
	}
}

// ToPropertyDTO converts Property to PropertyDTO
func ToPropertyDTO(property *domain.Property) domain.PropertyDTO {
	return domain.PropertyDTO{
		ID:        property.ID,
		AgencyID:  property.AgencyID,
		Title:     property.Title,
		Address:   property.Address,
		City:      property.City,
		ListPrice: property.ListPrice.InexactFloat64(),
		CreatedAt: formatTime(property.CreatedAt),
	}
}

// ToViewingDTO converts Viewing to ViewingDTO
func ToViewingDTO(viewing *domain.Viewing) domain.ViewingDTO {
	dto := domain.ViewingDTO{
		ID:          viewing.ID,
		AgencyID:    viewing.AgencyID,
		LeadID:      viewing.LeadID,
		PropertyID:  viewing.PropertyID,
		ScheduledAt: formatTime(viewing.ScheduledAt),
		Status:      viewing.Status,
		Notes:       viewing.Notes,
		CreatedAt:   formatTime(viewing.CreatedAt),
	}
	if viewing.Lead != nil {
		dto.LeadName = viewing.Lead.Name
	}
	if viewing.Property != nil {
		dto.PropertyTitle = viewing.Property.Title
	}
	return dto
}

// ToJourneyDTO converts DealJourney to JourneyDTO, deriving days in stage from now
func ToJourneyDTO(journey *domain.DealJourney, now time.Time) domain.JourneyDTO {
	return domain.JourneyDTO{
		ID:             journey.ID,
		AgencyID:       journey.AgencyID,
		LeadID:         journey.LeadID,
		PropertyID:     journey.PropertyID,
		CurrentStage:   journey.CurrentStage,
		StageEnteredAt: formatTime(journey.StageEnteredAt),
		DaysInStage:    journey.DaysInStage(now),
		IsStalling:     journey.IsStalling,
		CreatedAt:      formatTime(journey.CreatedAt),
	}
}

// ToNegotiationDTO converts Negotiation to NegotiationDTO
func ToNegotiationDTO(negotiation *domain.Negotiation) domain.NegotiationDTO {
	insights := make([]string, len(negotiation.Insights))
	copy(insights, negotiation.Insights)

	return domain.NegotiationDTO{
		ID:           negotiation.ID,
		AgencyID:     negotiation.AgencyID,
		JourneyID:    negotiation.JourneyID,
		AskingPrice:  negotiation.AskingPrice.InexactFloat64(),
		CurrentPrice: negotiation.CurrentPrice.InexactFloat64(),
		Status:       negotiation.Status,
		Insights:     insights,
		CreatedAt:    formatTime(negotiation.CreatedAt),
	}
}

// ToContractDTO converts Contract to ContractDTO
func ToContractDTO(contract *domain.Contract) domain.ContractDTO {
	dto := domain.ContractDTO{
		ID:        contract.ID,
		AgencyID:  contract.AgencyID,
		JourneyID: contract.JourneyID,
		Status:    contract.Status,
		CreatedAt: formatTime(contract.CreatedAt),
	}
	if contract.SignedAt != nil {
		signedAt := formatTime(*contract.SignedAt)
		dto.SignedAt = &signedAt
	}
	return dto
}

// ToStageTransitionDTO converts StageTransition to StageTransitionDTO
func ToStageTransitionDTO(transition *domain.StageTransition) domain.StageTransitionDTO {
	return domain.StageTransitionDTO{
		ID:            transition.ID,
		JourneyID:     transition.JourneyID,
		FromStage:     transition.FromStage,
		ToStage:       transition.ToStage,
		ChangedByID:   transition.ChangedByID,
		ChangedByName: transition.ChangedByName,
		Notes:         transition.Notes,
		ChangedAt:     formatTime(transition.ChangedAt),
	}
}

// ToViewingRecord converts a Viewing with its preloaded lead and property into
// the record scored by the viewing prioritizer
func ToViewingRecord(viewing *domain.Viewing) analytics.ViewingRecord {
	record := analytics.ViewingRecord{
		ID:          viewing.ID.String(),
		ScheduledAt: viewing.ScheduledAt,
		Status:      analytics.ViewingStatus(viewing.Status),
	}
	if viewing.Lead != nil {
		record.Lead = &analytics.LeadScores{
			ID:           viewing.Lead.ID.String(),
			Name:         viewing.Lead.Name,
			IntentScore:  viewing.Lead.IntentScore,
			QualityScore: viewing.Lead.QualityScore,
		}
	}
	if viewing.Property != nil {
		record.Property = &analytics.PropertyRef{
			ID:    viewing.Property.ID.String(),
			Title: viewing.Property.Title,
		}
	}
	return record
}

// ToNegotiationRecord converts a Negotiation into an analytics record.
// Prices lose decimal precision on the way; the analysis only needs ratios.
func ToNegotiationRecord(negotiation *domain.Negotiation) analytics.NegotiationRecord {
	record := analytics.NegotiationRecord{
		ID:           negotiation.ID.String(),
		AskingPrice:  negotiation.AskingPrice.InexactFloat64(),
		CurrentPrice: negotiation.CurrentPrice.InexactFloat64(),
		Status:       analytics.NegotiationStatus(negotiation.Status),
	}
	switch {
	case negotiation.Journey != nil:
		record.Journey = &analytics.JourneyRef{
			ID:           negotiation.Journey.ID.String(),
			CurrentStage: analytics.Stage(negotiation.Journey.CurrentStage),
		}
	case negotiation.JourneyID != nil:
		record.Journey = &analytics.JourneyRef{ID: negotiation.JourneyID.String()}
	}
	if len(negotiation.Insights) > 0 {
		record.Insights = append([]string(nil), negotiation.Insights...)
	}
	return record
}

// ToContractRecord converts a Contract into an analytics record
func ToContractRecord(contract *domain.Contract) analytics.ContractRecord {
	return analytics.ContractRecord{
		ID:        contract.ID.String(),
		Status:    analytics.ContractStatus(contract.Status),
		CreatedAt: contract.CreatedAt,
		SignedAt:  contract.SignedAt,
	}
}

// ToJourneyRecord converts a DealJourney into a lifecycle record as of now.
// A journey without a stage entry time carries no day count.
func ToJourneyRecord(journey *domain.DealJourney, now time.Time) analytics.DealLifecycleRecord {
	record := analytics.DealLifecycleRecord{
		ID:           journey.ID.String(),
		CurrentStage: analytics.Stage(journey.CurrentStage),
		IsStalling:   journey.IsStalling,
		Journey: &analytics.JourneyRef{
			ID:           journey.ID.String(),
			CurrentStage: analytics.Stage(journey.CurrentStage),
		},
	}
	if !journey.StageEnteredAt.IsZero() {
		days := journey.DaysInStage(now)
		record.DaysInStage = &days
	}
	return record
}

// FormatError creates a formatted error message
func FormatError(entity, operation string, err error) error {
	return fmt.Errorf("failed to %s %s: %w", operation, entity, err)
}
