// Package testutil provides an in-memory record store and seed helpers for tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/meridian-realty/dashboard-api/internal/auth"
	"github.com/meridian-realty/dashboard-api/internal/config"
	"github.com/meridian-realty/dashboard-api/internal/database"
	"github.com/meridian-realty/dashboard-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SetupTestDB opens a fresh in-memory sqlite database with the full schema
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewDatabase(&config.DatabaseConfig{
		Driver:     database.DriverSQLite,
		SQLitePath: ":memory:",
	})
	require.NoError(t, err, "failed to open sqlite test database")
	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// AgentContext returns a context for an agent of the given agency
func AgentContext(agencyID uuid.UUID) context.Context {
	id := agencyID
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:      uuid.New(),
		DisplayName: "Test Agent",
		Email:       "agent@meridian.test",
		Roles:       []domain.UserRole{domain.RoleAgent},
		AgencyID:    &id,
	})
}

// AdminContext returns a context for a cross-agency admin
func AdminContext() context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:      uuid.New(),
		DisplayName: "Test Admin",
		Email:       "admin@meridian.test",
		Roles:       []domain.UserRole{domain.RoleAdmin},
	})
}

func CreateTestAgency(t *testing.T, db *gorm.DB, name string) *domain.Agency {
	t.Helper()
	agency := &domain.Agency{
		Name:     name,
		Slug:     "agency-" + uuid.NewString(),
		IsActive: true,
	}
	require.NoError(t, db.Create(agency).Error)
	return agency
}

func CreateTestLead(t *testing.T, db *gorm.DB, agencyID uuid.UUID, name string, intent *float64) *domain.Lead {
	t.Helper()
	lead := &domain.Lead{AgencyID: agencyID, Name: name, Email: "lead@example.com", IntentScore: intent}
	require.NoError(t, db.Create(lead).Error)
	return lead
}

func CreateTestProperty(t *testing.T, db *gorm.DB, agencyID uuid.UUID, title string) *domain.Property {
	t.Helper()
	property := &domain.Property{
		AgencyID:  agencyID,
		Title:     title,
		City:      "Oslo",
		ListPrice: decimal.NewFromInt(5_000_000),
	}
	require.NoError(t, db.Create(property).Error)
	return property
}

func CreateTestViewing(t *testing.T, db *gorm.DB, agencyID uuid.UUID, lead *domain.Lead, property *domain.Property, at time.Time, status domain.ViewingStatus) *domain.Viewing {
	t.Helper()
	viewing := &domain.Viewing{AgencyID: agencyID, ScheduledAt: at.UTC(), Status: status}
	if lead != nil {
		viewing.LeadID = &lead.ID
	}
	if property != nil {
		viewing.PropertyID = &property.ID
	}
	require.NoError(t, db.Omit(clause.Associations).Create(viewing).Error)
	return viewing
}

func CreateTestJourney(t *testing.T, db *gorm.DB, agencyID uuid.UUID, stage domain.DealStage, enteredAt time.Time) *domain.DealJourney {
	t.Helper()
	journey := &domain.DealJourney{AgencyID: agencyID, CurrentStage: stage, StageEnteredAt: enteredAt.UTC()}
	require.NoError(t, db.Omit(clause.Associations).Create(journey).Error)
	return journey
}

func CreateTestNegotiation(t *testing.T, db *gorm.DB, agencyID uuid.UUID, journey *domain.DealJourney, asking, current int64, status domain.NegotiationStatus) *domain.Negotiation {
	t.Helper()
	negotiation := &domain.Negotiation{
		AgencyID:     agencyID,
		AskingPrice:  decimal.NewFromInt(asking),
		CurrentPrice: decimal.NewFromInt(current),
		Status:       status,
	}
	if journey != nil {
		negotiation.JourneyID = &journey.ID
	}
	require.NoError(t, db.Omit(clause.Associations).Create(negotiation).Error)
	return negotiation
}

func CreateTestContract(t *testing.T, db *gorm.DB, agencyID uuid.UUID, status domain.ContractStatus, createdAt time.Time, signedAt *time.Time) *domain.Contract {
	t.Helper()
	contract := &domain.Contract{AgencyID: agencyID, Status: status, SignedAt: signedAt}
	contract.CreatedAt = createdAt.UTC()
	contract.UpdatedAt = createdAt.UTC()
	require.NoError(t, db.Omit(clause.Associations).Create(contract).Error)
	return contract
}

// Float returns a pointer to f
func Float(f float64) *float64 {
	return &f
}
