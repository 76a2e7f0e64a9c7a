package service_test

import (
	"testing"
	"time"

	"github.com/meridian-realty/dashboard-api/internal/analytics"
	"github.com/meridian-realty/dashboard-api/internal/config"
	"github.com/meridian-realty/dashboard-api/internal/domain"
	"github.com/meridian-realty/dashboard-api/internal/repository"
	"github.com/meridian-realty/dashboard-api/internal/service"
	"github.com/meridian-realty/dashboard-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newAnalyticsService(db *gorm.DB, cfg config.AnalyticsConfig) *service.AnalyticsService {
	return service.NewAnalyticsService(
		repository.NewViewingRepository(db),
		repository.NewNegotiationRepository(db),
		repository.NewContractRepository(db),
		repository.NewJourneyRepository(db),
		&cfg,
		zap.NewNop(),
	).WithClock(fixedClock)
}

var defaultAnalyticsConfig = config.AnalyticsConfig{WarningDays: 7, CriticalDays: 14, UpcomingWindowDays: 7}

func queueIDs(queue []domain.PrioritizedViewing) []string {
	ids := make([]string, len(queue))
	for i, v := range queue {
		ids[i] = v.ID
	}
	return ids
}

func TestAnalyticsService_ViewingQueue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	own := testutil.CreateTestAgency(t, db, "Own")
	other := testutil.CreateTestAgency(t, db, "Other")
	hotLead := testutil.CreateTestLead(t, db, own.ID, "Hot", testutil.Float(95))
	coldLead := testutil.CreateTestLead(t, db, own.ID, "Cold", testutil.Float(10))

	soonCold := testutil.CreateTestViewing(t, db, own.ID, coldLead, nil, fixedNow.Add(2*time.Hour), domain.ViewingStatusScheduled)
	soonHot := testutil.CreateTestViewing(t, db, own.ID, hotLead, nil, fixedNow.Add(3*time.Hour), domain.ViewingStatusScheduled)
	inThreeDays := testutil.CreateTestViewing(t, db, own.ID, nil, nil, fixedNow.Add(72*time.Hour), domain.ViewingStatus("confirmed"))
	past := testutil.CreateTestViewing(t, db, own.ID, hotLead, nil, fixedNow.Add(-24*time.Hour), domain.ViewingStatusCompleted)
	farAway := testutil.CreateTestViewing(t, db, own.ID, nil, nil, fixedNow.AddDate(0, 0, 10), domain.ViewingStatusScheduled)
	testutil.CreateTestViewing(t, db, other.ID, nil, nil, fixedNow.Add(time.Hour), domain.ViewingStatusScheduled)

	svc := newAnalyticsService(db, defaultAnalyticsConfig)
	ctx := testutil.AgentContext(own.ID)

	t.Run("all visible viewings by priority", func(t *testing.T) {
		queue, err := svc.ViewingQueue(ctx, service.ViewingQueueQuery{})
		require.NoError(t, err)
		require.Len(t, queue, 5)
		assert.Equal(t, soonHot.ID.String(), queue[0].ID)
		assert.Equal(t, soonCold.ID.String(), queue[1].ID)
		assert.GreaterOrEqual(t, queue[0].PriorityScore, queue[1].PriorityScore)
		assert.Equal(t, "In 3 hours", queue[0].When.Relative)
		assert.True(t, queue[0].When.IsUrgent)
	})

	t.Run("upcoming keeps the next seven days", func(t *testing.T) {
		queue, err := svc.ViewingQueue(ctx, service.ViewingQueueQuery{Upcoming: true})
		require.NoError(t, err)
		assert.ElementsMatch(t,
			[]string{soonHot.ID.String(), soonCold.ID.String(), inThreeDays.ID.String()},
			queueIDs(queue),
		)
	})

	t.Run("status filter", func(t *testing.T) {
		status := domain.ViewingStatusCompleted
		queue, err := svc.ViewingQueue(ctx, service.ViewingQueueQuery{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, []string{past.ID.String()}, queueIDs(queue))
	})

	t.Run("explicit range is intersected with the upcoming window", func(t *testing.T) {
		from := fixedNow.Add(48 * time.Hour)
		to := fixedNow.AddDate(0, 0, 30)
		queue, err := svc.ViewingQueue(ctx, service.ViewingQueueQuery{Upcoming: true, From: &from, To: &to})
		require.NoError(t, err)
		assert.Equal(t, []string{inThreeDays.ID.String()}, queueIDs(queue))

		queue, err = svc.ViewingQueue(ctx, service.ViewingQueueQuery{From: &from, To: &to})
		require.NoError(t, err)
		assert.Equal(t, []string{inThreeDays.ID.String(), farAway.ID.String()}, queueIDs(queue))
	})
}

func TestAnalyticsService_UpcomingWindowFromConfig(t *testing.T) {
	db := testutil.SetupTestDB(t)
	agency := testutil.CreateTestAgency(t, db, "Own")
	testutil.CreateTestViewing(t, db, agency.ID, nil, nil, fixedNow.Add(12*time.Hour), domain.ViewingStatusScheduled)
	testutil.CreateTestViewing(t, db, agency.ID, nil, nil, fixedNow.Add(72*time.Hour), domain.ViewingStatusScheduled)

	cfg := defaultAnalyticsConfig
	cfg.UpcomingWindowDays = 1
	svc := newAnalyticsService(db, cfg)

	queue, err := svc.ViewingQueue(testutil.AgentContext(agency.ID), service.ViewingQueueQuery{Upcoming: true})
	require.NoError(t, err)
	assert.Len(t, queue, 1)
}

func TestAnalyticsService_NegotiationSummary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	agency := testutil.CreateTestAgency(t, db, "Own")
	journey := testutil.CreateTestJourney(t, db, agency.ID, domain.DealStageNegotiation, fixedNow)
	testutil.CreateTestNegotiation(t, db, agency.ID, journey, 1_000_000, 980_000, domain.NegotiationStatusActive)
	testutil.CreateTestNegotiation(t, db, agency.ID, nil, 1_000_000, 800_000, domain.NegotiationStatusActive)
	testutil.CreateTestNegotiation(t, db, agency.ID, nil, 1_000_000, 1_000_000, domain.NegotiationStatusCompleted)

	svc := newAnalyticsService(db, defaultAnalyticsConfig)
	summary, err := svc.NegotiationSummary(testutil.AgentContext(agency.ID))
	require.NoError(t, err)

	assert.Equal(t, 2, summary.ActiveCount)
	assert.InDelta(t, 11.0, summary.AvgPriceGap, 0.001)
	require.Len(t, summary.Recommendations, 2)
}

func TestAnalyticsService_ContractSummary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	agency := testutil.CreateTestAgency(t, db, "Own")
	signedAt := fixedNow.Add(-24 * time.Hour)
	testutil.CreateTestContract(t, db, agency.ID, domain.ContractStatusSent, fixedNow.AddDate(0, 0, -10), nil)
	testutil.CreateTestContract(t, db, agency.ID, domain.ContractStatusDraft, fixedNow.AddDate(0, 0, -20), nil)
	testutil.CreateTestContract(t, db, agency.ID, domain.ContractStatusSigned, fixedNow.AddDate(0, 0, -3), &signedAt)

	svc := newAnalyticsService(db, defaultAnalyticsConfig)
	summary, err := svc.ContractSummary(testutil.AgentContext(agency.ID))
	require.NoError(t, err)

	assert.Len(t, summary.Urgent, 1)
	assert.Len(t, summary.ExpiringSoon, 1)
	assert.Equal(t, 1, summary.SignedThisMonth)
	assert.Equal(t, 1, summary.ByStatus[analytics.ContractStatusSent])
}

func TestAnalyticsService_StallReport(t *testing.T) {
	db := testutil.SetupTestDB(t)
	agency := testutil.CreateTestAgency(t, db, "Own")
	testutil.CreateTestJourney(t, db, agency.ID, domain.DealStageInterest, fixedNow.AddDate(0, 0, -2))
	testutil.CreateTestJourney(t, db, agency.ID, domain.DealStageEvaluation, fixedNow.AddDate(0, 0, -10))
	testutil.CreateTestJourney(t, db, agency.ID, domain.DealStageDecision, fixedNow.AddDate(0, 0, -20))

	svc := newAnalyticsService(db, defaultAnalyticsConfig)
	ctx := testutil.AgentContext(agency.ID)

	report, err := svc.StallReport(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, report.Healthy, 1)
	assert.Len(t, report.AtRisk, 1)
	assert.Len(t, report.Stalled, 1)

	// request thresholds override the configured ones
	report, err = svc.StallReport(ctx, &analytics.StallConfig{WarningDays: 1, CriticalDays: 5})
	require.NoError(t, err)
	assert.Len(t, report.AtRisk, 1)
	assert.Len(t, report.Stalled, 2)
}

func TestAnalyticsService_Overview(t *testing.T) {
	db := testutil.SetupTestDB(t)
	agency := testutil.CreateTestAgency(t, db, "Own")
	testutil.CreateTestViewing(t, db, agency.ID, nil, nil, fixedNow.Add(time.Hour), domain.ViewingStatusScheduled)
	testutil.CreateTestJourney(t, db, agency.ID, domain.DealStageDiscovery, fixedNow.AddDate(0, 0, -1))
	testutil.CreateTestJourney(t, db, agency.ID, domain.DealStageClosed, fixedNow.AddDate(0, 0, -1))

	svc := newAnalyticsService(db, defaultAnalyticsConfig)
	overview, err := svc.Overview(testutil.AgentContext(agency.ID))
	require.NoError(t, err)

	assert.Equal(t, "2026-03-02T09:00:00Z", overview.GeneratedAt)
	assert.Len(t, overview.ViewingQueue, 1)
	assert.Equal(t, 0, overview.Negotiations.ActiveCount)
	assert.Len(t, overview.Stalls.Healthy, 2)
	assert.InDelta(t, 50.0, overview.Funnel.OverallConversion, 0.001)
}

func TestAnalyticsService_ClassifyDate(t *testing.T) {
	svc := newAnalyticsService(testutil.SetupTestDB(t), defaultAnalyticsConfig)

	result := svc.ClassifyDate(fixedNow.Add(24 * time.Hour))
	assert.Equal(t, "2026-03-03T09:00:00Z", result.Date)
	assert.Equal(t, "Tomorrow", result.Relative)
	assert.Equal(t, "Mar 3, 2026", result.Absolute)
	assert.True(t, result.IsUrgent)
}

func TestAnalyticsService_DefaultStallConfig(t *testing.T) {
	svc := newAnalyticsService(testutil.SetupTestDB(t), config.AnalyticsConfig{WarningDays: 3, CriticalDays: 9})
	assert.Equal(t, analytics.StallConfig{WarningDays: 3, CriticalDays: 9}, svc.DefaultStallConfig())
}

func TestAnalyticsService_EffectiveStallConfig(t *testing.T) {
	svc := newAnalyticsService(testutil.SetupTestDB(t), config.AnalyticsConfig{CriticalDays: 20})

	assert.Equal(t, analytics.StallConfig{WarningDays: 7, CriticalDays: 20}, svc.EffectiveStallConfig(nil))
	assert.Equal(t, analytics.StallConfig{WarningDays: 3, CriticalDays: 20},
		svc.EffectiveStallConfig(&analytics.StallConfig{WarningDays: 3, CriticalDays: -1}))
}
