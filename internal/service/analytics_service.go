package service

import (
	"context"
	"fmt"
	"time"

	"github.com/meridian-realty/dashboard-api/internal/analytics"
	"github.com/meridian-realty/dashboard-api/internal/config"
	"github.com/meridian-realty/dashboard-api/internal/domain"
	"github.com/meridian-realty/dashboard-api/internal/mapper"
	"github.com/meridian-realty/dashboard-api/internal/metrics"
	"github.com/meridian-realty/dashboard-api/internal/repository"
	"go.uber.org/zap"
)

// Clock returns the current time. Services take one so that every analysis
// in a request sees the same instant.
type Clock func() time.Time

// SystemClock is the wall clock in UTC
func SystemClock() time.Time {
	return time.Now().UTC()
}

// Analysis names used as metric labels
const (
	AnalysisViewingQueue = "viewing_queue"
	AnalysisNegotiations = "negotiations"
	AnalysisContracts    = "contracts"
	AnalysisStalls       = "stalls"
	AnalysisFunnel       = "funnel"
)

// ViewingQueueQuery narrows the viewing queue. Upcoming keeps viewings within
// the configured upcoming window from now; From and To are inclusive bounds.
type ViewingQueueQuery struct {
	Status   *domain.ViewingStatus
	Upcoming bool
	From     *time.Time
	To       *time.Time
}

// AnalyticsService loads agency-scoped records and runs the dashboard analyses
type AnalyticsService struct {
	viewingRepo     *repository.ViewingRepository
	negotiationRepo *repository.NegotiationRepository
	contractRepo    *repository.ContractRepository
	journeyRepo     *repository.JourneyRepository
	cfg             config.AnalyticsConfig
	now             Clock
	logger          *zap.Logger
}

func NewAnalyticsService(
	viewingRepo *repository.ViewingRepository,
	negotiationRepo *repository.NegotiationRepository,
	contractRepo *repository.ContractRepository,
	journeyRepo *repository.JourneyRepository,
	cfg *config.AnalyticsConfig,
	logger *zap.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		viewingRepo:     viewingRepo,
		negotiationRepo: negotiationRepo,
		contractRepo:    contractRepo,
		journeyRepo:     journeyRepo,
		cfg:             *cfg,
		now:             SystemClock,
		logger:          logger,
	}
}

// WithClock replaces the time source
func (s *AnalyticsService) WithClock(clock Clock) *AnalyticsService {
	s.now = clock
	return s
}

// DefaultStallConfig returns the configured stall thresholds
func (s *AnalyticsService) DefaultStallConfig() analytics.StallConfig {
	return analytics.StallConfig{WarningDays: s.cfg.WarningDays, CriticalDays: s.cfg.CriticalDays}
}

// EffectiveStallConfig merges the positive thresholds of override over the
// configured ones and fills whatever is still unset with the engine defaults.
func (s *AnalyticsService) EffectiveStallConfig(override *analytics.StallConfig) analytics.StallConfig {
	effective := s.DefaultStallConfig()
	if override != nil {
		if override.WarningDays > 0 {
			effective.WarningDays = override.WarningDays
		}
		if override.CriticalDays > 0 {
			effective.CriticalDays = override.CriticalDays
		}
	}
	return effective.Normalized()
}

func (s *AnalyticsService) upcomingWindow() time.Duration {
	if s.cfg.UpcomingWindowDays <= 0 {
		return analytics.UpcomingWindow
	}
	return time.Duration(s.cfg.UpcomingWindowDays) * 24 * time.Hour
}

// ViewingQueue returns viewings ordered by descending priority
func (s *AnalyticsService) ViewingQueue(ctx context.Context, query ViewingQueueQuery) ([]domain.PrioritizedViewing, error) {
	return s.viewingQueueAt(ctx, query, s.now())
}

func (s *AnalyticsService) viewingQueueAt(ctx context.Context, query ViewingQueueQuery, now time.Time) ([]domain.PrioritizedViewing, error) {
	started := time.Now()

	filters, dbFilters := s.viewingFilters(query, now)
	viewings, err := s.viewingRepo.ListForAnalytics(ctx, dbFilters)
	if err != nil {
		return nil, fmt.Errorf("failed to load viewings: %w", err)
	}

	records := make([]analytics.ViewingRecord, len(viewings))
	for i := range viewings {
		records[i] = mapper.ToViewingRecord(&viewings[i])
	}

	ordered := analytics.PrioritizeViewings(records, filters, now)
	queue := make([]domain.PrioritizedViewing, len(ordered))
	for i, v := range ordered {
		queue[i] = domain.PrioritizedViewing{
			ViewingRecord: v,
			PriorityScore: analytics.ScoreViewing(v, now),
			When:          analytics.ClassifyDate(v.ScheduledAt, now),
		}
	}

	metrics.ObserveAnalysis(AnalysisViewingQueue, len(records), started)
	return queue, nil
}

// viewingFilters turns a query into engine filters and the equivalent
// database pre-filter. The upcoming flag is expressed as a date range so the
// configured window applies.
func (s *AnalyticsService) viewingFilters(query ViewingQueueQuery, now time.Time) (analytics.ViewingFilters, *repository.ViewingFilters) {
	var filters analytics.ViewingFilters
	dbFilters := &repository.ViewingFilters{Status: query.Status}

	if query.Status != nil {
		status := analytics.ViewingStatus(*query.Status)
		filters.Status = &status
	}

	start, end := query.From, query.To
	if query.Upcoming {
		windowStart, windowEnd := now, now.Add(s.upcomingWindow())
		if start == nil || start.Before(windowStart) {
			start = &windowStart
		}
		if end == nil || end.After(windowEnd) {
			end = &windowEnd
		}
	}

	if start != nil || end != nil {
		r := analytics.DateRange{Start: time.Time{}, End: now.AddDate(1000, 0, 0)}
		if start != nil {
			r.Start = *start
			dbFilters.ScheduledAfter = start
		}
		if end != nil {
			r.End = *end
			dbFilters.ScheduledUntil = end
		}
		filters.DateRange = &r
	}
	return filters, dbFilters
}

// NegotiationSummary analyzes every negotiation visible to the caller
func (s *AnalyticsService) NegotiationSummary(ctx context.Context) (*analytics.NegotiationAnalysis, error) {
	started := time.Now()

	negotiations, err := s.negotiationRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load negotiations: %w", err)
	}

	records := make([]analytics.NegotiationRecord, len(negotiations))
	for i := range negotiations {
		records[i] = mapper.ToNegotiationRecord(&negotiations[i])
	}

	result := analytics.AnalyzeNegotiations(records)
	metrics.ObserveAnalysis(AnalysisNegotiations, len(records), started)
	return &result, nil
}

// ContractSummary analyzes every contract visible to the caller
func (s *AnalyticsService) ContractSummary(ctx context.Context) (*analytics.ContractAnalysis, error) {
	return s.contractSummaryAt(ctx, s.now())
}

func (s *AnalyticsService) contractSummaryAt(ctx context.Context, now time.Time) (*analytics.ContractAnalysis, error) {
	started := time.Now()

	contracts, err := s.contractRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load contracts: %w", err)
	}

	records := make([]analytics.ContractRecord, len(contracts))
	for i := range contracts {
		records[i] = mapper.ToContractRecord(&contracts[i])
	}

	result := analytics.AnalyzeContracts(records, now)
	metrics.ObserveAnalysis(AnalysisContracts, len(records), started)
	return &result, nil
}

// StallReport classifies every deal journey. A nil cfg uses the configured thresholds.
func (s *AnalyticsService) StallReport(ctx context.Context, cfg *analytics.StallConfig) (*analytics.StallReport, error) {
	records, err := s.journeyRecords(ctx, s.now())
	if err != nil {
		return nil, err
	}
	return s.stallReport(records, cfg), nil
}

func (s *AnalyticsService) stallReport(records []analytics.DealLifecycleRecord, cfg *analytics.StallConfig) *analytics.StallReport {
	started := time.Now()

	result := analytics.DetectStalls(records, s.EffectiveStallConfig(cfg))
	metrics.ObserveAnalysis(AnalysisStalls, len(records), started)
	return &result
}

// Funnel computes the conversion funnel over every deal journey
func (s *AnalyticsService) Funnel(ctx context.Context) (*analytics.FunnelReport, error) {
	records, err := s.journeyRecords(ctx, s.now())
	if err != nil {
		return nil, err
	}
	return s.funnel(records), nil
}

func (s *AnalyticsService) funnel(records []analytics.DealLifecycleRecord) *analytics.FunnelReport {
	started := time.Now()
	result := analytics.CalculateFunnel(records)
	metrics.ObserveAnalysis(AnalysisFunnel, len(records), started)
	return &result
}

// JourneyRecords loads the deal journeys visible in ctx as lifecycle records as of now
func (s *AnalyticsService) journeyRecords(ctx context.Context, now time.Time) ([]analytics.DealLifecycleRecord, error) {
	journeys, err := s.journeyRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load journeys: %w", err)
	}

	records := make([]analytics.DealLifecycleRecord, len(journeys))
	for i := range journeys {
		records[i] = mapper.ToJourneyRecord(&journeys[i], now)
	}
	return records, nil
}

// Overview computes every analysis against a single instant. Journeys are
// loaded once and shared by the stall report and the funnel.
func (s *AnalyticsService) Overview(ctx context.Context) (*domain.AnalyticsOverview, error) {
	now := s.now()

	queue, err := s.viewingQueueAt(ctx, ViewingQueueQuery{Upcoming: true}, now)
	if err != nil {
		return nil, err
	}

	negotiations, err := s.NegotiationSummary(ctx)
	if err != nil {
		return nil, err
	}

	contracts, err := s.contractSummaryAt(ctx, now)
	if err != nil {
		return nil, err
	}

	journeys, err := s.journeyRecords(ctx, now)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("analytics overview computed",
		zap.Int("viewings", len(queue)),
		zap.Int("active_negotiations", negotiations.ActiveCount),
		zap.Int("journeys", len(journeys)),
	)

	return &domain.AnalyticsOverview{
		GeneratedAt:  now.UTC().Format(time.RFC3339),
		ViewingQueue: queue,
		Negotiations: *negotiations,
		Contracts:    *contracts,
		Stalls:       *s.stallReport(journeys, nil),
		Funnel:       *s.funnel(journeys),
	}, nil
}

// ClassifyDate describes at relative to now
func (s *AnalyticsService) ClassifyDate(at time.Time) domain.DateClassificationResponse {
	return domain.DateClassificationResponse{
		Date:            at.UTC().Format(time.RFC3339),
		DateDescription: analytics.ClassifyDate(at, s.now()),
	}
}
