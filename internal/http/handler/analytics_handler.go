package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/meridian-realty/dashboard-api/internal/analytics"
	"github.com/meridian-realty/dashboard-api/internal/domain"
	"github.com/meridian-realty/dashboard-api/internal/service"
	"go.uber.org/zap"
)

type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
	logger           *zap.Logger
}

func NewAnalyticsHandler(analyticsService *service.AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService, logger: logger}
}

// Viewings godoc
// @Summary Prioritized viewing queue
// @Description Viewings ordered by priority score, highest first. Upcoming limits the queue to the configured window from now.
// @Tags Analytics
// @Produce json
// @Param status query string false "Viewing status" Enums(scheduled, completed, cancelled)
// @Param upcoming query bool false "Only viewings inside the upcoming window"
// @Param from query string false "Earliest scheduled time (RFC 3339)"
// @Param to query string false "Latest scheduled time (RFC 3339)"
// @Success 200 {array} domain.PrioritizedViewing
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /analytics/viewings [get]
func (h *AnalyticsHandler) Viewings(w http.ResponseWriter, r *http.Request) {
	params := domain.ViewingQueueParams{Status: strings.TrimSpace(r.URL.Query().Get("status"))}
	var err error

	if params.Upcoming, err = parseOptionalBool(r, "upcoming"); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if params.From, err = parseOptionalTime(r, "from"); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if params.To, err = parseOptionalTime(r, "to"); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(params); err != nil {
		respondValidationError(w, err)
		return
	}
	if params.From != nil && params.To != nil && params.To.Before(*params.From) {
		respondWithError(w, http.StatusBadRequest, "to must not be before from")
		return
	}

	query := service.ViewingQueueQuery{Upcoming: params.Upcoming, From: params.From, To: params.To}
	if params.Status != "" {
		status := domain.ViewingStatus(params.Status)
		query.Status = &status
	}

	queue, err := h.analyticsService.ViewingQueue(r.Context(), query)
	if err != nil {
		handleServiceError(w, h.logger, err, "prioritize viewings")
		return
	}
	respondJSON(w, http.StatusOK, queue)
}

// Negotiations godoc
// @Summary Negotiation summary
// @Description Active negotiation count, average price gap and per-negotiation recommendations
// @Tags Analytics
// @Produce json
// @Success 200 {object} analytics.NegotiationAnalysis
// @Failure 401 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /analytics/negotiations [get]
func (h *AnalyticsHandler) Negotiations(w http.ResponseWriter, r *http.Request) {
	result, err := h.analyticsService.NegotiationSummary(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err, "analyze negotiations")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Contracts godoc
// @Summary Contract summary
// @Tags Analytics
// @Produce json
// @Success 200 {object} analytics.ContractAnalysis
// @Failure 401 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /analytics/contracts [get]
func (h *AnalyticsHandler) Contracts(w http.ResponseWriter, r *http.Request) {
	result, err := h.analyticsService.ContractSummary(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err, "analyze contracts")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Stalls godoc
// @Summary Stalled deal report
// @Description Partitions deal journeys into stalled, at risk and healthy. Omitted thresholds use the configured defaults.
// @Tags Analytics
// @Produce json
// @Param warningDays query int false "Days in stage before a deal is at risk"
// @Param criticalDays query int false "Days in stage before a deal is stalled"
// @Success 200 {object} analytics.StallReport
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /analytics/stalls [get]
func (h *AnalyticsHandler) Stalls(w http.ResponseWriter, r *http.Request) {
	var params domain.StallQueryParams
	var err error

	if params.WarningDays, err = parseOptionalInt(r, "warningDays"); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if params.CriticalDays, err = parseOptionalInt(r, "criticalDays"); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(params); err != nil {
		respondValidationError(w, err)
		return
	}

	var override analytics.StallConfig
	if params.WarningDays != nil {
		override.WarningDays = *params.WarningDays
	}
	if params.CriticalDays != nil {
		override.CriticalDays = *params.CriticalDays
	}

	effective := h.analyticsService.EffectiveStallConfig(&override)
	if effective.CriticalDays <= effective.WarningDays {
		respondWithError(w, http.StatusBadRequest, "criticalDays must be greater than warningDays")
		return
	}

	report, err := h.analyticsService.StallReport(r.Context(), &override)
	if err != nil {
		handleServiceError(w, h.logger, err, "detect stalls")
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// Funnel godoc
// @Summary Conversion funnel
// @Tags Analytics
// @Produce json
// @Success 200 {object} analytics.FunnelReport
// @Failure 401 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /analytics/funnel [get]
func (h *AnalyticsHandler) Funnel(w http.ResponseWriter, r *http.Request) {
	report, err := h.analyticsService.Funnel(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err, "calculate funnel")
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// Overview godoc
// @Summary Dashboard overview
// @Description Every analysis computed at the same instant
// @Tags Analytics
// @Produce json
// @Success 200 {object} domain.AnalyticsOverview
// @Failure 401 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /analytics/overview [get]
func (h *AnalyticsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.analyticsService.Overview(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err, "build overview")
		return
	}
	respondJSON(w, http.StatusOK, overview)
}

// Dates godoc
// @Summary Describe a date
// @Description Relative and absolute description of an instant, with urgency
// @Tags Analytics
// @Produce json
// @Param at query string true "Instant to describe (RFC 3339)"
// @Success 200 {object} domain.DateClassificationResponse
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /analytics/dates [get]
func (h *AnalyticsHandler) Dates(w http.ResponseWriter, r *http.Request) {
	params := domain.DateQueryParams{At: strings.TrimSpace(r.URL.Query().Get("at"))}
	if err := validate.Struct(params); err != nil {
		respondValidationError(w, err)
		return
	}
	at, err := time.Parse(time.RFC3339, params.At)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "at must be an RFC 3339 timestamp")
		return
	}
	respondJSON(w, http.StatusOK, h.analyticsService.ClassifyDate(at))
}
