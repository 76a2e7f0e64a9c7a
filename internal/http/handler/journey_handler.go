package handler

import (
	"net/http"

	"github.com/meridian-realty/dashboard-api/internal/domain"
	"github.com/meridian-realty/dashboard-api/internal/repository"
	"github.com/meridian-realty/dashboard-api/internal/service"
	"go.uber.org/zap"
)

type JourneyHandler struct {
	journeyService *service.JourneyService
	logger         *zap.Logger
}

func NewJourneyHandler(journeyService *service.JourneyService, logger *zap.Logger) *JourneyHandler {
	return &JourneyHandler{journeyService: journeyService, logger: logger}
}

// List godoc
// @Summary List deal journeys
// @Tags Journeys
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param stage query string false "Current stage" Enums(discovery, interest, evaluation, negotiation, decision, closed)
// @Param isStalling query bool false "Only journeys flagged as stalling"
// @Param leadId query string false "Lead ID" format(uuid)
// @Param propertyId query string false "Property ID" format(uuid)
// @Param sortBy query string false "Sort field" Enums(stageEnteredAt, currentStage, createdAt, updatedAt)
// @Param sortOrder query string false "Sort order" Enums(asc, desc)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.JourneyDTO}
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /journeys [get]
func (h *JourneyHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	filters := &repository.JourneyFilters{}
	if stage := r.URL.Query().Get("stage"); stage != "" {
		s := domain.DealStage(stage)
		filters.Stage = &s
	}
	if raw := r.URL.Query().Get("isStalling"); raw != "" {
		stalling, err := parseOptionalBool(r, "isStalling")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		filters.IsStalling = &stalling
	}

	var err error
	if filters.LeadID, err = parseOptionalUUID(r, "leadId"); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if filters.PropertyID, err = parseOptionalUUID(r, "propertyId"); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.journeyService.List(r.Context(), page, pageSize, filters, parseSort(r))
	if err != nil {
		handleServiceError(w, h.logger, err, "list journeys")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Create godoc
// @Summary Open deal journey
// @Tags Journeys
// @Accept json
// @Produce json
// @Param request body domain.CreateJourneyRequest true "Journey data"
// @Success 201 {object} domain.JourneyDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /journeys [post]
func (h *JourneyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateJourneyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	journey, err := h.journeyService.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "create journey")
		return
	}
	respondJSON(w, http.StatusCreated, journey)
}

// AdvanceStage godoc
// @Summary Move journey to a stage
// @Description Records a stage transition and restarts the stage clock
// @Tags Journeys
// @Accept json
// @Produce json
// @Param id path string true "Journey ID" format(uuid)
// @Param request body domain.UpdateJourneyStageRequest true "Target stage"
// @Success 200 {object} domain.JourneyDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /journeys/{id}/stage [put]
func (h *JourneyHandler) AdvanceStage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req domain.UpdateJourneyStageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	journey, err := h.journeyService.AdvanceStage(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "update journey stage")
		return
	}
	respondJSON(w, http.StatusOK, journey)
}

// ListTransitions godoc
// @Summary Stage history of a journey
// @Tags Journeys
// @Produce json
// @Param id path string true "Journey ID" format(uuid)
// @Success 200 {array} domain.StageTransitionDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /journeys/{id}/transitions [get]
func (h *JourneyHandler) ListTransitions(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	transitions, err := h.journeyService.ListTransitions(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err, "list stage transitions")
		return
	}
	respondJSON(w, http.StatusOK, transitions)
}
