package handler

import (
	"net/http"

	"github.com/meridian-realty/dashboard-api/internal/domain"
	"github.com/meridian-realty/dashboard-api/internal/repository"
	"github.com/meridian-realty/dashboard-api/internal/service"
	"go.uber.org/zap"
)

type ViewingHandler struct {
	viewingService *service.ViewingService
	logger         *zap.Logger
}

func NewViewingHandler(viewingService *service.ViewingService, logger *zap.Logger) *ViewingHandler {
	return &ViewingHandler{viewingService: viewingService, logger: logger}
}

// List godoc
// @Summary List viewings
// @Description Paginated viewings, optionally filtered by status, time window, lead or property
// @Tags Viewings
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param status query string false "Viewing status" Enums(scheduled, completed, cancelled)
// @Param from query string false "Scheduled at or after (RFC 3339)"
// @Param to query string false "Scheduled at or before (RFC 3339)"
// @Param leadId query string false "Lead ID" format(uuid)
// @Param propertyId query string false "Property ID" format(uuid)
// @Param sortBy query string false "Sort field" Enums(scheduledAt, createdAt, status)
// @Param sortOrder query string false "Sort order" Enums(asc, desc)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.ViewingDTO}
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /viewings [get]
func (h *ViewingHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	filters := &repository.ViewingFilters{}
	if status := r.URL.Query().Get("status"); status != "" {
		s := domain.ViewingStatus(status)
		filters.Status = &s
	}

	var err error
	if filters.ScheduledAfter, err = parseOptionalTime(r, "from"); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if filters.ScheduledUntil, err = parseOptionalTime(r, "to"); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if filters.LeadID, err = parseOptionalUUID(r, "leadId"); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if filters.PropertyID, err = parseOptionalUUID(r, "propertyId"); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.viewingService.List(r.Context(), page, pageSize, filters, parseSort(r))
	if err != nil {
		handleServiceError(w, h.logger, err, "list viewings")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get viewing
// @Tags Viewings
// @Produce json
// @Param id path string true "Viewing ID" format(uuid)
// @Success 200 {object} domain.ViewingDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /viewings/{id} [get]
func (h *ViewingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	viewing, err := h.viewingService.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err, "get viewing")
		return
	}
	respondJSON(w, http.StatusOK, viewing)
}

// Create godoc
// @Summary Schedule viewing
// @Tags Viewings
// @Accept json
// @Produce json
// @Param request body domain.CreateViewingRequest true "Viewing data"
// @Success 201 {object} domain.ViewingDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError "Lead or property not found"
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /viewings [post]
func (h *ViewingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateViewingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	viewing, err := h.viewingService.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "create viewing")
		return
	}

	w.Header().Set("Location", "/api/v1/viewings/"+viewing.ID.String())
	respondJSON(w, http.StatusCreated, viewing)
}
