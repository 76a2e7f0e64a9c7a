package handler

import (
	"net/http"

	"github.com/meridian-realty/dashboard-api/internal/domain"
	"github.com/meridian-realty/dashboard-api/internal/service"
	"go.uber.org/zap"
)

type AgencyHandler struct {
	agencyService *service.AgencyService
	logger        *zap.Logger
}

func NewAgencyHandler(agencyService *service.AgencyService, logger *zap.Logger) *AgencyHandler {
	return &AgencyHandler{agencyService: agencyService, logger: logger}
}

// List godoc
// @Summary List agencies
// @Description Paginated list of the agencies visible to the caller
// @Tags Agencies
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.AgencyDTO}
// @Failure 401 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /agencies [get]
func (h *AgencyHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	result, err := h.agencyService.List(r.Context(), page, pageSize)
	if err != nil {
		handleServiceError(w, h.logger, err, "list agencies")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Create godoc
// @Summary Create agency
// @Description Register a new agency. Admin only.
// @Tags Agencies
// @Accept json
// @Produce json
// @Param request body domain.CreateAgencyRequest true "Agency data"
// @Success 201 {object} domain.AgencyDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Duplicate slug"
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /agencies [post]
func (h *AgencyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateAgencyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	agency, err := h.agencyService.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "create agency")
		return
	}

	w.Header().Set("Location", "/api/v1/agencies/"+agency.ID.String())
	respondJSON(w, http.StatusCreated, agency)
}
