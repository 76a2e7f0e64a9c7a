package handler

import (
	"net/http"
	"strings"

	"github.com/meridian-realty/dashboard-api/internal/domain"
	"github.com/meridian-realty/dashboard-api/internal/service"
	"go.uber.org/zap"
)

// LeadHandler serves leads and the properties they view
type LeadHandler struct {
	leadService *service.LeadService
	logger      *zap.Logger
}

func NewLeadHandler(leadService *service.LeadService, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{leadService: leadService, logger: logger}
}

// ListLeads godoc
// @Summary List leads
// @Tags Leads
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param search query string false "Match on name or email"
// @Param agencyId query string false "Agency to scope to (admins)" format(uuid)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.LeadDTO}
// @Failure 401 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /leads [get]
func (h *LeadHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	search := strings.TrimSpace(r.URL.Query().Get("search"))

	result, err := h.leadService.ListLeads(r.Context(), page, pageSize, search)
	if err != nil {
		handleServiceError(w, h.logger, err, "list leads")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// CreateLead godoc
// @Summary Create lead
// @Tags Leads
// @Accept json
// @Produce json
// @Param request body domain.CreateLeadRequest true "Lead data"
// @Success 201 {object} domain.LeadDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /leads [post]
func (h *LeadHandler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateLeadRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	lead, err := h.leadService.CreateLead(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "create lead")
		return
	}
	respondJSON(w, http.StatusCreated, lead)
}

// ListProperties godoc
// @Summary List properties
// @Tags Properties
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param city query string false "Filter by city"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.PropertyDTO}
// @Failure 401 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /properties [get]
func (h *LeadHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	city := strings.TrimSpace(r.URL.Query().Get("city"))

	result, err := h.leadService.ListProperties(r.Context(), page, pageSize, city)
	if err != nil {
		handleServiceError(w, h.logger, err, "list properties")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// CreateProperty godoc
// @Summary Create property
// @Tags Properties
// @Accept json
// @Produce json
// @Param request body domain.CreatePropertyRequest true "Property data"
// @Success 201 {object} domain.PropertyDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /properties [post]
func (h *LeadHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePropertyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	property, err := h.leadService.CreateProperty(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "create property")
		return
	}
	respondJSON(w, http.StatusCreated, property)
}
