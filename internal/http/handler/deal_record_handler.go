package handler

import (
	"net/http"

	"github.com/meridian-realty/dashboard-api/internal/domain"
	"github.com/meridian-realty/dashboard-api/internal/service"
	"go.uber.org/zap"
)

// DealRecordHandler serves negotiations and contracts
type DealRecordHandler struct {
	dealService *service.DealRecordService
	logger      *zap.Logger
}

func NewDealRecordHandler(dealService *service.DealRecordService, logger *zap.Logger) *DealRecordHandler {
	return &DealRecordHandler{dealService: dealService, logger: logger}
}

// ListNegotiations godoc
// @Summary List negotiations
// @Tags Negotiations
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param status query string false "Negotiation status" Enums(active, completed, cancelled)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.NegotiationDTO}
// @Failure 401 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /negotiations [get]
func (h *DealRecordHandler) ListNegotiations(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	var status *domain.NegotiationStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := domain.NegotiationStatus(raw)
		status = &s
	}

	result, err := h.dealService.ListNegotiations(r.Context(), page, pageSize, status)
	if err != nil {
		handleServiceError(w, h.logger, err, "list negotiations")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// CreateNegotiation godoc
// @Summary Record negotiation
// @Tags Negotiations
// @Accept json
// @Produce json
// @Param request body domain.CreateNegotiationRequest true "Negotiation data"
// @Success 201 {object} domain.NegotiationDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError "Journey not found"
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /negotiations [post]
func (h *DealRecordHandler) CreateNegotiation(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateNegotiationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	negotiation, err := h.dealService.CreateNegotiation(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "create negotiation")
		return
	}
	respondJSON(w, http.StatusCreated, negotiation)
}

// ListContracts godoc
// @Summary List contracts
// @Tags Contracts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param status query string false "Contract status" Enums(draft, sent, signed, expired)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.ContractDTO}
// @Failure 401 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /contracts [get]
func (h *DealRecordHandler) ListContracts(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	var status *domain.ContractStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := domain.ContractStatus(raw)
		status = &s
	}

	result, err := h.dealService.ListContracts(r.Context(), page, pageSize, status)
	if err != nil {
		handleServiceError(w, h.logger, err, "list contracts")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// CreateContract godoc
// @Summary Record contract
// @Description A contract created as signed without signedAt is stamped with the current time
// @Tags Contracts
// @Accept json
// @Produce json
// @Param request body domain.CreateContractRequest true "Contract data"
// @Success 201 {object} domain.ContractDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError "Journey not found"
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /contracts [post]
func (h *DealRecordHandler) CreateContract(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateContractRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	contract, err := h.dealService.CreateContract(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "create contract")
		return
	}
	respondJSON(w, http.StatusCreated, contract)
}
