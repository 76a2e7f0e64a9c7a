package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/meridian-realty/dashboard-api/internal/auth"
)

// MeResponse describes the authenticated caller
type MeResponse struct {
	UserID       uuid.UUID  `json:"userId"`
	DisplayName  string     `json:"displayName"`
	Email        string     `json:"email,omitempty"`
	Roles        []string   `json:"roles"`
	AgencyID     *uuid.UUID `json:"agencyId,omitempty"`
	CrossAgency  bool       `json:"crossAgency"`
	ActiveAgency *uuid.UUID `json:"activeAgency,omitempty"`
}

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// Me godoc
// @Summary Current user
// @Description Identity, roles and the agency scope applied to this request
// @Tags Auth
// @Produce json
// @Success 200 {object} handler.MeResponse
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	respondJSON(w, http.StatusOK, MeResponse{
		UserID:       user.UserID,
		DisplayName:  user.DisplayName,
		Email:        user.Email,
		Roles:        user.RolesAsStrings(),
		AgencyID:     user.AgencyID,
		CrossAgency:  user.IsCrossAgency(),
		ActiveAgency: auth.GetEffectiveAgencyFilter(r.Context()),
	})
}
