package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/meridian-realty/dashboard-api/internal/auth"
	"go.uber.org/zap"
)

// AgencyHeader selects the agency a cross-agency caller works in
const AgencyHeader = "X-Agency-ID"

// AgencyFilterMiddleware sets the effective agency scope of a request
type AgencyFilterMiddleware struct {
	logger *zap.Logger
}

func NewAgencyFilterMiddleware(logger *zap.Logger) *AgencyFilterMiddleware {
	return &AgencyFilterMiddleware{logger: logger}
}

// Filter narrows the request to one agency.
//   - ?agencyId=<uuid> or the X-Agency-ID header selects an agency; the caller
//     must be allowed to access it
//   - without a selection admins and API services see every agency, everyone
//     else is held to their own
func (m *AgencyFilterMiddleware) Filter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userCtx, ok := auth.FromContext(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		recordUser(r)

		requested := strings.TrimSpace(r.URL.Query().Get("agencyId"))
		if requested == "" {
			requested = strings.TrimSpace(r.Header.Get(AgencyHeader))
		}

		filter := &auth.AgencyFilter{AgencyID: userCtx.GetAgencyFilter()}
		if requested != "" {
			agencyID, err := uuid.Parse(requested)
			if err != nil || agencyID == uuid.Nil {
				http.Error(w, "Invalid agencyId parameter", http.StatusBadRequest)
				return
			}

			if !userCtx.CanAccessAgency(agencyID) {
				m.logger.Warn("user attempted to access unauthorized agency",
					zap.String("user_id", userCtx.UserID.String()),
					zap.String("requested_agency", agencyID.String()),
				)
				http.Error(w, "Access denied: you cannot access data for this agency", http.StatusForbidden)
				return
			}
			filter.AgencyID = &agencyID
		}

		next.ServeHTTP(w, r.WithContext(auth.WithAgencyFilter(r.Context(), filter)))
	})
}
