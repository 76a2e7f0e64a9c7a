package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/meridian-realty/dashboard-api/internal/config"
	"github.com/meridian-realty/dashboard-api/internal/repository"
	"github.com/meridian-realty/dashboard-api/internal/service"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type testServices struct {
	agencies  *service.AgencyService
	leads     *service.LeadService
	viewings  *service.ViewingService
	journeys  *service.JourneyService
	deals     *service.DealRecordService
	analytics *service.AnalyticsService
}

func newTestServices(db *gorm.DB) testServices {
	logger := zap.NewNop()
	agencyRepo := repository.NewAgencyRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	viewingRepo := repository.NewViewingRepository(db)
	journeyRepo := repository.NewJourneyRepository(db)
	negotiationRepo := repository.NewNegotiationRepository(db)
	contractRepo := repository.NewContractRepository(db)

	return testServices{
		agencies: service.NewAgencyService(agencyRepo, logger),
		leads:    service.NewLeadService(leadRepo, propertyRepo, logger),
		viewings: service.NewViewingService(viewingRepo, leadRepo, propertyRepo, logger),
		journeys: service.NewJourneyService(journeyRepo, repository.NewStageTransitionRepository(db), leadRepo, propertyRepo, logger).
			WithClock(fixedClock),
		deals: service.NewDealRecordService(negotiationRepo, contractRepo, journeyRepo, logger).WithClock(fixedClock),
		analytics: service.NewAnalyticsService(viewingRepo, negotiationRepo, contractRepo, journeyRepo,
			&config.AnalyticsConfig{WarningDays: 7, CriticalDays: 14, UpcomingWindowDays: 7}, logger).
			WithClock(fixedClock),
	}
}

// newRequest builds a request carrying ctx, a JSON body when body is non-nil
// and the given chi URL parameters as name/value pairs.
func newRequest(t *testing.T, ctx context.Context, method, target string, body interface{}, params ...string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for i := 0; i+1 < len(params); i += 2 {
			rctx.URLParams.Add(params[i], params[i+1])
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}
