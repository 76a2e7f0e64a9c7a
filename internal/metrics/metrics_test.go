package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveAnalysis(t *testing.T) {
	before := testutil.ToFloat64(AnalyticsRuns.WithLabelValues("funnel_test"))

	ObserveAnalysis("funnel_test", 42, time.Now())
	ObserveAnalysis("funnel_test", 7, time.Now())

	assert.Equal(t, before+2, testutil.ToFloat64(AnalyticsRuns.WithLabelValues("funnel_test")))
	assert.Equal(t, 7.0, testutil.ToFloat64(AnalyticsInputRecords.WithLabelValues("funnel_test")))
}
