package prometheus

import (
	"testing"
	"time"

	"mauryavansham-service/pkg/config"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInitMetrics_Idempotent(t *testing.T) {
	cfg := &config.Config{Metrics: config.MetricsConfig{Prefix: "test"}}
	assert.NotPanics(t, func() {
		InitMetrics(cfg)
		InitMetrics(cfg)
	})
}

func TestRecordHelpers(t *testing.T) {
	before := testutil.ToFloat64(OperationsCounter.WithLabelValues("interest", "create"))
	RecordOperation("interest", "create")
	assert.Equal(t, before+1, testutil.ToFloat64(OperationsCounter.WithLabelValues("interest", "create")))

	sent := testutil.ToFloat64(DeliveryCounter.WithLabelValues("email", "sent"))
	RecordDelivery("email", "sent")
	assert.Equal(t, sent+1, testutil.ToFloat64(DeliveryCounter.WithLabelValues("email", "sent")))

	assert.NotPanics(t, func() {
		TrackDBOperation("query")(time.Now())
	})
}
