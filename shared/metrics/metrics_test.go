package metrics_test

import (
	"errors"
	"pos/shared/metrics"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordOperation(t *testing.T) {
	before := testutil.ToFloat64(metrics.EventsDropped)

	metrics.RecordOperation("order", "create", nil)
	metrics.RecordOperation("order", "create", errors.New("boom"))
	metrics.RecordPublish("kafka", nil)
	metrics.RecordCacheLookup(metrics.CacheMiss)
	metrics.EventsDropped.Inc()

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.EventsDropped))
}
