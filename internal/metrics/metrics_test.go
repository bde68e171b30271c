package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hearsay/internal/metrics"
)

func TestRegister_Idempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, metrics.Register(reg))
	require.NoError(t, metrics.Register(reg))
}

func TestObserveSSOLogin(t *testing.T) {
	before := testutil.ToFloat64(metrics.SSOLogins.WithLabelValues("google", "provisioned"))
	metrics.ObserveSSOLogin("google", "provisioned")
	after := testutil.ToFloat64(metrics.SSOLogins.WithLabelValues("google", "provisioned"))
	assert.Equal(t, before+1, after)
}

func TestObserveAttempt(t *testing.T) {
	before := testutil.ToFloat64(metrics.AttemptsRecorded.WithLabelValues("true"))
	metrics.ObserveAttempt(true)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.AttemptsRecorded.WithLabelValues("true")))
}
