package auth

import (
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetricsRecordsAttempts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewPrometheusMetrics("", reg)
	require.NoError(t, err)

	m.RecordAttempt("rejected", "logon")
	m.RecordAttempt("rejected", "logon")
	m.RecordAttempt("authenticated_new", "")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Attempts().WithLabelValues("rejected", "logon")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Attempts().WithLabelValues("authenticated_new", "")))

	expected := `
# HELP fogbugz_auth_attempts_total Authentication attempts handled by the FogBugz bridge, by outcome and reject reason.
# TYPE fogbugz_auth_attempts_total counter
fogbugz_auth_attempts_total{outcome="authenticated_new",reason=""} 1
fogbugz_auth_attempts_total{outcome="rejected",reason="logon"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "fogbugz_auth_attempts_total"))
}

func TestPrometheusMetricsObservesRemoteCalls(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewPrometheusMetrics("", reg)
	require.NoError(t, err)

	m.ObserveRemoteCall("logon", 20*time.Millisecond, nil)
	m.ObserveRemoteCall("logon", 30*time.Millisecond, stderrors.New("refused"))

	count, err := testutil.GatherAndCount(reg, "fogbugz_auth_remote_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestPrometheusMetricsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheusMetrics("", reg)
	require.NoError(t, err)

	_, err = NewPrometheusMetrics("", reg)
	assert.Error(t, err)
}

func TestNormalizeMetrics(t *testing.T) {
	m := NormalizeMetrics(nil)
	require.NotNil(t, m)
	assert.NotPanics(t, func() {
		m.RecordAttempt("rejected", "store")
		m.ObserveRemoteCall("open", time.Millisecond, nil)
	})
}
