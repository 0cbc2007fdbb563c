package health

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkatlas/datakit/internal/domain"
	"github.com/inkatlas/datakit/internal/logger"
	"github.com/inkatlas/datakit/internal/search"
	"github.com/inkatlas/datakit/internal/store"
)

func newTestPair(t *testing.T) (*store.Store, *search.Index) {
	t.Helper()
	s, err := store.NewInMemory(logger.Discard().Logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	idx, err := search.Open(search.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return s, idx
}

func putArtists(t *testing.T, s *store.Store, n int) {
	t.Helper()
	for i := range n {
		a := &domain.Artist{
			Record: domain.Record{ID: fmt.Sprintf("artist-%04d", i+1)},
			Name:   "Test",
			Handle: "test",
			Styles: []string{"blackwork"},
		}
		require.NoError(t, s.Artists.Upsert(context.Background(), a.ID, a))
	}
}

func indexArtists(t *testing.T, idx *search.Index, n int) {
	t.Helper()
	for i := range n {
		require.NoError(t, idx.IndexArtist(&search.ArtistDocument{
			ID:   fmt.Sprintf("artist-%04d", i+1),
			Name: "Test",
		}))
	}
}

func TestSeverityMapping(t *testing.T) {
	assert.Equal(t, SeverityHigh, severityFor[CategoryError])
	assert.Equal(t, SeverityHigh, severityFor[CategoryConsistency])
	assert.Equal(t, SeverityMedium, severityFor[CategoryPerformance])
	assert.Equal(t, SeverityLow, severityFor[CategoryWarning])
}

func TestHealthyPair(t *testing.T) {
	s, idx := newTestPair(t)
	putArtists(t, s, 5)
	indexArtists(t, idx, 5)

	m := NewMonitor(s, idx, Options{}, logger.Discard().Logger)
	report := m.Check(context.Background())

	assert.Equal(t, OverallHealthy, report.Overall)
	assert.True(t, report.Primary.Healthy)
	assert.True(t, report.Index.Healthy)
	assert.Zero(t, report.CountGap)
	assert.Empty(t, report.Alerts)
}

func TestCountGapRaisesConsistencyAlert(t *testing.T) {
	s, idx := newTestPair(t)
	putArtists(t, s, 8)
	indexArtists(t, idx, 5)

	m := NewMonitor(s, idx, Options{}, logger.Discard().Logger)
	report := m.Check(context.Background())

	assert.Equal(t, OverallDegraded, report.Overall)
	assert.Equal(t, 3, report.CountGap)
	require.Len(t, report.Alerts, 1)
	assert.Equal(t, CategoryConsistency, report.Alerts[0].Category)
	assert.Equal(t, SeverityHigh, report.Alerts[0].Severity)
	assert.NotEmpty(t, report.Alerts[0].ID)
}

func TestCountGapWithinThresholdIsQuiet(t *testing.T) {
	s, idx := newTestPair(t)
	putArtists(t, s, 8)
	indexArtists(t, idx, 6)

	m := NewMonitor(s, idx, Options{InconsistencyThreshold: 2}, logger.Discard().Logger)
	report := m.Check(context.Background())

	assert.Equal(t, OverallHealthy, report.Overall)
	assert.Empty(t, report.Alerts)
}

func TestSlowCheckRaisesPerformanceAlert(t *testing.T) {
	s, idx := newTestPair(t)
	putArtists(t, s, 3)
	indexArtists(t, idx, 3)

	// A nanosecond threshold makes any real check slow.
	m := NewMonitor(s, idx, Options{LatencyThreshold: time.Nanosecond}, logger.Discard().Logger)
	report := m.Check(context.Background())

	assert.Equal(t, OverallWarning, report.Overall)
	require.NotEmpty(t, report.Alerts)
	for _, alert := range report.Alerts {
		assert.Equal(t, CategoryPerformance, alert.Category)
		assert.Equal(t, SeverityMedium, alert.Severity)
	}
}

func TestConsistencyOutranksPerformance(t *testing.T) {
	s, idx := newTestPair(t)
	putArtists(t, s, 5)
	// Empty index: a count gap. Nanosecond threshold: slow checks too.
	m := NewMonitor(s, idx, Options{LatencyThreshold: time.Nanosecond}, logger.Discard().Logger)

	report := m.Check(context.Background())
	assert.Equal(t, OverallDegraded, report.Overall)
}

func TestAlertHistoryIsCapped(t *testing.T) {
	s, idx := newTestPair(t)
	m := NewMonitor(s, idx, Options{}, logger.Discard().Logger)

	report := &Report{}
	for i := range 250 {
		m.raise(report, Alert{
			Category: CategoryWarning,
			Source:   "test",
			Message:  fmt.Sprintf("alert %d", i),
		})
	}

	history := m.History()
	assert.Len(t, history, alertHistoryCap)
	// Oldest entries fell off; the newest survives at the tail.
	assert.Equal(t, "alert 249", history[len(history)-1].Message)
	assert.Equal(t, "alert 150", history[0].Message)
}

type captureSink struct {
	alerts []Alert
}

func (c *captureSink) Notify(alert Alert) { c.alerts = append(c.alerts, alert) }

func TestSinksReceiveAlerts(t *testing.T) {
	s, idx := newTestPair(t)
	putArtists(t, s, 4)

	sink := &captureSink{}
	m := NewMonitor(s, idx, Options{}, logger.Discard().Logger, sink)

	m.Check(context.Background())
	require.Len(t, sink.alerts, 1)
	assert.Equal(t, CategoryConsistency, sink.alerts[0].Category)
}

func TestStartAndStop(t *testing.T) {
	s, idx := newTestPair(t)
	m := NewMonitor(s, idx, Options{Interval: 5 * time.Millisecond}, logger.Discard().Logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m.Start(ctx)
	time.Sleep(20 * time.Millisecond)
	m.Stop()

	// Stop is idempotent.
	m.Stop()
}

func TestCheckUpdatesGatherableMetrics(t *testing.T) {
	s, idx := newTestPair(t)
	putArtists(t, s, 2)

	m := NewMonitor(s, idx, Options{}, logger.Discard().Logger)
	m.Check(context.Background())

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["datakit_health_overall_state"])
	assert.True(t, names["datakit_health_check_latency_seconds"])
	assert.True(t, names["datakit_health_alerts_total"])
}
