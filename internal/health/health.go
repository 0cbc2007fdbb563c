// Package health watches the store pair: liveness and latency of each store,
// and the count gap between them. Findings become alerts with a fixed
// category-to-severity mapping and feed a single overall health verdict.
package health

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/inkatlas/datakit/internal/domain"
	"github.com/inkatlas/datakit/internal/search"
	"github.com/inkatlas/datakit/internal/store"
)

// Category classifies what went wrong.
type Category string

const (
	CategoryError       Category = "error"
	CategoryConsistency Category = "consistency"
	CategoryPerformance Category = "performance"
	CategoryWarning     Category = "warning"
)

// Severity of an alert.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// severityFor is the fixed category-to-severity mapping. Store errors and
// consistency gaps are always high; slowness is medium; the rest is noise.
var severityFor = map[Category]Severity{
	CategoryError:       SeverityHigh,
	CategoryConsistency: SeverityHigh,
	CategoryPerformance: SeverityMedium,
	CategoryWarning:     SeverityLow,
}

// Alert is one finding from a health check pass. The ID is unique per raised
// alert so sinks can de-duplicate across deliveries.
type Alert struct {
	ID        string    `json:"id"`
	Category  Category  `json:"category"`
	Severity  Severity  `json:"severity"`
	Source    string    `json:"source"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Status is the verdict for one store.
type Status struct {
	Healthy bool          `json:"healthy"`
	Latency time.Duration `json:"latency"`
	Count   int           `json:"count"`
	Err     string        `json:"error,omitempty"`
}

// Overall is the single-word health verdict, ordered worst first.
type Overall string

const (
	OverallCritical Overall = "critical"
	OverallDegraded Overall = "degraded"
	OverallWarning  Overall = "warning"
	OverallHealthy  Overall = "healthy"
)

// Report is one full health check pass.
type Report struct {
	Primary     Status  `json:"primary"`
	Index       Status  `json:"index"`
	CountGap    int     `json:"count_gap"`
	Overall     Overall `json:"overall"`
	Alerts      []Alert `json:"alerts,omitempty"`
	CheckedAt   time.Time `json:"checked_at"`
}

// AlertSink receives alerts as they are raised.
type AlertSink interface {
	Notify(alert Alert)
}

// Options configures a monitor.
type Options struct {
	// LatencyThreshold marks a store check slow.
	LatencyThreshold time.Duration
	// InconsistencyThreshold is the count gap tolerated before a
	// consistency alert fires. Zero means any gap alerts.
	InconsistencyThreshold int
	// Interval between passes when running in the background.
	Interval time.Duration
}

// alertHistoryCap bounds the retained alert history; older alerts fall off.
const alertHistoryCap = 100

// Monitor runs health check passes over the store pair.
type Monitor struct {
	store  *store.Store
	index  *search.Index
	opts   Options
	sinks  []AlertSink
	logger *slog.Logger

	mu      sync.Mutex
	history []Alert
	stop    chan struct{}
	done    chan struct{}
}

// NewMonitor builds a monitor. Sinks are optional.
func NewMonitor(s *store.Store, idx *search.Index, opts Options, logger *slog.Logger, sinks ...AlertSink) *Monitor {
	if opts.LatencyThreshold <= 0 {
		opts.LatencyThreshold = time.Second
	}
	if opts.Interval <= 0 {
		opts.Interval = 30 * time.Second
	}
	return &Monitor{
		store:  s,
		index:  idx,
		opts:   opts,
		sinks:  sinks,
		logger: logger.With("component", "health"),
	}
}

// Check runs one full pass: primary store, search index, and the count gap
// between them. Every finding is raised as an alert and folded into the
// overall verdict.
func (m *Monitor) Check(ctx context.Context) *Report {
	report := &Report{CheckedAt: time.Now().UTC()}

	report.Primary = m.checkPrimary(ctx, report)
	report.Index = m.checkIndex(report)

	// The count gap is only meaningful when both sides answered.
	if report.Primary.Err == "" && report.Index.Err == "" {
		gap := report.Primary.Count - report.Index.Count
		if gap < 0 {
			gap = -gap
		}
		report.CountGap = gap
		if gap > m.opts.InconsistencyThreshold {
			m.raise(report, Alert{
				Category: CategoryConsistency,
				Source:   "reconciliation",
				Message:  fmt.Sprintf("store counts diverge by %d (primary %d, index %d)", gap, report.Primary.Count, report.Index.Count),
			})
		}
	}

	report.Overall = overall(report)
	observeReport(report)
	return report
}

func (m *Monitor) checkPrimary(ctx context.Context, report *Report) Status {
	start := time.Now()
	count, err := m.store.CountKind(ctx, domain.KindArtist)
	status := Status{Latency: time.Since(start), Count: count}

	if err != nil {
		status.Err = err.Error()
		m.raise(report, Alert{
			Category: CategoryError,
			Source:   "primary",
			Message:  "primary store check failed: " + err.Error(),
		})
		return status
	}

	status.Healthy = true
	if status.Latency > m.opts.LatencyThreshold {
		m.raise(report, Alert{
			Category: CategoryPerformance,
			Source:   "primary",
			Message:  fmt.Sprintf("primary store check took %s (threshold %s)", status.Latency, m.opts.LatencyThreshold),
		})
	}
	return status
}

func (m *Monitor) checkIndex(report *Report) Status {
	start := time.Now()
	count, err := m.index.Count()
	status := Status{Latency: time.Since(start), Count: int(count)}

	if err != nil {
		status.Err = err.Error()
		m.raise(report, Alert{
			Category: CategoryError,
			Source:   "index",
			Message:  "search index check failed: " + err.Error(),
		})
		return status
	}

	status.Healthy = true
	if status.Latency > m.opts.LatencyThreshold {
		m.raise(report, Alert{
			Category: CategoryPerformance,
			Source:   "index",
			Message:  fmt.Sprintf("search index check took %s (threshold %s)", status.Latency, m.opts.LatencyThreshold),
		})
	}
	return status
}

// raise stamps, records, and fans out one alert.
func (m *Monitor) raise(report *Report, alert Alert) {
	alert.ID = uuid.NewString()
	alert.Severity = severityFor[alert.Category]
	alert.CreatedAt = time.Now().UTC()
	report.Alerts = append(report.Alerts, alert)

	m.mu.Lock()
	m.history = append(m.history, alert)
	if len(m.history) > alertHistoryCap {
		m.history = m.history[len(m.history)-alertHistoryCap:]
	}
	m.mu.Unlock()

	m.logger.Warn("health alert",
		"category", alert.Category,
		"severity", alert.Severity,
		"source", alert.Source,
		"message", alert.Message)
	for _, sink := range m.sinks {
		sink.Notify(alert)
	}
	observeAlert(alert)
}

// History returns the retained alerts, oldest first.
func (m *Monitor) History() []Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Alert, len(m.history))
	copy(out, m.history)
	return out
}

// overall folds a report's findings into one verdict, worst condition first:
// a store error beats inconsistency beats latency beats healthy.
func overall(r *Report) Overall {
	if r.Primary.Err != "" || r.Index.Err != "" {
		return OverallCritical
	}
	for _, alert := range r.Alerts {
		if alert.Category == CategoryConsistency {
			return OverallDegraded
		}
	}
	for _, alert := range r.Alerts {
		if alert.Category == CategoryPerformance {
			return OverallWarning
		}
	}
	return OverallHealthy
}

// Start runs checks on the configured interval until Stop is called.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	if m.stop != nil {
		m.mu.Unlock()
		return
	}
	m.stop = make(chan struct{})
	m.done = make(chan struct{})
	stop, done := m.stop, m.done
	m.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(m.opts.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case <-ticker.C:
				m.Check(ctx)
			}
		}
	}()
}

// Stop halts the background loop and waits for it to exit.
func (m *Monitor) Stop() {
	m.mu.Lock()
	stop, done := m.stop, m.done
	m.stop, m.done = nil, nil
	m.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}
