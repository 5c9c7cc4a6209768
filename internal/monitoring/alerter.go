package monitoring

import (
	"fmt"
	"time"
)

// AlertType identifies the kind of alert.
type AlertType string

// AlertGenerationFailureRate fires when too many generations fail.
const AlertGenerationFailureRate AlertType = "generation_failure_rate"

// minFinished is the sample size below which the failure rate is ignored.
const minFinished = 5

// Alert represents a single alert.
type Alert struct {
	Type      AlertType      `json:"type"`
	Severity  string         `json:"severity"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Alerter evaluates snapshots against thresholds.
type Alerter struct {
	failureRateThreshold float64
}

// NewAlerter creates an Alerter. A threshold of zero disables alerts.
func NewAlerter(failureRateThreshold float64) *Alerter {
	return &Alerter{failureRateThreshold: failureRateThreshold}
}

// Evaluate checks the snapshot against thresholds and returns any alerts.
func (a *Alerter) Evaluate(snap *MetricsSnapshot) []Alert {
	if a.failureRateThreshold <= 0 || snap == nil {
		return nil
	}
	finished := snap.Compiled + snap.Failed
	if finished < minFinished || snap.FailRate <= a.failureRateThreshold {
		return nil
	}
	return []Alert{{
		Type:     AlertGenerationFailureRate,
		Severity: "high",
		Message: fmt.Sprintf("Report generation failure rate is %.1f%% (threshold: %.1f%%)",
			snap.FailRate*100, a.failureRateThreshold*100),
		Details: map[string]any{
			"failed":   snap.Failed,
			"finished": finished,
		},
		Timestamp: time.Now().UTC(),
	}}
}
