package monitoring

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitscopic/roi-calculator/internal/pipeline"
)

// counter reads a counter value from the registry by name and labels.
func counter(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue next
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestCollector_OnTransition(t *testing.T) {
	t.Parallel()

	c := NewCollector()
	c.OnTransition(pipeline.Transition{From: pipeline.StateIdle, To: pipeline.StateComputing, Elapsed: time.Millisecond})
	c.OnTransition(pipeline.Transition{From: pipeline.StateComputing, To: pipeline.StateCompiled, Elapsed: 5 * time.Millisecond})
	c.OnTransition(pipeline.Transition{From: pipeline.StateCompiled, To: pipeline.StateExported})
	c.OnTransition(pipeline.Transition{From: pipeline.StateIdle, To: pipeline.StateComputing})
	c.OnTransition(pipeline.Transition{From: pipeline.StateComputing, To: pipeline.StateFailed, Reason: "boom"})

	reg := c.Registry()
	assert.InDelta(t, 2, counter(t, reg, "roi_generation_transitions_total", map[string]string{"to": "computing"}), 0)
	assert.InDelta(t, 1, counter(t, reg, "roi_generation_transitions_total", map[string]string{"to": "failed"}), 0)

	snap := c.Snapshot()
	assert.Equal(t, 2, snap.Started)
	assert.Equal(t, 1, snap.Exported)
	assert.Equal(t, 1, snap.Failed)
	assert.InDelta(t, 0.5, snap.FailRate, 1e-9)
}

func TestCollector_RecordExportAndRequest(t *testing.T) {
	t.Parallel()

	c := NewCollector()
	c.RecordExport("xlsx", nil)
	c.RecordExport("xlsx", errors.New("disk full"))
	c.RecordRequest("/api/v1/calculate", "200")

	reg := c.Registry()
	assert.InDelta(t, 1, counter(t, reg, "roi_exports_total", map[string]string{"format": "xlsx", "outcome": "ok"}), 0)
	assert.InDelta(t, 1, counter(t, reg, "roi_exports_total", map[string]string{"format": "xlsx", "outcome": "error"}), 0)
	assert.InDelta(t, 1, counter(t, reg, "roi_http_requests_total", map[string]string{"route": "/api/v1/calculate", "code": "200"}), 0)
}

func TestAlerter_Evaluate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		threshold float64
		snap      *MetricsSnapshot
		want      int
	}{
		{"disabled", 0, &MetricsSnapshot{Compiled: 1, Failed: 9, FailRate: 0.9}, 0},
		{"too few samples", 0.1, &MetricsSnapshot{Compiled: 1, Failed: 2, FailRate: 0.66}, 0},
		{"below threshold", 0.5, &MetricsSnapshot{Compiled: 8, Failed: 2, FailRate: 0.2}, 0},
		{"breached", 0.1, &MetricsSnapshot{Compiled: 6, Failed: 4, FailRate: 0.4}, 1},
		{"nil snapshot", 0.1, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			alerts := NewAlerter(tt.threshold).Evaluate(tt.snap)
			require.Len(t, alerts, tt.want)
			if tt.want > 0 {
				assert.Equal(t, AlertGenerationFailureRate, alerts[0].Type)
				assert.Contains(t, alerts[0].Message, "40.0%")
			}
		})
	}
}
