package prom

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return m.GetGauge().GetValue()
}

func TestAdapter_CountersAndGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := New(reg, "test", "cache", nil)

	a.Hit()
	a.Hit()
	a.Miss()
	a.Strengthen()
	a.Weaken()
	a.Reclaim()
	a.ReportSizes(3, 7)

	if got := counterValue(t, a.hits); got != 2 {
		t.Fatalf("hits = %v, want 2", got)
	}
	if got := counterValue(t, a.misses); got != 1 {
		t.Fatalf("misses = %v, want 1", got)
	}
	if got := counterValue(t, a.strengthens); got != 1 {
		t.Fatalf("strengthens = %v, want 1", got)
	}
	if got := counterValue(t, a.weakens); got != 1 {
		t.Fatalf("weakens = %v, want 1", got)
	}
	if got := counterValue(t, a.reclaims); got != 1 {
		t.Fatalf("reclaims = %v, want 1", got)
	}
	if got := gaugeValue(t, a.strongSize); got != 3 {
		t.Fatalf("strongSize = %v, want 3", got)
	}
	if got := gaugeValue(t, a.weakSize); got != 7 {
		t.Fatalf("weakSize = %v, want 7", got)
	}
}
