package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistersMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.MovementsRecorded.WithLabelValues("DEPOSIT").Inc()
	m.MovementsRejected.WithLabelValues("insufficient_funds").Inc()
	m.BalanceCents.Set(2000)

	if got := testutil.ToFloat64(m.MovementsRecorded.WithLabelValues("DEPOSIT")); got != 1 {
		t.Fatalf("expected 1 recorded movement, got %f", got)
	}

	if got := testutil.ToFloat64(m.BalanceCents); got != 2000 {
		t.Fatalf("expected balance gauge 2000, got %f", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("unexpected gather error: %v", err)
	}
	if len(families) != 3 {
		t.Fatalf("expected 3 metric families, got %d", len(families))
	}
}

func TestNewWithSeparateRegistries(t *testing.T) {
	// Two instances must be registrable on distinct registries.
	a := New(prometheus.NewRegistry())
	b := New(prometheus.NewRegistry())

	a.BalanceCents.Set(1)
	b.BalanceCents.Set(2)

	if testutil.ToFloat64(a.BalanceCents) == testutil.ToFloat64(b.BalanceCents) {
		t.Fatal("expected independent gauges")
	}
}
