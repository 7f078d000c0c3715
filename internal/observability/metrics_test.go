package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/signalsfoundry/handover-orchestrator/model"
)

// TestCollectorDoubleRegistration: constructing a second collector
// against the same registry reuses the existing collectors instead of
// failing.
func TestCollectorDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := NewLinkCollector(reg)
	if err != nil {
		t.Fatalf("first NewLinkCollector: %v", err)
	}
	second, err := NewLinkCollector(reg)
	if err != nil {
		t.Fatalf("second NewLinkCollector: %v", err)
	}

	first.SetLinkCounts(4, 3)
	if got := testutil.ToFloat64(second.LinksTotal); got != 4 {
		t.Fatalf("expected shared gauge value 4, got %v", got)
	}
}

func TestLinkCountGauges(t *testing.T) {
	c, err := NewLinkCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewLinkCollector: %v", err)
	}

	c.SetLinkCounts(6, 5)
	if got := testutil.ToFloat64(c.LinksTotal); got != 6 {
		t.Fatalf("linkmon_links = %v, want 6", got)
	}
	if got := testutil.ToFloat64(c.LinksActive); got != 5 {
		t.Fatalf("linkmon_links_active = %v, want 5", got)
	}
}

func TestSessionPhaseGauges(t *testing.T) {
	c, err := NewLinkCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewLinkCollector: %v", err)
	}

	c.SetSessionPhases([]*model.HandoverSession{
		{NodeID: "uav-1", Phase: model.PhaseStable},
		{NodeID: "uav-2", Phase: model.PhaseStable},
		{NodeID: "uav-3", Phase: model.PhaseSwitching},
	})

	if got := testutil.ToFloat64(c.HandoverSessions); got != 3 {
		t.Fatalf("linkmon_handover_sessions = %v, want 3", got)
	}
	if got := testutil.ToFloat64(c.SessionsByPhase.WithLabelValues("stable")); got != 2 {
		t.Fatalf("stable sessions = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.SessionsByPhase.WithLabelValues("switching")); got != 1 {
		t.Fatalf("switching sessions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.SessionsByPhase.WithLabelValues("preparing")); got != 0 {
		t.Fatalf("preparing sessions = %v, want 0", got)
	}
}

func TestFailoverCounters(t *testing.T) {
	c, err := NewLinkCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewLinkCollector: %v", err)
	}

	event := &model.FailoverEvent{Trigger: model.TriggerSignalDegradation, Severity: model.SeverityHigh}
	c.CountFailover(event, &model.RecoveryAction{Class: model.ActionReconfiguration, Succeeded: true})
	c.CountFailover(event, &model.RecoveryAction{Class: model.ActionReconfiguration, Succeeded: false})

	if got := testutil.ToFloat64(c.FailoverEvents.WithLabelValues("signal_degradation", "high")); got != 2 {
		t.Fatalf("failover events = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.RecoveryActions.WithLabelValues("reconfiguration", "succeeded")); got != 1 {
		t.Fatalf("succeeded actions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.RecoveryActions.WithLabelValues("reconfiguration", "failed")); got != 1 {
		t.Fatalf("failed actions = %v, want 1", got)
	}
}

// TestNilCollectorSafe: a nil collector is a valid no-op sink, so the
// monitoring loops never need nil checks.
func TestNilCollectorSafe(t *testing.T) {
	var c *LinkCollector
	c.SetLinkCounts(1, 1)
	c.SetSessionPhases(nil)
	c.SetTopologyCounts(1, 1)
	c.CountFailover(&model.FailoverEvent{}, &model.RecoveryAction{})
	c.ObserveTick("registry", time.Millisecond)
}
