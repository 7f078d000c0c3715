package core

import (
	"math/rand"
	"testing"
	"time"

	"github.com/signalsfoundry/handover-orchestrator/model"
	"github.com/signalsfoundry/handover-orchestrator/timectrl"
)

// deterministicDetector disables the random trigger so only the
// threshold predicates fire.
func deterministicDetector() *FailoverDetector {
	cfg := DefaultDetectorConfig()
	cfg.RandomTriggerChance = 0
	clock := timectrl.NewManualClock(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))
	return NewFailoverDetector(cfg, rand.New(rand.NewSource(1)), clock)
}

func linkWith(id string, status model.LinkStatus, q model.QualityVector) *model.Link {
	return &model.Link{
		ID: id, NodeID: "uav-1", AccessPointID: "sat-a",
		Class: model.ClassSatelliteNTN, Status: status, Quality: q,
	}
}

func healthyQuality() model.QualityVector {
	return model.QualityVector{
		SignalStrengthDBm: -70, LatencyMs: 25, BandwidthMbps: 100,
		ReliabilityPct: 95, PacketLossPct: 1,
	}
}

// TestSignalCrossingEmitsSingleHighEvent: a drop from -70 to -90 dBm
// crosses both rails at once, and because the degraded sample sits at
// or below the widened critical floor the event grades high.
func TestSignalCrossingEmitsSingleHighEvent(t *testing.T) {
	d := deterministicDetector()

	prev := linkWith("l1", model.StatusActive, healthyQuality())
	curQ := healthyQuality()
	curQ.SignalStrengthDBm = -90
	cur := linkWith("l1", model.StatusActive, curQ)

	events := d.Detect([]*model.Link{cur}, []*model.Link{prev})
	if len(events) != 1 {
		t.Fatalf("expected exactly one event, got %d", len(events))
	}
	ev := events[0]
	if ev.Trigger != model.TriggerSignalDegradation {
		t.Fatalf("expected signal_degradation, got %v", ev.Trigger)
	}
	if ev.Severity != model.SeverityHigh {
		t.Fatalf("expected high severity at -90 dBm, got %v", ev.Severity)
	}
	if ev.FromClass != model.ClassSatelliteNTN || ev.ToClass != model.ClassMeshBackup {
		t.Fatalf("expected satellite -> mesh backup transition, got %v -> %v", ev.FromClass, ev.ToClass)
	}
}

// TestSignalCrossingRequiresBothRails: a sample already below healthy
// before the drop does not fire the crossing predicate.
func TestSignalCrossingRequiresBothRails(t *testing.T) {
	d := deterministicDetector()

	prevQ := healthyQuality()
	prevQ.SignalStrengthDBm = -80 // below healthy already
	curQ := healthyQuality()
	curQ.SignalStrengthDBm = -90

	events := d.Detect(
		[]*model.Link{linkWith("l1", model.StatusActive, curQ)},
		[]*model.Link{linkWith("l1", model.StatusActive, prevQ)},
	)
	if len(events) != 0 {
		t.Fatalf("expected no event without a full rail crossing, got %d", len(events))
	}
}

// TestFirstObservationNeverTriggers: a link with no previous snapshot
// is skipped outright, no matter how degraded it looks.
func TestFirstObservationNeverTriggers(t *testing.T) {
	d := deterministicDetector()

	q := healthyQuality()
	q.SignalStrengthDBm = -120
	q.PacketLossPct = 50
	cur := linkWith("l-new", model.StatusFailed, q)

	events := d.Detect([]*model.Link{cur}, nil)
	if len(events) != 0 {
		t.Fatalf("expected no event on first observation, got %d", len(events))
	}
}

// TestLatencySpikeTriggersInterference covers the latency crossing.
func TestLatencySpikeTriggersInterference(t *testing.T) {
	d := deterministicDetector()

	curQ := healthyQuality()
	curQ.LatencyMs = 250
	events := d.Detect(
		[]*model.Link{linkWith("l1", model.StatusActive, curQ)},
		[]*model.Link{linkWith("l1", model.StatusActive, healthyQuality())},
	)
	if len(events) != 1 || events[0].Trigger != model.TriggerInterference {
		t.Fatalf("expected one interference event, got %+v", events)
	}
	if events[0].Severity != model.SeverityMedium {
		t.Fatalf("expected medium severity for interference, got %v", events[0].Severity)
	}
}

// TestPacketLossAboveCap covers the loss predicate and its severity
// split at twice the cap.
func TestPacketLossAboveCap(t *testing.T) {
	d := deterministicDetector()

	moderate := healthyQuality()
	moderate.PacketLossPct = 15
	events := d.Detect(
		[]*model.Link{linkWith("l1", model.StatusActive, moderate)},
		[]*model.Link{linkWith("l1", model.StatusActive, healthyQuality())},
	)
	if len(events) != 1 || events[0].Trigger != model.TriggerHighPacketLoss {
		t.Fatalf("expected one high_packet_loss event, got %+v", events)
	}
	if events[0].Severity != model.SeverityMedium {
		t.Fatalf("expected medium at 15%% loss, got %v", events[0].Severity)
	}

	extreme := healthyQuality()
	extreme.PacketLossPct = 25
	events = d.Detect(
		[]*model.Link{linkWith("l1", model.StatusActive, extreme)},
		[]*model.Link{linkWith("l1", model.StatusActive, healthyQuality())},
	)
	if len(events) != 1 || events[0].Severity != model.SeverityHigh {
		t.Fatalf("expected high at 25%% loss, got %+v", events)
	}
}

// TestConnectionLossIsCritical covers the active->failed transition.
func TestConnectionLossIsCritical(t *testing.T) {
	d := deterministicDetector()

	events := d.Detect(
		[]*model.Link{linkWith("l1", model.StatusFailed, healthyQuality())},
		[]*model.Link{linkWith("l1", model.StatusActive, healthyQuality())},
	)
	if len(events) != 1 || events[0].Trigger != model.TriggerConnectionLoss {
		t.Fatalf("expected one connection_loss event, got %+v", events)
	}
	if events[0].Severity != model.SeverityCritical {
		t.Fatalf("expected critical severity, got %v", events[0].Severity)
	}
	if events[0].EstimatedDuration != 5*time.Second {
		t.Fatalf("expected 5s estimate for critical, got %v", events[0].EstimatedDuration)
	}
}

// TestTriggerOrderFirstMatchWins: a sample violating every predicate at
// once reports only the first one in the fixed order.
func TestTriggerOrderFirstMatchWins(t *testing.T) {
	d := deterministicDetector()

	curQ := model.QualityVector{
		SignalStrengthDBm: -95, LatencyMs: 300, PacketLossPct: 40,
	}
	events := d.Detect(
		[]*model.Link{linkWith("l1", model.StatusFailed, curQ)},
		[]*model.Link{linkWith("l1", model.StatusActive, healthyQuality())},
	)
	if len(events) != 1 {
		t.Fatalf("expected exactly one event per link per pass, got %d", len(events))
	}
	if events[0].Trigger != model.TriggerSignalDegradation {
		t.Fatalf("expected signal_degradation to win, got %v", events[0].Trigger)
	}
}

// TestSeverityTotal: every trigger, including an unknown one, maps to
// exactly one severity.
func TestSeverityTotal(t *testing.T) {
	cfg := DefaultDetectorConfig()
	triggers := []model.TriggerReason{
		model.TriggerSignalDegradation,
		model.TriggerConnectionLoss,
		model.TriggerHighPacketLoss,
		model.TriggerInterference,
		model.TriggerReason("never-seen"),
	}
	for _, tr := range triggers {
		s := ClassifySeverity(cfg, tr, model.QualityVector{})
		switch s {
		case model.SeverityCritical, model.SeverityHigh, model.SeverityMedium, model.SeverityLow:
		default:
			t.Fatalf("trigger %q produced unknown severity %q", tr, s)
		}
	}
	if ClassifySeverity(cfg, model.TriggerReason("never-seen"), model.QualityVector{}) != model.SeverityLow {
		t.Fatal("unknown trigger should grade low")
	}
}
