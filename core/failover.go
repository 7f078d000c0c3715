package core

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/signalsfoundry/handover-orchestrator/model"
	"github.com/signalsfoundry/handover-orchestrator/timectrl"
)

// DetectorConfig tunes the failover trigger predicates. The small
// random trigger chance models unmodeled real-world causes; it is a
// tunable, not a measured failure rate.
type DetectorConfig struct {
	// Signal crossing: current below critical AND previous above healthy.
	SignalCriticalDBm float64
	SignalHealthyDBm  float64

	// SignalSevereMarginDB widens the critical floor for the high
	// severity grade of a signal_degradation event.
	SignalSevereMarginDB float64

	// Latency crossing: current above high AND previous below low.
	LatencyHighMs float64
	LatencyLowMs  float64

	// PacketLossCapPct is the hard packet loss cap.
	PacketLossCapPct float64

	// RandomTriggerChance is evaluated last, per link per pass.
	RandomTriggerChance float64
}

// DefaultDetectorConfig returns the observed defaults.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		SignalCriticalDBm:    -85,
		SignalHealthyDBm:     -75,
		SignalSevereMarginDB: 5,
		LatencyHighMs:        200,
		LatencyLowMs:         100,
		PacketLossCapPct:     10,
		RandomTriggerChance:  0.05,
	}
}

// FailoverDetector compares successive registry snapshots and emits at
// most one event per link per pass. A link with no previous
// counterpart never triggers: first observation is not evidence of a
// change.
type FailoverDetector struct {
	cfg   DetectorConfig
	rng   *rand.Rand
	clock timectrl.Clock
}

// NewFailoverDetector constructs a detector over the given random
// stream and clock.
func NewFailoverDetector(cfg DetectorConfig, rng *rand.Rand, clock timectrl.Clock) *FailoverDetector {
	if clock == nil {
		clock = timectrl.SystemClock{}
	}
	return &FailoverDetector{cfg: cfg, rng: rng, clock: clock}
}

// Detect evaluates the ordered trigger predicates against every
// (current, previous) link pair, first match wins. Output order is
// link-iteration order of the current snapshot.
func (d *FailoverDetector) Detect(current, previous []*model.Link) []*model.FailoverEvent {
	prevByID := make(map[string]*model.Link, len(previous))
	for _, l := range previous {
		prevByID[l.ID] = l
	}

	var events []*model.FailoverEvent
	for _, cur := range current {
		prev, ok := prevByID[cur.ID]
		if !ok {
			continue
		}
		trigger, reason, matched := d.evaluate(cur, prev)
		if !matched {
			continue
		}
		events = append(events, d.newEvent(cur, trigger, reason))
	}
	return events
}

// evaluate runs the trigger predicates in their fixed order.
func (d *FailoverDetector) evaluate(cur, prev *model.Link) (model.TriggerReason, string, bool) {
	cq, pq := cur.Quality, prev.Quality

	if cq.SignalStrengthDBm < d.cfg.SignalCriticalDBm && pq.SignalStrengthDBm > d.cfg.SignalHealthyDBm {
		return model.TriggerSignalDegradation,
			fmt.Sprintf("signal dropped %.1f -> %.1f dBm", pq.SignalStrengthDBm, cq.SignalStrengthDBm), true
	}
	if cq.LatencyMs > d.cfg.LatencyHighMs && pq.LatencyMs < d.cfg.LatencyLowMs {
		return model.TriggerInterference,
			fmt.Sprintf("latency spiked %.0f -> %.0f ms", pq.LatencyMs, cq.LatencyMs), true
	}
	if cq.PacketLossPct > d.cfg.PacketLossCapPct {
		return model.TriggerHighPacketLoss,
			fmt.Sprintf("packet loss %.1f%% above cap", cq.PacketLossPct), true
	}
	if prev.Status == model.StatusActive && cur.Status == model.StatusFailed {
		return model.TriggerConnectionLoss, "link transitioned active -> failed", true
	}
	if d.rng.Float64() < d.cfg.RandomTriggerChance {
		return model.TriggerInterference, "unattributed impairment", true
	}
	return "", "", false
}

func (d *FailoverDetector) newEvent(link *model.Link, trigger model.TriggerReason, reason string) *model.FailoverEvent {
	severity := ClassifySeverity(d.cfg, trigger, link.Quality)
	return &model.FailoverEvent{
		ID:                uuid.NewString(),
		LinkID:            link.ID,
		NodeID:            link.NodeID,
		Trigger:           trigger,
		Severity:          severity,
		FromClass:         link.Class,
		ToClass:           link.Class.BackupClass(),
		Timestamp:         d.clock.Now(),
		EstimatedDuration: estimatedDuration(severity),
		Reason:            reason,
	}
}

// ClassifySeverity maps a (trigger, quality) pair onto exactly one
// severity. The function is total and deterministic given its inputs.
func ClassifySeverity(cfg DetectorConfig, trigger model.TriggerReason, q model.QualityVector) model.Severity {
	switch trigger {
	case model.TriggerConnectionLoss:
		return model.SeverityCritical
	case model.TriggerSignalDegradation:
		if q.SignalStrengthDBm <= cfg.SignalCriticalDBm-cfg.SignalSevereMarginDB {
			return model.SeverityHigh
		}
		return model.SeverityMedium
	case model.TriggerHighPacketLoss:
		if q.PacketLossPct > 2*cfg.PacketLossCapPct {
			return model.SeverityHigh
		}
		return model.SeverityMedium
	case model.TriggerInterference:
		return model.SeverityMedium
	default:
		return model.SeverityLow
	}
}

func estimatedDuration(s model.Severity) time.Duration {
	switch s {
	case model.SeverityCritical:
		return 5 * time.Second
	case model.SeverityHigh:
		return 3 * time.Second
	case model.SeverityMedium:
		return 2 * time.Second
	default:
		return time.Second
	}
}
