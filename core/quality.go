package core

import (
	"math/rand"

	"github.com/signalsfoundry/handover-orchestrator/model"
)

// QualitySource produces a quality sample for a link class. The
// synthetic implementation below stands in for a real physical-layer
// measurement feed; a live telemetry source can be substituted without
// touching the registry, state machine, or detector.
type QualitySource interface {
	Compute(class model.LinkClass) model.QualityVector
}

// qualityProfile is the per-class base around which samples jitter.
type qualityProfile struct {
	signalDBm      float64
	latencyMs      float64
	bandwidthMbps  float64
	reliabilityPct float64
	packetLossPct  float64

	// jitter half-widths
	signalJitter    float64
	latencyJitter   float64
	bandwidthJitter float64
	relJitter       float64
	lossJitter      float64
}

var qualityProfiles = map[model.LinkClass]qualityProfile{
	model.ClassSatelliteNTN: {
		signalDBm: -65, latencyMs: 25, bandwidthMbps: 100, reliabilityPct: 95, packetLossPct: 1.5,
		signalJitter: 10, latencyJitter: 15, bandwidthJitter: 40, relJitter: 4, lossJitter: 2,
	},
	model.ClassMeshBackup: {
		signalDBm: -75, latencyMs: 45, bandwidthMbps: 40, reliabilityPct: 88, packetLossPct: 4,
		signalJitter: 12, latencyJitter: 25, bandwidthJitter: 20, relJitter: 6, lossJitter: 3,
	},
	model.ClassDirect: {
		signalDBm: -60, latencyMs: 8, bandwidthMbps: 150, reliabilityPct: 92, packetLossPct: 2,
		signalJitter: 8, latencyJitter: 5, bandwidthJitter: 50, relJitter: 5, lossJitter: 2,
	},
	model.ClassBackup: {
		signalDBm: -85, latencyMs: 80, bandwidthMbps: 15, reliabilityPct: 80, packetLossPct: 6,
		signalJitter: 10, latencyJitter: 30, bandwidthJitter: 10, relJitter: 8, lossJitter: 4,
	},
}

// SyntheticQualitySource generates structured pseudo-random quality
// vectors. It is a generator, not a measurement: Compute always
// succeeds and has no side effects beyond consuming randomness.
type SyntheticQualitySource struct {
	rng *rand.Rand
}

// NewSyntheticQualitySource constructs a source over the given random
// stream. Callers seed the stream; nothing here is seeded implicitly.
func NewSyntheticQualitySource(rng *rand.Rand) *SyntheticQualitySource {
	return &SyntheticQualitySource{rng: rng}
}

// Compute returns the class base profile perturbed by bounded jitter.
// Packet loss is clamped to >= 0 and reliability to [0, 100].
func (s *SyntheticQualitySource) Compute(class model.LinkClass) model.QualityVector {
	p, ok := qualityProfiles[class]
	if !ok {
		p = qualityProfiles[model.ClassBackup]
	}

	q := model.QualityVector{
		SignalStrengthDBm: p.signalDBm + s.jitter(p.signalJitter),
		LatencyMs:         p.latencyMs + s.jitter(p.latencyJitter),
		BandwidthMbps:     p.bandwidthMbps + s.jitter(p.bandwidthJitter),
		ReliabilityPct:    p.reliabilityPct + s.jitter(p.relJitter),
		PacketLossPct:     p.packetLossPct + s.jitter(p.lossJitter),
	}

	if q.PacketLossPct < 0 {
		q.PacketLossPct = 0
	}
	if q.LatencyMs < 1 {
		q.LatencyMs = 1
	}
	if q.BandwidthMbps < 0 {
		q.BandwidthMbps = 0
	}
	if q.ReliabilityPct < 0 {
		q.ReliabilityPct = 0
	} else if q.ReliabilityPct > 100 {
		q.ReliabilityPct = 100
	}
	return q
}

// jitter returns a uniform sample in [-halfWidth, +halfWidth].
func (s *SyntheticQualitySource) jitter(halfWidth float64) float64 {
	return (s.rng.Float64()*2 - 1) * halfWidth
}
