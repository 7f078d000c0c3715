package core

import (
	"math/rand"
	"testing"

	"github.com/signalsfoundry/handover-orchestrator/model"
)

// TestQualityBoundsAndClamping verifies the generator stays inside its
// documented bounds across many samples for every link class.
func TestQualityBoundsAndClamping(t *testing.T) {
	src := NewSyntheticQualitySource(rand.New(rand.NewSource(42)))

	classes := []model.LinkClass{
		model.ClassSatelliteNTN,
		model.ClassMeshBackup,
		model.ClassDirect,
		model.ClassBackup,
	}
	for _, class := range classes {
		for i := 0; i < 1000; i++ {
			q := src.Compute(class)
			if q.PacketLossPct < 0 {
				t.Fatalf("%s: packet loss %v below zero", class, q.PacketLossPct)
			}
			if q.ReliabilityPct < 0 || q.ReliabilityPct > 100 {
				t.Fatalf("%s: reliability %v outside [0,100]", class, q.ReliabilityPct)
			}
			if q.LatencyMs < 1 {
				t.Fatalf("%s: latency %v below floor", class, q.LatencyMs)
			}
			if q.BandwidthMbps < 0 {
				t.Fatalf("%s: bandwidth %v negative", class, q.BandwidthMbps)
			}
		}
	}
}

// TestQualityPrimaryStrongerThanBackup checks the class profiles keep
// their intended ordering on average.
func TestQualityPrimaryStrongerThanBackup(t *testing.T) {
	src := NewSyntheticQualitySource(rand.New(rand.NewSource(7)))

	const n = 2000
	var primarySignal, backupSignal float64
	for i := 0; i < n; i++ {
		primarySignal += src.Compute(model.ClassSatelliteNTN).SignalStrengthDBm
		backupSignal += src.Compute(model.ClassMeshBackup).SignalStrengthDBm
	}
	if primarySignal/n <= backupSignal/n {
		t.Fatalf("mean primary signal %.1f not stronger than backup %.1f", primarySignal/n, backupSignal/n)
	}
}

// TestQualityDeterministicWithSeed verifies two sources with the same
// seed produce identical streams.
func TestQualityDeterministicWithSeed(t *testing.T) {
	a := NewSyntheticQualitySource(rand.New(rand.NewSource(99)))
	b := NewSyntheticQualitySource(rand.New(rand.NewSource(99)))

	for i := 0; i < 50; i++ {
		qa := a.Compute(model.ClassSatelliteNTN)
		qb := b.Compute(model.ClassSatelliteNTN)
		if qa != qb {
			t.Fatalf("sample %d diverged: %+v vs %+v", i, qa, qb)
		}
	}
}
