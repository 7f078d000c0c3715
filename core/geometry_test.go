package core

import (
	"math"
	"testing"

	"github.com/signalsfoundry/handover-orchestrator/model"
)

func TestDistanceTo(t *testing.T) {
	a := Vec3{X: 1, Y: 2, Z: 3}
	b := Vec3{X: 4, Y: 6, Z: 3}
	if got := a.DistanceTo(b); got != 5 {
		t.Fatalf("DistanceTo = %v, want 5", got)
	}
}

func TestPlanarDistanceIgnoresAltitude(t *testing.T) {
	a := Vec3{X: 0, Y: 0, Z: 0}
	b := Vec3{X: 3, Y: 4, Z: 500}
	if got := a.PlanarDistanceTo(b); got != 5 {
		t.Fatalf("PlanarDistanceTo = %v, want 5", got)
	}
}

func TestElevationOverhead(t *testing.T) {
	observer := FromPosition(model.Position{X: EarthRadiusKm})
	target := FromPosition(model.Position{X: EarthRadiusKm + 550})

	if got := ElevationDegrees(observer, target); math.Abs(got-90) > 1e-6 {
		t.Fatalf("overhead elevation = %v, want 90", got)
	}
}

func TestElevationBelowHorizon(t *testing.T) {
	observer := FromPosition(model.Position{X: EarthRadiusKm})
	// Far side of the planet.
	target := FromPosition(model.Position{X: -(EarthRadiusKm + 550)})

	if got := ElevationDegrees(observer, target); got >= 0 {
		t.Fatalf("far-side elevation = %v, want negative", got)
	}
}
