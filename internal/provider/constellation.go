package provider

import (
	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/signalsfoundry/handover-orchestrator/model"
	"github.com/signalsfoundry/handover-orchestrator/timectrl"
)

// Constellation propagates TLE-defined satellites with SGP4 and merges
// in static ground gateways. Satellite positions are ECEF kilometres.
type Constellation struct {
	clock    timectrl.Clock
	sats     map[string]satellite.Satellite
	gateways map[string]model.Position
}

// NewConstellation constructs an empty constellation over the clock.
func NewConstellation(clock timectrl.Clock) *Constellation {
	if clock == nil {
		clock = timectrl.SystemClock{}
	}
	return &Constellation{
		clock:    clock,
		sats:     make(map[string]satellite.Satellite),
		gateways: make(map[string]model.Position),
	}
}

// AddTLE registers a satellite from its two TLE lines.
func (c *Constellation) AddTLE(id, line1, line2 string) {
	c.sats[id] = satellite.TLEToSat(line1, line2, satellite.GravityWGS72)
}

// AddGateway registers a static ground access point.
func (c *Constellation) AddGateway(id string, pos model.Position) {
	c.gateways[id] = pos
}

// Positions returns the access-point position map at the current
// clock time. go-satellite propagates in ECI kilometres; positions are
// rotated into ECEF so they share a frame with the fleet.
func (c *Constellation) Positions() map[string]model.Position {
	now := c.clock.Now().UTC()
	year, month, day := now.Date()
	hour, min, sec := now.Clock()

	out := make(map[string]model.Position, len(c.sats)+len(c.gateways))
	for id, sat := range c.sats {
		posECI, _ := satellite.Propagate(sat, year, int(month), day, hour, min, sec)
		jd := satellite.JDay(year, int(month), day, hour, min, sec)
		gmst := satellite.ThetaG_JD(jd)
		posECEF := satellite.ECIToECEF(posECI, gmst)
		out[id] = model.Position{X: posECEF.X, Y: posECEF.Y, Z: posECEF.Z}
	}
	for id, pos := range c.gateways {
		out[id] = pos
	}
	return out
}
