// Package provider supplies node and access-point snapshots to the
// monitoring core. The core treats this as an external boundary: it
// reads positions and role tags, never writes them.
package provider

import (
	"math"

	"github.com/signalsfoundry/handover-orchestrator/model"
	"github.com/signalsfoundry/handover-orchestrator/timectrl"
)

// NodeProvider is the input boundary of the monitoring core.
type NodeProvider interface {
	// Nodes returns the current mobile-node set with role tags and
	// position snapshots.
	Nodes() []*model.Node

	// AccessPointPositions returns the currently visible access points
	// and their live positions. Membership changes tick to tick as
	// access points enter and leave visibility.
	AccessPointPositions() map[string]model.Position
}

// FleetMember describes one scripted UAV. Members fly flat circles
// around a centre point, which is plenty of motion for exercising
// handover and topology behaviour.
type FleetMember struct {
	ID       string
	Tag      model.RoleTag
	Enabled  bool
	Center   model.Position
	RadiusKm float64
	PeriodS  float64
	PhaseDeg float64
}

// Fleet is a clock-driven scripted UAV fleet.
type Fleet struct {
	clock   timectrl.Clock
	members []FleetMember
}

// NewFleet constructs a fleet over the given clock.
func NewFleet(clock timectrl.Clock, members []FleetMember) *Fleet {
	if clock == nil {
		clock = timectrl.SystemClock{}
	}
	return &Fleet{clock: clock, members: members}
}

// Nodes returns the fleet's node snapshot at the current clock time.
func (f *Fleet) Nodes() []*model.Node {
	now := f.clock.Now()
	t := float64(now.UnixNano()) / 1e9

	nodes := make([]*model.Node, 0, len(f.members))
	for _, m := range f.members {
		pos := m.Center
		if m.RadiusKm > 0 && m.PeriodS > 0 {
			theta := m.PhaseDeg*math.Pi/180 + 2*math.Pi*t/m.PeriodS
			pos.X += m.RadiusKm * math.Cos(theta)
			pos.Y += m.RadiusKm * math.Sin(theta)
		}
		nodes = append(nodes, &model.Node{
			ID:       m.ID,
			Name:     m.ID,
			Tag:      m.Tag,
			Enabled:  m.Enabled,
			Position: pos,
		})
	}
	return nodes
}

// Source combines a UAV fleet with an access-point constellation into
// a single NodeProvider for the demo host.
type Source struct {
	Fleet         *Fleet
	Constellation *Constellation
}

func (s *Source) Nodes() []*model.Node {
	if s.Fleet == nil {
		return nil
	}
	return s.Fleet.Nodes()
}

func (s *Source) AccessPointPositions() map[string]model.Position {
	if s.Constellation == nil {
		return map[string]model.Position{}
	}
	return s.Constellation.Positions()
}
