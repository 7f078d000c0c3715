package provider

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/signalsfoundry/handover-orchestrator/model"
	"github.com/signalsfoundry/handover-orchestrator/timectrl"
)

// internal JSON shapes, kept unexported so the file format can evolve
// without leaking into the provider API.
type scenarioJSON struct {
	UAVs       []uavJSON               `json:"uavs"`
	Satellites []satelliteJSON         `json:"satellites"`
	Gateways   map[string]positionJSON `json:"gateways"`
}

type uavJSON struct {
	ID       string       `json:"id"`
	Tag      string       `json:"tag"` // "desired" | "receiver" | "jammer"
	Enabled  *bool        `json:"enabled"` // optional; defaults to true
	Center   positionJSON `json:"center"`
	RadiusKm float64      `json:"radius_km"`
	PeriodS  float64      `json:"period_sec"`
	PhaseDeg float64      `json:"phase_deg"`
}

type satelliteJSON struct {
	ID    string `json:"id"`
	Line1 string `json:"tle1"`
	Line2 string `json:"tle2"`
}

type positionJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// LoadScenario reads a JSON scenario from r and assembles the combined
// provider. It fails only on JSON and structural errors; an empty UAV
// or satellite list is valid and simply yields a quiet subsystem.
func LoadScenario(r io.Reader, clock timectrl.Clock) (*Source, error) {
	var payload scenarioJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("LoadScenario: decode failed: %w", err)
	}

	members := make([]FleetMember, 0, len(payload.UAVs))
	for _, u := range payload.UAVs {
		if u.ID == "" {
			return nil, fmt.Errorf("LoadScenario: uav with empty id")
		}
		enabled := true
		if u.Enabled != nil {
			enabled = *u.Enabled
		}
		members = append(members, FleetMember{
			ID:       u.ID,
			Tag:      model.RoleTag(u.Tag),
			Enabled:  enabled,
			Center:   model.Position{X: u.Center.X, Y: u.Center.Y, Z: u.Center.Z},
			RadiusKm: u.RadiusKm,
			PeriodS:  u.PeriodS,
			PhaseDeg: u.PhaseDeg,
		})
	}

	constellation := NewConstellation(clock)
	for _, s := range payload.Satellites {
		if s.ID == "" || s.Line1 == "" || s.Line2 == "" {
			return nil, fmt.Errorf("LoadScenario: satellite %q missing TLE lines", s.ID)
		}
		constellation.AddTLE(s.ID, s.Line1, s.Line2)
	}
	for id, pos := range payload.Gateways {
		constellation.AddGateway(id, model.Position{X: pos.X, Y: pos.Y, Z: pos.Z})
	}

	return &Source{
		Fleet:         NewFleet(clock, members),
		Constellation: constellation,
	}, nil
}
