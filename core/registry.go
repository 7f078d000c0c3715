package core

import (
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/signalsfoundry/handover-orchestrator/model"
	"github.com/signalsfoundry/handover-orchestrator/timectrl"
)

// RegistryConfig tunes the connection registry. The weighted-random
// status split mirrors observed field behaviour and carries no deeper
// distribution rationale; treat the weights as tunables.
type RegistryConfig struct {
	// StabilizationWindow is the minimum time between status changes
	// for a single link. Within the window the previously recorded
	// status is returned unchanged regardless of sampled quality.
	StabilizationWindow time.Duration

	// MinElevationDeg blocks a link when the access point sits below
	// this elevation as seen from the node.
	MinElevationDeg float64

	// LostReliabilityPct marks a link lost when sampled reliability
	// drops below this floor.
	LostReliabilityPct float64

	// Weighted-random status split for healthy links.
	ActiveWeight       float64
	SwitchingWeight    float64
	EstablishingWeight float64
}

// DefaultRegistryConfig returns the observed defaults.
func DefaultRegistryConfig() RegistryConfig {
	return RegistryConfig{
		StabilizationWindow: 10 * time.Second,
		MinElevationDeg:     10.0,
		LostReliabilityPct:  20.0,
		ActiveWeight:        0.97,
		SwitchingWeight:     0.02,
		EstablishingWeight:  0.01,
	}
}

// statusRecord is the per-pairing stabilization state.
type statusRecord struct {
	status    model.LinkStatus
	changedAt time.Time
	switches  int
}

// ConnectionRegistry holds the current link set for every mobile node,
// one link per access-point slot (primary satellite + mesh backup).
// The status-history map is owned exclusively by the registry's own
// tick; downstream components consume only returned snapshots.
type ConnectionRegistry struct {
	cfg     RegistryConfig
	quality QualitySource
	rng     *rand.Rand
	clock   timectrl.Clock

	mu      sync.Mutex
	history map[string]*statusRecord
}

// NewConnectionRegistry constructs a registry over the given quality
// source and random stream.
func NewConnectionRegistry(cfg RegistryConfig, quality QualitySource, rng *rand.Rand, clock timectrl.Clock) *ConnectionRegistry {
	if clock == nil {
		clock = timectrl.SystemClock{}
	}
	return &ConnectionRegistry{
		cfg:     cfg,
		quality: quality,
		rng:     rng,
		clock:   clock,
		history: make(map[string]*statusRecord),
	}
}

// Refresh recomputes the link set for the current nodes and access
// points. Each mobile node gets a primary link to its nearest access
// point and a mesh-backup link to the second nearest; with a single
// visible access point the backup slot simply yields no link. History
// entries for vanished nodes are pruned.
func (r *ConnectionRegistry) Refresh(nodes []*model.Node, aps map[string]model.Position) []*model.Link {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	links := make([]*model.Link, 0, 2*len(nodes))
	seen := make(map[string]bool, len(nodes))

	for _, node := range nodes {
		if !node.IsMobile() {
			continue
		}
		seen[node.ID] = true

		ranked := rankAccessPoints(node.Position, aps)
		slots := []struct {
			class model.LinkClass
			index int
		}{
			{model.ClassSatelliteNTN, 0},
			{model.ClassMeshBackup, 1},
		}

		for _, slot := range slots {
			if slot.index >= len(ranked) {
				continue
			}
			ap := ranked[slot.index]
			q := r.quality.Compute(slot.class)
			elev := ElevationDegrees(FromPosition(node.Position), FromPosition(aps[ap]))
			rec := r.stabilize(node.ID, ap, slot.class, q, elev, now)

			links = append(links, &model.Link{
				ID:               model.LinkID(node.ID, ap, slot.class),
				NodeID:           node.ID,
				AccessPointID:    ap,
				Class:            slot.class,
				Status:           rec.status,
				Quality:          q,
				SwitchCount:      rec.switches,
				LastStatusChange: rec.changedAt,
			})
		}
	}

	r.pruneHistory(seen)
	return links
}

// ResetHistory drops all stabilization state. Called when the
// subsystem is disabled.
func (r *ConnectionRegistry) ResetHistory() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = make(map[string]*statusRecord)
}

// stabilize returns the sticky status record for a pairing. A fresh
// candidate is computed only when more than the stabilization window
// has elapsed since the last recorded change; otherwise the prior
// status is returned unchanged, which is the anti-flicker invariant.
func (r *ConnectionRegistry) stabilize(nodeID, apID string, class model.LinkClass, q model.QualityVector, elevationDeg float64, now time.Time) *statusRecord {
	key := historyKey(nodeID, apID, class)
	rec, ok := r.history[key]
	if ok && now.Sub(rec.changedAt) <= r.cfg.StabilizationWindow {
		return rec
	}

	candidate := r.candidateStatus(q, elevationDeg)
	if !ok {
		rec = &statusRecord{status: candidate, changedAt: now}
		r.history[key] = rec
		return rec
	}
	if candidate != rec.status {
		rec.status = candidate
		rec.changedAt = now
		rec.switches++
	}
	return rec
}

// candidateStatus applies the threshold policy, first match wins:
// below-elevation -> blocked, reliability floor -> lost, otherwise a
// weighted-random draw strongly biased toward active.
func (r *ConnectionRegistry) candidateStatus(q model.QualityVector, elevationDeg float64) model.LinkStatus {
	if elevationDeg < r.cfg.MinElevationDeg {
		return model.StatusBlocked
	}
	if q.ReliabilityPct < r.cfg.LostReliabilityPct {
		return model.StatusLost
	}

	draw := r.rng.Float64()
	switch {
	case draw < r.cfg.ActiveWeight:
		return model.StatusActive
	case draw < r.cfg.ActiveWeight+r.cfg.SwitchingWeight:
		return model.StatusSwitching
	default:
		return model.StatusEstablishing
	}
}

func (r *ConnectionRegistry) pruneHistory(liveNodes map[string]bool) {
	for key := range r.history {
		nodeID, _, found := strings.Cut(key, "|")
		if found && !liveNodes[nodeID] {
			delete(r.history, key)
		}
	}
}

func historyKey(nodeID, apID string, class model.LinkClass) string {
	return nodeID + "|" + apID + "|" + string(class)
}

// rankAccessPoints returns access point IDs ordered by distance from
// the given position, nearest first. Ties break on ID so slot
// assignment is deterministic across ticks.
func rankAccessPoints(from model.Position, aps map[string]model.Position) []string {
	ids := make([]string, 0, len(aps))
	for id := range aps {
		ids = append(ids, id)
	}
	origin := FromPosition(from)
	sort.Slice(ids, func(i, j int) bool {
		di := origin.DistanceTo(FromPosition(aps[ids[i]]))
		dj := origin.DistanceTo(FromPosition(aps[ids[j]]))
		if di != dj {
			return di < dj
		}
		return ids[i] < ids[j]
	})
	return ids
}
