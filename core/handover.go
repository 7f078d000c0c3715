package core

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/signalsfoundry/handover-orchestrator/model"
	"github.com/signalsfoundry/handover-orchestrator/timectrl"
)

// PhaseDurations holds the fixed dwell time of each handover phase.
type PhaseDurations struct {
	Stable       time.Duration
	Preparing    time.Duration
	Establishing time.Duration
	Switching    time.Duration
	Completing   time.Duration
}

// DefaultPhaseDurations returns the observed defaults.
func DefaultPhaseDurations() PhaseDurations {
	return PhaseDurations{
		Stable:       30 * time.Second,
		Preparing:    5 * time.Second,
		Establishing: 3 * time.Second,
		Switching:    2 * time.Second,
		Completing:   5 * time.Second,
	}
}

func (d PhaseDurations) of(p model.HandoverPhase) time.Duration {
	switch p {
	case model.PhasePreparing:
		return d.Preparing
	case model.PhaseEstablishing:
		return d.Establishing
	case model.PhaseSwitching:
		return d.Switching
	case model.PhaseCompleting:
		return d.Completing
	default:
		return d.Stable
	}
}

func nextPhase(p model.HandoverPhase) model.HandoverPhase {
	switch p {
	case model.PhaseStable:
		return model.PhasePreparing
	case model.PhasePreparing:
		return model.PhaseEstablishing
	case model.PhaseEstablishing:
		return model.PhaseSwitching
	case model.PhaseSwitching:
		return model.PhaseCompleting
	default:
		return model.PhaseStable
	}
}

// HandoverEngine drives one timed handover state machine per mobile
// node. It runs on its own fast tick, independent of the registry's
// polling interval.
type HandoverEngine struct {
	durations PhaseDurations
	rng       *rand.Rand
	clock     timectrl.Clock

	sessions   map[string]*model.HandoverSession
	cycleStart map[string]time.Time
}

// NewHandoverEngine constructs an engine. The random stream drives
// target selection only.
func NewHandoverEngine(durations PhaseDurations, rng *rand.Rand, clock timectrl.Clock) *HandoverEngine {
	if clock == nil {
		clock = timectrl.SystemClock{}
	}
	return &HandoverEngine{
		durations:  durations,
		rng:        rng,
		clock:      clock,
		sessions:   make(map[string]*model.HandoverSession),
		cycleStart: make(map[string]time.Time),
	}
}

// Tick advances every session against the current node set and access
// point visibility. Sessions are created on first sight of a mobile
// node and pruned when the node disappears from the input set.
func (e *HandoverEngine) Tick(nodes []*model.Node, aps map[string]model.Position) {
	now := e.clock.Now()
	live := make(map[string]bool, len(nodes))

	for _, node := range nodes {
		if !node.IsMobile() {
			continue
		}
		live[node.ID] = true
		s := e.ensureSession(node, aps, now)
		e.advance(s, aps, now)
	}

	for id := range e.sessions {
		if !live[id] {
			delete(e.sessions, id)
			delete(e.cycleStart, id)
		}
	}
}

// Sessions returns a snapshot copy of all sessions, ordered by node ID.
func (e *HandoverEngine) Sessions() []*model.HandoverSession {
	out := make([]*model.HandoverSession, 0, len(e.sessions))
	for _, s := range e.sessions {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NodeID < out[j].NodeID })
	return out
}

// Session returns a snapshot of a single node's session, or nil.
func (e *HandoverEngine) Session(nodeID string) *model.HandoverSession {
	s, ok := e.sessions[nodeID]
	if !ok {
		return nil
	}
	cp := *s
	return &cp
}

// Reset drops all sessions. Called when the subsystem is disabled;
// partial phase progress is simply discarded.
func (e *HandoverEngine) Reset() {
	e.sessions = make(map[string]*model.HandoverSession)
	e.cycleStart = make(map[string]time.Time)
}

func (e *HandoverEngine) ensureSession(node *model.Node, aps map[string]model.Position, now time.Time) *model.HandoverSession {
	s, ok := e.sessions[node.ID]
	if !ok {
		s = &model.HandoverSession{
			NodeID:         node.ID,
			Phase:          model.PhaseStable,
			PhaseEnteredAt: now,
		}
		if ranked := rankAccessPoints(node.Position, aps); len(ranked) > 0 {
			s.CurrentAP = ranked[0]
		}
		e.sessions[node.ID] = s
		e.cycleStart[node.ID] = now
		return s
	}

	// A node that sat with no reachable access point picks one up as
	// soon as any becomes visible.
	if s.CurrentAP == "" {
		if ranked := rankAccessPoints(node.Position, aps); len(ranked) > 0 {
			s.CurrentAP = ranked[0]
			s.Phase = model.PhaseStable
			s.TargetAP = ""
			s.PhaseEnteredAt = now
			e.cycleStart[node.ID] = now
		}
	}
	return s
}

// advance applies the emergency pre-emption rule first, then walks the
// timed phase sequence. Multiple expired phases are caught up in one
// call so a slow tick never stalls the cycle.
func (e *HandoverEngine) advance(s *model.HandoverSession, aps map[string]model.Position, now time.Time) {
	if s.CurrentAP != "" {
		if _, visible := aps[s.CurrentAP]; !visible {
			e.emergencyReassign(s, now, aps)
		}
	}

	for {
		dwell := e.durations.of(s.Phase)
		elapsed := now.Sub(s.PhaseEnteredAt)
		if elapsed < dwell {
			break
		}

		if s.Phase == model.PhaseStable {
			target, ok := e.pickTarget(s.CurrentAP, aps)
			if !ok {
				// Only one (or zero) access points: no migration is
				// initiated and the dwell timer restarts.
				s.PhaseEnteredAt = now
				break
			}
			s.TargetAP = target
			s.Phase = model.PhasePreparing
			s.PhaseEnteredAt = s.PhaseEnteredAt.Add(dwell)
			continue
		}

		if s.Phase == model.PhaseCompleting {
			s.CurrentAP = s.TargetAP
			s.TargetAP = ""
			s.Phase = model.PhaseStable
			s.PhaseEnteredAt = s.PhaseEnteredAt.Add(dwell)
			e.cycleStart[s.NodeID] = s.PhaseEnteredAt
			continue
		}

		s.Phase = nextPhase(s.Phase)
		s.PhaseEnteredAt = s.PhaseEnteredAt.Add(dwell)
	}

	dwell := e.durations.of(s.Phase)
	elapsed := now.Sub(s.PhaseEnteredAt)
	if dwell > 0 {
		s.Progress = float64(elapsed) / float64(dwell)
		if s.Progress > 1 {
			s.Progress = 1
		} else if s.Progress < 0 {
			s.Progress = 0
		}
	}
	s.CycleElapsed = now.Sub(e.cycleStart[s.NodeID])
}

// emergencyReassign handles the current access point dropping out of
// visibility: the session resets to stable immediately with a freshly
// chosen access point, bypassing the normal phase sequence.
func (e *HandoverEngine) emergencyReassign(s *model.HandoverSession, now time.Time, aps map[string]model.Position) {
	vanished := s.CurrentAP
	s.CurrentAP = ""
	s.TargetAP = ""
	s.Phase = model.PhaseStable
	s.PhaseEnteredAt = now
	s.Progress = 0
	e.cycleStart[s.NodeID] = now

	if next, ok := e.pickTarget(vanished, aps); ok {
		s.CurrentAP = next
	}
}

// pickTarget chooses uniformly among visible access points excluding
// the given one. The exclusion happens before the draw, so a
// self-handover is structurally impossible rather than merely
// improbable.
func (e *HandoverEngine) pickTarget(exclude string, aps map[string]model.Position) (string, bool) {
	candidates := make([]string, 0, len(aps))
	for id := range aps {
		if id != exclude {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	sort.Strings(candidates)
	return candidates[e.rng.Intn(len(candidates))], true
}

// StatusLine renders the human-readable projection a status panel
// consumes. It is derived from session state, never stored.
func (e *HandoverEngine) StatusLine(s *model.HandoverSession) string {
	if s == nil {
		return ""
	}
	now := e.clock.Now()
	switch s.Phase {
	case model.PhaseStable:
		if s.CurrentAP == "" {
			return "idle, no access point in view"
		}
		remaining := e.durations.Stable - now.Sub(s.PhaseEnteredAt)
		if remaining < 0 {
			remaining = 0
		}
		return fmt.Sprintf("stable on %s, next handover window in %s", s.CurrentAP, remaining.Round(time.Second))
	default:
		return fmt.Sprintf("%s handover %s -> %s (%d%%)", s.Phase, s.CurrentAP, s.TargetAP, int(s.Progress*100))
	}
}
