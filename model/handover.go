package model

import "time"

// HandoverPhase is a phase of the timed handover cycle.
type HandoverPhase string

const (
	PhaseStable       HandoverPhase = "stable"
	PhasePreparing    HandoverPhase = "preparing"
	PhaseEstablishing HandoverPhase = "establishing"
	PhaseSwitching    HandoverPhase = "switching"
	PhaseCompleting   HandoverPhase = "completing"
)

// HandoverSession is the per-node state machine instance. It exists for
// as long as the node does and cycles back to PhaseStable after every
// migration; it is never destroyed mid-flight.
type HandoverSession struct {
	NodeID string `json:"NodeID"`

	Phase HandoverPhase `json:"Phase"`

	// CurrentAP is the access point the node's active link points at.
	// Empty when no access point is reachable at all, which is a valid
	// quiescent state, not a failure.
	CurrentAP string `json:"CurrentAP"`

	// TargetAP is non-empty only between preparing and completing.
	// It is always a different access point from CurrentAP.
	TargetAP string `json:"TargetAP,omitempty"`

	PhaseEnteredAt time.Time `json:"PhaseEnteredAt"`

	// Progress is the 0..1 completion of the current phase.
	Progress float64 `json:"Progress"`

	// CycleElapsed is the cumulative time spent in the current overall
	// handover cycle; reset to zero when a migration completes.
	CycleElapsed time.Duration `json:"CycleElapsed"`
}

// Migrating reports whether the session is between preparing and
// completing, inclusive.
func (s *HandoverSession) Migrating() bool {
	return s.Phase != PhaseStable
}
