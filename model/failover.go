package model

import "time"

// TriggerReason classifies what pushed a link over a failover threshold.
type TriggerReason string

const (
	TriggerSignalDegradation TriggerReason = "signal_degradation"
	TriggerConnectionLoss    TriggerReason = "connection_loss"
	TriggerHighPacketLoss    TriggerReason = "high_packet_loss"
	TriggerInterference      TriggerReason = "interference"
	TriggerManual            TriggerReason = "manual"
)

// Severity grades a failover event.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// FailoverEvent is an immutable record of a detected degradation.
type FailoverEvent struct {
	ID     string `json:"ID"`
	LinkID string `json:"LinkID"`
	NodeID string `json:"NodeID"`

	Trigger  TriggerReason `json:"Trigger"`
	Severity Severity      `json:"Severity"`

	// FromClass is the degraded link's class; ToClass is the class
	// recovery should steer toward.
	FromClass LinkClass `json:"FromClass"`
	ToClass   LinkClass `json:"ToClass"`

	Timestamp         time.Time     `json:"Timestamp"`
	EstimatedDuration time.Duration `json:"EstimatedDuration"`
	Reason            string        `json:"Reason"`
}

// ActionClass is the recovery strategy chosen for a failover event.
type ActionClass string

const (
	ActionAutoRecovery       ActionClass = "auto_recovery"
	ActionReconfiguration    ActionClass = "reconfiguration"
	ActionRerouting          ActionClass = "rerouting"
	ActionManualIntervention ActionClass = "manual_intervention"
)

// RecoveryAction is derived 1:1 from a FailoverEvent. It is a report,
// not a retry loop: a failed outcome is surfaced as-is and retrying is
// the caller's responsibility.
type RecoveryAction struct {
	ID      string `json:"ID"`
	EventID string `json:"EventID"`

	Class       ActionClass `json:"Class"`
	TargetClass LinkClass   `json:"TargetClass"`

	Progress  float64       `json:"Progress"`
	Estimated time.Duration `json:"Estimated"`
	Succeeded bool          `json:"Succeeded"`
}
