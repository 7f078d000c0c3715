package core

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/signalsfoundry/handover-orchestrator/model"
)

// DispatcherConfig tunes recovery action synthesis.
type DispatcherConfig struct {
	// SuccessProbability is the chance a dispatched action reports a
	// successful outcome.
	SuccessProbability float64
}

// DefaultDispatcherConfig returns the observed defaults.
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{SuccessProbability: 0.9}
}

// RecoveryDispatcher maps failover events onto recovery actions. No
// retries live at this layer: a failed outcome is reported as-is and
// retrying is the caller's responsibility.
type RecoveryDispatcher struct {
	cfg DispatcherConfig
	rng *rand.Rand
}

// NewRecoveryDispatcher constructs a dispatcher over the given random
// stream.
func NewRecoveryDispatcher(cfg DispatcherConfig, rng *rand.Rand) *RecoveryDispatcher {
	return &RecoveryDispatcher{cfg: cfg, rng: rng}
}

// Dispatch derives the single recovery action for an event. The
// severity-to-class mapping is fixed and total.
func (rd *RecoveryDispatcher) Dispatch(event *model.FailoverEvent) *model.RecoveryAction {
	class := ActionForSeverity(event.Severity)
	succeeded := rd.rng.Float64() < rd.cfg.SuccessProbability

	progress := 1.0
	if !succeeded {
		// A failed action stalls partway through.
		progress = 0.3 + rd.rng.Float64()*0.6
	}

	return &model.RecoveryAction{
		ID:          uuid.NewString(),
		EventID:     event.ID,
		Class:       class,
		TargetClass: event.ToClass,
		Progress:    progress,
		Estimated:   estimatedRecovery(class),
		Succeeded:   succeeded,
	}
}

// ActionForSeverity is the fixed severity-to-action mapping.
func ActionForSeverity(s model.Severity) model.ActionClass {
	switch s {
	case model.SeverityCritical:
		return model.ActionManualIntervention
	case model.SeverityHigh:
		return model.ActionReconfiguration
	case model.SeverityMedium:
		return model.ActionRerouting
	default:
		return model.ActionAutoRecovery
	}
}

func estimatedRecovery(c model.ActionClass) time.Duration {
	switch c {
	case model.ActionManualIntervention:
		return 30 * time.Second
	case model.ActionReconfiguration:
		return 8 * time.Second
	case model.ActionRerouting:
		return 4 * time.Second
	default:
		return 2 * time.Second
	}
}
