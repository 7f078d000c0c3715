package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/signalsfoundry/handover-orchestrator/model"
)

// LinkCollector bundles Prometheus metrics for the link-monitoring
// subsystem and provides a ready-to-serve /metrics handler.
type LinkCollector struct {
	gatherer prometheus.Gatherer

	LinksTotal       prometheus.Gauge
	LinksActive      prometheus.Gauge
	HandoverSessions prometheus.Gauge
	SessionsByPhase  *prometheus.GaugeVec
	TopologyEdges    prometheus.Gauge
	RoutingPaths     prometheus.Gauge

	FailoverEvents  *prometheus.CounterVec
	RecoveryActions *prometheus.CounterVec

	TickDurations *prometheus.HistogramVec
}

// NewLinkCollector registers subsystem metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewLinkCollector(reg prometheus.Registerer) (*LinkCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	linksTotal, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "linkmon_links",
		Help: "Current number of managed links across all mobile nodes.",
	}), "linkmon_links")
	if err != nil {
		return nil, err
	}
	linksActive, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "linkmon_links_active",
		Help: "Current number of links with active status.",
	}), "linkmon_links_active")
	if err != nil {
		return nil, err
	}
	sessions, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "linkmon_handover_sessions",
		Help: "Current number of handover sessions (one per mobile node).",
	}), "linkmon_handover_sessions")
	if err != nil {
		return nil, err
	}
	byPhase := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "linkmon_sessions_by_phase",
		Help: "Handover sessions per phase.",
	}, []string{"phase"})
	byPhase, err = registerGaugeVec(reg, byPhase, "linkmon_sessions_by_phase")
	if err != nil {
		return nil, err
	}
	edges, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "linkmon_topology_edges",
		Help: "Current number of inferred topology edges.",
	}), "linkmon_topology_edges")
	if err != nil {
		return nil, err
	}
	paths, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "linkmon_routing_paths",
		Help: "Current number of discovered routing paths.",
	}), "linkmon_routing_paths")
	if err != nil {
		return nil, err
	}

	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "linkmon_failover_events_total",
		Help: "Total detected failover events, labeled by trigger and severity.",
	}, []string{"trigger", "severity"})
	events, err = registerCounterVec(reg, events, "linkmon_failover_events_total")
	if err != nil {
		return nil, err
	}
	actions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "linkmon_recovery_actions_total",
		Help: "Total dispatched recovery actions, labeled by class and outcome.",
	}, []string{"class", "outcome"})
	actions, err = registerCounterVec(reg, actions, "linkmon_recovery_actions_total")
	if err != nil {
		return nil, err
	}

	ticks := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "linkmon_tick_duration_seconds",
		Help:    "Duration of one monitor tick, labeled by monitor.",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	}, []string{"monitor"})
	ticks, err = registerHistogramVec(reg, ticks, "linkmon_tick_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &LinkCollector{
		gatherer:         gatherer,
		LinksTotal:       linksTotal,
		LinksActive:      linksActive,
		HandoverSessions: sessions,
		SessionsByPhase:  byPhase,
		TopologyEdges:    edges,
		RoutingPaths:     paths,
		FailoverEvents:   events,
		RecoveryActions:  actions,
		TickDurations:    ticks,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *LinkCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetLinkCounts drives the registry gauges after a refresh.
func (c *LinkCollector) SetLinkCounts(total, active int) {
	if c == nil {
		return
	}
	c.LinksTotal.Set(float64(total))
	c.LinksActive.Set(float64(active))
}

// SetSessionPhases drives the session gauges from a session snapshot.
func (c *LinkCollector) SetSessionPhases(sessions []*model.HandoverSession) {
	if c == nil {
		return
	}
	c.HandoverSessions.Set(float64(len(sessions)))
	counts := map[model.HandoverPhase]int{}
	for _, s := range sessions {
		counts[s.Phase]++
	}
	for _, phase := range []model.HandoverPhase{
		model.PhaseStable, model.PhasePreparing, model.PhaseEstablishing,
		model.PhaseSwitching, model.PhaseCompleting,
	} {
		c.SessionsByPhase.WithLabelValues(string(phase)).Set(float64(counts[phase]))
	}
}

// SetTopologyCounts drives the topology gauges after a rebuild.
func (c *LinkCollector) SetTopologyCounts(edges, paths int) {
	if c == nil {
		return
	}
	c.TopologyEdges.Set(float64(edges))
	c.RoutingPaths.Set(float64(paths))
}

// CountFailover records one event/action pair.
func (c *LinkCollector) CountFailover(event *model.FailoverEvent, action *model.RecoveryAction) {
	if c == nil {
		return
	}
	c.FailoverEvents.WithLabelValues(string(event.Trigger), string(event.Severity)).Inc()
	outcome := "failed"
	if action.Succeeded {
		outcome = "succeeded"
	}
	c.RecoveryActions.WithLabelValues(string(action.Class), outcome).Inc()
}

// ObserveTick records the duration of one monitor pass.
func (c *LinkCollector) ObserveTick(monitor string, d time.Duration) {
	if c == nil {
		return
	}
	c.TickDurations.WithLabelValues(monitor).Observe(d.Seconds())
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
