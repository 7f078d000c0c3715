// Package monitor owns the lifecycle of the link-monitoring subsystem:
// one goroutine per monitor, each on its own fixed-interval ticker,
// exchanging state through the Board's published snapshots.
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/signalsfoundry/handover-orchestrator/core"
	"github.com/signalsfoundry/handover-orchestrator/internal/logging"
	"github.com/signalsfoundry/handover-orchestrator/internal/observability"
	"github.com/signalsfoundry/handover-orchestrator/internal/provider"
	"github.com/signalsfoundry/handover-orchestrator/model"
)

// Config holds the per-monitor tick intervals.
type Config struct {
	RegistryInterval   time.Duration
	HandoverInterval   time.Duration
	DetectorInterval   time.Duration
	TopologyInterval   time.Duration
	SatQualityInterval time.Duration
}

// DefaultConfig returns the observed cadences.
func DefaultConfig() Config {
	return Config{
		RegistryInterval:   2 * time.Second,
		HandoverInterval:   200 * time.Millisecond,
		DetectorInterval:   2 * time.Second,
		TopologyInterval:   3 * time.Second,
		SatQualityInterval: 15 * time.Second,
	}
}

// Subsystem wires the monitors together and drives them. Each monitor
// runs serialized on its own ticker; a pass never overlaps itself.
type Subsystem struct {
	cfg      Config
	source   provider.NodeProvider
	registry *core.ConnectionRegistry
	engine   *core.HandoverEngine
	detector *core.FailoverDetector
	recovery *core.RecoveryDispatcher
	builder  *core.TopologyBuilder

	board     *Board
	collector *observability.LinkCollector
	log       logging.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New assembles a subsystem. The collector may be nil when metrics are
// not wanted (tests).
func New(
	cfg Config,
	source provider.NodeProvider,
	registry *core.ConnectionRegistry,
	engine *core.HandoverEngine,
	detector *core.FailoverDetector,
	recovery *core.RecoveryDispatcher,
	builder *core.TopologyBuilder,
	collector *observability.LinkCollector,
	log logging.Logger,
) (*Subsystem, error) {
	if source == nil {
		return nil, fmt.Errorf("monitor: source is nil")
	}
	if registry == nil || engine == nil || detector == nil || recovery == nil || builder == nil {
		return nil, fmt.Errorf("monitor: missing component")
	}
	if log == nil {
		log = logging.Noop()
	}
	return &Subsystem{
		cfg:       cfg,
		source:    source,
		registry:  registry,
		engine:    engine,
		detector:  detector,
		recovery:  recovery,
		builder:   builder,
		board:     NewBoard(),
		collector: collector,
		log:       log,
	}, nil
}

// Board exposes the output boundary.
func (s *Subsystem) Board() *Board { return s.board }

// Enabled reports whether the subsystem timers are running.
func (s *Subsystem) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Enable starts all monitor timers. Enabling an already-enabled
// subsystem is an error.
func (s *Subsystem) Enable(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return fmt.Errorf("monitor: already enabled")
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	s.startLoop(ctx, "registry", s.cfg.RegistryInterval, s.registryPass)
	s.startLoop(ctx, "handover", s.cfg.HandoverInterval, s.handoverPass)
	s.startLoop(ctx, "failover", s.cfg.DetectorInterval, s.detectorPass)
	s.startLoop(ctx, "topology", s.cfg.TopologyInterval, s.topologyPass)
	s.startLoop(ctx, "sat_quality", s.cfg.SatQualityInterval, s.satQualityPass)

	s.log.Info(ctx, "link monitoring enabled")
	return nil
}

// Disable stops all timers and synchronously clears every piece of
// derived state. There is no graceful drain: partial phase progress is
// discarded.
func (s *Subsystem) Disable() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	cancel()
	s.wg.Wait()

	s.board.Clear()
	s.registry.ResetHistory()
	s.engine.Reset()
	s.log.Info(context.Background(), "link monitoring disabled; derived state cleared")
}

func (s *Subsystem) startLoop(ctx context.Context, name string, interval time.Duration, pass func(context.Context)) {
	if interval <= 0 {
		interval = time.Second
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				pass(ctx)
				s.collector.ObserveTick(name, time.Since(start))
			}
		}
	}()
}

// registryPass refreshes the link set and the derived summary.
func (s *Subsystem) registryPass(ctx context.Context) {
	nodes := s.source.Nodes()
	aps := s.source.AccessPointPositions()

	links := s.registry.Refresh(nodes, aps)
	s.board.PublishLinks(links)

	active := 0
	for _, l := range links {
		if l.Status == model.StatusActive {
			active++
		}
	}
	s.collector.SetLinkCounts(len(links), active)

	s.publishSummary(nodes)
}

// handoverPass advances every session on the fast cadence.
func (s *Subsystem) handoverPass(ctx context.Context) {
	nodes := s.source.Nodes()
	aps := s.source.AccessPointPositions()

	s.engine.Tick(nodes, aps)
	sessions := s.engine.Sessions()

	lines := make(map[string]string, len(sessions))
	for _, sess := range sessions {
		lines[sess.NodeID] = s.engine.StatusLine(sess)
	}
	s.board.PublishSessions(sessions, lines)
	s.collector.SetSessionPhases(sessions)
}

// detectorPass compares the two latest registry snapshots and
// dispatches recovery for anything that triggered.
func (s *Subsystem) detectorPass(ctx context.Context) {
	current, previous := s.board.LinkSnapshots()
	if len(previous) == 0 {
		return
	}

	for _, event := range s.detector.Detect(current, previous) {
		action := s.recovery.Dispatch(event)
		s.board.AppendFailover(event, action)
		s.collector.CountFailover(event, action)
		s.log.Warn(ctx, "failover detected",
			logging.String("link", event.LinkID),
			logging.String("trigger", string(event.Trigger)),
			logging.String("severity", string(event.Severity)),
			logging.String("action", string(action.Class)),
			logging.String("reason", event.Reason),
		)
	}
}

// topologyPass rebuilds the mesh view and the derived summary.
func (s *Subsystem) topologyPass(ctx context.Context) {
	nodes := s.source.Nodes()
	graph, paths := s.builder.Build(nodes)
	s.board.PublishTopology(graph, paths)
	s.collector.SetTopologyCounts(len(graph.Edges), len(paths))

	s.publishSummary(nodes)
}

// satQualityPass publishes the slow-cadence UAV-satellite quality
// snapshot used by reporting.
func (s *Subsystem) satQualityPass(ctx context.Context) {
	var sat []*model.Link
	for _, l := range s.board.Links() {
		if l.Class == model.ClassSatelliteNTN {
			sat = append(sat, l)
		}
	}
	s.board.PublishSatQuality(sat)

	for _, l := range sat {
		s.log.Debug(ctx, "satellite link quality",
			logging.String("link", l.ID),
			logging.Float64("signal_dbm", l.Quality.SignalStrengthDBm),
			logging.Float64("latency_ms", l.Quality.LatencyMs),
			logging.Float64("loss_pct", l.Quality.PacketLossPct),
		)
	}
}

func (s *Subsystem) publishSummary(nodes []*model.Node) {
	mobile := 0
	for _, n := range nodes {
		if n.IsMobile() {
			mobile++
		}
	}
	links := s.board.Links()
	events, actions := s.board.RecentFailovers()
	graph, paths := s.board.Topology()
	s.board.PublishSummary(core.Aggregate(links, events, actions, paths, graph, mobile))
}
