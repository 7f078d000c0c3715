package monitor

import (
	"sync"

	"github.com/signalsfoundry/handover-orchestrator/model"
)

// historyCap bounds the recent failover/recovery buffers.
const historyCap = 6

// Board is the set of published, read-only snapshot slots the monitors
// exchange state through. Each monitor writes only its own slot on its
// own tick; every consumer gets copies. Cross-slot reads are eventually
// consistent, not atomically consistent.
type Board struct {
	mu sync.RWMutex

	links     []*model.Link
	prevLinks []*model.Link

	sessions    []*model.HandoverSession
	statusLines map[string]string

	events  []*model.FailoverEvent
	actions []*model.RecoveryAction

	graph *model.TopologyGraph
	paths []*model.RoutingPath

	satQuality []*model.Link

	summary model.MetricsSummary
}

// NewBoard constructs an empty board.
func NewBoard() *Board {
	return &Board{statusLines: make(map[string]string)}
}

// PublishLinks installs a fresh registry snapshot, shifting the prior
// snapshot into the previous slot for the failover detector.
func (b *Board) PublishLinks(links []*model.Link) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.prevLinks = b.links
	b.links = links
}

// LinkSnapshots returns the two most recent registry snapshots,
// current first.
func (b *Board) LinkSnapshots() (current, previous []*model.Link) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return copyLinks(b.links), copyLinks(b.prevLinks)
}

// Links returns a copy of the current link set.
func (b *Board) Links() []*model.Link {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return copyLinks(b.links)
}

// PublishSessions installs the handover snapshot and its derived
// status lines.
func (b *Board) PublishSessions(sessions []*model.HandoverSession, statusLines map[string]string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sessions = sessions
	b.statusLines = statusLines
}

// Sessions returns a copy of the session snapshot.
func (b *Board) Sessions() []*model.HandoverSession {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return copySessions(b.sessions)
}

// StatusLine returns the display projection for one node.
func (b *Board) StatusLine(nodeID string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.statusLines[nodeID]
}

// AppendFailover records a detected event and its recovery action in
// the bounded recent-history buffers.
func (b *Board) AppendFailover(event *model.FailoverEvent, action *model.RecoveryAction) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	if len(b.events) > historyCap {
		b.events = b.events[len(b.events)-historyCap:]
	}
	b.actions = append(b.actions, action)
	if len(b.actions) > historyCap {
		b.actions = b.actions[len(b.actions)-historyCap:]
	}
}

// RecentFailovers returns copies of the bounded event/action history.
func (b *Board) RecentFailovers() ([]*model.FailoverEvent, []*model.RecoveryAction) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return copyEvents(b.events), copyActions(b.actions)
}

// PublishTopology installs the topology snapshot.
func (b *Board) PublishTopology(graph *model.TopologyGraph, paths []*model.RoutingPath) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.graph = graph
	b.paths = paths
}

// Topology returns copies of the latest graph and routing paths.
func (b *Board) Topology() (*model.TopologyGraph, []*model.RoutingPath) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return copyGraph(b.graph), copyPaths(b.paths)
}

// PublishSatQuality installs the slow-cadence UAV-satellite quality
// snapshot.
func (b *Board) PublishSatQuality(links []*model.Link) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.satQuality = links
}

// SatQuality returns the latest UAV-satellite quality snapshot.
func (b *Board) SatQuality() []*model.Link {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return copyLinks(b.satQuality)
}

// PublishSummary installs the aggregated metrics.
func (b *Board) PublishSummary(s model.MetricsSummary) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.summary = s
}

// Summary returns the aggregated metrics.
func (b *Board) Summary() model.MetricsSummary {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.summary
}

// Snapshot is the full output-boundary view a presentation host reads.
type Snapshot struct {
	Links       []*model.Link              `json:"Links"`
	Sessions    []*model.HandoverSession   `json:"Sessions"`
	StatusLines map[string]string          `json:"StatusLines"`
	Events      []*model.FailoverEvent     `json:"Events"`
	Actions     []*model.RecoveryAction    `json:"Actions"`
	Topology    *model.TopologyGraph       `json:"Topology"`
	Paths       []*model.RoutingPath       `json:"Paths"`
	Summary     model.MetricsSummary       `json:"Summary"`
}

// Snapshot assembles the complete output view. The slots may stem from
// slightly different ticks; consumers must tolerate that. Every slot is
// copied; a snapshot never aliases published state.
func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	lines := make(map[string]string, len(b.statusLines))
	for k, v := range b.statusLines {
		lines[k] = v
	}

	return Snapshot{
		Links:       copyLinks(b.links),
		Sessions:    copySessions(b.sessions),
		StatusLines: lines,
		Events:      copyEvents(b.events),
		Actions:     copyActions(b.actions),
		Topology:    copyGraph(b.graph),
		Paths:       copyPaths(b.paths),
		Summary:     b.summary,
	}
}

// Clear drops every published slot. Called synchronously on disable.
func (b *Board) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.links = nil
	b.prevLinks = nil
	b.sessions = nil
	b.statusLines = make(map[string]string)
	b.events = nil
	b.actions = nil
	b.graph = nil
	b.paths = nil
	b.satQuality = nil
	b.summary = model.MetricsSummary{}
}

func copyLinks(in []*model.Link) []*model.Link {
	out := make([]*model.Link, len(in))
	for i, l := range in {
		cp := *l
		out[i] = &cp
	}
	return out
}

func copySessions(in []*model.HandoverSession) []*model.HandoverSession {
	out := make([]*model.HandoverSession, len(in))
	for i, s := range in {
		cp := *s
		out[i] = &cp
	}
	return out
}

func copyEvents(in []*model.FailoverEvent) []*model.FailoverEvent {
	out := make([]*model.FailoverEvent, len(in))
	for i, e := range in {
		cp := *e
		out[i] = &cp
	}
	return out
}

func copyActions(in []*model.RecoveryAction) []*model.RecoveryAction {
	out := make([]*model.RecoveryAction, len(in))
	for i, a := range in {
		cp := *a
		out[i] = &cp
	}
	return out
}

func copyGraph(g *model.TopologyGraph) *model.TopologyGraph {
	if g == nil {
		return nil
	}
	cp := &model.TopologyGraph{
		Nodes: make([]*model.TopologyNode, len(g.Nodes)),
		Edges: make([]*model.TopologyEdge, len(g.Edges)),
	}
	for i, n := range g.Nodes {
		nc := *n
		cp.Nodes[i] = &nc
	}
	for i, e := range g.Edges {
		ec := *e
		cp.Edges[i] = &ec
	}
	return cp
}

func copyPaths(in []*model.RoutingPath) []*model.RoutingPath {
	out := make([]*model.RoutingPath, len(in))
	for i, p := range in {
		cp := *p
		cp.Hops = append([]string(nil), p.Hops...)
		cp.EdgeIDs = append([]string(nil), p.EdgeIDs...)
		out[i] = &cp
	}
	return out
}
