package core

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/signalsfoundry/handover-orchestrator/model"
)

// TopologyConfig tunes mesh inference.
type TopologyConfig struct {
	// LinkRangeKm is the planar distance threshold for inferring an
	// edge between two nodes at all.
	LinkRangeKm float64

	// BackupRangeKm is the secondary threshold above which an inferred
	// edge is classed as backup.
	BackupRangeKm float64

	// QualitySlope is the per-km quality decay.
	QualitySlope float64

	// QualityJitter is the half-width of the quality perturbation.
	QualityJitter float64

	// MaxPaths caps the routing result set for reporting volume.
	MaxPaths int
}

// DefaultTopologyConfig returns the observed defaults.
func DefaultTopologyConfig() TopologyConfig {
	return TopologyConfig{
		LinkRangeKm:   80,
		BackupRangeKm: 60,
		QualitySlope:  0.8,
		QualityJitter: 5,
		MaxPaths:      10,
	}
}

// edgeProtocols is the fixed protocol lookup keyed by edge type.
var edgeProtocols = map[model.EdgeType]string{
	model.EdgeSatellite: "5G-NTN",
	model.EdgeMesh:      "BATMAN-adv",
	model.EdgeDirect:    "WiFi-Direct",
	model.EdgeBackup:    "LoRa-Mesh",
}

// TopologyBuilder derives a mesh graph and a bounded routing view from
// the current node set.
type TopologyBuilder struct {
	cfg TopologyConfig
	rng *rand.Rand
}

// NewTopologyBuilder constructs a builder over the given random stream.
func NewTopologyBuilder(cfg TopologyConfig, rng *rand.Rand) *TopologyBuilder {
	return &TopologyBuilder{cfg: cfg, rng: rng}
}

// Build classifies nodes, infers distance-thresholded edges, and
// derives the routing paths. Interference sources are excluded from
// the topology entirely; an empty node set yields empty collections,
// never an error.
func (b *TopologyBuilder) Build(nodes []*model.Node) (*model.TopologyGraph, []*model.RoutingPath) {
	graph := &model.TopologyGraph{}

	for _, n := range nodes {
		if !n.Enabled || n.Tag == model.TagJammer {
			continue
		}
		graph.Nodes = append(graph.Nodes, &model.TopologyNode{
			ID:       n.ID,
			Role:     roleForTag(n.Tag),
			Position: n.Position,
		})
	}
	sort.Slice(graph.Nodes, func(i, j int) bool { return graph.Nodes[i].ID < graph.Nodes[j].ID })

	for i := 0; i < len(graph.Nodes); i++ {
		for j := i + 1; j < len(graph.Nodes); j++ {
			a, c := graph.Nodes[i], graph.Nodes[j]
			dist := FromPosition(a.Position).PlanarDistanceTo(FromPosition(c.Position))
			if dist > b.cfg.LinkRangeKm {
				continue
			}
			graph.Edges = append(graph.Edges, b.buildEdge(a, c, dist))
		}
	}

	return graph, b.buildPaths(graph)
}

func roleForTag(tag model.RoleTag) model.NodeRole {
	switch tag {
	case model.TagDesired:
		return model.RolePrimary
	case model.TagReceiver:
		return model.RoleRelay
	default:
		return model.RoleEdge
	}
}

// buildEdge classifies an inferred edge. Type precedence: a primary
// endpoint wins, then the backup distance threshold, then relay-relay
// mesh, then direct.
func (b *TopologyBuilder) buildEdge(a, c *model.TopologyNode, dist float64) *model.TopologyEdge {
	var edgeType model.EdgeType
	switch {
	case a.Role == model.RolePrimary || c.Role == model.RolePrimary:
		edgeType = model.EdgeSatellite
	case dist > b.cfg.BackupRangeKm:
		edgeType = model.EdgeBackup
	case a.Role == model.RoleRelay && c.Role == model.RoleRelay:
		edgeType = model.EdgeMesh
	default:
		edgeType = model.EdgeDirect
	}

	quality := 100 - b.cfg.QualitySlope*dist + (b.rng.Float64()*2-1)*b.cfg.QualityJitter
	if quality < 0 {
		quality = 0
	}

	var status model.EdgeStatus
	switch {
	case quality >= 70:
		status = model.EdgeActive
	case quality >= 40:
		status = model.EdgeDegraded
	default:
		status = model.EdgeFailed
	}

	return &model.TopologyEdge{
		ID:            fmt.Sprintf("edge-%s-%s", a.ID, c.ID),
		A:             a.ID,
		B:             c.ID,
		Type:          edgeType,
		Protocol:      edgeProtocols[edgeType],
		Status:        status,
		QualityPct:    quality,
		BandwidthMbps: edgeBandwidth(edgeType),
		LatencyMs:     edgeLatency(edgeType, dist),
		DistanceKm:    dist,
	}
}

// buildPaths discovers routing paths between primary-role sources and
// relay/edge-role destinations. Only direct (single-hop) paths over
// active edges are discovered; multi-hop search is deliberately not
// attempted here even when intermediate active edges would allow it.
func (b *TopologyBuilder) buildPaths(graph *model.TopologyGraph) []*model.RoutingPath {
	activeEdge := make(map[[2]string]*model.TopologyEdge)
	for _, e := range graph.Edges {
		if e.Status != model.EdgeActive {
			continue
		}
		activeEdge[[2]string{e.A, e.B}] = e
		activeEdge[[2]string{e.B, e.A}] = e
	}

	var paths []*model.RoutingPath
	for _, src := range graph.Nodes {
		if src.Role != model.RolePrimary {
			continue
		}
		for _, dst := range graph.Nodes {
			if dst.Role != model.RoleRelay && dst.Role != model.RoleEdge {
				continue
			}
			edge, ok := activeEdge[[2]string{src.ID, dst.ID}]
			if !ok {
				continue
			}
			paths = append(paths, &model.RoutingPath{
				ID:             fmt.Sprintf("path-%s-%s", src.ID, dst.ID),
				SourceID:       src.ID,
				DestinationID:  dst.ID,
				Hops:           []string{src.ID, dst.ID},
				EdgeIDs:        []string{edge.ID},
				TotalLatencyMs: edge.LatencyMs,
				ReliabilityPct: edge.QualityPct,
			})
			if len(paths) >= b.cfg.MaxPaths {
				return paths
			}
		}
	}
	return paths
}

func edgeBandwidth(t model.EdgeType) float64 {
	switch t {
	case model.EdgeSatellite:
		return 100
	case model.EdgeMesh:
		return 40
	case model.EdgeDirect:
		return 150
	default:
		return 15
	}
}

func edgeLatency(t model.EdgeType, distKm float64) float64 {
	base := 5.0
	switch t {
	case model.EdgeSatellite:
		base = 25
	case model.EdgeMesh:
		base = 15
	case model.EdgeBackup:
		base = 60
	}
	return base + distKm*0.1
}
