package model

// EdgeType classifies an inferred topology edge.
type EdgeType string

const (
	EdgeSatellite EdgeType = "satellite"
	EdgeMesh      EdgeType = "mesh"
	EdgeDirect    EdgeType = "direct"
	EdgeBackup    EdgeType = "backup"
)

// EdgeStatus buckets an edge's synthesized quality.
type EdgeStatus string

const (
	EdgeActive   EdgeStatus = "active"
	EdgeDegraded EdgeStatus = "degraded"
	EdgeFailed   EdgeStatus = "failed"
)

// TopologyNode is a node admitted into the derived mesh topology.
type TopologyNode struct {
	ID       string   `json:"ID"`
	Role     NodeRole `json:"Role"`
	Position Position `json:"Position"`
}

// TopologyEdge is an undirected, distance-inferred link between two
// topology nodes.
type TopologyEdge struct {
	ID string `json:"ID"`
	A  string `json:"A"`
	B  string `json:"B"`

	Type     EdgeType   `json:"Type"`
	Protocol string     `json:"Protocol"`
	Status   EdgeStatus `json:"Status"`

	QualityPct    float64 `json:"QualityPct"`
	BandwidthMbps float64 `json:"BandwidthMbps"`
	LatencyMs     float64 `json:"LatencyMs"`
	DistanceKm    float64 `json:"DistanceKm"`
}

// TopologyGraph is the derived mesh view over the current node set.
type TopologyGraph struct {
	Nodes []*TopologyNode `json:"Nodes"`
	Edges []*TopologyEdge `json:"Edges"`
}

// RoutingPath is an ordered hop sequence between a primary-role node
// and a relay/edge-role node, derived only from active edges.
type RoutingPath struct {
	ID            string   `json:"ID"`
	SourceID      string   `json:"SourceID"`
	DestinationID string   `json:"DestinationID"`
	Hops          []string `json:"Hops"`
	EdgeIDs       []string `json:"EdgeIDs"`

	TotalLatencyMs float64 `json:"TotalLatencyMs"`
	ReliabilityPct float64 `json:"ReliabilityPct"`
}
