package model

// RoleTag is the role annotation supplied by the external node provider.
// The core never assigns tags; it only reads them.
type RoleTag string

const (
	// TagDesired marks a node that acts as a gateway/command asset.
	TagDesired RoleTag = "desired"
	// TagReceiver marks a mobile node whose links this core manages.
	TagReceiver RoleTag = "receiver"
	// TagJammer marks an interference source. Jammers are excluded from
	// the derived topology entirely.
	TagJammer RoleTag = "jammer"
)

// NodeRole is the topology role derived from a RoleTag.
type NodeRole string

const (
	RolePrimary NodeRole = "primary"
	RoleRelay   NodeRole = "relay"
	RoleEdge    NodeRole = "edge"
	RoleBackup  NodeRole = "backup"
)

// Position is an ECEF-style position in kilometres. The core treats
// positions as opaque read snapshots owned by the provider.
type Position struct {
	X float64 `json:"X"`
	Y float64 `json:"Y"`
	Z float64 `json:"Z"`
}

// Node is a mobile entity (UAV) as seen by the monitoring core.
// Identity and position are owned by the external provider; the core
// only annotates nodes with derived link and quality state.
type Node struct {
	ID       string   `json:"ID"`
	Name     string   `json:"Name,omitempty"`
	Tag      RoleTag  `json:"Tag"`
	Enabled  bool     `json:"Enabled"`
	Position Position `json:"Position"`
}

// IsMobile reports whether the node's links should be managed.
// Disabled nodes and interference sources are skipped.
func (n *Node) IsMobile() bool {
	return n != nil && n.Enabled && n.Tag != TagJammer
}
