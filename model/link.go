package model

import (
	"fmt"
	"time"
)

// LinkClass identifies which slot a link occupies for a mobile node.
type LinkClass string

const (
	// ClassSatelliteNTN is the primary satellite link of a mobile node.
	ClassSatelliteNTN LinkClass = "satellite_ntn"
	// ClassMeshBackup is the mesh fallback link of a mobile node.
	ClassMeshBackup LinkClass = "mesh_backup"
	// ClassDirect is a short-range node-to-node link.
	ClassDirect LinkClass = "direct"
	// ClassBackup is a generic long-range fallback link.
	ClassBackup LinkClass = "backup"
)

// BackupClass returns the link class a recovery action should steer
// traffic toward when the given class degrades.
func (c LinkClass) BackupClass() LinkClass {
	if c == ClassSatelliteNTN {
		return ClassMeshBackup
	}
	return ClassBackup
}

// LinkStatus is the current state of a link.
type LinkStatus string

const (
	StatusActive       LinkStatus = "active"
	StatusStandby      LinkStatus = "standby"
	StatusEstablishing LinkStatus = "establishing"
	StatusSwitching    LinkStatus = "switching"
	StatusDegraded     LinkStatus = "degraded"
	StatusFailed       LinkStatus = "failed"
	StatusBlocked      LinkStatus = "blocked"
	StatusLost         LinkStatus = "lost"
)

// QualityVector is the synthesized quality sample attached to a link.
type QualityVector struct {
	SignalStrengthDBm float64 `json:"SignalStrengthDBm"`
	LatencyMs         float64 `json:"LatencyMs"`
	BandwidthMbps     float64 `json:"BandwidthMbps"`
	ReliabilityPct    float64 `json:"ReliabilityPct"`
	PacketLossPct     float64 `json:"PacketLossPct"`
}

// Link is a directed relationship from a mobile node to an access point.
type Link struct {
	ID            string     `json:"ID"`
	NodeID        string     `json:"NodeID"`
	AccessPointID string     `json:"AccessPointID"`
	Class         LinkClass  `json:"Class"`
	Status        LinkStatus `json:"Status"`

	Quality QualityVector `json:"Quality"`

	// SwitchCount is incremented every time the stabilized status
	// actually changes.
	SwitchCount int `json:"SwitchCount"`

	// LastStatusChange is when the stabilized status last changed.
	LastStatusChange time.Time `json:"LastStatusChange"`
}

// LinkID derives the deterministic identifier for a node/access-point
// pairing in a given class. Recreating a link after a provider blip
// yields the same ID, so status history survives.
func LinkID(nodeID, accessPointID string, class LinkClass) string {
	return fmt.Sprintf("link-%s-%s-%s", nodeID, accessPointID, class)
}
