package model

// MetricsSummary is a pure reduction over the current link, event,
// action, and path collections. It carries no state of its own.
type MetricsSummary struct {
	TotalLinks  int `json:"TotalLinks"`
	ActiveLinks int `json:"ActiveLinks"`

	// MeanReliabilityPct averages the reliability of active links only.
	MeanReliabilityPct float64 `json:"MeanReliabilityPct"`

	// MeanEventDurationMs averages estimated failover durations.
	MeanEventDurationMs float64 `json:"MeanEventDurationMs"`

	// SuccessRatioPct is completed/total recovery actions. It is 100
	// when there are no events at all: a quiet system is a healthy one.
	SuccessRatioPct float64 `json:"SuccessRatioPct"`

	// RedundancyRatio is links per mobile node, bounded above.
	RedundancyRatio float64 `json:"RedundancyRatio"`

	// RoutingEfficiencyPct is discovered paths over possible
	// primary-relay pairs.
	RoutingEfficiencyPct float64 `json:"RoutingEfficiencyPct"`

	TotalFailovers      int     `json:"TotalFailovers"`
	SuccessfulFailovers int     `json:"SuccessfulFailovers"`
	MeanFailoverMs      float64 `json:"MeanFailoverMs"`
	FastestFailoverMs   float64 `json:"FastestFailoverMs"`
	SlowestFailoverMs   float64 `json:"SlowestFailoverMs"`
}
