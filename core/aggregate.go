package core

import (
	"github.com/signalsfoundry/handover-orchestrator/model"
)

// maxRedundancyRatio bounds the reported links-per-node ratio so a
// dense mesh does not dominate the summary.
const maxRedundancyRatio = 5.0

// Aggregate reduces the current collections into a summary. It is a
// pure function: no state, no errors. Degenerate inputs yield
// zero-valued metrics, with the one deliberate exception that the
// success ratio of an empty event set is 100%.
func Aggregate(
	links []*model.Link,
	events []*model.FailoverEvent,
	actions []*model.RecoveryAction,
	paths []*model.RoutingPath,
	graph *model.TopologyGraph,
	mobileNodes int,
) model.MetricsSummary {
	var sum model.MetricsSummary

	sum.TotalLinks = len(links)
	var relTotal float64
	for _, l := range links {
		if l.Status == model.StatusActive {
			sum.ActiveLinks++
			relTotal += l.Quality.ReliabilityPct
		}
	}
	if sum.ActiveLinks > 0 {
		sum.MeanReliabilityPct = relTotal / float64(sum.ActiveLinks)
	}

	if len(events) > 0 {
		var durTotal float64
		for _, e := range events {
			durTotal += float64(e.EstimatedDuration.Milliseconds())
		}
		sum.MeanEventDurationMs = durTotal / float64(len(events))
	}

	sum.SuccessRatioPct = SuccessRatio(actions)
	sum.TotalFailovers = len(actions)
	var failoverTotal float64
	for _, a := range actions {
		if a.Succeeded {
			sum.SuccessfulFailovers++
		}
		ms := float64(a.Estimated.Milliseconds())
		failoverTotal += ms
		if sum.FastestFailoverMs == 0 || ms < sum.FastestFailoverMs {
			sum.FastestFailoverMs = ms
		}
		if ms > sum.SlowestFailoverMs {
			sum.SlowestFailoverMs = ms
		}
	}
	if len(actions) > 0 {
		sum.MeanFailoverMs = failoverTotal / float64(len(actions))
	}

	if mobileNodes > 0 {
		sum.RedundancyRatio = float64(len(links)) / float64(mobileNodes)
		if sum.RedundancyRatio > maxRedundancyRatio {
			sum.RedundancyRatio = maxRedundancyRatio
		}
	}

	sum.RoutingEfficiencyPct = routingEfficiency(paths, graph)
	return sum
}

// SuccessRatio is completed-over-total recovery actions as a
// percentage. Zero events means nothing failed, so the ratio is
// vacuously 100.
func SuccessRatio(actions []*model.RecoveryAction) float64 {
	if len(actions) == 0 {
		return 100
	}
	succeeded := 0
	for _, a := range actions {
		if a.Succeeded {
			succeeded++
		}
	}
	return 100 * float64(succeeded) / float64(len(actions))
}

// routingEfficiency compares discovered paths against the possible
// primary-to-destination pairs in the graph.
func routingEfficiency(paths []*model.RoutingPath, graph *model.TopologyGraph) float64 {
	if graph == nil {
		return 0
	}
	primaries, destinations := 0, 0
	for _, n := range graph.Nodes {
		switch n.Role {
		case model.RolePrimary:
			primaries++
		case model.RoleRelay, model.RoleEdge:
			destinations++
		}
	}
	pairs := primaries * destinations
	if pairs == 0 {
		return 0
	}
	pct := 100 * float64(len(paths)) / float64(pairs)
	if pct > 100 {
		pct = 100
	}
	return pct
}
