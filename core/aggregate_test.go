package core

import (
	"testing"
	"time"

	"github.com/signalsfoundry/handover-orchestrator/model"
)

// TestSuccessRatioVacuouslyFull: with no recovery actions the success
// ratio is 100%, not 0 and not NaN.
func TestSuccessRatioVacuouslyFull(t *testing.T) {
	if got := SuccessRatio(nil); got != 100 {
		t.Fatalf("expected 100 for the empty action set, got %v", got)
	}
}

// TestSuccessRatioCounts checks the completed-over-total arithmetic.
func TestSuccessRatioCounts(t *testing.T) {
	actions := []*model.RecoveryAction{
		{Succeeded: true}, {Succeeded: true}, {Succeeded: true}, {Succeeded: false},
	}
	if got := SuccessRatio(actions); got != 75 {
		t.Fatalf("expected 75, got %v", got)
	}
}

// TestAggregateEmptyInputs: degenerate inputs produce zero-valued
// metrics apart from the vacuous success ratio.
func TestAggregateEmptyInputs(t *testing.T) {
	sum := Aggregate(nil, nil, nil, nil, &model.TopologyGraph{}, 0)
	if sum.TotalLinks != 0 || sum.ActiveLinks != 0 {
		t.Fatalf("expected zero link counts, got %+v", sum)
	}
	if sum.SuccessRatioPct != 100 {
		t.Fatalf("expected vacuous 100%% success ratio, got %v", sum.SuccessRatioPct)
	}
	if sum.MeanReliabilityPct != 0 || sum.RoutingEfficiencyPct != 0 || sum.RedundancyRatio != 0 {
		t.Fatalf("expected zero derived metrics, got %+v", sum)
	}
}

// TestAggregateLinkAndFailoverStats covers the headline counters and
// the fastest/slowest bookkeeping.
func TestAggregateLinkAndFailoverStats(t *testing.T) {
	links := []*model.Link{
		{Status: model.StatusActive, Quality: model.QualityVector{ReliabilityPct: 90}},
		{Status: model.StatusActive, Quality: model.QualityVector{ReliabilityPct: 80}},
		{Status: model.StatusDegraded, Quality: model.QualityVector{ReliabilityPct: 40}},
	}
	events := []*model.FailoverEvent{
		{EstimatedDuration: 2 * time.Second},
		{EstimatedDuration: 4 * time.Second},
	}
	actions := []*model.RecoveryAction{
		{Succeeded: true, Estimated: 4 * time.Second},
		{Succeeded: false, Estimated: 30 * time.Second},
	}

	sum := Aggregate(links, events, actions, nil, &model.TopologyGraph{}, 2)
	if sum.TotalLinks != 3 || sum.ActiveLinks != 2 {
		t.Fatalf("expected 3 links / 2 active, got %d/%d", sum.TotalLinks, sum.ActiveLinks)
	}
	if sum.MeanReliabilityPct != 85 {
		t.Fatalf("expected mean reliability 85 over active links only, got %v", sum.MeanReliabilityPct)
	}
	if sum.MeanEventDurationMs != 3000 {
		t.Fatalf("expected mean event duration 3000ms, got %v", sum.MeanEventDurationMs)
	}
	if sum.TotalFailovers != 2 || sum.SuccessfulFailovers != 1 {
		t.Fatalf("expected 2 failovers / 1 successful, got %d/%d", sum.TotalFailovers, sum.SuccessfulFailovers)
	}
	if sum.FastestFailoverMs != 4000 || sum.SlowestFailoverMs != 30000 {
		t.Fatalf("expected fastest 4000 / slowest 30000, got %v/%v", sum.FastestFailoverMs, sum.SlowestFailoverMs)
	}
	if sum.MeanFailoverMs != 17000 {
		t.Fatalf("expected mean failover 17000ms, got %v", sum.MeanFailoverMs)
	}
	if sum.SuccessRatioPct != 50 {
		t.Fatalf("expected 50%% success ratio, got %v", sum.SuccessRatioPct)
	}
	if sum.RedundancyRatio != 1.5 {
		t.Fatalf("expected redundancy 1.5, got %v", sum.RedundancyRatio)
	}
}

// TestAggregateRedundancyCapped: a dense mesh cannot push the ratio
// past the cap.
func TestAggregateRedundancyCapped(t *testing.T) {
	links := make([]*model.Link, 20)
	for i := range links {
		links[i] = &model.Link{Status: model.StatusActive}
	}
	sum := Aggregate(links, nil, nil, nil, &model.TopologyGraph{}, 1)
	if sum.RedundancyRatio != 5 {
		t.Fatalf("expected redundancy capped at 5, got %v", sum.RedundancyRatio)
	}
}

// TestRoutingEfficiency: discovered paths over possible pairs.
func TestRoutingEfficiency(t *testing.T) {
	graph := &model.TopologyGraph{Nodes: []*model.TopologyNode{
		{ID: "gw-1", Role: model.RolePrimary},
		{ID: "uav-1", Role: model.RoleRelay},
		{ID: "uav-2", Role: model.RoleRelay},
	}}
	paths := []*model.RoutingPath{{SourceID: "gw-1", DestinationID: "uav-1"}}

	sum := Aggregate(nil, nil, nil, paths, graph, 2)
	if sum.RoutingEfficiencyPct != 50 {
		t.Fatalf("expected 50%% routing efficiency (1 of 2 pairs), got %v", sum.RoutingEfficiencyPct)
	}
}
