package main

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/signalsfoundry/handover-orchestrator/internal/logging"
	"github.com/signalsfoundry/handover-orchestrator/internal/monitor"
	"github.com/signalsfoundry/handover-orchestrator/model"
)

func dialFeed(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	return conn
}

// TestFeedStreamsSnapshots: a connected client keeps receiving board
// snapshots, not just the first one, and each decodes to the published
// state. The connection must outlive the handler's request context.
func TestFeedStreamsSnapshots(t *testing.T) {
	board := monitor.NewBoard()
	board.PublishLinks([]*model.Link{{
		ID: "link-uav-1-sat-a-satellite_ntn", NodeID: "uav-1",
		AccessPointID: "sat-a", Class: model.ClassSatelliteNTN,
		Status: model.StatusActive,
	}})
	board.PublishSummary(model.MetricsSummary{TotalLinks: 1, ActiveLinks: 1})

	srv := httptest.NewServer(newFeed(board, 20*time.Millisecond, logging.Noop()))
	defer srv.Close()

	conn := dialFeed(t, srv)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	for i := 0; i < 3; i++ {
		var snap monitor.Snapshot
		if err := conn.ReadJSON(&snap); err != nil {
			t.Fatalf("snapshot %d never arrived: %v", i, err)
		}
		if len(snap.Links) != 1 || snap.Links[0].NodeID != "uav-1" {
			t.Fatalf("snapshot %d: unexpected links %+v", i, snap.Links)
		}
		if snap.Summary.TotalLinks != 1 {
			t.Fatalf("snapshot %d: unexpected summary %+v", i, snap.Summary)
		}
	}
}

// TestFeedTracksBoardUpdates: state published after the client connects
// shows up in later pushes.
func TestFeedTracksBoardUpdates(t *testing.T) {
	board := monitor.NewBoard()
	srv := httptest.NewServer(newFeed(board, 10*time.Millisecond, logging.Noop()))
	defer srv.Close()

	conn := dialFeed(t, srv)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var snap monitor.Snapshot
	if err := conn.ReadJSON(&snap); err != nil {
		t.Fatalf("first snapshot: %v", err)
	}
	if len(snap.Links) != 0 {
		t.Fatalf("expected an empty first snapshot, got %+v", snap.Links)
	}

	board.PublishLinks([]*model.Link{{ID: "l1", NodeID: "uav-1", Status: model.StatusActive}})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if err := conn.ReadJSON(&snap); err != nil {
			t.Fatalf("read after publish: %v", err)
		}
		if len(snap.Links) == 1 {
			return
		}
	}
	t.Fatal("published link never reached the feed")
}

// TestFeedClientDisconnect: a client hanging up must not wedge the
// handler; a fresh client still gets served.
func TestFeedClientDisconnect(t *testing.T) {
	board := monitor.NewBoard()
	srv := httptest.NewServer(newFeed(board, 10*time.Millisecond, logging.Noop()))
	defer srv.Close()

	first := dialFeed(t, srv)
	first.SetReadDeadline(time.Now().Add(2 * time.Second))
	var snap monitor.Snapshot
	if err := first.ReadJSON(&snap); err != nil {
		t.Fatalf("first client snapshot: %v", err)
	}
	first.Close()

	second := dialFeed(t, srv)
	defer second.Close()
	second.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := second.ReadJSON(&snap); err != nil {
		t.Fatalf("second client snapshot: %v", err)
	}
}
