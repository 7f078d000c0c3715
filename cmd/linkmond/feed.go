package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/signalsfoundry/handover-orchestrator/internal/logging"
	"github.com/signalsfoundry/handover-orchestrator/internal/monitor"
)

// feed pushes board snapshots to websocket clients. Each client gets
// its own rate limiter so a slow dashboard cannot starve the others.
type feed struct {
	board    *monitor.Board
	interval time.Duration
	log      logging.Logger
	upgrader websocket.Upgrader
}

func newFeed(board *monitor.Board, interval time.Duration, log logging.Logger) *feed {
	if interval <= 0 {
		interval = time.Second
	}
	return &feed{
		board:    board,
		interval: interval,
		log:      log,
		upgrader: websocket.Upgrader{
			// Dashboards are served from arbitrary origins in demos.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the connection and streams snapshots until the
// client goes away. The write loop runs in the handler itself: the
// request context dies as soon as ServeHTTP returns, so the connection
// lifetime is tracked with its own context, ended by the reader.
func (f *feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.log.Warn(r.Context(), "websocket upgrade failed", logging.Err(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Drain client messages so pings and close frames are processed.
	// A read error means the client is gone; stop the write loop.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	limiter := rate.NewLimiter(rate.Every(f.interval), 1)
	for {
		if err := limiter.Wait(ctx); err != nil {
			return
		}
		if err := conn.WriteJSON(f.board.Snapshot()); err != nil {
			return
		}
	}
}
