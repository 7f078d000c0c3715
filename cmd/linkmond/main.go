package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/signalsfoundry/handover-orchestrator/core"
	"github.com/signalsfoundry/handover-orchestrator/internal/logging"
	"github.com/signalsfoundry/handover-orchestrator/internal/monitor"
	"github.com/signalsfoundry/handover-orchestrator/internal/observability"
	"github.com/signalsfoundry/handover-orchestrator/internal/provider"
	"github.com/signalsfoundry/handover-orchestrator/timectrl"
)

// defaultScenario is a self-contained demo: three UAVs circling near
// the equator, two LEO satellites, and one ground gateway.
const defaultScenario = `{
  "uavs": [
    {"id": "uav-alpha", "tag": "desired",  "center": {"x": 6371.2, "y": 0,  "z": 0}, "radius_km": 5,  "period_sec": 300, "phase_deg": 0},
    {"id": "uav-bravo", "tag": "receiver", "center": {"x": 6371.2, "y": 20, "z": 0}, "radius_km": 8,  "period_sec": 240, "phase_deg": 90},
    {"id": "uav-charlie", "tag": "receiver", "center": {"x": 6371.2, "y": 45, "z": 5}, "radius_km": 6, "period_sec": 360, "phase_deg": 180}
  ],
  "satellites": [
    {"id": "leo-1",
     "tle1": "1 25544U 98067A   21275.59097222  .00000204  00000-0  10270-4 0  9990",
     "tle2": "2 25544  51.6459 115.9059 0001817  61.3028  35.9198 15.49370953257760"},
    {"id": "leo-2",
     "tle1": "1 43013U 17073A   21275.50000000  .00000100  00000-0  90000-5 0  9991",
     "tle2": "2 43013  98.7200  40.0000 0001500  90.0000 270.0000 14.19500000200000"}
  ],
  "gateways": {
    "gw-equator": {"x": 6371.0, "y": 30.0, "z": 0.0}
  }
}`

func main() {
	scenarioPath := flag.String("scenario", "", "path to a JSON scenario (built-in demo when empty)")
	listen := flag.String("listen", ":9090", "HTTP listen address for metrics and the snapshot feed")
	timeScale := flag.Float64("time-scale", 1, "clock rate multiplier for accelerated demos")
	seed := flag.Int64("seed", 0, "random seed (0 = time-based)")
	feedInterval := flag.Duration("feed-interval", time.Second, "minimum interval between websocket snapshot pushes")
	statusEvery := flag.Duration("status-every", 5*time.Second, "interval between summary log lines (0 disables)")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "tracing init failed", logging.Err(err))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	var clock timectrl.Clock = timectrl.SystemClock{}
	if *timeScale != 1 {
		clock = timectrl.NewScaledClock(time.Now().UTC(), *timeScale)
	}

	source, err := loadSource(*scenarioPath, clock)
	if err != nil {
		log.Error(ctx, "scenario load failed", logging.Err(err))
		os.Exit(1)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	// Each monitor runs on its own goroutine, so each gets its own
	// random stream.
	quality := core.NewSyntheticQualitySource(rand.New(rand.NewSource(*seed)))
	registry := core.NewConnectionRegistry(core.DefaultRegistryConfig(), quality, rand.New(rand.NewSource(*seed+1)), clock)
	engine := core.NewHandoverEngine(core.DefaultPhaseDurations(), rand.New(rand.NewSource(*seed+2)), clock)
	detector := core.NewFailoverDetector(core.DefaultDetectorConfig(), rand.New(rand.NewSource(*seed+3)), clock)
	recovery := core.NewRecoveryDispatcher(core.DefaultDispatcherConfig(), rand.New(rand.NewSource(*seed+4)))
	builder := core.NewTopologyBuilder(core.DefaultTopologyConfig(), rand.New(rand.NewSource(*seed+5)))

	collector, err := observability.NewLinkCollector(nil)
	if err != nil {
		log.Error(ctx, "metrics init failed", logging.Err(err))
		os.Exit(1)
	}

	sub, err := monitor.New(monitor.DefaultConfig(), source, registry, engine, detector, recovery, builder, collector, log)
	if err != nil {
		log.Error(ctx, "subsystem init failed", logging.Err(err))
		os.Exit(1)
	}
	if err := sub.Enable(ctx); err != nil {
		log.Error(ctx, "subsystem enable failed", logging.Err(err))
		os.Exit(1)
	}

	feed := newFeed(sub.Board(), *feedInterval, log)
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	mux.Handle("/ws", feed)
	mux.HandleFunc("/snapshot", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(sub.Board().Snapshot()); err != nil {
			log.Warn(r.Context(), "snapshot encode failed", logging.Err(err))
		}
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})

	srv := &http.Server{Addr: *listen, Handler: mux}
	go func() {
		log.Info(ctx, "listening", logging.String("addr", *listen))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "http server failed", logging.Err(err))
			stop()
		}
	}()

	if *statusEvery > 0 {
		go logStatus(ctx, sub.Board(), *statusEvery, log)
	}

	<-ctx.Done()
	log.Info(context.Background(), "shutting down")

	sub.Disable()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn(shutdownCtx, "http shutdown failed", logging.Err(err))
	}
}

func loadSource(path string, clock timectrl.Clock) (*provider.Source, error) {
	if path == "" {
		return provider.LoadScenario(strings.NewReader(defaultScenario), clock)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scenario %q: %w", path, err)
	}
	defer f.Close()
	return provider.LoadScenario(f, clock)
}

func logStatus(ctx context.Context, board *monitor.Board, every time.Duration, log logging.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sum := board.Summary()
			log.Info(ctx, "link status",
				logging.Int("links", sum.TotalLinks),
				logging.Int("active", sum.ActiveLinks),
				logging.Float64("mean_reliability_pct", sum.MeanReliabilityPct),
				logging.Float64("success_ratio_pct", sum.SuccessRatioPct),
				logging.Float64("redundancy", sum.RedundancyRatio),
			)
			for _, sess := range board.Sessions() {
				log.Info(ctx, "handover session",
					logging.String("node", sess.NodeID),
					logging.String("status", board.StatusLine(sess.NodeID)),
				)
			}
		}
	}
}
