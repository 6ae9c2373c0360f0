package cmd

import (
	"context"
	"net/http"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/FoxhunterLabs/Casper-Fusion/sim"
)

var (
	serveAddr    string
	tickInterval time.Duration
	corsOrigins  []string
)

// Prometheus metrics for the serve loop.
var (
	ticksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "casper_ticks_total",
		Help: "Total simulation ticks stepped",
	})
	stepDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "casper_step_duration_seconds",
		Help:    "Wall time per simulation step",
		Buckets: prometheus.DefBuckets,
	})
	stepFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "casper_step_failures_total",
		Help: "Simulation steps that failed",
	})
	wsClientsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "casper_ws_clients_active",
		Help: "Connected websocket clients",
	})
)

func init() {
	prometheus.MustRegister(ticksTotal, stepDuration, stepFailures, wsClientsActive)

	addScenarioFlags(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8086", "listen address")
	serveCmd.Flags().DurationVar(&tickInterval, "tick-interval", time.Second, "wall-clock time between simulation ticks")
	serveCmd.Flags().StringSliceVar(&corsOrigins, "cors-origin", []string{"http://localhost:3000"}, "allowed CORS origins")
	rootCmd.AddCommand(serveCmd)
}

// serveCmd runs the simulation on a wall-clock ticker and exposes the
// telemetry history, audit chain, and run state over a read-only HTTP API,
// plus a websocket stream of new telemetry and Prometheus metrics. The HTTP
// handlers never mutate the run; the ticker goroutine is the sole stepper and
// the mutex below serializes its access against readers.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the simulation continuously behind a read-only HTTP API",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		state := newState(cfg)
		engine := sim.NewStepEngine(cfg)

		var mu sync.RWMutex
		hub := newTelemetryHub()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		go hub.run(ctx)
		go func() {
			ticker := time.NewTicker(tickInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					start := time.Now()
					mu.Lock()
					err := engine.Step(state)
					var last any
					if err == nil {
						if tel, ok := state.History.Last(); ok {
							last = tel
						}
					}
					mu.Unlock()
					stepDuration.Observe(time.Since(start).Seconds())
					if err != nil {
						stepFailures.Inc()
						logrus.Errorf("serve: step failed: %v", err)
						continue
					}
					ticksTotal.Inc()
					if last != nil {
						hub.broadcast(last)
					}
				}
			}
		}()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.RealIP)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
		}))

		r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
		r.Handle("/metrics", promhttp.Handler())
		r.Get("/ws", hub.serveWS)

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/state", func(w http.ResponseWriter, _ *http.Request) {
				mu.RLock()
				resp := map[string]any{
					"run_id":         state.RunID,
					"tick":           state.Tick,
					"mission_time_s": state.MissionTimeS,
					"seed":           int64(state.Seed),
					"ao":             state.AOName,
					"environment":    state.EnvName,
					"envelope":       state.EnvelopeName,
					"strategy":       state.StrategyName,
					"history_len":    state.History.Len(),
					"audit_len":      state.AuditChain.Len(),
				}
				mu.RUnlock()
				writeJSON(w, http.StatusOK, resp)
			})
			r.Get("/telemetry", func(w http.ResponseWriter, req *http.Request) {
				limit := parseLimit(req, 100)
				mu.RLock()
				items := state.History.Items()
				mu.RUnlock()
				writeJSON(w, http.StatusOK, tail(items, limit))
			})
			r.Get("/audit", func(w http.ResponseWriter, req *http.Request) {
				limit := parseLimit(req, 100)
				mu.RLock()
				items := state.AuditChain.Items()
				mu.RUnlock()
				writeJSON(w, http.StatusOK, tail(items, limit))
			})
		})

		srv := &http.Server{Addr: serveAddr, Handler: r}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		logrus.Infof("Serving run %s on %s (tick interval %s)", state.RunID, serveAddr, tickInterval)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server: %v", err)
		}
	},
}

func parseLimit(req *http.Request, def int) int {
	raw := req.URL.Query().Get("limit")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func tail[T any](items []T, limit int) []T {
	if len(items) > limit {
		return items[len(items)-limit:]
	}
	return items
}
