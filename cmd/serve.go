package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/uhi-synth/internal/config"
	"github.com/sells-group/uhi-synth/internal/metrics"
	"github.com/sells-group/uhi-synth/internal/model"
	"github.com/sells-group/uhi-synth/internal/stats"
	"github.com/sells-group/uhi-synth/internal/store"
	"github.com/sells-group/uhi-synth/internal/synth"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve dataset generation over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("server"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(st, cfg.Server),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(context.Background())
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// newRouter builds the HTTP API: health and metrics endpoints, dataset
// generation, and the run registry, all behind CORS and a global rate
// limit.
func newRouter(st store.Store, serverCfg config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))
	r.Use(rateLimitMiddleware(rate.NewLimiter(rate.Limit(serverCfg.RateLimit), serverCfg.RateBurst)))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/datasets", handleGenerateDataset(st, serverCfg.MaxCells))
	r.Get("/runs", handleListRuns(st))
	r.Get("/runs/{id}", handleGetRun(st))

	return r
}

// rateLimitMiddleware rejects requests beyond the shared limiter with 429.
func rateLimitMiddleware(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// generateRequest is the POST /datasets body.
type generateRequest struct {
	Rows int   `json:"rows"`
	Cols int   `json:"cols"`
	Seed int64 `json:"seed"`
}

// handleGenerateDataset synthesizes a dataset inline and returns it as
// JSON. Grids are capped at maxCells to bound the response size; file
// export stays a CLI concern.
func handleGenerateDataset(st store.Store, maxCells int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		if req.Rows <= 0 || req.Cols <= 0 {
			metrics.DatasetsGenerated.WithLabelValues("api", "invalid").Inc()
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "rows and cols must be positive"})
			return
		}
		if maxCells > 0 && req.Rows*req.Cols > maxCells {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("grid exceeds %d cells", maxCells),
			})
			return
		}

		start := time.Now()
		ds, err := synth.Generate(req.Rows, req.Cols, req.Seed)
		if err != nil {
			metrics.DatasetsGenerated.WithLabelValues("api", "invalid").Inc()
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		metrics.GenerateDuration.Observe(time.Since(start).Seconds())
		metrics.CellsGenerated.Add(float64(ds.Meta.Samples))
		metrics.DatasetsGenerated.WithLabelValues("api", "complete").Inc()

		recordAPIRun(r.Context(), st, ds)
		writeJSON(w, http.StatusOK, ds)
	}
}

// recordAPIRun persists an API-triggered generation. Registry failures
// are logged, not surfaced; the dataset was already produced.
func recordAPIRun(ctx context.Context, st store.Store, ds *model.Dataset) {
	if st == nil {
		return
	}
	run, err := st.CreateRun(ctx, ds.Meta.Rows, ds.Meta.Cols, ds.Meta.Seed)
	if err != nil {
		zap.L().Error("record api run", zap.Error(err))
		return
	}
	if err := st.CompleteRun(ctx, run.ID, stats.SummarizeRun(ds)); err != nil {
		zap.L().Error("complete api run", zap.String("run_id", run.ID), zap.Error(err))
	}
}

func handleListRuns(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runs, err := st.ListRuns(r.Context(), store.RunFilter{
			Status: model.RunStatus(r.URL.Query().Get("status")),
		})
		if err != nil {
			zap.L().Error("list runs", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list runs failed"})
			return
		}
		if runs == nil {
			runs = []model.GenerationRun{}
		}
		writeJSON(w, http.StatusOK, runs)
	}
}

func handleGetRun(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		run, err := st.GetRun(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "run not found"})
			return
		}
		writeJSON(w, http.StatusOK, run)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("write response", zap.Error(err))
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
