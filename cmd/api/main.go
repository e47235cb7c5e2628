// Package main implements the Redline match API server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/RedlineAI/redline/engine/catalog"
	"github.com/RedlineAI/redline/engine/domain"
	"github.com/RedlineAI/redline/engine/match"
	"github.com/RedlineAI/redline/pkg/metrics"
	"github.com/RedlineAI/redline/pkg/mid"
	"github.com/RedlineAI/redline/pkg/resilience"
)

// Config holds all environment-based configuration.
type Config struct {
	Port        string
	MetricsPort int
	Neo4jURL    string
	Neo4jUser   string
	Neo4jPass   string
	CORSOrigin  string
	Policy      string
	FuzzyMode   string
}

func loadConfig() Config {
	metricsPort, _ := strconv.Atoi(envOr("METRICS_PORT", "9090"))
	return Config{
		Port:        envOr("PORT", "8080"),
		MetricsPort: metricsPort,
		Neo4jURL:    envOr("NEO4J_URL", "neo4j://localhost:7687"),
		Neo4jUser:   envOr("NEO4J_USER", "neo4j"),
		Neo4jPass:   envOr("NEO4J_PASS", "password"),
		CORSOrigin:  envOr("CORS_ORIGIN", "*"),
		Policy:      envOr("SCORE_POLICY", "weighted"),
		FuzzyMode:   envOr("FUZZY_MODE", "legacy"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func matchOptions(cfg Config) match.Options {
	opts := match.DefaultOptions()
	if cfg.Policy == "tiered" {
		opts.Policy = match.PolicyTiered
	}
	if cfg.FuzzyMode == "corrected" {
		opts.CorrectedFuzzy = true
	} else if cfg.FuzzyMode == "off" {
		opts.FuzzyFallback = false
	}
	return opts
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := loadConfig()

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Connect to Neo4j ---
	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURL, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPass, ""))
	if err != nil {
		return fmt.Errorf("neo4j driver: %w", err)
	}
	defer driver.Close(ctx)

	store := catalog.New(driver)
	guarded := catalog.WithBreaker(store, resilience.DefaultBreakerOpts)

	// --- Build matcher ---
	reg := metrics.New()
	matcher := match.New(guarded, match.DefaultTables(), matchOptions(cfg), logger).WithMetrics(reg)
	reg.ServeAsync(cfg.MetricsPort)

	// --- Build HTTP server ---
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", handleHealth(guarded))
	mux.HandleFunc("POST /api/match", handleMatch(matcher, logger))
	mux.HandleFunc("GET /api/vehicles/{id}", handleVehicle(store, logger))

	handler := mid.Chain(mux,
		mid.Recover(logger),
		mid.Logger(logger),
		mid.CORS(cfg.CORSOrigin),
		mid.OTel("redline-api"),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// --- Graceful shutdown ---
	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "port", cfg.Port, "policy", cfg.Policy)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

// --- Handlers ---

func handleHealth(cat *catalog.BreakerCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status":  "ok",
			"catalog": cat.State().String(),
		})
	}
}

// MatchRequest is the JSON body for POST /api/match.
type MatchRequest struct {
	Description string `json:"description"`
}

func handleMatch(matcher *match.Matcher, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.Description == "" {
			http.Error(w, `{"error":"description is required"}`, http.StatusBadRequest)
			return
		}

		result, err := matcher.Match(r.Context(), req.Description)
		if err != nil {
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				http.Error(w, fmt.Sprintf(`{"error":%q}`, verr.Error()), http.StatusBadRequest)
				return
			}
			logger.Error("match failed", "err", err)
			http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}

func handleVehicle(store *catalog.Store, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := store.GetVehicle(r.Context(), r.PathValue("id"))
		if err != nil {
			logger.Warn("vehicle lookup failed", "id", r.PathValue("id"), "err", err)
			http.Error(w, `{"error":"vehicle not found"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(v)
	}
}
