// Package main implements the Redline match worker. It consumes match
// requests from NATS, resolves them against the catalog, and publishes
// results. It also answers synchronous request/reply matches.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/RedlineAI/redline/engine/catalog"
	"github.com/RedlineAI/redline/engine/domain"
	"github.com/RedlineAI/redline/engine/match"
	"github.com/RedlineAI/redline/pkg/natsutil"
	"github.com/RedlineAI/redline/pkg/resilience"
)

const (
	subjectRequest = "redline.match.request"
	subjectResult  = "redline.match.result"
	subjectReply   = "redline.match"
)

// MatchRequest is the message consumed from redline.match.request and the
// request half of the redline.match reply subject.
type MatchRequest struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// MatchResponse is published to redline.match.result for every consumed
// request. Error is set when the description failed validation or the
// catalog was unavailable.
type MatchResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Vehicle     *domain.Vehicle `json:"vehicle,omitempty"`
	Score       int             `json:"score"`
	Error       string          `json:"error,omitempty"`
}

type Config struct {
	NATSURL   string
	Neo4jURL  string
	Neo4jUser string
	Neo4jPass string
}

func loadConfig() Config {
	return Config{
		NATSURL:   envOr("NATS_URL", nats.DefaultURL),
		Neo4jURL:  envOr("NEO4J_URL", "neo4j://localhost:7687"),
		Neo4jUser: envOr("NEO4J_USER", "neo4j"),
		Neo4jPass: envOr("NEO4J_PASS", "password"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(loadConfig(), logger); err != nil {
		logger.Error("worker exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURL, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPass, ""))
	if err != nil {
		return fmt.Errorf("neo4j driver: %w", err)
	}
	defer driver.Close(ctx)

	guarded := catalog.WithBreaker(catalog.New(driver), resilience.DefaultBreakerOpts)
	matcher := match.New(guarded, match.DefaultTables(), match.DefaultOptions(), logger)

	nc, err := nats.Connect(cfg.NATSURL, nats.Name("redline-worker"))
	if err != nil {
		return fmt.Errorf("nats connect: %w", err)
	}
	defer nc.Drain()

	handle := func(ctx context.Context, req MatchRequest) MatchResponse {
		resp := MatchResponse{ID: req.ID, Description: req.Description}
		result, err := matcher.Match(ctx, req.Description)
		if err != nil {
			resp.Error = err.Error()
			resp.Score = 1
			return resp
		}
		resp.Vehicle = result.Vehicle
		resp.Score = result.Score
		return resp
	}

	sub, err := natsutil.Subscribe(nc, subjectRequest, func(ctx context.Context, req MatchRequest) {
		resp := handle(ctx, req)
		if err := natsutil.Publish(ctx, nc, subjectResult, resp); err != nil {
			logger.Error("publish result", "id", req.ID, "err", err)
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subjectRequest, err)
	}
	defer sub.Unsubscribe()

	replySub, err := natsutil.SubscribeReply(nc, subjectReply, handle)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subjectReply, err)
	}
	defer replySub.Unsubscribe()

	logger.Info("worker started", "request_subject", subjectRequest, "reply_subject", subjectReply)
	<-ctx.Done()
	logger.Info("shutdown signal received")
	return nil
}
