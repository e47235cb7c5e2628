// Command batch matches a file of vehicle descriptions through the worker's
// NATS reply subject and prints one JSON result per line. Requests run on a
// bounded worker pool behind a shared rate limiter and are retried, so large
// files can run against a live deployment without overwhelming it.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"golang.org/x/time/rate"

	"github.com/RedlineAI/redline/engine/domain"
	"github.com/RedlineAI/redline/pkg/fn"
	"github.com/RedlineAI/redline/pkg/natsutil"
)

const subjectReply = "redline.match"

type MatchRequest struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

type MatchResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Vehicle     *domain.Vehicle `json:"vehicle,omitempty"`
	Score       int             `json:"score"`
	Error       string          `json:"error,omitempty"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	natsURL := flag.String("nats", envOr("NATS_URL", nats.DefaultURL), "NATS URL")
	file := flag.String("file", "", "file with one description per line (default: remaining args)")
	rps := flag.Float64("rate", 10, "requests per second")
	workers := flag.Int("workers", 4, "concurrent requests")
	timeout := flag.Duration("timeout", 5*time.Second, "per-request timeout")
	flag.Parse()

	descriptions, err := readDescriptions(*file, flag.Args())
	if err != nil {
		log.Fatalf("read descriptions: %v", err)
	}
	if len(descriptions) == 0 {
		log.Fatal("no descriptions given; use -file or arguments")
	}

	nc, err := nats.Connect(*natsURL, nats.Name("redline-batch"))
	if err != nil {
		log.Fatalf("nats connect: %v", err)
	}
	defer nc.Close()

	limiter := rate.NewLimiter(rate.Limit(*rps), 1)

	results := fn.ParMapResult(descriptions, *workers, func(desc string) fn.Result[MatchResponse] {
		if err := limiter.Wait(ctx); err != nil {
			return fn.Err[MatchResponse](err)
		}
		req := MatchRequest{ID: uuid.NewString(), Description: desc}
		return fn.Retry(ctx, fn.DefaultRetry, func(ctx context.Context) fn.Result[MatchResponse] {
			reqCtx, cancel := context.WithTimeout(ctx, *timeout)
			defer cancel()
			return fn.FromPair(natsutil.Request[MatchRequest, MatchResponse](reqCtx, nc, subjectReply, req))
		})
	})

	enc := json.NewEncoder(os.Stdout)
	var matched, unmatched, failed int
	for i, result := range results {
		resp, err := result.Unwrap()
		if err != nil {
			failed++
			log.Printf("request %q: %v", descriptions[i], err)
			continue
		}
		switch {
		case resp.Error != "":
			failed++
		case resp.Vehicle != nil:
			matched++
		default:
			unmatched++
		}
		enc.Encode(resp)
	}

	log.Printf("done: %d matched, %d unmatched, %d failed", matched, unmatched, failed)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func readDescriptions(file string, args []string) ([]string, error) {
	if file == "" {
		return args, nil
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			out = append(out, line)
		}
	}
	return fn.Unique(out), sc.Err()
}
