package loadtest

import (
	"context"
	"math"
	"net/http"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/okian/velocast/pkg/logger"
)

// replayIndices picks every k-th successful request so that roughly share of them is replayed.
func replayIndices(results []Result, share float64) []int {
	if share <= 0 {
		return nil
	}
	step := int(math.Max(1, math.Round(1/math.Min(share, 1))))
	var out []int
	for i := 0; i < len(results); i += step {
		if results[i].Status == http.StatusOK {
			out = append(out, i)
		}
	}
	return out
}

// verifyDeterminism replays a sample of answered requests and counts answers
// that changed. A model reload during the run also shows up here.
func verifyDeterminism(ctx context.Context, config *Config, client *HTTPClient,
	requests []PredictRequest, results []Result, stats *Stats,
) {
	log := logger.Get().Named("loadtest")
	indices := replayIndices(results, config.VerifyShare)
	if len(indices) == 0 {
		return
	}
	log.Info(ctx, "replaying sample", logger.Int("requests", len(indices)))

	url := config.BaseURL + "/predict"
	for _, idx := range indices {
		if ctx.Err() != nil {
			return
		}
		again := submitSingle(ctx, client, url, requests[idx])
		if again.Status != http.StatusOK {
			continue
		}
		stats.Replayed++
		if again.Count != results[idx].Count {
			stats.Inconsistent++
			log.Warn(ctx, "prediction changed on replay",
				logger.Int("index", idx),
				logger.Int("first", results[idx].Count),
				logger.Int("replay", again.Count))
		}
	}
}

// summarize tallies results into stats.
func summarize(results []Result, stats *Stats) {
	stats.Sent = len(results)
	stats.ErrorCodes = map[string]int{}

	latencies := make([]float64, 0, len(results))
	for _, r := range results {
		switch {
		case r.Err != nil && r.Status == 0:
			stats.Failed++
		case r.Status == http.StatusOK && r.Err == nil:
			stats.Succeeded++
		case r.Status >= http.StatusInternalServerError:
			stats.ServerErrors++
		case r.Status >= http.StatusBadRequest:
			stats.ClientErrors++
		default:
			stats.Failed++
		}
		if r.Code != "" {
			stats.ErrorCodes[r.Code]++
		}
		if r.Status != 0 {
			latencies = append(latencies, float64(r.Latency))
		}
	}
	if len(latencies) == 0 {
		return
	}

	sort.Float64s(latencies)
	q := func(p float64) time.Duration {
		return time.Duration(stat.Quantile(p, stat.Empirical, latencies, nil))
	}
	stats.LatencyP50 = q(0.50)
	stats.LatencyP95 = q(0.95)
	stats.LatencyP99 = q(0.99)
	stats.LatencyMax = time.Duration(latencies[len(latencies)-1])
}
