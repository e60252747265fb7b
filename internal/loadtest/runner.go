package loadtest

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/okian/velocast/pkg/logger"
)

// Run executes the complete load test and returns its statistics.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting velocast load test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("requests", config.Requests),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
		logger.Float64("verifyShare", config.VerifyShare))

	client := newHTTPClient(config.Timeout)

	// Step 1: Check service health and model availability
	if err := checkService(ctx, config, client); err != nil {
		return nil, err
	}

	// Step 2: Generate observations
	requests, err := generateRequests(ctx, config, stats)
	if err != nil {
		return nil, fmt.Errorf("observation generation failed: %w", err)
	}

	// Step 3: Submit predictions concurrently
	results := submitPredictions(ctx, config, client, requests)
	summarize(results, stats)

	// Step 4: Replay a sample and compare
	verifyDeterminism(ctx, config, client, requests, results, stats)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(ctx, stats)
	if err := ctx.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}

func (c *Config) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base URL must not be empty", ErrInvalidConfig)
	}
	if c.Requests < 1 {
		return fmt.Errorf("%w: requests must be at least 1, got %d", ErrInvalidConfig, c.Requests)
	}
	if c.Workers < 1 {
		c.Workers = runtime.NumCPU()
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Start.IsZero() {
		c.Start = time.Date(2012, time.October, 1, 0, 0, 0, 0, time.UTC)
	}
	return nil
}

// checkService verifies the service is running and serving a model.
func checkService(ctx context.Context, config *Config, client *HTTPClient) error {
	logger.Get().Info(ctx, "checking service health")

	for _, probe := range []struct {
		path string
		err  error
	}{
		{"/healthz", ErrUnhealthy},
		{"/model", ErrNoModel},
	} {
		resp, err := client.Get(ctx, config.BaseURL+probe.path)
		if err != nil {
			return fmt.Errorf("%w: %w", probe.err, err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%w: %s returned %d", probe.err, probe.path, resp.StatusCode)
		}
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// displayFinalStats logs the final test statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, requestsPerSecond float64

	if stats.Sent > 0 {
		successRate = float64(stats.Succeeded) / float64(stats.Sent) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		requestsPerSecond = float64(stats.Sent) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("generated", stats.Generated),
		logger.Int("sent", stats.Sent),
		logger.Int("succeeded", stats.Succeeded),
		logger.Int("clientErrors", stats.ClientErrors),
		logger.Int("serverErrors", stats.ServerErrors),
		logger.Int("failed", stats.Failed),
		logger.Int("replayed", stats.Replayed),
		logger.Int("inconsistent", stats.Inconsistent),
		logger.Any("errorCodes", stats.ErrorCodes),
		logger.Duration("p50", stats.LatencyP50),
		logger.Duration("p95", stats.LatencyP95),
		logger.Duration("p99", stats.LatencyP99),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("requestsPerSecond", requestsPerSecond))
}
