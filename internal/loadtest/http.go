package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/velocast/pkg/logger"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body. Each request carries a fresh X-Request-ID.
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	return c.client.Do(req)
}

// submitPredictions sends every request through a pool of workers and
// returns the results in request order.
func submitPredictions(ctx context.Context, config *Config, client *HTTPClient, requests []PredictRequest) []Result {
	log := logger.Get().Named("loadtest")
	log.Info(ctx, "submitting predictions",
		logger.Int("requests", len(requests)),
		logger.Int("workers", config.Workers))

	url := config.BaseURL + "/predict"
	results := make([]Result, len(requests))

	var (
		sent       int64
		lastReport atomic.Int64
	)

	indexChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexChan {
				results[idx] = submitSingle(ctx, client, url, requests[idx])
				if config.Verbose && results[idx].Status != http.StatusOK {
					log.Warn(ctx, "prediction failed",
						logger.Int("index", idx),
						logger.Int("status", results[idx].Status),
						logger.String("code", results[idx].Code))
				}

				total := atomic.AddInt64(&sent, 1)
				now := time.Now().UnixNano()
				last := lastReport.Load()
				if now-last >= int64(progressInterval) && lastReport.CompareAndSwap(last, now) {
					log.Info(ctx, "progress", logger.Int("sent", int(total)), logger.Int("total", len(requests)))
				}
			}
		}()
	}

	go func() {
		defer close(indexChan)
		for i := range requests {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	wg.Wait()
	return results[:atomic.LoadInt64(&sent)]
}

// submitSingle posts one observation and classifies the answer.
func submitSingle(ctx context.Context, client *HTTPClient, url string, body PredictRequest) Result {
	start := time.Now()
	resp, err := client.Post(ctx, url, body)
	if err != nil {
		return Result{Code: codeTransport, Err: err, Latency: time.Since(start)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	res := Result{Status: resp.StatusCode, Latency: time.Since(start)}
	if err != nil {
		res.Code, res.Err = codeTransport, err
		return res
	}

	var payload struct {
		Count *int   `json:"cnt"`
		Code  string `json:"code"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		res.Code, res.Err = codeDecode, err
		return res
	}
	if resp.StatusCode == http.StatusOK {
		if payload.Count == nil {
			res.Code, res.Err = codeDecode, fmt.Errorf("response without cnt: %s", data)
			return res
		}
		res.Count = *payload.Count
		return res
	}
	res.Code = payload.Code
	return res
}
