// Package loadtest drives concurrent prediction traffic against a running
// service and checks that a fixed model answers consistently.
package loadtest

import "time"

// Config holds configuration for a load test run.
type Config struct {
	BaseURL     string        // Base URL of the service
	Requests    int           // Number of prediction requests to send
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	Start       time.Time     // First date of the generated observations
	Seed        int64         // Seed for generated observations
	VerifyShare float64       // Share of requests replayed to check determinism, 0-1
	Verbose     bool          // Log every failed request
}

// PredictRequest is the body sent to POST /predict.
type PredictRequest struct {
	Date      string  `json:"dteday"`
	Hour      int     `json:"hr"`
	Weather   string  `json:"weathersit"`
	Temp      float64 `json:"temp"`
	ATemp     float64 `json:"atemp"`
	Humidity  float64 `json:"hum"`
	Windspeed float64 `json:"windspeed"`
}

// Result is the outcome of one request.
type Result struct {
	Status  int
	Count   int
	Code    string
	Latency time.Duration
	Err     error
}

// Stats holds run statistics.
type Stats struct {
	Generated    int
	Sent         int
	Succeeded    int
	ClientErrors int
	ServerErrors int
	Failed       int
	Replayed     int
	Inconsistent int
	ErrorCodes   map[string]int

	LatencyP50 time.Duration
	LatencyP95 time.Duration
	LatencyP99 time.Duration
	LatencyMax time.Duration

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}
