// Package model contains domain models passed between layers.
package model

import (
	"math"
	"time"
)

// DateLayout is the calendar date format used by the historical data and by callers.
const DateLayout = "2006-01-02"

// Record is one hourly observation from the historical data source.
// Numeric fields use math.NaN() for missing values; Weather uses "".
type Record struct {
	Instant    int       // source row id, never a feature
	Date       time.Time // dteday
	Hour       float64   // hr, 0-23
	Weather    string    // weathersit, categorical
	Temp       float64   // normalized temperature
	ATemp      float64   // normalized feels-like temperature
	Humidity   float64   // normalized humidity
	Windspeed  float64   // normalized windspeed
	Casual     int       // target-adjacent, never a feature
	Registered int       // target-adjacent, never a feature
	Count      int       // cnt, regression target
}

// Missing reports whether a numeric value is absent.
func Missing(v float64) bool { return math.IsNaN(v) }

// Before returns the records whose date is strictly earlier than cutoff, preserving order.
func Before(records []Record, cutoff time.Time) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Date.Before(cutoff) {
			out = append(out, r)
		}
	}
	return out
}

// Targets extracts the cnt column as float64 values for regression.
func Targets(records []Record) []float64 {
	y := make([]float64, len(records))
	for i, r := range records {
		y[i] = float64(r.Count)
	}
	return y
}
