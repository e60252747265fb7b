package loadtest

import (
	"context"
	"fmt"

	"github.com/okian/velocast/internal/domain/model"
	"github.com/okian/velocast/internal/sampledata"
	"github.com/okian/velocast/pkg/logger"
)

const hoursPerDay = 24

// generateRequests builds n prediction bodies from synthetic hourly history.
func generateRequests(ctx context.Context, config *Config, stats *Stats) ([]PredictRequest, error) {
	logger.Get().Info(ctx, "generating observations", logger.Int("requests", config.Requests))

	days := (config.Requests + hoursPerDay - 1) / hoursPerDay
	records := sampledata.Generate(sampledata.Config{
		Start: config.Start,
		Days:  days,
		Seed:  config.Seed,
	})
	if len(records) < config.Requests {
		return nil, fmt.Errorf("generated %d records, want %d", len(records), config.Requests)
	}

	out := make([]PredictRequest, config.Requests)
	for i := range out {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled during generation: %w", err)
		}
		out[i] = toRequest(records[i])
	}

	stats.Generated = len(out)
	return out, nil
}

func toRequest(r model.Record) PredictRequest {
	return PredictRequest{
		Date:      r.Date.Format(model.DateLayout),
		Hour:      int(r.Hour),
		Weather:   r.Weather,
		Temp:      r.Temp,
		ATemp:     r.ATemp,
		Humidity:  r.Humidity,
		Windspeed: r.Windspeed,
	}
}
