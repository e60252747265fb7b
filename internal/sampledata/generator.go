// Package sampledata generates synthetic hourly rental records shaped like the
// historical data, for demos, smoke tests and load tests of the service.
package sampledata

import (
	"math"
	"math/rand"
	"time"

	"github.com/okian/velocast/internal/domain/model"
)

// Weather vocabulary used by generated records.
const (
	WeatherClear     = "Clear"
	WeatherMist      = "Mist"
	WeatherLightRain = "Light rain"
	WeatherHeavyRain = "Heavy rain"
)

// Constants shaping the synthetic demand curve.
const (
	hoursPerDay       = 24
	daysPerYear       = 365.0
	seasonPeakDay     = 200.0
	baseDemand        = 40.0
	commutePeak       = 320.0
	middayPeak        = 140.0
	weekendMidday     = 260.0
	registeredShare   = 0.8
	weekendRegShare   = 0.55
	defaultRandomSeed = 42
)

var weatherFactor = map[string]float64{
	WeatherClear:     1.0,
	WeatherMist:      0.85,
	WeatherLightRain: 0.45,
	WeatherHeavyRain: 0.15,
}

// Config controls generation.
type Config struct {
	Start       time.Time
	Days        int
	Seed        int64
	MissingRate float64 // chance that a feature cell is blanked, never in the first row
	HeavyRain   bool    // include the rare heavy-rain category
}

// Generate returns Days*24 records starting at Start, ordered by date and hour.
func Generate(cfg Config) []model.Record {
	seed := cfg.Seed
	if seed == 0 {
		seed = defaultRandomSeed
	}
	rnd := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic synthetic data
	out := make([]model.Record, 0, cfg.Days*hoursPerDay)

	for d := range cfg.Days {
		date := cfg.Start.AddDate(0, 0, d)
		season := math.Sin(2 * math.Pi * (float64(date.YearDay()) - seasonPeakDay + daysPerYear/4) / daysPerYear)
		weekend := date.Weekday() == time.Saturday || date.Weekday() == time.Sunday
		weather := pickWeather(rnd, cfg.HeavyRain)

		for h := range hoursPerDay {
			if rnd.Float64() < 0.1 {
				weather = pickWeather(rnd, cfg.HeavyRain)
			}
			temp := clamp(0.5+0.3*season+0.05*rnd.NormFloat64(), 0.02, 1)
			r := model.Record{
				Instant:   len(out) + 1,
				Date:      date,
				Hour:      float64(h),
				Weather:   weather,
				Temp:      round3(temp),
				ATemp:     round3(clamp(temp*0.95+0.02*rnd.NormFloat64(), 0, 1)),
				Humidity:  round3(clamp(0.6+0.2*rnd.NormFloat64(), 0, 1)),
				Windspeed: round3(clamp(0.19+0.1*rnd.NormFloat64(), 0, 0.85)),
			}

			demand := (baseDemand + hourly(h, weekend)) * weatherFactor[weather] * (0.5 + temp)
			demand = math.Max(0, demand*(1+0.1*rnd.NormFloat64()))
			r.Count = int(math.Round(demand))
			share := registeredShare
			if weekend {
				share = weekendRegShare
			}
			r.Registered = int(math.Round(float64(r.Count) * share))
			r.Casual = r.Count - r.Registered

			if len(out) > 0 && cfg.MissingRate > 0 {
				blank(rnd, &r, cfg.MissingRate)
			}
			out = append(out, r)
		}
	}
	return out
}

// hourly is the demand shape over a day.
func hourly(h int, weekend bool) float64 {
	bump := func(center, width float64) float64 {
		d := (float64(h) - center) / width
		return math.Exp(-d * d)
	}
	if weekend {
		return weekendMidday * bump(14, 4)
	}
	return commutePeak*bump(8, 1.2) + commutePeak*bump(17.5, 1.5) + middayPeak*bump(12.5, 2)
}

func pickWeather(rnd *rand.Rand, heavy bool) string {
	p := rnd.Float64()
	switch {
	case p < 0.65:
		return WeatherClear
	case p < 0.9:
		return WeatherMist
	case heavy && p > 0.99:
		return WeatherHeavyRain
	default:
		return WeatherLightRain
	}
}

func blank(rnd *rand.Rand, r *model.Record, rate float64) {
	for _, f := range []*float64{&r.Temp, &r.ATemp, &r.Humidity, &r.Windspeed} {
		if rnd.Float64() < rate {
			*f = math.NaN()
		}
	}
	if rnd.Float64() < rate {
		r.Weather = ""
	}
}

func clamp(v, lo, hi float64) float64 { return math.Min(hi, math.Max(lo, v)) }

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
