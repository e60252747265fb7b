package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Input field names, shared with the historical data schema.
const (
	FieldDate      = "dteday"
	FieldHour      = "hr"
	FieldWeather   = "weathersit"
	FieldTemp      = "temp"
	FieldATemp     = "atemp"
	FieldHumidity  = "hum"
	FieldWindspeed = "windspeed"
)

const maxHour = 23

// Observation holds the seven scalar inputs of a single prediction.
type Observation struct {
	Date      time.Time
	Hour      int
	Weather   string
	Temp      float64
	ATemp     float64
	Humidity  float64
	Windspeed float64
}

// Validate checks every field and reports all problems at once.
func (o Observation) Validate() error {
	var result *multierror.Error
	if o.Date.IsZero() {
		result = multierror.Append(result, fmt.Errorf("%s: missing", FieldDate))
	}
	if o.Hour < 0 || o.Hour > maxHour {
		result = multierror.Append(result, fmt.Errorf("%s: %d out of range 0-%d", FieldHour, o.Hour, maxHour))
	}
	if strings.TrimSpace(o.Weather) == "" {
		result = multierror.Append(result, fmt.Errorf("%s: missing", FieldWeather))
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{FieldTemp, o.Temp},
		{FieldATemp, o.ATemp},
		{FieldHumidity, o.Humidity},
		{FieldWindspeed, o.Windspeed},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			result = multierror.Append(result, fmt.Errorf("%s: not a finite number", f.name))
		}
	}
	return malformed(result)
}

// Record wraps the observation into the historical record shape.
// Target and auxiliary columns are left zero.
func (o Observation) Record() Record {
	return Record{
		Date:      o.Date,
		Hour:      float64(o.Hour),
		Weather:   o.Weather,
		Temp:      o.Temp,
		ATemp:     o.ATemp,
		Humidity:  o.Humidity,
		Windspeed: o.Windspeed,
	}
}

// ParseObservation builds an Observation from loosely typed values such as a decoded
// JSON object. Every missing or mistyped field is reported in one MalformedInputError.
func ParseObservation(in map[string]any) (Observation, error) {
	var (
		obs    Observation
		result *multierror.Error
	)
	if in == nil {
		return obs, &MalformedInputError{Err: errors.New("empty input")}
	}

	if raw, ok := in[FieldDate]; !ok || raw == nil {
		result = multierror.Append(result, fmt.Errorf("%s: missing", FieldDate))
	} else {
		switch v := raw.(type) {
		case time.Time:
			obs.Date = v
		case string:
			d, err := time.Parse(DateLayout, strings.TrimSpace(v))
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("%s: want YYYY-MM-DD, got %q", FieldDate, v))
			}
			obs.Date = d
		default:
			result = multierror.Append(result, fmt.Errorf("%s: want string, got %T", FieldDate, raw))
		}
	}

	if hour, err := number(in, FieldHour); err != nil {
		result = multierror.Append(result, err)
	} else if hour != math.Trunc(hour) || hour < 0 || hour > maxHour {
		result = multierror.Append(result, fmt.Errorf("%s: want integer 0-%d, got %v", FieldHour, maxHour, hour))
	} else {
		obs.Hour = int(hour)
	}

	if raw, ok := in[FieldWeather]; !ok || raw == nil {
		result = multierror.Append(result, fmt.Errorf("%s: missing", FieldWeather))
	} else if s, ok := raw.(string); !ok {
		result = multierror.Append(result, fmt.Errorf("%s: want string, got %T", FieldWeather, raw))
	} else if strings.TrimSpace(s) == "" {
		result = multierror.Append(result, fmt.Errorf("%s: missing", FieldWeather))
	} else {
		obs.Weather = s
	}

	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{FieldTemp, &obs.Temp},
		{FieldATemp, &obs.ATemp},
		{FieldHumidity, &obs.Humidity},
		{FieldWindspeed, &obs.Windspeed},
	} {
		v, err := number(in, f.name)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		*f.dst = v
	}

	if err := malformed(result); err != nil {
		return Observation{}, err
	}
	return obs, nil
}

// number reads a finite numeric field.
func number(in map[string]any, name string) (float64, error) {
	raw, ok := in[name]
	if !ok || raw == nil {
		return 0, fmt.Errorf("%s: missing", name)
	}
	var v float64
	switch n := raw.(type) {
	case float64:
		v = n
	case float32:
		v = float64(n)
	case int:
		v = float64(n)
	case int64:
		v = float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("%s: not a number: %q", name, n.String())
		}
		v = f
	default:
		return 0, fmt.Errorf("%s: want number, got %T", name, raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s: not a finite number", name)
	}
	return v, nil
}

func malformed(result *multierror.Error) error {
	if result == nil || len(result.Errors) == 0 {
		return nil
	}
	result.ErrorFormat = func(errs []error) string {
		msgs := make([]string, len(errs))
		for i, err := range errs {
			msgs[i] = err.Error()
		}
		return strings.Join(msgs, "; ")
	}
	return &MalformedInputError{Err: result}
}
