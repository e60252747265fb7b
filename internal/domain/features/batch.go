// Package features turns raw demand records into a fixed-width numeric feature matrix.
//
// The sequence is fixed: forward fill, ordinal encoding of the weather column,
// weekend derivation from the date, then column-wise combination. Fitting learns
// only the weather vocabulary; everything else is recomputed on every call.
package features

import (
	"time"

	"github.com/okian/velocast/internal/domain/model"
)

// Column names in feature order.
const (
	ColWeekend   = "is_weekend"
	ColHour      = model.FieldHour
	ColTemp      = model.FieldTemp
	ColATemp     = model.FieldATemp
	ColHumidity  = model.FieldHumidity
	ColWindspeed = model.FieldWindspeed
	ColWeather   = model.FieldWeather
)

// NumericColumns is the declared routing order of the imputed numeric block.
var NumericColumns = []string{ColHour, ColTemp, ColATemp, ColHumidity, ColWindspeed}

// Schema returns the final feature layout: weekend indicator, numeric block, weather code.
func Schema() []string {
	out := make([]string, 0, len(NumericColumns)+2)
	out = append(out, ColWeekend)
	out = append(out, NumericColumns...)
	return append(out, ColWeather)
}

// Batch is a column-oriented view of records restricted to feature sources.
// Target and auxiliary columns are dropped on construction.
type Batch struct {
	Dates   []time.Time
	Numeric map[string][]float64
	Weather []string
}

// NewBatch builds a batch from records in their original order.
func NewBatch(records []model.Record) *Batch {
	n := len(records)
	b := &Batch{
		Dates:   make([]time.Time, n),
		Weather: make([]string, n),
		Numeric: make(map[string][]float64, len(NumericColumns)),
	}
	for _, name := range NumericColumns {
		b.Numeric[name] = make([]float64, n)
	}
	for i, r := range records {
		b.Dates[i] = r.Date
		b.Weather[i] = r.Weather
		b.Numeric[ColHour][i] = r.Hour
		b.Numeric[ColTemp][i] = r.Temp
		b.Numeric[ColATemp][i] = r.ATemp
		b.Numeric[ColHumidity][i] = r.Humidity
		b.Numeric[ColWindspeed][i] = r.Windspeed
	}
	return b
}

// Len returns the number of rows.
func (b *Batch) Len() int { return len(b.Dates) }

// Column is one named feature column.
type Column struct {
	Name   string
	Values []float64
}

// Columns is an ordered set of equally long feature columns.
type Columns []Column

// Names lists column names in order.
func (c Columns) Names() []string {
	out := make([]string, len(c))
	for i, col := range c {
		out[i] = col.Name
	}
	return out
}
