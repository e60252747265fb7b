// Package source reads historical hourly demand records from files.
package source

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/okian/velocast/internal/domain/model"
)

// Supported file formats.
const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"
)

// Column names outside the feature set.
const (
	ColInstant    = "instant"
	ColCasual     = "casual"
	ColRegistered = "registered"
	ColCount      = "cnt"
)

// Header is the canonical column order used when writing files.
var Header = []string{
	ColInstant,
	model.FieldDate,
	model.FieldHour,
	model.FieldWeather,
	model.FieldTemp,
	model.FieldATemp,
	model.FieldHumidity,
	model.FieldWindspeed,
	ColCasual,
	ColRegistered,
	ColCount,
}

// Source provides the full historical record set.
type Source interface {
	// Records returns every record in source order.
	Records(ctx context.Context) ([]model.Record, error)
}

// Open returns a Source for path. An empty format is inferred from the file extension.
func Open(path, format string) (Source, error) {
	if format == "" {
		format = FormatFromPath(path)
	}
	switch strings.ToLower(format) {
	case FormatCSV:
		return NewCSVSource(path), nil
	case FormatParquet:
		return NewParquetSource(path), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// FormatFromPath guesses the format from the file extension.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet", ".pq":
		return FormatParquet
	case ".csv":
		return FormatCSV
	default:
		return ""
	}
}

// missingTokens are cell values read as absent.
var missingTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"NaN":  {},
	"nan":  {},
	"null": {},
}

func isMissing(s string) bool {
	_, ok := missingTokens[strings.TrimSpace(s)]
	return ok
}

func parseFeature(s string) (float64, error) {
	if isMissing(s) {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func parseCategory(s string) string {
	if isMissing(s) {
		return ""
	}
	return strings.TrimSpace(s)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(model.DateLayout, strings.TrimSpace(s))
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

func formatFeature(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
