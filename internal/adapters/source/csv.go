package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/hashicorp/go-multierror"

	"github.com/okian/velocast/internal/domain/model"
	"github.com/okian/velocast/pkg/metrics"
)

// maxRowErrors bounds how many malformed rows are reported before reading stops.
const maxRowErrors = 20

// ctxCheckEvery is how often, in rows, reading checks for cancellation.
const ctxCheckEvery = 4096

var requiredColumns = []string{
	model.FieldDate,
	model.FieldHour,
	model.FieldWeather,
	model.FieldTemp,
	model.FieldATemp,
	model.FieldHumidity,
	model.FieldWindspeed,
	ColCount,
}

var _ Source = (*CSVSource)(nil)

// CSVSource reads records from a CSV file with a header row.
// Columns are matched by name; unknown columns are ignored.
type CSVSource struct {
	path string
}

// NewCSVSource returns a source reading path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Records implements Source.
func (s *CSVSource) Records(ctx context.Context) ([]model.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	records, err := ReadCSV(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	metrics.RecordRecordsRead(FormatCSV, len(records))
	return records, nil
}

// ReadCSV parses records from r. Malformed rows are collected and reported together.
func ReadCSV(ctx context.Context, r io.Reader) ([]model.Record, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	var (
		out    []model.Record
		result *multierror.Error
		line   = 1
	)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if line%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, err := parseRow(row, idx)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("line %d: %w", line, err))
			if len(result.Errors) >= maxRowErrors {
				break
			}
			continue
		}
		out = append(out, rec)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRow, err)
	}
	return out, nil
}

func parseRow(row []string, idx map[string]int) (model.Record, error) {
	cell := func(name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var (
		rec    model.Record
		err    error
		result *multierror.Error
	)
	if rec.Date, err = parseDate(cell(model.FieldDate)); err != nil {
		result = multierror.Append(result, fmt.Errorf("%s: %w", model.FieldDate, err))
	}
	rec.Weather = parseCategory(cell(model.FieldWeather))
	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{model.FieldHour, &rec.Hour},
		{model.FieldTemp, &rec.Temp},
		{model.FieldATemp, &rec.ATemp},
		{model.FieldHumidity, &rec.Humidity},
		{model.FieldWindspeed, &rec.Windspeed},
	} {
		if *f.dst, err = parseFeature(cell(f.name)); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", f.name, err))
		}
	}
	if rec.Count, err = parseInt(cell(ColCount)); err != nil {
		result = multierror.Append(result, fmt.Errorf("%s: %w", ColCount, err))
	}
	for _, f := range []struct {
		name string
		dst  *int
	}{
		{ColInstant, &rec.Instant},
		{ColCasual, &rec.Casual},
		{ColRegistered, &rec.Registered},
	} {
		if v := cell(f.name); !isMissing(v) {
			if *f.dst, err = parseInt(v); err != nil {
				result = multierror.Append(result, fmt.Errorf("%s: %w", f.name, err))
			}
		}
	}
	return rec, result.ErrorOrNil()
}

// WriteCSV writes records with the canonical header. Missing values become empty cells.
func WriteCSV(w io.Writer, records []model.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	row := make([]string, len(Header))
	for _, r := range records {
		row[0] = strconv.Itoa(r.Instant)
		row[1] = r.Date.Format(model.DateLayout)
		row[2] = formatFeature(r.Hour)
		row[3] = r.Weather
		row[4] = formatFeature(r.Temp)
		row[5] = formatFeature(r.ATemp)
		row[6] = formatFeature(r.Humidity)
		row[7] = formatFeature(r.Windspeed)
		row[8] = strconv.Itoa(r.Casual)
		row[9] = strconv.Itoa(r.Registered)
		row[10] = strconv.Itoa(r.Count)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes records to path.
func WriteCSVFile(path string, records []model.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, records); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
