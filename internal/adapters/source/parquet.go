package source

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/okian/velocast/internal/domain/model"
	"github.com/okian/velocast/pkg/metrics"
)

// parquetParallelism is the number of goroutines parquet-go uses for column chunks.
const parquetParallelism = 4

// parquetRow is the on-disk layout. Feature columns are OPTIONAL so gaps survive a round trip.
type parquetRow struct {
	Instant    int64    `parquet:"name=instant, type=INT64"`
	Date       string   `parquet:"name=dteday, type=BYTE_ARRAY, convertedtype=UTF8"`
	Hour       *int32   `parquet:"name=hr, type=INT32, repetitiontype=OPTIONAL"`
	Weather    *string  `parquet:"name=weathersit, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	Temp       *float64 `parquet:"name=temp, type=DOUBLE, repetitiontype=OPTIONAL"`
	ATemp      *float64 `parquet:"name=atemp, type=DOUBLE, repetitiontype=OPTIONAL"`
	Humidity   *float64 `parquet:"name=hum, type=DOUBLE, repetitiontype=OPTIONAL"`
	Windspeed  *float64 `parquet:"name=windspeed, type=DOUBLE, repetitiontype=OPTIONAL"`
	Casual     int64    `parquet:"name=casual, type=INT64"`
	Registered int64    `parquet:"name=registered, type=INT64"`
	Count      int64    `parquet:"name=cnt, type=INT64"`
}

func toParquet(r model.Record) parquetRow {
	row := parquetRow{
		Instant:    int64(r.Instant),
		Date:       r.Date.Format(model.DateLayout),
		Temp:       optFloat(r.Temp),
		ATemp:      optFloat(r.ATemp),
		Humidity:   optFloat(r.Humidity),
		Windspeed:  optFloat(r.Windspeed),
		Casual:     int64(r.Casual),
		Registered: int64(r.Registered),
		Count:      int64(r.Count),
	}
	if !model.Missing(r.Hour) {
		h := int32(r.Hour)
		row.Hour = &h
	}
	if r.Weather != "" {
		w := r.Weather
		row.Weather = &w
	}
	return row
}

func (p parquetRow) record() (model.Record, error) {
	date, err := time.Parse(model.DateLayout, p.Date)
	if err != nil {
		return model.Record{}, fmt.Errorf("%s: %w", model.FieldDate, err)
	}
	r := model.Record{
		Instant:    int(p.Instant),
		Date:       date,
		Hour:       math.NaN(),
		Temp:       floatOrNaN(p.Temp),
		ATemp:      floatOrNaN(p.ATemp),
		Humidity:   floatOrNaN(p.Humidity),
		Windspeed:  floatOrNaN(p.Windspeed),
		Casual:     int(p.Casual),
		Registered: int(p.Registered),
		Count:      int(p.Count),
	}
	if p.Hour != nil {
		r.Hour = float64(*p.Hour)
	}
	if p.Weather != nil {
		r.Weather = *p.Weather
	}
	return r, nil
}

func optFloat(v float64) *float64 {
	if model.Missing(v) {
		return nil
	}
	return &v
}

func floatOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

var _ Source = (*ParquetSource)(nil)

// ParquetSource reads records from a local Parquet file.
type ParquetSource struct {
	path string
}

// NewParquetSource returns a source reading path.
func NewParquetSource(path string) *ParquetSource {
	return &ParquetSource{path: path}
}

// Records implements Source.
func (s *ParquetSource) Records(ctx context.Context) ([]model.Record, error) {
	fr, err := local.NewLocalFileReader(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(parquetRow), parquetParallelism)
	if err != nil {
		return nil, fmt.Errorf("read %s footer: %w", s.path, err)
	}
	defer pr.ReadStop()

	n := int(pr.GetNumRows())
	rows := make([]parquetRow, n)
	if n > 0 {
		if err := pr.Read(&rows); err != nil {
			return nil, fmt.Errorf("read %s rows: %w", s.path, err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]model.Record, 0, n)
	for i, row := range rows {
		rec, err := row.record()
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrMalformedRow, i, err)
		}
		out = append(out, rec)
	}
	metrics.RecordRecordsRead(FormatParquet, len(out))
	return out, nil
}

// WriteParquet writes records to path with snappy compression.
func WriteParquet(path string, records []model.Record) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	pw, err := writer.NewParquetWriter(fw, new(parquetRow), parquetParallelism)
	if err != nil {
		_ = fw.Close()
		return fmt.Errorf("create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for i, r := range records {
		if err := pw.Write(toParquet(r)); err != nil {
			_ = fw.Close()
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return fmt.Errorf("finish parquet file: %w", err)
	}
	return fw.Close()
}
