package features

import "time"

// IsWeekend returns 1 for Saturday and Sunday, 0 otherwise.
func IsWeekend(d time.Time) float64 {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return 1
	default:
		return 0
	}
}

// WeekendStage derives the weekend indicator column. It has no fit state.
type WeekendStage struct{}

var (
	_ Stage       = WeekendStage{}
	_ FittedStage = WeekendStage{}
)

// Fit returns the stage itself.
func (s WeekendStage) Fit(*Batch) (FittedStage, error) { return s, nil }

// Transform computes the indicator for every date in the batch.
func (WeekendStage) Transform(b *Batch) (Columns, error) {
	col := make([]float64, b.Len())
	for i, d := range b.Dates {
		col[i] = IsWeekend(d)
	}
	return Columns{{Name: ColWeekend, Values: col}}, nil
}
