package features

import "math"

// ForwardFill replaces each NaN with the nearest preceding non-NaN value.
// Leading NaNs have no predecessor and stay NaN. The input is not modified.
func ForwardFill(values []float64) []float64 {
	out := make([]float64, len(values))
	last, seen := math.NaN(), false
	for i, v := range values {
		if math.IsNaN(v) {
			if seen {
				out[i] = last
			} else {
				out[i] = v
			}
			continue
		}
		out[i], last, seen = v, v, true
	}
	return out
}

// ForwardFillStrings is ForwardFill for categorical columns, where "" is missing.
func ForwardFillStrings(values []string) []string {
	out := make([]string, len(values))
	last := ""
	for i, v := range values {
		if v == "" {
			out[i] = last
			continue
		}
		out[i], last = v, v
	}
	return out
}
