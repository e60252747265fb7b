package features

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Combine concatenates the derived block and the routed block column-wise into a
// row-major matrix. The derived block always comes first.
func Combine(derived, routed Columns) (*mat.Dense, []string, error) {
	cols := make(Columns, 0, len(derived)+len(routed))
	cols = append(cols, derived...)
	cols = append(cols, routed...)
	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("combine: %w: no columns", ErrRaggedColumns)
	}

	rows := len(cols[0].Values)
	for _, c := range cols[1:] {
		if len(c.Values) != rows {
			return nil, nil, fmt.Errorf("combine: %w: %s has %d rows, want %d", ErrRaggedColumns, c.Name, len(c.Values), rows)
		}
	}
	if rows == 0 {
		return nil, cols.Names(), nil
	}

	data := make([]float64, rows*len(cols))
	for j, c := range cols {
		for i, v := range c.Values {
			data[i*len(cols)+j] = v
		}
	}
	return mat.NewDense(rows, len(cols), data), cols.Names(), nil
}
