package features

import (
	"fmt"
	"sort"

	"github.com/okian/velocast/internal/domain/model"
)

// OrdinalEncoder maps category strings to integer codes. Codes follow the sorted
// order of the categories seen at fit time, so refitting on the same data is
// reproducible regardless of row order. The value is immutable after FitOrdinalEncoder.
type OrdinalEncoder struct {
	Column     string
	Categories []string // sorted, distinct
}

// FitOrdinalEncoder learns the vocabulary of a categorical column. Missing entries ("")
// are not part of the vocabulary.
func FitOrdinalEncoder(column string, values []string) (*OrdinalEncoder, error) {
	seen := make(map[string]struct{}, 8)
	for _, v := range values {
		if v == "" {
			continue
		}
		seen[v] = struct{}{}
	}
	if len(seen) == 0 {
		return nil, fmt.Errorf("%s: %w", column, ErrEmptyVocabulary)
	}
	cats := make([]string, 0, len(seen))
	for v := range seen {
		cats = append(cats, v)
	}
	sort.Strings(cats)
	return &OrdinalEncoder{Column: column, Categories: cats}, nil
}

// Code returns the ordinal code of a single value.
func (e *OrdinalEncoder) Code(v string) (int, error) {
	if v == "" {
		return 0, fmt.Errorf("%s: %w", e.Column, model.ErrResidualMissing)
	}
	i := sort.SearchStrings(e.Categories, v)
	if i == len(e.Categories) || e.Categories[i] != v {
		return 0, &model.UnseenCategoryError{Column: e.Column, Value: v}
	}
	return i, nil
}

// Transform encodes every value; the first unknown value aborts with UnseenCategoryError.
func (e *OrdinalEncoder) Transform(values []string) ([]float64, error) {
	out := make([]float64, len(values))
	for i, v := range values {
		code, err := e.Code(v)
		if err != nil {
			return nil, err
		}
		out[i] = float64(code)
	}
	return out, nil
}
