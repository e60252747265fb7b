package features

// RouterStage sends numeric columns through forward fill and the weather column
// through forward fill followed by ordinal encoding.
type RouterStage struct{}

var (
	_ Stage       = RouterStage{}
	_ FittedStage = (*FittedRouter)(nil)
)

// Fit learns the weather vocabulary from the forward-filled weather column.
func (RouterStage) Fit(b *Batch) (FittedStage, error) {
	return FitRouter(b)
}

// FitRouter is Fit with a concrete return type.
func FitRouter(b *Batch) (*FittedRouter, error) {
	enc, err := FitOrdinalEncoder(ColWeather, ForwardFillStrings(b.Weather))
	if err != nil {
		return nil, err
	}
	return &FittedRouter{Weather: enc}, nil
}

// FittedRouter holds the fitted weather encoder. Numeric imputation needs no state.
type FittedRouter struct {
	Weather *OrdinalEncoder
}

// Transform returns the numeric block in NumericColumns order followed by the weather code.
func (r *FittedRouter) Transform(b *Batch) (Columns, error) {
	out := make(Columns, 0, len(NumericColumns)+1)
	for _, name := range NumericColumns {
		out = append(out, Column{Name: name, Values: ForwardFill(b.Numeric[name])})
	}
	codes, err := r.Weather.Transform(ForwardFillStrings(b.Weather))
	if err != nil {
		return nil, err
	}
	return append(out, Column{Name: ColWeather, Values: codes}), nil
}
