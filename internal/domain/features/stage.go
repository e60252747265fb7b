package features

// Stage learns whatever state it needs from a training batch.
type Stage interface {
	Fit(b *Batch) (FittedStage, error)
}

// FittedStage applies learned state to any batch without refitting.
type FittedStage interface {
	Transform(b *Batch) (Columns, error)
}
