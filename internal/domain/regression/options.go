package regression

// Option applies a configuration option to the Forest.
type Option func(*Forest)

// WithTrees sets the number of trees in the ensemble.
func WithTrees(n int) Option {
	return func(f *Forest) {
		if n > 0 {
			f.Params.Trees = n
		}
	}
}

// WithMaxDepth bounds tree depth; 0 grows until the leaf constraints stop it.
func WithMaxDepth(d int) Option {
	return func(f *Forest) {
		if d >= 0 {
			f.Params.MaxDepth = d
		}
	}
}

// WithMinSamplesSplit sets the minimum node size that may be split.
func WithMinSamplesSplit(n int) Option {
	return func(f *Forest) {
		if n >= 2 {
			f.Params.MinSamplesSplit = n
		}
	}
}

// WithMinSamplesLeaf sets the minimum number of samples per leaf.
func WithMinSamplesLeaf(n int) Option {
	return func(f *Forest) {
		if n >= 1 {
			f.Params.MinSamplesLeaf = n
		}
	}
}

// WithMaxFeatures sets how many features are sampled per split; 0 uses all of them.
func WithMaxFeatures(n int) Option {
	return func(f *Forest) {
		if n >= 0 {
			f.Params.MaxFeatures = n
		}
	}
}

// WithBootstrap toggles sampling rows with replacement for each tree.
func WithBootstrap(b bool) Option {
	return func(f *Forest) { f.Params.Bootstrap = b }
}

// WithSeed fixes the random source; tree i uses seed+i.
func WithSeed(seed int64) Option {
	return func(f *Forest) { f.Params.Seed = seed }
}

// WithWorkers bounds the number of trees fitted concurrently.
func WithWorkers(n int) Option {
	return func(f *Forest) {
		if n > 0 {
			f.workers = n
		}
	}
}
