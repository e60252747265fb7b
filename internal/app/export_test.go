package service

// SetEstimator swaps the estimator behind p.
func SetEstimator(p *Predictor, e estimator) {
	p.estimator = e
}
