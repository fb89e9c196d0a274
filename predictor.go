package strokemodel

// predictor is the common operation set shared by the two real prediction
// strategies and the disabled variant (§9, "Polymorphism over predictor
// variants"): reset, update(position, time), predict_into(current_tip), and
// clone. Modeled as an interface over concrete tagged implementations
// rather than a sum type, since Go has no native tagged unions.
type predictor interface {
	reset(position Vec2)
	update(position Vec2, t Time)
	predictInto(scratchPM *positionModeler, lastTip TipState, sampling SamplingParams) ([]TipState, error)
	save()
	restore()
	clone() predictor
}

// kalmanPredictorAdapter satisfies predictor using the Kalman 2D filter
// chain (§4.7).
type kalmanPredictorAdapter struct {
	k *kalmanPredictor
}

func newKalmanPredictorAdapter(params KalmanPredictorParams) *kalmanPredictorAdapter {
	return &kalmanPredictorAdapter{k: newKalmanPredictor(params)}
}

func (a *kalmanPredictorAdapter) reset(position Vec2)         { a.k.reset(position) }
func (a *kalmanPredictorAdapter) update(position Vec2, t Time) { a.k.update(position, t) }
func (a *kalmanPredictorAdapter) save()                        { a.k.save() }
func (a *kalmanPredictorAdapter) restore()                     { a.k.restore() }
func (a *kalmanPredictorAdapter) clone() predictor {
	return &kalmanPredictorAdapter{k: a.k.clone()}
}

func (a *kalmanPredictorAdapter) predictInto(scratchPM *positionModeler, lastTip TipState, sampling SamplingParams) ([]TipState, error) {
	positions, times, ok := a.k.constructPrediction(lastTip, sampling)
	if !ok {
		return nil, nil
	}
	scratchPM.reset(lastTip)
	results := make([]TipState, 0, len(positions))
	for i, pos := range positions {
		ts := scratchPM.update(pos, times[i])
		results = append(results, ts)
	}
	return results, nil
}

// strokeEndPredictorAdapter satisfies predictor using the stroke-end
// relaxation strategy (§4.8).
type strokeEndPredictorAdapter struct {
	p *strokeEndPredictor
}

func newStrokeEndPredictorAdapter(sampling SamplingParams) *strokeEndPredictorAdapter {
	return &strokeEndPredictorAdapter{p: newStrokeEndPredictor(sampling)}
}

func (a *strokeEndPredictorAdapter) reset(position Vec2)         { a.p.reset(position) }
func (a *strokeEndPredictorAdapter) update(position Vec2, t Time) { a.p.update(position, t) }
func (a *strokeEndPredictorAdapter) save()                        { a.p.save() }
func (a *strokeEndPredictorAdapter) restore()                     { a.p.restore() }
func (a *strokeEndPredictorAdapter) clone() predictor {
	return &strokeEndPredictorAdapter{p: a.p.clone()}
}

func (a *strokeEndPredictorAdapter) predictInto(scratchPM *positionModeler, lastTip TipState, sampling SamplingParams) ([]TipState, error) {
	var sink []TipState
	a.p.predictInto(scratchPM, lastTip, &sink)
	return sink, nil
}

// disabledPredictor satisfies predictor when no prediction strategy is
// configured: predictInto always fails with FailedPrecondition.
type disabledPredictor struct{}

func (disabledPredictor) reset(Vec2)         {}
func (disabledPredictor) update(Vec2, Time) {}
func (disabledPredictor) save()              {}
func (disabledPredictor) restore()           {}
func (disabledPredictor) clone() predictor   { return disabledPredictor{} }

func (disabledPredictor) predictInto(*positionModeler, TipState, SamplingParams) ([]TipState, error) {
	return nil, failedPreconditionf("predictor is disabled")
}

func newPredictor(params StrokeModelParams) predictor {
	switch params.Predictor {
	case PredictorKalman:
		return newKalmanPredictorAdapter(params.KalmanPredictor)
	case PredictorStrokeEnd:
		return newStrokeEndPredictorAdapter(params.Sampling)
	default:
		return disabledPredictor{}
	}
}
