package strokemodel

// strokeEndPredictor is the alternative to the Kalman predictor: it simply
// runs model_end_of_stroke from the current tip state toward the last raw
// input position, producing no forward extrapolation (§4.8).
type strokeEndPredictor struct {
	sampling SamplingParams

	lastRawPosition Vec2
	haveLastRaw     bool

	savedLastRaw     Vec2
	savedHaveLastRaw bool
	saveActive       bool
}

func newStrokeEndPredictor(sampling SamplingParams) *strokeEndPredictor {
	return &strokeEndPredictor{sampling: sampling}
}

func (p *strokeEndPredictor) reset(position Vec2) {
	p.lastRawPosition = position
	p.haveLastRaw = true
	p.saveActive = false
}

func (p *strokeEndPredictor) update(position Vec2, t Time) {
	p.lastRawPosition = position
	p.haveLastRaw = true
}

// predictInto runs a throwaway copy of position forward toward the last raw
// input, appending the resulting TipStates to sink.
func (p *strokeEndPredictor) predictInto(scratch *positionModeler, lastTip TipState, sink *[]TipState) {
	if !p.haveLastRaw {
		return
	}
	scratch.reset(lastTip)
	dt := 1 / p.sampling.MinOutputRate
	scratch.modelEndOfStroke(p.lastRawPosition, dt, p.sampling.EndOfStrokeMaxIterations, p.sampling.EndOfStrokeStoppingDistance, sink)
}

func (p *strokeEndPredictor) save() {
	p.savedLastRaw = p.lastRawPosition
	p.savedHaveLastRaw = p.haveLastRaw
	p.saveActive = true
}

func (p *strokeEndPredictor) restore() {
	if !p.saveActive {
		return
	}
	p.lastRawPosition = p.savedLastRaw
	p.haveLastRaw = p.savedHaveLastRaw
}

func (p *strokeEndPredictor) clone() *strokeEndPredictor {
	c := *p
	return &c
}
