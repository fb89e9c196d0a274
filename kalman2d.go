package strokemodel

import (
	"math"

	"github.com/SeanJxie/polygo"
	"gonum.org/v1/gonum/floats"
)

// kalmanEstimate is the decoded output of kalmanPredictor.estimatedState.
type kalmanEstimate struct {
	position     Vec2
	velocity     Vec2
	acceleration Vec2
	jerk         Vec2
}

// kalmanPredictor owns a pair of 1-D axis predictors and a ring buffer of
// recent input timestamps used to estimate the mean time between raw
// inputs, then extrapolates a short cubic trajectory (§4.7).
type kalmanPredictor struct {
	params KalmanPredictorParams

	x, y *kalmanAxisPredictor

	timestamps []float64 // ring buffer of raw input times, as plain float64
	tsHead     int
	tsSize     int

	lastRawPosition Vec2
	haveLastRaw     bool

	savedTimestamps []float64
	savedTsHead     int
	savedTsSize     int
	savedLastRaw    Vec2
	savedHaveLastRaw bool
	saveActive      bool
}

func newKalmanPredictor(params KalmanPredictorParams) *kalmanPredictor {
	return &kalmanPredictor{
		params:     params,
		x:          newKalmanAxisPredictor(params),
		y:          newKalmanAxisPredictor(params),
		timestamps: make([]float64, params.MaxTimeSamples),
	}
}

func (k *kalmanPredictor) reset(position Vec2) {
	k.x.reset(position.X)
	k.y.reset(position.Y)
	k.tsHead = 0
	k.tsSize = 0
	k.haveLastRaw = false
	k.saveActive = false
}

func (k *kalmanPredictor) update(position Vec2, t Time) {
	k.x.update(position.X)
	k.y.update(position.Y)

	if k.tsSize < len(k.timestamps) {
		k.timestamps[(k.tsHead+k.tsSize)%len(k.timestamps)] = float64(t)
		k.tsSize++
	} else {
		k.timestamps[k.tsHead] = float64(t)
		k.tsHead = (k.tsHead + 1) % len(k.timestamps)
	}

	k.lastRawPosition = position
	k.haveLastRaw = true
}

func (k *kalmanPredictor) stable() bool {
	return k.x.stable() && k.y.stable()
}

// meanDt returns the mean interval between consecutive recorded timestamps,
// or 0 if fewer than two are available. Uses gonum/floats for the sum over
// the ring buffer's logical ordering.
func (k *kalmanPredictor) meanDt() float64 {
	if k.tsSize < 2 {
		return 0
	}
	ordered := make([]float64, k.tsSize)
	for i := 0; i < k.tsSize; i++ {
		ordered[i] = k.timestamps[(k.tsHead+i)%len(k.timestamps)]
	}
	diffs := make([]float64, k.tsSize-1)
	for i := 1; i < k.tsSize; i++ {
		diffs[i-1] = ordered[i] - ordered[i-1]
	}
	return floats.Sum(diffs) / float64(len(diffs))
}

// estimatedState returns the Kalman filter's current estimate, rescaled
// from per-step units to per-second units via the mean Δt, or ok=false
// while the filter is not yet stable or no Δt can be estimated.
func (k *kalmanPredictor) estimatedState() (kalmanEstimate, bool) {
	if !k.stable() {
		return kalmanEstimate{}, false
	}
	dt := k.meanDt()
	if dt <= 0 {
		return kalmanEstimate{}, false
	}
	return kalmanEstimate{
		position:     Vec2{k.x.position(), k.y.position()},
		velocity:     Vec2{k.x.velocity(), k.y.velocity()}.Div(dt),
		acceleration: Vec2{k.x.acceleration(), k.y.acceleration()}.Div(dt * dt),
		jerk:         Vec2{k.x.jerk(), k.y.jerk()}.Div(dt * dt * dt),
	}, true
}

// confidence computes the product of the four heuristics from §4.7 step 2.
func (k *kalmanPredictor) confidence(e kalmanEstimate) float64 {
	sampleConfidence := math.Min(1, float64(k.tsSize)/float64(k.params.Confidence.DesiredNumberOfSamples))

	distanceConfidence := 1 - clamp01(distance(e.position, k.lastRawPosition)/k.params.Confidence.MaxEstimationDistance)

	speedAlongInterval := math.Abs(e.velocity.Magnitude() * float64(k.params.PredictionInterval))
	speedConfidence := normalize01(k.params.Confidence.MinTravelSpeed, k.params.Confidence.MaxTravelSpeed, speedAlongInterval)

	deviation := k.linearDeviation(e)
	linearityConfidence := lerp(k.params.Confidence.BaselineLinearityConfidence, 1, 1-clamp01(deviation/k.params.Confidence.MaxLinearDeviation))

	return sampleConfidence * distanceConfidence * speedConfidence * linearityConfidence
}

// linearDeviation measures the distance between the endpoint of the cubic
// extrapolation over prediction_interval and the endpoint of a linear
// extrapolation over the same interval.
func (k *kalmanPredictor) linearDeviation(e kalmanEstimate) float64 {
	interval := float64(k.params.PredictionInterval)
	cubicEnd := k.cubicPosition(e, interval)
	linearEnd := e.position.Add(e.velocity.Scale(interval))
	return distance(cubicEnd, linearEnd)
}

// cubicPosition evaluates p(tau) = position + tau*velocity +
// tau^2*(acceleration_weight*acceleration) + tau^3*(jerk_weight*jerk)
// componentwise, using polygo.RealPolynomial for the per-axis evaluation.
func (k *kalmanPredictor) cubicPosition(e kalmanEstimate, tau float64) Vec2 {
	px, _ := polygo.NewRealPolynomial([]float64{
		e.position.X, e.velocity.X, k.params.AccelerationWeight * e.acceleration.X, k.params.JerkWeight * e.jerk.X,
	})
	py, _ := polygo.NewRealPolynomial([]float64{
		e.position.Y, e.velocity.Y, k.params.AccelerationWeight * e.acceleration.Y, k.params.JerkWeight * e.jerk.Y,
	})
	return Vec2{px.At(tau), py.At(tau)}
}

// constructPrediction produces the catch-up plus cubic-extrapolation sample
// positions described in §4.7 step 3, or nil if the filter is not stable.
// The caller is responsible for running these through a throwaway position
// modeler copy.
func (k *kalmanPredictor) constructPrediction(lastTip TipState, sampling SamplingParams) ([]Vec2, []Time, bool) {
	e, ok := k.estimatedState()
	if !ok {
		return nil, nil, false
	}
	confidence := clamp01(k.confidence(e))

	var positions []Vec2
	var times []Time

	// Catch-up: step from lastTip.Position toward E.position, at least
	// min_catchup_velocity per upsample step.
	catchupDistance := distance(lastTip.Position, e.position)
	if catchupDistance > 0 {
		minStepDistance := k.params.MinCatchupVelocity / sampling.MinOutputRate
		nSteps := int(math.Ceil(catchupDistance / math.Max(minStepDistance, 1e-12)))
		if nSteps < 1 {
			nSteps = 1
		}
		stepDt := 1 / sampling.MinOutputRate
		t := lastTip.Time
		for i := 1; i <= nSteps; i++ {
			frac := float64(i) / float64(nSteps)
			positions = append(positions, lerpVec2(lastTip.Position, e.position, frac))
			t += Time(stepDt)
			times = append(times, t)
		}
	}

	// Extrapolation: sample the cubic for tau in (0, confidence *
	// prediction_interval], stepped at 1/min_output_rate.
	horizon := confidence * float64(k.params.PredictionInterval)
	stepDt := 1 / sampling.MinOutputRate
	baseTime := lastTip.Time
	if len(times) > 0 {
		baseTime = times[len(times)-1]
	}
	for tau := stepDt; tau <= horizon+1e-12; tau += stepDt {
		positions = append(positions, k.cubicPosition(e, tau))
		times = append(times, baseTime+Time(tau))
	}

	return positions, times, true
}

func (k *kalmanPredictor) save() {
	if cap(k.savedTimestamps) < len(k.timestamps) {
		k.savedTimestamps = make([]float64, len(k.timestamps))
	}
	k.savedTimestamps = k.savedTimestamps[:len(k.timestamps)]
	copy(k.savedTimestamps, k.timestamps)
	k.savedTsHead = k.tsHead
	k.savedTsSize = k.tsSize
	k.savedLastRaw = k.lastRawPosition
	k.savedHaveLastRaw = k.haveLastRaw
	k.saveActive = true
	k.x.save()
	k.y.save()
}

func (k *kalmanPredictor) restore() {
	if !k.saveActive {
		return
	}
	copy(k.timestamps, k.savedTimestamps)
	k.tsHead = k.savedTsHead
	k.tsSize = k.savedTsSize
	k.lastRawPosition = k.savedLastRaw
	k.haveLastRaw = k.savedHaveLastRaw
	k.x.restore()
	k.y.restore()
}

// clone returns an independent copy for Predict()'s non-mutating use.
func (k *kalmanPredictor) clone() *kalmanPredictor {
	c := &kalmanPredictor{
		params:          k.params,
		x:               k.x.clone(),
		y:               k.y.clone(),
		timestamps:      append([]float64(nil), k.timestamps...),
		tsHead:          k.tsHead,
		tsSize:          k.tsSize,
		lastRawPosition: k.lastRawPosition,
		haveLastRaw:     k.haveLastRaw,
	}
	return c
}
