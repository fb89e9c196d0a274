package strokemodel

import "gonum.org/v1/gonum/mat"

// kalmanAxisPredictor is a 1-D constant-jerk Kalman filter, tracking
// position, velocity, acceleration, and jerk along a single axis (§4.6).
// Matrix storage uses gonum/mat, mirroring the teacher's use of gonum for
// dense numerical work.
type kalmanAxisPredictor struct {
	params KalmanPredictorParams

	x *mat.VecDense // state: position, velocity, acceleration, jerk
	p *mat.Dense    // state covariance, 4x4

	f *mat.Dense // state transition
	h *mat.Dense // measurement matrix, 1x4
	q *mat.Dense // process noise, 4x4
	r float64    // measurement noise (scalar, single measured axis)

	iterations int

	savedX          *mat.VecDense
	savedP          *mat.Dense
	savedIterations int
	saveActive      bool
}

func newKalmanAxisPredictor(params KalmanPredictorParams) *kalmanAxisPredictor {
	k := &kalmanAxisPredictor{params: params}
	k.f = mat.NewDense(4, 4, []float64{
		1, 1, 0.5, 1.0 / 6,
		0, 1, 1, 0.5,
		0, 0, 1, 1,
		0, 0, 0, 1,
	})
	k.h = mat.NewDense(1, 4, []float64{1, 0, 0, 0})
	k.q = mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		k.q.Set(i, i, params.ProcessNoise)
	}
	k.r = params.MeasurementNoise
	k.reset(0)
	return k
}

// reset reinitializes the filter with position as the sole known quantity
// and a large initial covariance on every state component.
func (k *kalmanAxisPredictor) reset(position float64) {
	k.x = mat.NewVecDense(4, []float64{position, 0, 0, 0})
	k.p = mat.NewDense(4, 4, nil)
	const largeVariance = 1e6
	for i := 0; i < 4; i++ {
		k.p.Set(i, i, largeVariance)
	}
	k.iterations = 0
}

// update runs one predict/update cycle against measurement z.
func (k *kalmanAxisPredictor) update(z float64) {
	// Predict: x = F x; P = F P F^T + Q.
	var xPred mat.VecDense
	xPred.MulVec(k.f, k.x)

	var fp mat.Dense
	fp.Mul(k.f, k.p)
	var pPred mat.Dense
	pPred.Mul(&fp, k.f.T())
	pPred.Add(&pPred, k.q)

	// Innovation: y = z - H xPred; S = H P H^T + R.
	var hx mat.Dense
	hx.Mul(k.h, &xPred)
	y := z - hx.At(0, 0)

	var hp mat.Dense
	hp.Mul(k.h, &pPred)
	var hpht mat.Dense
	hpht.Mul(&hp, k.h.T())
	s := hpht.At(0, 0) + k.r

	// Kalman gain: K = P H^T / S.
	var pht mat.Dense
	pht.Mul(&pPred, k.h.T())
	gain := mat.NewVecDense(4, nil)
	for i := 0; i < 4; i++ {
		gain.SetVec(i, pht.At(i, 0)/s)
	}

	// State update: x = xPred + K y.
	var xNew mat.VecDense
	xNew.AddScaledVec(&xPred, y, gain)
	k.x = &xNew

	// Covariance update: P = (I - K H) pPred, symmetrized to guard against
	// drift from floating-point rounding across many iterations.
	var kh mat.Dense
	kh.Mul(gain, k.h)
	var ikh mat.Dense
	ikh.Sub(identity4(), &kh)
	var pNew mat.Dense
	pNew.Mul(&ikh, &pPred)
	symmetrize(&pNew)
	k.p = &pNew

	k.iterations++
}

func identity4() *mat.Dense {
	m := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		m.Set(i, i, 1)
	}
	return m
}

func symmetrize(m *mat.Dense) {
	r, _ := m.Dims()
	for i := 0; i < r; i++ {
		for j := i + 1; j < r; j++ {
			avg := (m.At(i, j) + m.At(j, i)) / 2
			m.Set(i, j, avg)
			m.Set(j, i, avg)
		}
	}
}

func (k *kalmanAxisPredictor) stable() bool {
	return k.iterations >= k.params.MinStableIteration
}

func (k *kalmanAxisPredictor) position() float64     { return k.x.AtVec(0) }
func (k *kalmanAxisPredictor) velocity() float64     { return k.x.AtVec(1) }
func (k *kalmanAxisPredictor) acceleration() float64 { return k.x.AtVec(2) }
func (k *kalmanAxisPredictor) jerk() float64         { return k.x.AtVec(3) }

func (k *kalmanAxisPredictor) save() {
	k.savedX = mat.VecDenseCopyOf(k.x)
	k.savedP = mat.DenseCopyOf(k.p)
	k.savedIterations = k.iterations
	k.saveActive = true
}

func (k *kalmanAxisPredictor) restore() {
	if !k.saveActive {
		return
	}
	k.x = mat.VecDenseCopyOf(k.savedX)
	k.p = mat.DenseCopyOf(k.savedP)
	k.iterations = k.savedIterations
}

// clone returns an independent copy, used by the 2D predictor's
// construct_prediction to run speculative extrapolation without mutating
// live state.
func (k *kalmanAxisPredictor) clone() *kalmanAxisPredictor {
	c := &kalmanAxisPredictor{
		params:     k.params,
		f:          k.f,
		h:          k.h,
		q:          k.q,
		r:          k.r,
		iterations: k.iterations,
		x:          mat.VecDenseCopyOf(k.x),
		p:          mat.DenseCopyOf(k.p),
	}
	return c
}
