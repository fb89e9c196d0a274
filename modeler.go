package strokemodel

// state is the orchestrator's lifecycle state (§4.9).
type state int

const (
	stateUninitialized state = iota
	stateIdle
	stateInStroke
)

// StrokeModeler is the public entry point: it drives the wobble smoother,
// position modeler, stylus-state modeler, and predictor chain in lockstep
// across a single stroke's lifetime (§4.9). It is not safe for concurrent
// use; model independent strokes with independent StrokeModelers.
type StrokeModeler struct {
	state  state
	params StrokeModelParams

	wobble  *wobbleSmoother
	pos     *positionModeler
	stylus  *stylusStateModeler
	pred    predictor
	scratch *positionModeler // throwaway copy used by Predict

	strokeSeq int // supplemental: number of Down events seen since Reset(params)

	lastRaw        Input
	haveLastRaw    bool
	lastCorrected  Vec2

	savedState        state
	savedLastRaw      Input
	savedHaveLastRaw  bool
	savedLastCorrected Vec2
	savedStrokeSeq    int
	saveActive        bool

	// Debug, if non-nil, receives printf-style messages for recoverable
	// anomalies that don't warrant an error return (never for control
	// flow). Defaults to a no-op, consistent with the rest of this
	// package's "print, don't fail" posture on such cases.
	Debug func(format string, args ...any)
}

// NewStrokeModeler constructs a StrokeModeler in the Uninitialized state.
// Reset(params) must be called before any other method.
func NewStrokeModeler() *StrokeModeler {
	return &StrokeModeler{state: stateUninitialized, Debug: func(string, ...any) {}}
}

func (m *StrokeModeler) debugf(format string, args ...any) {
	if m.Debug != nil {
		m.Debug(format, args...)
	}
}

// Reset installs params, validating it first. On success the modeler
// transitions to Idle (discarding any in-progress stroke). On failure the
// modeler's state is unchanged.
func (m *StrokeModeler) Reset(params StrokeModelParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	m.params = params
	m.wobble = newWobbleSmoother(params.WobbleSmoother)
	m.pos = newPositionModeler(params.Position)
	m.stylus = newStylusStateModeler(params.StylusState)
	m.pred = newPredictor(params)
	m.scratch = newPositionModeler(params.Position)
	m.strokeSeq = 0
	m.haveLastRaw = false
	m.saveActive = false
	m.state = stateIdle
	return nil
}

// ResetStroke aborts any in-progress stroke without emitting a terminal
// Result, returning to Idle. It is a FailedPrecondition to call before the
// first successful Reset(params).
func (m *StrokeModeler) ResetStroke() error {
	if m.state == stateUninitialized {
		return failedPreconditionf("ResetStroke called before Reset(params)")
	}
	m.wobble.reset(m.lastRaw.Position, m.lastRaw.Time)
	m.pos.reset(TipState{})
	m.stylus.reset()
	m.pred.reset(Vec2{})
	m.haveLastRaw = false
	m.saveActive = false
	m.state = stateIdle
	return nil
}

// Update feeds in a raw input event, appending zero or more Results to
// *sink in arrival order. On error, *sink and the modeler's state are left
// unchanged.
func (m *StrokeModeler) Update(in Input, sink *[]Result) error {
	if m.state == stateUninitialized {
		return failedPreconditionf("Update called before Reset(params)")
	}
	if !in.finite() {
		return invalidArgf("input position and time must be finite")
	}

	if m.haveLastRaw {
		if in.Equal(m.lastRaw) {
			return invalidArgf("duplicate input")
		}
		if in.Time < m.lastRaw.Time {
			return invalidArgf("input time %v is before last input time %v", in.Time, m.lastRaw.Time)
		}
		if in.Time == m.lastRaw.Time && in.EventType != EventTypeUp {
			return invalidArgf("input time %v does not advance past last input time", in.Time)
		}
	}

	switch in.EventType {
	case EventTypeDown:
		return m.handleDown(in, sink)
	case EventTypeMove:
		return m.handleMove(in, sink)
	case EventTypeUp:
		return m.handleUp(in, sink)
	default:
		return invalidArgf("unknown event type %v", in.EventType)
	}
}

func (m *StrokeModeler) handleDown(in Input, sink *[]Result) error {
	if m.state == stateInStroke {
		return failedPreconditionf("Down received while InStroke")
	}

	m.wobble.reset(in.Position, in.Time)
	initial := TipState{Position: in.Position, Time: in.Time}
	m.pos.reset(initial)
	m.stylus.reset()
	m.stylus.update(in.Position, in.Time, in.Pressure, in.Tilt, in.Orientation)
	m.pred.reset(in.Position)
	m.pred.update(in.Position, in.Time)

	m.lastRaw = in
	m.haveLastRaw = true
	m.lastCorrected = in.Position
	m.strokeSeq++
	m.state = stateInStroke

	result := m.assembleResult(initial)
	*sink = append(*sink, result)
	return nil
}

func (m *StrokeModeler) handleMove(in Input, sink *[]Result) error {
	if m.state != stateInStroke {
		return failedPreconditionf("Move received while not InStroke")
	}

	// Smooth on a copy of the wobble smoother, committed only once the step
	// count is accepted, so a rejected input leaves it untouched.
	wobble := *m.wobble
	correctedP := wobble.update(in.Position, in.Time)

	var tips []TipState
	n, err := m.pos.numberOfSteps(correctedP, float64(in.Time.Sub(m.lastRaw.Time)), m.params.Sampling)
	if err != nil {
		return err
	}
	*m.wobble = wobble
	m.pos.recordRawInput(in.Position)
	m.pos.updateAlongLinearPath(m.lastCorrected, m.lastRaw.Time, correctedP, in.Time, n, &tips)

	m.stylus.update(correctedP, in.Time, in.Pressure, in.Tilt, in.Orientation)
	m.pred.update(correctedP, in.Time)

	for _, tip := range tips {
		*sink = append(*sink, m.assembleResult(tip))
	}

	m.lastRaw = in
	m.lastCorrected = correctedP
	return nil
}

func (m *StrokeModeler) handleUp(in Input, sink *[]Result) error {
	if m.state != stateInStroke {
		return failedPreconditionf("Up received while not InStroke")
	}

	// As in handleMove, the wobble smoother is committed only on success.
	wobble := *m.wobble
	correctedP := wobble.update(in.Position, in.Time)

	var tips []TipState
	dtTotal := float64(in.Time.Sub(m.lastRaw.Time))
	if dtTotal > 0 {
		n, err := m.pos.numberOfSteps(correctedP, dtTotal, m.params.Sampling)
		if err != nil {
			return err
		}
		m.pos.recordRawInput(in.Position)
		m.pos.updateAlongLinearPath(m.lastCorrected, m.lastRaw.Time, correctedP, in.Time, n, &tips)

		// The end-of-stroke tail runs only for an Up that advances time; an
		// Up sharing the last input's timestamp emits the current state alone.
		endDt := 1 / m.params.Sampling.MinOutputRate
		m.pos.modelEndOfStroke(correctedP, endDt, m.params.Sampling.EndOfStrokeMaxIterations, m.params.Sampling.EndOfStrokeStoppingDistance, &tips)
	}
	*m.wobble = wobble

	if len(tips) == 0 {
		m.debugf("Up shares the last input's timestamp; emitting current tip state unchanged")
		tips = append(tips, m.pos.currentState())
	}

	m.stylus.update(correctedP, in.Time, in.Pressure, in.Tilt, in.Orientation)
	m.pred.update(correctedP, in.Time)

	for _, tip := range tips {
		*sink = append(*sink, m.assembleResult(tip))
	}

	m.lastRaw = in
	m.haveLastRaw = true
	m.lastCorrected = correctedP
	m.state = stateIdle
	return nil
}

// assembleResult queries the stylus-state modeler at tip's position and
// fills in the kinematic fields from tip itself.
func (m *StrokeModeler) assembleResult(tip TipState) Result {
	normal, haveNormal := strokeNormal(tip, m.lastRaw.Time)
	r := m.stylus.query(tip, normal, haveNormal)
	r.Position = tip.Position
	r.Velocity = tip.Velocity
	r.Acceleration = tip.Acceleration
	r.Time = tip.Time
	return r
}

// Predict constructs a short-horizon forward extrapolation of the stroke
// without mutating any modeler state, appending the resulting Results to
// *sink in order. It is a FailedPrecondition to call while Idle, or with a
// disabled predictor.
func (m *StrokeModeler) Predict(sink *[]Result) error {
	if m.state != stateInStroke {
		return failedPreconditionf("Predict called while not InStroke")
	}
	clone := m.pred.clone()
	tips, err := clone.predictInto(m.scratch, m.pos.currentState(), m.params.Sampling)
	if err != nil {
		return err
	}
	if len(tips) == 0 {
		m.debugf("Predict produced no samples; the Kalman filter is not yet stable, or the stroke-end model is already at rest")
	}
	for _, tip := range tips {
		*sink = append(*sink, m.assembleResult(tip))
	}
	return nil
}

// Save snapshots the modeler's current state, overwriting any prior save.
// Infallible.
func (m *StrokeModeler) Save() {
	if m.state == stateUninitialized {
		return
	}
	m.wobble.save()
	m.pos.save()
	m.stylus.save()
	m.pred.save()
	m.savedState = m.state
	m.savedLastRaw = m.lastRaw
	m.savedHaveLastRaw = m.haveLastRaw
	m.savedLastCorrected = m.lastCorrected
	m.savedStrokeSeq = m.strokeSeq
	m.saveActive = true
}

// Restore reverts to the last Save. A no-op if no save exists. Infallible.
func (m *StrokeModeler) Restore() {
	if !m.saveActive {
		return
	}
	m.wobble.restore()
	m.pos.restore()
	m.stylus.restore()
	m.pred.restore()
	m.state = m.savedState
	m.lastRaw = m.savedLastRaw
	m.haveLastRaw = m.savedHaveLastRaw
	m.lastCorrected = m.savedLastCorrected
	m.strokeSeq = m.savedStrokeSeq
}

// StrokeSequence returns the number of Down events accepted since the last
// Reset(params), supplementing the core contract with a lightweight stroke
// counter useful for correlating emitted Results with the stroke that
// produced them in a client's own logging.
func (m *StrokeModeler) StrokeSequence() int {
	return m.strokeSeq
}
