package strokemodel

import "math"

// positionModeler runs the Euler-integrated spring-mass system that drags
// the tip toward an anchor each step (§4.3), composed with loop-contraction
// mitigation (§4.4).
type positionModeler struct {
	params PositionModelerParams

	current TipState
	rawPolyline []Vec2 // raw (uncorrected) input positions seen this stroke, for loop-contraction mitigation's nearest-point lookup

	mitigator *loopContractionMitigationModeler

	saved       TipState
	savedPolyline []Vec2
	saveActive  bool
}

func newPositionModeler(params PositionModelerParams) *positionModeler {
	return &positionModeler{
		params:    params,
		mitigator: newLoopContractionMitigationModeler(params.LoopContractionMitigation),
	}
}

// reset installs initial as the current state, clears the raw polyline and
// any save, per spec §4.3.
func (m *positionModeler) reset(initial TipState) {
	m.current = initial
	m.rawPolyline = m.rawPolyline[:0]
	m.rawPolyline = append(m.rawPolyline, initial.Position)
	m.mitigator.reset()
	m.saveActive = false
}

// step advances the spring-mass integrator by one Δt toward anchor,
// returning the new raw (unmitigated) TipState.
func (m *positionModeler) step(anchor Vec2, dt float64) TipState {
	k := m.params.SpringMassConstant
	d := m.params.DragConstant

	accel := anchor.Sub(m.current.Position).Div(k).Sub(m.current.Velocity.Scale(d))
	velocity := m.current.Velocity.Add(accel.Scale(dt))
	position := m.current.Position.Add(velocity.Scale(dt))

	m.current = TipState{
		Position:     position,
		Velocity:     velocity,
		Acceleration: accel,
		Time:         m.current.Time + Time(dt),
	}
	return m.current
}

// applyMitigation replaces a raw position with the loop-contraction blend,
// lerp(nearest_point_on_raw_polyline, position, alpha).
func (m *positionModeler) applyMitigation(raw TipState, speed float64) TipState {
	m.mitigator.update(speed, raw.Time)
	alpha := m.mitigator.interpolationValue()
	if alpha >= 1 || len(m.rawPolyline) == 0 {
		return raw
	}
	nearest := m.nearestPointOnRawPolyline(raw.Position)
	mitigated := raw
	mitigated.Position = lerpVec2(nearest, raw.Position, alpha)
	m.current.Position = mitigated.Position
	return mitigated
}

func (m *positionModeler) nearestPointOnRawPolyline(p Vec2) Vec2 {
	if len(m.rawPolyline) == 1 {
		return m.rawPolyline[0]
	}
	best := m.rawPolyline[0]
	bestDist := math.Inf(1)
	for i := 0; i+1 < len(m.rawPolyline); i++ {
		s, e := m.rawPolyline[i], m.rawPolyline[i+1]
		u := nearestPointOnSegment(s, e, p)
		candidate := lerpVec2(s, e, u)
		d := distance(candidate, p)
		if d <= bestDist {
			bestDist = d
			best = candidate
		}
	}
	return best
}

// update advances one step to time t using anchor, returning the resulting
// (mitigated) TipState.
func (m *positionModeler) update(anchor Vec2, t Time) TipState {
	dt := float64(t.Sub(m.current.Time))
	prevPos := m.current.Position
	raw := m.step(anchor, dt)
	speed := 0.0
	if dt > 0 {
		speed = distance(prevPos, raw.Position) / dt
	}
	return m.applyMitigation(raw, speed)
}

// updateAlongLinearPath emits exactly nSteps TipStates at evenly spaced
// times between tStart (exclusive) and tEnd (inclusive), with anchor
// linearly interpolated between anchorStart and anchorEnd.
func (m *positionModeler) updateAlongLinearPath(anchorStart Vec2, tStart Time, anchorEnd Vec2, tEnd Time, nSteps int, sink *[]TipState) {
	if nSteps <= 0 {
		return
	}
	totalDt := float64(tEnd.Sub(tStart))
	stepDt := totalDt / float64(nSteps)
	for i := 1; i <= nSteps; i++ {
		frac := float64(i) / float64(nSteps)
		anchor := lerpVec2(anchorStart, anchorEnd, frac)
		ts := m.update(anchor, tStart+Time(float64(i)*stepDt))
		*sink = append(*sink, ts)
	}
}

// modelEndOfStroke emits up to maxIterations additional TipStates after the
// current state, stepping toward finalAnchor at increments of dt. Before each
// step it checks the current position and stops, without emitting, once that
// position is within stoppingDistance of finalAnchor; the size of the last
// step is not checked.
func (m *positionModeler) modelEndOfStroke(finalAnchor Vec2, dt float64, maxIterations int, stoppingDistance float64, sink *[]TipState) {
	for i := 0; i < maxIterations; i++ {
		if distance(m.current.Position, finalAnchor) <= stoppingDistance {
			break
		}
		ts := m.update(finalAnchor, m.current.Time+Time(dt))
		*sink = append(*sink, ts)
	}
}

// currentState returns the modeler's current TipState without advancing it.
func (m *positionModeler) currentState() TipState {
	return m.current
}

// recordRawInput appends p to the raw polyline consulted by loop-contraction
// mitigation's nearest-point lookup.
func (m *positionModeler) recordRawInput(p Vec2) {
	m.rawPolyline = append(m.rawPolyline, p)
}

func (m *positionModeler) save() {
	m.saved = m.current
	if cap(m.savedPolyline) < len(m.rawPolyline) {
		m.savedPolyline = make([]Vec2, len(m.rawPolyline))
	} else {
		m.savedPolyline = m.savedPolyline[:len(m.rawPolyline)]
	}
	copy(m.savedPolyline, m.rawPolyline)
	m.saveActive = true
	m.mitigator.save()
}

func (m *positionModeler) restore() {
	if !m.saveActive {
		return
	}
	m.current = m.saved
	if cap(m.rawPolyline) < len(m.savedPolyline) {
		m.rawPolyline = make([]Vec2, len(m.savedPolyline))
	} else {
		m.rawPolyline = m.rawPolyline[:len(m.savedPolyline)]
	}
	copy(m.rawPolyline, m.savedPolyline)
	m.mitigator.restore()
}

// numberOfSteps computes n_steps for the upsampling rule in §4.3, returning
// an InvalidArgument error if the clamp against maxOutputsPerCall would be
// triggered. When angleBound is in (0, pi), it applies the secondary
// angle-traversal-doubling rule by speculatively integrating one proposed
// step with a throwaway copy of the current state.
func (m *positionModeler) numberOfSteps(anchorEnd Vec2, dtTotal float64, sampling SamplingParams) (int, error) {
	// The reference implementation computes this step count from a
	// single-precision copy of the time delta; replicate that truncation
	// verbatim rather than compute n_steps purely in float64; on ratios
	// that land exactly on an integer boundary in float64 (e.g. 1/30 at
	// 180Hz == 6.0) it rounds up one step further than the float64-only
	// formula would.
	n := int(math.Ceil(float64(float32(dtTotal)) * sampling.MinOutputRate))
	if n < 1 {
		n = 1
	}
	if sampling.MaxEstimatedAngleToTraversePerInput > 0 {
		stepDt := dtTotal / float64(n)
		scratch := *m
		scratch.rawPolyline = nil
		oldVelocity := scratch.current.Velocity
		scratch.step(anchorEnd, stepDt)
		newVelocity := scratch.current.Velocity
		if angle := angleBetween(oldVelocity, newVelocity); angle > sampling.MaxEstimatedAngleToTraversePerInput {
			n *= 2
		}
	}
	if n > sampling.MaxOutputsPerCall {
		return 0, invalidArgf("upsampling would require %d outputs, exceeding max_outputs_per_call=%d", n, sampling.MaxOutputsPerCall)
	}
	return n, nil
}

// angleBetween returns the unsigned angle, in [0, pi], between two vectors.
// Zero vectors are treated as having no well-defined direction and yield an
// angle of 0.
func angleBetween(a, b Vec2) float64 {
	am, bm := a.Magnitude(), b.Magnitude()
	if am == 0 || bm == 0 {
		return 0
	}
	cos := clamp(a.Dot(b)/(am*bm), -1, 1)
	return math.Acos(cos)
}
